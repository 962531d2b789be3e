package records

import "strings"

// Frontmatter is the wire shape of a page's embedded metadata block.
type Frontmatter struct {
	ID          Text `json:"id"`
	Slug        Text `json:"slug"`
	Created     Text `json:"created"`
	Modified    Text `json:"modified"`
	Published   Text `json:"published"`
	Type        Text `json:"type"`
	Visibility  Text `json:"visibility"`
	Title       Text `json:"title"`
	Description Text `json:"description"`
	Author      Text `json:"author"`
	Image       Text `json:"image"`
}

// Page is the per-navigation record. A new value is built on every load.
type Page struct {
	ID           string
	Slug         string
	Created      string
	Modified     string
	Published    string
	ContentType  string
	Visibility   string
	Title        string
	Description  string
	Author       string
	Image        string
	CanonicalURL string
}

// NewPage builds the Page record. The canonical URL is only derived when
// the page has a title, matching the site record's copyright rule.
func NewPage(fm Frontmatter, site Site) Page {
	p := Page{
		ID:          fm.ID.String(),
		Slug:        fm.Slug.String(),
		Created:     fm.Created.String(),
		Modified:    fm.Modified.String(),
		Published:   fm.Published.String(),
		ContentType: fm.Type.String(),
		Visibility:  fm.Visibility.String(),
		Title:       fm.Title.String(),
		Description: fm.Description.String(),
		Author:      fm.Author.String(),
		Image:       fm.Image.String(),
	}
	if p.Title != "" {
		p.CanonicalURL = CanonicalURL(site.Domain, p.Slug)
	}
	return p
}

// Kind implements Record.
func (Page) Kind() string { return KindPage }

// Loaded reports whether the record carries a title.
func (p Page) Loaded() bool { return p.Title != "" }

// Fields implements Record. The content type is not listed: its name
// collides with the kind label and is never flattened.
func (p Page) Fields() []Field {
	return []Field{
		{"id", p.ID},
		{"slug", p.Slug},
		{"created", p.Created},
		{"modified", p.Modified},
		{"published", p.Published},
		{"visibility", p.Visibility},
		{"title", p.Title},
		{"description", p.Description},
		{"author", p.Author},
		{"image", p.Image},
		{"canonicalurl", p.CanonicalURL},
	}
}

// CanonicalURL joins domain and slug into an https URL. Slugs longer than one
// character end with a slash; an empty slug yields the bare origin.
func CanonicalURL(domain, slug string) string {
	path := slug
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(slug) > 1 && !strings.HasSuffix(path, "/") {
		path += "/"
	}
	return "https://" + domain + path
}
