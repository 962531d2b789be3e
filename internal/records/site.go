package records

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// SiteData is the wire shape of the site data document.
type SiteData struct {
	Domain          Text `json:"domain"`
	Published       Text `json:"published"`
	Title           Text `json:"title"`
	Description     Text `json:"description"`
	Author          Text `json:"author"`
	Image           Text `json:"image"`
	HomeSlug        Text `json:"homeslug"`
	HomeContentFile Text `json:"homecontentfile"`
	NewsletterURL   Text `json:"newsletterurl"`
	DonationURL     Text `json:"donationurl"`
}

// DecodeSiteData decodes the site data document. The document must be a JSON object.
func DecodeSiteData(raw []byte) (SiteData, error) {
	var data SiteData
	if err := json.Unmarshal(raw, &data); err != nil {
		return SiteData{}, fmt.Errorf("decode site data: %w", err)
	}
	return data, nil
}

// Site is the site-wide record. It is built once per load and never mutated.
type Site struct {
	Domain          string
	Published       string
	Title           string
	Description     string
	Author          string
	Image           string
	HomeSlug        string
	HomeContentFile string
	NewsletterURL   string
	DonationURL     string
	Copyright       string
}

// NewSite builds the Site record, deriving the copyright line relative to now.
// Copyright stays empty while the title is empty.
func NewSite(data SiteData, now time.Time) Site {
	s := Site{
		Domain:          data.Domain.String(),
		Published:       data.Published.String(),
		Title:           data.Title.String(),
		Description:     data.Description.String(),
		Author:          data.Author.String(),
		Image:           data.Image.String(),
		HomeSlug:        data.HomeSlug.String(),
		HomeContentFile: data.HomeContentFile.String(),
		NewsletterURL:   data.NewsletterURL.String(),
		DonationURL:     data.DonationURL.String(),
	}
	if s.Title != "" {
		s.Copyright = Copyright(s.Published, s.Title, now)
	}
	return s
}

// Kind implements Record.
func (Site) Kind() string { return KindSite }

// Loaded reports whether the record carries a title.
func (s Site) Loaded() bool { return s.Title != "" }

// Fields implements Record.
func (s Site) Fields() []Field {
	return []Field{
		{"domain", s.Domain},
		{"published", s.Published},
		{"title", s.Title},
		{"description", s.Description},
		{"author", s.Author},
		{"image", s.Image},
		{"homeslug", s.HomeSlug},
		{"homecontentfile", s.HomeContentFile},
		{"newsletterurl", s.NewsletterURL},
		{"donationurl", s.DonationURL},
		{"copyright", s.Copyright},
	}
}

var publishedLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006",
}

// Copyright renders "&copy;&nbsp;<start>[ - <now>] <title>". The range is only
// shown when now falls in a later year than published. An unparseable
// published date counts as the current year.
func Copyright(published, title string, now time.Time) string {
	current := now.Year()
	start := current
	for _, layout := range publishedLayouts {
		if t, err := time.Parse(layout, published); err == nil {
			start = t.Year()
			break
		}
	}
	years := strconv.Itoa(start)
	if current > start {
		years += " - " + strconv.Itoa(current)
	}
	return fmt.Sprintf("&copy;&nbsp;%s %s", years, title)
}
