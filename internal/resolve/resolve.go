// Package resolve maps navigation state to the content resource to fetch.
package resolve

import (
	"strings"

	"git.home.luguber.info/inful/pagefill/internal/records"
)

// ContentExt is appended to fragments to form a content path.
const ContentExt = ".html"

// Resolve returns contentDir+fragment+".html" for a non-empty fragment and
// contentDir+site.HomeContentFile otherwise. A leading "#" is ignored.
// Fragments are not checked against any list of known pages; an unknown
// fragment resolves to a path whose fetch fails.
func Resolve(fragment string, site records.Site, contentDir string) string {
	fragment = strings.TrimPrefix(fragment, "#")
	if fragment != "" {
		return contentDir + fragment + ContentExt
	}
	return contentDir + site.HomeContentFile
}

// FragmentFromPath converts an internal link path into the navigation
// fragment it stands for: "/about" becomes "about" and "/" the home page.
func FragmentFromPath(path string) string {
	return strings.Trim(path, "/")
}

// IsInternalLink reports whether href is a site-internal path link, the kind
// of link rewritten into fragment navigation.
func IsInternalLink(href string) bool {
	return strings.HasPrefix(href, "/") && !strings.HasPrefix(href, "//")
}

// SlugFromPath is the inverse of Resolve for files under contentDir:
// "content/about.html" becomes "about". ok is false for non-content files.
func SlugFromPath(path, contentDir string) (slug string, ok bool) {
	rel := strings.TrimPrefix(path, contentDir)
	if rel == path && contentDir != "" {
		return "", false
	}
	if !strings.HasSuffix(rel, ContentExt) {
		return "", false
	}
	return strings.TrimSuffix(rel, ContentExt), true
}
