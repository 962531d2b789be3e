// Package fetch retrieves site resources over HTTP or from a local directory.
package fetch

import (
	"context"
	"os"
	"strings"
	"time"

	"git.home.luguber.info/inful/pagefill/internal/foundation/errors"
)

// Fetcher retrieves the resource at path. Paths are site-relative
// ("./src/data/data.json") or site-absolute ("/content/about.html").
type Fetcher interface {
	Fetch(ctx context.Context, path string) ([]byte, error)
}

// New returns an HTTPFetcher for http(s) roots and an FSFetcher over the
// directory root otherwise. A zero timeout leaves HTTP requests unbounded.
func New(root string, timeout time.Duration) (Fetcher, error) {
	if strings.HasPrefix(root, "http://") || strings.HasPrefix(root, "https://") {
		return NewHTTPFetcher(root, NewHTTPClient(timeout))
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.ConfigError("site root not found").WithCause(err).
			WithContext("root", root).
			Build()
	}
	if !info.IsDir() {
		return nil, errors.ConfigError("site root is not a directory").WithContext("root", root).Build()
	}
	return NewFSFetcher(os.DirFS(root)), nil
}

// StatusCode returns the HTTP status recorded on a fetch failure, or 0.
func StatusCode(err error) int {
	c, ok := errors.AsClassified(err)
	if !ok || c.Category() != errors.CategoryFetch {
		return 0
	}
	if v, ok := c.Context().Get("status"); ok {
		if code, ok := v.(int); ok {
			return code
		}
	}
	return 0
}
