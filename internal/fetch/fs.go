package fetch

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"git.home.luguber.info/inful/pagefill/internal/foundation/errors"
)

// FSFetcher reads resources from a filesystem rooted at the site directory.
type FSFetcher struct {
	fsys fs.FS
}

// NewFSFetcher returns a fetcher over fsys.
func NewFSFetcher(fsys fs.FS) *FSFetcher {
	return &FSFetcher{fsys: fsys}
}

// FS exposes the underlying filesystem.
func (f *FSFetcher) FS() fs.FS { return f.fsys }

// Fetch implements Fetcher. Missing files report status 404 so callers can
// treat them like an HTTP miss.
func (f *FSFetcher) Fetch(ctx context.Context, p string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.WrapError(err, errors.CategoryFetch, "failed to load content").WithContext("path", p).Build()
	}
	name, ok := CleanPath(p)
	if !ok {
		return nil, errors.FetchFailure("invalid resource path").
			WithContext("path", p).
			WithContext("status", http.StatusBadRequest).
			Build()
	}
	data, err := fs.ReadFile(f.fsys, name)
	if err != nil {
		status := http.StatusInternalServerError
		if stderrors.Is(err, fs.ErrNotExist) {
			status = http.StatusNotFound
		}
		return nil, errors.WrapError(err, errors.CategoryFetch, fmt.Sprintf("failed to load content: %d", status)).
			WithContext("path", p).
			WithContext("status", status).
			Build()
	}
	return data, nil
}

// CleanPath maps a site path onto an fs.FS name: "./src/data.json" and
// "/src/data.json" both become "src/data.json". Paths escaping the root are
// rejected.
func CleanPath(p string) (string, bool) {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return "", false
		}
	}
	name := strings.TrimPrefix(path.Clean("/"+p), "/")
	if name == "" {
		name = "."
	}
	return name, fs.ValidPath(name)
}
