package server

import (
	"bytes"
	"mime"
	"net/http"
	"net/url"
	"path"

	"git.home.luguber.info/inful/pagefill/internal/dom"
	"git.home.luguber.info/inful/pagefill/internal/fetch"
	"git.home.luguber.info/inful/pagefill/internal/foundation/errors"
	"git.home.luguber.info/inful/pagefill/internal/resolve"
)

// LoadIDHeader carries the load cycle ID on rendered responses.
const LoadIDHeader = "X-Load-ID"

// handlePage renders the shell for the page named by the request path:
// "/about" loads the "about" fragment and "/" the home page.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	raw, err := s.opts.Fetcher.Fetch(ctx, s.opts.ShellPath)
	if err != nil {
		s.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	shell, err := dom.Parse(bytes.NewReader(raw))
	if err != nil {
		s.errorAdapter.WriteErrorResponse(w, r, errors.WrapError(err, errors.CategoryMalformedData, "failed to parse shell document").Build())
		return
	}

	res, err := s.opts.Loader.Load(ctx, shell, navigationURL(r))
	if res == nil {
		s.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	if res.Redirect != nil {
		target := *res.Redirect
		target.Fragment = ""
		http.Redirect(w, r, target.String(), http.StatusMovedPermanently)
		return
	}

	var buf bytes.Buffer
	if err := dom.Render(&buf, res.Document); err != nil {
		s.errorAdapter.WriteErrorResponse(w, r, errors.WrapError(err, errors.CategoryInternal, "failed to render document").Build())
		return
	}

	status := http.StatusOK
	if res.Fallback {
		status = http.StatusNotFound
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set(LoadIDHeader, res.LoadID)
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// handleStatic passes site resources through unmodified.
func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	body, err := s.opts.Fetcher.Fetch(r.Context(), r.URL.Path)
	if err != nil {
		if code := fetch.StatusCode(err); code == http.StatusNotFound || code == http.StatusBadRequest {
			http.Error(w, http.StatusText(code), code)
			return
		}
		s.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	if ct := mime.TypeByExtension(path.Ext(r.URL.Path)); ct != "" {
		w.Header().Set("Content-Type", ct)
	} else {
		w.Header().Set("Content-Type", http.DetectContentType(body))
	}
	_, _ = w.Write(body)
}

// navigationURL reconstructs the absolute URL the client asked for, with the
// page fragment taken from the path.
func navigationURL(r *http.Request) *url.URL {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto == "http" || proto == "https" {
		scheme = proto
	}
	u := &url.URL{
		Scheme:   scheme,
		Host:     r.Host,
		Path:     r.URL.Path,
		RawPath:  r.URL.RawPath,
		RawQuery: r.URL.RawQuery,
	}
	u.Fragment = resolve.FragmentFromPath(r.URL.Path)
	return u
}
