package fetch

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"git.home.luguber.info/inful/pagefill/internal/foundation/errors"
)

// MaxResponseBytes bounds the size of a fetched resource.
const MaxResponseBytes = 5 * 1024 * 1024

// NewHTTPClient creates an HTTP client that refuses cross-host redirects.
// timeout 0 means no client-side timeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) == 0 {
				return nil
			}
			if req.URL.Host != via[0].URL.Host {
				return stderrors.New("redirect to different host blocked")
			}
			if len(via) >= 5 {
				return stderrors.New("too many redirects")
			}
			return nil
		},
	}
}

// HTTPFetcher resolves paths against a base URL and GETs them.
type HTTPFetcher struct {
	base   *url.URL
	client *http.Client
}

// NewHTTPFetcher validates base and returns a fetcher. A nil client gets
// NewHTTPClient(0).
func NewHTTPFetcher(base string, client *http.Client) (*HTTPFetcher, error) {
	parsed, err := url.Parse(base)
	if err != nil {
		return nil, errors.ConfigError("invalid site URL").WithCause(err).WithContext("url", base).Build()
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, errors.ConfigError("unsupported URL scheme").WithContext("scheme", parsed.Scheme).Build()
	}
	if client == nil {
		client = NewHTTPClient(0)
	}
	return &HTTPFetcher{base: parsed, client: client}, nil
}

// Base returns the site URL the fetcher resolves against.
func (f *HTTPFetcher) Base() *url.URL {
	u := *f.base
	return &u
}

// Fetch implements Fetcher. Non-2xx responses are fetch failures.
func (f *HTTPFetcher) Fetch(ctx context.Context, path string) ([]byte, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFetch, "invalid resource path").WithContext("path", path).Build()
	}
	target := f.base.ResolveReference(ref).String()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFetch, "build request").WithContext("url", target).Build()
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFetch, "failed to load content").
			Transient().
			WithContext("url", target).
			Build()
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.FetchFailure(fmt.Sprintf("failed to load content: %d", resp.StatusCode)).
			WithContext("url", target).
			WithContext("status", resp.StatusCode).
			Build()
	}

	limited := io.LimitReader(resp.Body, MaxResponseBytes+1)
	data, err := io.ReadAll(limited)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFetch, "read response").WithContext("url", target).Build()
	}
	if len(data) > MaxResponseBytes {
		return nil, errors.FetchFailure("response too large").WithContext("url", target).Build()
	}
	return data, nil
}
