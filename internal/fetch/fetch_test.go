package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/pagefill/internal/foundation/errors"
)

func TestHTTPFetcher_ResolvesAgainstBase(t *testing.T) {
	var seen []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.URL.Path)
		switch r.URL.Path {
		case "/site/src/data/data.json", "/content/about.html":
			_, _ = w.Write([]byte("ok"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	f, err := NewHTTPFetcher(server.URL+"/site/", nil)
	require.NoError(t, err)

	body, err := f.Fetch(testContext(t), "./src/data/data.json")
	require.NoError(t, err)
	require.Equal(t, "ok", string(body))

	_, err = f.Fetch(testContext(t), "/content/about.html")
	require.NoError(t, err)
	require.Equal(t, []string{"/site/src/data/data.json", "/content/about.html"}, seen)
}

func TestHTTPFetcher_Non2xxIsFetchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	t.Cleanup(server.Close)

	f, err := NewHTTPFetcher(server.URL, nil)
	require.NoError(t, err)

	_, err = f.Fetch(testContext(t), "/content/missing.html")
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryFetch))
	require.Equal(t, http.StatusNotFound, StatusCode(err))
}

func TestHTTPFetcher_NetworkErrorIsFetchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	f, err := NewHTTPFetcher(url, nil)
	require.NoError(t, err)

	_, err = f.Fetch(testContext(t), "/x")
	require.True(t, errors.HasCategory(err, errors.CategoryFetch))
	require.Zero(t, StatusCode(err))
}

func TestHTTPFetcher_RejectsOversizedBody(t *testing.T) {
	big := make([]byte, MaxResponseBytes+10)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(big)
	}))
	t.Cleanup(server.Close)

	f, err := NewHTTPFetcher(server.URL, nil)
	require.NoError(t, err)
	_, err = f.Fetch(testContext(t), "/big")
	require.ErrorContains(t, err, "response too large")
}

func TestNewHTTPFetcher_InvalidBase(t *testing.T) {
	_, err := NewHTTPFetcher("ftp://example.test", nil)
	require.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestHTTPClient_BlocksCrossHostRedirect(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "http://elsewhere.invalid/data.json", http.StatusFound)
	}))
	t.Cleanup(server.Close)

	f, err := NewHTTPFetcher(server.URL, NewHTTPClient(0))
	require.NoError(t, err)
	_, err = f.Fetch(testContext(t), "/data.json")
	require.ErrorContains(t, err, "redirect to different host blocked")
}

func TestFSFetcher(t *testing.T) {
	fsys := fstest.MapFS{
		"src/data/data.json":     {Data: []byte(`{"title":"Acme"}`)},
		"src/content/about.html": {Data: []byte(`<p>about</p>`)},
	}
	f := NewFSFetcher(fsys)

	body, err := f.Fetch(testContext(t), "./src/data/data.json")
	require.NoError(t, err)
	require.JSONEq(t, `{"title":"Acme"}`, string(body))

	body, err = f.Fetch(testContext(t), "/src/content/about.html")
	require.NoError(t, err)
	require.Equal(t, "<p>about</p>", string(body))

	_, err = f.Fetch(testContext(t), "./src/content/missing.html")
	require.True(t, errors.HasCategory(err, errors.CategoryFetch))
	require.Equal(t, http.StatusNotFound, StatusCode(err))

	_, err = f.Fetch(testContext(t), "./src/content/../../../etc/passwd")
	require.True(t, errors.HasCategory(err, errors.CategoryFetch))
	require.Equal(t, http.StatusBadRequest, StatusCode(err))
}

func TestCleanPath(t *testing.T) {
	cases := map[string]string{
		"./src/data/data.json": "src/data/data.json",
		"/content/about.html":  "content/about.html",
		"content/a.html?x=1":   "content/a.html",
		"/":                    ".",
	}
	for in, want := range cases {
		got, ok := CleanPath(in)
		require.True(t, ok, in)
		require.Equal(t, want, got, in)
	}
	_, ok := CleanPath("../secret")
	require.False(t, ok)
}

func TestNew_PicksImplementation(t *testing.T) {
	f, err := New("https://example.test/", 0)
	require.NoError(t, err)
	require.IsType(t, &HTTPFetcher{}, f)

	f, err = New(t.TempDir(), 0)
	require.NoError(t, err)
	require.IsType(t, &FSFetcher{}, f)

	_, err = New(t.TempDir()+"/missing", 0)
	require.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

// testContext mirrors testing.T.Context (Go 1.24+) for older toolchains:
// the context is canceled when the test finishes.
func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}
