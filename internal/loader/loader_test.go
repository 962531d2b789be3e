package loader

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"git.home.luguber.info/inful/pagefill/internal/dom"
	"git.home.luguber.info/inful/pagefill/internal/fetch"
	"git.home.luguber.info/inful/pagefill/internal/foundation/errors"
	"git.home.luguber.info/inful/pagefill/internal/metrics"
	"git.home.luguber.info/inful/pagefill/internal/normalize"
)

const testShell = `<!DOCTYPE html>
<html><head>
<title>{{page.title}} | {{site.title}}</title>
<meta name="description" content="{{page.description}}">
<link rel="canonical" href="{{page.canonicalurl}}">
</head><body>
<header class="content-component"><a href="/" title="{{site.title}}">{{site.title}}</a></header>
<main id="article-content" class="content-component"></main>
<footer class="content-component"><p>{{site.copyright}}</p><code>{{site.title}}</code></footer>
</body></html>`

const siteJSON = `{"domain":"example.test","published":"2020-01-01","title":"Acme","homecontentfile":"home.html"}`

const aboutHTML = `<script type="application/json">{"slug":"about","title":"About","description":"About us"}</script>
<h2>{{page.title}}</h2><p>Welcome to {{site.title}}.</p>`

const homeHTML = `<script type="application/json">{"slug":"","title":"Home"}</script><p>home</p>`

func testSite() fstest.MapFS {
	return fstest.MapFS{
		"src/data/data.json":     {Data: []byte(siteJSON)},
		"src/content/about.html": {Data: []byte(aboutHTML)},
		"src/content/home.html":  {Data: []byte(homeHTML)},
	}
}

func parseShell(t *testing.T) *goquery.Document {
	t.Helper()
	doc, err := dom.Parse(strings.NewReader(testShell))
	require.NoError(t, err)
	return doc
}

func fixedClock() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }

func newTestLoader(f fetch.Fetcher, opts ...Option) *Loader {
	opts = append([]Option{
		WithClock(fixedClock),
		WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))),
	}, opts...)
	return New(DefaultSettings(), f, opts...)
}

func navTo(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestLoad_RendersPage(t *testing.T) {
	l := newTestLoader(fetch.NewFSFetcher(testSite()))
	doc := parseShell(t)

	res, err := l.Load(testContext(t), doc, navTo(t, "http://example.test/#about"))
	require.NoError(t, err)
	require.Equal(t, PhaseDone, res.Phase)
	require.NotEmpty(t, res.LoadID)
	require.Equal(t, "./src/content/about.html", res.ContentPath)
	require.False(t, res.Fallback)

	require.Equal(t, "About | Acme", doc.Find("title").Text())
	require.Equal(t, "About us", doc.Find(`meta[name="description"]`).AttrOr("content", ""))
	require.Equal(t, "https://example.test/about/", doc.Find(`link[rel="canonical"]`).AttrOr("href", ""))
	require.Equal(t, "Acme", doc.Find("header a").AttrOr("title", ""))
	require.Equal(t, "Acme", doc.Find("header a").Text())

	article := doc.Find("#article-content")
	require.Equal(t, "About", article.Find("h2").Text())
	require.Equal(t, "Welcome to Acme.", article.Find("p").Text())
	require.Zero(t, article.Find("script").Length(), "metadata block must not be inserted")

	require.Equal(t, "\u00a9\u00a02020 - 2024 Acme", doc.Find("footer p").Text())
	require.Equal(t, "{{site.title}}", doc.Find("footer code").Text())
}

func TestLoad_HomePageWithoutFragment(t *testing.T) {
	l := newTestLoader(fetch.NewFSFetcher(testSite()))
	doc := parseShell(t)

	res, err := l.Load(testContext(t), doc, nil)
	require.NoError(t, err)
	require.Equal(t, "./src/content/home.html", res.ContentPath)
	require.Equal(t, "Home", res.Page.Title)
	require.Equal(t, "https://example.test", res.Page.CanonicalURL)
	require.Equal(t, "home", doc.Find("#article-content p").Text())
}

// recordingServer serves files and remembers every requested path.
type recordingServer struct {
	mu    sync.Mutex
	files map[string]string
	seen  []string
}

func (s *recordingServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.seen = append(s.seen, r.URL.Path)
	body, ok := s.files[r.URL.Path]
	s.mu.Unlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	_, _ = w.Write([]byte(body))
}

func TestLoad_MissingPageFallsBackWithFetchFailure(t *testing.T) {
	srv := &recordingServer{files: map[string]string{"/data/data.json": siteJSON}}
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	f, err := fetch.NewHTTPFetcher(ts.URL, nil)
	require.NoError(t, err)

	var logs bytes.Buffer
	settings := Settings{DataDir: "/data/", ContentDir: "/content/"}
	l := New(settings, f, WithClock(fixedClock), WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))
	doc := parseShell(t)

	res, err := l.Load(testContext(t), doc, navTo(t, "http://example.test/#about"))
	require.Error(t, err)
	require.Equal(t, []string{"/data/data.json", "/content/about.html"}, srv.seen)

	require.NoError(t, res.SiteErr)
	require.True(t, errors.HasCategory(res.PageErr, errors.CategoryFetch))
	require.Equal(t, http.StatusNotFound, fetch.StatusCode(res.PageErr))
	require.True(t, res.Fallback)

	inner, err := doc.Find("#article-content").Html()
	require.NoError(t, err)
	require.Equal(t, DefaultFallbackHTML, inner)

	require.Contains(t, logs.String(), "Load phase failed")
	require.Contains(t, logs.String(), "failed to load content: 404")

	// Render still runs against the fallback shell.
	require.Equal(t, "{{page.title}} | Acme", doc.Find("title").Text())
	require.Equal(t, PhaseDone, res.Phase)
}

func TestLoad_MissingFrontmatterFallsBack(t *testing.T) {
	site := testSite()
	site["src/content/bare.html"] = &fstest.MapFile{Data: []byte(`<h2>No metadata</h2>`)}
	l := newTestLoader(fetch.NewFSFetcher(site))
	doc := parseShell(t)

	res, err := l.Load(testContext(t), doc, navTo(t, "/#bare"))
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryMissingFrontmatter))
	require.True(t, res.Fallback)

	inner, err := doc.Find("#article-content").Html()
	require.NoError(t, err)
	require.Equal(t, DefaultFallbackHTML, inner)
}

func TestLoad_InvalidFrontmatterFallsBack(t *testing.T) {
	site := testSite()
	site["src/content/broken.html"] = &fstest.MapFile{Data: []byte(`<script type="application/json">{nope</script><p>x</p>`)}
	l := newTestLoader(fetch.NewFSFetcher(site))

	res, err := l.Load(testContext(t), parseShell(t), navTo(t, "/#broken"))
	require.True(t, errors.HasCategory(err, errors.CategoryInvalidFrontmatter))
	require.True(t, res.Fallback)
	require.Empty(t, res.Page.Title)
}

func TestLoad_SiteFailureContinuesWithoutSiteKeys(t *testing.T) {
	site := testSite()
	delete(site, "src/data/data.json")
	l := newTestLoader(fetch.NewFSFetcher(site))
	doc := parseShell(t)

	res, err := l.Load(testContext(t), doc, navTo(t, "/#about"))
	require.Error(t, err)
	require.True(t, errors.HasCategory(res.SiteErr, errors.CategoryFetch))
	require.NoError(t, res.PageErr)
	require.False(t, res.Fallback)

	require.Equal(t, "About | {{site.title}}", doc.Find("title").Text())
	require.NotContains(t, res.Table, "site.title")
	require.Equal(t, "About", res.Table["page.title"])
}

func TestLoad_MalformedSiteData(t *testing.T) {
	site := testSite()
	site["src/data/data.json"] = &fstest.MapFile{Data: []byte(`{"title":`)}
	l := newTestLoader(fetch.NewFSFetcher(site))

	res, err := l.Load(testContext(t), parseShell(t), navTo(t, "/#about"))
	require.True(t, errors.HasCategory(err, errors.CategoryMalformedData))
	require.True(t, errors.HasCategory(res.SiteErr, errors.CategoryMalformedData))
	require.NoError(t, res.PageErr)
}

func TestLoad_UntitledSiteContributesNoKeys(t *testing.T) {
	site := testSite()
	site["src/data/data.json"] = &fstest.MapFile{Data: []byte(`{"domain":"example.test","homecontentfile":"home.html"}`)}
	l := newTestLoader(fetch.NewFSFetcher(site))

	res, err := l.Load(testContext(t), parseShell(t), nil)
	require.NoError(t, err)
	for k := range res.Table {
		require.False(t, strings.HasPrefix(k, "site."), k)
	}
	require.Empty(t, res.Site.Copyright)
}

func TestLoad_RedirectStopsCycle(t *testing.T) {
	fsys := fstest.MapFS{}
	l := newTestLoader(fetch.NewFSFetcher(fsys), WithNormalizer(normalize.New(normalize.Options{ForceHTTPS: true})))
	doc := parseShell(t)

	res, err := l.Load(testContext(t), doc, navTo(t, "http://example.test/about"))
	require.NoError(t, err)
	require.NotNil(t, res.Redirect)
	require.Equal(t, "https://example.test/about", res.Redirect.String())
	require.Equal(t, PhaseNormalize, res.Phase)
	require.Equal(t, "{{page.title}} | {{site.title}}", doc.Find("title").Text())
}

func TestLoad_StateResetsBetweenCycles(t *testing.T) {
	l := newTestLoader(fetch.NewFSFetcher(testSite()))

	first, err := l.Load(testContext(t), parseShell(t), navTo(t, "/#about"))
	require.NoError(t, err)
	require.Equal(t, "About", first.Table["page.title"])

	second, err := l.Load(testContext(t), parseShell(t), navTo(t, "/#missing"))
	require.Error(t, err)
	require.NotContains(t, second.Table, "page.title")
	require.NotEqual(t, first.LoadID, second.LoadID)
	require.Equal(t, "About", first.Table["page.title"], "earlier results are untouched")
}

func TestLoad_ReusedContentStaysIntact(t *testing.T) {
	l := newTestLoader(fetch.NewFSFetcher(testSite()))
	res, err := l.Load(testContext(t), parseShell(t), navTo(t, "/#about"))
	require.NoError(t, err)

	require.NotNil(t, res.Content)
	var tags []string
	for _, n := range res.Content.Nodes {
		if n.Type == html.ElementNode {
			tags = append(tags, n.Data)
		}
	}
	require.Equal(t, []string{"h2", "p"}, tags)
	require.Equal(t, "{{page.title}}", res.Content.Nodes[1].FirstChild.Data, "parsed fragment keeps its original text")
}

func TestLoad_MissingContainer(t *testing.T) {
	l := newTestLoader(fetch.NewFSFetcher(testSite()))
	doc, err := dom.Parse(strings.NewReader(`<html><head><title>{{site.title}}</title></head><body></body></html>`))
	require.NoError(t, err)

	res, err := l.Load(testContext(t), doc, nil)
	require.True(t, errors.HasCategory(err, errors.CategoryValidation))
	require.False(t, res.Fallback)
	require.Equal(t, "Acme", doc.Find("title").Text())
}

func TestLoad_NilShell(t *testing.T) {
	_, err := newTestLoader(fetch.NewFSFetcher(testSite())).Load(testContext(t), nil, nil)
	require.True(t, errors.HasCategory(err, errors.CategoryValidation))
}

func TestLoad_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(testContext(t))
	cancel()

	res, err := newTestLoader(fetch.NewFSFetcher(testSite())).Load(ctx, parseShell(t), nil)
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryRuntime))
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, res.Table)
}

type countingRecorder struct {
	metrics.NoopRecorder
	outcomes   map[metrics.OutcomeLabel]int
	fetches    map[string]int
	unresolved int
}

func (c *countingRecorder) IncLoadOutcome(o metrics.OutcomeLabel) { c.outcomes[o]++ }
func (c *countingRecorder) IncFetch(kind string, _ bool)          { c.fetches[kind]++ }
func (c *countingRecorder) AddUnresolvedPlaceholders(n int)       { c.unresolved += n }

func TestLoad_RecordsMetrics(t *testing.T) {
	rec := &countingRecorder{outcomes: map[metrics.OutcomeLabel]int{}, fetches: map[string]int{}}
	l := newTestLoader(fetch.NewFSFetcher(testSite()), WithRecorder(rec))

	_, err := l.Load(testContext(t), parseShell(t), navTo(t, "/#about"))
	require.NoError(t, err)
	_, err = l.Load(testContext(t), parseShell(t), navTo(t, "/#missing"))
	require.Error(t, err)

	require.Equal(t, 1, rec.outcomes[metrics.OutcomeSuccess])
	require.Equal(t, 1, rec.outcomes[metrics.OutcomeFallback])
	require.Equal(t, 2, rec.fetches["data"])
	require.Equal(t, 2, rec.fetches["content"])
	// {{page.title}} in the title of the fallback cycle stays unresolved.
	require.Positive(t, rec.unresolved)
}

// testContext mirrors testing.T.Context (Go 1.24+) for older toolchains:
// the context is canceled when the test finishes.
func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}
