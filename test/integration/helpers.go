package integration

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/pagefill/internal/config"
)

const siteDir = "../testdata/site"

// siteConfig returns the default configuration pointed at the test site.
func siteConfig(t *testing.T) *config.Config {
	t.Helper()
	root, err := filepath.Abs(siteDir)
	require.NoError(t, err)
	cfg := config.Default()
	cfg.Site.Root = root
	cfg.Build.Output = filepath.Join(t.TempDir(), "public")
	return cfg
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// pageSummary is the part of a rendered page the tests assert on.
type pageSummary struct {
	Title       string
	Description string
	Canonical   string
	Heading     string
	LogoAlt     string
}

func summarize(t *testing.T, doc *goquery.Document) pageSummary {
	t.Helper()
	return pageSummary{
		Title:       doc.Find("title").Text(),
		Description: doc.Find(`meta[name="description"]`).AttrOr("content", ""),
		Canonical:   doc.Find(`link[rel="canonical"]`).AttrOr("href", ""),
		Heading:     doc.Find("#article-content h1").First().Text(),
		LogoAlt:     doc.Find("header img").AttrOr("alt", ""),
	}
}

func readDocument(t *testing.T, path string) *goquery.Document {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	doc, err := goquery.NewDocumentFromReader(f)
	require.NoError(t, err)
	return doc
}
