package resolve

import (
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/pagefill/internal/records"
)

func TestResolve(t *testing.T) {
	site := records.Site{HomeContentFile: "home.html"}

	cases := []struct {
		name       string
		fragment   string
		contentDir string
		want       string
	}{
		{"fragment", "about", "/content/", "/content/about.html"},
		{"hash marker stripped", "#about", "/content/", "/content/about.html"},
		{"nested fragment", "blog/first", "./src/content/", "./src/content/blog/first.html"},
		{"empty selects home", "", "./src/content/", "./src/content/home.html"},
		{"bare hash selects home", "#", "/content/", "/content/home.html"},
		{"unknown fragment is not validated", "does-not-exist", "/content/", "/content/does-not-exist.html"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Resolve(tc.fragment, site, tc.contentDir))
		})
	}
}

func TestResolve_HomeWithoutSiteData(t *testing.T) {
	require.Equal(t, "/content/", Resolve("", records.Site{}, "/content/"))
}

func TestFragmentFromPath(t *testing.T) {
	require.Equal(t, "about", FragmentFromPath("/about"))
	require.Equal(t, "about", FragmentFromPath("/about/"))
	require.Equal(t, "blog/first", FragmentFromPath("/blog/first"))
	require.Equal(t, "", FragmentFromPath("/"))
}

func TestIsInternalLink(t *testing.T) {
	require.True(t, IsInternalLink("/about"))
	require.False(t, IsInternalLink("//cdn.example.test/x.js"))
	require.False(t, IsInternalLink("https://example.test/about"))
	require.False(t, IsInternalLink("#top"))
}

func TestSlugFromPath(t *testing.T) {
	slug, ok := SlugFromPath("src/content/about.html", "src/content/")
	require.True(t, ok)
	require.Equal(t, "about", slug)

	_, ok = SlugFromPath("src/content/logo.png", "src/content/")
	require.False(t, ok)

	_, ok = SlugFromPath("other/about.html", "src/content/")
	require.False(t, ok)
}
