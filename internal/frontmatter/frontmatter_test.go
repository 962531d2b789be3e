package frontmatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/pagefill/internal/dom"
	"git.home.luguber.info/inful/pagefill/internal/foundation/errors"
	"git.home.luguber.info/inful/pagefill/internal/records"
)

const aboutPage = `<script type="application/json">
{
  "id": "2",
  "slug": "/about",
  "title": "About",
  "type": "page",
  "visibility": "public"
}
</script>
<section><h1>{{ page.title }}</h1></section>
<p>More</p>`

func TestParse_SplitsFrontmatterAndContent(t *testing.T) {
	doc, err := Parse(strings.NewReader(aboutPage))
	require.NoError(t, err)

	require.Equal(t, records.Text("About"), doc.Frontmatter.Title)
	require.Equal(t, records.Text("/about"), doc.Frontmatter.Slug)
	require.Equal(t, records.Text("page"), doc.Frontmatter.Type)

	var rendered strings.Builder
	for _, n := range doc.Nodes {
		s, rerr := dom.RenderString(n)
		require.NoError(t, rerr)
		rendered.WriteString(s)
	}
	require.Equal(t, "\n<section><h1>{{ page.title }}</h1></section>\n<p>More</p>", rendered.String())
}

func TestParse_MissingBlock(t *testing.T) {
	_, err := Parse(strings.NewReader(`<section><h1>No metadata</h1></section>`))
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryMissingFrontmatter))
}

func TestParse_EmptyDocumentIsMissing(t *testing.T) {
	_, err := Parse(strings.NewReader(``))
	require.True(t, errors.HasCategory(err, errors.CategoryMissingFrontmatter))
}

func TestParse_OtherScriptTypesAreIgnored(t *testing.T) {
	_, err := Parse(strings.NewReader(`<script>var x = {};</script><p>x</p>`))
	require.True(t, errors.HasCategory(err, errors.CategoryMissingFrontmatter))
}

func TestParse_InvalidJSON(t *testing.T) {
	cases := map[string]string{
		"syntax":    `<script type="application/json">{"title": </script><p>x</p>`,
		"array":     `<script type="application/json">["About"]</script>`,
		"scalar":    `<script type="application/json">"About"</script>`,
		"empty":     `<script type="application/json">   </script>`,
		"duplicate": `<script type="application/json">{}</script><script type="application/json">{}</script>`,
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(input))
			require.Error(t, err)
			require.True(t, errors.HasCategory(err, errors.CategoryInvalidFrontmatter), "got %v", err)
		})
	}
}

func TestParse_NestedBlockUsesFollowingSiblings(t *testing.T) {
	input := `<article><script type="application/json">{"title":"T"}</script><p>a</p><p>b</p></article><footer>out</footer>`
	doc, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, doc.Nodes, 2)
	require.Equal(t, "a", dom.Text(doc.Nodes[0]))
	require.Equal(t, "b", dom.Text(doc.Nodes[1]))
}

func TestDocument_CloneLeavesParsedFragmentIntact(t *testing.T) {
	doc, err := Parse(strings.NewReader(aboutPage))
	require.NoError(t, err)

	clones := doc.Clone()
	require.Len(t, clones, len(doc.Nodes))
	for i, c := range clones {
		require.Nil(t, c.Parent)
		require.NotSame(t, doc.Nodes[i], c)
	}

	// Mutating a clone must not reach the original fragment.
	dom.SetText(clones[1], "changed")
	require.Equal(t, "{{ page.title }}", dom.Text(doc.Nodes[1]))
	require.NotNil(t, doc.Nodes[1].Parent)
}
