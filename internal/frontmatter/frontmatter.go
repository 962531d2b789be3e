// Package frontmatter splits a content resource into its embedded JSON
// metadata block and the markup that follows it.
package frontmatter

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"git.home.luguber.info/inful/pagefill/internal/dom"
	"git.home.luguber.info/inful/pagefill/internal/foundation/errors"
	"git.home.luguber.info/inful/pagefill/internal/records"
)

// Selector locates the metadata block.
const Selector = `script[type="application/json"]`

// Document is a parsed content resource.
type Document struct {
	Frontmatter records.Frontmatter
	// Raw is the trimmed text of the metadata block.
	Raw string
	// Nodes are the siblings following the metadata block, in document order.
	// They stay attached to the parsed fragment; use Clone before inserting
	// them elsewhere.
	Nodes []*html.Node
}

// Clone returns detached deep copies of Nodes.
func (d *Document) Clone() []*html.Node {
	out := make([]*html.Node, 0, len(d.Nodes))
	for _, n := range d.Nodes {
		out = append(out, dom.Clone(n))
	}
	return out
}

// Parse reads a content resource. The resource must contain exactly one
// metadata block whose text is a JSON object.
func Parse(r io.Reader) (*Document, error) {
	root := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(r, root)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryInvalidFrontmatter, "failed to parse content document").Build()
	}
	for _, n := range nodes {
		root.AppendChild(n)
	}

	blocks := goquery.NewDocumentFromNode(root).Find(Selector)
	switch blocks.Length() {
	case 0:
		return nil, errors.MissingFrontmatter("no frontmatter script tag found").Build()
	case 1:
	default:
		return nil, errors.InvalidFrontmatter("multiple frontmatter script tags found").
			WithContext("count", blocks.Length()).
			Build()
	}

	block := blocks.Nodes[0]
	raw := strings.TrimSpace(dom.Text(block))
	fm, err := decode(raw)
	if err != nil {
		return nil, err
	}

	doc := &Document{Frontmatter: fm, Raw: raw}
	for n := block.NextSibling; n != nil; n = n.NextSibling {
		doc.Nodes = append(doc.Nodes, n)
	}
	return doc, nil
}

func decode(raw string) (records.Frontmatter, error) {
	var fm records.Frontmatter
	data := []byte(raw)
	if !bytes.HasPrefix(data, []byte("{")) {
		return fm, errors.InvalidFrontmatter("invalid JSON frontmatter").
			WithContext("reason", "not a JSON object").
			Build()
	}
	if err := json.Unmarshal(data, &fm); err != nil {
		return fm, errors.WrapError(err, errors.CategoryInvalidFrontmatter, "invalid JSON frontmatter").Build()
	}
	return fm, nil
}
