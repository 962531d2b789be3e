package snapshot

import (
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"git.home.luguber.info/inful/pagefill/internal/dom"
	"git.home.luguber.info/inful/pagefill/internal/logfields"
	"git.home.luguber.info/inful/pagefill/internal/placeholder"
	"git.home.luguber.info/inful/pagefill/internal/util/sets"
)

// DefaultNoReplacements are tags whose content is never rewritten inside
// content components.
var DefaultNoReplacements = []string{"script", "style", "template", "noscript", "code", "pre", "textarea"}

// Options configures a Renderer.
type Options struct {
	TitleSelector     string
	ComponentSelector string
	NoReplacements    []string
	Logger            *slog.Logger
}

// Stats summarizes one Render call.
type Stats struct {
	Attributes int
	Components int
	Unresolved int
}

// Renderer substitutes placeholders into a document: snapshotted attributes,
// the title text and the markup of content components.
type Renderer struct {
	titleSelector     string
	componentSelector string
	exempt            sets.Set[string]
	logger            *slog.Logger
}

// NewRenderer returns a Renderer with defaults filled in.
func NewRenderer(opts Options) *Renderer {
	r := &Renderer{
		titleSelector:     opts.TitleSelector,
		componentSelector: opts.ComponentSelector,
		exempt:            sets.New[string](),
		logger:            opts.Logger,
	}
	if r.titleSelector == "" {
		r.titleSelector = "title"
	}
	if r.componentSelector == "" {
		r.componentSelector = ".content-component"
	}
	tags := opts.NoReplacements
	if tags == nil {
		tags = DefaultNoReplacements
	}
	for _, tag := range tags {
		r.exempt.Add(strings.ToLower(tag))
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// Render applies table to doc. Attributes are always recomputed from snap,
// so repeated calls with the same table leave them unchanged. Title and
// component markup are rewritten in place.
func (r *Renderer) Render(doc *goquery.Document, snap Snapshot, table placeholder.Table) Stats {
	var stats Stats
	onMiss := func(key string) {
		stats.Unresolved++
		r.logger.Debug("No replacement found", logfields.Key(key))
	}

	writes := apply(snap, table, onMiss)
	Commit(writes)
	stats.Attributes = len(writes)

	if title := doc.Find(r.titleSelector).First(); title.Length() == 1 {
		n := title.Nodes[0]
		dom.SetText(n, placeholder.Expand(dom.Text(n), table, onMiss))
	}

	committed := sets.New[entryKey]()
	for _, e := range snap {
		committed.Add(entryKey{e.Node, e.Attr})
	}
	components := doc.Find(r.componentSelector).Nodes
	all := sets.New(components...)
	for _, n := range components {
		if r.exempt.Has(n.Data) || nestedIn(n, all) {
			continue
		}
		r.substituteMarkup(n, committed, table, onMiss)
		stats.Components++
	}
	return stats
}

// nestedIn reports whether an ancestor of n is in components. Nested
// components are rewritten as part of the outermost one.
func nestedIn(n *html.Node, components sets.Set[*html.Node]) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if components.Has(p) {
			return true
		}
	}
	return false
}

// substituteMarkup rewrites the subtree below parent. Substituted text is
// parsed as markup, so values may carry entities or tags. Elements are
// rewritten in place to keep snapshot references valid; exempt elements are
// skipped entirely. Attributes in committed already hold the value computed
// from their original and are left alone.
func (r *Renderer) substituteMarkup(parent *html.Node, committed sets.Set[entryKey], table placeholder.Table, onMiss func(string)) {
	for c := parent.FirstChild; c != nil; {
		next := c.NextSibling
		switch c.Type {
		case html.ElementNode:
			if r.exempt.Has(c.Data) {
				break
			}
			for i := range c.Attr {
				if committed.Has(entryKey{c, c.Attr[i].Key}) {
					continue
				}
				c.Attr[i].Val = placeholder.Expand(c.Attr[i].Val, table, onMiss)
			}
			r.substituteMarkup(c, committed, table, onMiss)
		case html.TextNode:
			r.substituteText(parent, c, table, onMiss)
		}
		c = next
	}
}

func (r *Renderer) substituteText(parent, text *html.Node, table placeholder.Table, onMiss func(string)) {
	if isRawText(parent) {
		text.Data = placeholder.Expand(text.Data, table, onMiss)
		return
	}
	escaped := html.EscapeString(text.Data)
	out := placeholder.Expand(escaped, table, onMiss)
	if out == escaped {
		return
	}
	nodes, err := dom.ParseFragment(out, parent)
	if err != nil {
		r.logger.Warn("Failed to parse substituted markup", logfields.Error(err))
		text.Data = out
		return
	}
	for _, n := range nodes {
		parent.InsertBefore(n, text)
	}
	parent.RemoveChild(text)
}

// isRawText reports elements whose content is text, never markup.
func isRawText(n *html.Node) bool {
	switch n.Data {
	case "script", "style", "xmp", "iframe", "noembed", "noframes", "noscript", "plaintext", "textarea", "title":
		return true
	}
	return false
}
