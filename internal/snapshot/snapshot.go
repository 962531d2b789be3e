// Package snapshot captures pre-substitution attribute values so that
// placeholder substitution can be re-run without compounding.
//
// Capture is a pure read of the document. Apply is a pure function from a
// snapshot and a table to a batch of writes; Commit performs the writes.
package snapshot

import (
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"git.home.luguber.info/inful/pagefill/internal/dom"
	"git.home.luguber.info/inful/pagefill/internal/placeholder"
	"git.home.luguber.info/inful/pagefill/internal/util/sets"
)

// Entry is the original value of one attribute on one element.
type Entry struct {
	Node     *html.Node
	Attr     string
	Original string
}

// Snapshot is an ordered list of entries, unique per (node, attribute).
type Snapshot []Entry

// Write is a pending attribute assignment.
type Write struct {
	Node  *html.Node
	Attr  string
	Value string
}

type target struct {
	selector string
	attrs    []string
}

// targets lists the attributes that may carry placeholders.
var targets = []target{
	{"[content]", []string{"content"}},
	{"[href]", []string{"href"}},
	{"a", []string{"href", "title"}},
	{"img", []string{"src", "alt", "title"}},
}

type entryKey struct {
	node *html.Node
	attr string
}

// Capture scans doc once and records every targeted attribute that is present.
func Capture(doc *goquery.Document) Snapshot {
	var snap Snapshot
	seen := sets.New[entryKey]()
	for _, t := range targets {
		for _, n := range doc.Find(t.selector).Nodes {
			for _, attr := range t.attrs {
				val, ok := dom.Attr(n, attr)
				if !ok {
					continue
				}
				if !seen.Add(entryKey{n, attr}) {
					continue
				}
				snap = append(snap, Entry{Node: n, Attr: attr, Original: val})
			}
		}
	}
	return snap
}

// Apply computes the substituted value of every entry from its original.
func Apply(snap Snapshot, table placeholder.Table) []Write {
	return apply(snap, table, nil)
}

func apply(snap Snapshot, table placeholder.Table, onMiss func(string)) []Write {
	writes := make([]Write, 0, len(snap))
	for _, e := range snap {
		writes = append(writes, Write{
			Node:  e.Node,
			Attr:  e.Attr,
			Value: placeholder.Expand(e.Original, table, onMiss),
		})
	}
	return writes
}

// Commit writes every value to its live node.
func Commit(writes []Write) {
	for _, w := range writes {
		dom.SetAttr(w.Node, w.Attr, w.Value)
	}
}
