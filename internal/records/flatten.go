// Package records holds the site and page records of a single load and
// flattens them into the placeholder table.
package records

import "git.home.luguber.info/inful/pagefill/internal/placeholder"

// Record kinds, used as key namespaces.
const (
	KindSite = "site"
	KindPage = "page"
)

// Field is one named, already stringified record field.
type Field struct {
	Name  string
	Value string
}

// Record is a typed record with an explicit field list.
type Record interface {
	Kind() string
	Loaded() bool
	Fields() []Field
}

// Flatten emits "<kind>.<field>" for every declared field. Records without a
// title contribute nothing, so their placeholders stay unresolved instead of
// collapsing to empty strings.
func Flatten(r Record) placeholder.Table {
	table := placeholder.Table{}
	if !r.Loaded() {
		return table
	}
	prefix := r.Kind() + "."
	for _, f := range r.Fields() {
		if f.Name == "type" || f.Name == "kind" {
			continue
		}
		table[prefix+f.Name] = f.Value
	}
	return table
}
