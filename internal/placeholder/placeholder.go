// Package placeholder substitutes {{ key }} markers in text from a flat table.
//
// Substitution is a single left-to-right pass: a value that itself contains a
// marker is emitted verbatim and never rescanned. Markers whose key is not in
// the table are left in place so unresolved placeholders stay visible.
package placeholder

import (
	"regexp"
	"strings"
)

// Table maps namespaced keys such as "site.title" to their replacement text.
type Table map[string]string

// Merge copies every entry of other into t, overwriting duplicates.
// A nil t yields a fresh table.
func (t Table) Merge(other Table) Table {
	if t == nil {
		t = make(Table, len(other))
	}
	for k, v := range other {
		t[k] = v
	}
	return t
}

// marker matches {{...}} on a single line, shortest match first.
var marker = regexp.MustCompile(`\{\{(.*?)\}\}`)

// Substitute replaces every marker in text whose trimmed key exists in table.
func Substitute(text string, table Table) string {
	return Expand(text, table, nil)
}

// Expand is Substitute with a callback invoked once per unresolved marker.
func Expand(text string, table Table, onMiss func(key string)) string {
	if !strings.Contains(text, "{{") {
		return text
	}
	return marker.ReplaceAllStringFunc(text, func(m string) string {
		key := strings.TrimSpace(m[2 : len(m)-2])
		if v, ok := table[key]; ok {
			return v
		}
		if onMiss != nil {
			onMiss(key)
		}
		return m
	})
}

// Keys lists the trimmed keys of every marker in text, in order of appearance.
func Keys(text string) []string {
	matches := marker.FindAllStringSubmatch(text, -1)
	keys := make([]string, 0, len(matches))
	for _, m := range matches {
		keys = append(keys, strings.TrimSpace(m[1]))
	}
	return keys
}
