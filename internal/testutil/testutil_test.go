package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteTreeAndAssertions(t *testing.T) {
	root := WriteTree(t, map[string]string{
		"index.html":        "<p>shell</p>",
		"src/data/a.json":   `{"a":1}`,
		"src/content/x.txt": "x",
	})

	oa := NewOutputAssertions(t, root)
	oa.FileExists("index.html").
		FileContains("index.html", "shell").
		FileEquals("src/data/a.json", `{"a":1}`)
	require.Equal(t, "x", oa.Read("src/content/x.txt"))
}
