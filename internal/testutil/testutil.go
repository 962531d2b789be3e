// Package testutil holds helpers for tests that work on site trees on disk.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteTree writes files (slash-separated path to content) under a fresh
// temporary directory and returns its path.
func WriteTree(t testing.TB, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, body := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	}
	return root
}

// OutputAssertions checks files below a build output directory.
type OutputAssertions struct {
	t       testing.TB
	baseDir string
}

// NewOutputAssertions creates an assertion helper rooted at baseDir.
func NewOutputAssertions(t testing.TB, baseDir string) *OutputAssertions {
	return &OutputAssertions{t: t, baseDir: baseDir}
}

func (oa *OutputAssertions) path(rel string) string {
	return filepath.Join(oa.baseDir, filepath.FromSlash(rel))
}

// Read returns the content of rel.
func (oa *OutputAssertions) Read(rel string) string {
	oa.t.Helper()
	// #nosec G304 - test helper, paths are controlled by test code
	data, err := os.ReadFile(oa.path(rel))
	require.NoError(oa.t, err)
	return string(data)
}

// FileExists fails the test when rel is missing.
func (oa *OutputAssertions) FileExists(rel string) *OutputAssertions {
	oa.t.Helper()
	require.FileExists(oa.t, oa.path(rel))
	return oa
}

// FileContains fails the test when rel does not contain want.
func (oa *OutputAssertions) FileContains(rel, want string) *OutputAssertions {
	oa.t.Helper()
	content := oa.Read(rel)
	if !strings.Contains(content, want) {
		oa.t.Errorf("expected %s to contain %q\nactual content:\n%s", rel, want, content)
	}
	return oa
}

// FileEquals fails the test when rel is not exactly want.
func (oa *OutputAssertions) FileEquals(rel, want string) *OutputAssertions {
	oa.t.Helper()
	require.Equal(oa.t, want, oa.Read(rel), rel)
	return oa
}
