package errors

import (
	"bytes"
	stderrors "errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"validation", ValidationError("invalid input").Build(), 2},
		{"not found", NewError(CategoryNotFound, "missing").Build(), 3},
		{"config", ConfigError("bad config").Build(), 7},
		{"fetch", FetchFailure("404").Build(), 8},
		{"frontmatter", MissingFrontmatter("none").Build(), 9},
		{"internal", InternalError("oops").Build(), 10},
		{"filesystem", FileSystemError("disk").Build(), 11},
		{"runtime", RuntimeError("canceled").Build(), 12},
		{"unknown category", NewError(ErrorCategory("other"), "x").Build(), 1},
		{"unclassified", stderrors.New("unknown error"), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, adapter.ExitCodeFor(tt.err))
		})
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	quiet := NewCLIErrorAdapter(false, slog.Default())
	verbose := NewCLIErrorAdapter(true, slog.Default())
	err := WrapError(stderrors.New("secret detail"), CategoryFetch, "failed to load site data").Build()

	require.Equal(t, "Error: failed to load site data", quiet.FormatError(err))
	require.Contains(t, verbose.FormatError(err), "secret detail")
	require.Equal(t, "Configuration error: unknown key", quiet.FormatError(ConfigError("unknown key").Build()))
	require.Contains(t, quiet.FormatError(InternalError("x").Build()), "-v")
	require.Equal(t, "Error: plain", quiet.FormatError(stderrors.New("plain")))
	require.Empty(t, quiet.FormatError(nil))
}

func TestCLIErrorAdapter_HandleError(t *testing.T) {
	var out, logs bytes.Buffer
	code := -1
	adapter := NewCLIErrorAdapter(false, slog.New(slog.NewTextHandler(&logs, nil)))
	adapter.out = &out
	adapter.exit = func(c int) { code = c }

	adapter.HandleError(ConfigError("missing content directory").WithContext("key", "content_dir").Build())

	require.Equal(t, 7, code)
	require.Contains(t, out.String(), "missing content directory")
	require.Contains(t, logs.String(), "category=config")
	require.Contains(t, logs.String(), "hint=user_action")
	require.Contains(t, logs.String(), "key=content_dir")
}

func TestCLIErrorAdapter_HandleError_NonFatalNotLogged(t *testing.T) {
	var out, logs bytes.Buffer
	adapter := NewCLIErrorAdapter(false, slog.New(slog.NewTextHandler(&logs, nil)))
	adapter.out = &out
	adapter.exit = func(int) {}

	adapter.HandleError(FetchFailure("404").Build())

	require.Empty(t, logs.String())
	require.Equal(t, "Error: 404\n", out.String())
}

func TestCLIErrorAdapter_HandleError_Nil(t *testing.T) {
	called := false
	adapter := NewCLIErrorAdapter(false, slog.New(slog.NewTextHandler(io.Discard, nil)))
	adapter.exit = func(int) { called = true }

	adapter.HandleError(nil)

	require.False(t, called)
}
