package errors

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// exitCodes maps categories to process exit codes. Unclassified errors and
// unknown categories exit with 1.
var exitCodes = map[ErrorCategory]int{
	CategoryValidation:         2,
	CategoryNotFound:           3,
	CategoryConfig:             7,
	CategoryFetch:              8,
	CategoryMalformedData:      9,
	CategoryMissingFrontmatter: 9,
	CategoryInvalidFrontmatter: 9,
	CategoryInternal:           10,
	CategoryFileSystem:         11,
	CategoryRuntime:            12,
}

// CLIErrorAdapter prints a command error and terminates the process.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
	out     io.Writer
	exit    func(int)
}

func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{verbose: verbose, logger: logger, out: os.Stderr, exit: os.Exit}
}

// ExitCodeFor returns 0 for nil.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	c, ok := AsClassified(err)
	if !ok {
		return 1
	}
	if code, ok := exitCodes[c.category]; ok {
		return code
	}
	return 1
}

// FormatError returns the line shown to the user. Causes are only shown with
// -v; internal errors hide their message entirely.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	c, ok := AsClassified(err)
	switch {
	case !ok:
		return "Error: " + err.Error()
	case a.verbose:
		return c.Error()
	case c.category == CategoryInternal:
		return "Internal error occurred (use -v for details)"
	case c.hint == HintUserAction:
		return "Configuration error: " + c.message
	default:
		return "Error: " + c.message
	}
}

// HandleError logs, prints and exits. It does nothing for nil.
func (a *CLIErrorAdapter) HandleError(err error) {
	if err == nil {
		return
	}
	c, classified := AsClassified(err)
	switch {
	case !classified:
		a.logger.Error("Unclassified error", "error", err)
	case a.verbose || c.severity == SeverityFatal:
		a.logClassified(c)
	}
	_, _ = fmt.Fprintln(a.out, a.FormatError(err))
	a.exit(a.ExitCodeFor(err))
}

func (a *CLIErrorAdapter) logClassified(c *ClassifiedError) {
	attrs := make([]slog.Attr, 0, len(c.context)+2)
	attrs = append(attrs, slog.String("category", string(c.category)))
	if c.hint != HintNone {
		attrs = append(attrs, slog.String("hint", string(c.hint)))
	}
	for k, v := range c.context {
		attrs = append(attrs, slog.Any(k, v))
	}
	a.logger.LogAttrs(context.Background(), levelFor(c.severity), c.message, attrs...)
}

func levelFor(s ErrorSeverity) slog.Level {
	if s == SeverityWarning {
		return slog.LevelWarn
	}
	return slog.LevelError
}
