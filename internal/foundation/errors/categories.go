package errors

import "maps"

// ErrorCategory routes an error to an exit code, HTTP status and log level.
type ErrorCategory string

const (
	// Input problems the user has to fix.
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"
	CategoryNotFound   ErrorCategory = "not_found"

	// CategoryFetch is a failed resource fetch: network error or non-2xx status.
	CategoryFetch ErrorCategory = "fetch"

	// Fetched resources that could not be decoded.
	CategoryMalformedData      ErrorCategory = "malformed_data"
	CategoryMissingFrontmatter ErrorCategory = "missing_frontmatter"
	CategoryInvalidFrontmatter ErrorCategory = "invalid_frontmatter"

	// CategoryFileSystem is a local read or write failure outside of fetching.
	CategoryFileSystem ErrorCategory = "filesystem"

	CategoryRuntime  ErrorCategory = "runtime"
	CategoryInternal ErrorCategory = "internal"
)

// content reports whether c describes a bad fetched resource.
func (c ErrorCategory) content() bool {
	switch c {
	case CategoryMalformedData, CategoryMissingFrontmatter, CategoryInvalidFrontmatter:
		return true
	}
	return false
}

// ErrorSeverity is the impact of an error on the current operation.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // stops the command
	SeverityError   ErrorSeverity = "error"   // fails the current load or request
	SeverityWarning ErrorSeverity = "warning" // output was produced in degraded form
)

// Hint tells the caller what may change the outcome.
type Hint string

const (
	HintNone       Hint = ""
	HintUserAction Hint = "user_action" // fix the config, flags or site files
	HintTransient  Hint = "transient"   // the same request may succeed later
)

// ErrorContext carries structured details. It is copied on write.
type ErrorContext map[string]any

// Get returns the value stored under key.
func (c ErrorContext) Get(key string) (any, bool) {
	v, ok := c[key]
	return v, ok
}

// with returns a copy of c with key set.
func (c ErrorContext) with(key string, value any) ErrorContext {
	out := make(ErrorContext, len(c)+1)
	maps.Copy(out, c)
	out[key] = value
	return out
}
