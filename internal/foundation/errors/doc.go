// Package errors classifies pagefill failures so the CLI and the HTTP server
// can pick exit codes, statuses and log levels without string matching.
//
// Errors are built fluently and wrapped like any other error:
//
//	err := errors.FetchFailure("failed to load content").
//		WithContext("path", contentPath).
//		WithCause(cause).
//		Build()
//
// A load never retries. The Transient hint only tells the caller that asking
// again later may succeed.
package errors
