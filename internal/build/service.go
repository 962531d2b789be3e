package build

import (
	"context"
	"io/fs"
	"time"
)

// BuildService prerenders a site.
type BuildService interface {
	Run(ctx context.Context, req BuildRequest) (*BuildResult, error)
}

// BuildRequest contains all inputs required to execute a build.
type BuildRequest struct {
	// Site is the site root. Content files are enumerated from it.
	Site fs.FS

	// OutputDir is the target directory; it is created when missing.
	OutputDir string

	// ShellPath is the shell document path inside Site.
	ShellPath string

	// ContentDir is the content directory as configured ("./src/content/").
	ContentDir string

	// StaticDirs are copied verbatim into OutputDir.
	StaticDirs []string
}

// PageResult is the outcome of rendering one page.
type PageResult struct {
	Fragment   string
	OutputPath string
	LoadID     string
	Fallback   bool
	Unresolved int
	Err        error
}

// BuildResult contains the outcome of a build execution.
type BuildResult struct {
	Status      BuildStatus
	OutputPath  string
	Pages       []PageResult
	FilesCopied int
	Duration    time.Duration
	StartTime   time.Time
	EndTime     time.Time
}

// FailedPages returns the pages that rendered the fallback or had a load error.
func (r *BuildResult) FailedPages() []PageResult {
	var out []PageResult
	for _, p := range r.Pages {
		if p.Fallback || p.Err != nil {
			out = append(out, p)
		}
	}
	return out
}

// BuildStatus represents the outcome of a build execution.
type BuildStatus string

const (
	// BuildStatusSuccess indicates every page rendered cleanly.
	BuildStatusSuccess BuildStatus = "success"

	// BuildStatusWarning indicates output was written but some pages failed.
	BuildStatusWarning BuildStatus = "warning"

	// BuildStatusFailed indicates the build could not complete.
	BuildStatusFailed BuildStatus = "failed"

	// BuildStatusCancelled indicates the build was cancelled.
	BuildStatusCancelled BuildStatus = "cancelled"
)

// IsSuccess returns true if output was produced.
func (s BuildStatus) IsSuccess() bool {
	return s == BuildStatusSuccess || s == BuildStatusWarning
}
