// Package version holds build metadata injected with ldflags:
//
//	go build -ldflags "-X git.home.luguber.info/inful/pagefill/internal/version.Version=v0.3.0"
package version

import "fmt"

// Version is the release tag, "unknown" for development builds.
var Version = "unknown"

// Build metadata.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String is the line printed by `pagefill --version`.
func String() string {
	return fmt.Sprintf("pagefill %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
