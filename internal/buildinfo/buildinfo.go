// Package buildinfo holds build-time variables injected via ldflags.
package buildinfo

import "fmt"

// Populated by -ldflags at build time; defaults used for local dev.
var (
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// Info is the build metadata reported by `memo version` and the HTTP API.
type Info struct {
	Version   string `json:"version"`
	BuildDate string `json:"build_date"`
	GitCommit string `json:"git_commit"`
}

// Current returns the build metadata of the running binary.
func Current() Info {
	return Info{Version: Version, BuildDate: BuildDate, GitCommit: GitCommit}
}

// String formats the metadata on one line.
func (i Info) String() string {
	return fmt.Sprintf("memo %s (commit %s, built %s)", i.Version, i.GitCommit, i.BuildDate)
}
