// Package version holds build metadata injected with -ldflags -X.
package version

import "fmt"

// Build metadata. Version is bumped on release; GitCommit and BuildDate are
// set by the build.
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Info is the build metadata served by /version.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
}

// Get returns the current build metadata.
func Get() Info {
	return Info{Version: Version, Commit: GitCommit, BuildDate: BuildDate}
}

func (i Info) String() string {
	return fmt.Sprintf("bloodbridge %s (commit %s, built %s)", i.Version, i.Commit, i.BuildDate)
}
