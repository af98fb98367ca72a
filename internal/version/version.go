// Package version reports build metadata injected with -ldflags, e.g.
//
//	go build -ldflags "-X github.com/Caleb-Valerian2/DoxyDocCombiner/internal/version.Version=v1.2.0" ./cmd/doxycombine
package version

import "fmt"

var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// String renders the line printed by --version.
func String() string {
	return fmt.Sprintf("doxycombine %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
