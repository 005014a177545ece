// Package version exposes the build stamp of the htmlmin binary.
//
// The variables are set with ldflags:
//
//	go build -ldflags "-X github.com/jmylchreest/htmlmin/internal/version.Version=1.0.0 ..."
package version

import (
	"fmt"
	"runtime"
)

// Set at build time.
var (
	Version   = "dev"
	Commit    = "unknown"
	Dirty     = "false"
	BuildDate = "unknown"
)

// Info is the stamp as printed by `htmlmin version --format json|yaml`.
type Info struct {
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit" yaml:"commit"`
	BuildDate string `json:"build_date" yaml:"build_date"`
	Runtime   string `json:"runtime" yaml:"runtime"`
}

// Get returns the stamp with Dirty folded into the version.
func Get() Info {
	return Info{
		Version:   String(),
		Commit:    Commit,
		BuildDate: BuildDate,
		Runtime:   fmt.Sprintf("%s %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH),
	}
}

// String returns the version, suffixed with -dirty for modified trees.
func String() string {
	if Dirty == "true" {
		return Version + "-dirty"
	}
	return Version
}

// Full returns the human-readable stamp, e.g.
//
//	htmlmin 1.2.0 (abc1234, built 2025-01-02T03:04:05Z, go1.25.5 linux/amd64)
func Full() string {
	i := Get()
	return fmt.Sprintf("htmlmin %s (%s, built %s, %s)", i.Version, i.Commit, i.BuildDate, i.Runtime)
}
