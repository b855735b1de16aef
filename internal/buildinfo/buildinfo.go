// Package buildinfo reports the version stamped into the binary.
package buildinfo

import (
	"fmt"
	"runtime/debug"
	"sync"
)

// Set at build time via -ldflags "-X sketchassist/internal/buildinfo.Version=...".
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

var vcsOnce sync.Once

// fillFromVCS uses the VCS stamp of `go build` when ldflags were not given.
func fillFromVCS() {
	vcsOnce.Do(func() {
		bi, ok := debug.ReadBuildInfo()
		if !ok {
			return
		}
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				if Commit == "unknown" && len(s.Value) >= 7 {
					Commit = s.Value[:7]
				}
			case "vcs.time":
				if Date == "unknown" {
					Date = s.Value
				}
			}
		}
	})
}

// Short returns a compact build identifier for the window title and logs.
func Short() string {
	fillFromVCS()
	if Version != "" && Version != "dev" {
		return Version
	}
	if Commit != "" && Commit != "unknown" {
		return "dev-" + Commit
	}
	return "dev"
}

// Long returns the full build description printed by version commands.
func Long() string {
	fillFromVCS()
	return fmt.Sprintf("sketchassist %s (commit %s, built %s)", Version, Commit, Date)
}
