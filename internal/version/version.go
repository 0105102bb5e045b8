// Package version holds build information injected with -ldflags, e.g.
//
//	go build -ldflags "-X github.com/longkey1/sitechat/internal/version.Version=v0.1.0"
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

var (
	Version   = "dev"
	CommitSHA = ""
	BuildTime = ""
)

// Short returns the version number only
func Short() string {
	return Version
}

// Info returns multi-line build information
func Info() string {
	commit := CommitSHA
	if commit == "" {
		commit = vcsRevision()
	}
	if commit == "" {
		commit = "unknown"
	}
	buildTime := BuildTime
	if buildTime == "" {
		buildTime = "unknown"
	}
	return fmt.Sprintf("Version: %s\nCommit: %s\nBuilt: %s\nGo: %s", Version, commit, buildTime, runtime.Version())
}

func vcsRevision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" {
			return s.Value
		}
	}
	return ""
}
