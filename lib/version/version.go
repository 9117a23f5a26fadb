// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// These variables are set via -ldflags at build time, for example:
//
//	go build -ldflags "-X github.com/ticketdesk/ticketdesk/lib/version.GitCommit=$(git rev-parse --short HEAD)"
var (
	// GitCommit is the short git SHA of the build.
	GitCommit = "unknown"

	// GitDirty indicates whether there were uncommitted changes.
	GitDirty = "false"

	// BuildTime is the UTC timestamp of the build.
	BuildTime = "unknown"

	// Version is the semantic version. This is set manually for releases.
	Version = "0.1.0-dev"
)

// BuildInfo is the structured form of the build stamp, printed by
// "ticketdesk version --json".
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Dirty     bool   `json:"dirty"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// Current returns the build stamp of the running binary.
func Current() BuildInfo {
	info := BuildInfo{
		Version:   Version,
		Commit:    GitCommit,
		Dirty:     GitDirty == "true",
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if info.Commit == "unknown" {
		applyVCS(&info, debug.ReadBuildInfo)
	}
	return info
}

// applyVCS fills commit, dirty flag, and build time from the
// toolchain's VCS settings when present.
func applyVCS(info *BuildInfo, read func() (*debug.BuildInfo, bool)) {
	build, ok := read()
	if !ok {
		return
	}
	for _, setting := range build.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision := setting.Value
			if len(revision) > 12 {
				revision = revision[:12]
			}
			info.Commit = revision
		case "vcs.modified":
			info.Dirty = setting.Value == "true"
		case "vcs.time":
			if info.BuildTime == "unknown" {
				info.BuildTime = setting.Value
			}
		}
	}
}

// String formats info as "0.1.0-dev (abc1234-dirty, 2026-02-10T...)".
func (info BuildInfo) String() string {
	dirty := ""
	if info.Dirty {
		dirty = "-dirty"
	}
	return fmt.Sprintf("%s (%s%s, %s)", info.Version, info.Commit, dirty, info.BuildTime)
}

// Full returns detailed version information including Go version.
func Full() string {
	info := Current()
	return fmt.Sprintf("%s\n  Go: %s\n  Platform: %s", info, info.GoVersion, info.Platform)
}

// Short returns just the version number.
func Short() string {
	return Version
}
