package app

import (
	"fmt"
	"runtime/debug"
)

// Build-time variables set via ldflags:
//
//	-X github.com/tejashwikalptaru/yorum/internal/app.Version=1.0.0
var (
	Version   = "dev"
	GitCommit = "unknown"
	GitTag    = ""
	BuildTime = "unknown"
)

// VersionInfo describes the running build.
type VersionInfo struct {
	Version   string
	GitCommit string
	GitTag    string
	BuildTime string
	GoVersion string
}

// GetVersionInfo returns the ldflags values. Commit and build time fall back
// to the VCS stamp of the Go build info when ldflags did not set them.
func GetVersionInfo() VersionInfo {
	info := VersionInfo{
		Version:   Version,
		GitCommit: GitCommit,
		GitTag:    GitTag,
		BuildTime: BuildTime,
	}

	build, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	info.GoVersion = build.GoVersion
	for _, setting := range build.Settings {
		switch setting.Key {
		case "vcs.revision":
			if info.GitCommit == "unknown" && setting.Value != "" {
				info.GitCommit = shortCommit(setting.Value)
			}
		case "vcs.time":
			if info.BuildTime == "unknown" && setting.Value != "" {
				info.BuildTime = setting.Value
			}
		}
	}
	return info
}

// FullString returns a detailed version string for logging and the version command.
func (v VersionInfo) FullString() string {
	version := v.Version
	if v.GitTag != "" {
		version = v.GitTag
	}
	s := fmt.Sprintf("Yorum %s (commit: %s, built: %s)", version, v.GitCommit, v.BuildTime)
	if v.GoVersion != "" {
		s += " " + v.GoVersion
	}
	return s
}

func shortCommit(rev string) string {
	if len(rev) > 12 {
		return rev[:12]
	}
	return rev
}
