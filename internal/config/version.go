package config

import (
	"fmt"
	"runtime/debug"
)

// Set via -ldflags "-X github.com/bobmcallan/aide-portal/internal/config.Version=...".
var (
	Version   = "dev"
	Build     = "unknown"
	GitCommit = "unknown"
)

// BuildInfo identifies the running binary on /api/version and the MCP get_version tool.
type BuildInfo struct {
	Version   string `json:"version"`
	Build     string `json:"build"`
	GitCommit string `json:"git_commit"`
}

// Info returns the build identification. When the commit was not stamped
// with -ldflags it falls back to the VCS revision recorded by the go tool.
func Info() BuildInfo {
	info := BuildInfo{Version: Version, Build: Build, GitCommit: GitCommit}
	if info.GitCommit == "unknown" {
		if bi, ok := debug.ReadBuildInfo(); ok {
			info.GitCommit = vcsRevision(bi.Settings, info.GitCommit)
		}
	}
	return info
}

// vcsRevision returns the short vcs.revision setting, or fallback.
func vcsRevision(settings []debug.BuildSetting, fallback string) string {
	for _, s := range settings {
		if s.Key != "vcs.revision" || s.Value == "" {
			continue
		}
		if len(s.Value) > 12 {
			return s.Value[:12]
		}
		return s.Value
	}
	return fallback
}

// GetVersion returns the current version string.
func GetVersion() string {
	return Version
}

// GetFullVersion returns version with build info.
func GetFullVersion() string {
	info := Info()
	return fmt.Sprintf("%s (build: %s, commit: %s)", info.Version, info.Build, info.GitCommit)
}
