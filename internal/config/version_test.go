package config

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestInfo_UsesStampedValues(t *testing.T) {
	defer func(v, b, c string) { Version, Build, GitCommit = v, b, c }(Version, Build, GitCommit)
	Version, Build, GitCommit = "1.4.0", "2025-03-01T00:00:00Z", "abc1234"

	info := Info()
	if info.Version != "1.4.0" || info.Build != "2025-03-01T00:00:00Z" || info.GitCommit != "abc1234" {
		t.Errorf("unexpected build info: %+v", info)
	}
	if got := GetFullVersion(); got != "1.4.0 (build: 2025-03-01T00:00:00Z, commit: abc1234)" {
		t.Errorf("unexpected full version %q", got)
	}
}

func TestInfo_DefaultsWhenUnstamped(t *testing.T) {
	info := Info()
	if info.Version != "dev" {
		t.Errorf("expected default version dev, got %s", info.Version)
	}
	if info.GitCommit == "" {
		t.Error("expected a commit placeholder or vcs revision, got empty")
	}
	if !strings.HasPrefix(GetFullVersion(), "dev (build: unknown") {
		t.Errorf("unexpected full version %q", GetFullVersion())
	}
}

func TestVCSRevision(t *testing.T) {
	tests := []struct {
		name     string
		settings []debug.BuildSetting
		want     string
	}{
		{"no settings", nil, "unknown"},
		{"other keys only", []debug.BuildSetting{{Key: "GOOS", Value: "linux"}}, "unknown"},
		{"empty revision", []debug.BuildSetting{{Key: "vcs.revision", Value: ""}}, "unknown"},
		{"short revision kept", []debug.BuildSetting{{Key: "vcs.revision", Value: "abc123"}}, "abc123"},
		{"long revision shortened", []debug.BuildSetting{{Key: "vcs.revision", Value: "0123456789abcdef0123"}}, "0123456789ab"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := vcsRevision(tt.settings, "unknown"); got != tt.want {
				t.Errorf("vcsRevision() = %q, want %q", got, tt.want)
			}
		})
	}
}
