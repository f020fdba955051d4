package version

import (
	"runtime/debug"
	"strings"
	"testing"
)

func stub(t *testing.T, version, commit, buildTime string, bi *debug.BuildInfo) {
	t.Helper()
	origVersion, origCommit, origTime, origRead := Version, GitCommit, BuildTime, readBuildInfo
	t.Cleanup(func() {
		Version, GitCommit, BuildTime, readBuildInfo = origVersion, origCommit, origTime, origRead
	})
	Version, GitCommit, BuildTime = version, commit, buildTime
	readBuildInfo = func() (*debug.BuildInfo, bool) { return bi, bi != nil }
}

func vcs(rev, at string, modified bool) *debug.BuildInfo {
	mod := "false"
	if modified {
		mod = "true"
	}
	return &debug.BuildInfo{
		GoVersion: "go1.26.0",
		Main:      debug.Module{Path: "github.com/kbukum/geokit", Version: "(devel)"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: rev},
			{Key: "vcs.time", Value: at},
			{Key: "vcs.modified", Value: mod},
		},
	}
}

func TestGetVersionInfo_NoBuildInfo(t *testing.T) {
	stub(t, "dev", "", "", nil)

	info := GetVersionInfo()
	if info.Version != "dev" || info.GitCommit != "" || info.BuildTime != "" {
		t.Errorf("unexpected info %+v", info)
	}
	if got := GetShortVersion(); got != "dev" {
		t.Errorf("GetShortVersion() = %q, want dev", got)
	}
	if got := GetFullVersion(); got != "dev" {
		t.Errorf("GetFullVersion() = %q, want dev", got)
	}
}

func TestGetVersionInfo_FromVCS(t *testing.T) {
	stub(t, "dev", "", "", vcs("0123456789abcdef", "2026-03-01T10:00:00Z", true))

	info := GetVersionInfo()
	if info.GitCommit != "0123456" {
		t.Errorf("expected commit truncated to 7, got %q", info.GitCommit)
	}
	if info.BuildTime != "2026-03-01T10:00:00Z" {
		t.Errorf("unexpected build time %q", info.BuildTime)
	}
	if got := GetShortVersion(); got != "dev-0123456-dirty" {
		t.Errorf("GetShortVersion() = %q", got)
	}
	if got := GetFullVersion(); got != "dev-0123456-dirty (go1.26.0, built 2026-03-01T10:00:00Z)" {
		t.Errorf("GetFullVersion() = %q", got)
	}
}

func TestGetVersionInfo_LdflagsWin(t *testing.T) {
	stub(t, "1.2.0", "abc1234", "2026-01-15T10:30:00Z", vcs("ffffffffff", "2020-01-01T00:00:00Z", false))

	info := GetVersionInfo()
	if info.Version != "1.2.0" || info.GitCommit != "abc1234" || info.BuildTime != "2026-01-15T10:30:00Z" {
		t.Errorf("ldflags values should win, got %+v", info)
	}
	if info.Dirty {
		t.Error("clean tree reported dirty")
	}
}

func TestGetVersionInfo_ModuleVersion(t *testing.T) {
	bi := vcs("", "", false)
	bi.Main.Version = "v1.4.2"
	stub(t, "dev", "", "", bi)

	if got := GetShortVersion(); got != "1.4.2" {
		t.Errorf("GetShortVersion() = %q, want 1.4.2", got)
	}
}

func TestUserAgent(t *testing.T) {
	stub(t, "1.2.0", "", "", nil)

	got := UserAgent("geokit")
	if got != "geokit/1.2.0 (+"+ProjectURL+")" {
		t.Errorf("UserAgent() = %q", got)
	}
	if !strings.Contains(got, "github.com") {
		t.Error("user agent should carry a contact URL")
	}
}
