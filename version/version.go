package version

import (
	"fmt"
	"runtime/debug"
	"strings"
)

// Set at build time with -ldflags.
var (
	Version   = "dev"
	GitCommit = ""
	BuildTime = ""
)

// ProjectURL is the contact address sent in the User-Agent.
const ProjectURL = "https://github.com/kbukum/geokit"

// Info describes the running build.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildTime string `json:"build_time,omitempty"`
	GoVersion string `json:"go_version,omitempty"`
	Dirty     bool   `json:"dirty,omitempty"`
}

// readBuildInfo is swapped in tests.
var readBuildInfo = debug.ReadBuildInfo

// GetVersionInfo merges the ldflags values with the module's VCS stamp.
// Explicit values win.
func GetVersionInfo() *Info {
	info := &Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildTime: BuildTime,
	}

	bi, ok := readBuildInfo()
	if !ok {
		return info
	}
	info.GoVersion = bi.GoVersion
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = strings.TrimPrefix(bi.Main.Version, "v")
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.GitCommit == "" {
				info.GitCommit = s.Value
			}
		case "vcs.time":
			if info.BuildTime == "" {
				info.BuildTime = s.Value
			}
		case "vcs.modified":
			info.Dirty = s.Value == "true"
		}
	}
	if len(info.GitCommit) > 7 {
		info.GitCommit = info.GitCommit[:7]
	}
	return info
}

// GetShortVersion returns "<version>[-<commit>][-dirty]".
func GetShortVersion() string {
	return GetVersionInfo().short()
}

// GetFullVersion returns the short version plus the Go toolchain and build
// time when known.
func GetFullVersion() string {
	info := GetVersionInfo()
	out := info.short()
	var extra []string
	if info.GoVersion != "" {
		extra = append(extra, info.GoVersion)
	}
	if info.BuildTime != "" {
		extra = append(extra, "built "+info.BuildTime)
	}
	if len(extra) > 0 {
		out += " (" + strings.Join(extra, ", ") + ")"
	}
	return out
}

// UserAgent identifies product at this build, with a contact URL.
func UserAgent(product string) string {
	return fmt.Sprintf("%s/%s (+%s)", product, GetShortVersion(), ProjectURL)
}

func (i *Info) short() string {
	out := i.Version
	if i.GitCommit != "" {
		out += "-" + i.GitCommit
	}
	if i.Dirty {
		out += "-dirty"
	}
	return out
}
