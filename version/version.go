package version

import (
	"runtime/debug"
	"strings"
)

const develVersion = "dev"

// Set at build time using -ldflags.
var (
	Version = develVersion
	Commit  = ""
)

// Info describes the running build.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	GoVersion string `json:"go_version,omitempty"`
	Dirty     bool   `json:"dirty"`
}

// IsRelease reports whether the build carries a tagged, clean version.
func (i Info) IsRelease() bool {
	return i.Version != develVersion && !i.Dirty && !strings.Contains(i.Version, "dirty")
}

// String returns the version, suffixed with the short commit when known.
func (i Info) String() string {
	s := i.Version
	if i.Commit != "" {
		s += "-" + i.Commit
	}
	if i.Dirty {
		s += "-dirty"
	}
	return s
}

// Get returns the build information, filling gaps from debug.ReadBuildInfo.
func Get() Info {
	bi, _ := debug.ReadBuildInfo()
	return fromBuildInfo(bi)
}

func fromBuildInfo(bi *debug.BuildInfo) Info {
	info := Info{Version: Version, Commit: Commit}
	if bi == nil {
		return info
	}
	info.GoVersion = bi.GoVersion
	if info.Version == develVersion && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = strings.TrimPrefix(bi.Main.Version, "v")
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "" {
				info.Commit = s.Value
			}
		case "vcs.modified":
			info.Dirty = s.Value == "true"
		}
	}
	if len(info.Commit) > 7 {
		info.Commit = info.Commit[:7]
	}
	return info
}

// Short returns Get().String().
func Short() string { return Get().String() }
