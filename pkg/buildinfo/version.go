// Package buildinfo reports which eido build is running.
//
// Release builds stamp the variables with ldflags:
//
//	go build -ldflags "-X github.com/fish-not-phish/eido/pkg/buildinfo.Version=v0.4.0 \
//	    -X github.com/fish-not-phish/eido/pkg/buildinfo.Commit=$(git rev-parse HEAD)" ./cmd/eido
//
// Binaries built with plain "go install" or "go build" fall back to the
// module version and VCS stamp the Go toolchain embeds.
package buildinfo

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
)

var (
	// Version is the release tag, "dev" when unstamped.
	Version = "dev"
	// Commit is the git revision.
	Commit = "none"
	// Date is the build or commit time in RFC 3339.
	Date = "unknown"
)

// Info describes a build. The HTTP health check reports it as JSON.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go"`
	Modified  bool   `json:"modified,omitempty"`
}

var readBuildInfo = sync.OnceValues(debug.ReadBuildInfo)

// Get returns the stamped build information, filling unstamped fields from
// the binary's embedded build info.
func Get() Info {
	info := Info{Version: Version, Commit: Commit, Date: Date, GoVersion: runtime.Version()}
	bi, ok := readBuildInfo()
	if !ok {
		return info
	}
	return fill(info, bi)
}

func fill(info Info, bi *debug.BuildInfo) Info {
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "none" {
				info.Commit = s.Value
			}
		case "vcs.time":
			if info.Date == "unknown" {
				info.Date = s.Value
			}
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	return info
}

// String returns the build information one field per line.
func (i Info) String() string {
	commit := i.Commit
	if i.Modified {
		commit += " (modified)"
	}
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s\ngo: %s", i.Version, commit, i.Date, i.GoVersion)
}

// String returns [Get] formatted for display.
func String() string {
	return Get().String()
}

// Template returns the cobra version template.
func Template() string {
	return "{{.Name}} " + String() + "\n"
}
