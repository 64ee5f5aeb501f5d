package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func stamp(t *testing.T, v, c, d string) {
	t.Helper()
	oldV, oldC, oldD := Version, Commit, Date
	Version, Commit, Date = v, c, d
	t.Cleanup(func() { Version, Commit, Date = oldV, oldC, oldD })
}

func TestFill(t *testing.T) {
	bi := &debug.BuildInfo{
		Main: debug.Module{Path: "github.com/fish-not-phish/eido", Version: "v0.4.1"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	}

	tests := []struct {
		name string
		in   Info
		want Info
	}{
		{
			name: "unstamped uses embedded info",
			in:   Info{Version: "dev", Commit: "none", Date: "unknown"},
			want: Info{Version: "v0.4.1", Commit: "abc123", Date: "2026-01-02T03:04:05Z", Modified: true},
		},
		{
			name: "ldflags win",
			in:   Info{Version: "v1.0.0", Commit: "fff", Date: "2026-10-01T00:00:00Z"},
			want: Info{Version: "v1.0.0", Commit: "fff", Date: "2026-10-01T00:00:00Z", Modified: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fill(tt.in, bi); got != tt.want {
				t.Errorf("fill() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestFillDevelBuild(t *testing.T) {
	bi := &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}}
	got := fill(Info{Version: "dev", Commit: "none", Date: "unknown"}, bi)
	if got.Version != "dev" {
		t.Errorf("Version = %q, want dev for a local build", got.Version)
	}
}

func TestStamped(t *testing.T) {
	stamp(t, "v0.3.0", "abc123", "2024-05-01T00:00:00Z")

	info := Get()
	if info.Version != "v0.3.0" || info.Commit != "abc123" || info.GoVersion == "" {
		t.Errorf("Get() = %+v", info)
	}
	if !strings.HasPrefix(String(), "version: v0.3.0\ncommit: abc123") {
		t.Errorf("String() = %q", String())
	}
	if tmpl := Template(); !strings.HasPrefix(tmpl, "{{.Name}} version: v0.3.0\n") {
		t.Errorf("Template() = %q", tmpl)
	}
}

func TestInfoStringModified(t *testing.T) {
	s := Info{Version: "dev", Commit: "abc", Date: "x", GoVersion: "go1.24.0", Modified: true}.String()
	if !strings.Contains(s, "commit: abc (modified)") {
		t.Errorf("String() = %q", s)
	}
}
