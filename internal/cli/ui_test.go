package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fish-not-phish/eido/pkg/dsl"
)

func TestSummary(t *testing.T) {
	tests := []struct {
		name     string
		stats    dsl.Stats
		elements int
		cached   bool
		want     string
	}{
		{"empty", dsl.Stats{}, 0, false, "fresh"},
		{"singular", dsl.Stats{Services: 1, Connections: 1}, 0, false, "1 service · 1 connection · fresh"},
		{"cached render", dsl.Stats{Services: 3, Containers: 1, Connections: 2}, 9, true, "3 services · 1 container · 2 connections · 9 elements · cached"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := summary(tt.stats, tt.elements, tt.cached); got != tt.want {
				t.Errorf("summary() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConsole(t *testing.T) {
	var buf bytes.Buffer
	ui := newConsole(&buf)
	ui.success("Rendered %s", "dot")
	ui.wrote("arch.dot")
	ui.fail("Render failed")

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	want := []string{"✓ Rendered dot", "  → arch.dot", "✗ Render failed"}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d: %q", len(lines), len(want), buf.String())
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}
