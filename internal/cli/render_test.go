package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fish-not-phish/eido/pkg/errors"
	"github.com/fish-not-phish/eido/pkg/excalidraw"
)

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name   string
		output string
		input  string
		format string
		want   string
	}{
		{"derived excalidraw", "", "arch.eido", "excalidraw", "arch.excalidraw"},
		{"derived dot", "", "dir/arch.eido", "dot", "dir/arch.dot"},
		{"derived svg", "", "arch", "svg", "arch.svg"},
		{"explicit", "out.json", "arch.eido", "excalidraw", "out.json"},
		{"stdout", "-", "arch.eido", "dot", "-"},
		{"stdin defaults to stdout", "", "-", "excalidraw", "-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outputPath(tt.output, tt.input, tt.format); got != tt.want {
				t.Errorf("outputPath(%q, %q, %q) = %q, want %q", tt.output, tt.input, tt.format, got, tt.want)
			}
		})
	}
}

func TestIconSetKey(t *testing.T) {
	got := iconSetKey("icons")
	if !filepath.IsAbs(got) {
		t.Errorf("iconSetKey(icons) = %q, want absolute path", got)
	}
	if filepath.Base(got) != "icons" {
		t.Errorf("iconSetKey(icons) = %q, want to end in icons", got)
	}
}

func TestRenderCommand(t *testing.T) {
	src := writeSource(t, sampleSource)

	if _, err := execute(t, "render", src, "--no-cache"); err != nil {
		t.Fatalf("render: %v", err)
	}

	doc := decodeScene(t, strings.TrimSuffix(src, sourceExt)+".excalidraw")
	if doc.Type != excalidraw.DocumentType {
		t.Errorf("type = %q, want %q", doc.Type, excalidraw.DocumentType)
	}
	if got := doc.Count(excalidraw.TypeArrow); got != 2 {
		t.Errorf("arrows = %d, want 2", got)
	}
	if got := doc.Count(excalidraw.TypeRectangle); got != 1 {
		t.Errorf("rectangles = %d, want 1", got)
	}
}

func TestRenderCommandIcons(t *testing.T) {
	iconDir := t.TempDir()
	png := []byte("\x89PNG\r\n\x1a\nfake")
	if err := os.WriteFile(filepath.Join(iconDir, "nginx.png"), png, 0o644); err != nil {
		t.Fatal(err)
	}
	src := writeSource(t, `Gateway[icon: "nginx"]`)
	dst := filepath.Join(t.TempDir(), "out.excalidraw")

	if _, err := execute(t, "render", src, "-o", dst, "--icons", iconDir, "--no-cache"); err != nil {
		t.Fatalf("render: %v", err)
	}

	doc := decodeScene(t, dst)
	var embedded bool
	for _, f := range doc.Files {
		if len(f.DataURL) > len("data:image/png;base64,") {
			embedded = true
		}
	}
	if !embedded {
		t.Error("icon bytes were not embedded in the scene")
	}
}

func TestRenderCommandDOTToStdout(t *testing.T) {
	out, err := execute(t, "render", writeSource(t, sampleSource), "-f", "dot", "-o", "-", "--no-cache")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.HasPrefix(out, "digraph G") {
		t.Errorf("stdout should be DOT source, got:\n%s", out)
	}
	if !strings.Contains(out, "cluster_Backend") {
		t.Error("containers should become clusters")
	}
}

func TestRenderCommandDeterministic(t *testing.T) {
	src := writeSource(t, sampleSource)
	dir := t.TempDir()
	a, b := filepath.Join(dir, "a.excalidraw"), filepath.Join(dir, "b.excalidraw")

	if _, err := execute(t, "render", src, "-o", a, "--no-cache", "--seed", "7"); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "render", src, "-o", b, "--no-cache", "--seed", "7"); err != nil {
		t.Fatal(err)
	}

	da, db := decodeScene(t, a), decodeScene(t, b)
	if len(da.Elements) != len(db.Elements) {
		t.Fatalf("element counts differ: %d vs %d", len(da.Elements), len(db.Elements))
	}
	for i := range da.Elements {
		ea, eb := da.Elements[i].Common(), db.Elements[i].Common()
		if ea.ID != eb.ID || ea.Seed != eb.Seed {
			t.Errorf("element %d differs: %s/%d vs %s/%d", i, ea.ID, ea.Seed, eb.ID, eb.Seed)
		}
	}
}

func TestRenderCommandCached(t *testing.T) {
	t.Setenv("EIDO_CACHE_DIR", t.TempDir())
	src := writeSource(t, sampleSource)
	dir := t.TempDir()
	first, second := filepath.Join(dir, "first.dot"), filepath.Join(dir, "second.dot")

	if _, err := execute(t, "render", src, "-f", "dot", "-o", first); err != nil {
		t.Fatal(err)
	}
	n, err := countEntries(os.Getenv("EIDO_CACHE_DIR"))
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("cache entries after first render = %d, want 1", n)
	}

	if _, err := execute(t, "render", src, "-f", "dot", "-o", second); err != nil {
		t.Fatal(err)
	}
	a, _ := os.ReadFile(first)
	b, _ := os.ReadFile(second)
	if string(a) != string(b) {
		t.Error("cached render differs from fresh render")
	}
}

func TestRenderCommandInvalidFormat(t *testing.T) {
	_, err := execute(t, "render", writeSource(t, "A"), "-f", "png")
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("err = %v, want INVALID_FORMAT", err)
	}
}
