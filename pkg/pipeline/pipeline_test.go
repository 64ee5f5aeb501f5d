package pipeline

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fish-not-phish/eido/pkg/cache"
	"github.com/fish-not-phish/eido/pkg/errors"
	"github.com/fish-not-phish/eido/pkg/excalidraw"
	"github.com/fish-not-phish/eido/pkg/icons"
	"github.com/fish-not-phish/eido/pkg/observability"
)

const sample = `Web[icon: browser] > Backend: https
Backend {
Auth[icon: lock]
DB[icon: postgres]
}
Auth <> DB: sql`

func fixedClock() time.Time {
	return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"excalidraw", false},
		{"dot", false},
		{"svg", false},
		{"png", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %q", tt.format, errors.GetCode(err))
		}
	}
}

func TestOptionsDefaults(t *testing.T) {
	var o Options
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if o.Format != FormatExcalidraw {
		t.Errorf("Format = %q", o.Format)
	}
	if o.CanvasWidth != DefaultCanvasWidth {
		t.Errorf("CanvasWidth = %v", o.CanvasWidth)
	}
	if o.Seed != DefaultSeed {
		t.Errorf("Seed = %v", o.Seed)
	}
	if o.Logger == nil || o.Icons == nil || o.Clock == nil {
		t.Error("runtime defaults not set")
	}
	if o.IsPreview() {
		t.Error("excalidraw is not a preview format")
	}

	bad := Options{CanvasWidth: -1}
	if err := bad.ValidateAndSetDefaults(); err == nil {
		t.Error("negative canvas width should fail")
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	a := Options{Format: FormatExcalidraw, IconSet: "/icons"}
	b := a
	b.IconSet = "/other"
	a.SetDefaults()
	b.SetDefaults()

	k := cache.NewDefaultKeyer()
	if k.ArtifactKey("h", a.ArtifactKeyOpts()) == k.ArtifactKey("h", b.ArtifactKeyOpts()) {
		t.Error("icon set should change the artifact key")
	}
}

func newTestRunner() (*Runner, *cache.MemoryCache) {
	c := cache.NewMemoryCache()
	return NewRunner(c, nil, nil), c
}

func TestRunnerExecute(t *testing.T) {
	r, _ := newTestRunner()
	res, err := r.Execute(context.Background(), sample, Options{Clock: fixedClock})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if res.CacheHit {
		t.Error("first run should miss the cache")
	}
	if res.Stats.Services != 3 || res.Stats.Containers != 1 || res.Stats.Connections != 2 {
		t.Errorf("Stats = %+v", res.Stats.Stats)
	}
	if res.Document == nil {
		t.Fatal("Document is nil")
	}
	if res.Stats.Elements != len(res.Document.Elements) || res.Stats.Elements == 0 {
		t.Errorf("Elements = %d, document has %d", res.Stats.Elements, len(res.Document.Elements))
	}
	if got := res.Document.Count(excalidraw.TypeArrow); got != 2 {
		t.Errorf("arrows = %d, want 2", got)
	}

	doc, err := excalidraw.Unmarshal(res.Artifact)
	if err != nil {
		t.Fatalf("artifact does not decode: %v", err)
	}
	if len(doc.Elements) != len(res.Document.Elements) {
		t.Error("artifact and document disagree")
	}
	if res.SourceHash != cache.Hash([]byte(sample)) {
		t.Error("SourceHash mismatch")
	}
}

func TestRunnerCache(t *testing.T) {
	ctx := context.Background()
	r, c := newTestRunner()
	opts := Options{Clock: fixedClock}

	first, err := r.Execute(ctx, sample, opts)
	if err != nil {
		t.Fatal(err)
	}
	if c.Len() != 1 {
		t.Fatalf("cache entries = %d, want 1", c.Len())
	}

	second, err := r.Execute(ctx, sample, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheHit {
		t.Error("second run should hit the cache")
	}
	if !bytes.Equal(first.Artifact, second.Artifact) {
		t.Error("cached artifact differs")
	}
	if second.Document == nil || second.Diagram == nil {
		t.Error("cache hit should still carry the document and diagram")
	}

	opts.Refresh = true
	third, _ := r.Execute(ctx, sample, opts)
	if third.CacheHit {
		t.Error("refresh should bypass the cache")
	}

	opts.Refresh = false
	opts.Seed = 7
	fourth, _ := r.Execute(ctx, sample, opts)
	if fourth.CacheHit {
		t.Error("different seed should miss the cache")
	}
}

func TestRunnerCorruptCacheEntry(t *testing.T) {
	ctx := context.Background()
	r, c := newTestRunner()

	opts := Options{Clock: fixedClock}
	opts.SetDefaults()
	key := r.Keyer.ArtifactKey(cache.Hash([]byte(sample)), opts.ArtifactKeyOpts())
	_ = c.Set(ctx, key, []byte("not json"), 0)

	res, err := r.Execute(ctx, sample, Options{Clock: fixedClock})
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheHit {
		t.Error("undecodable entry should be a miss")
	}
	if res.Document == nil {
		t.Error("miss should render a document")
	}
}

func TestRunnerDeterministic(t *testing.T) {
	ctx := context.Background()
	a, _ := NewRunner(nil, nil, nil).Execute(ctx, sample, Options{Clock: fixedClock})
	b, _ := NewRunner(nil, nil, nil).Execute(ctx, sample, Options{Clock: fixedClock})
	if !bytes.Equal(a.Artifact, b.Artifact) {
		t.Error("same source and options should produce identical bytes")
	}
}

func TestRunnerDOT(t *testing.T) {
	r, _ := newTestRunner()
	res, err := r.Execute(context.Background(), sample, Options{Format: FormatDOT})
	if err != nil {
		t.Fatal(err)
	}
	if res.Document != nil {
		t.Error("DOT output should not carry a scene")
	}
	dot := string(res.Artifact)
	for _, want := range []string{"digraph G", `subgraph "cluster_Backend"`, `"Auth" -> "DB" [label="sql", dir=both];`} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q", want)
		}
	}
}

func TestRunnerSVG(t *testing.T) {
	if testing.Short() {
		t.Skip("graphviz rendering in -short mode")
	}
	r, _ := newTestRunner()
	res, err := r.Execute(context.Background(), sample, Options{Format: FormatSVG})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(res.Artifact, []byte("<svg")) {
		t.Error("SVG output missing <svg> tag")
	}
}

func TestRunnerIcons(t *testing.T) {
	r, _ := newTestRunner()
	res, err := r.Execute(context.Background(), "DB[icon: postgres]", Options{
		Icons: icons.Map{"postgres": []byte("png-bytes")},
		Clock: fixedClock,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Document.Files) != 1 {
		t.Fatalf("files = %d, want 1", len(res.Document.Files))
	}
	for _, f := range res.Document.Files {
		if !strings.HasSuffix(f.DataURL, "cG5nLWJ5dGVz") {
			t.Errorf("DataURL = %q", f.DataURL)
		}
	}
}

func TestRunnerErrors(t *testing.T) {
	r, _ := newTestRunner()
	r.MaxSourceBytes = 8

	_, err := r.Execute(context.Background(), "A > B > C > D", Options{})
	if !errors.Is(err, errors.ErrCodeSourceTooLarge) {
		t.Errorf("oversized source error = %v", err)
	}

	r.MaxSourceBytes = 0
	_, err = r.Execute(context.Background(), "A", Options{Format: "pdf"})
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("invalid format error = %v", err)
	}
}

func TestRunnerEmptySource(t *testing.T) {
	r, _ := newTestRunner()
	res, err := r.Execute(context.Background(), "", Options{Clock: fixedClock})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Document.Elements) != 0 {
		t.Errorf("empty source rendered %d elements", len(res.Document.Elements))
	}
}

// recordingHooks counts pipeline and cache events.
type recordingHooks struct {
	observability.NoopPipelineHooks
	observability.NoopCacheHooks

	mu     sync.Mutex
	events []string
}

func (h *recordingHooks) record(e string) {
	h.mu.Lock()
	h.events = append(h.events, e)
	h.mu.Unlock()
}

func (h *recordingHooks) OnParseComplete(context.Context, int, int, time.Duration) {
	h.record("parse")
}
func (h *recordingHooks) OnLayoutComplete(context.Context, int, time.Duration) { h.record("layout") }
func (h *recordingHooks) OnRenderComplete(_ context.Context, f string, _ int, _ time.Duration, _ error) {
	h.record("render:" + f)
}
func (h *recordingHooks) OnCacheHit(context.Context, string)      { h.record("hit") }
func (h *recordingHooks) OnCacheMiss(context.Context, string)     { h.record("miss") }
func (h *recordingHooks) OnCacheSet(context.Context, string, int) { h.record("set") }

func TestRunnerHooks(t *testing.T) {
	h := &recordingHooks{}
	defer observability.Register(h)()

	ctx := context.Background()
	r, _ := newTestRunner()
	_, _ = r.Execute(ctx, sample, Options{Clock: fixedClock})
	_, _ = r.Execute(ctx, sample, Options{Clock: fixedClock})
	_, _ = r.Execute(ctx, sample, Options{Format: FormatDOT})

	want := []string{
		"parse", "miss", "layout", "render:excalidraw", "set",
		"parse", "hit",
		"parse", "miss", "render:dot", "set",
	}
	if strings.Join(h.events, ",") != strings.Join(want, ",") {
		t.Errorf("events = %v\nwant     %v", h.events, want)
	}
}
