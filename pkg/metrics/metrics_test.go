package metrics

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry() returned nil")
	}
	if r.ParsesTotal == nil || r.RendersTotal == nil || r.CacheHitsTotal == nil || r.HTTPRequestsTotal == nil {
		t.Error("metrics not initialized")
	}
	if r.registry == nil {
		t.Error("Prometheus registry not initialized")
	}

	// Two registries must not collide.
	_ = NewRegistry()

	r.OnCacheHit(context.Background(), "artifact")
	n, err := testutil.GatherAndCount(r.Gatherer(), "eido_cache_hits_total")
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if n != 1 {
		t.Errorf("cache hit series = %d, want 1", n)
	}
}

func TestPipelineHooks(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry()

	r.OnParseStart(ctx, 64)
	r.OnParseComplete(ctx, 5, 3, time.Millisecond)
	r.OnParseComplete(ctx, 2, 0, time.Millisecond)
	if got := testutil.ToFloat64(r.ParsesTotal); got != 2 {
		t.Errorf("ParsesTotal = %v, want 2", got)
	}

	r.OnLayoutStart(ctx, 5)
	r.OnLayoutComplete(ctx, 5, time.Millisecond)
	if got := testutil.CollectAndCount(r.LayoutDuration); got != 1 {
		t.Errorf("LayoutDuration series = %d, want 1", got)
	}

	r.OnRenderStart(ctx, "excalidraw")
	r.OnRenderComplete(ctx, "excalidraw", 4096, time.Millisecond, nil)
	r.OnRenderComplete(ctx, "svg", 0, time.Millisecond, errors.New("graphviz"))

	if got := testutil.ToFloat64(r.RendersTotal.WithLabelValues("excalidraw", "ok")); got != 1 {
		t.Errorf("renders{excalidraw,ok} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.RendersTotal.WithLabelValues("svg", "error")); got != 1 {
		t.Errorf("renders{svg,error} = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(r.RenderedArtifactSize); got != 1 {
		t.Errorf("artifact size series = %d, want 1 (failed renders are not sized)", got)
	}
}

func TestCacheHooks(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry()

	r.OnCacheMiss(ctx, "artifact")
	r.OnCacheSet(ctx, "artifact", 100)
	r.OnCacheSet(ctx, "artifact", 50)
	r.OnCacheHit(ctx, "artifact")
	r.OnCacheHit(ctx, "artifact")

	if got := testutil.ToFloat64(r.CacheHitsTotal.WithLabelValues("artifact")); got != 2 {
		t.Errorf("hits = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.CacheMissesTotal.WithLabelValues("artifact")); got != 1 {
		t.Errorf("misses = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.CacheWritesBytes.WithLabelValues("artifact")); got != 150 {
		t.Errorf("written bytes = %v, want 150", got)
	}
}

func TestHTTPHooks(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry()

	r.OnRequest(ctx, "POST", "/api/render")
	if got := testutil.ToFloat64(r.HTTPRequestsInFlight); got != 1 {
		t.Errorf("in flight = %v, want 1", got)
	}
	r.OnResponse(ctx, "POST", "/api/render", 200, 10*time.Millisecond)
	if got := testutil.ToFloat64(r.HTTPRequestsInFlight); got != 0 {
		t.Errorf("in flight = %v, want 0", got)
	}
	if got := testutil.ToFloat64(r.HTTPRequestsTotal.WithLabelValues("POST", "/api/render", "200")); got != 1 {
		t.Errorf("requests = %v, want 1", got)
	}

	r.OnError(ctx, "GET", "/api/files/{id}", "FILE_NOT_FOUND")
	if got := testutil.ToFloat64(r.HTTPErrorsTotal.WithLabelValues("GET", "/api/files/{id}", "FILE_NOT_FOUND")); got != 1 {
		t.Errorf("errors = %v, want 1", got)
	}
}

func TestHandler(t *testing.T) {
	r := NewRegistry()
	r.OnParseComplete(context.Background(), 1, 0, time.Millisecond)

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	for _, want := range []string{"eido_parses_total 1", "go_goroutines"} {
		if !strings.Contains(string(body), want) {
			t.Errorf("exposition missing %q", want)
		}
	}
}
