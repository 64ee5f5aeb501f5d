package observability

import (
	"context"
	"sync"
	"testing"
	"time"
)

type pipelineOnly struct{ NoopPipelineHooks }

type everything struct {
	NoopPipelineHooks
	NoopCacheHooks
	NoopHTTPHooks
}

func TestDefaultsAreNoop(t *testing.T) {
	ctx := context.Background()
	Pipeline().OnRenderComplete(ctx, "excalidraw", 2048, time.Millisecond, nil)
	Cache().OnCacheSet(ctx, "artifact", 1024)
	HTTP().OnError(ctx, "GET", "/api/files/{id}", "FILE_NOT_FOUND")

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Errorf("Pipeline() = %T, want no-op", Pipeline())
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Errorf("Cache() = %T, want no-op", Cache())
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Errorf("HTTP() = %T, want no-op", HTTP())
	}
}

func TestRegisterInstallsImplementedInterfaces(t *testing.T) {
	p := &pipelineOnly{}
	restore := Register(p)
	defer restore()

	if Pipeline() != p {
		t.Errorf("Pipeline() = %T, want registered hooks", Pipeline())
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("pipeline-only hooks replaced the cache hooks")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("pipeline-only hooks replaced the HTTP hooks")
	}
}

func TestRegisterRestoresPrevious(t *testing.T) {
	outer := &everything{}
	restoreOuter := Register(outer)

	inner := &pipelineOnly{}
	restoreInner := Register(inner)
	if Pipeline() != inner || Cache() != outer {
		t.Fatal("inner registration not layered over outer")
	}

	restoreInner()
	if Pipeline() != outer {
		t.Errorf("after inner restore Pipeline() = %T, want outer", Pipeline())
	}

	restoreOuter()
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Errorf("after outer restore HTTP() = %T, want no-op", HTTP())
	}
}

func TestRegisterIgnoresUnrelatedValues(t *testing.T) {
	restore := Register("not a hook")
	defer restore()
	Register(nil)()

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Errorf("Pipeline() = %T after unrelated Register", Pipeline())
	}
}

func TestConcurrentReads(t *testing.T) {
	restore := Register(&everything{})
	defer restore()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				Pipeline().OnParseStart(context.Background(), j)
				HTTP().OnRequest(context.Background(), "POST", "/api/render")
			}
		}()
	}
	Register(&pipelineOnly{})()
	wg.Wait()
}
