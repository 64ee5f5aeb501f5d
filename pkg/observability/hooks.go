// Package observability lets the serving layer watch the pipeline, the
// render cache and the HTTP API without those packages importing a metrics
// backend.
//
// Instrumented code fetches the current hooks on every event:
//
//	observability.Pipeline().OnParseComplete(ctx, nodes, conns, time.Since(start))
//
// and the command that owns the process installs an implementation once:
//
//	restore := observability.Register(metrics.NewRegistry())
//	defer restore()
//
// Until then every hook is a no-op. The Prometheus implementation lives in
// [github.com/fish-not-phish/eido/pkg/metrics].
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// PipelineHooks receives events from the parse, layout and render stages.
// Parsing and layout never fail, so only render events carry an error.
type PipelineHooks interface {
	OnParseStart(ctx context.Context, sourceBytes int)
	OnParseComplete(ctx context.Context, nodeCount, connectionCount int, duration time.Duration)
	OnLayoutStart(ctx context.Context, nodeCount int)
	OnLayoutComplete(ctx context.Context, boxCount int, duration time.Duration)
	OnRenderStart(ctx context.Context, format string)
	OnRenderComplete(ctx context.Context, format string, size int, duration time.Duration, err error)
}

// CacheHooks receives render cache lookups and writes. keyType names the
// kind of entry, such as "artifact".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives events from the HTTP API. route is the matched route
// pattern, never the raw path, so label cardinality stays bounded.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, route string)
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
	// OnError fires for requests answered with a coded error body.
	OnError(ctx context.Context, method, route, code string)
}

type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnParseStart(context.Context, int)                                   {}
func (NoopPipelineHooks) OnParseComplete(context.Context, int, int, time.Duration)            {}
func (NoopPipelineHooks) OnLayoutStart(context.Context, int)                                  {}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, int, time.Duration)                {}
func (NoopPipelineHooks) OnRenderStart(context.Context, string)                               {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, string, int, time.Duration, error) {}

type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string)                {}

// slot holds the installed implementation of one hook interface. Reads are
// lock-free since they happen on every request.
type slot[T any] struct {
	v    atomic.Value // boxed[T]
	noop T
}

type boxed[T any] struct{ h T }

func (s *slot[T]) load() T {
	if b, ok := s.v.Load().(boxed[T]); ok {
		return b.h
	}
	return s.noop
}

func (s *slot[T]) swap(h T) T {
	if b, ok := s.v.Swap(boxed[T]{h}).(boxed[T]); ok {
		return b.h
	}
	return s.noop
}

var (
	pipelineSlot = &slot[PipelineHooks]{noop: NoopPipelineHooks{}}
	cacheSlot    = &slot[CacheHooks]{noop: NoopCacheHooks{}}
	httpSlot     = &slot[HTTPHooks]{noop: NoopHTTPHooks{}}
)

func Pipeline() PipelineHooks { return pipelineSlot.load() }
func Cache() CacheHooks       { return cacheSlot.load() }
func HTTP() HTTPHooks         { return httpSlot.load() }

// Register installs h for each hook interface it implements and returns a
// function that puts back whatever was installed before. A value that
// implements none of them is ignored.
func Register(h any) (restore func()) {
	var undo []func()
	if p, ok := h.(PipelineHooks); ok {
		prev := pipelineSlot.swap(p)
		undo = append(undo, func() { pipelineSlot.swap(prev) })
	}
	if c, ok := h.(CacheHooks); ok {
		prev := cacheSlot.swap(c)
		undo = append(undo, func() { cacheSlot.swap(prev) })
	}
	if x, ok := h.(HTTPHooks); ok {
		prev := httpSlot.swap(x)
		undo = append(undo, func() { httpSlot.swap(prev) })
	}
	return func() {
		for i := len(undo) - 1; i >= 0; i-- {
			undo[i]()
		}
	}
}
