// Package metrics exports Eido's observability hooks as Prometheus metrics.
//
// A [Registry] implements [observability.PipelineHooks],
// [observability.CacheHooks] and [observability.HTTPHooks]. Register it at
// startup and serve [Registry.Handler] on /metrics:
//
//	m := metrics.NewRegistry()
//	defer observability.Register(m)()
//	router.Handle("/metrics", m.Handler())
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fish-not-phish/eido/pkg/observability"
)

// Registry holds all metrics for the application
type Registry struct {
	// Pipeline Metrics
	ParsesTotal          prometheus.Counter
	ParseDuration        prometheus.Histogram
	ParsedNodes          prometheus.Histogram
	ParsedConnections    prometheus.Histogram
	LayoutDuration       prometheus.Histogram
	RendersTotal         *prometheus.CounterVec
	RenderDuration       *prometheus.HistogramVec
	RenderedArtifactSize *prometheus.HistogramVec

	// Cache Metrics
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec
	CacheWritesBytes *prometheus.CounterVec

	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge
	HTTPErrorsTotal      *prometheus.CounterVec

	registry *prometheus.Registry
}

// NewRegistry creates a registry with every Eido metric plus the Go runtime
// and process collectors.
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}
	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	r.initPipelineMetrics()
	r.initCacheMetrics()
	r.initHTTPMetrics()
	return r
}

// Gatherer returns the underlying Prometheus registry.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// =============================================================================
// Pipeline hooks
// =============================================================================

func (r *Registry) OnParseStart(context.Context, int) {}

func (r *Registry) OnParseComplete(_ context.Context, nodes, connections int, d time.Duration) {
	r.ParsesTotal.Inc()
	r.ParseDuration.Observe(d.Seconds())
	r.ParsedNodes.Observe(float64(nodes))
	r.ParsedConnections.Observe(float64(connections))
}

func (r *Registry) OnLayoutStart(context.Context, int) {}

func (r *Registry) OnLayoutComplete(_ context.Context, _ int, d time.Duration) {
	r.LayoutDuration.Observe(d.Seconds())
}

func (r *Registry) OnRenderStart(context.Context, string) {}

func (r *Registry) OnRenderComplete(_ context.Context, format string, size int, d time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	r.RendersTotal.WithLabelValues(format, status).Inc()
	r.RenderDuration.WithLabelValues(format).Observe(d.Seconds())
	if err == nil {
		r.RenderedArtifactSize.WithLabelValues(format).Observe(float64(size))
	}
}

// =============================================================================
// Cache hooks
// =============================================================================

func (r *Registry) OnCacheHit(_ context.Context, keyType string) {
	r.CacheHitsTotal.WithLabelValues(keyType).Inc()
}

func (r *Registry) OnCacheMiss(_ context.Context, keyType string) {
	r.CacheMissesTotal.WithLabelValues(keyType).Inc()
}

func (r *Registry) OnCacheSet(_ context.Context, keyType string, size int) {
	r.CacheWritesBytes.WithLabelValues(keyType).Add(float64(size))
}

// =============================================================================
// HTTP hooks
// =============================================================================

func (r *Registry) OnRequest(context.Context, string, string) {
	r.HTTPRequestsInFlight.Inc()
}

func (r *Registry) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	r.HTTPRequestsInFlight.Dec()
	code := strconv.Itoa(status)
	r.HTTPRequestsTotal.WithLabelValues(method, route, code).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, route, code).Observe(d.Seconds())
}

func (r *Registry) OnError(_ context.Context, method, route, code string) {
	r.HTTPErrorsTotal.WithLabelValues(method, route, code).Inc()
}

var (
	_ observability.PipelineHooks = (*Registry)(nil)
	_ observability.CacheHooks    = (*Registry)(nil)
	_ observability.HTTPHooks     = (*Registry)(nil)
)
