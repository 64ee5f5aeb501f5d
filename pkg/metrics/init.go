package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var sizeBuckets = []float64{1 << 10, 8 << 10, 64 << 10, 512 << 10, 4 << 20}

func (r *Registry) initPipelineMetrics() {
	r.ParsesTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "eido_parses_total",
			Help: "Total number of DSL sources parsed",
		},
	)

	r.ParseDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "eido_parse_duration_seconds",
			Help:    "DSL parse latency in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		},
	)

	r.ParsedNodes = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "eido_parsed_nodes",
			Help:    "Number of nodes per parsed diagram",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250},
		},
	)

	r.ParsedConnections = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "eido_parsed_connections",
			Help:    "Number of connections per parsed diagram",
			Buckets: []float64{0, 5, 10, 25, 50, 100, 250},
		},
	)

	r.LayoutDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "eido_layout_duration_seconds",
			Help:    "Measure and place latency in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		},
	)

	r.RendersTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "eido_renders_total",
			Help: "Total number of rendered artifacts",
		},
		[]string{"format", "status"},
	)

	r.RenderDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "eido_render_duration_seconds",
			Help:    "Render latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"format"},
	)

	r.RenderedArtifactSize = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "eido_rendered_artifact_bytes",
			Help:    "Rendered artifact size in bytes",
			Buckets: sizeBuckets,
		},
		[]string{"format"},
	)
}

func (r *Registry) initCacheMetrics() {
	r.CacheHitsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "eido_cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"key_type"},
	)

	r.CacheMissesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "eido_cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"key_type"},
	)

	r.CacheWritesBytes = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "eido_cache_written_bytes_total",
			Help: "Total bytes written to the cache",
		},
		[]string{"key_type"},
	)
}

func (r *Registry) initHTTPMetrics() {
	r.HTTPRequestsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "eido_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	r.HTTPRequestDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "eido_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	r.HTTPRequestsInFlight = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "eido_http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		},
	)

	r.HTTPErrorsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "eido_http_errors_total",
			Help: "Total number of HTTP requests that failed with a coded error",
		},
		[]string{"method", "route", "code"},
	)
}
