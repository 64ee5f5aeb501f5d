package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/fish-not-phish/eido/pkg/cache"
	"github.com/fish-not-phish/eido/pkg/errors"
	"github.com/fish-not-phish/eido/pkg/excalidraw"
	"github.com/fish-not-phish/eido/pkg/layout"
	"github.com/fish-not-phish/eido/pkg/observability"
)

// artifactKeyType labels artifact cache events for the cache hooks.
const artifactKeyType = "artifact"

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// MaxSourceBytes bounds accepted sources. Zero disables the check.
	MaxSourceBytes int

	// TTL is how long rendered artifacts stay cached. Zero means
	// cache.ArtifactTTL.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete parse → layout → render pipeline with caching.
//
// The source is always parsed, so Result.Diagram is set even on a cache
// hit. A failing cache never fails the run; it is logged and bypassed.
func (r *Runner) Execute(ctx context.Context, src string, opts Options) (*Result, error) {
	if err := errors.ValidateSource(src, r.MaxSourceBytes); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	logger := opts.Logger

	result := &Result{SourceHash: cache.Hash([]byte(src))}

	// Stage 1: Parse
	parseStart := time.Now()
	d := Parse(ctx, src)
	result.Diagram = d
	result.Stats.Stats = d.Stats()
	result.Stats.ParseTime = time.Since(parseStart)

	logger.Debug("parsed diagram",
		"services", result.Stats.Services,
		"containers", result.Stats.Containers,
		"connections", result.Stats.Connections,
		"duration", result.Stats.ParseTime)

	key := r.Keyer.ArtifactKey(result.SourceHash, opts.ArtifactKeyOpts())
	if !opts.Refresh {
		if r.fromCache(ctx, key, opts, result) {
			logger.Debug("artifact cache hit", "format", opts.Format, "bytes", len(result.Artifact))
			return result, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, artifactKeyType)

	// Stage 2: Layout
	var boxes []*layout.Box
	if !opts.IsPreview() {
		layoutStart := time.Now()
		boxes = Layout(ctx, d, opts)
		result.Stats.LayoutTime = time.Since(layoutStart)
	}

	// Stage 3: Render
	renderStart := time.Now()
	doc, data, err := Render(ctx, d, boxes, opts)
	if err != nil {
		return nil, err
	}
	result.Document = doc
	result.Artifact = data
	result.Stats.RenderTime = time.Since(renderStart)
	if doc != nil {
		result.Stats.Elements = len(doc.Elements)
	}

	if err := r.Cache.Set(ctx, key, data, r.ttl()); err != nil {
		logger.Warn("cache write failed", "error", err)
	} else {
		observability.Cache().OnCacheSet(ctx, artifactKeyType, len(data))
	}

	logger.Info("rendered diagram",
		"format", opts.Format,
		"elements", result.Stats.Elements,
		"bytes", len(data),
		"duration", result.Stats.LayoutTime+result.Stats.RenderTime)

	return result, nil
}

// fromCache fills result from a cached artifact. A cached scene that no
// longer decodes counts as a miss.
func (r *Runner) fromCache(ctx context.Context, key string, opts Options, result *Result) bool {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		opts.Logger.Warn("cache read failed", "error", err)
		return false
	}
	if !hit {
		return false
	}

	if opts.Format == FormatExcalidraw {
		doc, err := excalidraw.Unmarshal(data)
		if err != nil {
			opts.Logger.Debug("discarding undecodable cached scene", "error", err)
			_ = r.Cache.Delete(ctx, key)
			return false
		}
		result.Document = doc
		result.Stats.Elements = len(doc.Elements)
	}

	observability.Cache().OnCacheHit(ctx, artifactKeyType)
	result.Artifact = data
	result.CacheHit = true
	return true
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) ttl() time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return cache.ArtifactTTL
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
