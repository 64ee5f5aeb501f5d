// Package pipeline provides the parse → layout → render pipeline for Eido.
//
// The CLI and the HTTP API both run diagrams through this package so they
// produce identical output for identical input.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: Turn DSL source into a tree of services and containers plus
//     connections ([dsl.Parse])
//  2. Layout: Measure and place every node on the canvas ([layout.Measure],
//     [layout.Place])
//  3. Render: Emit an Excalidraw scene, or a Graphviz preview as DOT or SVG
//
// Each stage can be run independently or as part of the complete pipeline.
// The DOT and SVG previews are laid out by Graphviz and skip stage 2.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, src, pipeline.Options{
//	    Format: pipeline.FormatExcalidraw,
//	    Icons:  icons.NewDir("./icons"),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("diagram.excalidraw", result.Artifact, 0o644)
//
// Run individual stages:
//
//	d := pipeline.Parse(ctx, src)
//	boxes := pipeline.Layout(ctx, d, opts)
//	doc, data, err := pipeline.Render(ctx, d, boxes, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/fish-not-phish/eido/pkg/cache"
	"github.com/fish-not-phish/eido/pkg/dsl"
	"github.com/fish-not-phish/eido/pkg/errors"
	"github.com/fish-not-phish/eido/pkg/excalidraw"
	"github.com/fish-not-phish/eido/pkg/icons"
	"github.com/fish-not-phish/eido/pkg/layout"
	"github.com/fish-not-phish/eido/pkg/render"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultCanvasWidth is the right edge of the top-level packing area.
	DefaultCanvasWidth = layout.CanvasMaxWidth

	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = render.DefaultSeed

	// DefaultFormat is the default output format.
	DefaultFormat = FormatExcalidraw
)

// Format constants for output formats.
const (
	FormatExcalidraw = "excalidraw"
	FormatDOT        = "dot"
	FormatSVG        = "svg"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatExcalidraw: true,
	FormatDOT:        true,
	FormatSVG:        true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	Format      string  `json:"format,omitempty"`
	CanvasWidth float64 `json:"canvas_width,omitempty"`
	Seed        uint64  `json:"seed,omitempty"`
	Detailed    bool    `json:"detailed,omitempty"` // Icon names in DOT labels
	Refresh     bool    `json:"refresh,omitempty"`  // Bypass cached artifacts

	// IconSet names the icon source for cache keys, since icon bytes are
	// embedded in the rendered scene. The CLI uses the icon directory path.
	IconSet string `json:"-"`

	// Runtime options (not serialized)
	Logger   *log.Logger      `json:"-"`
	Icons    icons.Resolver   `json:"-"`
	Clock    func() time.Time `json:"-"`
	IDPrefix string           `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Diagram is the parsed source.
	Diagram *dsl.Diagram

	// Document is the Excalidraw scene. It is nil for DOT and SVG output.
	Document *excalidraw.Document

	// Artifact is the serialized output in the requested format.
	Artifact []byte

	// SourceHash is the content hash of the source.
	SourceHash string

	// Stats contains timing and size information.
	Stats Stats

	// CacheHit reports whether Artifact came from the cache.
	CacheHit bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	dsl.Stats
	Elements   int
	ParseTime  time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: excalidraw, dot, svg)", format)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()
	if err := ValidateFormat(o.Format); err != nil {
		return err
	}
	if o.CanvasWidth < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "canvas width must be positive, got %g", o.CanvasWidth)
	}
	o.validated = true
	return nil
}

// SetDefaults fills zero fields with their defaults.
func (o *Options) SetDefaults() {
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	if o.CanvasWidth == 0 {
		o.CanvasWidth = DefaultCanvasWidth
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Icons == nil {
		o.Icons = icons.Null{}
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// IsPreview returns true for the Graphviz node-link formats.
func (o *Options) IsPreview() bool {
	return o.Format == FormatDOT || o.Format == FormatSVG
}

// PlaceOptions returns layout options for the configured canvas.
func (o *Options) PlaceOptions() layout.PlaceOptions {
	p := layout.DefaultPlaceOptions()
	if o.CanvasWidth > 0 {
		p.MaxWidth = o.CanvasWidth
	}
	return p
}

// RenderOptions returns the scene renderer options.
func (o *Options) RenderOptions() []render.Option {
	opts := []render.Option{
		render.WithSeed(o.Seed),
		render.WithIDPrefix(o.IDPrefix),
		render.WithPlacement(o.PlaceOptions()),
	}
	if o.Icons != nil {
		opts = append(opts, render.WithIcons(o.Icons))
	}
	if o.Clock != nil {
		opts = append(opts, render.WithClock(o.Clock))
	}
	return opts
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts() cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:      o.Format,
		CanvasWidth: o.CanvasWidth,
		Seed:        o.Seed,
		IconSet:     o.IconSet,
		IDPrefix:    o.IDPrefix,
		Detailed:    o.Detailed,
	}
}
