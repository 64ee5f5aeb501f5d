package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/fish-not-phish/eido/pkg/dsl"
	"github.com/fish-not-phish/eido/pkg/excalidraw"
	"github.com/fish-not-phish/eido/pkg/layout"
	"github.com/fish-not-phish/eido/pkg/observability"
	"github.com/fish-not-phish/eido/pkg/render"
	"github.com/fish-not-phish/eido/pkg/render/nodelink"
)

// Render generates the artifact for opts.Format.
//
// For the Excalidraw format, boxes must come from [Layout]; the returned
// document is the scene that data serializes. The DOT and SVG previews
// ignore boxes and return a nil document.
func Render(ctx context.Context, d *dsl.Diagram, boxes []*layout.Box, opts Options) (*excalidraw.Document, []byte, error) {
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Format)

	start := time.Now()
	doc, data, err := renderFormat(ctx, d, boxes, opts)
	hooks.OnRenderComplete(ctx, opts.Format, len(data), time.Since(start), err)
	if err != nil {
		return nil, nil, fmt.Errorf("render %s: %w", opts.Format, err)
	}
	return doc, data, nil
}

func renderFormat(ctx context.Context, d *dsl.Diagram, boxes []*layout.Box, opts Options) (*excalidraw.Document, []byte, error) {
	switch opts.Format {
	case FormatExcalidraw:
		doc := render.Draw(boxes, d.Connections, opts.RenderOptions()...)
		data, err := excalidraw.MarshalIndent(doc)
		return doc, data, err
	case FormatDOT:
		return nil, []byte(toDOT(d, opts)), nil
	case FormatSVG:
		data, err := nodelink.RenderSVG(ctx, toDOT(d, opts))
		return nil, data, err
	default:
		return nil, nil, ValidateFormat(opts.Format)
	}
}

func toDOT(d *dsl.Diagram, opts Options) string {
	return nodelink.ToDOT(d, nodelink.Options{Detailed: opts.Detailed})
}
