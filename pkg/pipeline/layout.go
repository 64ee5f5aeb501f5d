package pipeline

import (
	"context"
	"time"

	"github.com/fish-not-phish/eido/pkg/dsl"
	"github.com/fish-not-phish/eido/pkg/layout"
	"github.com/fish-not-phish/eido/pkg/observability"
)

// Layout measures and places the diagram's top-level nodes on the canvas
// configured by opts.
func Layout(ctx context.Context, d *dsl.Diagram, opts Options) []*layout.Box {
	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, len(d.Nodes))

	start := time.Now()
	boxes := layout.Place(layout.Measure(d.Nodes), opts.PlaceOptions())

	n := 0
	for _, b := range boxes {
		b.Walk(func(*layout.Box) { n++ })
	}
	hooks.OnLayoutComplete(ctx, n, time.Since(start))
	return boxes
}
