package pipeline

import (
	"context"
	"time"

	"github.com/fish-not-phish/eido/pkg/dsl"
	"github.com/fish-not-phish/eido/pkg/observability"
)

// Parse parses DSL source and reports the parse to the registered hooks.
// Parsing never fails; malformed lines are skipped.
func Parse(ctx context.Context, src string) *dsl.Diagram {
	hooks := observability.Pipeline()
	hooks.OnParseStart(ctx, len(src))

	start := time.Now()
	d := dsl.Parse(src)
	s := d.Stats()

	hooks.OnParseComplete(ctx, s.Services+s.Containers, s.Connections, time.Since(start))
	return d
}
