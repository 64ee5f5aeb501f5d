// Package nodelink renders diagrams as Graphviz node-link previews.
//
// # Overview
//
// The Excalidraw scene is the primary output of Eido. This package offers
// a second, plain view of the same parsed diagram: services become boxes,
// containers become clusters, and connections become edges. It is useful
// for quick previews in a terminal workflow or in documentation that
// cannot embed a whiteboard.
//
// # Usage
//
// Convert a diagram to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(d, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # DOT Format
//
// The [ToDOT] function produces Graphviz DOT source that can be:
//
//   - Rendered directly via [RenderSVG]
//   - Saved and processed with external Graphviz tools
//   - Customized before rendering
//
// The generated DOT flows left to right, matching the direction arrows take
// in the Excalidraw scene. Bidirectional connections use dir=both.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
