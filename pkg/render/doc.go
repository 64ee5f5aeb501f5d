// Package render turns a parsed diagram into an Excalidraw scene.
//
// # Overview
//
// [Render] runs the whole chain for one diagram:
//
//   - layout.Measure sizes every node bottom-up
//   - layout.Place assigns absolute coordinates top-down
//   - the renderer emits images, captions and frames for the node tree
//   - the edge router draws one elbowed arrow per connection
//
// [Draw] performs only the last two steps on an already placed tree.
//
// # Nodes
//
// A service becomes a 64x64 image centred in its slot with its wrapped
// caption underneath. A container becomes a filled rectangle coloured by
// nesting depth, a small header icon, a title, and then its children. All
// elements of a node share a group id appended to the groups of its
// ancestors, so moving a container in the editor moves its contents.
//
// # Edges
//
// Every arrow leaves the right edge of its source and enters the left edge
// of its target. Repeated connections on the same edge fan out around the
// edge midpoint (see [EdgeOffsets]) and the polyline between the two
// anchors is built by [OrthogonalPoints]. Connections naming a node that
// was never rendered are dropped.
//
// # Determinism
//
// All state (element ids, the position index, edge counters, the random
// source for element seeds) lives in a single call. With the same seed and
// clock the output is byte-for-byte identical, and concurrent calls never
// share anything.
//
// Related packages:
//   - [nodelink]: Graphviz DOT and SVG preview of the same diagram
//
// [nodelink]: github.com/fish-not-phish/eido/pkg/render/nodelink
package render
