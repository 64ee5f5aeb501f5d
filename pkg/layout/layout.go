// Package layout sizes and positions a parsed diagram.
//
// Layout runs in two passes over the node tree:
//
//   - [Measure] works bottom-up and computes the size of every node: the
//     icon plus wrapped caption of a service, and the header plus child
//     grid of a container.
//   - [Place] works top-down and assigns absolute coordinates: top-level
//     nodes are packed into rows across the canvas, children are centred
//     in the cells of their container's grid.
//
// Both passes produce or update a tree of [Box] values that mirrors the
// node tree; the parsed nodes themselves are never modified. All sizes are
// in canvas pixels and derive from the constants below.
package layout

import "github.com/fish-not-phish/eido/pkg/dsl"

// Geometry constants shared by measurement, placement and rendering.
const (
	IconSize     = 64.0                  // Service icon edge
	FontSize     = 14.0                  // Caption font size
	LineHeight   = 1.35                  // Line height as a multiple of FontSize
	LineHeightPx = FontSize * LineHeight // One caption line in pixels
	CharWidth    = 8.0                   // Estimated width of one character
	LabelMargin  = 8.0                   // Gap between an icon and its caption
	MinTextWidth = 80.0                  // Minimum width of any text block
	WrapChars    = 16                    // Caption wrap width in characters

	ContainerPad = 24.0 // Inner padding of a container frame
	HeaderHeight = 28.0 // Container title bar height
	TinyIconSize = 16.0 // Icon in the container title bar

	MaxGridColumns = 3
	CellHGap       = 80.0 // Horizontal gap between grid cells
	CellVGap       = 60.0 // Vertical gap between grid cells

	RowGap         = 120.0 // Gap between top-level nodes, both axes
	OriginX        = 100.0
	OriginY        = 100.0
	CanvasMaxWidth = 1200.0
)

// Box is the measured, and after [Place] positioned, footprint of one node.
type Box struct {
	Node  dsl.Node
	Depth int // Number of enclosing containers

	Width, Height float64

	// Label is the caption text as drawn: wrapped for services, the
	// unwrapped title for containers.
	Label       string
	LabelWidth  float64
	LabelHeight float64

	Grid     *Grid  // Non-nil for containers with children
	Children []*Box // Parallel to the container's children

	// X and Y are the top-left corner, set by Place.
	X, Y float64
}

// Grid describes how a container lays out its children.
type Grid struct {
	Columns, Rows  int
	CellWidth      float64
	CellHeight     float64
	MaxChildWidth  float64
	MaxChildHeight float64
}

// ContentWidth is the grid extent without the trailing horizontal gap.
func (g *Grid) ContentWidth() float64 {
	return float64(g.Columns)*g.CellWidth - CellHGap
}

// ContentHeight is the grid extent without the trailing vertical gap.
func (g *Grid) ContentHeight() float64 {
	return float64(g.Rows)*g.CellHeight - CellVGap
}

// IsContainer reports whether the box belongs to a container node.
func (b *Box) IsContainer() bool { return b.Node.Kind() == dsl.KindContainer }

// CenterX returns the horizontal center of the box.
func (b *Box) CenterX() float64 { return b.X + b.Width/2 }

// CenterY returns the vertical center of the box.
func (b *Box) CenterY() float64 { return b.Y + b.Height/2 }

// Walk visits b and its descendants depth-first, parents first.
func (b *Box) Walk(fn func(*Box)) {
	fn(b)
	for _, c := range b.Children {
		c.Walk(fn)
	}
}
