package render

import (
	"github.com/fish-not-phish/eido/pkg/dsl"
	"github.com/fish-not-phish/eido/pkg/excalidraw"
	"github.com/fish-not-phish/eido/pkg/layout"
)

// Edge routing constants.
const (
	BindingGap = 8.0  // Distance between an arrow end and its element
	OffsetStep = 12.0 // Spread between repeated connections on one edge

	minAnchor = 0.1
	maxAnchor = 0.9
)

// Edge is a side of a bound element.
type Edge string

// Element edges.
const (
	EdgeTop    Edge = "top"
	EdgeRight  Edge = "right"
	EdgeBottom Edge = "bottom"
	EdgeLeft   Edge = "left"
)

func (e Edge) horizontal() bool { return e == EdgeLeft || e == EdgeRight }
func (e Edge) vertical() bool   { return e == EdgeTop || e == EdgeBottom }

type edgeKey struct {
	id   string
	edge Edge
}

// EdgeOffsets hands out anchor offsets for connections that share an
// element edge. The n-th request (from 0) for one edge gets 0, +12, -12,
// +24, -24 and so on.
type EdgeOffsets struct {
	counts map[edgeKey]int
}

// NewEdgeOffsets returns an empty counter set.
func NewEdgeOffsets() *EdgeOffsets {
	return &EdgeOffsets{counts: make(map[edgeKey]int)}
}

// Next returns the offset for the next connection on the given edge.
func (o *EdgeOffsets) Next(elementID string, edge Edge) float64 {
	k := edgeKey{elementID, edge}
	n := o.counts[k]
	o.counts[k] = n + 1
	return Offset(n)
}

// Offset returns the anchor offset of the n-th connection on an edge.
func Offset(n int) float64 {
	if n <= 0 {
		return 0
	}
	mag := OffsetStep * float64((n+1)/2)
	if n%2 == 1 {
		return mag
	}
	return -mag
}

// anchor returns the point just outside the given vertical edge of p, with
// its binding. Only left and right edges are used for node connections.
func (r *renderer) anchor(p Position, edge Edge) (excalidraw.Point, *excalidraw.Binding) {
	off := r.offsets.Next(p.ElementID, edge)
	ny := min(maxAnchor, max(minAnchor, 0.5+off/p.Height))
	y := p.Top() + ny*p.Height

	bind := &excalidraw.Binding{ElementID: p.ElementID, Gap: BindingGap}
	if edge == EdgeRight {
		bind.FixedPoint = excalidraw.Point{1, ny}
		return excalidraw.Point{p.Left() + p.Width + BindingGap, y}, bind
	}
	bind.FixedPoint = excalidraw.Point{0, ny}
	return excalidraw.Point{p.Left() - BindingGap, y}, bind
}

// OrthogonalPoints returns the polyline from start to end relative to
// start. Two horizontal edges bend twice at the horizontal midpoint, two
// vertical edges at the vertical midpoint; mixed edges bend once. Any
// other pair is joined directly.
func OrthogonalPoints(start, end excalidraw.Point, startEdge, endEdge Edge) []excalidraw.Point {
	dx, dy := end[0]-start[0], end[1]-start[1]

	switch {
	case startEdge.horizontal() && endEdge.horizontal():
		mx := dx / 2
		return []excalidraw.Point{{0, 0}, {mx, 0}, {mx, dy}, {dx, dy}}
	case startEdge.vertical() && endEdge.vertical():
		my := dy / 2
		return []excalidraw.Point{{0, 0}, {0, my}, {dx, my}, {dx, dy}}
	case startEdge.horizontal() && endEdge.vertical():
		return []excalidraw.Point{{0, 0}, {dx, 0}, {dx, dy}}
	case startEdge.vertical() && endEdge.horizontal():
		return []excalidraw.Point{{0, 0}, {0, dy}, {dx, dy}}
	default:
		return []excalidraw.Point{{0, 0}, {dx, dy}}
	}
}

// connect draws one connection. Connections whose endpoints were not
// rendered are skipped.
func (r *renderer) connect(c dsl.Connection) {
	from, ok := r.positions[c.From]
	if !ok {
		return
	}
	to, ok := r.positions[c.To]
	if !ok {
		return
	}

	start, startBind := r.anchor(from, EdgeRight)
	end, endBind := r.anchor(to, EdgeLeft)

	id := r.ids.Next("arrow")
	arrow := &excalidraw.Arrow{
		Base:          r.base(excalidraw.TypeArrow, id, start[0], start[1], end[0]-start[0], end[1]-start[1], nil),
		Points:        OrthogonalPoints(start, end, EdgeRight, EdgeLeft),
		StartBinding:  startBind,
		EndBinding:    endBind,
		EndArrowhead:  excalidraw.Arrowhead("arrow"),
		Elbowed:       true,
		FixedSegments: []excalidraw.FixedSegment{},
	}
	if c.Direction == dsl.Bidirectional {
		arrow.StartArrowhead = excalidraw.Arrowhead("arrow")
	}
	r.doc.Add(arrow)

	for _, p := range []Position{from, to} {
		if el := r.doc.Find(p.ElementID); el != nil {
			el.Common().Bind(id, excalidraw.TypeArrow)
		}
	}

	if c.Label == "" {
		return
	}
	text := caption(c.Label)
	lw, lh := layout.MeasureText(text)
	midX := (min(start[0], end[0]) + max(start[0], end[0])) / 2
	midY := (min(start[1], end[1]) + max(start[1], end[1])) / 2

	label := r.text(r.ids.Next(id+"-label"), text, midX-lw/2, midY-lh/2, lw, lh, nil)
	label.TextAlign, label.VerticalAlign = "center", "middle"
	label.ContainerID = &arrow.ID
	r.doc.Add(label)
	arrow.Bind(label.ID, excalidraw.TypeText)
}
