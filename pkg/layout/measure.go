package layout

import (
	"math"
	"strings"

	"github.com/fish-not-phish/eido/pkg/dsl"
)

// Measure computes the size of every node bottom-up and returns a box tree
// parallel to nodes. Children are measured before their container so that
// the container can size its grid from them.
func Measure(nodes []dsl.Node) []*Box {
	return measureAll(nodes, 0)
}

func measureAll(nodes []dsl.Node, depth int) []*Box {
	boxes := make([]*Box, len(nodes))
	for i, n := range nodes {
		boxes[i] = measure(n, depth)
	}
	return boxes
}

func measure(n dsl.Node, depth int) *Box {
	if c, ok := n.(*dsl.Container); ok {
		return measureContainer(c, depth)
	}
	return measureService(n, depth)
}

// measureService sizes an icon with its wrapped caption underneath.
func measureService(n dsl.Node, depth int) *Box {
	label := Wrap(strings.TrimSpace(n.NodeLabel()), WrapChars)
	lw, lh := MeasureText(label)
	return &Box{
		Node:        n,
		Depth:       depth,
		Width:       max(IconSize, lw),
		Height:      IconSize + LabelMargin + lh,
		Label:       label,
		LabelWidth:  lw,
		LabelHeight: lh,
	}
}

// measureContainer sizes a frame with a title bar around a uniform grid of
// its children. An empty container reserves room for one icon.
func measureContainer(c *dsl.Container, depth int) *Box {
	title := c.NodeLabel()
	b := &Box{
		Node:        c,
		Depth:       depth,
		Label:       title,
		LabelWidth:  TextWidth(title),
		LabelHeight: LineHeightPx,
	}

	if len(c.Children) == 0 {
		b.Width = max(IconSize, b.LabelWidth) + 2*ContainerPad
		b.Height = HeaderHeight + 2*ContainerPad + IconSize
		return b
	}

	b.Children = measureAll(c.Children, depth+1)

	g := &Grid{}
	g.Columns, g.Rows = GridShape(len(b.Children))
	for _, child := range b.Children {
		g.MaxChildWidth = max(g.MaxChildWidth, child.Width)
		g.MaxChildHeight = max(g.MaxChildHeight, child.Height)
	}
	g.CellWidth = g.MaxChildWidth + CellHGap
	g.CellHeight = g.MaxChildHeight + CellVGap
	b.Grid = g

	headerMin := TinyIconSize + LabelMargin + b.LabelWidth + TinyIconSize
	b.Width = max(headerMin, g.ContentWidth()+2*ContainerPad)
	b.Height = HeaderHeight + g.ContentHeight() + 2*ContainerPad
	return b
}

// GridShape returns the grid used for n children: at most MaxGridColumns
// columns and as many rows as needed. It returns 0, 0 for n <= 0.
func GridShape(n int) (cols, rows int) {
	if n <= 0 {
		return 0, 0
	}
	cols = min(MaxGridColumns, n)
	rows = int(math.Ceil(float64(n) / float64(cols)))
	return cols, rows
}
