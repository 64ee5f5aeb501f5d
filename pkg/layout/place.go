package layout

// PlaceOptions controls top-level packing.
type PlaceOptions struct {
	OriginX, OriginY float64
	MaxWidth         float64 // Right edge of the packing area
	Gap              float64 // Space between nodes and between rows
}

// DefaultPlaceOptions returns the standard canvas: origin (100, 100),
// 1200px wide, 120px gaps.
func DefaultPlaceOptions() PlaceOptions {
	return PlaceOptions{
		OriginX:  OriginX,
		OriginY:  OriginY,
		MaxWidth: CanvasMaxWidth,
		Gap:      RowGap,
	}
}

// Place assigns absolute coordinates to measured boxes and returns them.
//
// Top-level boxes are packed left to right from the origin. A box whose
// right edge would pass MaxWidth starts a new row below the tallest box of
// the current row. A box wider than the canvas therefore always starts a
// row, even the first one, which leaves the first row empty. Children are
// centred in their container's grid cells, row-major in declaration order.
//
// Place depends only on the measured sizes, so placing the same tree twice
// yields identical coordinates.
func Place(boxes []*Box, opts PlaceOptions) []*Box {
	if opts.MaxWidth <= 0 {
		opts.MaxWidth = CanvasMaxWidth
	}

	x, y := opts.OriginX, opts.OriginY
	rowHeight := 0.0
	for _, b := range boxes {
		if x+b.Width > opts.MaxWidth {
			x = opts.OriginX
			y += rowHeight + opts.Gap
			rowHeight = 0
		}
		b.X, b.Y = x, y
		placeChildren(b)
		x += b.Width + opts.Gap
		rowHeight = max(rowHeight, b.Height)
	}
	return boxes
}

// placeChildren positions the children of a placed container box. The grid
// is centred horizontally when the title bar made the frame wider than its
// content.
func placeChildren(b *Box) {
	g := b.Grid
	if g == nil {
		return
	}

	left := b.X + ContainerPad
	top := b.Y + HeaderHeight + ContainerPad
	offX := (b.Width - 2*ContainerPad - g.ContentWidth()) / 2
	offY := (b.Height - HeaderHeight - 2*ContainerPad - g.ContentHeight()) / 2

	for i, child := range b.Children {
		row, col := i/g.Columns, i%g.Columns
		cx := left + offX + float64(col)*g.CellWidth + g.MaxChildWidth/2
		cy := top + offY + float64(row)*g.CellHeight + g.MaxChildHeight/2
		child.X = cx - child.Width/2
		child.Y = cy - child.Height/2
		placeChildren(child)
	}
}
