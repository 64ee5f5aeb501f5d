package layout

import (
	"testing"

	"github.com/fish-not-phish/eido/pkg/dsl"
)

func TestPlace_TopLevelRow(t *testing.T) {
	boxes := Place(Measure(dsl.Parse("A\nB").Nodes), DefaultPlaceOptions())

	if boxes[0].X != 100 || boxes[0].Y != 100 {
		t.Errorf("A at (%v, %v), want (100, 100)", boxes[0].X, boxes[0].Y)
	}
	if boxes[1].X != 100+80+120 || boxes[1].Y != 100 {
		t.Errorf("B at (%v, %v), want (300, 100)", boxes[1].X, boxes[1].Y)
	}
	if !approx(boxes[0].CenterX(), 140) || !approx(boxes[0].CenterY(), 100+90.9/2) {
		t.Errorf("A center = (%v, %v)", boxes[0].CenterX(), boxes[0].CenterY())
	}
}

func TestPlace_RowWrap(t *testing.T) {
	boxes := []*Box{
		{Node: &dsl.Service{Name: "a"}, Width: 500, Height: 50},
		{Node: &dsl.Service{Name: "b"}, Width: 500, Height: 80},
		{Node: &dsl.Service{Name: "c"}, Width: 100, Height: 10},
	}
	Place(boxes, DefaultPlaceOptions())

	if boxes[1].X != 100 || boxes[1].Y != 100+50+120 {
		t.Errorf("b at (%v, %v), want (100, 270)", boxes[1].X, boxes[1].Y)
	}
	if boxes[2].X != 100+500+120 || boxes[2].Y != boxes[1].Y {
		t.Errorf("c at (%v, %v), want (720, %v)", boxes[2].X, boxes[2].Y, boxes[1].Y)
	}
}

func TestPlace_OversizedBoxStartsRow(t *testing.T) {
	boxes := []*Box{
		{Node: &dsl.Service{Name: "wide"}, Width: 2000, Height: 10},
		{Node: &dsl.Service{Name: "next"}, Width: 80, Height: 40},
		{Node: &dsl.Service{Name: "wider"}, Width: 1500, Height: 30},
	}
	Place(boxes, DefaultPlaceOptions())

	// The first row is empty: wide wraps below a zero-height row.
	if boxes[0].X != 100 || boxes[0].Y != 220 {
		t.Errorf("wide at (%v, %v), want (100, 220)", boxes[0].X, boxes[0].Y)
	}
	if boxes[1].X != 100 || boxes[1].Y != 220+10+120 {
		t.Errorf("next at (%v, %v), want (100, 350)", boxes[1].X, boxes[1].Y)
	}
	if boxes[2].X != 100 || boxes[2].Y != 350+40+120 {
		t.Errorf("wider at (%v, %v), want (100, 510)", boxes[2].X, boxes[2].Y)
	}
}

func TestPlace_CustomWidth(t *testing.T) {
	opts := DefaultPlaceOptions()
	opts.MaxWidth = 350
	boxes := Place(Measure(dsl.Parse("A\nB\nC").Nodes), opts)

	// A ends at 180; B would end at 380 > 350 and wraps.
	if boxes[1].X != 100 || boxes[1].Y <= boxes[0].Y {
		t.Errorf("B at (%v, %v), want a new row", boxes[1].X, boxes[1].Y)
	}
}

func TestPlace_GridChildren(t *testing.T) {
	boxes := Place(Measure(dsl.Parse("Group {\nA\nB\nC\n}").Nodes), DefaultPlaceOptions())
	g := boxes[0]

	wantX := []float64{124, 284, 444}
	for i, child := range g.Children {
		if !approx(child.X, wantX[i]) || !approx(child.Y, 152) {
			t.Errorf("child %d at (%v, %v), want (%v, 152)", i, child.X, child.Y, wantX[i])
		}
	}
}

func TestPlace_GridCentredUnderWideHeader(t *testing.T) {
	c := &dsl.Container{Name: "c", Label: "A very long container title", Children: []dsl.Node{
		&dsl.Service{Name: "A"},
	}}
	boxes := Place(Measure([]dsl.Node{c}), DefaultPlaceOptions())

	// offset = (256 - 48 - 80) / 2 = 64
	child := boxes[0].Children[0]
	if !approx(child.CenterX(), 100+24+64+40) {
		t.Errorf("child CenterX = %v, want 228", child.CenterX())
	}
}

func TestPlace_NestedContainerAnchoredInCell(t *testing.T) {
	boxes := Place(Measure(dsl.Parse("Outer {\nInner {\nX\n}\nS\n}").Nodes), DefaultPlaceOptions())
	outer := boxes[0]
	inner, svc := outer.Children[0], outer.Children[1]
	g := outer.Grid

	cellCX := outer.X + ContainerPad + g.MaxChildWidth/2
	if !approx(inner.CenterX(), cellCX) {
		t.Errorf("inner CenterX = %v, want %v", inner.CenterX(), cellCX)
	}
	if !approx(svc.CenterX(), cellCX+g.CellWidth) {
		t.Errorf("service CenterX = %v, want %v", svc.CenterX(), cellCX+g.CellWidth)
	}
	// Inner's own child sits inside inner's frame.
	x := inner.Children[0]
	if x.X < inner.X || x.X+x.Width > inner.X+inner.Width {
		t.Errorf("nested child [%v, %v] outside frame [%v, %v]", x.X, x.X+x.Width, inner.X, inner.X+inner.Width)
	}
}
