package render

import (
	"math/rand/v2"
	"strings"
	"time"

	"github.com/fish-not-phish/eido/pkg/dsl"
	"github.com/fish-not-phish/eido/pkg/excalidraw"
	"github.com/fish-not-phish/eido/pkg/icons"
	"github.com/fish-not-phish/eido/pkg/layout"
)

// DefaultSeed seeds element seeds and version nonces when none is given.
const DefaultSeed uint64 = 42

// Text element settings.
const (
	fontFamily  = 6
	iconMime    = "image/png"
	dataURLHead = "data:" + iconMime + ";base64,"
)

// Container palettes, indexed by nesting depth modulo their length.
var (
	paletteFill   = []string{"#FFE8D5", "#E6F0FF", "#FFE6E6", "#E8F5E9", "#FFF9C4", "#F1E6FF"}
	paletteStroke = []string{"#FFF0E4", "#EFF5FF", "#FFEFEF", "#F0F8F1", "#FFFBD9", "#F6EFFF"}
)

// Option configures [Render].
type Option func(*renderer)

// WithIcons sets the resolver for service and container icons. Without it
// every file record has an empty payload.
func WithIcons(r icons.Resolver) Option { return func(rr *renderer) { rr.icons = r } }

// WithPlacement replaces the top-level packing options.
func WithPlacement(p layout.PlaceOptions) Option { return func(r *renderer) { r.place = p } }

// WithClock sets the time source for file record timestamps.
func WithClock(now func() time.Time) Option { return func(r *renderer) { r.now = now } }

// WithIDPrefix prefixes every element, group and file id, for merging scenes.
func WithIDPrefix(prefix string) Option { return func(r *renderer) { r.prefix = prefix } }

// WithSeed seeds element seeds and version nonces. Equal seeds give equal
// documents.
func WithSeed(seed uint64) Option { return func(r *renderer) { r.seed = seed } }

// WithCanvasWidth sets the right edge top-level rows wrap at. Values of
// zero or less keep the default.
func WithCanvasWidth(w float64) Option {
	return func(r *renderer) {
		if w > 0 {
			r.place.MaxWidth = w
		}
	}
}

// Position is the index entry of a rendered node: the element arrows bind
// to and its bounds.
type Position struct {
	ElementID        string
	CenterX, CenterY float64
	Width, Height    float64
}

// Left returns the left edge of the bound element.
func (p Position) Left() float64 { return p.CenterX - p.Width/2 }

// Top returns the top edge of the bound element.
func (p Position) Top() float64 { return p.CenterY - p.Height/2 }

type renderer struct {
	icons  icons.Resolver
	place  layout.PlaceOptions
	now    func() time.Time
	prefix string
	seed   uint64

	doc       *excalidraw.Document
	ids       *excalidraw.IDGenerator
	rng       *rand.Rand
	created   int64
	encoded   map[string]string
	positions map[string]Position
	offsets   *EdgeOffsets
}

func newRenderer(opts ...Option) *renderer {
	r := &renderer{
		icons: icons.Null{},
		place: layout.DefaultPlaceOptions(),
		now:   time.Now,
		seed:  DefaultSeed,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.icons == nil {
		r.icons = icons.Null{}
	}
	r.doc = excalidraw.New()
	r.ids = excalidraw.NewIDGenerator(r.prefix)
	r.rng = rand.New(rand.NewPCG(r.seed, r.seed))
	r.created = r.now().UnixMilli()
	r.encoded = make(map[string]string)
	r.positions = make(map[string]Position)
	r.offsets = NewEdgeOffsets()
	return r
}

// Render lays out and draws a diagram.
func Render(d *dsl.Diagram, opts ...Option) *excalidraw.Document {
	r := newRenderer(opts...)
	boxes := layout.Place(layout.Measure(d.Nodes), r.place)
	return r.draw(boxes, d.Connections)
}

// Draw emits a scene for boxes that have already been measured and placed.
// Placement options are ignored.
func Draw(boxes []*layout.Box, conns []dsl.Connection, opts ...Option) *excalidraw.Document {
	return newRenderer(opts...).draw(boxes, conns)
}

func (r *renderer) draw(boxes []*layout.Box, conns []dsl.Connection) *excalidraw.Document {
	for _, b := range boxes {
		r.node(b, nil)
	}
	for _, c := range conns {
		r.connect(c)
	}
	return r.doc
}

func (r *renderer) node(b *layout.Box, groups []string) {
	if b.IsContainer() {
		r.container(b, groups)
		return
	}
	r.service(b, groups)
}

// service draws the icon centred on the box centre and the caption below it.
func (r *renderer) service(b *layout.Box, parent []string) {
	name := b.Node.NodeName()
	groups := withGroup(parent, r.ids.Next("svcgrp-"+name))
	cx, cy := b.CenterX(), b.CenterY()

	imgID := r.ids.Next(name + "-img")
	img := &excalidraw.Image{
		Base:   r.base(excalidraw.TypeImage, imgID, cx-layout.IconSize/2, cy-layout.IconSize/2, layout.IconSize, layout.IconSize, groups),
		FileID: r.file(b.Node.NodeIcon()),
		Status: "pending",
		Scale:  excalidraw.Point{1, 1},
	}

	label := r.text(r.ids.Next(name+"-label"), b.Label,
		cx-b.LabelWidth/2, cy+layout.IconSize/2+layout.LabelMargin, b.LabelWidth, b.LabelHeight, groups)
	label.TextAlign, label.VerticalAlign = "center", "top"

	r.doc.Add(img, label)
	r.positions[name] = Position{
		ElementID: imgID,
		CenterX:   cx,
		CenterY:   cy,
		Width:     layout.IconSize,
		Height:    layout.IconSize,
	}
}

// container draws the frame, its header and then its children in grid
// order.
func (r *renderer) container(b *layout.Box, parent []string) {
	name := b.Node.NodeName()
	rectID := r.ids.Next(name + "-rect")
	groups := withGroup(parent, r.ids.Next("group-"+name))

	i := b.Depth % len(paletteFill)
	rect := &excalidraw.Rectangle{Base: r.base(excalidraw.TypeRectangle, rectID, b.X, b.Y, b.Width, b.Height, groups)}
	rect.StrokeColor = paletteStroke[i]
	rect.BackgroundColor = paletteFill[i]
	r.doc.Add(rect)
	r.positions[name] = Position{
		ElementID: rectID,
		CenterX:   b.CenterX(),
		CenterY:   b.CenterY(),
		Width:     b.Width,
		Height:    b.Height,
	}

	tinyY := b.Y + (layout.HeaderHeight-layout.TinyIconSize)/2
	tiny := &excalidraw.Image{
		Base:   r.base(excalidraw.TypeImage, r.ids.Next(name+"-tiny-icon"), b.X+layout.LabelMargin, tinyY, layout.TinyIconSize, layout.TinyIconSize, groups),
		FileID: r.file(b.Node.NodeIcon()),
		Status: "pending",
		Scale:  excalidraw.Point{1, 1},
	}

	titleX := b.X + layout.LabelMargin + layout.TinyIconSize + 6
	titleY := b.Y + (layout.HeaderHeight-layout.LineHeightPx)/2
	title := r.text(r.ids.Next(name+"-title"), b.Label, titleX, titleY, b.LabelWidth, layout.LineHeightPx, groups)
	title.TextAlign, title.VerticalAlign = "left", "top"

	r.doc.Add(tiny, title)

	for _, child := range b.Children {
		r.node(child, groups)
	}
}

// file embeds the icon for name and returns the new file id. Every call
// adds a record; the encoded payload is looked up once per icon.
func (r *renderer) file(icon string) string {
	kind := icon
	if kind == "" {
		kind = "icon"
	}
	id := r.ids.Next(kind)

	data, ok := r.encoded[icon]
	if !ok {
		data = icons.Encode(r.icons, icon)
		r.encoded[icon] = data
	}

	r.doc.AddFile(excalidraw.File{
		ID:       id,
		DataURL:  dataURLHead + data,
		MimeType: iconMime,
		Created:  r.created,
	})
	return id
}

func (r *renderer) text(id, s string, x, y, w, h float64, groups []string) *excalidraw.Text {
	return &excalidraw.Text{
		Base:         r.base(excalidraw.TypeText, id, x, y, w, h, groups),
		Text:         s,
		OriginalText: s,
		FontSize:     layout.FontSize,
		FontFamily:   fontFamily,
		AutoResize:   true,
		LineHeight:   layout.LineHeight,
	}
}

func (r *renderer) base(t excalidraw.Type, id string, x, y, w, h float64, groups []string) excalidraw.Base {
	b := excalidraw.NewBase(t, id, x, y, w, h)
	if groups != nil {
		b.GroupIDs = groups
	}
	b.Seed = r.rng.Int64N(1 << 31)
	b.VersionNonce = r.rng.Int64N(1 << 31)
	return b
}

// withGroup returns a copy of parent with id appended, so siblings never
// share a backing array.
func withGroup(parent []string, id string) []string {
	groups := make([]string, len(parent), len(parent)+1)
	copy(groups, parent)
	return append(groups, id)
}

// caption wraps an edge label the same way node captions are wrapped.
func caption(label string) string {
	return layout.Wrap(strings.TrimSpace(label), layout.WrapChars)
}
