package excalidraw

// Type names an element kind.
type Type string

// Element types emitted by Eido.
const (
	TypeRectangle Type = "rectangle"
	TypeImage     Type = "image"
	TypeText      Type = "text"
	TypeArrow     Type = "arrow"
)

// Default element style.
const (
	DefaultStrokeColor     = "#ffffff"
	DefaultBackgroundColor = "transparent"
	DefaultFillStyle       = "solid"
	DefaultStrokeWidth     = 2
	DefaultStrokeStyle     = "solid"
	DefaultOpacity         = 100
)

// Element is implemented by every scene element.
type Element interface {
	Common() *Base
}

// Point is an (x, y) pair, relative to the owning element for arrows.
type Point [2]float64

// Base holds the fields shared by all element types.
type Base struct {
	ID     string  `json:"id"`
	Type   Type    `json:"type"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	Angle           float64 `json:"angle"`
	StrokeColor     string  `json:"strokeColor"`
	BackgroundColor string  `json:"backgroundColor"`
	FillStyle       string  `json:"fillStyle"`
	StrokeWidth     int     `json:"strokeWidth"`
	StrokeStyle     string  `json:"strokeStyle"`
	Roughness       int     `json:"roughness"`
	Opacity         int     `json:"opacity"`

	GroupIDs      []string       `json:"groupIds"`
	FrameID       *string        `json:"frameId"`
	Index         *string        `json:"index"`
	Roundness     *Roundness     `json:"roundness"`
	BoundElements []BoundElement `json:"boundElements"`

	Seed         int64   `json:"seed"`
	Version      int     `json:"version"`
	VersionNonce int64   `json:"versionNonce"`
	IsDeleted    bool    `json:"isDeleted"`
	Link         *string `json:"link"`
	Locked       bool    `json:"locked"`
}

// NewBase returns a base with the default style. Seeds are left zero for
// the caller to fill.
func NewBase(t Type, id string, x, y, w, h float64) Base {
	return Base{
		ID:              id,
		Type:            t,
		X:               x,
		Y:               y,
		Width:           w,
		Height:          h,
		StrokeColor:     DefaultStrokeColor,
		BackgroundColor: DefaultBackgroundColor,
		FillStyle:       DefaultFillStyle,
		StrokeWidth:     DefaultStrokeWidth,
		StrokeStyle:     DefaultStrokeStyle,
		Opacity:         DefaultOpacity,
		GroupIDs:        []string{},
		BoundElements:   []BoundElement{},
		Version:         1,
	}
}

// Common returns the shared fields.
func (b *Base) Common() *Base { return b }

// Bind records that another element (an arrow or a label) is attached.
func (b *Base) Bind(id string, t Type) {
	b.BoundElements = append(b.BoundElements, BoundElement{ID: id, Type: t})
}

// Roundness is the corner rounding of a shape.
type Roundness struct {
	Type int `json:"type"`
}

// BoundElement references an element attached to another one.
type BoundElement struct {
	ID   string `json:"id"`
	Type Type   `json:"type"`
}

// Binding attaches an arrow end to an element. FixedPoint is the anchor in
// the element's normalised coordinates ([0,0] top-left, [1,1] bottom-right).
type Binding struct {
	ElementID  string  `json:"elementId"`
	Focus      float64 `json:"focus"`
	Gap        float64 `json:"gap"`
	FixedPoint Point   `json:"fixedPoint"`
}

// Rectangle is a filled frame.
type Rectangle struct {
	Base
}

// Image displays an embedded file.
type Image struct {
	Base
	FileID string `json:"fileId"`
	Status string `json:"status"`
	Scale  Point  `json:"scale"`
	Crop   *Crop  `json:"crop"`
}

// Crop selects part of an image.
type Crop struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Text is a block of text, optionally bound to a container element.
type Text struct {
	Base
	Text          string  `json:"text"`
	OriginalText  string  `json:"originalText"`
	FontSize      float64 `json:"fontSize"`
	FontFamily    int     `json:"fontFamily"`
	TextAlign     string  `json:"textAlign"`
	VerticalAlign string  `json:"verticalAlign"`
	ContainerID   *string `json:"containerId,omitempty"`
	AutoResize    bool    `json:"autoResize"`
	LineHeight    float64 `json:"lineHeight"`
}

// Arrow is a polyline between two bound elements. Points are relative to
// the arrow's X and Y.
type Arrow struct {
	Base
	Points         []Point        `json:"points"`
	StartBinding   *Binding       `json:"startBinding"`
	EndBinding     *Binding       `json:"endBinding"`
	StartArrowhead *string        `json:"startArrowhead"`
	EndArrowhead   *string        `json:"endArrowhead"`
	Elbowed        bool           `json:"elbowed"`
	FixedSegments  []FixedSegment `json:"fixedSegments"`
	StartIsSpecial bool           `json:"startIsSpecial"`
	EndIsSpecial   bool           `json:"endIsSpecial"`
}

// FixedSegment pins one segment of an elbowed arrow.
type FixedSegment struct {
	Start Point `json:"start"`
	End   Point `json:"end"`
	Index int   `json:"index"`
}

// Arrowhead returns a pointer to the arrowhead name for use in Arrow fields.
func Arrowhead(name string) *string { return &name }

var (
	_ Element = (*Rectangle)(nil)
	_ Element = (*Image)(nil)
	_ Element = (*Text)(nil)
	_ Element = (*Arrow)(nil)
)
