// Package excalidraw models the Excalidraw scene format produced by Eido.
//
// A [Document] is the top-level scene: an ordered list of elements, the
// viewer state and a map of embedded image files. Elements are typed
// ([*Rectangle], [*Image], [*Text], [*Arrow]) and share a common [Base]
// with identity, geometry and default styling. Fields the format expects to
// be present as null are encoded as JSON null; type-specific fields only
// appear on their own element type.
package excalidraw

import (
	"encoding/json"
	"fmt"
)

// Scene-level constants.
const (
	DocumentType    = "excalidraw"
	DocumentVersion = 2
	DocumentSource  = "eido-backend"

	BackgroundColor = "#1C1C1C"
	GridSize        = 20
)

// Document is an Excalidraw scene.
type Document struct {
	Type     string          `json:"type"`
	Version  int             `json:"version"`
	Source   string          `json:"source"`
	Elements []Element       `json:"elements"`
	AppState AppState        `json:"appState"`
	Files    map[string]File `json:"files"`

	index map[string]Element
}

// AppState holds viewer settings stored with the scene.
type AppState struct {
	ViewBackgroundColor string `json:"viewBackgroundColor"`
	GridSize            int    `json:"gridSize"`
}

// File is an embedded binary asset referenced by image elements.
type File struct {
	ID       string `json:"id"`
	DataURL  string `json:"dataURL"`
	MimeType string `json:"mimeType"`
	Created  int64  `json:"created"` // Unix milliseconds
}

// New returns an empty scene with the standard dark background and grid.
func New() *Document {
	return &Document{
		Type:     DocumentType,
		Version:  DocumentVersion,
		Source:   DocumentSource,
		Elements: []Element{},
		AppState: AppState{ViewBackgroundColor: BackgroundColor, GridSize: GridSize},
		Files:    map[string]File{},
		index:    map[string]Element{},
	}
}

// Add appends elements in order.
func (d *Document) Add(els ...Element) {
	if d.index == nil {
		d.reindex()
	}
	for _, el := range els {
		d.Elements = append(d.Elements, el)
		d.index[el.Common().ID] = el
	}
}

// AddFile registers an embedded file under its ID.
func (d *Document) AddFile(f File) {
	if d.Files == nil {
		d.Files = map[string]File{}
	}
	d.Files[f.ID] = f
}

// Find returns the element with the given id, or nil.
func (d *Document) Find(id string) Element {
	if d.index == nil {
		d.reindex()
	}
	return d.index[id]
}

// Count returns the number of elements of the given type.
func (d *Document) Count(t Type) int {
	n := 0
	for _, el := range d.Elements {
		if el.Common().Type == t {
			n++
		}
	}
	return n
}

func (d *Document) reindex() {
	d.index = make(map[string]Element, len(d.Elements))
	for _, el := range d.Elements {
		d.index[el.Common().ID] = el
	}
}

// Filter returns the elements of concrete type T in document order.
func Filter[T Element](d *Document) []T {
	var out []T
	for _, el := range d.Elements {
		if t, ok := el.(T); ok {
			out = append(out, t)
		}
	}
	return out
}

// Marshal encodes the document as compact JSON.
func Marshal(d *Document) ([]byte, error) {
	return json.Marshal(d)
}

// MarshalIndent encodes the document as indented JSON.
func MarshalIndent(d *Document) ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// Unmarshal decodes a document, restoring concrete element types.
func Unmarshal(data []byte) (*Document, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// UnmarshalJSON decodes each element into the concrete type named by its
// "type" field.
func (d *Document) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type     string            `json:"type"`
		Version  int               `json:"version"`
		Source   string            `json:"source"`
		Elements []json.RawMessage `json:"elements"`
		AppState AppState          `json:"appState"`
		Files    map[string]File   `json:"files"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	d.Type, d.Version, d.Source = raw.Type, raw.Version, raw.Source
	d.AppState, d.Files = raw.AppState, raw.Files
	d.Elements = make([]Element, 0, len(raw.Elements))
	for i, msg := range raw.Elements {
		el, err := decodeElement(msg)
		if err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
		d.Elements = append(d.Elements, el)
	}
	d.reindex()
	return nil
}

func decodeElement(msg json.RawMessage) (Element, error) {
	var head struct {
		Type Type `json:"type"`
	}
	if err := json.Unmarshal(msg, &head); err != nil {
		return nil, err
	}

	var el Element
	switch head.Type {
	case TypeRectangle:
		el = &Rectangle{}
	case TypeImage:
		el = &Image{}
	case TypeText:
		el = &Text{}
	case TypeArrow:
		el = &Arrow{}
	default:
		return nil, fmt.Errorf("unknown element type %q", head.Type)
	}
	if err := json.Unmarshal(msg, el); err != nil {
		return nil, err
	}
	return el, nil
}
