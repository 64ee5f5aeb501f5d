package excalidraw

import "strconv"

// IDGenerator issues element ids that are unique within one document. It
// is not safe for concurrent use; create one per render.
type IDGenerator struct {
	prefix string
	n      int
}

// NewIDGenerator returns a generator whose ids start with prefix, if any.
func NewIDGenerator(prefix string) *IDGenerator {
	return &IDGenerator{prefix: prefix}
}

// Next returns a fresh id of the form [prefix-]kind-N.
func (g *IDGenerator) Next(kind string) string {
	g.n++
	id := kind + "-" + strconv.Itoa(g.n)
	if g.prefix != "" {
		id = g.prefix + "-" + id
	}
	return id
}
