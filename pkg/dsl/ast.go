package dsl

import "encoding/json"

// Kind discriminates the two node variants.
type Kind string

// Node kinds.
const (
	KindService   Kind = "service"
	KindContainer Kind = "container"
)

// Node is a declared element of the diagram tree: a [*Service] leaf or a
// [*Container] that owns child nodes.
type Node interface {
	NodeName() string
	NodeLabel() string
	NodeIcon() string
	Kind() Kind
}

// Service is a leaf node rendered as an icon with a caption.
type Service struct {
	Name  string
	Label string // Caption; empty falls back to Name when displayed
	Icon  string // Icon asset name; empty when absent
}

// NodeName returns the unique name of the service.
func (s *Service) NodeName() string { return s.Name }

// NodeLabel returns the label if set, otherwise the name.
func (s *Service) NodeLabel() string { return displayLabel(s.Label, s.Name) }

// NodeIcon returns the icon asset name, or "" when none was given.
func (s *Service) NodeIcon() string { return s.Icon }

// Kind returns [KindService].
func (s *Service) Kind() Kind { return KindService }

// MarshalJSON encodes the service with a "type" discriminator.
func (s *Service) MarshalJSON() ([]byte, error) {
	return json.Marshal(nodeJSON{
		Type:  KindService,
		Name:  s.Name,
		Label: s.Label,
		Icon:  s.Icon,
	})
}

// Container groups child nodes inside a labelled frame. Children keep their
// declaration order and belong to exactly one container.
type Container struct {
	Name     string
	Label    string
	Icon     string
	Children []Node
}

// NodeName returns the unique name of the container.
func (c *Container) NodeName() string { return c.Name }

// NodeLabel returns the label if set, otherwise the name.
func (c *Container) NodeLabel() string { return displayLabel(c.Label, c.Name) }

// NodeIcon returns the icon asset name, or "" when none was given.
func (c *Container) NodeIcon() string { return c.Icon }

// Kind returns [KindContainer].
func (c *Container) Kind() Kind { return KindContainer }

// MarshalJSON encodes the container and its children with a "type"
// discriminator.
func (c *Container) MarshalJSON() ([]byte, error) {
	children := c.Children
	if children == nil {
		children = []Node{}
	}
	return json.Marshal(nodeJSON{
		Type:     KindContainer,
		Name:     c.Name,
		Label:    c.Label,
		Icon:     c.Icon,
		Children: children,
	})
}

type nodeJSON struct {
	Type     Kind   `json:"type"`
	Name     string `json:"name"`
	Label    string `json:"label"`
	Icon     string `json:"icon,omitempty"`
	Children []Node `json:"children,omitempty"`
}

func displayLabel(label, name string) string {
	if label != "" {
		return label
	}
	return name
}

// Direction is the arrowhead configuration of a connection.
type Direction string

// Connection directions.
const (
	Forward       Direction = "forward"
	Bidirectional Direction = "bidirectional"
)

// Connection links two nodes by name. For [Forward] connections the arrow
// points from From to To.
type Connection struct {
	From      string    `json:"from"`
	To        string    `json:"to"`
	Label     string    `json:"label,omitempty"`
	Direction Direction `json:"direction"`
}

// Diagram is the result of parsing: the ordered top-level nodes and every
// connection found anywhere in the source.
type Diagram struct {
	Nodes       []Node       `json:"nodes"`
	Connections []Connection `json:"connections"`
}

// Walk visits every node of the tree depth-first in declaration order,
// parents before children. Returning false from fn stops the walk.
func (d *Diagram) Walk(fn func(n Node, depth int) bool) {
	walk(d.Nodes, 0, fn)
}

func walk(nodes []Node, depth int, fn func(Node, int) bool) bool {
	for _, n := range nodes {
		if !fn(n, depth) {
			return false
		}
		if c, ok := n.(*Container); ok {
			if !walk(c.Children, depth+1, fn) {
				return false
			}
		}
	}
	return true
}

// Lookup returns the node with the given name, searching the whole tree.
func (d *Diagram) Lookup(name string) (Node, bool) {
	var found Node
	d.Walk(func(n Node, _ int) bool {
		if n.NodeName() == name {
			found = n
			return false
		}
		return true
	})
	return found, found != nil
}

// Stats summarises the size of a diagram.
type Stats struct {
	Services    int `json:"services"`
	Containers  int `json:"containers"`
	Connections int `json:"connections"`
	MaxDepth    int `json:"max_depth"`
}

// Stats counts services, containers and connections, and records the
// deepest nesting level (0 when everything is top level).
func (d *Diagram) Stats() Stats {
	s := Stats{Connections: len(d.Connections)}
	d.Walk(func(n Node, depth int) bool {
		switch n.Kind() {
		case KindService:
			s.Services++
		case KindContainer:
			s.Containers++
		}
		s.MaxDepth = max(s.MaxDepth, depth)
		return true
	})
	return s
}
