package dsl

import (
	"regexp"
	"strings"
)

var (
	// nodeLineRe matches a node declaration with properties: `name [props]`.
	nodeLineRe = regexp.MustCompile(`^([^\[\]{}]+?)\s*\[(.+?)\]\s*$`)

	// connLineRe matches `a op b` with an optional `: label`. Either endpoint
	// may carry inline properties. `<>` is listed first so it is never read
	// as `<` followed by an endpoint starting with `>`.
	connLineRe = regexp.MustCompile(`^([^{}]+?(?:\s*\[.*?\])?)\s*(<>|<|>)\s*([^{}]+?(?:\s*\[.*?\])?)(?:\s*:\s*(.+))?$`)

	// inlineNodeRe splits a connection endpoint into name and properties.
	inlineNodeRe = regexp.MustCompile(`^([^\[\]{}:]+?)\s*\[(.+?)\]$`)
)

// Parse builds a diagram from DSL source.
//
// Each token is classified by the first rule that matches:
//
//  1. `name [props]`: declares a service, or a container when the next
//     token is '{' (the following block becomes its children).
//  2. A bare line without '[', '<' or '>': declares a service labelled
//     with its own text, or a container when followed by '{'.
//  3. `a > b`, `a < b` or `a <> b`, optionally followed by `: label`:
//     records a connection and declares any endpoint not seen before.
//  4. Anything else is dropped.
//
// A '}' ends the current block and a stray '{' is skipped. Parse never
// fails; see the package documentation for the leniency rules.
func Parse(src string) *Diagram {
	p := &parser{
		tokens:   Tokenize(src),
		registry: make(map[string]Node),
	}
	nodes := p.block()
	if nodes == nil {
		nodes = []Node{}
	}
	conns := p.connections
	if conns == nil {
		conns = []Connection{}
	}
	return &Diagram{Nodes: nodes, Connections: conns}
}

// parser holds the state of a single Parse call. Nothing here outlives it.
type parser struct {
	tokens      []Token
	pos         int
	registry    map[string]Node
	connections []Connection
}

// block consumes tokens until the matching '}' (or the end of input) and
// returns the nodes declared directly inside it.
func (p *parser) block() []Node {
	var items []Node
	for p.pos < len(p.tokens) {
		tok := p.tokens[p.pos]
		p.pos++

		switch {
		case tok.IsClose():
			return items
		case tok.IsOpen():
			continue
		}

		line := string(tok)
		if m := nodeLineRe.FindStringSubmatch(line); m != nil {
			items = p.declare(items, strings.TrimSpace(m[1]), ParseProps(m[2]))
			continue
		}
		if !strings.ContainsAny(line, "[<>") {
			items = p.declare(items, line, Props{})
			continue
		}
		if m := connLineRe.FindStringSubmatch(line); m != nil {
			items = p.connect(items, m[1], m[2], m[3], m[4])
		}
	}
	return items
}

// declare handles an explicit node declaration. When the next token opens a
// block the node is a container and the block is parsed as its children.
func (p *parser) declare(items []Node, name string, props Props) []Node {
	opensBlock := p.pos < len(p.tokens) && p.tokens[p.pos].IsOpen()

	existing, known := p.registry[name]
	if !opensBlock {
		if known {
			return items
		}
		return p.add(items, &Service{Name: name, Label: props.label(name), Icon: props.icon()})
	}

	p.pos++ // '{'
	if known {
		children := p.block()
		if c, ok := existing.(*Container); ok {
			c.Children = append(c.Children, children...)
			return items
		}
		return append(items, children...)
	}

	c := &Container{Name: name, Label: props.label(name), Icon: props.icon()}
	items = p.add(items, c)
	// A redeclaration inside the block may already have appended children.
	children := p.block()
	c.Children = append(children, c.Children...)
	return items
}

// connect records a connection and declares unseen endpoints as services
// in the current block.
func (p *parser) connect(items []Node, rawA, op, rawB, label string) []Node {
	a, propsA := endpoint(rawA)
	b, propsB := endpoint(rawB)
	if a == "" || b == "" {
		return items
	}

	items = p.ensure(items, a, propsA)
	items = p.ensure(items, b, propsB)

	conn := Connection{Label: strings.TrimSpace(label)}
	switch op {
	case ">":
		conn.From, conn.To, conn.Direction = a, b, Forward
	case "<":
		conn.From, conn.To, conn.Direction = b, a, Forward
	default:
		conn.From, conn.To, conn.Direction = a, b, Bidirectional
	}
	p.connections = append(p.connections, conn)
	return items
}

// ensure declares name as a service unless it is already registered.
func (p *parser) ensure(items []Node, name string, props Props) []Node {
	if _, ok := p.registry[name]; ok {
		return items
	}
	return p.add(items, &Service{Name: name, Label: props.label(name), Icon: props.icon()})
}

func (p *parser) add(items []Node, n Node) []Node {
	p.registry[n.NodeName()] = n
	return append(items, n)
}

// endpoint splits a connection operand into its name and inline properties.
func endpoint(raw string) (string, Props) {
	raw = strings.TrimSpace(raw)
	if m := inlineNodeRe.FindStringSubmatch(raw); m != nil {
		return strings.TrimSpace(m[1]), ParseProps(m[2])
	}
	return raw, Props{}
}
