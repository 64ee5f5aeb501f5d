package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/fish-not-phish/eido/pkg/dsl"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed appends the icon name to node labels.
	Detailed bool

	// RankDir overrides the layout direction (default "LR").
	RankDir string
}

// ToDOT converts a diagram to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG].
//
// Containers become clusters holding their children. A container that is
// itself the endpoint of a connection also gets a folder-shaped node inside
// its cluster for edges to attach to.
func ToDOT(d *dsl.Diagram, opts Options) string {
	rankdir := opts.RankDir
	if rankdir == "" {
		rankdir = "LR"
	}

	endpoints := make(map[string]bool, 2*len(d.Connections))
	for _, c := range d.Connections {
		endpoints[c.From] = true
		endpoints[c.To] = true
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", rankdir)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	writeNodes(&buf, d.Nodes, opts, endpoints, 1)

	buf.WriteString("\n")
	for _, c := range d.Connections {
		fmt.Fprintf(&buf, "  %q -> %q", c.From, c.To)
		if attrs := edgeAttrs(c); len(attrs) > 0 {
			fmt.Fprintf(&buf, " [%s]", strings.Join(attrs, ", "))
		}
		buf.WriteString(";\n")
	}

	buf.WriteString("}\n")
	return buf.String()
}

func writeNodes(buf *bytes.Buffer, nodes []dsl.Node, opts Options, endpoints map[string]bool, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, n := range nodes {
		c, ok := n.(*dsl.Container)
		if !ok {
			fmt.Fprintf(buf, "%s%q [label=%q];\n", indent, n.NodeName(), fmtLabel(n, opts.Detailed))
			continue
		}

		fmt.Fprintf(buf, "%ssubgraph %q {\n", indent, "cluster_"+c.Name)
		fmt.Fprintf(buf, "%s  label=%q;\n", indent, c.NodeLabel())
		fmt.Fprintf(buf, "%s  style=\"rounded,filled\";\n", indent)
		fmt.Fprintf(buf, "%s  fillcolor=%q;\n", indent, clusterFill(depth-1))
		if endpoints[c.Name] {
			fmt.Fprintf(buf, "%s  %q [label=%q, shape=folder];\n", indent, c.Name, fmtLabel(c, opts.Detailed))
		}
		writeNodes(buf, c.Children, opts, endpoints, depth+1)
		fmt.Fprintf(buf, "%s}\n", indent)
	}
}

func fmtLabel(n dsl.Node, detailed bool) string {
	label := n.NodeLabel()
	if detailed && n.NodeIcon() != "" {
		label += "\n(" + n.NodeIcon() + ")"
	}
	return label
}

func edgeAttrs(c dsl.Connection) []string {
	var attrs []string
	if c.Label != "" {
		attrs = append(attrs, fmt.Sprintf("label=%q", c.Label))
	}
	if c.Direction == dsl.Bidirectional {
		attrs = append(attrs, "dir=both")
	}
	return attrs
}

var clusterFills = []string{"#FFE8D5", "#E6F0FF", "#FFE6E6", "#E8F5E9", "#FFF9C4", "#F1E6FF"}

func clusterFill(depth int) string {
	return clusterFills[depth%len(clusterFills)]
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
