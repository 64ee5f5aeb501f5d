package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/fish-not-phish/eido/pkg/dsl"
)

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

// Styles shared by the status lines, the spinner and the icon picker.
var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)
	StyleDim       = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue     = lipgloss.NewStyle().Foreground(colorWhite)

	styleOK      = lipgloss.NewStyle().Foreground(colorGreen)
	styleFailed  = lipgloss.NewStyle().Foreground(colorRed)
	styleWarn    = lipgloss.NewStyle().Foreground(colorYellow)
	styleLabel   = lipgloss.NewStyle().Foreground(colorGray).Width(8)
	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
)

// console writes the human-facing status lines of a command. Artifacts never
// go through it, so `-o -` output stays clean when w is stderr.
type console struct {
	w io.Writer
}

func newConsole(w io.Writer) console { return console{w: w} }

func (c console) line(marker lipgloss.Style, glyph, msg string) {
	fmt.Fprintln(c.w, marker.Render(glyph)+" "+msg)
}

func (c console) success(format string, args ...any) {
	c.line(styleOK, "✓", fmt.Sprintf(format, args...))
}

func (c console) fail(format string, args ...any) {
	c.line(styleFailed, "✗", fmt.Sprintf(format, args...))
}

func (c console) warn(format string, args ...any) {
	c.line(styleWarn, "!", styleWarn.Render(fmt.Sprintf(format, args...)))
}

func (c console) info(format string, args ...any) {
	c.line(lipgloss.NewStyle().Foreground(colorGray), "›", fmt.Sprintf(format, args...))
}

// detail prints an indented, muted line under the previous status.
func (c console) detail(format string, args ...any) {
	fmt.Fprintln(c.w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// wrote points at a file a command produced.
func (c console) wrote(path string) {
	fmt.Fprintln(c.w, "  "+StyleDim.Render("→")+" "+StyleValue.Render(path))
}

func (c console) field(key, value string) {
	fmt.Fprintln(c.w, styleLabel.Render(key)+" "+StyleValue.Render(value))
}

func (c console) hint(what, command string) {
	fmt.Fprintln(c.w, StyleDim.Render(what+":")+" "+styleCommand.Render(command))
}

func (c console) stats(s dsl.Stats, elements int, cached bool) {
	fmt.Fprintln(c.w, "  "+summary(s, elements, cached))
}

func (c console) blank() { fmt.Fprintln(c.w) }

// summary is the one-line diagram digest printed after parse and render,
// e.g. "3 services · 1 container · 2 connections · 9 elements · fresh".
// Zero counts are left out.
func summary(s dsl.Stats, elements int, cached bool) string {
	counts := []struct {
		n    int
		noun string
	}{
		{s.Services, "service"},
		{s.Containers, "container"},
		{s.Connections, "connection"},
		{elements, "element"},
	}
	var parts []string
	for _, c := range counts {
		if c.n > 0 {
			parts = append(parts, StyleDim.Render(countOf(c.n, c.noun)))
		}
	}
	if cached {
		parts = append(parts, styleOK.Render("cached"))
	} else {
		parts = append(parts, StyleDim.Render("fresh"))
	}
	return strings.Join(parts, StyleDim.Render(" · "))
}

func countOf(n int, noun string) string {
	if n != 1 {
		noun += "s"
	}
	return fmt.Sprintf("%d %s", n, noun)
}
