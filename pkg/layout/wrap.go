package layout

import (
	"strings"
	"unicode/utf8"
)

// Wrap greedily wraps text on whitespace so that no line exceeds width
// characters. Words are never split: a word longer than width gets a line
// of its own. Runs of whitespace collapse to one space; empty or blank text
// yields "".
func Wrap(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}

	lines := make([]string, 0, len(words))
	cur := words[0]
	curLen := utf8.RuneCountInString(cur)
	for _, w := range words[1:] {
		wl := utf8.RuneCountInString(w)
		if curLen+1+wl <= width {
			cur += " " + w
			curLen += 1 + wl
			continue
		}
		lines = append(lines, cur)
		cur, curLen = w, wl
	}
	lines = append(lines, cur)

	return strings.Join(lines, "\n")
}

// MeasureText estimates the size of already wrapped text. Empty text counts
// as one empty line.
func MeasureText(wrapped string) (width, height float64) {
	lines := strings.Split(wrapped, "\n")
	longest := 0
	for _, l := range lines {
		longest = max(longest, utf8.RuneCountInString(l))
	}
	return max(float64(longest)*CharWidth, MinTextWidth), float64(len(lines)) * LineHeightPx
}

// TextWidth estimates the width of a single unwrapped line.
func TextWidth(text string) float64 {
	return max(float64(utf8.RuneCountInString(text))*CharWidth, MinTextWidth)
}
