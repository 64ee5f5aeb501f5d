package dsl

import "strings"

// Token is one unit of tokenized source: a single brace or one trimmed,
// non-empty line of text.
type Token string

// Brace tokens.
const (
	Open  Token = "{"
	Close Token = "}"
)

// IsOpen reports whether the token opens a block.
func (t Token) IsOpen() bool { return t == Open }

// IsClose reports whether the token closes a block.
func (t Token) IsClose() bool { return t == Close }

// IsBrace reports whether the token is either brace.
func (t Token) IsBrace() bool { return t == Open || t == Close }

// Tokenize splits source text into tokens.
//
// Every '{' and '}' becomes its own token wherever it appears, including in
// the middle of a line; there is no escaping. The text between braces is
// split into lines, each line is trimmed, and blank lines are dropped.
// Tokenize never fails; empty input yields an empty slice.
func Tokenize(src string) []Token {
	var (
		tokens []Token
		chunk  strings.Builder
	)

	flush := func() {
		for _, line := range splitLines(chunk.String()) {
			if line = strings.TrimSpace(line); line != "" {
				tokens = append(tokens, Token(line))
			}
		}
		chunk.Reset()
	}

	for _, r := range src {
		if r == '{' || r == '}' {
			flush()
			tokens = append(tokens, Token(r))
			continue
		}
		chunk.WriteRune(r)
	}
	flush()

	return tokens
}

// splitLines splits on every line boundary, treating \r\n, \r and the
// Unicode line and paragraph separators like \n.
func splitLines(s string) []string {
	return strings.FieldsFunc(s, isLineBreak)
}

func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}
