package text

import (
	"strings"
	"unicode"
)

// Tokenize normalizes s and returns its tokens in reading order.
// Leading and trailing characters that are neither word characters nor
// apostrophes are stripped from each piece; pieces left empty are dropped.
func Tokenize(s string) []string {
	pieces := strings.Fields(Normalize(s))

	tokens := make([]string, 0, len(pieces))
	for _, p := range pieces {
		if tok := strings.TrimFunc(p, isEdgeRune); tok != "" {
			tokens = append(tokens, tok)
		}
	}

	return tokens
}

// isEdgeRune reports whether r may be stripped from a token edge
func isEdgeRune(r rune) bool {
	return !isWordRune(r) && r != '\''
}

// isWordRune reports whether r is a letter, digit, combining mark or underscore
func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}
