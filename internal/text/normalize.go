package text

import "strings"

// quoteReplacer folds typographic quotes into their ASCII forms
var quoteReplacer = strings.NewReplacer(
	"‘", "'",
	"’", "'",
	"“", `"`,
	"”", `"`,
)

// Normalize lower-cases s, straightens curly quotes and collapses every
// whitespace run to a single space with no leading or trailing space.
func Normalize(s string) string {
	s = strings.ToLower(s)
	s = quoteReplacer.Replace(s)
	return strings.Join(strings.Fields(s), " ")
}
