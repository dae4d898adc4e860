package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "whitespace only", input: " \t\n ", want: ""},
		{name: "lower-cases", input: "The Cat", want: "the cat"},
		{name: "trims", input: "  hello  ", want: "hello"},
		{name: "collapses whitespace", input: "a \t b\n\nc", want: "a b c"},
		{name: "curly single quotes", input: "‘don’t’", want: "'don't'"},
		{name: "curly double quotes", input: "“Hi”", want: `"hi"`},
		{name: "non-ascii", input: "Ça  VA", want: "ça va"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		"  The  Quick\tBrown\n",
		"“It’s  here,” she said.",
		"ÀÉÎ  õü",
		" spaced out ",
	}

	for _, s := range inputs {
		once := Normalize(s)
		assert.Equal(t, once, Normalize(once), "input %q", s)
	}
}

func TestTokenize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "punctuation stripped", input: "Hello, world!", want: []string{"hello", "world"}},
		{name: "internal apostrophe kept", input: "don't stop", want: []string{"don't", "stop"}},
		{name: "quoted word", input: `"hello,"`, want: []string{"hello"}},
		{name: "curly apostrophe", input: "Don’t", want: []string{"don't"}},
		{name: "edge apostrophes kept", input: "'tis the dogs'", want: []string{"'tis", "the", "dogs'"}},
		{name: "internal punctuation kept", input: "e.g. well-known", want: []string{"e.g", "well-known"}},
		{name: "punctuation-only pieces dropped", input: "wait - what ?!", want: []string{"wait", "what"}},
		{name: "digits and underscore", input: "(route_66)", want: []string{"route_66"}},
		{name: "duplicates kept", input: "no, no, no", want: []string{"no", "no", "no"}},
		{name: "empty", input: "", want: []string{}},
		{name: "whitespace only", input: "  \n\t", want: []string{}},
		{name: "accented letters", input: "Café, naïve.", want: []string{"café", "naïve"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.input))
		})
	}
}

func TestTokenize_NeverEmitsEmptyToken(t *testing.T) {
	t.Parallel()

	for _, tok := range Tokenize(`... , "" -- ' hi !! ''`) {
		assert.NotEmpty(t, tok)
	}
}
