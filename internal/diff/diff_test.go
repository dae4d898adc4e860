package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/dictation/internal/model"
)

func match(tok string) model.TokenDiff {
	return model.TokenDiff{Original: tok, Attempt: tok, IsCorrect: true, Type: model.DiffMatch}
}

func TestPositional(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		original []string
		attempt  []string
		want     []model.TokenDiff
	}{
		{
			name:     "both empty",
			original: nil,
			attempt:  nil,
			want:     []model.TokenDiff{},
		},
		{
			name:     "all match",
			original: []string{"the", "cat"},
			attempt:  []string{"the", "cat"},
			want:     []model.TokenDiff{match("the"), match("cat")},
		},
		{
			name:     "substitution",
			original: []string{"fox", "jumps"},
			attempt:  []string{"fox", "jump"},
			want: []model.TokenDiff{
				match("fox"),
				{Original: "jumps", Attempt: "jump", Type: model.DiffSubstitution},
			},
		},
		{
			name:     "trailing insertion",
			original: []string{"the"},
			attempt:  []string{"the", "end"},
			want: []model.TokenDiff{
				match("the"),
				{Attempt: "end", Type: model.DiffInsertion},
			},
		},
		{
			name:     "trailing deletion",
			original: []string{"the", "end"},
			attempt:  []string{"the"},
			want: []model.TokenDiff{
				match("the"),
				{Original: "end", Type: model.DiffDeletion},
			},
		},
		{
			name:     "dropped word cascades",
			original: []string{"a", "big", "red", "dog"},
			attempt:  []string{"a", "red", "dog"},
			want: []model.TokenDiff{
				match("a"),
				{Original: "big", Attempt: "red", Type: model.DiffSubstitution},
				{Original: "red", Attempt: "dog", Type: model.DiffSubstitution},
				{Original: "dog", Type: model.DiffDeletion},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Positional(tt.original, tt.attempt))
		})
	}
}

func TestPositional_LengthInvariant(t *testing.T) {
	t.Parallel()

	seqs := [][]string{
		nil,
		{"a"},
		{"a", "b"},
		{"x", "y", "z"},
		{"a", "b", "c", "d", "e"},
	}

	for _, a := range seqs {
		for _, b := range seqs {
			diffs := Positional(a, b)
			require.Len(t, diffs, max(len(a), len(b)))
			for _, d := range diffs {
				assert.Equal(t, d.Type == model.DiffMatch, d.IsCorrect)
			}
		}
	}
}

func TestLCS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		original []string
		attempt  []string
		want     []model.TokenDiff
	}{
		{
			name:     "dropped word does not cascade",
			original: []string{"a", "big", "red", "dog"},
			attempt:  []string{"a", "red", "dog"},
			want: []model.TokenDiff{
				match("a"),
				{Original: "big", Type: model.DiffDeletion},
				match("red"),
				match("dog"),
			},
		},
		{
			name:     "inserted word",
			original: []string{"the", "cat"},
			attempt:  []string{"the", "fat", "cat"},
			want: []model.TokenDiff{
				match("the"),
				{Attempt: "fat", Type: model.DiffInsertion},
				match("cat"),
			},
		},
		{
			name:     "gap pairs into substitution",
			original: []string{"fox", "jumps", "high"},
			attempt:  []string{"fox", "jump", "high"},
			want: []model.TokenDiff{
				match("fox"),
				{Original: "jumps", Attempt: "jump", Type: model.DiffSubstitution},
				match("high"),
			},
		},
		{
			name:     "nothing in common",
			original: []string{"a", "b"},
			attempt:  []string{"c"},
			want: []model.TokenDiff{
				{Original: "a", Attempt: "c", Type: model.DiffSubstitution},
				{Original: "b", Type: model.DiffDeletion},
			},
		},
		{
			name:     "empty attempt",
			original: []string{"a"},
			attempt:  nil,
			want:     []model.TokenDiff{{Original: "a", Type: model.DiffDeletion}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LCS(tt.original, tt.attempt))
		})
	}
}

func TestLCS_CoversEveryOriginalToken(t *testing.T) {
	t.Parallel()

	original := []string{"one", "two", "three", "four", "two"}
	attempt := []string{"two", "one", "three", "five", "two", "six"}

	var got []string
	for _, d := range LCS(original, attempt) {
		if d.Original != "" {
			got = append(got, d.Original)
		}
	}

	assert.Equal(t, original, got)
}

func TestAlignerByName(t *testing.T) {
	t.Parallel()

	a, err := AlignerByName("")
	require.NoError(t, err)
	assert.Equal(t, NamePositional, a.Name())

	a, err = AlignerByName(" LCS ")
	require.NoError(t, err)
	assert.Equal(t, NameLCS, a.Name())

	_, err = AlignerByName("levenshtein")
	assert.ErrorIs(t, err, ErrUnknownAligner)
}
