// Package diff aligns an original token sequence with an attempt and
// classifies every aligned position.
package diff

import "github.com/ppiankov/dictation/internal/model"

// Positional compares the two sequences index by index.
// The result always has max(len(original), len(attempt)) entries. A token
// dropped early shifts every later position, so later matches turn into
// substitutions; LCSAligner avoids that at the cost of compatibility.
func Positional(original, attempt []string) []model.TokenDiff {
	n := max(len(original), len(attempt))
	diffs := make([]model.TokenDiff, 0, n)

	for i := 0; i < n; i++ {
		switch {
		case i >= len(original):
			diffs = append(diffs, model.TokenDiff{Attempt: attempt[i], Type: model.DiffInsertion})
		case i >= len(attempt):
			diffs = append(diffs, model.TokenDiff{Original: original[i], Type: model.DiffDeletion})
		case original[i] == attempt[i]:
			diffs = append(diffs, model.TokenDiff{
				Original:  original[i],
				Attempt:   attempt[i],
				IsCorrect: true,
				Type:      model.DiffMatch,
			})
		default:
			diffs = append(diffs, model.TokenDiff{
				Original: original[i],
				Attempt:  attempt[i],
				Type:     model.DiffSubstitution,
			})
		}
	}

	return diffs
}
