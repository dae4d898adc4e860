package score

import (
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/dictation/internal/diff"
	"github.com/ppiankov/dictation/internal/model"
	"github.com/ppiankov/dictation/internal/text"
)

// minMaskLen is the shortest asterisk run used to hide a token
const minMaskLen = 3

// Scorer turns token alignments into comparison results
type Scorer struct {
	aligner diff.Aligner
}

// NewScorer creates a scorer using the given aligner (positional when nil)
func NewScorer(aligner diff.Aligner) *Scorer {
	if aligner == nil {
		aligner = diff.PositionalAligner{}
	}
	return &Scorer{aligner: aligner}
}

// Aligner returns the aligner in use
func (s *Scorer) Aligner() diff.Aligner {
	return s.aligner
}

// Compare tokenizes both raw strings and scores the attempt
func (s *Scorer) Compare(original, attempt string) model.ComparisonResult {
	return s.Score(text.Tokenize(original), text.Tokenize(attempt))
}

// Score scores already tokenized input
func (s *Scorer) Score(original, attempt []string) model.ComparisonResult {
	diffs := s.aligner.Align(original, attempt)

	correct := 0
	for _, d := range diffs {
		if d.Type == model.DiffMatch {
			correct++
		}
	}

	// An empty original still divides by one
	total := max(len(original), 1)
	ratio := float64(correct) / float64(total)

	return model.ComparisonResult{
		Score:         ratio,
		TotalTokens:   total,
		CorrectTokens: correct,
		Feedback:      feedback(diffs),
		TokenDiffs:    diffs,
		IsPerfect:     ratio == 1 && len(original) == len(attempt),
	}
}

// Compare scores raw strings with the positional aligner
func Compare(original, attempt string) model.ComparisonResult {
	return defaultScorer.Compare(original, attempt)
}

// Score scores token sequences with the positional aligner
func Score(original, attempt []string) model.ComparisonResult {
	return defaultScorer.Score(original, attempt)
}

var defaultScorer = NewScorer(nil)

// Mask hides a token behind at least three asterisks
func Mask(token string) string {
	return strings.Repeat("*", max(utf8.RuneCountInString(token), minMaskLen))
}

// feedback walks the original side of the alignment in order, showing
// matched tokens and masking the rest. Insertions carry no original token
// and add nothing.
func feedback(diffs []model.TokenDiff) string {
	parts := make([]string, 0, len(diffs))
	for _, d := range diffs {
		if d.Original == "" {
			continue
		}
		if d.Type == model.DiffMatch {
			parts = append(parts, d.Original)
		} else {
			parts = append(parts, Mask(d.Original))
		}
	}
	return strings.Join(parts, " ")
}
