package diff

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ppiankov/dictation/internal/model"
)

// ErrUnknownAligner is returned when an aligner name is not recognized
var ErrUnknownAligner = errors.New("unknown aligner")

// Aligner names accepted by AlignerByName
const (
	NamePositional = "positional"
	NameLCS        = "lcs"
)

// Aligner produces the ordered diff between two token sequences
type Aligner interface {
	Name() string
	Align(original, attempt []string) []model.TokenDiff
}

// PositionalAligner is the default aligner
type PositionalAligner struct{}

// Name returns "positional"
func (PositionalAligner) Name() string { return NamePositional }

// Align delegates to Positional
func (PositionalAligner) Align(original, attempt []string) []model.TokenDiff {
	return Positional(original, attempt)
}

// LCSAligner is the opt-in subsequence aligner
type LCSAligner struct{}

// Name returns "lcs"
func (LCSAligner) Name() string { return NameLCS }

// Align delegates to LCS
func (LCSAligner) Align(original, attempt []string) []model.TokenDiff {
	return LCS(original, attempt)
}

// AlignerByName resolves a configured aligner name; empty means positional
func AlignerByName(name string) (Aligner, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", NamePositional:
		return PositionalAligner{}, nil
	case NameLCS:
		return LCSAligner{}, nil
	default:
		return nil, fmt.Errorf("%w: %q (want %s or %s)", ErrUnknownAligner, name, NamePositional, NameLCS)
	}
}
