package model

// DiffType classifies one aligned position of a token comparison
type DiffType string

const (
	DiffMatch        DiffType = "match"        // Both sides present and equal
	DiffSubstitution DiffType = "substitution" // Both sides present, different
	DiffInsertion    DiffType = "insertion"    // Extra token in the attempt
	DiffDeletion     DiffType = "deletion"     // Original token missing from the attempt
)

// TokenDiff is one aligned comparison unit.
// An empty Original or Attempt means the token is absent at this position.
type TokenDiff struct {
	Original  string   `json:"original"`
	Attempt   string   `json:"attempt"`
	IsCorrect bool     `json:"isCorrect"`
	Type      DiffType `json:"type"`
}

// ComparisonResult is the outcome of scoring one attempt against one original
type ComparisonResult struct {
	Score         float64     `json:"score"`         // CorrectTokens / TotalTokens, 0..1
	TotalTokens   int         `json:"totalTokens"`   // Original token count, floor 1
	CorrectTokens int         `json:"correctTokens"` // Number of match diffs
	Feedback      string      `json:"feedback"`      // Masked hint over the original tokens
	TokenDiffs    []TokenDiff `json:"tokenDiffs"`    // Ordered alignment
	IsPerfect     bool        `json:"isPerfect"`     // Score is 1 and token counts are equal
}

// Count returns how many diffs have the given type
func (r ComparisonResult) Count(t DiffType) int {
	n := 0
	for _, d := range r.TokenDiffs {
		if d.Type == t {
			n++
		}
	}
	return n
}
