package score

import "github.com/ppiankov/dictation/internal/model"

// Tolerance thresholds are product constants, not derived values
const (
	ToleranceMinTokens = 8 // Shortest original that earns tolerance
	ToleranceMaxErrors = 1 // Wrong, missing or extra tokens forgiven
)

// Policy decides whether a learner may advance past a fragment
type Policy interface {
	Accept(result model.ComparisonResult) bool
}

// ExactPolicy accepts perfect attempts only
type ExactPolicy struct{}

// Accept implements Policy
func (ExactPolicy) Accept(result model.ComparisonResult) bool {
	return result.IsPerfect
}

// TolerantPolicy also forgives one error on long fragments
type TolerantPolicy struct{}

// Accept implements Policy
func (TolerantPolicy) Accept(result model.ComparisonResult) bool {
	if result.IsPerfect {
		return true
	}
	if result.TotalTokens >= ToleranceMinTokens {
		return result.TotalTokens-result.CorrectTokens <= ToleranceMaxErrors
	}
	return false
}

// PolicyFor returns the policy for the given mode
func PolicyFor(toleranceMode bool) Policy {
	if toleranceMode {
		return TolerantPolicy{}
	}
	return ExactPolicy{}
}

// IsAcceptable reports whether result is good enough to advance
func IsAcceptable(result model.ComparisonResult, toleranceMode bool) bool {
	return PolicyFor(toleranceMode).Accept(result)
}
