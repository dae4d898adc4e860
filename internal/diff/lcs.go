package diff

import "github.com/ppiankov/dictation/internal/model"

// LCS aligns the sequences on their longest common subsequence.
// Between two anchors, leftover tokens are paired into substitutions and
// the surplus becomes deletions (original side) or insertions (attempt side).
// Every original token appears exactly once, in order.
func LCS(original, attempt []string) []model.TokenDiff {
	n, m := len(original), len(attempt)

	// dp[i][j] is the LCS length of original[i:] and attempt[j:]
	dp := make([][]int, n+1)
	for i := range dp {
		dp[i] = make([]int, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if original[i] == attempt[j] {
				dp[i][j] = dp[i+1][j+1] + 1
			} else {
				dp[i][j] = max(dp[i+1][j], dp[i][j+1])
			}
		}
	}

	diffs := make([]model.TokenDiff, 0, max(n, m))
	var dels, ins []string

	flush := func() {
		paired := min(len(dels), len(ins))
		for k := 0; k < paired; k++ {
			diffs = append(diffs, model.TokenDiff{Original: dels[k], Attempt: ins[k], Type: model.DiffSubstitution})
		}
		for _, tok := range dels[paired:] {
			diffs = append(diffs, model.TokenDiff{Original: tok, Type: model.DiffDeletion})
		}
		for _, tok := range ins[paired:] {
			diffs = append(diffs, model.TokenDiff{Attempt: tok, Type: model.DiffInsertion})
		}
		dels, ins = dels[:0], ins[:0]
	}

	i, j := 0, 0
	for i < n && j < m {
		switch {
		case original[i] == attempt[j]:
			flush()
			diffs = append(diffs, model.TokenDiff{
				Original:  original[i],
				Attempt:   attempt[j],
				IsCorrect: true,
				Type:      model.DiffMatch,
			})
			i++
			j++
		case dp[i+1][j] >= dp[i][j+1]:
			dels = append(dels, original[i])
			i++
		default:
			ins = append(ins, attempt[j])
			j++
		}
	}
	dels = append(dels, original[i:]...)
	ins = append(ins, attempt[j:]...)
	flush()

	return diffs
}
