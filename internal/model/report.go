package model

import "time"

// Report is the outcome of scoring a batch of exercises
type Report struct {
	ID            string           `json:"id"`             // Random per batch run
	Title         string           `json:"title"`          // Usually the input file name
	GeneratedAt   time.Time        `json:"generated_at"`   // When the batch finished
	Aligner       string           `json:"aligner"`        // positional or lcs
	ToleranceMode bool             `json:"tolerance_mode"` // Whether long fragments may carry one error
	Exercises     []ExerciseResult `json:"exercises"`      // In input order
	Summary       Summary          `json:"summary"`
}

// Summary aggregates a report
type Summary struct {
	Total     int     `json:"total"`
	Perfect   int     `json:"perfect"`
	Accepted  int     `json:"accepted"`
	Failed    int     `json:"failed"`     // Exercises that could not be scored
	MeanScore float64 `json:"mean_score"` // Over scored exercises only
}

// Summarize computes the summary for a set of results
func Summarize(results []ExerciseResult) Summary {
	s := Summary{Total: len(results)}

	var sum float64
	scored := 0
	for _, r := range results {
		if r.Result == nil {
			s.Failed++
			continue
		}
		scored++
		sum += r.Result.Score
		if r.Result.IsPerfect {
			s.Perfect++
		}
		if r.Acceptable {
			s.Accepted++
		}
	}

	if scored > 0 {
		s.MeanScore = sum / float64(scored)
	}

	return s
}
