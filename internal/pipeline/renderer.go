package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/antzucaro/matchr"

	"github.com/ppiankov/dictation/internal/model"
)

// nearMissThreshold is the Jaro-Winkler similarity above which a
// substitution is shown as a likely spelling slip
const nearMissThreshold = 0.85

var cellEscaper = strings.NewReplacer("|", `\|`, "\r\n", " ", "\n", " ")

// Renderer writes reports and check results
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the report as indented JSON
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// RenderMarkdown writes the report as Markdown
func (r *Renderer) RenderMarkdown(report *model.Report, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, closeErr)
		}
	}()

	return r.WriteMarkdown(f, report)
}

// WriteMarkdown renders the report as Markdown to w
func (r *Renderer) WriteMarkdown(w io.Writer, report *model.Report) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# Dictation session: %s\n\n", report.Title)
	fmt.Fprintf(&b, "- Report: %s\n", report.ID)
	fmt.Fprintf(&b, "- Generated: %s\n", report.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&b, "- Aligner: %s\n", report.Aligner)
	fmt.Fprintf(&b, "- Tolerance mode: %v\n\n", report.ToleranceMode)

	s := report.Summary
	b.WriteString("## Summary\n\n")
	b.WriteString("| Total | Perfect | Accepted | Failed | Mean score |\n")
	b.WriteString("|---|---|---|---|---|\n")
	fmt.Fprintf(&b, "| %d | %d | %d | %d | %.0f%% |\n\n", s.Total, s.Perfect, s.Accepted, s.Failed, s.MeanScore*100)

	b.WriteString("## Exercises\n\n")
	for _, ex := range report.Exercises {
		fmt.Fprintf(&b, "### %s\n\n", ex.ID)
		if ex.Learner != "" {
			fmt.Fprintf(&b, "- Learner: %s\n", ex.Learner)
		}
		fmt.Fprintf(&b, "- Original: %s\n", cell(ex.Original))
		fmt.Fprintf(&b, "- Attempt: %s\n", cell(ex.Attempt))

		if ex.Result == nil {
			fmt.Fprintf(&b, "- Error: %s\n\n", ex.Error)
			continue
		}

		fmt.Fprintf(&b, "- Score: %d/%d (%.0f%%)\n", ex.Result.CorrectTokens, ex.Result.TotalTokens, ex.Result.Score*100)
		fmt.Fprintf(&b, "- Hint: `%s`\n", ex.Result.Feedback)
		fmt.Fprintf(&b, "- Mistakes: %s\n", mistakeCounts(*ex.Result))
		fmt.Fprintf(&b, "- Decision: %s\n", decision(ex.Acceptable))

		if wrong := mistakes(ex.Result.TokenDiffs); len(wrong) > 0 {
			b.WriteString("\n| Expected | Typed | Kind |\n|---|---|---|\n")
			for _, line := range wrong {
				b.WriteString(line)
			}
		}
		b.WriteString("\n")
	}

	if r.includeFooter {
		b.WriteString("---\n\n")
		b.WriteString("_Scores compare tokens position by position unless the lcs aligner is selected._\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteCheck prints a single check result for a terminal
func (r *Renderer) WriteCheck(w io.Writer, res *CheckResult) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Hint:     %s\n", res.Result.Feedback)
	fmt.Fprintf(&b, "Score:    %d/%d (%.0f%%)\n", res.Result.CorrectTokens, res.Result.TotalTokens, res.Result.Score*100)
	fmt.Fprintf(&b, "Perfect:  %v\n", res.Result.IsPerfect)
	fmt.Fprintf(&b, "Mistakes: %s\n", mistakeCounts(res.Result))
	fmt.Fprintf(&b, "Decision: %s\n", decision(res.Acceptable))

	if len(res.Result.TokenDiffs) > 0 {
		b.WriteString("\n")
		for _, d := range res.Result.TokenDiffs {
			mark := "✓"
			if !d.IsCorrect {
				mark = "✗"
			}
			fmt.Fprintf(&b, "  %s %-12s %-14s %s%s\n", mark, d.Type, show(d.Original), show(d.Attempt), nearMissNote(d))
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteSummary prints the report summary for a terminal
func (r *Renderer) WriteSummary(w io.Writer, report *model.Report) error {
	s := report.Summary
	_, err := fmt.Fprintf(w,
		"  Total:      %d exercises\n  Perfect:    %d\n  Accepted:   %d\n  Failed:     %d\n  Mean score: %.0f%%\n",
		s.Total, s.Perfect, s.Accepted, s.Failed, s.MeanScore*100)
	return err
}

// mistakes returns one Markdown table row per incorrect diff
func mistakes(diffs []model.TokenDiff) []string {
	var rows []string
	for _, d := range diffs {
		if d.IsCorrect {
			continue
		}
		rows = append(rows, fmt.Sprintf("| %s | %s | %s%s |\n", cell(show(d.Original)), cell(show(d.Attempt)), d.Type, nearMissNote(d)))
	}
	return rows
}

// mistakeCounts summarises incorrect diffs by kind
func mistakeCounts(r model.ComparisonResult) string {
	return fmt.Sprintf("%d substituted, %d missing, %d extra",
		r.Count(model.DiffSubstitution), r.Count(model.DiffDeletion), r.Count(model.DiffInsertion))
}

// cell keeps s on one line and stops pipes from splitting a table row
func cell(s string) string {
	return cellEscaper.Replace(s)
}

// NearMiss reports whether a substitution looks like a spelling slip.
// It only annotates output and never affects scoring.
func NearMiss(d model.TokenDiff) bool {
	if d.Type != model.DiffSubstitution {
		return false
	}
	return matchr.JaroWinkler(d.Original, d.Attempt, false) >= nearMissThreshold
}

func nearMissNote(d model.TokenDiff) string {
	if NearMiss(d) {
		return " (near miss)"
	}
	return ""
}

func show(tok string) string {
	if tok == "" {
		return "—"
	}
	return tok
}

func decision(acceptable bool) string {
	if acceptable {
		return "advance"
	}
	return "retry"
}
