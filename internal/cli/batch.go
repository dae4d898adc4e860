package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/dictation/internal/model"
	"github.com/ppiankov/dictation/internal/pipeline"
	"github.com/ppiankov/dictation/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
	rps          float64
	burst        int
	noFooter     bool
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Score a file of exercises in parallel",
	Long: `Batch scores every exercise in a YAML file:
- Read exercises (id, learner, original, attempt) from the input file
- Score them concurrently with a configurable worker count
- Optionally throttle submissions per learner
- Write a JSON and a Markdown session report

Example:
  dictation batch lesson.yaml
  dictation batch lesson.yaml --concurrency 8 --output-dir ./reports
  dictation batch lesson.yaml --tolerant --aligner lcs`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./dictation-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 5*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().Float64Var(&rps, "rps", 0, "default max submissions per second per learner (0 disables the default)")
	batchCmd.Flags().IntVar(&burst, "burst", 5, "burst size for per-learner rate limiting")
	batchCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	batchCmd.Flags().BoolVar(&tolerant, "tolerant", false, "forgive one error on fragments of 8 or more tokens")
	batchCmd.Flags().StringVar(&aligner, "aligner", "positional", "token aligner (positional, lcs)")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the comparison cache")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]

	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	applyPolicyFlags(cmd, cfg)
	if cmd.Flags().Changed("concurrency") {
		cfg.Concurrency.Workers = concurrency
	}
	if cmd.Flags().Changed("rps") {
		cfg.RateLimiting.RequestsPerSecond = rps
	}
	if cmd.Flags().Changed("burst") {
		cfg.RateLimiting.BurstSize = burst
	}
	if cmd.Flags().Changed("no-footer") {
		cfg.Output.IncludeFooter = !noFooter
	}

	logger := newLogger(cfg.Logging, cfg.Output.Verbose, cmd.ErrOrStderr())

	p, err := pipeline.NewPipeline(cfg, logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), batchTimeout)
	defer cancel()

	stderr := cmd.ErrOrStderr()
	fmt.Fprintf(stderr, "\n")
	fmt.Fprintf(stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(stderr, "  Dictation Batch Scoring\n")
	fmt.Fprintf(stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(stderr, "\n")
	fmt.Fprintf(stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(stderr, "  Aligner:      %s\n", p.Aligner())
	fmt.Fprintf(stderr, "  Tolerance:    %v\n", p.ToleranceMode())
	fmt.Fprintf(stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(stderr, "\n")

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	processor := worker.NewBatchProcessor(p, cfg.Concurrency.Workers, cfg.RateLimiting)

	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	exercises := make([]model.ExerciseResult, 0, len(results))
	for _, r := range results {
		er := r.ExerciseResult()
		exercises = append(exercises, er)

		switch {
		case er.Result == nil:
			fmt.Fprintf(stderr, "✗ %s: %s\n", er.ID, er.Error)
		case er.Acceptable:
			fmt.Fprintf(stderr, "✓ %s (%d/%d) advance\n", er.ID, er.Result.CorrectTokens, er.Result.TotalTokens)
		default:
			fmt.Fprintf(stderr, "· %s (%d/%d) retry: %s\n", er.ID, er.Result.CorrectTokens, er.Result.TotalTokens, er.Result.Feedback)
		}
	}

	report := p.BuildReport(filepath.Base(file), exercises)

	slug := sanitizeFilename(strings.TrimSuffix(filepath.Base(file), filepath.Ext(file)))
	jsonPath := filepath.Join(outputDir, slug+".json")
	mdPath := filepath.Join(outputDir, slug+".md")

	if err := p.RenderReport(report, jsonPath, mdPath); err != nil {
		return err
	}

	fmt.Fprintf(stderr, "\n")
	fmt.Fprintf(stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(stderr, "  Batch Complete\n")
	fmt.Fprintf(stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(stderr, "\n")
	if err := p.Renderer().WriteSummary(stderr, report); err != nil {
		return err
	}
	fmt.Fprintf(stderr, "  Output:     %s\n\n", outputDir)

	return nil
}

// sanitizeFilename sanitizes a string for use as a filename
func sanitizeFilename(s string) string {
	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
		" ", "-",
	)
	s = replacer.Replace(strings.TrimSpace(s))

	if s == "" || s == "." || s == ".." {
		return "session"
	}

	if runes := []rune(s); len(runes) > 100 {
		s = string(runes[:100])
	}

	return s
}
