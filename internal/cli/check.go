package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/dictation/internal/model"
	"github.com/ppiankov/dictation/internal/pipeline"
)

// ErrRetry is returned by check --fail-on-retry when the attempt is not acceptable
var ErrRetry = errors.New("attempt not acceptable")

var (
	tolerant    bool
	aligner     string
	noCache     bool
	checkJSON   bool
	failOnRetry bool
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <original> <attempt>",
	Short: "Score one attempt against the original fragment",
	Long: `Check compares a typed attempt with the original fragment and prints:
- the masked hint (correct words shown, others replaced by asterisks)
- the score as correct tokens over original tokens
- a per-token breakdown
- whether the learner may advance

Example:
  dictation check "The quick brown fox jumps." "The quick brown fox jump."
  dictation check "$ORIGINAL" "$ATTEMPT" --tolerant --json
  dictation check "$ORIGINAL" "$ATTEMPT" --fail-on-retry && echo advance`,
	Args: cobra.ExactArgs(2),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().BoolVar(&tolerant, "tolerant", false, "forgive one error on fragments of 8 or more tokens")
	checkCmd.Flags().StringVar(&aligner, "aligner", "positional", "token aligner (positional, lcs)")
	checkCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the comparison cache")
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "print the comparison result as JSON")
	checkCmd.Flags().BoolVar(&failOnRetry, "fail-on-retry", false, "exit non-zero when the attempt is not acceptable")
}

// applyPolicyFlags copies explicitly set shared flags over the loaded config
func applyPolicyFlags(cmd *cobra.Command, cfg *model.Config) {
	if cmd.Flags().Changed("tolerant") {
		cfg.Policy.ToleranceMode = tolerant
	}
	if cmd.Flags().Changed("aligner") {
		cfg.Policy.Aligner = aligner
	}
	if cmd.Flags().Changed("no-cache") {
		cfg.Cache.Enabled = !noCache
	}
	cfg.Output.Verbose = cfg.Output.Verbose || verbose
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	applyPolicyFlags(cmd, cfg)

	logger := newLogger(cfg.Logging, cfg.Output.Verbose, cmd.ErrOrStderr())

	p, err := pipeline.NewPipeline(cfg, logger)
	if err != nil {
		return err
	}

	res, err := p.Check(cmd.Context(), args[0], args[1])
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if checkJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
	} else if err := p.Renderer().WriteCheck(out, res); err != nil {
		return fmt.Errorf("write result: %w", err)
	}

	if failOnRetry && !res.Acceptable {
		return ErrRetry
	}

	return nil
}
