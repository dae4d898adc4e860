package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/dictation/internal/model"
)

// Version is set at build time with -ldflags
var Version = "v0.1.0"

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "dictation",
	Short: "Dictation - score typed attempts against reference fragments",
	Long: `Dictation scores how closely a learner's typed attempt matches the
original sentence fragment.

Both texts are normalized (case, curly quotes, whitespace) and split into
tokens with edge punctuation removed. Tokens are compared position by
position, a masked hint shows which words were right, and an acceptance
policy decides whether the learner may advance.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "dictation %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.dictation/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	setDefaults(viper.GetViper(), model.DefaultConfig())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(filepath.Join(home, ".dictation"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// DICTATION_POLICY_TOLERANCE_MODE overrides policy.tolerance_mode
	viper.SetEnvPrefix("DICTATION")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// setDefaults registers every key so that env overrides reach Unmarshal
func setDefaults(v *viper.Viper, cfg *model.Config) {
	v.SetDefault("policy.tolerance_mode", cfg.Policy.ToleranceMode)
	v.SetDefault("policy.aligner", cfg.Policy.Aligner)
	v.SetDefault("cache.enabled", cfg.Cache.Enabled)
	v.SetDefault("cache.memory_ttl", cfg.Cache.MemoryTTL)
	v.SetDefault("cache.dir", cfg.Cache.Dir)
	v.SetDefault("cache.disk_ttl", cfg.Cache.DiskTTL)
	v.SetDefault("concurrency.workers", cfg.Concurrency.Workers)
	v.SetDefault("rate_limiting.requests_per_second", cfg.RateLimiting.RequestsPerSecond)
	v.SetDefault("rate_limiting.burst_size", cfg.RateLimiting.BurstSize)
	v.SetDefault("output.verbose", cfg.Output.Verbose)
	v.SetDefault("output.include_footer", cfg.Output.IncludeFooter)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
}

// loadConfig resolves the effective configuration from v
func loadConfig(v *viper.Viper) (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
