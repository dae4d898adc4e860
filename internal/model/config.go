package model

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Config holds all runtime settings.
// Field tags serve both viper (mapstructure) and yaml output.
type Config struct {
	Policy       PolicyConfig       `yaml:"policy" mapstructure:"policy"`
	Cache        CacheConfig        `yaml:"cache" mapstructure:"cache"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Output       OutputConfig       `yaml:"output" mapstructure:"output"`
	Logging      LoggingConfig      `yaml:"logging" mapstructure:"logging"`
}

// PolicyConfig selects how attempts are aligned and accepted
type PolicyConfig struct {
	ToleranceMode bool   `yaml:"tolerance_mode" mapstructure:"tolerance_mode"` // Allow one error on fragments of 8+ tokens
	Aligner       string `yaml:"aligner" mapstructure:"aligner"`               // positional (default) or lcs
}

// CacheConfig controls the comparison cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl" validate:"gte=0"`
	Dir       string        `yaml:"dir" mapstructure:"dir"` // Empty keeps the cache in memory only
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl" validate:"gte=0"`
}

// ConcurrencyConfig controls the batch worker pool
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers" validate:"gte=0"` // Zero runs a single worker
}

// RateLimitingConfig throttles submissions per learner.
// A non-positive rate leaves learners without an override unthrottled.
type RateLimitingConfig struct {
	RequestsPerSecond float64                `yaml:"requests_per_second" mapstructure:"requests_per_second" validate:"gte=0"`
	BurstSize         int                    `yaml:"burst_size" mapstructure:"burst_size" validate:"gte=0"`
	Learners          map[string]LearnerRate `yaml:"learners,omitempty" mapstructure:"learners" validate:"dive"` // Keyed by lower-cased learner ID
}

// LearnerRate overrides the rate limit for one learner
type LearnerRate struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second" validate:"gte=0"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size" validate:"gte=0"`
}

// Enabled reports whether any learner is throttled
func (c RateLimitingConfig) Enabled() bool {
	if c.RequestsPerSecond > 0 {
		return true
	}
	for _, lr := range c.Learners {
		if lr.RequestsPerSecond > 0 {
			return true
		}
	}
	return false
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool `yaml:"include_footer" mapstructure:"include_footer"`
}

// LoggingConfig controls the structured logger
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // text or json
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Policy: PolicyConfig{
			ToleranceMode: false,
			Aligner:       "positional",
		},
		Cache: CacheConfig{
			Enabled:   true,
			MemoryTTL: 30 * time.Minute,
			Dir:       "",
			DiskTTL:   24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 0,
			BurstSize:         5,
		},
		Output: OutputConfig{
			Verbose:       false,
			IncludeFooter: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate checks value ranges that decoding alone cannot enforce
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
