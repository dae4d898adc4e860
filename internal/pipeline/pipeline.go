// Package pipeline wires the scoring engine to caching, acceptance policy
// and report rendering.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ppiankov/dictation/internal/cache"
	"github.com/ppiankov/dictation/internal/diff"
	"github.com/ppiankov/dictation/internal/model"
	"github.com/ppiankov/dictation/internal/score"
)

// Pipeline scores attempts and decides whether they are acceptable
type Pipeline struct {
	scorer   *score.Scorer
	policy   score.Policy
	cache    cache.Cache // nil when caching is disabled
	renderer *Renderer
	logger   *slog.Logger
	config   *model.Config
}

// CheckResult is the outcome of one check
type CheckResult struct {
	Result     model.ComparisonResult `json:"result"`
	Acceptable bool                   `json:"acceptable"`
	Cached     bool                   `json:"-"`
}

// NewPipeline creates a pipeline from cfg. It fails only on an unknown aligner.
func NewPipeline(cfg *model.Config, logger *slog.Logger) (*Pipeline, error) {
	aligner, err := diff.AlignerByName(cfg.Policy.Aligner)
	if err != nil {
		return nil, fmt.Errorf("policy: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Pipeline{
		scorer:   score.NewScorer(aligner),
		policy:   score.PolicyFor(cfg.Policy.ToleranceMode),
		cache:    newCache(cfg.Cache),
		renderer: NewRenderer(cfg.Output.IncludeFooter),
		logger:   logger,
		config:   cfg,
	}, nil
}

// newCache builds the cache layers requested by cfg
func newCache(cfg model.CacheConfig) cache.Cache {
	if !cfg.Enabled {
		return nil
	}
	if cfg.Dir == "" {
		return cache.NewMemoryCache(cfg.MemoryTTL, 10*time.Minute)
	}
	return cache.NewLayeredCache(cfg.MemoryTTL, cfg.Dir, cfg.DiskTTL)
}

// Aligner returns the name of the configured aligner
func (p *Pipeline) Aligner() string {
	return p.scorer.Aligner().Name()
}

// ToleranceMode reports whether the tolerant policy is in effect
func (p *Pipeline) ToleranceMode() bool {
	return p.config.Policy.ToleranceMode
}

// Check scores attempt against original and applies the acceptance policy.
// The only error is ctx's; scoring itself never fails.
func (p *Pipeline) Check(ctx context.Context, original, attempt string) (*CheckResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, cached := p.compare(original, attempt)

	return &CheckResult{
		Result:     result,
		Acceptable: p.policy.Accept(result),
		Cached:     cached,
	}, nil
}

// compare consults the cache before scoring. Cache problems are logged and
// fall through to a fresh comparison.
func (p *Pipeline) compare(original, attempt string) (model.ComparisonResult, bool) {
	if p.cache == nil {
		return p.scorer.Compare(original, attempt), false
	}

	key := cache.ComparisonKey(p.Aligner(), original, attempt)

	if raw, found := p.cache.Get(key); found {
		var result model.ComparisonResult
		err := json.Unmarshal(raw, &result)
		if err == nil {
			p.logger.Debug("comparison cache hit", "key", key)
			return result, true
		}
		p.logger.Warn("discarding unreadable cache entry", "key", key, "error", err)
		_ = p.cache.Delete(key)
	}

	result := p.scorer.Compare(original, attempt)
	p.logger.Debug("comparison cache miss", "key", key, "score", result.Score)

	raw, err := json.Marshal(result)
	if err != nil {
		p.logger.Warn("encode comparison for cache", "error", err)
		return result, false
	}
	// Zero TTL lets each layer apply its own configured expiry
	if err := p.cache.Set(key, raw, 0); err != nil {
		p.logger.Warn("store comparison in cache", "key", key, "error", err)
	}

	return result, false
}

// BuildReport assembles a session report from per-exercise results
func (p *Pipeline) BuildReport(title string, results []model.ExerciseResult) *model.Report {
	return &model.Report{
		ID:            uuid.NewString(),
		Title:         title,
		GeneratedAt:   time.Now().UTC(),
		Aligner:       p.Aligner(),
		ToleranceMode: p.ToleranceMode(),
		Exercises:     results,
		Summary:       model.Summarize(results),
	}
}

// RenderReport renders the report to the specified outputs
func (p *Pipeline) RenderReport(report *model.Report, jsonPath string, mdPath string) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		p.logger.Info("wrote report", "format", "json", "path", jsonPath)
	}

	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(report, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		p.logger.Info("wrote report", "format", "markdown", "path", mdPath)
	}

	return nil
}

// Renderer returns the pipeline's renderer
func (p *Pipeline) Renderer() *Renderer {
	return p.renderer
}
