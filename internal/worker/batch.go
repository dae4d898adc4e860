package worker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/dictation/internal/model"
	"github.com/ppiankov/dictation/internal/pipeline"
)

// ErrInvalidExercise is returned for exercises that cannot be scored
var ErrInvalidExercise = errors.New("invalid exercise")

// Checker scores one attempt
type Checker interface {
	Check(ctx context.Context, original, attempt string) (*pipeline.CheckResult, error)
}

// CheckJob scores a single exercise
type CheckJob struct {
	Index    int
	Exercise model.Exercise
	Checker  Checker
	Limiter  *Limiter // nil disables throttling
}

// Execute waits for the learner's rate limit and runs the check
func (j *CheckJob) Execute(ctx context.Context) Result {
	res := &CheckResult{Index: j.Index, Exercise: j.Exercise}

	if j.Limiter != nil {
		if err := j.Limiter.Wait(ctx, learnerKey(j.Exercise.Learner)); err != nil {
			res.Error = fmt.Errorf("rate limiter: %w", err)
			return res
		}
	}

	check, err := j.Checker.Check(ctx, j.Exercise.Original, j.Exercise.Attempt)
	if err != nil {
		res.Error = err
		return res
	}

	res.Check = check
	return res
}

// CheckResult is the outcome of one CheckJob
type CheckResult struct {
	Index    int
	Exercise model.Exercise
	Check    *pipeline.CheckResult
	Error    error
}

// GetError returns the error from the check
func (r *CheckResult) GetError() error {
	return r.Error
}

// ExerciseResult converts r to its report form
func (r *CheckResult) ExerciseResult() model.ExerciseResult {
	out := model.ExerciseResult{
		ID:       r.Exercise.ID,
		Learner:  r.Exercise.Learner,
		Original: r.Exercise.Original,
		Attempt:  r.Exercise.Attempt,
	}
	if r.Error != nil {
		out.Error = r.Error.Error()
		return out
	}
	result := r.Check.Result
	out.Result = &result
	out.Acceptable = r.Check.Acceptable
	return out
}

// BatchProcessor scores many exercises concurrently
type BatchProcessor struct {
	checker     Checker
	concurrency int
	limiter     *Limiter
}

// NewBatchProcessor creates a batch processor. Learners are throttled
// only when limits enables a default rate or a per-learner override.
func NewBatchProcessor(checker Checker, concurrency int, limits model.RateLimitingConfig) *BatchProcessor {
	var limiter *Limiter
	if limits.Enabled() {
		limiter = NewLimiter(limits.RequestsPerSecond, limits.BurstSize)
		for learner, lr := range limits.Learners {
			limiter.SetKeyRate(learnerKey(learner), lr.RequestsPerSecond, lr.BurstSize)
		}
	}

	return &BatchProcessor{
		checker:     checker,
		concurrency: concurrency,
		limiter:     limiter,
	}
}

// learnerKey folds case so config keys, which viper lower-cases, match
// learner IDs from exercise files
func learnerKey(learner string) string {
	return strings.ToLower(strings.TrimSpace(learner))
}

// ProcessExercises scores exercises and returns results in input order.
// Exercises not started before ctx ends are reported with ctx's error.
func (b *BatchProcessor) ProcessExercises(ctx context.Context, exercises []model.Exercise) []*CheckResult {
	if len(exercises) == 0 {
		return []*CheckResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	submitted := 0
	for i, ex := range exercises {
		job := &CheckJob{
			Index:    i,
			Exercise: ex,
			Checker:  b.checker,
			Limiter:  b.limiter,
		}
		if !pool.Submit(job) {
			break
		}
		submitted++
	}

	var results []Result
	if submitted < len(exercises) {
		// ctx ended mid-submission; drop whatever is still queued
		results = pool.Shutdown()
	} else {
		results = pool.Wait()
	}

	out := make([]*CheckResult, len(exercises))
	for _, r := range results {
		cr := r.(*CheckResult)
		out[cr.Index] = cr
	}

	for i, r := range out {
		if r == nil {
			err := ctx.Err()
			if err == nil {
				err = context.Canceled
			}
			out[i] = &CheckResult{Index: i, Exercise: exercises[i], Error: err}
		}
	}

	return out
}

// ProcessFile reads an exercise file and scores it
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*CheckResult, error) {
	exercises, err := ReadExercisesFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read exercises: %w", err)
	}

	return b.ProcessExercises(ctx, exercises), nil
}

// ReadExercisesFromFile loads a YAML exercise file.
// Blank IDs become "exercise-N" (1-based), with a suffix when another
// exercise already uses that ID. Duplicate explicit IDs keep the first entry.
func ReadExercisesFromFile(filePath string) ([]model.Exercise, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}

	var file model.ExerciseFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filePath, err)
	}

	explicit := make(map[string]bool)
	for _, ex := range file.Exercises {
		if id := strings.TrimSpace(ex.ID); id != "" {
			explicit[id] = true
		}
	}

	var exercises []model.Exercise
	seen := make(map[string]bool)

	for i, ex := range file.Exercises {
		ex.ID = strings.TrimSpace(ex.ID)
		if ex.ID == "" {
			ex.ID = generatedID(i+1, func(id string) bool { return explicit[id] || seen[id] })
		}

		if strings.TrimSpace(ex.Original) == "" {
			return nil, fmt.Errorf("%w: %s has no original text", ErrInvalidExercise, ex.ID)
		}

		if seen[ex.ID] {
			continue
		}
		seen[ex.ID] = true
		exercises = append(exercises, ex)
	}

	return exercises, nil
}

// generatedID returns "exercise-n", suffixed until taken reports it free
func generatedID(n int, taken func(string) bool) string {
	id := fmt.Sprintf("exercise-%d", n)
	for k := 2; taken(id); k++ {
		id = fmt.Sprintf("exercise-%d-%d", n, k)
	}
	return id
}
