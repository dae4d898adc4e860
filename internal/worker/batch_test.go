package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ppiankov/dictation/internal/model"
	"github.com/ppiankov/dictation/internal/pipeline"
)

// MockChecker implements Checker
type MockChecker struct {
	ShouldError bool
	calls       int32
}

func (m *MockChecker) Check(ctx context.Context, original, attempt string) (*pipeline.CheckResult, error) {
	atomic.AddInt32(&m.calls, 1)
	time.Sleep(time.Millisecond)
	if m.ShouldError {
		return nil, errors.New("check error")
	}
	ok := original == attempt
	score := 0.0
	if ok {
		score = 1
	}
	return &pipeline.CheckResult{
		Result:     model.ComparisonResult{Score: score, TotalTokens: 1, IsPerfect: ok},
		Acceptable: ok,
	}, nil
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "exercises.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func exercises(n int) []model.Exercise {
	out := make([]model.Exercise, n)
	for i := range out {
		out[i] = model.Exercise{ID: string(rune('a' + i)), Learner: "alice", Original: "x", Attempt: "x"}
	}
	return out
}

func TestBatchProcessor_ProcessExercises(t *testing.T) {
	checker := &MockChecker{}
	processor := NewBatchProcessor(checker, 3, model.RateLimitingConfig{})

	input := exercises(20)
	input[4].Attempt = "y"

	results := processor.ProcessExercises(context.Background(), input)

	if len(results) != 20 {
		t.Fatalf("expected 20 results, got %d", len(results))
	}

	for i, res := range results {
		if res.Index != i || res.Exercise.ID != input[i].ID {
			t.Errorf("result %d out of order: index %d id %s", i, res.Index, res.Exercise.ID)
		}
		if res.Error != nil {
			t.Errorf("unexpected error for %s: %v", res.Exercise.ID, res.Error)
		}
	}

	if results[4].Check.Acceptable {
		t.Error("expected mismatched attempt to be rejected")
	}
	if !results[5].Check.Acceptable {
		t.Error("expected matching attempt to be accepted")
	}
}

func TestBatchProcessor_ProcessExercises_Error(t *testing.T) {
	checker := &MockChecker{ShouldError: true}
	processor := NewBatchProcessor(checker, 2, model.RateLimitingConfig{})

	results := processor.ProcessExercises(context.Background(), exercises(1))

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Error == nil {
		t.Error("expected error, got nil")
	}
	if results[0].Check != nil {
		t.Error("expected nil check on error")
	}

	er := results[0].ExerciseResult()
	if er.Result != nil || er.Error != "check error" {
		t.Errorf("unexpected exercise result %+v", er)
	}
}

func TestBatchProcessor_ProcessExercises_Empty(t *testing.T) {
	processor := NewBatchProcessor(&MockChecker{}, 2, model.RateLimitingConfig{})

	results := processor.ProcessExercises(context.Background(), nil)
	if len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
}

func TestBatchProcessor_ProcessExercises_Cancelled(t *testing.T) {
	checker := &MockChecker{}
	processor := NewBatchProcessor(checker, 2, model.RateLimitingConfig{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := processor.ProcessExercises(ctx, exercises(5))
	if len(results) != 5 {
		t.Fatalf("expected 5 results, got %d", len(results))
	}
	for _, r := range results {
		if !errors.Is(r.Error, context.Canceled) {
			t.Errorf("expected context.Canceled for %s, got %v", r.Exercise.ID, r.Error)
		}
	}
	if atomic.LoadInt32(&checker.calls) != 0 {
		t.Errorf("expected no checks after cancellation, got %d", checker.calls)
	}
}

func TestBatchProcessor_RateLimited(t *testing.T) {
	checker := &MockChecker{}
	// One submission per learner, then none for a long time
	processor := NewBatchProcessor(checker, 4, model.RateLimitingConfig{RequestsPerSecond: 0.001, BurstSize: 1})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	input := exercises(3)
	input[2].Learner = "bob"

	results := processor.ProcessExercises(ctx, input)

	failed := 0
	for _, r := range results {
		if r.Error != nil {
			failed++
		}
	}
	if failed != 1 {
		t.Errorf("expected exactly one throttled exercise, got %d", failed)
	}
}

func TestBatchProcessor_LearnerOverride(t *testing.T) {
	checker := &MockChecker{}
	processor := NewBatchProcessor(checker, 4, model.RateLimitingConfig{
		Learners: map[string]model.LearnerRate{
			"alice": {RequestsPerSecond: 0.001, BurstSize: 1},
		},
	})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	input := exercises(5)
	input[0].Learner = "Alice"
	input[1].Learner = "Alice"
	for i := 2; i < len(input); i++ {
		input[i].Learner = "bob"
	}

	results := processor.ProcessExercises(ctx, input)

	for _, r := range results {
		if r.Exercise.Learner == "bob" && r.Error != nil {
			t.Errorf("expected bob to be unthrottled, got %v", r.Error)
		}
	}
	failed := 0
	for _, r := range results {
		if r.Error != nil {
			failed++
		}
	}
	if failed != 1 {
		t.Errorf("expected alice's second exercise to be throttled, got %d failures", failed)
	}
}

func TestCheckResult_ExerciseResult(t *testing.T) {
	r := &CheckResult{
		Exercise: model.Exercise{ID: "a", Learner: "alice", Original: "x", Attempt: "x"},
		Check: &pipeline.CheckResult{
			Result:     model.ComparisonResult{Score: 1, TotalTokens: 1, CorrectTokens: 1, IsPerfect: true, Feedback: "x"},
			Acceptable: true,
		},
	}

	er := r.ExerciseResult()
	if er.Result == nil || !er.Result.IsPerfect || !er.Acceptable || er.Learner != "alice" {
		t.Errorf("unexpected exercise result %+v", er)
	}
	if r.GetError() != nil {
		t.Errorf("expected nil error, got %v", r.GetError())
	}
}

func TestReadExercisesFromFile(t *testing.T) {
	path := writeFile(t, `
exercises:
  - id: lesson-1/1
    learner: alice
    original: "The quick brown fox jumps."
    attempt: "The quick brown fox jump."
  - original: "Hello, world!"
    attempt: "hello world"
  - id: lesson-1/1
    original: "duplicate"
    attempt: "duplicate"
`)

	exs, err := ReadExercisesFromFile(path)
	if err != nil {
		t.Fatalf("ReadExercisesFromFile failed: %v", err)
	}

	if len(exs) != 2 {
		t.Fatalf("expected 2 exercises after deduplication, got %d", len(exs))
	}
	if exs[0].ID != "lesson-1/1" || exs[0].Learner != "alice" {
		t.Errorf("unexpected first exercise %+v", exs[0])
	}
	if exs[1].ID != "exercise-2" {
		t.Errorf("expected generated id exercise-2, got %s", exs[1].ID)
	}
}

func TestReadExercisesFromFile_GeneratedIDCollision(t *testing.T) {
	path := writeFile(t, `
exercises:
  - original: "first"
    attempt: "first"
  - id: exercise-1
    original: "second"
    attempt: "second"
`)

	exs, err := ReadExercisesFromFile(path)
	if err != nil {
		t.Fatalf("ReadExercisesFromFile failed: %v", err)
	}

	if len(exs) != 2 {
		t.Fatalf("expected both exercises to survive, got %d", len(exs))
	}
	if exs[0].ID != "exercise-1-2" {
		t.Errorf("expected generated id to step aside, got %s", exs[0].ID)
	}
	if exs[1].ID != "exercise-1" || exs[1].Original != "second" {
		t.Errorf("expected explicit exercise-1 to keep its id, got %+v", exs[1])
	}
}

func TestReadExercisesFromFile_BlankOriginal(t *testing.T) {
	path := writeFile(t, `
exercises:
  - id: broken
    original: "   "
    attempt: "anything"
`)

	_, err := ReadExercisesFromFile(path)
	if !errors.Is(err, ErrInvalidExercise) {
		t.Errorf("expected ErrInvalidExercise, got %v", err)
	}
}

func TestReadExercisesFromFile_NonExistent(t *testing.T) {
	if _, err := ReadExercisesFromFile("non_existent_file.yaml"); err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}

func TestReadExercisesFromFile_Malformed(t *testing.T) {
	path := writeFile(t, "exercises: [unterminated")

	if _, err := ReadExercisesFromFile(path); err == nil {
		t.Error("expected parse error, got nil")
	}
}

func TestBatchProcessor_ProcessFile(t *testing.T) {
	path := writeFile(t, `
exercises:
  - original: a
    attempt: a
  - original: b
    attempt: c
`)

	processor := NewBatchProcessor(&MockChecker{}, 2, model.RateLimitingConfig{})

	results, err := processor.ProcessFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("expected 2 results, got %d", len(results))
	}
}

func TestBatchProcessor_ProcessFile_Empty(t *testing.T) {
	path := writeFile(t, "")

	processor := NewBatchProcessor(&MockChecker{}, 2, model.RateLimitingConfig{})

	results, err := processor.ProcessFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected 0 results for empty file, got %d", len(results))
	}
}
