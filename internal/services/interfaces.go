package services

import (
	"context"
	"encoding/json"

	"github.com/SAP-F-2025/grading-engine/internal/models"
)

// GradingService grades learner answers against question definitions. All
// methods are safe for concurrent use; grading is a pure computation with no
// shared state (the code grader's executor call is the only blocking point).
type GradingService interface {
	// GradeResponse grades a single answer. It never returns an error:
	// missing answers, manual-only question types and malformed payloads all
	// produce a zero-score result with explanatory feedback.
	GradeResponse(ctx context.Context, question *models.Question, answer json.RawMessage) *models.GradingResult

	// CanAutoGrade reports whether answers of the given question type can be
	// graded automatically. Callers route the rest to manual review.
	CanAutoGrade(questionType models.QuestionType) bool

	// GradeAttempt grades every question of an attempt. Responses are matched
	// to questions by question id; a missing response counts as unanswered.
	GradeAttempt(ctx context.Context, questions []*models.Question, responses []models.QuestionResponse) *models.AttemptGradingSummary
}

// ExecutionResult is what the external code sandbox reports for one run.
type ExecutionResult struct {
	Output          string `json:"output"`
	ExecutionTimeMs int64  `json:"execution_time_ms"`
}

// CodeExecutor runs submitted code against a single test-case input. The
// implementation owns sandboxing, resource limits and timeouts; this core
// only defines the call contract. Execute is expected to fail with a
// descriptive error when the run could not complete.
type CodeExecutor interface {
	Execute(ctx context.Context, code, language, input string) (*ExecutionResult, error)
}
