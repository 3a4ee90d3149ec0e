package models

import (
	"time"

	"gorm.io/datatypes"
)

// QuestionResponse pairs a submitted answer with its question. A question
// with no matching response is graded as unanswered.
type QuestionResponse struct {
	QuestionID string         `json:"question_id"`
	Answer     datatypes.JSON `json:"answer"`
}

// GradingResult is the outcome of grading a single answer. It is built fresh
// on every grading call and never mutated afterwards.
type GradingResult struct {
	QuestionID    string         `json:"question_id"`
	Score         float64        `json:"score"`
	MaxScore      float64        `json:"max_score"`
	IsCorrect     bool           `json:"is_correct"`
	PartialCredit bool           `json:"partial_credit"`
	Feedback      *string        `json:"feedback,omitempty"`
	Details       map[string]any `json:"details,omitempty"` // Grader-specific diagnostics
	GradedAt      time.Time      `json:"graded_at"`
}

// AttemptGradingSummary aggregates per-question results for one submitted
// attempt. Results are ordered as the input questions were.
type AttemptGradingSummary struct {
	TotalScore float64         `json:"total_score"`
	MaxScore   float64         `json:"max_score"`
	Percentage float64         `json:"percentage"`
	Grade      string          `json:"grade"`
	IsPassing  *bool           `json:"is_passing,omitempty"` // Set only when a passing score is configured
	Results    []GradingResult `json:"results"`
	GradedAt   time.Time       `json:"graded_at"`
}
