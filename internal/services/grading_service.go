package services

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"time"

	"github.com/SAP-F-2025/grading-engine/internal/models"
)

const (
	feedbackNoAnswer      = "No answer provided"
	feedbackManualGrading = "This question type requires manual grading"
	feedbackUnreadable    = "Your answer could not be interpreted for this question type"
)

type gradingService struct {
	logger       *slog.Logger
	executor     CodeExecutor
	passingScore *float64
}

type Option func(*gradingService)

// WithCodeExecutor installs the external sandbox used by code questions.
func WithCodeExecutor(executor CodeExecutor) Option {
	return func(s *gradingService) {
		if executor != nil {
			s.executor = executor
		}
	}
}

// WithPassingScore enables pass/fail determination on attempt summaries at
// the given percentage threshold.
func WithPassingScore(percentage float64) Option {
	return func(s *gradingService) {
		s.passingScore = &percentage
	}
}

func NewGradingService(logger *slog.Logger, opts ...Option) GradingService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &gradingService{
		logger:   logger,
		executor: unimplementedExecutor{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ===== DISPATCH =====

func (s *gradingService) GradeResponse(ctx context.Context, question *models.Question, answer json.RawMessage) *models.GradingResult {
	if isNoAnswer(answer) {
		return s.zeroResult(question, feedbackNoAnswer)
	}
	if !s.CanAutoGrade(question.Type) {
		return s.zeroResult(question, feedbackManualGrading)
	}

	var (
		result *models.GradingResult
		err    error
	)
	switch question.Type {
	case models.MultipleChoice:
		result, err = s.gradeMultipleChoice(question, answer)
	case models.MultipleSelect:
		result, err = s.gradeMultipleSelect(question, answer)
	case models.TrueFalse:
		result, err = s.gradeTrueFalse(question, answer)
	case models.ShortAnswer:
		result, err = s.gradeShortAnswer(question, answer)
	case models.FillInBlank:
		result, err = s.gradeFillBlank(question, answer)
	case models.Matching:
		result, err = s.gradeMatching(question, answer)
	case models.Ordering:
		result, err = s.gradeOrdering(question, answer)
	case models.Numeric:
		result, err = s.gradeNumeric(question, answer)
	case models.Hotspot:
		result, err = s.gradeHotspot(question, answer)
	case models.DragDrop:
		result, err = s.gradeDragDrop(question, answer)
	case models.Code:
		result, err = s.gradeCode(ctx, question, answer)
	}
	if err != nil {
		s.logger.Warn("grading failed, scoring zero",
			"question_id", question.ID,
			"question_type", question.Type,
			"error", err)
		return s.zeroResult(question, feedbackUnreadable)
	}

	result.QuestionID = question.ID
	result.PartialCredit = result.Score > 0 && result.Score < result.MaxScore
	result.GradedAt = time.Now()

	s.logger.Debug("answer graded",
		"question_id", question.ID,
		"question_type", question.Type,
		"score", result.Score,
		"max_score", result.MaxScore,
		"is_correct", result.IsCorrect)

	return result
}

func (s *gradingService) CanAutoGrade(questionType models.QuestionType) bool {
	autoGradeableTypes := map[models.QuestionType]bool{
		models.MultipleChoice: true,
		models.MultipleSelect: true,
		models.TrueFalse:      true,
		models.ShortAnswer:    true,
		models.FillInBlank:    true,
		models.Matching:       true,
		models.Ordering:       true,
		models.Numeric:        true,
		models.Hotspot:        true,
		models.DragDrop:       true,
		models.Code:           true,
		models.Essay:          false, // Requires manual grading
		models.MathExpression: false, // Requires manual grading
	}
	return autoGradeableTypes[questionType]
}

// ===== ATTEMPT AGGREGATION =====

func (s *gradingService) GradeAttempt(ctx context.Context, questions []*models.Question, responses []models.QuestionResponse) *models.AttemptGradingSummary {
	answersByQuestion := make(map[string]json.RawMessage, len(responses))
	for _, r := range responses {
		answersByQuestion[r.QuestionID] = json.RawMessage(r.Answer)
	}

	summary := &models.AttemptGradingSummary{
		Results: make([]models.GradingResult, 0, len(questions)),
	}
	for _, question := range questions {
		result := s.GradeResponse(ctx, question, answersByQuestion[question.ID])
		summary.TotalScore += result.Score
		summary.MaxScore += result.MaxScore
		summary.Results = append(summary.Results, *result)
	}

	if summary.MaxScore > 0 {
		summary.Percentage = summary.TotalScore / summary.MaxScore * 100
	}
	summary.Grade = calculateLetterGrade(summary.Percentage)
	if s.passingScore != nil {
		passed := summary.Percentage >= *s.passingScore
		summary.IsPassing = &passed
	}
	summary.GradedAt = time.Now()

	s.logger.Info("attempt graded",
		"questions", len(questions),
		"total_score", summary.TotalScore,
		"max_score", summary.MaxScore,
		"percentage", summary.Percentage)

	return summary
}

// ===== HELPERS =====

var jsonNull = []byte("null")

func isNoAnswer(answer json.RawMessage) bool {
	return len(answer) == 0 || bytes.Equal(bytes.TrimSpace(answer), jsonNull)
}

func (s *gradingService) zeroResult(question *models.Question, feedback string) *models.GradingResult {
	return &models.GradingResult{
		QuestionID: question.ID,
		Score:      0,
		MaxScore:   float64(question.Points),
		IsCorrect:  false,
		Feedback:   strPtr(feedback),
		GradedAt:   time.Now(),
	}
}

// roundScore rounds fractional scores to 2 decimal places.
func roundScore(score float64) float64 {
	return math.Round(score*100) / 100
}

func strPtr(s string) *string {
	return &s
}

func calculateLetterGrade(percentage float64) string {
	switch {
	case percentage >= 97:
		return "A+"
	case percentage >= 93:
		return "A"
	case percentage >= 90:
		return "A-"
	case percentage >= 87:
		return "B+"
	case percentage >= 83:
		return "B"
	case percentage >= 80:
		return "B-"
	case percentage >= 77:
		return "C+"
	case percentage >= 73:
		return "C"
	case percentage >= 70:
		return "C-"
	case percentage >= 67:
		return "D+"
	case percentage >= 63:
		return "D"
	case percentage >= 60:
		return "D-"
	default:
		return "F"
	}
}
