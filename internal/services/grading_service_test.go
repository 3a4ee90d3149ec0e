package services

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"math"
	"testing"

	"gorm.io/datatypes"

	"github.com/SAP-F-2025/grading-engine/internal/models"
)

func newTestService(opts ...Option) GradingService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewGradingService(logger, opts...)
}

func mustJSON(t *testing.T, v any) datatypes.JSON {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	return datatypes.JSON(data)
}

func rawJSON(s string) json.RawMessage {
	return json.RawMessage(s)
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func choiceQuestion(t *testing.T, points int) *models.Question {
	t.Helper()
	return &models.Question{
		ID:     "q1",
		Type:   models.MultipleChoice,
		Points: points,
		Content: mustJSON(t, models.MultipleChoiceContent{
			Options: []models.ChoiceOption{
				{ID: "a", Text: "Option A"},
				{ID: "b", Text: "Option B"},
				{ID: "c", Text: "Option C"},
			},
			CorrectAnswer: "b",
		}),
	}
}

func TestGradeResponse_NoAnswer(t *testing.T) {
	svc := newTestService()
	question := choiceQuestion(t, 10)

	tests := []struct {
		name   string
		answer json.RawMessage
	}{
		{name: "nil answer", answer: nil},
		{name: "empty answer", answer: rawJSON(``)},
		{name: "json null", answer: rawJSON(`null`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := svc.GradeResponse(context.Background(), question, tt.answer)
			if result.Score != 0 || result.IsCorrect || result.PartialCredit {
				t.Errorf("got score=%v isCorrect=%v partial=%v, want zero result", result.Score, result.IsCorrect, result.PartialCredit)
			}
			if result.MaxScore != 10 {
				t.Errorf("MaxScore = %v, want 10", result.MaxScore)
			}
			if result.Feedback == nil || *result.Feedback != "No answer provided" {
				t.Errorf("Feedback = %v, want %q", result.Feedback, "No answer provided")
			}
		})
	}
}

func TestGradeResponse_ManualGradingTypes(t *testing.T) {
	svc := newTestService()

	tests := []struct {
		name         string
		questionType models.QuestionType
	}{
		{name: "essay", questionType: models.Essay},
		{name: "math expression", questionType: models.MathExpression},
		{name: "unknown type", questionType: models.QuestionType("diagram")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			question := &models.Question{ID: "q1", Type: tt.questionType, Points: 5}
			result := svc.GradeResponse(context.Background(), question, rawJSON(`"anything"`))
			if result.Score != 0 || result.IsCorrect {
				t.Errorf("got score=%v isCorrect=%v, want zero result", result.Score, result.IsCorrect)
			}
			if result.Feedback == nil || *result.Feedback != "This question type requires manual grading" {
				t.Errorf("Feedback = %v, want manual grading message", result.Feedback)
			}
		})
	}
}

func TestGradeResponse_MalformedAnswer(t *testing.T) {
	svc := newTestService()
	question := choiceQuestion(t, 10)

	// A true/false payload submitted against a multiple choice question.
	result := svc.GradeResponse(context.Background(), question, rawJSON(`true`))
	if result.Score != 0 || result.IsCorrect {
		t.Errorf("got score=%v isCorrect=%v, want zero result", result.Score, result.IsCorrect)
	}
	if result.MaxScore != 10 {
		t.Errorf("MaxScore = %v, want 10", result.MaxScore)
	}
}

func TestGradeResponse_IsPure(t *testing.T) {
	svc := newTestService()
	question := choiceQuestion(t, 10)
	answer := rawJSON(`"b"`)

	first := svc.GradeResponse(context.Background(), question, answer)
	second := svc.GradeResponse(context.Background(), question, answer)
	if first.Score != second.Score || first.IsCorrect != second.IsCorrect || first.PartialCredit != second.PartialCredit {
		t.Errorf("repeated grading differs: %+v vs %+v", first, second)
	}
}

func TestCanAutoGrade(t *testing.T) {
	svc := newTestService()

	tests := []struct {
		questionType models.QuestionType
		want         bool
	}{
		{models.MultipleChoice, true},
		{models.MultipleSelect, true},
		{models.TrueFalse, true},
		{models.ShortAnswer, true},
		{models.FillInBlank, true},
		{models.Matching, true},
		{models.Ordering, true},
		{models.Numeric, true},
		{models.Hotspot, true},
		{models.DragDrop, true},
		{models.Code, true},
		{models.Essay, false},
		{models.MathExpression, false},
		{models.QuestionType("diagram"), false},
	}
	for _, tt := range tests {
		t.Run(string(tt.questionType), func(t *testing.T) {
			if got := svc.CanAutoGrade(tt.questionType); got != tt.want {
				t.Errorf("CanAutoGrade(%s) = %v, want %v", tt.questionType, got, tt.want)
			}
		})
	}
}

func TestGradeAttempt(t *testing.T) {
	svc := newTestService()

	q1 := choiceQuestion(t, 10)
	q2 := &models.Question{
		ID:     "q2",
		Type:   models.TrueFalse,
		Points: 5,
		Content: mustJSON(t, models.TrueFalseContent{
			CorrectAnswer: true,
		}),
	}

	// One correct answer, one unanswered question.
	responses := []models.QuestionResponse{
		{QuestionID: "q1", Answer: datatypes.JSON(`"b"`)},
	}

	summary := svc.GradeAttempt(context.Background(), []*models.Question{q1, q2}, responses)

	if summary.TotalScore != 10 {
		t.Errorf("TotalScore = %v, want 10", summary.TotalScore)
	}
	if summary.MaxScore != 15 {
		t.Errorf("MaxScore = %v, want 15", summary.MaxScore)
	}
	if !almostEqual(summary.Percentage, 10.0/15.0*100) {
		t.Errorf("Percentage = %v, want ~66.67", summary.Percentage)
	}
	if len(summary.Results) != 2 {
		t.Fatalf("len(Results) = %d, want 2", len(summary.Results))
	}
	if summary.Results[0].QuestionID != "q1" || summary.Results[1].QuestionID != "q2" {
		t.Errorf("results out of input order: %s, %s", summary.Results[0].QuestionID, summary.Results[1].QuestionID)
	}
	if summary.Results[1].Score != 0 || summary.Results[1].IsCorrect {
		t.Errorf("unanswered question graded as %+v, want zero result", summary.Results[1])
	}
	if summary.IsPassing != nil {
		t.Errorf("IsPassing = %v, want nil without a passing score", *summary.IsPassing)
	}
}

func TestGradeAttempt_EmptyMaxScore(t *testing.T) {
	svc := newTestService()
	summary := svc.GradeAttempt(context.Background(), nil, nil)
	if summary.Percentage != 0 {
		t.Errorf("Percentage = %v, want 0 when max score is 0", summary.Percentage)
	}
	if summary.TotalScore != 0 || summary.MaxScore != 0 {
		t.Errorf("scores = %v/%v, want 0/0", summary.TotalScore, summary.MaxScore)
	}
}

func TestGradeAttempt_PassingScore(t *testing.T) {
	tests := []struct {
		name         string
		passingScore float64
		wantPassing  bool
	}{
		{name: "above threshold", passingScore: 60, wantPassing: true},
		{name: "below threshold", passingScore: 80, wantPassing: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(WithPassingScore(tt.passingScore))
			q1 := choiceQuestion(t, 10)
			q2 := &models.Question{
				ID:      "q2",
				Type:    models.TrueFalse,
				Points:  5,
				Content: mustJSON(t, models.TrueFalseContent{CorrectAnswer: true}),
			}
			responses := []models.QuestionResponse{
				{QuestionID: "q1", Answer: datatypes.JSON(`"b"`)},
			}
			summary := svc.GradeAttempt(context.Background(), []*models.Question{q1, q2}, responses)
			if summary.IsPassing == nil {
				t.Fatal("IsPassing = nil, want set")
			}
			if *summary.IsPassing != tt.wantPassing {
				t.Errorf("IsPassing = %v, want %v (percentage %v)", *summary.IsPassing, tt.wantPassing, summary.Percentage)
			}
		})
	}
}

func TestCalculateLetterGrade(t *testing.T) {
	tests := []struct {
		percentage float64
		want       string
	}{
		{100, "A+"},
		{95, "A"},
		{91, "A-"},
		{85, "B"},
		{75, "C"},
		{65, "D"},
		{59.9, "F"},
		{0, "F"},
	}
	for _, tt := range tests {
		if got := calculateLetterGrade(tt.percentage); got != tt.want {
			t.Errorf("calculateLetterGrade(%v) = %s, want %s", tt.percentage, got, tt.want)
		}
	}
}
