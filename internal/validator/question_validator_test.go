package validator

import (
	"testing"

	"gorm.io/datatypes"

	"github.com/SAP-F-2025/grading-engine/internal/models"
)

func question(t *testing.T, qType models.QuestionType, content string) *models.Question {
	t.Helper()
	return &models.Question{
		ID:      "q1",
		Type:    qType,
		Points:  10,
		Content: datatypes.JSON(content),
	}
}

func hasFieldError(errs ValidationErrors, field string) bool {
	for _, e := range errs {
		if e.Field == field {
			return true
		}
	}
	return false
}

func TestValidateQuestion_CommonFields(t *testing.T) {
	v := New()

	q := question(t, models.TrueFalse, `{"correct_answer":true}`)
	q.ID = ""
	q.Points = -5

	errs := v.ValidateQuestion(q)
	if len(errs) != 2 {
		t.Fatalf("got %d errors (%v), want 2", len(errs), errs)
	}
	if !hasFieldError(errs, "ID") || !hasFieldError(errs, "Points") {
		t.Errorf("expected ID and Points errors, got %v", errs)
	}
}

func TestValidateQuestion_MultipleChoice(t *testing.T) {
	v := New()

	tests := []struct {
		name      string
		content   string
		wantValid bool
	}{
		{
			name:      "valid",
			content:   `{"options":[{"id":"a"},{"id":"b"}],"correct_answer":"a"}`,
			wantValid: true,
		},
		{
			name:      "correct answer references unknown option",
			content:   `{"options":[{"id":"a"},{"id":"b"}],"correct_answer":"z"}`,
			wantValid: false,
		},
		{
			name:      "too few options",
			content:   `{"options":[{"id":"a"}],"correct_answer":"a"}`,
			wantValid: false,
		},
		{
			name:      "missing correct answer",
			content:   `{"options":[{"id":"a"},{"id":"b"}]}`,
			wantValid: false,
		},
		{
			name:      "malformed json",
			content:   `{"options":`,
			wantValid: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := v.ValidateQuestion(question(t, models.MultipleChoice, tt.content))
			if (len(errs) == 0) != tt.wantValid {
				t.Errorf("got errors %v, want valid=%v", errs, tt.wantValid)
			}
		})
	}
}

func TestValidateQuestion_MultipleSelect(t *testing.T) {
	v := New()

	valid := `{"options":[{"id":"a"},{"id":"b"},{"id":"c"}],"correct_answers":["a","c"]}`
	if errs := v.ValidateQuestion(question(t, models.MultipleSelect, valid)); len(errs) != 0 {
		t.Errorf("valid content rejected: %v", errs)
	}

	unknown := `{"options":[{"id":"a"},{"id":"b"}],"correct_answers":["a","z"]}`
	errs := v.ValidateQuestion(question(t, models.MultipleSelect, unknown))
	if !hasFieldError(errs, "correct_answers") {
		t.Errorf("unknown correct answer id not reported: %v", errs)
	}
}

func TestValidateQuestion_Ordering(t *testing.T) {
	v := New()

	tests := []struct {
		name      string
		content   string
		wantValid bool
	}{
		{
			name:      "valid",
			content:   `{"items":[{"id":"a"},{"id":"b"},{"id":"c"}],"correct_order":["b","a","c"]}`,
			wantValid: true,
		},
		{
			name:      "order omits an item",
			content:   `{"items":[{"id":"a"},{"id":"b"},{"id":"c"}],"correct_order":["b","a"]}`,
			wantValid: false,
		},
		{
			name:      "order repeats an item",
			content:   `{"items":[{"id":"a"},{"id":"b"},{"id":"c"}],"correct_order":["a","a","c"]}`,
			wantValid: false,
		},
		{
			name:      "order names unknown item",
			content:   `{"items":[{"id":"a"},{"id":"b"},{"id":"c"}],"correct_order":["a","b","z"]}`,
			wantValid: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := v.ValidateQuestion(question(t, models.Ordering, tt.content))
			if (len(errs) == 0) != tt.wantValid {
				t.Errorf("got errors %v, want valid=%v", errs, tt.wantValid)
			}
		})
	}
}

func TestValidateQuestion_Hotspot(t *testing.T) {
	v := New()

	tests := []struct {
		name      string
		content   string
		wantValid bool
	}{
		{
			name:      "valid circle",
			content:   `{"regions":[{"id":"r1","type":"circle","correct":true,"center":{"x":1,"y":1},"radius":5}]}`,
			wantValid: true,
		},
		{
			name:      "circle without radius",
			content:   `{"regions":[{"id":"r1","type":"circle","correct":true,"center":{"x":1,"y":1}}]}`,
			wantValid: false,
		},
		{
			name:      "rectangle with negative width",
			content:   `{"regions":[{"id":"r1","type":"rectangle","correct":true,"x":0,"y":0,"width":-5,"height":5}]}`,
			wantValid: false,
		},
		{
			name:      "polygon with two vertices",
			content:   `{"regions":[{"id":"r1","type":"polygon","correct":true,"vertices":[{"x":0,"y":0},{"x":1,"y":1}]}]}`,
			wantValid: false,
		},
		{
			name:      "no correct region",
			content:   `{"regions":[{"id":"r1","type":"circle","correct":false,"center":{"x":1,"y":1},"radius":5}]}`,
			wantValid: false,
		},
		{
			name:      "unsupported region type",
			content:   `{"regions":[{"id":"r1","type":"ellipse","correct":true}]}`,
			wantValid: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := v.ValidateQuestion(question(t, models.Hotspot, tt.content))
			if (len(errs) == 0) != tt.wantValid {
				t.Errorf("got errors %v, want valid=%v", errs, tt.wantValid)
			}
		})
	}
}

func TestValidateQuestion_Numeric(t *testing.T) {
	v := New()

	if errs := v.ValidateQuestion(question(t, models.Numeric, `{"correct_answer":3.14,"tolerance":0.01}`)); len(errs) != 0 {
		t.Errorf("valid content rejected: %v", errs)
	}
	if errs := v.ValidateQuestion(question(t, models.Numeric, `{"correct_answer":3.14,"tolerance":-1}`)); len(errs) == 0 {
		t.Error("negative tolerance accepted")
	}
	if errs := v.ValidateQuestion(question(t, models.Numeric, `{"correct_answer":1,"tolerance":1,"tolerance_type":"relative"}`)); len(errs) == 0 {
		t.Error("unknown tolerance type accepted")
	}
}

func TestValidateQuestion_ManualTypesSkipContent(t *testing.T) {
	v := New()

	if errs := v.ValidateQuestion(question(t, models.Essay, `{}`)); len(errs) != 0 {
		t.Errorf("essay question rejected: %v", errs)
	}
	if errs := v.ValidateQuestion(question(t, models.MathExpression, `{"expression":"x^2"}`)); len(errs) != 0 {
		t.Errorf("math expression question rejected: %v", errs)
	}
}

func TestValidateQuestion_UnknownType(t *testing.T) {
	v := New()

	errs := v.ValidateQuestion(question(t, "crossword", `{}`))
	if !hasFieldError(errs, "content") {
		t.Errorf("unknown type not reported: %v", errs)
	}
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{Field: "ID", Message: "is required"},
		{Field: "Points", Message: "must be at least 0"},
	}
	msg := errs.Error()
	if msg == "" {
		t.Fatal("expected a non-empty message")
	}
}
