package validator

import (
	"encoding/json"
	"fmt"

	pv "github.com/go-playground/validator/v10"

	"github.com/SAP-F-2025/grading-engine/internal/models"
)

// Validator checks question definitions before they are handed to the
// grading engine: struct-level rules via go-playground/validator plus
// per-type answer-key rules the struct tags cannot express.
type Validator struct {
	validate *pv.Validate
}

func New() *Validator {
	return &Validator{validate: pv.New()}
}

// ValidateQuestion validates the common fields and the type-specific content
// payload of a question definition.
func (v *Validator) ValidateQuestion(question *models.Question) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, toValidationErrors(v.validate.Struct(question))...)

	contentErrors, err := v.validateContent(question)
	if err != nil {
		errors = append(errors, ValidationError{
			Field:   "content",
			Message: err.Error(),
			Rule:    "content_schema",
		})
		return errors
	}
	errors = append(errors, contentErrors...)

	return errors
}

func (v *Validator) validateContent(question *models.Question) (ValidationErrors, error) {
	switch question.Type {
	case models.MultipleChoice:
		var content models.MultipleChoiceContent
		if err := json.Unmarshal(question.Content, &content); err != nil {
			return nil, fmt.Errorf("invalid multiple choice content: %w", err)
		}
		errors := toValidationErrors(v.validate.Struct(&content))
		if !containsOption(content.Options, content.CorrectAnswer) {
			errors = append(errors, contentError("correct_answer", "must reference an existing option id", content.CorrectAnswer))
		}
		return errors, nil

	case models.MultipleSelect:
		var content models.MultipleSelectContent
		if err := json.Unmarshal(question.Content, &content); err != nil {
			return nil, fmt.Errorf("invalid multiple select content: %w", err)
		}
		errors := toValidationErrors(v.validate.Struct(&content))
		for _, id := range content.CorrectAnswers {
			if !containsOption(content.Options, id) {
				errors = append(errors, contentError("correct_answers", "must reference existing option ids", id))
			}
		}
		return errors, nil

	case models.TrueFalse:
		var content models.TrueFalseContent
		if err := json.Unmarshal(question.Content, &content); err != nil {
			return nil, fmt.Errorf("invalid true/false content: %w", err)
		}
		return toValidationErrors(v.validate.Struct(&content)), nil

	case models.ShortAnswer:
		var content models.ShortAnswerContent
		if err := json.Unmarshal(question.Content, &content); err != nil {
			return nil, fmt.Errorf("invalid short answer content: %w", err)
		}
		return toValidationErrors(v.validate.Struct(&content)), nil

	case models.FillInBlank:
		var content models.FillBlankContent
		if err := json.Unmarshal(question.Content, &content); err != nil {
			return nil, fmt.Errorf("invalid fill-in-blank content: %w", err)
		}
		return toValidationErrors(v.validate.Struct(&content)), nil

	case models.Matching:
		var content models.MatchingContent
		if err := json.Unmarshal(question.Content, &content); err != nil {
			return nil, fmt.Errorf("invalid matching content: %w", err)
		}
		return toValidationErrors(v.validate.Struct(&content)), nil

	case models.Ordering:
		var content models.OrderingContent
		if err := json.Unmarshal(question.Content, &content); err != nil {
			return nil, fmt.Errorf("invalid ordering content: %w", err)
		}
		errors := toValidationErrors(v.validate.Struct(&content))
		errors = append(errors, validateOrderingIDs(&content)...)
		return errors, nil

	case models.Numeric:
		var content models.NumericContent
		if err := json.Unmarshal(question.Content, &content); err != nil {
			return nil, fmt.Errorf("invalid numeric content: %w", err)
		}
		return toValidationErrors(v.validate.Struct(&content)), nil

	case models.Hotspot:
		var content models.HotspotContent
		if err := json.Unmarshal(question.Content, &content); err != nil {
			return nil, fmt.Errorf("invalid hotspot content: %w", err)
		}
		errors := toValidationErrors(v.validate.Struct(&content))
		errors = append(errors, validateHotspotRegions(&content)...)
		return errors, nil

	case models.DragDrop:
		var content models.DragDropContent
		if err := json.Unmarshal(question.Content, &content); err != nil {
			return nil, fmt.Errorf("invalid drag-drop content: %w", err)
		}
		return toValidationErrors(v.validate.Struct(&content)), nil

	case models.Code:
		var content models.CodeContent
		if err := json.Unmarshal(question.Content, &content); err != nil {
			return nil, fmt.Errorf("invalid code content: %w", err)
		}
		return toValidationErrors(v.validate.Struct(&content)), nil

	case models.Essay, models.MathExpression:
		// Manually graded, no answer key to validate.
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown question type: %s", question.Type)
	}
}

func validateOrderingIDs(content *models.OrderingContent) ValidationErrors {
	var errors ValidationErrors
	if len(content.CorrectOrder) != len(content.Items) {
		errors = append(errors, contentError("correct_order", "must list every item exactly once", len(content.CorrectOrder)))
		return errors
	}
	itemIDs := make(map[string]bool, len(content.Items))
	for _, item := range content.Items {
		itemIDs[item.ID] = true
	}
	seen := make(map[string]bool, len(content.CorrectOrder))
	for _, id := range content.CorrectOrder {
		if !itemIDs[id] || seen[id] {
			errors = append(errors, contentError("correct_order", "must list every item exactly once", id))
			return errors
		}
		seen[id] = true
	}
	return errors
}

func validateHotspotRegions(content *models.HotspotContent) ValidationErrors {
	var errors ValidationErrors

	hasCorrect := false
	for i, region := range content.Regions {
		if region.Correct {
			hasCorrect = true
		}
		field := fmt.Sprintf("regions[%d]", i)
		switch region.Type {
		case models.RegionCircle:
			if region.Center == nil || region.Radius == nil || *region.Radius <= 0 {
				errors = append(errors, contentError(field, "circle requires a center and a positive radius", region.ID))
			}
		case models.RegionRectangle:
			if region.X == nil || region.Y == nil || region.Width == nil || region.Height == nil ||
				*region.Width <= 0 || *region.Height <= 0 {
				errors = append(errors, contentError(field, "rectangle requires x, y and positive width/height", region.ID))
			}
		case models.RegionPolygon:
			if len(region.Vertices) < 3 {
				errors = append(errors, contentError(field, "polygon requires at least 3 vertices", region.ID))
			}
		}
	}
	if !hasCorrect {
		errors = append(errors, contentError("regions", "at least one region must be marked correct", nil))
	}
	return errors
}

func containsOption(options []models.ChoiceOption, id string) bool {
	for _, option := range options {
		if option.ID == id {
			return true
		}
	}
	return false
}

func contentError(field, message string, value interface{}) ValidationError {
	return ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
		Rule:    "content",
	}
}
