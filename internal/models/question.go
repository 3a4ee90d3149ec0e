package models

import (
	"gorm.io/datatypes"
)

type QuestionType string

const (
	MultipleChoice QuestionType = "multiple_choice"
	MultipleSelect QuestionType = "multiple_select"
	TrueFalse      QuestionType = "true_false"
	ShortAnswer    QuestionType = "short_answer"
	FillInBlank    QuestionType = "fill_blank"
	Matching       QuestionType = "matching"
	Ordering       QuestionType = "ordering"
	Numeric        QuestionType = "numeric"
	Hotspot        QuestionType = "hotspot"
	DragDrop       QuestionType = "drag_drop"
	Code           QuestionType = "code"

	// Manual-grading-only types. The grader recognizes these tags but always
	// routes them to manual review.
	Essay          QuestionType = "essay"
	MathExpression QuestionType = "math_expression"
)

type Question struct {
	ID     string       `json:"id" validate:"required"`
	Type   QuestionType `json:"type" validate:"required"`
	Text   string       `json:"text"`
	Points int          `json:"points" validate:"min=0"`

	// Optional author-provided feedback messages
	Feedback *QuestionFeedback `json:"feedback,omitempty"`

	// Type-specific payload (answer key, options, regions, ...) stored as JSON
	Content datatypes.JSON `json:"content"`
}

type QuestionFeedback struct {
	Correct   *string `json:"correct,omitempty"`
	Incorrect *string `json:"incorrect,omitempty"`
}

// ===== QUESTION CONTENT SCHEMAS =====

type MultipleChoiceContent struct {
	Options       []ChoiceOption `json:"options" validate:"min=2,dive"`
	CorrectAnswer string         `json:"correct_answer" validate:"required"`
}

type ChoiceOption struct {
	ID       string  `json:"id" validate:"required"`
	Text     string  `json:"text"`
	Feedback *string `json:"feedback,omitempty"` // Shown when this option was chosen incorrectly
}

type MultipleSelectContent struct {
	Options        []ChoiceOption `json:"options" validate:"min=2,dive"`
	CorrectAnswers []string       `json:"correct_answers" validate:"min=1"`
	PartialCredit  bool           `json:"partial_credit"`
}

type TrueFalseContent struct {
	CorrectAnswer bool    `json:"correct_answer"`
	TrueLabel     *string `json:"true_label,omitempty"`
	FalseLabel    *string `json:"false_label,omitempty"`
}

type ShortAnswerContent struct {
	AcceptedAnswers []string `json:"accepted_answers" validate:"min=1"`
	CaseSensitive   bool     `json:"case_sensitive"`
	AllowFuzzyMatch bool     `json:"allow_fuzzy_match"`
	FuzzyThreshold  *float64 `json:"fuzzy_threshold,omitempty" validate:"omitempty,min=0,max=1"`
}

type FillBlankContent struct {
	Blanks        []BlankDef `json:"blanks" validate:"min=1,dive"`
	PartialCredit bool       `json:"partial_credit"`
}

// BlankDef describes a single blank. Answers are submitted positionally,
// one entry per blank in declaration order.
type BlankDef struct {
	ID              string   `json:"id"`
	AcceptedAnswers []string `json:"accepted_answers" validate:"min=1"`
	CaseSensitive   bool     `json:"case_sensitive"`
	AllowFuzzyMatch bool     `json:"allow_fuzzy_match"`
	FuzzyThreshold  *float64 `json:"fuzzy_threshold,omitempty" validate:"omitempty,min=0,max=1"`
}

type MatchingContent struct {
	Pairs         []MatchPair `json:"pairs" validate:"min=1,dive"`
	PartialCredit bool        `json:"partial_credit"`
}

type MatchPair struct {
	Left  string `json:"left" validate:"required"`
	Right string `json:"right" validate:"required"`
}

type OrderingContent struct {
	Items         []OrderItem `json:"items" validate:"min=2,dive"`
	CorrectOrder  []string    `json:"correct_order" validate:"min=2"`
	PartialCredit bool        `json:"partial_credit"`
}

type OrderItem struct {
	ID   string `json:"id" validate:"required"`
	Text string `json:"text"`
}

type ToleranceType string

const (
	ToleranceAbsolute   ToleranceType = "absolute"
	TolerancePercentage ToleranceType = "percentage"
)

type NumericContent struct {
	CorrectAnswer float64       `json:"correct_answer"`
	Tolerance     float64       `json:"tolerance" validate:"min=0"`
	ToleranceType ToleranceType `json:"tolerance_type,omitempty" validate:"omitempty,oneof=absolute percentage"`
	Unit          *string       `json:"unit,omitempty"`
}

type RegionType string

const (
	RegionCircle    RegionType = "circle"
	RegionRectangle RegionType = "rectangle"
	RegionPolygon   RegionType = "polygon"
)

type HotspotContent struct {
	ImageURL    string          `json:"image_url"`
	Regions     []HotspotRegion `json:"regions" validate:"min=1,dive"`
	MultiSelect bool            `json:"multi_select"`
}

// HotspotRegion carries the geometry for one clickable region. Only the
// fields matching Type are meaningful; a region missing its required fields
// never matches a click.
type HotspotRegion struct {
	ID      string     `json:"id"`
	Type    RegionType `json:"type" validate:"required,oneof=circle rectangle polygon"`
	Correct bool       `json:"correct"`

	// Circle
	Center *Point   `json:"center,omitempty"`
	Radius *float64 `json:"radius,omitempty"`

	// Rectangle (axis-aligned, top-left corner plus extent)
	X      *float64 `json:"x,omitempty"`
	Y      *float64 `json:"y,omitempty"`
	Width  *float64 `json:"width,omitempty"`
	Height *float64 `json:"height,omitempty"`

	// Polygon (ordered vertex list)
	Vertices []Point `json:"vertices,omitempty"`
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type DragDropContent struct {
	Items         []DragItem `json:"items"`
	Zones         []DropZone `json:"zones" validate:"min=1,dive"`
	PartialCredit bool       `json:"partial_credit"`
}

type DragItem struct {
	ID   string `json:"id" validate:"required"`
	Text string `json:"text"`
}

type DropZone struct {
	ID            string   `json:"id" validate:"required"`
	Label         string   `json:"label"`
	AcceptedItems []string `json:"accepted_items" validate:"min=1"`
}

type CodeContent struct {
	Language      string         `json:"language"`
	StarterCode   *string        `json:"starter_code,omitempty"`
	TestCases     []CodeTestCase `json:"test_cases" validate:"min=1,dive"`
	PartialCredit bool           `json:"partial_credit"`
}

type CodeTestCase struct {
	Input          string   `json:"input"`
	ExpectedOutput string   `json:"expected_output"`
	Points         *float64 `json:"points,omitempty" validate:"omitempty,min=0"` // Weight, defaults to 1
	Hidden         bool     `json:"hidden"`                                      // Hidden cases omit input/output from diagnostics
}
