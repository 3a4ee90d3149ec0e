package models

// Submitted answers arrive as raw JSON whose shape depends on the question
// type:
//
//	multiple_choice  string (option id)
//	multiple_select  []string (option ids)
//	true_false       bool
//	short_answer     string
//	fill_blank       []string (one entry per blank, in blank order)
//	matching         map[string]string (left id -> right id)
//	ordering         []string (item ids in submitted order)
//	numeric          number
//	hotspot          []Point (submitted clicks)
//	drag_drop        map[string][]string (zone id -> placed item ids)
//	code             CodeAnswer
//
// An absent answer (nil or JSON null) always means "no answer submitted".

type CodeAnswer struct {
	Code     string `json:"code"`
	Language string `json:"language"` // Overrides the question's language when set
}
