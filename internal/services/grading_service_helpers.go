package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/SAP-F-2025/grading-engine/internal/models"
)

// ===== QUESTION TYPE SPECIFIC GRADING =====

func (s *gradingService) gradeMultipleChoice(question *models.Question, answer json.RawMessage) (*models.GradingResult, error) {
	var content models.MultipleChoiceContent
	if err := json.Unmarshal(question.Content, &content); err != nil {
		return nil, fmt.Errorf("failed to unmarshal multiple choice content: %w", err)
	}

	var selected string
	if err := json.Unmarshal(answer, &selected); err != nil {
		return nil, fmt.Errorf("failed to unmarshal multiple choice answer: %w", err)
	}

	maxScore := float64(question.Points)
	isCorrect := selected == content.CorrectAnswer

	score := 0.0
	if isCorrect {
		score = maxScore
	}

	return &models.GradingResult{
		Score:     score,
		MaxScore:  maxScore,
		IsCorrect: isCorrect,
		Feedback:  s.multipleChoiceFeedback(question, &content, selected, isCorrect),
	}, nil
}

func (s *gradingService) gradeMultipleSelect(question *models.Question, answer json.RawMessage) (*models.GradingResult, error) {
	var content models.MultipleSelectContent
	if err := json.Unmarshal(question.Content, &content); err != nil {
		return nil, fmt.Errorf("failed to unmarshal multiple select content: %w", err)
	}

	var selected []string
	if err := json.Unmarshal(answer, &selected); err != nil {
		return nil, fmt.Errorf("failed to unmarshal multiple select answer: %w", err)
	}

	maxScore := float64(question.Points)
	correctSet := toSet(content.CorrectAnswers)
	selectedSet := toSet(selected)

	correctCount := 0
	incorrectCount := 0
	for id := range selectedSet {
		if correctSet[id] {
			correctCount++
		} else {
			incorrectCount++
		}
	}

	details := map[string]any{
		"correctCount":   correctCount,
		"incorrectCount": incorrectCount,
		"totalCorrect":   len(correctSet),
	}

	if !content.PartialCredit {
		isCorrect := incorrectCount == 0 && correctCount == len(correctSet)
		score := 0.0
		if isCorrect {
			score = maxScore
		}
		return &models.GradingResult{
			Score:     score,
			MaxScore:  maxScore,
			IsCorrect: isCorrect,
			Feedback:  s.feedbackFor(question, isCorrect, "Correct! Well done.", "Incorrect selection."),
			Details:   details,
		}, nil
	}

	// Incorrect selections penalize, floored at zero.
	raw := float64(correctCount-incorrectCount) / float64(len(correctSet))
	raw = math.Max(0, raw)
	score := roundScore(maxScore * raw)
	isCorrect := score == maxScore

	return &models.GradingResult{
		Score:     score,
		MaxScore:  maxScore,
		IsCorrect: isCorrect,
		Feedback:  s.feedbackFor(question, isCorrect, "Correct! Well done.", "Some selections are incorrect or missing."),
		Details:   details,
	}, nil
}

func (s *gradingService) gradeTrueFalse(question *models.Question, answer json.RawMessage) (*models.GradingResult, error) {
	var content models.TrueFalseContent
	if err := json.Unmarshal(question.Content, &content); err != nil {
		return nil, fmt.Errorf("failed to unmarshal true/false content: %w", err)
	}

	var submitted bool
	if err := json.Unmarshal(answer, &submitted); err != nil {
		return nil, fmt.Errorf("failed to unmarshal true/false answer: %w", err)
	}

	maxScore := float64(question.Points)
	isCorrect := submitted == content.CorrectAnswer

	score := 0.0
	if isCorrect {
		score = maxScore
	}

	return &models.GradingResult{
		Score:     score,
		MaxScore:  maxScore,
		IsCorrect: isCorrect,
		Feedback:  s.feedbackFor(question, isCorrect, "Correct!", fmt.Sprintf("Incorrect. The correct answer is: %s", trueFalseLabel(&content))),
	}, nil
}

func (s *gradingService) gradeShortAnswer(question *models.Question, answer json.RawMessage) (*models.GradingResult, error) {
	var content models.ShortAnswerContent
	if err := json.Unmarshal(question.Content, &content); err != nil {
		return nil, fmt.Errorf("failed to unmarshal short answer content: %w", err)
	}

	var submitted string
	if err := json.Unmarshal(answer, &submitted); err != nil {
		return nil, fmt.Errorf("failed to unmarshal short answer: %w", err)
	}

	maxScore := float64(question.Points)
	isCorrect := matchesAccepted(submitted, content.AcceptedAnswers, content.CaseSensitive, content.AllowFuzzyMatch, fuzzyThresholdOrDefault(content.FuzzyThreshold))

	score := 0.0
	if isCorrect {
		score = maxScore
	}

	return &models.GradingResult{
		Score:     score,
		MaxScore:  maxScore,
		IsCorrect: isCorrect,
		Feedback:  s.feedbackFor(question, isCorrect, "Correct answer!", "Your answer doesn't match the expected response."),
	}, nil
}

func (s *gradingService) gradeFillBlank(question *models.Question, answer json.RawMessage) (*models.GradingResult, error) {
	var content models.FillBlankContent
	if err := json.Unmarshal(question.Content, &content); err != nil {
		return nil, fmt.Errorf("failed to unmarshal fill-in-blank content: %w", err)
	}

	var submitted []string
	if err := json.Unmarshal(answer, &submitted); err != nil {
		return nil, fmt.Errorf("failed to unmarshal fill-in-blank answer: %w", err)
	}

	totalBlanks := len(content.Blanks)
	blankResults := make([]bool, totalBlanks)
	correctCount := 0
	for i, blank := range content.Blanks {
		if i >= len(submitted) {
			break
		}
		if matchesAccepted(submitted[i], blank.AcceptedAnswers, blank.CaseSensitive, blank.AllowFuzzyMatch, fuzzyThresholdOrDefault(blank.FuzzyThreshold)) {
			blankResults[i] = true
			correctCount++
		}
	}

	maxScore := float64(question.Points)
	isCorrect := correctCount == totalBlanks
	score := partialScore(maxScore, correctCount, totalBlanks, content.PartialCredit)

	return &models.GradingResult{
		Score:     score,
		MaxScore:  maxScore,
		IsCorrect: isCorrect,
		Feedback:  s.feedbackFor(question, isCorrect, "All blanks filled correctly!", "Some answers are incorrect. Please review your responses."),
		Details: map[string]any{
			"correctCount": correctCount,
			"totalBlanks":  totalBlanks,
			"blankResults": blankResults,
		},
	}, nil
}

func (s *gradingService) gradeMatching(question *models.Question, answer json.RawMessage) (*models.GradingResult, error) {
	var content models.MatchingContent
	if err := json.Unmarshal(question.Content, &content); err != nil {
		return nil, fmt.Errorf("failed to unmarshal matching content: %w", err)
	}

	var submitted map[string]string
	if err := json.Unmarshal(answer, &submitted); err != nil {
		return nil, fmt.Errorf("failed to unmarshal matching answer: %w", err)
	}

	totalPairs := len(content.Pairs)
	correctCount := 0
	for _, pair := range content.Pairs {
		if submitted[pair.Left] == pair.Right {
			correctCount++
		}
	}

	maxScore := float64(question.Points)
	isCorrect := correctCount == totalPairs
	score := partialScore(maxScore, correctCount, totalPairs, content.PartialCredit)

	return &models.GradingResult{
		Score:     score,
		MaxScore:  maxScore,
		IsCorrect: isCorrect,
		Feedback:  s.feedbackFor(question, isCorrect, "All items matched correctly!", "Some matches are incorrect. Please review your pairings."),
		Details: map[string]any{
			"correctCount": correctCount,
			"totalPairs":   totalPairs,
		},
	}, nil
}

func (s *gradingService) gradeOrdering(question *models.Question, answer json.RawMessage) (*models.GradingResult, error) {
	var content models.OrderingContent
	if err := json.Unmarshal(question.Content, &content); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ordering content: %w", err)
	}

	var submitted []string
	if err := json.Unmarshal(answer, &submitted); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ordering answer: %w", err)
	}

	maxScore := float64(question.Points)
	totalItems := len(content.CorrectOrder)

	if !content.PartialCredit {
		isCorrect := slices.Equal(submitted, content.CorrectOrder)
		score := 0.0
		if isCorrect {
			score = maxScore
		}
		return &models.GradingResult{
			Score:     score,
			MaxScore:  maxScore,
			IsCorrect: isCorrect,
			Feedback:  s.feedbackFor(question, isCorrect, "Perfect sequence!", "The order is not correct. Please review the sequence."),
		}, nil
	}

	// Position-wise comparison, not set membership.
	correctPositions := 0
	for i, itemID := range submitted {
		if i < totalItems && itemID == content.CorrectOrder[i] {
			correctPositions++
		}
	}

	isCorrect := correctPositions == totalItems
	score := roundScore(maxScore * float64(correctPositions) / float64(totalItems))

	return &models.GradingResult{
		Score:     score,
		MaxScore:  maxScore,
		IsCorrect: isCorrect,
		Feedback:  s.feedbackFor(question, isCorrect, "Perfect sequence!", "The order is not completely correct. Please review the sequence."),
		Details: map[string]any{
			"correctPositions": correctPositions,
			"totalItems":       totalItems,
		},
	}, nil
}

func (s *gradingService) gradeNumeric(question *models.Question, answer json.RawMessage) (*models.GradingResult, error) {
	var content models.NumericContent
	if err := json.Unmarshal(question.Content, &content); err != nil {
		return nil, fmt.Errorf("failed to unmarshal numeric content: %w", err)
	}

	var submitted float64
	if err := json.Unmarshal(answer, &submitted); err != nil {
		return nil, fmt.Errorf("failed to unmarshal numeric answer: %w", err)
	}

	allowed := content.Tolerance
	if content.ToleranceType == models.TolerancePercentage {
		allowed = math.Abs(content.CorrectAnswer) * content.Tolerance / 100
	}

	difference := math.Abs(submitted - content.CorrectAnswer)
	isCorrect := difference <= allowed

	maxScore := float64(question.Points)
	score := 0.0
	if isCorrect {
		score = maxScore
	}

	return &models.GradingResult{
		Score:     score,
		MaxScore:  maxScore,
		IsCorrect: isCorrect,
		Feedback:  s.feedbackFor(question, isCorrect, "Correct!", fmt.Sprintf("Incorrect. The correct answer is %v.", content.CorrectAnswer)),
		Details: map[string]any{
			"difference":       difference,
			"allowedTolerance": allowed,
		},
	}, nil
}

func (s *gradingService) gradeHotspot(question *models.Question, answer json.RawMessage) (*models.GradingResult, error) {
	var content models.HotspotContent
	if err := json.Unmarshal(question.Content, &content); err != nil {
		return nil, fmt.Errorf("failed to unmarshal hotspot content: %w", err)
	}

	var clicks []models.Point
	if err := json.Unmarshal(answer, &clicks); err != nil {
		return nil, fmt.Errorf("failed to unmarshal hotspot answer: %w", err)
	}

	var correctRegions []models.HotspotRegion
	for _, region := range content.Regions {
		if region.Correct {
			correctRegions = append(correctRegions, region)
		}
	}

	maxScore := float64(question.Points)

	if !content.MultiSelect {
		isCorrect := false
		if len(clicks) > 0 {
			isCorrect = inAnyRegion(clicks[0], correctRegions)
		}
		score := 0.0
		if isCorrect {
			score = maxScore
		}
		return &models.GradingResult{
			Score:     score,
			MaxScore:  maxScore,
			IsCorrect: isCorrect,
			Feedback:  s.feedbackFor(question, isCorrect, "Correct area selected!", "The selected area is not correct."),
		}, nil
	}

	correctClicks := 0
	for _, click := range clicks {
		if inAnyRegion(click, correctRegions) {
			correctClicks++
		}
	}

	// Full correctness requires one hit per correct region and no extra clicks.
	isCorrect := len(correctRegions) > 0 &&
		correctClicks == len(correctRegions) &&
		len(clicks) == len(correctRegions)

	score := 0.0
	if len(correctRegions) > 0 {
		score = roundScore(maxScore * float64(correctClicks) / float64(len(correctRegions)))
		score = math.Min(score, maxScore)
	}

	return &models.GradingResult{
		Score:     score,
		MaxScore:  maxScore,
		IsCorrect: isCorrect,
		Feedback:  s.feedbackFor(question, isCorrect, "All areas selected correctly!", "Some selected areas are incorrect or missing."),
		Details: map[string]any{
			"correctClicks":       correctClicks,
			"totalClicks":         len(clicks),
			"totalCorrectRegions": len(correctRegions),
		},
	}, nil
}

func (s *gradingService) gradeDragDrop(question *models.Question, answer json.RawMessage) (*models.GradingResult, error) {
	var content models.DragDropContent
	if err := json.Unmarshal(question.Content, &content); err != nil {
		return nil, fmt.Errorf("failed to unmarshal drag-drop content: %w", err)
	}

	var placements map[string][]string
	if err := json.Unmarshal(answer, &placements); err != nil {
		return nil, fmt.Errorf("failed to unmarshal drag-drop answer: %w", err)
	}

	correctPlacements := 0
	totalExpected := 0
	for _, zone := range content.Zones {
		totalExpected += len(zone.AcceptedItems)
		accepted := toSet(zone.AcceptedItems)
		for itemID := range toSet(placements[zone.ID]) {
			if accepted[itemID] {
				correctPlacements++
			}
		}
	}

	maxScore := float64(question.Points)
	isCorrect := totalExpected > 0 && correctPlacements == totalExpected
	score := partialScore(maxScore, correctPlacements, totalExpected, content.PartialCredit)

	return &models.GradingResult{
		Score:     score,
		MaxScore:  maxScore,
		IsCorrect: isCorrect,
		Feedback:  s.feedbackFor(question, isCorrect, "All items placed correctly!", "Some items are in the wrong place."),
		Details: map[string]any{
			"correctPlacements": correctPlacements,
			"totalExpected":     totalExpected,
		},
	}, nil
}

func (s *gradingService) gradeCode(ctx context.Context, question *models.Question, answer json.RawMessage) (*models.GradingResult, error) {
	var content models.CodeContent
	if err := json.Unmarshal(question.Content, &content); err != nil {
		return nil, fmt.Errorf("failed to unmarshal code content: %w", err)
	}

	var submission models.CodeAnswer
	if err := json.Unmarshal(answer, &submission); err != nil {
		return nil, fmt.Errorf("failed to unmarshal code answer: %w", err)
	}

	language := submission.Language
	if language == "" {
		language = content.Language
	}

	totalPoints := 0.0
	earnedPoints := 0.0
	passedTests := 0
	testResults := make([]map[string]any, 0, len(content.TestCases))

	for i, testCase := range content.TestCases {
		weight := 1.0
		if testCase.Points != nil {
			weight = *testCase.Points
		}
		totalPoints += weight

		testResult := map[string]any{
			"index":  i,
			"passed": false,
		}
		if !testCase.Hidden {
			testResult["input"] = testCase.Input
			testResult["expectedOutput"] = testCase.ExpectedOutput
		}

		// Execution failures are per test case and never abort siblings.
		execution, err := s.executor.Execute(ctx, submission.Code, language, testCase.Input)
		if err != nil {
			testResult["error"] = err.Error()
			s.logger.Warn("test case execution failed",
				"question_id", question.ID,
				"test_case", i,
				"error", err)
			testResults = append(testResults, testResult)
			continue
		}

		passed := strings.TrimSpace(execution.Output) == strings.TrimSpace(testCase.ExpectedOutput)
		testResult["passed"] = passed
		testResult["executionTimeMs"] = execution.ExecutionTimeMs
		if !testCase.Hidden {
			testResult["actualOutput"] = strings.TrimSpace(execution.Output)
		}
		if passed {
			earnedPoints += weight
			passedTests++
		}
		testResults = append(testResults, testResult)
	}

	maxScore := float64(question.Points)
	isCorrect := len(content.TestCases) > 0 && passedTests == len(content.TestCases)

	score := 0.0
	if totalPoints > 0 {
		if content.PartialCredit {
			score = roundScore(maxScore * earnedPoints / totalPoints)
		} else if isCorrect {
			score = maxScore
		}
	}

	return &models.GradingResult{
		Score:     score,
		MaxScore:  maxScore,
		IsCorrect: isCorrect,
		Feedback:  s.feedbackFor(question, isCorrect, "All test cases passed!", fmt.Sprintf("%d of %d test cases passed.", passedTests, len(content.TestCases))),
		Details: map[string]any{
			"testResults": testResults,
			"passedTests": passedTests,
			"totalTests":  len(content.TestCases),
		},
	}, nil
}

// ===== FEEDBACK GENERATION =====

// feedbackFor prefers the question author's feedback message, falling back
// to a grader default.
func (s *gradingService) feedbackFor(question *models.Question, isCorrect bool, defaultCorrect, defaultIncorrect string) *string {
	if isCorrect {
		if question.Feedback != nil && question.Feedback.Correct != nil {
			return question.Feedback.Correct
		}
		return strPtr(defaultCorrect)
	}
	if question.Feedback != nil && question.Feedback.Incorrect != nil {
		return question.Feedback.Incorrect
	}
	return strPtr(defaultIncorrect)
}

// multipleChoiceFeedback falls back to the chosen option's feedback when the
// question has no incorrect-answer message of its own.
func (s *gradingService) multipleChoiceFeedback(question *models.Question, content *models.MultipleChoiceContent, selected string, isCorrect bool) *string {
	if isCorrect {
		return s.feedbackFor(question, true, "Correct! Well done.", "")
	}
	if question.Feedback != nil && question.Feedback.Incorrect != nil {
		return question.Feedback.Incorrect
	}
	for _, option := range content.Options {
		if option.ID == selected && option.Feedback != nil {
			return option.Feedback
		}
	}
	return strPtr("Incorrect answer.")
}

func trueFalseLabel(content *models.TrueFalseContent) string {
	if content.CorrectAnswer {
		if content.TrueLabel != nil {
			return *content.TrueLabel
		}
		return "True"
	}
	if content.FalseLabel != nil {
		return *content.FalseLabel
	}
	return "False"
}

// ===== TEXT MATCHING =====

// matchesAccepted checks a submitted text against the accepted answers,
// exact match first, then fuzzy similarity when enabled.
func matchesAccepted(submitted string, accepted []string, caseSensitive, allowFuzzy bool, threshold float64) bool {
	normalized := normalizeString(submitted, caseSensitive)
	for _, candidate := range accepted {
		if normalized == normalizeString(candidate, caseSensitive) {
			return true
		}
	}
	if !allowFuzzy {
		return false
	}
	for _, candidate := range accepted {
		if fuzzyMatch(normalized, normalizeString(candidate, caseSensitive), threshold) {
			return true
		}
	}
	return false
}

func normalizeString(s string, caseSensitive bool) string {
	s = strings.TrimSpace(s)
	if !caseSensitive {
		s = strings.ToLower(s)
	}
	return s
}

const defaultFuzzyThreshold = 0.8

func fuzzyThresholdOrDefault(threshold *float64) float64 {
	if threshold != nil {
		return *threshold
	}
	return defaultFuzzyThreshold
}

// ===== SCORING HELPERS =====

// partialScore applies the shared partial-credit formula: a proportional
// rounded score when partial credit is enabled, all-or-nothing otherwise.
func partialScore(maxScore float64, correct, total int, partialCredit bool) float64 {
	if total == 0 {
		return 0
	}
	if partialCredit {
		return roundScore(maxScore * float64(correct) / float64(total))
	}
	if correct == total {
		return maxScore
	}
	return 0
}

func inAnyRegion(point models.Point, regions []models.HotspotRegion) bool {
	for _, region := range regions {
		if isPointInRegion(point, region) {
			return true
		}
	}
	return false
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
