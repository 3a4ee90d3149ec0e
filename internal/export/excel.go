package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/SAP-F-2025/grading-engine/internal/models"
)

const reportSheet = "Grading Report"

// WriteAttemptReport renders an attempt grading summary to an .xlsx
// workbook, one row per question plus a summary block.
func WriteAttemptReport(path, attemptID string, summary *models.AttemptGradingSummary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", reportSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	headers := []string{"Question ID", "Score", "Max Score", "Correct", "Partial Credit", "Feedback"}
	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(reportSheet, cell, header); err != nil {
			return err
		}
	}

	for i, result := range summary.Results {
		row := i + 2
		feedback := ""
		if result.Feedback != nil {
			feedback = *result.Feedback
		}
		values := []any{result.QuestionID, result.Score, result.MaxScore, result.IsCorrect, result.PartialCredit, feedback}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(reportSheet, cell, value); err != nil {
				return err
			}
		}
	}

	summaryRow := len(summary.Results) + 3
	lines := [][2]any{
		{"Attempt ID", attemptID},
		{"Total Score", summary.TotalScore},
		{"Max Score", summary.MaxScore},
		{"Percentage", summary.Percentage},
		{"Grade", summary.Grade},
		{"Graded At", summary.GradedAt.Format("2006-01-02 15:04:05")},
	}
	if summary.IsPassing != nil {
		lines = append(lines, [2]any{"Passed", *summary.IsPassing})
	}
	for i, line := range lines {
		labelCell, err := excelize.CoordinatesToCellName(1, summaryRow+i)
		if err != nil {
			return err
		}
		valueCell, err := excelize.CoordinatesToCellName(2, summaryRow+i)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(reportSheet, labelCell, line[0]); err != nil {
			return err
		}
		if err := f.SetCellValue(reportSheet, valueCell, line[1]); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}
