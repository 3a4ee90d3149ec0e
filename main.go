package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/SAP-F-2025/grading-engine/internal/config"
	"github.com/SAP-F-2025/grading-engine/internal/export"
	"github.com/SAP-F-2025/grading-engine/internal/models"
	"github.com/SAP-F-2025/grading-engine/internal/services"
	"github.com/SAP-F-2025/grading-engine/internal/validator"
)

// Offline grading tool: grades a submitted attempt from JSON files and
// prints the summary. Used for regrades and for verifying answer keys
// without going through the submission service.
func main() {
	var (
		questionsPath = flag.String("questions", "", "path to the questions JSON file")
		responsesPath = flag.String("responses", "", "path to the submitted responses JSON file")
		reportPath    = flag.String("report", "", "optional path for an .xlsx grading report")
	)
	flag.Parse()

	if *questionsPath == "" || *responsesPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	questions, err := loadJSON[[]*models.Question](*questionsPath)
	if err != nil {
		log.Fatalf("Failed to load questions: %v", err)
	}
	responses, err := loadJSON[[]models.QuestionResponse](*responsesPath)
	if err != nil {
		log.Fatalf("Failed to load responses: %v", err)
	}

	v := validator.New()
	for _, question := range questions {
		if errs := v.ValidateQuestion(question); len(errs) > 0 {
			log.Fatalf("Invalid question %s: %v", question.ID, errs.Error())
		}
	}

	opts := []services.Option{}
	if cfg.PassingScore != nil {
		opts = append(opts, services.WithPassingScore(*cfg.PassingScore))
	}

	// No code executor is wired here: code questions grade their test cases
	// as failed-to-execute until a sandbox is attached.
	svc := services.NewGradingService(logger, opts...)

	attemptID := uuid.NewString()
	summary := svc.GradeAttempt(context.Background(), questions, responses)

	logger.Info("attempt graded",
		"attempt_id", attemptID,
		"total_score", summary.TotalScore,
		"max_score", summary.MaxScore,
		"percentage", summary.Percentage)

	out, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode summary: %v", err)
	}
	fmt.Println(string(out))

	if *reportPath != "" {
		if err := export.WriteAttemptReport(*reportPath, attemptID, summary); err != nil {
			log.Fatalf("Failed to write report: %v", err)
		}
		logger.Info("report written", "path", *reportPath)
	}
}

func loadJSON[T any](path string) (T, error) {
	var value T
	data, err := os.ReadFile(path)
	if err != nil {
		return value, err
	}
	if err := json.Unmarshal(data, &value); err != nil {
		return value, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return value, nil
}
