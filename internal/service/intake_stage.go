package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Strob0t/LoanPilot/internal/domain/intake"
)

// IntakeService is the first pipeline stage: it validates and normalizes
// raw applications. A failed intake is terminal for the application.
type IntakeService struct {
	log *slog.Logger
}

// NewIntakeService creates the intake stage.
func NewIntakeService(log *slog.Logger) *IntakeService {
	return &IntakeService{log: log}
}

// Execute validates the raw application payload and returns the intake
// outcome as JSON. Validation failure is a normal outcome, not an error.
func (s *IntakeService) Execute(_ context.Context, payload string) (string, error) {
	outcome := intake.Validate([]byte(payload))
	if outcome.Valid {
		s.log.Info("intake passed", "applicant_id", outcome.Application.ApplicantID)
	} else {
		s.log.Info("intake rejected",
			"applicant_id", outcome.ApplicantID, "errors", len(outcome.Errors))
	}

	out, err := json.Marshal(outcome)
	if err != nil {
		return "", fmt.Errorf("marshal intake outcome: %w", err)
	}
	return string(out), nil
}
