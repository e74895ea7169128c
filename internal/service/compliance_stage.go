package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Strob0t/LoanPilot/internal/domain/loan"
	"github.com/Strob0t/LoanPilot/internal/domain/rules"
)

// ComplianceService runs the product-specific compliance checks.
type ComplianceService struct {
	log *slog.Logger
}

// NewComplianceService creates the compliance stage.
func NewComplianceService(log *slog.Logger) *ComplianceService {
	return &ComplianceService{log: log}
}

// Execute checks a normalized application and returns the compliance
// result as JSON. Non-compliance is a normal outcome, not an error.
func (s *ComplianceService) Execute(_ context.Context, payload string) (string, error) {
	var app loan.Normalized
	if err := json.Unmarshal([]byte(payload), &app); err != nil {
		return "", fmt.Errorf("unmarshal application: %w", err)
	}

	result := rules.CheckCompliance(app)
	s.log.Info("compliance checked",
		"applicant_id", result.ApplicantID,
		"compliant", result.Compliant, "flags", len(result.Flags))

	out, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("marshal compliance result: %w", err)
	}
	return string(out), nil
}
