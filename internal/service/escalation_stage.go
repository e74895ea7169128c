package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Strob0t/LoanPilot/internal/domain/loan"
	"github.com/Strob0t/LoanPilot/internal/domain/review"
	"github.com/Strob0t/LoanPilot/internal/domain/rules"
	"github.com/Strob0t/LoanPilot/internal/store"
)

// EscalationService queues borderline applications for human review.
type EscalationService struct {
	store *store.EscalationStore
	log   *slog.Logger
	now   func() time.Time
}

// NewEscalationService creates the escalation stage backed by the given
// store.
func NewEscalationService(st *store.EscalationStore, log *slog.Logger) *EscalationService {
	return &EscalationService{store: st, log: log, now: time.Now}
}

// escalationRequest is the stage's wire input: application context plus
// the risk and compliance findings a reviewer needs.
type escalationRequest struct {
	Application          loan.Normalized `json:"application"`
	RiskScore            int             `json:"risk_score"`
	Reasoning            string          `json:"reasoning"`
	RiskFactors          []string        `json:"risk_factors"`
	CompensatingFactors  []string        `json:"compensating_factors"`
	ComplianceFlags      []rules.Flag    `json:"compliance_flags"`
	ComplianceConditions []string        `json:"compliance_conditions"`
}

// escalationResponse confirms the queued record.
type escalationResponse struct {
	ApplicantID  string                  `json:"applicant_id"`
	EscalationID string                  `json:"escalation_id"`
	Status       review.EscalationStatus `json:"status"`
	Message      string                  `json:"message"`
}

// Execute queues the application and returns the confirmation as JSON.
func (s *EscalationService) Execute(_ context.Context, payload string) (string, error) {
	var req escalationRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return "", fmt.Errorf("unmarshal escalation request: %w", err)
	}

	rec := review.EscalationRecord{
		ID:                   uuid.NewString(),
		ApplicantID:          req.Application.ApplicantID,
		FullName:             req.Application.FullName,
		Application:          req.Application,
		RiskScore:            req.RiskScore,
		Reasoning:            req.Reasoning,
		RiskFactors:          req.RiskFactors,
		CompensatingFactors:  req.CompensatingFactors,
		ComplianceFlags:      req.ComplianceFlags,
		ComplianceConditions: req.ComplianceConditions,
		Status:               review.StatusPending,
		EscalatedAt:          s.now().UTC(),
	}
	s.store.Add(rec)

	s.log.Info("application escalated",
		"applicant_id", rec.ApplicantID, "escalation_id", rec.ID, "risk_score", rec.RiskScore)

	out, err := json.Marshal(escalationResponse{
		ApplicantID:  rec.ApplicantID,
		EscalationID: rec.ID,
		Status:       review.StatusPending,
		Message:      fmt.Sprintf("Application %s queued for human review", rec.ApplicantID),
	})
	if err != nil {
		return "", fmt.Errorf("marshal escalation response: %w", err)
	}
	return string(out), nil
}
