package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/Strob0t/LoanPilot/internal/domain/decision"
	"github.com/Strob0t/LoanPilot/internal/domain/risk"
	"github.com/Strob0t/LoanPilot/internal/domain/rules"
)

// DecisionService routes a scored, compliance-checked application to its
// verdict.
type DecisionService struct {
	bands risk.Bands
	log   *slog.Logger
	now   func() time.Time
}

// NewDecisionService creates the decision stage with the configured
// auto-approve and auto-decline bands.
func NewDecisionService(bands risk.Bands, log *slog.Logger) *DecisionService {
	return &DecisionService{bands: bands, log: log, now: time.Now}
}

// decisionRequest is the stage's wire input: the upstream risk and
// compliance outputs combined by the orchestrator.
type decisionRequest struct {
	Risk       risk.Assessment        `json:"risk_assessment"`
	Compliance rules.ComplianceResult `json:"compliance_result"`
}

// Execute routes one application and returns the decision as JSON.
func (s *DecisionService) Execute(_ context.Context, payload string) (string, error) {
	var req decisionRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return "", fmt.Errorf("unmarshal decision request: %w", err)
	}

	d := decision.Decide(decision.Input{
		ApplicantID:         req.Risk.ApplicantID,
		Score:               req.Risk.Score,
		Compliant:           req.Compliance.Compliant,
		Flags:               req.Compliance.Flags,
		Reasoning:           req.Risk.Reasoning,
		RiskFactors:         req.Risk.RiskFactors,
		CompensatingFactors: req.Risk.CompensatingFactors,
		Bands:               s.bands,
	}, s.now())

	s.log.Info("decision routed",
		"applicant_id", d.ApplicantID,
		"decision", string(d.Decision), "action", string(d.Action), "score", d.Score)

	out, err := json.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("marshal decision: %w", err)
	}
	return string(out), nil
}
