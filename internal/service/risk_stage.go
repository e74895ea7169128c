package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	lpotel "github.com/Strob0t/LoanPilot/internal/adapter/otel"
	"github.com/Strob0t/LoanPilot/internal/domain/loan"
	"github.com/Strob0t/LoanPilot/internal/domain/risk"
	"github.com/Strob0t/LoanPilot/internal/port/oracle"
	"github.com/Strob0t/LoanPilot/internal/resilience"
)

// RiskService blends the deterministic rule sub-score with the oracle's
// judgment sub-score. Oracle failures never fail the stage: the neutral
// score is substituted and the fallback is recorded in the reasoning.
type RiskService struct {
	oracle  oracle.Oracle
	bands   risk.Bands
	metrics *lpotel.Metrics
	log     *slog.Logger
}

// NewRiskService creates the risk-scoring stage.
func NewRiskService(o oracle.Oracle, bands risk.Bands, log *slog.Logger) *RiskService {
	return &RiskService{oracle: o, bands: bands, log: log}
}

// SetMetrics attaches pipeline metrics. Optional.
func (s *RiskService) SetMetrics(m *lpotel.Metrics) { s.metrics = m }

// Execute scores a normalized application and returns the assessment as
// JSON.
func (s *RiskService) Execute(ctx context.Context, payload string) (string, error) {
	var app loan.Normalized
	if err := json.Unmarshal([]byte(payload), &app); err != nil {
		return "", fmt.Errorf("unmarshal application: %w", err)
	}

	a := s.Assess(ctx, app)
	out, err := json.Marshal(a)
	if err != nil {
		return "", fmt.Errorf("marshal assessment: %w", err)
	}
	return string(out), nil
}

// Assess computes the full assessment for one application.
func (s *RiskService) Assess(ctx context.Context, app loan.Normalized) risk.Assessment {
	ruleScore := risk.RuleScore(app)

	judgment, err := s.oracle.Assess(ctx, app, ruleScore)
	if err != nil {
		judgment = oracle.Judgment{
			Score:     oracle.NeutralScore,
			Reasoning: fallbackReasoning(err),
		}
		if s.metrics != nil {
			s.metrics.OracleFallbacks.Add(ctx, 1)
		}
		s.log.Warn("oracle unavailable, using neutral judgment score",
			"applicant_id", app.ApplicantID, "error", err)
	}

	composite := risk.Composite(ruleScore, judgment.Score)
	a := risk.Assessment{
		ApplicantID:         app.ApplicantID,
		Score:               composite,
		RuleScore:           ruleScore,
		JudgmentScore:       judgment.Score,
		Category:            s.bands.Categorize(composite),
		Reasoning:           judgment.Reasoning,
		RiskFactors:         judgment.RiskFactors,
		CompensatingFactors: judgment.CompensatingFactors,
	}
	if a.RiskFactors == nil {
		a.RiskFactors = []string{}
	}
	if a.CompensatingFactors == nil {
		a.CompensatingFactors = []string{}
	}

	s.log.Info("risk assessed",
		"applicant_id", app.ApplicantID,
		"score", a.Score, "rule_score", a.RuleScore, "llm_score", a.JudgmentScore,
		"category", string(a.Category))
	return a
}

func fallbackReasoning(err error) string {
	switch {
	case errors.Is(err, resilience.ErrCircuitOpen):
		return "Automated judgment skipped (circuit open). Neutral score applied."
	case errors.Is(err, context.DeadlineExceeded):
		return "Automated judgment timed out. Neutral score applied."
	default:
		return "Automated judgment unavailable. Neutral score applied."
	}
}
