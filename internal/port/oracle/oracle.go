// Package oracle defines the port for the external judgment-scoring
// collaborator consulted by the risk scorer.
package oracle

import (
	"context"

	"github.com/Strob0t/LoanPilot/internal/domain/loan"
)

// Judgment is the fixed response schema expected from the oracle.
type Judgment struct {
	Score               int      `json:"llm_score"`
	Reasoning           string   `json:"reasoning"`
	RiskFactors         []string `json:"risk_factors"`
	CompensatingFactors []string `json:"compensating_factors"`
}

// NeutralScore is substituted when the oracle is unavailable or returns
// output that cannot be parsed. The pipeline must not fail on oracle
// errors.
const NeutralScore = 50

// Oracle produces a judgment sub-score for a normalized application
// given the deterministic rule sub-score.
type Oracle interface {
	Assess(ctx context.Context, app loan.Normalized, ruleScore int) (Judgment, error)
}
