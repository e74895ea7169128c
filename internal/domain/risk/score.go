// Package risk computes the composite risk score: a deterministic rule
// sub-score blended with an external judgment sub-score.
package risk

import (
	"math"

	"github.com/Strob0t/LoanPilot/internal/domain/loan"
	"github.com/Strob0t/LoanPilot/internal/domain/rules"
)

// Category maps a composite score to a routing recommendation.
type Category string

const (
	CategoryAutoApprove Category = "AUTO_APPROVE"
	CategoryEscalate    Category = "ESCALATE"
	CategoryAutoDecline Category = "AUTO_DECLINE"
)

// Bands holds the configurable category thresholds.
type Bands struct {
	AutoApprove int // score at or below: auto-approve
	AutoDecline int // score at or above: auto-decline
}

// DefaultBands returns the standard 40/80 thresholds.
func DefaultBands() Bands {
	return Bands{AutoApprove: 40, AutoDecline: 80}
}

// Assessment is the full risk-scoring output for one application.
type Assessment struct {
	ApplicantID         string   `json:"applicant_id"`
	Score               int      `json:"score"`
	RuleScore           int      `json:"rule_score"`
	JudgmentScore       int      `json:"llm_score"`
	Category            Category `json:"category"`
	Reasoning           string   `json:"reasoning"`
	RiskFactors         []string `json:"risk_factors"`
	CompensatingFactors []string `json:"compensating_factors"`
}

// RuleScore computes the deterministic sub-score (0-100, higher = more
// risk) from five independently capped penalty buckets evaluated against
// the product thresholds. It saturates at 100.
func RuleScore(app loan.Normalized) int {
	t := rules.ForProduct(app.LoanType)
	score := 0

	switch {
	case app.CreditScore < t.MinCreditScore:
		score += 25
	case app.CreditScore < t.MinCreditScore+50:
		score += 10
	}

	switch {
	case app.DTIRatio > t.MaxDTI:
		score += 25
	case app.DTIRatio > t.MaxDTI-0.05:
		score += 10
	}

	switch {
	case app.LTVRatio > t.MaxLTV:
		score += 20
	case app.LTVRatio > t.MaxLTV-0.05:
		score += 8
	}

	switch {
	case app.EmploymentMonths < t.MinEmploymentMonths:
		score += 15
	case app.EmploymentMonths < t.MinEmploymentMonths+6:
		score += 5
	}

	switch {
	case app.DerogatoryMarks > t.MaxDerogatoryMarks:
		score += 15
	case app.DerogatoryMarks > 0:
		score += 5
	}

	if score > 100 {
		score = 100
	}
	return score
}

// Composite blends the rule sub-score (40%) with the judgment sub-score
// (60%), rounded to the nearest integer.
func Composite(ruleScore, judgmentScore int) int {
	return int(math.Round(float64(ruleScore)*0.4 + float64(judgmentScore)*0.6))
}

// Categorize maps a composite score onto the configured bands.
func (b Bands) Categorize(score int) Category {
	switch {
	case score <= b.AutoApprove:
		return CategoryAutoApprove
	case score >= b.AutoDecline:
		return CategoryAutoDecline
	default:
		return CategoryEscalate
	}
}
