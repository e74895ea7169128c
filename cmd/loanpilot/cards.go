package main

import (
	"github.com/Strob0t/LoanPilot/internal/config"
	"github.com/Strob0t/LoanPilot/internal/port/a2a"
)

// Agent cards served from each stage's discovery endpoint.

func intakeCard(cfg *config.Config) a2a.Card {
	return a2a.Card{
		Name:        "Loan Intake Validator",
		Description: "Validates raw loan applications for completeness and sane value ranges, and normalizes derived ratios.",
		URL:         cfg.Stages.Intake.URL,
		Version:     version,
		Skills: []a2a.Skill{{
			ID:          "validate_application",
			Name:        "Validate Application",
			Description: "Checks required fields, value ranges, and loan type; computes DTI and LTV.",
			Tags:        []string{"loan", "validation"},
		}},
	}
}

func riskCard(cfg *config.Config) a2a.Card {
	return a2a.Card{
		Name:        "Loan Risk Scorer",
		Description: "Scores applications 0-100 by blending deterministic underwriting rules with a reasoning-model judgment.",
		URL:         cfg.Stages.Risk.URL,
		Version:     version,
		Skills: []a2a.Skill{{
			ID:          "score_risk",
			Name:        "Score Risk",
			Description: "Combines a rule-based sub-score with an LLM judgment into a composite risk score.",
			Tags:        []string{"loan", "risk", "scoring"},
		}},
	}
}

func complianceCard(cfg *config.Config) a2a.Card {
	return a2a.Card{
		Name:        "Loan Compliance Checker",
		Description: "Applies product-specific program rules: credit floors, DTI and LTV caps, PMI, MIP, and VA funding fees.",
		URL:         cfg.Stages.Compliance.URL,
		Version:     version,
		Skills: []a2a.Skill{{
			ID:          "check_compliance",
			Name:        "Check Compliance",
			Description: "Evaluates conventional, FHA, and VA program rules and reports flags, exceptions, and conditions.",
			Tags:        []string{"loan", "compliance"},
		}},
	}
}

func decisionCard(cfg *config.Config) a2a.Card {
	return a2a.Card{
		Name:        "Loan Decision Router",
		Description: "Routes scored applications to approval, decline, or human escalation based on configured bands.",
		URL:         cfg.Stages.Decision.URL,
		Version:     version,
		Skills: []a2a.Skill{{
			ID:          "route_decision",
			Name:        "Route Decision",
			Description: "Maps risk score and compliance findings to a final verdict with an auditable reason.",
			Tags:        []string{"loan", "decision"},
		}},
	}
}

func escalationCard(cfg *config.Config) a2a.Card {
	return a2a.Card{
		Name:        "Loan Escalation Desk",
		Description: "Queues borderline applications for human underwriter review and records verdicts.",
		URL:         cfg.Stages.Escalation.URL,
		Version:     version,
		Skills: []a2a.Skill{{
			ID:          "escalate_application",
			Name:        "Escalate Application",
			Description: "Stores the application with its risk and compliance context for a human decision.",
			Tags:        []string{"loan", "escalation", "review"},
		}},
	}
}
