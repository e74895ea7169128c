// Package review defines the records behind the human-in-the-loop
// review surface: escalations awaiting a decision and the append-only
// processed-loan history.
package review

import (
	"time"

	"github.com/Strob0t/LoanPilot/internal/domain/decision"
	"github.com/Strob0t/LoanPilot/internal/domain/loan"
	"github.com/Strob0t/LoanPilot/internal/domain/rules"
)

// EscalationStatus tracks the lifecycle of an escalated application.
// PENDING transitions to exactly one of the terminal states via a human
// decision.
type EscalationStatus string

const (
	StatusPending       EscalationStatus = "PENDING"
	StatusApproved      EscalationStatus = "APPROVED"
	StatusDeclined      EscalationStatus = "DECLINED"
	StatusInfoRequested EscalationStatus = "INFO_REQUESTED"
)

// ValidEscalationStatus reports whether s is a status a reviewer may set.
func ValidEscalationStatus(s EscalationStatus) bool {
	switch s {
	case StatusApproved, StatusDeclined, StatusInfoRequested:
		return true
	}
	return false
}

// EscalationRecord is one escalated application awaiting human review.
// Records are created by the pipeline when a decision escalates, mutated
// once by a reviewer, and never deleted.
type EscalationRecord struct {
	ID                   string           `json:"id"`
	ApplicantID          string           `json:"applicant_id"`
	FullName             string           `json:"full_name"`
	Application          loan.Normalized  `json:"application_data"`
	RiskScore            int              `json:"risk_score"`
	Reasoning            string           `json:"reasoning"`
	RiskFactors          []string         `json:"risk_factors"`
	CompensatingFactors  []string         `json:"compensating_factors"`
	ComplianceFlags      []rules.Flag     `json:"compliance_flags"`
	ComplianceConditions []string         `json:"compliance_conditions"`
	Status               EscalationStatus `json:"status"`
	EscalatedAt          time.Time        `json:"escalated_at"`
	DecidedAt            *time.Time       `json:"decided_at,omitempty"`
	DecidedBy            string           `json:"decided_by,omitempty"`
	DecisionNotes        string           `json:"decision_notes,omitempty"`
}

// ProcessedLoanRecord is one completed pipeline run. The pipeline creates
// it; the review surface later fills in only the human-decision fields.
type ProcessedLoanRecord struct {
	ID                  string              `json:"id"`
	ApplicantID         string              `json:"applicant_id"`
	FullName            string              `json:"full_name"`
	Decision            decision.Verdict    `json:"decision"`
	Action              decision.Action     `json:"action"`
	Reason              string              `json:"reason"`
	Score               int                 `json:"score"`
	Compliant           bool                `json:"compliant"`
	RiskFactors         []string            `json:"risk_factors"`
	CompensatingFactors []string            `json:"compensating_factors"`
	Flags               []rules.Flag        `json:"flags"`
	Conditions          []string            `json:"conditions"`
	Reasoning           string              `json:"reasoning"`
	Application         loan.Application    `json:"application_data"`
	ProcessedAt         time.Time           `json:"processed_at"`
	Thresholds          decision.Thresholds `json:"thresholds"`
	EscalationID        string              `json:"escalation_id,omitempty"`

	HumanDecision      EscalationStatus `json:"human_decision,omitempty"`
	HumanDecidedAt     *time.Time       `json:"human_decided_at,omitempty"`
	HumanDecidedBy     string           `json:"human_decided_by,omitempty"`
	HumanDecisionNotes string           `json:"human_decision_notes,omitempty"`
}
