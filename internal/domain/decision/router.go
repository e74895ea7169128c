// Package decision implements the pure routing state machine that maps a
// risk score and compliance findings to a verdict and action.
package decision

import (
	"fmt"
	"strings"
	"time"

	"github.com/Strob0t/LoanPilot/internal/domain/risk"
	"github.com/Strob0t/LoanPilot/internal/domain/rules"
)

// Verdict is the pipeline-level outcome for an application.
type Verdict string

const (
	VerdictApproved      Verdict = "APPROVED"
	VerdictDeclined      Verdict = "DECLINED"
	VerdictPendingReview Verdict = "PENDING_REVIEW"
	VerdictRejected      Verdict = "REJECTED"
)

// Action names the routing step that produced the verdict.
type Action string

const (
	ActionAutoApprove    Action = "AUTO_APPROVE"
	ActionAutoDecline    Action = "AUTO_DECLINE"
	ActionEscalate       Action = "ESCALATE"
	ActionIntakeRejected Action = "INTAKE_REJECTED"
)

// Input carries everything the router needs. Thresholds are passed in,
// not read from ambient configuration, so the function stays testable in
// isolation.
type Input struct {
	ApplicantID         string
	Score               int
	Compliant           bool
	Flags               []rules.Flag
	Reasoning           string
	RiskFactors         []string
	CompensatingFactors []string
	Bands               risk.Bands
}

// Decision is the routed outcome, including the audit fields carried
// forward to the escalation queue and the history record.
type Decision struct {
	ApplicantID         string       `json:"applicant_id"`
	Decision            Verdict      `json:"decision"`
	Action              Action       `json:"action"`
	Reason              string       `json:"reason"`
	Score               int          `json:"score"`
	Compliant           bool         `json:"compliant"`
	Flags               []rules.Flag `json:"flags"`
	Reasoning           string       `json:"reasoning"`
	RiskFactors         []string     `json:"risk_factors"`
	CompensatingFactors []string     `json:"compensating_factors"`
	DecidedAt           time.Time    `json:"decided_at"`
	Thresholds          Thresholds   `json:"thresholds"`
}

// Thresholds is the snapshot of the bands in force when the decision was
// made.
type Thresholds struct {
	AutoApprove int `json:"auto_approve"`
	AutoDecline int `json:"auto_decline"`
}

// Decide routes an application. Priority order, first match wins:
// hard compliance flags decline regardless of score, then the
// auto-approve band, then the auto-decline band, then escalation.
func Decide(in Input, now time.Time) Decision {
	d := Decision{
		ApplicantID:         in.ApplicantID,
		Score:               in.Score,
		Compliant:           in.Compliant,
		Flags:               in.Flags,
		Reasoning:           in.Reasoning,
		RiskFactors:         in.RiskFactors,
		CompensatingFactors: in.CompensatingFactors,
		DecidedAt:           now.UTC(),
		Thresholds: Thresholds{
			AutoApprove: in.Bands.AutoApprove,
			AutoDecline: in.Bands.AutoDecline,
		},
	}

	var hard []rules.Flag
	for _, f := range in.Flags {
		if f.Severity == rules.FlagHard {
			hard = append(hard, f)
		}
	}

	switch {
	case len(hard) > 0:
		msgs := make([]string, len(hard))
		for i, f := range hard {
			msgs[i] = f.Message
		}
		d.Decision = VerdictDeclined
		d.Action = ActionAutoDecline
		d.Reason = fmt.Sprintf("Non-compliant: %d hard flag(s): %s", len(hard), strings.Join(msgs, "; "))
	case in.Score <= in.Bands.AutoApprove:
		d.Decision = VerdictApproved
		d.Action = ActionAutoApprove
		d.Reason = fmt.Sprintf("Risk score %d at or below %d threshold. Auto-approved based on strong application profile.",
			in.Score, in.Bands.AutoApprove)
	case in.Score >= in.Bands.AutoDecline:
		d.Decision = VerdictDeclined
		d.Action = ActionAutoDecline
		d.Reason = fmt.Sprintf("Risk score %d at or above %d threshold. Auto-declined due to high risk indicators.",
			in.Score, in.Bands.AutoDecline)
	default:
		d.Decision = VerdictPendingReview
		d.Action = ActionEscalate
		d.Reason = fmt.Sprintf("Risk score %d in escalation range (%d-%d). Requires human review.",
			in.Score, in.Bands.AutoApprove+1, in.Bands.AutoDecline-1)
	}
	return d
}
