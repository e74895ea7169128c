package decision

import (
	"strings"
	"testing"
	"time"

	"github.com/Strob0t/LoanPilot/internal/domain/risk"
	"github.com/Strob0t/LoanPilot/internal/domain/rules"
)

var testBands = risk.Bands{AutoApprove: 40, AutoDecline: 80}

func TestDecideBands(t *testing.T) {
	tests := []struct {
		name       string
		score      int
		wantV      Verdict
		wantA      Action
		reasonPart string
	}{
		{"well under approve band", 12, VerdictApproved, ActionAutoApprove, "at or below 40"},
		{"approve boundary", 40, VerdictApproved, ActionAutoApprove, "at or below 40"},
		{"just over approve band", 41, VerdictPendingReview, ActionEscalate, "escalation range (41-79)"},
		{"just under decline band", 79, VerdictPendingReview, ActionEscalate, "Requires human review"},
		{"decline boundary", 80, VerdictDeclined, ActionAutoDecline, "at or above 80"},
		{"well over decline band", 97, VerdictDeclined, ActionAutoDecline, "high risk"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Decide(Input{
				ApplicantID: "APP-T-020",
				Score:       tt.score,
				Compliant:   true,
				Bands:       testBands,
			}, time.Now())

			if d.Decision != tt.wantV || d.Action != tt.wantA {
				t.Fatalf("score %d: got %s/%s, want %s/%s",
					tt.score, d.Decision, d.Action, tt.wantV, tt.wantA)
			}
			if !strings.Contains(d.Reason, tt.reasonPart) {
				t.Errorf("reason %q does not mention %q", d.Reason, tt.reasonPart)
			}
		})
	}
}

func TestHardFlagsOverrideScore(t *testing.T) {
	// A score inside the approve band still declines on a hard flag.
	d := Decide(Input{
		ApplicantID: "APP-T-021",
		Score:       10,
		Compliant:   false,
		Flags: []rules.Flag{
			{Rule: "conv_min_cs", Severity: rules.FlagHard, Message: "Credit score 545 below conventional min of 620"},
			{Rule: "conv_dti", Severity: rules.FlagSoft, Message: "DTI high"},
		},
		Bands: testBands,
	}, time.Now())

	if d.Decision != VerdictDeclined || d.Action != ActionAutoDecline {
		t.Fatalf("got %s/%s, want DECLINED/AUTO_DECLINE", d.Decision, d.Action)
	}
	if !strings.Contains(d.Reason, "1 hard flag") {
		t.Errorf("reason %q should count only hard flags", d.Reason)
	}
	if !strings.Contains(d.Reason, "Credit score 545") {
		t.Errorf("reason %q should carry the flag message", d.Reason)
	}
}

func TestSoftFlagsDoNotDecline(t *testing.T) {
	d := Decide(Input{
		ApplicantID: "APP-T-022",
		Score:       30,
		Compliant:   true,
		Flags: []rules.Flag{
			{Rule: "conv_dti", Severity: rules.FlagSoft, Message: "DTI high"},
		},
		Bands: testBands,
	}, time.Now())

	if d.Decision != VerdictApproved {
		t.Errorf("soft flag blocked approval: %s (%s)", d.Decision, d.Reason)
	}
}

func TestDecideCarriesAuditFields(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.FixedZone("PST", -8*3600))
	d := Decide(Input{
		ApplicantID:         "APP-T-023",
		Score:               55,
		Compliant:           true,
		Reasoning:           "thin file",
		RiskFactors:         []string{"short employment"},
		CompensatingFactors: []string{"low LTV"},
		Bands:               testBands,
	}, now)

	if !d.DecidedAt.Equal(now) || d.DecidedAt.Location() != time.UTC {
		t.Errorf("decided_at = %v, want %v in UTC", d.DecidedAt, now.UTC())
	}
	if d.Thresholds.AutoApprove != 40 || d.Thresholds.AutoDecline != 80 {
		t.Errorf("threshold snapshot = %+v", d.Thresholds)
	}
	if d.Reasoning != "thin file" || len(d.RiskFactors) != 1 || len(d.CompensatingFactors) != 1 {
		t.Errorf("audit fields dropped: %+v", d)
	}
}

func TestCustomBandsShiftRouting(t *testing.T) {
	d := Decide(Input{Score: 45, Compliant: true, Bands: risk.Bands{AutoApprove: 50, AutoDecline: 90}}, time.Now())
	if d.Decision != VerdictApproved {
		t.Errorf("score 45 with approve band 50: got %s", d.Decision)
	}
}
