package rules

import (
	"fmt"
	"strings"

	"github.com/Strob0t/LoanPilot/internal/domain/loan"
)

// FlagSeverity tags a compliance flag as disqualifying or advisory.
type FlagSeverity string

const (
	FlagHard FlagSeverity = "hard"
	FlagSoft FlagSeverity = "soft"
)

// Flag is one compliance finding.
type Flag struct {
	Rule     string       `json:"rule"`
	Severity FlagSeverity `json:"severity"`
	Message  string       `json:"message"`
}

// ComplianceResult is the outcome of the product-dispatched compliance
// check. An application is compliant iff it has zero hard flags.
type ComplianceResult struct {
	ApplicantID string   `json:"applicant_id"`
	Compliant   bool     `json:"compliant"`
	Flags       []Flag   `json:"flags"`
	Exceptions  []string `json:"exceptions"`
	Conditions  []string `json:"conditions"`
}

// Program fee constants carried into underwriter conditions.
const (
	pmiRequiredAboveLTV   = 0.80
	upfrontMIPPct         = 1.75
	fundingFeeFirstUsePct = 2.15
)

// CheckCompliance runs the per-product regulatory checks and returns
// tagged flags, applicable exceptions, and underwriter conditions.
func CheckCompliance(app loan.Normalized) ComplianceResult {
	var flags []Flag
	var exceptions, conditions []string

	switch app.LoanType {
	case loan.ProductFHA:
		flags, exceptions, conditions = checkFHA(app)
	case loan.ProductVA:
		flags, exceptions, conditions = checkVA(app)
	default:
		flags, exceptions, conditions = checkConventional(app)
	}

	compliant := true
	for _, f := range flags {
		if f.Severity == FlagHard {
			compliant = false
			break
		}
	}
	// Empty lists, not nulls, on the wire.
	if flags == nil {
		flags = []Flag{}
	}
	if exceptions == nil {
		exceptions = []string{}
	}
	if conditions == nil {
		conditions = []string{}
	}
	return ComplianceResult{
		ApplicantID: app.ApplicantID,
		Compliant:   compliant,
		Flags:       flags,
		Exceptions:  exceptions,
		Conditions:  conditions,
	}
}

func checkFHA(app loan.Normalized) ([]Flag, []string, []string) {
	t := ForProduct(loan.ProductFHA)
	var flags []Flag
	var exceptions, conditions []string

	switch {
	case app.CreditScore >= t.MinCreditScore:
		if app.LTVRatio > t.MaxLTV {
			flags = append(flags, Flag{
				Rule:     "fha_ltv_high_cs",
				Severity: FlagHard,
				Message: fmt.Sprintf("LTV %.1f%% exceeds FHA max %.1f%% for credit score >= %d",
					app.LTVRatio*100, t.MaxLTV*100, t.MinCreditScore),
			})
		}
	case app.CreditScore >= t.FloorCreditScore:
		if app.LTVRatio > t.MaxLTVLowBracket {
			flags = append(flags, Flag{
				Rule:     "fha_ltv_low_cs",
				Severity: FlagHard,
				Message: fmt.Sprintf("LTV %.1f%% exceeds FHA max %.1f%% for credit score %d-%d",
					app.LTVRatio*100, t.MaxLTVLowBracket*100, t.FloorCreditScore, t.MinCreditScore-1),
			})
		}
	default:
		flags = append(flags, Flag{
			Rule:     "fha_min_cs",
			Severity: FlagHard,
			Message:  fmt.Sprintf("Credit score %d below FHA floor of %d", app.CreditScore, t.FloorCreditScore),
		})
	}

	maxDTI := t.MaxDTI
	if app.FirstTimeHomebuyer {
		maxDTI += t.DPADTIAllowance
		exceptions = append(exceptions, "First-time homebuyer DPA: +1% DTI allowance")
	}
	if app.DTIRatio > maxDTI {
		flags = append(flags, Flag{
			Rule:     "fha_dti",
			Severity: FlagSoft,
			Message:  fmt.Sprintf("DTI %.1f%% exceeds FHA max %.1f%%", app.DTIRatio*100, maxDTI*100),
		})
	}

	if t.MedicalException && strings.Contains(strings.ToLower(app.DerogatoryMarkNotes), "medical") {
		exceptions = append(exceptions, "FHA medical collection exception applies")
	}

	conditions = append(conditions, fmt.Sprintf("Upfront MIP of %.2f%% required", upfrontMIPPct))
	return flags, exceptions, conditions
}

func checkVA(app loan.Normalized) ([]Flag, []string, []string) {
	t := ForProduct(loan.ProductVA)
	var flags []Flag

	if app.CreditScore < t.MinCreditScore {
		flags = append(flags, Flag{
			Rule:     "va_min_cs",
			Severity: FlagHard,
			Message:  fmt.Sprintf("Credit score %d below VA lender overlay of %d", app.CreditScore, t.MinCreditScore),
		})
	}
	if app.DTIRatio > t.MaxDTI {
		flags = append(flags, Flag{
			Rule:     "va_dti",
			Severity: FlagSoft,
			Message:  fmt.Sprintf("DTI %.1f%% exceeds VA max %.1f%%", app.DTIRatio*100, t.MaxDTI*100),
		})
	}

	exceptions := []string{"VA: No PMI required"}
	conditions := []string{fmt.Sprintf("VA funding fee of %.2f%% applies (first use)", fundingFeeFirstUsePct)}
	return flags, exceptions, conditions
}

func checkConventional(app loan.Normalized) ([]Flag, []string, []string) {
	t := ForProduct(loan.ProductConventional)
	var flags []Flag
	var conditions []string

	if app.CreditScore < t.MinCreditScore {
		flags = append(flags, Flag{
			Rule:     "conv_min_cs",
			Severity: FlagHard,
			Message:  fmt.Sprintf("Credit score %d below conventional min of %d", app.CreditScore, t.MinCreditScore),
		})
	}

	switch {
	case app.LTVRatio > t.MaxLTV:
		flags = append(flags, Flag{
			Rule:     "conv_ltv",
			Severity: FlagHard,
			Message:  fmt.Sprintf("LTV %.1f%% exceeds conventional max of %.1f%%", app.LTVRatio*100, t.MaxLTV*100),
		})
	case app.LTVRatio > pmiRequiredAboveLTV:
		conditions = append(conditions, "PMI required (LTV > 80%)")
	}

	if app.DTIRatio > t.MaxDTI {
		flags = append(flags, Flag{
			Rule:     "conv_dti",
			Severity: FlagSoft,
			Message:  fmt.Sprintf("DTI %.1f%% exceeds conventional max of %.1f%%", app.DTIRatio*100, t.MaxDTI*100),
		})
	}
	if app.DerogatoryMarks > t.MaxDerogatoryMarks {
		flags = append(flags, Flag{
			Rule:     "conv_derogatory",
			Severity: FlagSoft,
			Message:  fmt.Sprintf("%d derogatory marks exceeds conventional guideline of %d", app.DerogatoryMarks, t.MaxDerogatoryMarks),
		})
	}
	return flags, nil, conditions
}
