package rules

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Strob0t/LoanPilot/internal/domain/loan"
)

// HardChecks evaluates the disqualifying rules for a normalized
// application against its product thresholds. The input must carry its
// computed ratios; malformed input is a programming error, not a
// recoverable condition.
func HardChecks(app loan.Normalized) []Result {
	t := ForProduct(app.LoanType)
	results := make([]Result, 0, 5)
	results = append(results,
		creditScoreCheck(app, t),
		dtiCheck(app, t),
		ltvCheck(app, t),
		employmentCheck(app, t),
		derogatoryCheck(app, t),
	)
	return results
}

func creditScoreCheck(app loan.Normalized, t Thresholds) Result {
	min := t.FloorCreditScore
	passed := app.CreditScore >= min
	msg := fmt.Sprintf("Credit score %d meets minimum %d.", app.CreditScore, min)
	if !passed {
		msg = fmt.Sprintf("Credit score %d is below minimum %d for %s loan.", app.CreditScore, min, app.LoanType)
	}
	return Result{
		Rule:      "credit_score",
		Passed:    passed,
		Severity:  SeverityHardFail,
		Actual:    strconv.Itoa(app.CreditScore),
		Threshold: strconv.Itoa(min),
		Message:   msg,
	}
}

func dtiCheck(app loan.Normalized, t Thresholds) Result {
	max := t.MaxDTIFor(app.FirstTimeHomebuyer)
	passed := app.DTIRatio <= max
	msg := fmt.Sprintf("DTI %.1f%% is within limit %.1f%%.", app.DTIRatio*100, max*100)
	if !passed {
		msg = fmt.Sprintf("DTI %.1f%% exceeds limit %.1f%% for %s loan.", app.DTIRatio*100, max*100, app.LoanType)
	}
	return Result{
		Rule:      "dti_ratio",
		Passed:    passed,
		Severity:  SeverityHardFail,
		Actual:    formatRatio(app.DTIRatio),
		Threshold: formatRatio(max),
		Message:   msg,
	}
}

func ltvCheck(app loan.Normalized, t Thresholds) Result {
	max := t.MaxLTVFor(app.CreditScore)
	passed := app.LTVRatio <= max
	msg := fmt.Sprintf("LTV %.1f%% is within limit %.1f%%.", app.LTVRatio*100, max*100)
	if !passed {
		msg = fmt.Sprintf("LTV %.1f%% exceeds limit %.1f%% for %s (credit score %d).",
			app.LTVRatio*100, max*100, app.LoanType, app.CreditScore)
	}
	return Result{
		Rule:      "ltv_ratio",
		Passed:    passed,
		Severity:  SeverityHardFail,
		Actual:    formatRatio(app.LTVRatio),
		Threshold: formatRatio(max),
		Message:   msg,
	}
}

func employmentCheck(app loan.Normalized, t Thresholds) Result {
	min := t.MinEmploymentMonths
	meets := app.EmploymentMonths >= min
	exception := !meets && t.LOEException && app.HasLetterOfExplanation

	severity := SeverityInfo
	msg := fmt.Sprintf("Employment %dm meets minimum %dm.", app.EmploymentMonths, min)
	switch {
	case exception:
		severity = SeverityExceptionApplied
		msg = fmt.Sprintf("Employment %dm is below %dm, but LOE exception applies for %s.",
			app.EmploymentMonths, min, app.LoanType)
	case !meets:
		severity = SeverityHardFail
		msg = fmt.Sprintf("Employment %dm is below minimum %dm. No LOE exception available.",
			app.EmploymentMonths, min)
	}
	return Result{
		Rule:      "employment_history",
		Passed:    meets || exception,
		Severity:  severity,
		Actual:    strconv.Itoa(app.EmploymentMonths),
		Threshold: strconv.Itoa(min),
		Message:   msg,
	}
}

func derogatoryCheck(app loan.Normalized, t Thresholds) Result {
	effective := EffectiveDerogatoryMarks(app, t)
	passed := effective <= t.MaxDerogatoryMarks

	severity := SeverityInfo
	var msg string
	switch {
	case !passed:
		severity = SeverityHardFail
		msg = fmt.Sprintf("Derogatory marks %d exceeds limit %d.", app.DerogatoryMarks, t.MaxDerogatoryMarks)
	case effective < app.DerogatoryMarks:
		severity = SeverityExceptionApplied
		msg = fmt.Sprintf("Effective derogatory count %d (raw %d, resolved medical collection excluded) is within limit %d.",
			effective, app.DerogatoryMarks, t.MaxDerogatoryMarks)
	default:
		msg = fmt.Sprintf("Derogatory marks %d within limit %d.", app.DerogatoryMarks, t.MaxDerogatoryMarks)
	}
	return Result{
		Rule:      "derogatory_marks",
		Passed:    passed,
		Severity:  severity,
		Actual:    strconv.Itoa(effective),
		Threshold: strconv.Itoa(t.MaxDerogatoryMarks),
		Message:   msg,
	}
}

// EffectiveDerogatoryMarks reduces the raw mark count by one when the
// product recognizes the medical-collection exception and the free-text
// notes mention both "medical" and "resolved".
//
// The substring match is deliberately faithful to the underwriting memo
// it encodes: any note containing both words triggers the exception. A
// structured exception-type field would be the robust replacement.
func EffectiveDerogatoryMarks(app loan.Normalized, t Thresholds) int {
	if !t.MedicalException || app.DerogatoryMarks == 0 {
		return app.DerogatoryMarks
	}
	notes := strings.ToLower(app.DerogatoryMarkNotes)
	if strings.Contains(notes, "medical") && strings.Contains(notes, "resolved") {
		return app.DerogatoryMarks - 1
	}
	return app.DerogatoryMarks
}

func formatRatio(v float64) string {
	return strconv.FormatFloat(loan.Round4(v), 'f', 4, 64)
}
