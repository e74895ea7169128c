package rules

import (
	"fmt"
	"strconv"

	"github.com/Strob0t/LoanPilot/internal/domain/loan"
)

// DPA program eligibility is limited to FHA and conventional loans with
// household income at or below this cap.
const dpaIncomeCap = 120_000.0

// SoftChecks produces the advisory signals for underwriter review. Soft
// results never disqualify an application on their own.
func SoftChecks(app loan.Normalized) []Result {
	results := []Result{
		creditBandCheck(app),
		incomeAdequacyCheck(app),
		employmentStabilityCheck(app),
	}
	if app.FirstTimeHomebuyer {
		results = append(results, dpaEligibilityCheck(app))
	}
	results = append(results, downPaymentCheck(app))
	return results
}

func creditBandCheck(app loan.Normalized) Result {
	var band, note string
	switch {
	case app.CreditScore >= 740:
		band, note = "excellent", "Qualifies for best-tier interest rates."
	case app.CreditScore >= 700:
		band, note = "good", "Qualifies for competitive rates with minimal risk premium."
	case app.CreditScore >= 660:
		band, note = "fair", "Mid-tier rates; compensating factors recommended."
	case app.CreditScore >= 620:
		band, note = "borderline", "Near-minimum for conventional; compensating factors required."
	default:
		band, note = "subprime", "Below conventional floor; restrict to FHA/VA evaluation."
	}
	return Result{
		Rule:      "credit_score_band",
		Passed:    true,
		Severity:  SeverityInfo,
		Actual:    fmt.Sprintf("%d (%s)", app.CreditScore, band),
		Threshold: "credit band classification",
		Message:   note,
	}
}

func incomeAdequacyCheck(app loan.Normalized) Result {
	const advisoryLimit = 4.5
	ratio := app.LoanAmount / app.AnnualIncomeUSD
	passed := ratio <= advisoryLimit

	severity := SeverityInfo
	msg := fmt.Sprintf("Loan-to-income ratio %.2fx is within advisory limit %.1fx.", ratio, advisoryLimit)
	if !passed {
		severity = SeveritySoftFail
		msg = fmt.Sprintf("Loan-to-income ratio %.2fx is above advisory limit %.1fx; flag for review.", ratio, advisoryLimit)
	}
	return Result{
		Rule:      "income_adequacy",
		Passed:    passed,
		Severity:  severity,
		Actual:    strconv.FormatFloat(loan.Round2(ratio), 'f', 2, 64),
		Threshold: strconv.FormatFloat(advisoryLimit, 'f', 1, 64),
		Message:   msg,
	}
}

func employmentStabilityCheck(app loan.Normalized) Result {
	const longTenure = 36
	msg := fmt.Sprintf("Employment history %dm is adequate but not long (under %dm).", app.EmploymentMonths, longTenure)
	if app.EmploymentMonths >= longTenure {
		msg = fmt.Sprintf("Long employment history (%dm) is a positive compensating factor.", app.EmploymentMonths)
	}
	return Result{
		Rule:      "employment_stability",
		Passed:    app.EmploymentMonths >= longTenure,
		Severity:  SeverityInfo,
		Actual:    strconv.Itoa(app.EmploymentMonths),
		Threshold: strconv.Itoa(longTenure),
		Message:   msg,
	}
}

func dpaEligibilityCheck(app loan.Normalized) Result {
	eligible := (app.LoanType == loan.ProductFHA || app.LoanType == loan.ProductConventional) &&
		app.AnnualIncomeUSD <= dpaIncomeCap

	msg := "FTHB flag set but income or loan type may not qualify for the DPA program; verify."
	if eligible {
		msg = "Eligible for Down Payment Assistance program: DTI limit +1% and grant available."
	}
	return Result{
		Rule:      "dpa_program_eligibility",
		Passed:    eligible,
		Severity:  SeverityInfo,
		Actual:    fmt.Sprintf("first_time_homebuyer=true, income=$%.0f", app.AnnualIncomeUSD),
		Threshold: "FHA/conventional + income <= $120k",
		Message:   msg,
	}
}

func downPaymentCheck(app loan.Normalized) Result {
	pct := 1.0 - app.LTVRatio

	severity := SeverityInfo
	if pct < 0.10 {
		severity = SeveritySoftFail
	}
	var note string
	switch {
	case pct >= 0.20:
		note = "strong equity position."
	case pct >= 0.10:
		note = "adequate equity."
	default:
		note = "minimal equity; PMI will be required."
	}
	return Result{
		Rule:      "down_payment_adequacy",
		Passed:    pct >= 0.05,
		Severity:  severity,
		Actual:    fmt.Sprintf("%.1f%%", pct*100),
		Threshold: ">=10% preferred",
		Message:   fmt.Sprintf("Down payment %.1f%% indicates %s", pct*100, note),
	}
}
