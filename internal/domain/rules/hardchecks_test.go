package rules

import (
	"testing"

	"github.com/Strob0t/LoanPilot/internal/domain/loan"
)

func normalized(app loan.Application) loan.Normalized {
	return loan.Normalize(app)
}

func resultByRule(t *testing.T, results []Result, rule string) Result {
	t.Helper()
	for _, r := range results {
		if r.Rule == rule {
			return r
		}
	}
	t.Fatalf("no result for rule %q", rule)
	return Result{}
}

func TestHardChecksCleanConventional(t *testing.T) {
	app := normalized(loan.Application{
		ApplicantID:            "APP-T-001",
		CreditScore:            730,
		AnnualIncomeUSD:        95_000,
		MonthlyDebtPaymentsUSD: 420,
		LoanAmount:             380_000,
		PropertyValue:          475_000,
		EmploymentMonths:       48,
		LoanType:               loan.ProductConventional,
		ProposedMonthlyPayment: 1_800,
	})

	results := HardChecks(app)
	if len(results) != 5 {
		t.Fatalf("results = %d, want 5", len(results))
	}
	for _, r := range results {
		if !r.Passed {
			t.Errorf("rule %s failed: %s", r.Rule, r.Message)
		}
	}
	if len(HardFailures(results)) != 0 {
		t.Error("clean application has hard failures")
	}
}

func TestHardChecksReportAllFailures(t *testing.T) {
	// Credit, DTI, employment, and derogatory all out of bounds.
	app := normalized(loan.Application{
		ApplicantID:            "APP-T-002",
		CreditScore:            545,
		AnnualIncomeUSD:        42_000,
		MonthlyDebtPaymentsUSD: 1_100,
		LoanAmount:             310_000,
		PropertyValue:          340_000,
		EmploymentMonths:       8,
		DerogatoryMarks:        4,
		LoanType:               loan.ProductConventional,
		ProposedMonthlyPayment: 1_700,
	})

	failures := HardFailures(HardChecks(app))
	if len(failures) != 4 {
		t.Fatalf("hard failures = %d, want 4: %+v", len(failures), failures)
	}
	wantRules := map[string]bool{
		"credit_score": true, "dti_ratio": true,
		"employment_history": true, "derogatory_marks": true,
	}
	for _, f := range failures {
		if !wantRules[f.Rule] {
			t.Errorf("unexpected failing rule %q", f.Rule)
		}
	}
}

func TestFHALowBracketCreditPasses(t *testing.T) {
	// 500-579 clears the FHA floor; the stricter LTV bracket applies
	// instead of a credit failure.
	app := normalized(loan.Application{
		ApplicantID:            "APP-T-003",
		CreditScore:            560,
		AnnualIncomeUSD:        62_000,
		MonthlyDebtPaymentsUSD: 350,
		LoanAmount:             222_500,
		PropertyValue:          250_000,
		EmploymentMonths:       36,
		LoanType:               loan.ProductFHA,
		ProposedMonthlyPayment: 1_280,
	})

	results := HardChecks(app)
	if credit := resultByRule(t, results, "credit_score"); !credit.Passed {
		t.Errorf("credit check failed for score 560 on fha: %s", credit.Message)
	}
	// LTV 0.89 is under the 0.90 low-bracket cap.
	if ltv := resultByRule(t, results, "ltv_ratio"); !ltv.Passed {
		t.Errorf("ltv check failed: %s", ltv.Message)
	}
}

func TestFHALowBracketLTVCap(t *testing.T) {
	// Same credit bracket, but LTV 0.95 exceeds the 0.90 cap that a
	// 580+ score would not hit.
	app := normalized(loan.Application{
		CreditScore:      560,
		AnnualIncomeUSD:  62_000,
		LoanAmount:       237_500,
		PropertyValue:    250_000,
		EmploymentMonths: 36,
		LoanType:         loan.ProductFHA,
	})

	ltv := resultByRule(t, HardChecks(app), "ltv_ratio")
	if ltv.Passed {
		t.Fatalf("ltv 0.95 passed under low-bracket cap: %s", ltv.Message)
	}

	app.CreditScore = 580
	ltv = resultByRule(t, HardChecks(normalized(app.Application)), "ltv_ratio")
	if !ltv.Passed {
		t.Errorf("ltv 0.95 failed for score 580: %s", ltv.Message)
	}
}

func TestEmploymentLOEException(t *testing.T) {
	base := loan.Application{
		CreditScore:      640,
		AnnualIncomeUSD:  68_000,
		LoanAmount:       200_000,
		PropertyValue:    250_000,
		EmploymentMonths: 18,
		LoanType:         loan.ProductFHA,
	}

	// Without the letter the check hard-fails.
	emp := resultByRule(t, HardChecks(normalized(base)), "employment_history")
	if emp.Passed {
		t.Fatal("short employment passed without LOE")
	}

	base.HasLetterOfExplanation = true
	emp = resultByRule(t, HardChecks(normalized(base)), "employment_history")
	if !emp.Passed {
		t.Fatalf("LOE exception not applied: %s", emp.Message)
	}
	if emp.Severity != SeverityExceptionApplied {
		t.Errorf("severity = %q, want %q", emp.Severity, SeverityExceptionApplied)
	}

	// Conventional has no LOE exception.
	base.LoanType = loan.ProductConventional
	emp = resultByRule(t, HardChecks(normalized(base)), "employment_history")
	if emp.Passed {
		t.Error("LOE exception applied on conventional loan")
	}
}

func TestEffectiveDerogatoryMarks(t *testing.T) {
	fha := ForProduct(loan.ProductFHA)
	conv := ForProduct(loan.ProductConventional)

	tests := []struct {
		name  string
		t     Thresholds
		marks int
		notes string
		want  int
	}{
		{"resolved medical on fha", fha, 1, "One medical collection, fully resolved 2022.", 0},
		{"medical but unresolved", fha, 1, "Medical collection still in dispute.", 1},
		{"resolved but not medical", fha, 2, "Utility dispute resolved May 2023.", 2},
		{"medical resolved on conventional", conv, 1, "Medical collection resolved.", 1},
		{"zero marks", fha, 0, "medical resolved", 0},
		{"case insensitive", fha, 3, "MEDICAL bill RESOLVED in full", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := loan.Normalized{Application: loan.Application{
				DerogatoryMarks:     tt.marks,
				DerogatoryMarkNotes: tt.notes,
			}}
			if got := EffectiveDerogatoryMarks(app, tt.t); got != tt.want {
				t.Errorf("effective marks = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDPADTIAllowance(t *testing.T) {
	fha := ForProduct(loan.ProductFHA)
	if got := fha.MaxDTIFor(false); got != 0.43 {
		t.Errorf("fha base dti = %v, want 0.43", got)
	}
	if got := fha.MaxDTIFor(true); got != 0.44 {
		t.Errorf("fha dpa dti = %v, want 0.44", got)
	}
	conv := ForProduct(loan.ProductConventional)
	if got := conv.MaxDTIFor(true); got != 0.43 {
		t.Errorf("conventional dti with fthb = %v, want 0.43 (no allowance)", got)
	}
}

func TestForProductUnknownFallsBack(t *testing.T) {
	got := ForProduct("jumbo")
	want := ForProduct(loan.ProductConventional)
	if got != want {
		t.Errorf("unknown product thresholds = %+v, want conventional", got)
	}
}
