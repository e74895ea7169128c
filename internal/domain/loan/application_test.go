package loan

import (
	"math"
	"testing"
)

func TestNormalizeComputesRoundedRatios(t *testing.T) {
	app := Application{
		ApplicantID:            "APP-2024-001",
		AnnualIncomeUSD:        95_000,
		MonthlyDebtPaymentsUSD: 420,
		LoanAmount:             380_000,
		PropertyValue:          475_000,
		ProposedMonthlyPayment: 1_800,
	}

	n := Normalize(app)

	if got, want := n.MonthlyIncome, 7916.67; got != want {
		t.Errorf("monthly income = %v, want %v", got, want)
	}
	if got, want := n.DTIRatio, 0.2804; got != want {
		t.Errorf("dti = %v, want %v", got, want)
	}
	if got, want := n.LTVRatio, 0.8; got != want {
		t.Errorf("ltv = %v, want %v", got, want)
	}
	if n.ApplicantID != "APP-2024-001" {
		t.Errorf("embedded application lost: %q", n.ApplicantID)
	}
}

func TestDerivedUsesProposedPayment(t *testing.T) {
	app := Application{
		AnnualIncomeUSD:        60_000,
		MonthlyDebtPaymentsUSD: 500,
		ProposedMonthlyPayment: 1_500,
		LoanAmount:             200_000,
		PropertyValue:          250_000,
	}
	r := app.Derived()

	if got, want := r.MonthlyIncome, 5000.0; got != want {
		t.Errorf("monthly income = %v, want %v", got, want)
	}
	// (500 + 1500) / 5000
	if got, want := r.DTI, 0.4; math.Abs(got-want) > 1e-12 {
		t.Errorf("dti = %v, want %v", got, want)
	}
	if got, want := r.LTV, 0.8; math.Abs(got-want) > 1e-12 {
		t.Errorf("ltv = %v, want %v", got, want)
	}
}

func TestKnownProduct(t *testing.T) {
	for _, p := range []Product{ProductConventional, ProductFHA, ProductVA} {
		if !KnownProduct(p) {
			t.Errorf("KnownProduct(%q) = false", p)
		}
	}
	if KnownProduct("jumbo") {
		t.Error(`KnownProduct("jumbo") = true`)
	}
	if KnownProduct("") {
		t.Error(`KnownProduct("") = true`)
	}
}

func TestFixturesCoverAllProducts(t *testing.T) {
	apps := Fixtures()
	if len(apps) != 8 {
		t.Fatalf("fixtures = %d, want 8", len(apps))
	}

	seen := map[string]bool{}
	products := map[Product]int{}
	for _, app := range apps {
		if seen[app.ApplicantID] {
			t.Errorf("duplicate applicant id %s", app.ApplicantID)
		}
		seen[app.ApplicantID] = true
		products[app.LoanType]++

		if !KnownProduct(app.LoanType) {
			t.Errorf("%s: unknown product %q", app.ApplicantID, app.LoanType)
		}
		if app.AnnualIncomeUSD <= 0 || app.LoanAmount <= 0 || app.PropertyValue <= 0 {
			t.Errorf("%s: non-positive amounts", app.ApplicantID)
		}
	}
	for _, p := range []Product{ProductConventional, ProductFHA, ProductVA} {
		if products[p] == 0 {
			t.Errorf("no fixture for product %q", p)
		}
	}
}
