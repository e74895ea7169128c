// Package loan defines the loan application data model shared by every
// pipeline stage.
package loan

import "math"

// Product identifies the loan program an application targets.
type Product string

const (
	ProductConventional Product = "conventional"
	ProductFHA          Product = "fha"
	ProductVA           Product = "va"
)

// KnownProduct reports whether p is one of the supported loan programs.
func KnownProduct(p Product) bool {
	switch p {
	case ProductConventional, ProductFHA, ProductVA:
		return true
	}
	return false
}

// Application is a structured loan application submitted for pre-screening.
// It is immutable input; derived ratios are computed, never stored as source
// of truth.
type Application struct {
	ApplicantID            string  `json:"applicant_id"`
	FullName               string  `json:"full_name"`
	CreditScore            int     `json:"credit_score"`
	AnnualIncomeUSD        float64 `json:"annual_income_usd"`
	MonthlyDebtPaymentsUSD float64 `json:"monthly_debt_payments_usd"`
	LoanAmount             float64 `json:"loan_amount"`
	PropertyValue          float64 `json:"property_value"`
	EmploymentMonths       int     `json:"employment_months"`
	DerogatoryMarks        int     `json:"derogatory_marks"`
	DerogatoryMarkNotes    string  `json:"derogatory_mark_notes"`
	LoanType               Product `json:"loan_type"`
	FirstTimeHomebuyer     bool    `json:"first_time_homebuyer"`
	HasLetterOfExplanation bool    `json:"has_letter_of_explanation"`
	ProposedMonthlyPayment float64 `json:"proposed_monthly_payment"`
}

// Ratios holds the derived figures computed from an application.
type Ratios struct {
	MonthlyIncome float64 `json:"monthly_income"`
	DTI           float64 `json:"dti_ratio"`
	LTV           float64 `json:"ltv_ratio"`
}

// Derived computes the unrounded monthly income, debt-to-income ratio
// (existing debt plus proposed payment over monthly income), and
// loan-to-value ratio.
func (a Application) Derived() Ratios {
	monthly := a.AnnualIncomeUSD / 12.0
	return Ratios{
		MonthlyIncome: monthly,
		DTI:           (a.MonthlyDebtPaymentsUSD + a.ProposedMonthlyPayment) / monthly,
		LTV:           a.LoanAmount / a.PropertyValue,
	}
}

// Normalized is an application enriched with its rounded derived ratios.
// This is the form every stage after intake operates on.
type Normalized struct {
	Application
	MonthlyIncome float64 `json:"monthly_income"`
	DTIRatio      float64 `json:"dti_ratio"`
	LTVRatio      float64 `json:"ltv_ratio"`
}

// Normalize computes and rounds the derived fields: monthly income to two
// decimals, ratios to four.
func Normalize(a Application) Normalized {
	r := a.Derived()
	return Normalized{
		Application:   a,
		MonthlyIncome: Round2(r.MonthlyIncome),
		DTIRatio:      Round4(r.DTI),
		LTVRatio:      Round4(r.LTV),
	}
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round4 rounds to four decimal places.
func Round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
