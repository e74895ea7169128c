// Package intake validates and normalizes raw loan applications before
// they enter scoring. It is the first pipeline stage; a failed intake is
// terminal and never retried.
package intake

import (
	"encoding/json"
	"fmt"

	"github.com/Strob0t/LoanPilot/internal/domain/loan"
)

// requiredFields must be present and non-null in the raw submission.
var requiredFields = []string{
	"applicant_id",
	"full_name",
	"credit_score",
	"annual_income_usd",
	"monthly_debt_payments_usd",
	"loan_amount",
	"property_value",
	"employment_months",
	"derogatory_marks",
	"loan_type",
	"proposed_monthly_payment",
}

// Outcome is the intake result: either the normalized application or the
// complete list of violated-field messages.
type Outcome struct {
	Valid       bool             `json:"valid"`
	ApplicantID string           `json:"applicant_id,omitempty"`
	Application *loan.Normalized `json:"application,omitempty"`
	Errors      []string         `json:"errors,omitempty"`
}

// Validate checks a raw JSON application for required fields and sane
// ranges, and on success returns it merged with the computed monthly
// income, DTI, and LTV. All violations are reported, not just the first.
func Validate(raw []byte) Outcome {
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Outcome{Valid: false, Errors: []string{"Invalid JSON"}}
	}

	var app loan.Application
	if err := json.Unmarshal(raw, &app); err != nil {
		return Outcome{Valid: false, Errors: []string{fmt.Sprintf("Malformed application: %v", err)}}
	}

	errs := checkRequiredFields(fields)
	errs = append(errs, checkValueRanges(app)...)
	if len(errs) > 0 {
		return Outcome{Valid: false, ApplicantID: app.ApplicantID, Errors: errs}
	}

	normalized := loan.Normalize(app)
	return Outcome{Valid: true, Application: &normalized}
}

func checkRequiredFields(fields map[string]any) []string {
	var errs []string
	for _, name := range requiredFields {
		if v, ok := fields[name]; !ok || v == nil {
			errs = append(errs, "Missing required field: "+name)
		}
	}
	return errs
}

func checkValueRanges(app loan.Application) []string {
	var errs []string
	if app.CreditScore < 300 || app.CreditScore > 850 {
		errs = append(errs, fmt.Sprintf("Credit score %d out of range [300, 850]", app.CreditScore))
	}
	if app.AnnualIncomeUSD <= 0 {
		errs = append(errs, "Annual income must be positive")
	}
	if app.LoanAmount <= 0 {
		errs = append(errs, "Loan amount must be positive")
	}
	if app.PropertyValue <= 0 {
		errs = append(errs, "Property value must be positive")
	}
	if !loan.KnownProduct(app.LoanType) {
		errs = append(errs, fmt.Sprintf("Unknown loan type: %s", app.LoanType))
	}
	return errs
}
