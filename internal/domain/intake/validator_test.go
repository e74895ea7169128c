package intake

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/Strob0t/LoanPilot/internal/domain/loan"
)

func validPayload(t *testing.T, mutate func(map[string]any)) []byte {
	t.Helper()
	m := map[string]any{
		"applicant_id":              "APP-2024-001",
		"full_name":                 "Alice Chen",
		"credit_score":              730,
		"annual_income_usd":         95000,
		"monthly_debt_payments_usd": 420,
		"loan_amount":               380000,
		"property_value":            475000,
		"employment_months":         48,
		"derogatory_marks":          0,
		"loan_type":                 "conventional",
		"proposed_monthly_payment":  1800,
	}
	if mutate != nil {
		mutate(m)
	}
	data, err := json.Marshal(m)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestValidateAcceptsCompleteApplication(t *testing.T) {
	out := Validate(validPayload(t, nil))
	if !out.Valid {
		t.Fatalf("valid application rejected: %v", out.Errors)
	}
	if out.Application == nil {
		t.Fatal("no normalized application returned")
	}
	if out.Application.DTIRatio != 0.2804 {
		t.Errorf("dti = %v, want 0.2804", out.Application.DTIRatio)
	}
	if out.Application.LTVRatio != 0.8 {
		t.Errorf("ltv = %v, want 0.8", out.Application.LTVRatio)
	}
}

func TestValidateReportsAllMissingFields(t *testing.T) {
	out := Validate(validPayload(t, func(m map[string]any) {
		delete(m, "full_name")
		delete(m, "loan_amount")
		m["credit_score"] = nil
	}))

	if out.Valid {
		t.Fatal("incomplete application accepted")
	}
	if len(out.Errors) < 3 {
		t.Fatalf("errors = %v, want all three violations reported", out.Errors)
	}
	joined := strings.Join(out.Errors, "\n")
	for _, field := range []string{"full_name", "loan_amount", "credit_score"} {
		if !strings.Contains(joined, field) {
			t.Errorf("errors missing field %q: %v", field, out.Errors)
		}
	}
}

func TestValidateValueRanges(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[string]any)
		errSub string
	}{
		{"credit score too low", func(m map[string]any) { m["credit_score"] = 250 }, "out of range"},
		{"credit score too high", func(m map[string]any) { m["credit_score"] = 900 }, "out of range"},
		{"zero income", func(m map[string]any) { m["annual_income_usd"] = 0 }, "income"},
		{"negative loan", func(m map[string]any) { m["loan_amount"] = -5 }, "Loan amount"},
		{"zero property value", func(m map[string]any) { m["property_value"] = 0 }, "Property value"},
		{"unknown loan type", func(m map[string]any) { m["loan_type"] = "jumbo" }, "Unknown loan type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Validate(validPayload(t, tt.mutate))
			if out.Valid {
				t.Fatal("invalid application accepted")
			}
			joined := strings.Join(out.Errors, "\n")
			if !strings.Contains(joined, tt.errSub) {
				t.Errorf("errors %v missing %q", out.Errors, tt.errSub)
			}
		})
	}
}

func TestValidateBoundaryCreditScores(t *testing.T) {
	for _, score := range []int{300, 850} {
		out := Validate(validPayload(t, func(m map[string]any) { m["credit_score"] = score }))
		if !out.Valid {
			t.Errorf("boundary credit score %d rejected: %v", score, out.Errors)
		}
	}
}

func TestValidateMalformedJSON(t *testing.T) {
	out := Validate([]byte(`{"applicant_id": `))
	if out.Valid {
		t.Fatal("malformed JSON accepted")
	}
	if len(out.Errors) == 0 {
		t.Fatal("no errors for malformed JSON")
	}
}

func TestValidateKeepsApplicantIDOnFailure(t *testing.T) {
	out := Validate(validPayload(t, func(m map[string]any) { m["credit_score"] = 100 }))
	if out.ApplicantID != "APP-2024-001" {
		t.Errorf("applicant id = %q, want carried through for the audit trail", out.ApplicantID)
	}
}

func TestValidateAllFixtures(t *testing.T) {
	for _, app := range loan.Fixtures() {
		raw, err := json.Marshal(app)
		if err != nil {
			t.Fatal(err)
		}
		out := Validate(raw)
		if !out.Valid {
			t.Errorf("%s: fixture rejected: %v", app.ApplicantID, out.Errors)
		}
	}
}
