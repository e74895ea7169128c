// Package rules implements the deterministic regulatory rule engine:
// hard disqualifiers, soft advisories, and the per-product compliance
// checks used by the dedicated compliance stage.
//
// Rule sets
// ---------
// Conventional: min credit 620, max DTI 0.43, max LTV 0.95, 24 months
// employment, at most 2 derogatory marks.
//
// FHA: credit floor 500; scores of 580 and up qualify for LTV up to
// 0.965, scores 500-579 are capped at 0.90. Max DTI 0.43 (+0.01 for
// first-time buyers in a DPA program), 24 months employment with an LOE
// exception available, at most 3 derogatory marks with resolved medical
// collections excluded.
//
// VA: min credit 580 (lender overlay), max DTI 0.41, max LTV 1.00
// (no down payment required), 24 months employment, at most 2 marks.
package rules

import "github.com/Strob0t/LoanPilot/internal/domain/loan"

// Thresholds holds the rule limits for one loan product.
type Thresholds struct {
	MinCreditScore   int     // bracket boundary for products with two LTV brackets
	FloorCreditScore int     // hard-fail floor; equals MinCreditScore for single-bracket products
	MaxDTI           float64
	MaxLTV           float64
	MaxLTVLowBracket float64 // 0 when the product has a single bracket
	MinEmploymentMonths int
	MaxDerogatoryMarks  int

	MedicalException bool    // resolved medical collections reduce the effective mark count
	DPADTIAllowance  float64 // added to MaxDTI for qualifying first-time buyers
	LOEException     bool    // letter of explanation can cover short employment history
}

var productThresholds = map[loan.Product]Thresholds{
	loan.ProductConventional: {
		MinCreditScore:      620,
		FloorCreditScore:    620,
		MaxDTI:              0.43,
		MaxLTV:              0.95,
		MinEmploymentMonths: 24,
		MaxDerogatoryMarks:  2,
	},
	loan.ProductFHA: {
		MinCreditScore:      580,
		FloorCreditScore:    500,
		MaxDTI:              0.43,
		MaxLTV:              0.965,
		MaxLTVLowBracket:    0.90,
		MinEmploymentMonths: 24,
		MaxDerogatoryMarks:  3,
		MedicalException:    true,
		DPADTIAllowance:     0.01,
		LOEException:        true,
	},
	loan.ProductVA: {
		MinCreditScore:      580,
		FloorCreditScore:    580,
		MaxDTI:              0.41,
		MaxLTV:              1.00,
		MinEmploymentMonths: 24,
		MaxDerogatoryMarks:  2,
	},
}

// ForProduct returns the thresholds for the given loan product.
// Unknown products fall back to the conventional rule set.
func ForProduct(p loan.Product) Thresholds {
	if t, ok := productThresholds[p]; ok {
		return t
	}
	return productThresholds[loan.ProductConventional]
}

// MaxLTVFor resolves the applicable LTV limit for the given credit score.
// Only FHA has a second bracket; other products ignore the score.
func (t Thresholds) MaxLTVFor(creditScore int) float64 {
	if t.MaxLTVLowBracket > 0 && creditScore < t.MinCreditScore {
		return t.MaxLTVLowBracket
	}
	return t.MaxLTV
}

// MaxDTIFor resolves the applicable DTI limit, applying the DPA allowance
// for qualifying first-time buyers.
func (t Thresholds) MaxDTIFor(firstTimeBuyer bool) float64 {
	if firstTimeBuyer && t.DPADTIAllowance > 0 {
		return t.MaxDTI + t.DPADTIAllowance
	}
	return t.MaxDTI
}
