package loan

// Fixtures returns the eight synthetic applicants used by the batch
// submitter and the scenario tests. They cover the full screening
// spectrum from clean approval to multi-fail decline and the FHA
// bracket edge cases.
func Fixtures() []Application {
	return []Application{
		{
			// Textbook approve: strong credit, modest DTI, 20% down.
			ApplicantID:            "APP-2024-001",
			FullName:               "Alice Chen",
			CreditScore:            730,
			AnnualIncomeUSD:        95_000,
			MonthlyDebtPaymentsUSD: 420,
			LoanAmount:             380_000,
			PropertyValue:          475_000,
			EmploymentMonths:       48,
			LoanType:               ProductConventional,
			ProposedMonthlyPayment: 1_800,
		},
		{
			// Textbook decline: credit below floor, DTI far over limit.
			ApplicantID:            "APP-2024-002",
			FullName:               "Bob Kwan",
			CreditScore:            545,
			AnnualIncomeUSD:        42_000,
			MonthlyDebtPaymentsUSD: 1_100,
			LoanAmount:             310_000,
			PropertyValue:          340_000,
			EmploymentMonths:       8,
			DerogatoryMarks:        4,
			DerogatoryMarkNotes:    "Late payments on two credit cards (2023), one collection (medical, unresolved), one judgement.",
			LoanType:               ProductConventional,
			FirstTimeHomebuyer:     true,
			ProposedMonthlyPayment: 1_700,
		},
		{
			// FHA edge case: passes only via LOE employment exception,
			// resolved medical collection, and the DPA DTI allowance.
			ApplicantID:            "APP-2024-003",
			FullName:               "Carol Martinez",
			CreditScore:            612,
			AnnualIncomeUSD:        68_000,
			MonthlyDebtPaymentsUSD: 520,
			LoanAmount:             255_000,
			PropertyValue:          264_250,
			EmploymentMonths:       18,
			DerogatoryMarks:        1,
			DerogatoryMarkNotes:    "One medical collection ($1,800 dental surgery, Sep 2021) fully paid and resolved Jun 2022. No other derogatory history.",
			LoanType:               ProductFHA,
			FirstTimeHomebuyer:     true,
			HasLetterOfExplanation: true,
			ProposedMonthlyPayment: 1_420,
		},
		{
			// VA zero-down: max LTV 1.00 is within program limits.
			ApplicantID:            "APP-2024-004",
			FullName:               "David Park",
			CreditScore:            780,
			AnnualIncomeUSD:        110_000,
			MonthlyDebtPaymentsUSD: 300,
			LoanAmount:             420_000,
			PropertyValue:          420_000,
			EmploymentMonths:       120,
			LoanType:               ProductVA,
			ProposedMonthlyPayment: 1_700,
		},
		{
			// Stacked hard fails on a conventional loan, no exceptions.
			ApplicantID:            "APP-2024-005",
			FullName:               "Elena Volkov",
			CreditScore:            595,
			AnnualIncomeUSD:        54_000,
			MonthlyDebtPaymentsUSD: 950,
			LoanAmount:             270_000,
			PropertyValue:          300_000,
			EmploymentMonths:       10,
			DerogatoryMarks:        2,
			DerogatoryMarkNotes:    "Two 30-day late payments on student loan (2024-Q1, 2024-Q2).",
			LoanType:               ProductConventional,
			ProposedMonthlyPayment: 1_500,
		},
		{
			// FHA borderline: everything barely passes.
			ApplicantID:            "APP-2024-006",
			FullName:               "Frank Osei",
			CreditScore:            655,
			AnnualIncomeUSD:        72_000,
			MonthlyDebtPaymentsUSD: 600,
			LoanAmount:             290_000,
			PropertyValue:          300_518,
			EmploymentMonths:       24,
			DerogatoryMarks:        1,
			DerogatoryMarkNotes:    "Utility company billing dispute (resolved May 2023). Previously reported as collection, now removed from bureau.",
			LoanType:               ProductFHA,
			FirstTimeHomebuyer:     true,
			HasLetterOfExplanation: true,
			ProposedMonthlyPayment: 1_520,
		},
		{
			// Clean conventional with a 30% down payment.
			ApplicantID:            "APP-2024-007",
			FullName:               "Grace Tanaka",
			CreditScore:            710,
			AnnualIncomeUSD:        145_000,
			MonthlyDebtPaymentsUSD: 800,
			LoanAmount:             490_000,
			PropertyValue:          700_000,
			EmploymentMonths:       60,
			LoanType:               ProductConventional,
			ProposedMonthlyPayment: 2_100,
		},
		{
			// FHA low credit bracket: 500-579 triggers the stricter
			// 90% LTV limit even though the score clears the floor.
			ApplicantID:            "APP-2024-008",
			FullName:               "Hassan Ali",
			CreditScore:            560,
			AnnualIncomeUSD:        62_000,
			MonthlyDebtPaymentsUSD: 350,
			LoanAmount:             222_500,
			PropertyValue:          250_000,
			EmploymentMonths:       36,
			LoanType:               ProductFHA,
			FirstTimeHomebuyer:     true,
			ProposedMonthlyPayment: 1_280,
		},
	}
}
