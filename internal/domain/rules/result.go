package rules

// Severity classifies a single rule outcome.
type Severity string

const (
	SeverityHardFail         Severity = "hard_fail"
	SeveritySoftFail         Severity = "soft_fail"
	SeverityInfo             Severity = "info"
	SeverityExceptionApplied Severity = "exception_applied"
)

// Result is the outcome of one rule evaluation. A hard-fail result is
// disqualifying unless an exception_applied result supersedes it for the
// same rule.
type Result struct {
	Rule      string   `json:"rule"`
	Passed    bool     `json:"passed"`
	Severity  Severity `json:"severity"`
	Actual    string   `json:"actual"`
	Threshold string   `json:"threshold"`
	Message   string   `json:"message"`
}

// HardFailures returns the results that disqualify the application.
func HardFailures(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Passed && r.Severity == SeverityHardFail {
			out = append(out, r)
		}
	}
	return out
}
