package otel

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "loanpilot"

// Metrics holds the pipeline metric instruments.
type Metrics struct {
	ApplicationsProcessed metric.Int64Counter
	Approved              metric.Int64Counter
	Declined              metric.Int64Counter
	Escalated             metric.Int64Counter
	IntakeRejected        metric.Int64Counter
	OracleFallbacks       metric.Int64Counter
	StageDuration         metric.Float64Histogram
}

// NewMetrics creates all pipeline instruments.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.ApplicationsProcessed, err = meter.Int64Counter("loanpilot.applications.processed",
		metric.WithDescription("Applications that completed the pipeline"))
	if err != nil {
		return nil, err
	}

	m.Approved, err = meter.Int64Counter("loanpilot.applications.approved",
		metric.WithDescription("Applications auto-approved"))
	if err != nil {
		return nil, err
	}

	m.Declined, err = meter.Int64Counter("loanpilot.applications.declined",
		metric.WithDescription("Applications auto-declined"))
	if err != nil {
		return nil, err
	}

	m.Escalated, err = meter.Int64Counter("loanpilot.applications.escalated",
		metric.WithDescription("Applications escalated to human review"))
	if err != nil {
		return nil, err
	}

	m.IntakeRejected, err = meter.Int64Counter("loanpilot.applications.intake_rejected",
		metric.WithDescription("Applications rejected at intake"))
	if err != nil {
		return nil, err
	}

	m.OracleFallbacks, err = meter.Int64Counter("loanpilot.oracle.fallbacks",
		metric.WithDescription("Risk assessments that fell back to the neutral score"))
	if err != nil {
		return nil, err
	}

	m.StageDuration, err = meter.Float64Histogram("loanpilot.stage.duration_seconds",
		metric.WithDescription("Per-stage dispatch duration in seconds"))
	if err != nil {
		return nil, err
	}

	return m, nil
}
