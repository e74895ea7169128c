package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "loanpilot"

// StartPipelineSpan starts the root span for one application's pass
// through the screening pipeline.
func StartPipelineSpan(ctx context.Context, applicantID string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "pipeline",
		trace.WithAttributes(
			attribute.String("loan.applicant_id", applicantID),
		),
	)
}

// StartStageSpan starts a span for one stage dispatch within a pipeline
// run.
func StartStageSpan(ctx context.Context, stage, applicantID string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "stage."+stage,
		trace.WithAttributes(
			attribute.String("stage.name", stage),
			attribute.String("loan.applicant_id", applicantID),
		),
	)
}

// RecordStageDuration attaches the stage wall-clock time to the span.
func RecordStageDuration(span trace.Span, seconds float64) {
	span.SetAttributes(attribute.Float64("stage.duration_seconds", seconds))
}
