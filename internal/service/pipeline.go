package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	lpotel "github.com/Strob0t/LoanPilot/internal/adapter/otel"
	"github.com/Strob0t/LoanPilot/internal/domain/decision"
	"github.com/Strob0t/LoanPilot/internal/domain/intake"
	"github.com/Strob0t/LoanPilot/internal/domain/loan"
	"github.com/Strob0t/LoanPilot/internal/domain/review"
	"github.com/Strob0t/LoanPilot/internal/domain/risk"
	"github.com/Strob0t/LoanPilot/internal/domain/rules"
	"github.com/Strob0t/LoanPilot/internal/port/a2a"
)

// Stage names used in errors, spans, and logs.
const (
	StageIntake     = "intake"
	StageRisk       = "risk"
	StageCompliance = "compliance"
	StageDecision   = "decision"
	StageEscalation = "escalation"
)

// StageClients holds one A2A client per pipeline stage.
type StageClients struct {
	Intake     *a2a.Client
	Risk       *a2a.Client
	Compliance *a2a.Client
	Decision   *a2a.Client
	Escalation *a2a.Client
}

// PipelineService is the orchestrator: it drives one application through
// the five stages and publishes the completed record to the review API.
type PipelineService struct {
	stages    StageClients
	reviewURL string
	publisher *http.Client
	metrics   *lpotel.Metrics
	log       *slog.Logger
	now       func() time.Time
}

// NewPipelineService creates the orchestrator. reviewURL is the base URL
// of the review API; empty disables history publishing. metrics may be
// nil.
func NewPipelineService(stages StageClients, reviewURL string, metrics *lpotel.Metrics, log *slog.Logger) *PipelineService {
	return &PipelineService{
		stages:    stages,
		reviewURL: strings.TrimRight(reviewURL, "/"),
		publisher: &http.Client{
			Timeout:   10 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		metrics: metrics,
		log:     log,
		now:     time.Now,
	}
}

// Discover fetches every stage's agent card and logs what answered.
// Failures are logged and tolerated: stages may come up after the
// orchestrator, and dispatch is attempted regardless.
func (s *PipelineService) Discover(ctx context.Context) {
	for _, st := range []struct {
		name   string
		client *a2a.Client
	}{
		{StageIntake, s.stages.Intake},
		{StageRisk, s.stages.Risk},
		{StageCompliance, s.stages.Compliance},
		{StageDecision, s.stages.Decision},
		{StageEscalation, s.stages.Escalation},
	} {
		card, err := st.client.FetchCard(ctx)
		if err != nil {
			s.log.Warn("stage discovery failed", "stage", st.name, "url", st.client.BaseURL(), "error", err)
			continue
		}
		s.log.Info("stage discovered", "stage", st.name, "agent", card.Name, "version", card.Version)
	}
}

// Process runs one raw application through the full pipeline and returns
// the completed record. A failed intake yields a terminal REJECTED
// record, not an error; stage transport failures abort the run with a
// StageError naming the stage.
func (s *PipelineService) Process(ctx context.Context, raw []byte) (review.ProcessedLoanRecord, error) {
	var probe struct {
		ApplicantID string `json:"applicant_id"`
	}
	_ = json.Unmarshal(raw, &probe)

	ctx, span := lpotel.StartPipelineSpan(ctx, probe.ApplicantID)
	defer span.End()

	s.log.Info("pipeline started", "applicant_id", probe.ApplicantID)

	// Stage 1: intake.
	intakeOut, err := s.callStage(ctx, StageIntake, s.stages.Intake, string(raw), probe.ApplicantID)
	if err != nil {
		return review.ProcessedLoanRecord{}, err
	}
	var outcome intake.Outcome
	if err := json.Unmarshal([]byte(intakeOut), &outcome); err != nil {
		return review.ProcessedLoanRecord{}, &a2a.StageError{Agent: StageIntake, Err: fmt.Errorf("unmarshal outcome: %w", err)}
	}
	if !outcome.Valid {
		rec := s.rejectedRecord(raw, outcome)
		s.count(ctx, rec)
		s.publish(ctx, rec)
		s.log.Info("pipeline finished",
			"applicant_id", rec.ApplicantID, "decision", string(rec.Decision), "action", string(rec.Action))
		return rec, nil
	}

	app := *outcome.Application
	appJSON, err := json.Marshal(app)
	if err != nil {
		return review.ProcessedLoanRecord{}, fmt.Errorf("marshal application: %w", err)
	}

	// Stage 2: risk scoring.
	riskOut, err := s.callStage(ctx, StageRisk, s.stages.Risk, string(appJSON), app.ApplicantID)
	if err != nil {
		return review.ProcessedLoanRecord{}, err
	}
	var assessment risk.Assessment
	if err := json.Unmarshal([]byte(riskOut), &assessment); err != nil {
		return review.ProcessedLoanRecord{}, &a2a.StageError{Agent: StageRisk, Err: fmt.Errorf("unmarshal assessment: %w", err)}
	}

	// Stage 3: compliance.
	compOut, err := s.callStage(ctx, StageCompliance, s.stages.Compliance, string(appJSON), app.ApplicantID)
	if err != nil {
		return review.ProcessedLoanRecord{}, err
	}
	var compliance rules.ComplianceResult
	if err := json.Unmarshal([]byte(compOut), &compliance); err != nil {
		return review.ProcessedLoanRecord{}, &a2a.StageError{Agent: StageCompliance, Err: fmt.Errorf("unmarshal compliance result: %w", err)}
	}

	// Stage 4: decision.
	decPayload, err := json.Marshal(decisionRequest{Risk: assessment, Compliance: compliance})
	if err != nil {
		return review.ProcessedLoanRecord{}, fmt.Errorf("marshal decision request: %w", err)
	}
	decOut, err := s.callStage(ctx, StageDecision, s.stages.Decision, string(decPayload), app.ApplicantID)
	if err != nil {
		return review.ProcessedLoanRecord{}, err
	}
	var d decision.Decision
	if err := json.Unmarshal([]byte(decOut), &d); err != nil {
		return review.ProcessedLoanRecord{}, &a2a.StageError{Agent: StageDecision, Err: fmt.Errorf("unmarshal decision: %w", err)}
	}

	rec := review.ProcessedLoanRecord{
		ID:                  uuid.NewString(),
		ApplicantID:         d.ApplicantID,
		FullName:            app.FullName,
		Decision:            d.Decision,
		Action:              d.Action,
		Reason:              d.Reason,
		Score:               d.Score,
		Compliant:           d.Compliant,
		RiskFactors:         d.RiskFactors,
		CompensatingFactors: d.CompensatingFactors,
		Flags:               d.Flags,
		Conditions:          compliance.Conditions,
		Reasoning:           d.Reasoning,
		Application:         app.Application,
		ProcessedAt:         s.now().UTC(),
		Thresholds:          d.Thresholds,
	}

	// Stage 5: escalation, only for borderline decisions.
	if d.Action == decision.ActionEscalate {
		escPayload, err := json.Marshal(escalationRequest{
			Application:          app,
			RiskScore:            d.Score,
			Reasoning:            d.Reasoning,
			RiskFactors:          d.RiskFactors,
			CompensatingFactors:  d.CompensatingFactors,
			ComplianceFlags:      compliance.Flags,
			ComplianceConditions: compliance.Conditions,
		})
		if err != nil {
			return review.ProcessedLoanRecord{}, fmt.Errorf("marshal escalation request: %w", err)
		}
		escOut, err := s.callStage(ctx, StageEscalation, s.stages.Escalation, string(escPayload), app.ApplicantID)
		if err != nil {
			return review.ProcessedLoanRecord{}, err
		}
		var esc escalationResponse
		if err := json.Unmarshal([]byte(escOut), &esc); err != nil {
			return review.ProcessedLoanRecord{}, &a2a.StageError{Agent: StageEscalation, Err: fmt.Errorf("unmarshal escalation response: %w", err)}
		}
		rec.EscalationID = esc.EscalationID
	}

	s.count(ctx, rec)
	s.publish(ctx, rec)

	s.log.Info("pipeline finished",
		"applicant_id", rec.ApplicantID,
		"decision", string(rec.Decision), "action", string(rec.Action),
		"score", rec.Score, "escalation_id", rec.EscalationID)
	return rec, nil
}

// callStage dispatches one payload and records the stage's wall-clock
// duration on the pipeline trace.
func (s *PipelineService) callStage(ctx context.Context, name string, client *a2a.Client, payload, applicantID string) (string, error) {
	ctx, span := lpotel.StartStageSpan(ctx, name, applicantID)
	defer span.End()

	start := s.now()
	out, err := client.SendText(ctx, payload)
	elapsed := s.now().Sub(start)

	lpotel.RecordStageDuration(span, elapsed.Seconds())
	if s.metrics != nil {
		s.metrics.StageDuration.Record(ctx, elapsed.Seconds(),
			metric.WithAttributes(attribute.String("stage", name)))
	}

	if err != nil {
		span.RecordError(err)
		s.log.Error("stage failed",
			"stage", name, "applicant_id", applicantID, "duration", elapsed, "error", err)
		return "", &a2a.StageError{Agent: name, Err: err}
	}

	s.log.Info("stage completed", "stage", name, "applicant_id", applicantID, "duration", elapsed)
	return out, nil
}

// rejectedRecord builds the terminal record for an application that
// failed intake. The raw submission is kept for the audit trail even
// though it never normalized.
func (s *PipelineService) rejectedRecord(raw []byte, outcome intake.Outcome) review.ProcessedLoanRecord {
	var app loan.Application
	_ = json.Unmarshal(raw, &app)

	return review.ProcessedLoanRecord{
		ID:          uuid.NewString(),
		ApplicantID: app.ApplicantID,
		FullName:    app.FullName,
		Decision:    decision.VerdictRejected,
		Action:      decision.ActionIntakeRejected,
		Reason:      "Intake validation failed: " + strings.Join(outcome.Errors, "; "),
		Application: app,
		ProcessedAt: s.now().UTC(),
	}
}

func (s *PipelineService) count(ctx context.Context, rec review.ProcessedLoanRecord) {
	if s.metrics == nil {
		return
	}
	s.metrics.ApplicationsProcessed.Add(ctx, 1)
	switch rec.Action {
	case decision.ActionAutoApprove:
		s.metrics.Approved.Add(ctx, 1)
	case decision.ActionAutoDecline:
		s.metrics.Declined.Add(ctx, 1)
	case decision.ActionEscalate:
		s.metrics.Escalated.Add(ctx, 1)
	case decision.ActionIntakeRejected:
		s.metrics.IntakeRejected.Add(ctx, 1)
	}
}

// publish posts the completed record to the review API. Best effort: a
// failure is logged and never retried, and never affects the pipeline
// result.
func (s *PipelineService) publish(ctx context.Context, rec review.ProcessedLoanRecord) {
	if s.reviewURL == "" {
		return
	}

	body, err := json.Marshal(rec)
	if err != nil {
		s.log.Warn("history publish skipped", "applicant_id", rec.ApplicantID, "error", err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.reviewURL+"/api/loans", bytes.NewReader(body))
	if err != nil {
		s.log.Warn("history publish skipped", "applicant_id", rec.ApplicantID, "error", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.publisher.Do(req)
	if err != nil {
		s.log.Warn("history publish failed", "applicant_id", rec.ApplicantID, "error", err)
		return
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode >= 300 {
		s.log.Warn("history publish rejected", "applicant_id", rec.ApplicantID, "status", resp.StatusCode)
	}
}
