package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Strob0t/LoanPilot/internal/domain"
	"github.com/Strob0t/LoanPilot/internal/domain/decision"
	"github.com/Strob0t/LoanPilot/internal/domain/review"
	"github.com/Strob0t/LoanPilot/internal/store"
)

// ReviewService backs the human-review REST surface: escalation
// decisions, the processed-loan history, and aggregate stats.
type ReviewService struct {
	escalations *store.EscalationStore
	history     *store.HistoryStore
	log         *slog.Logger
}

// NewReviewService creates the review service over the two stores.
func NewReviewService(esc *store.EscalationStore, hist *store.HistoryStore, log *slog.Logger) *ReviewService {
	return &ReviewService{escalations: esc, history: hist, log: log}
}

// PendingEscalations lists escalations still awaiting a verdict, oldest
// first.
func (s *ReviewService) PendingEscalations(context.Context) []review.EscalationRecord {
	return s.escalations.Pending()
}

// AllEscalations lists every escalation, oldest first.
func (s *ReviewService) AllEscalations(context.Context) []review.EscalationRecord {
	return s.escalations.All()
}

// GetEscalation returns one escalation by id.
func (s *ReviewService) GetEscalation(_ context.Context, id string) (review.EscalationRecord, error) {
	return s.escalations.Get(id)
}

// Decide applies a reviewer's verdict to an escalation and folds it back
// into the linked history record, if one exists. Unknown ids fail with
// ErrNotFound and change nothing; invalid verdicts fail with
// ErrValidation.
func (s *ReviewService) Decide(_ context.Context, id string, verdict review.EscalationStatus, reviewer, notes string) (review.EscalationRecord, error) {
	if !review.ValidEscalationStatus(verdict) {
		return review.EscalationRecord{}, fmt.Errorf("%w: invalid decision %q", domain.ErrValidation, verdict)
	}

	rec, err := s.escalations.Decide(id, verdict, reviewer, notes)
	if err != nil {
		return review.EscalationRecord{}, err
	}

	s.log.Info("escalation decided",
		"escalation_id", id, "applicant_id", rec.ApplicantID,
		"decision", string(verdict), "reviewer", reviewer)

	if hist, ok := s.history.FindByEscalationID(id); ok {
		if _, err := s.history.UpdateHumanDecision(hist.ID, verdict, reviewer, notes); err != nil {
			s.log.Warn("history fold-back failed", "escalation_id", id, "error", err)
		}
	}
	return rec, nil
}

// IngestLoan records a completed pipeline run. Records arriving without
// an id (foreign producers) get one assigned.
func (s *ReviewService) IngestLoan(_ context.Context, rec review.ProcessedLoanRecord) review.ProcessedLoanRecord {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	s.history.Add(rec)
	s.log.Info("loan record ingested",
		"record_id", rec.ID, "applicant_id", rec.ApplicantID, "decision", string(rec.Decision))
	return rec
}

// Loans lists the processed-loan history, newest first.
func (s *ReviewService) Loans(context.Context) []review.ProcessedLoanRecord {
	return s.history.All()
}

// GetLoan returns one history record by id.
func (s *ReviewService) GetLoan(_ context.Context, id string) (review.ProcessedLoanRecord, error) {
	return s.history.Get(id)
}

// Stats summarizes processing outcomes across both stores.
type Stats struct {
	TotalProcessed     int `json:"total_processed"`
	Approved           int `json:"approved"`
	Declined           int `json:"declined"`
	Rejected           int `json:"rejected"`
	Escalated          int `json:"escalated"`
	PendingReview      int `json:"pending_review"`
	HumanApproved      int `json:"human_approved"`
	HumanDeclined      int `json:"human_declined"`
	InfoRequested      int `json:"info_requested"`
	PendingEscalations int `json:"pending_escalations"`
}

// Stats computes the aggregate counters over the current store contents.
func (s *ReviewService) Stats(context.Context) Stats {
	var st Stats
	for _, rec := range s.history.All() {
		st.TotalProcessed++
		switch rec.Decision {
		case decision.VerdictApproved:
			st.Approved++
		case decision.VerdictDeclined:
			st.Declined++
		case decision.VerdictRejected:
			st.Rejected++
		case decision.VerdictPendingReview:
			st.PendingReview++
		}
		if rec.EscalationID != "" {
			st.Escalated++
		}
		switch rec.HumanDecision {
		case review.StatusApproved:
			st.HumanApproved++
		case review.StatusDeclined:
			st.HumanDeclined++
		case review.StatusInfoRequested:
			st.InfoRequested++
		}
	}
	st.PendingEscalations = len(s.escalations.Pending())
	return st
}
