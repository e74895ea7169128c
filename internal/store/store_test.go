package store

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Strob0t/LoanPilot/internal/domain"
	"github.com/Strob0t/LoanPilot/internal/domain/decision"
	"github.com/Strob0t/LoanPilot/internal/domain/review"
)

func newEscalation(applicantID string, at time.Time) review.EscalationRecord {
	return review.EscalationRecord{
		ID:          uuid.NewString(),
		ApplicantID: applicantID,
		Status:      review.StatusPending,
		EscalatedAt: at,
	}
}

func TestEscalationStoreAddGet(t *testing.T) {
	s := NewEscalationStore()
	rec := newEscalation("APP-S-001", time.Now())

	id := s.Add(rec)
	got, err := s.Get(id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ApplicantID != "APP-S-001" || got.Status != review.StatusPending {
		t.Errorf("got %+v", got)
	}
}

func TestEscalationStoreGetUnknown(t *testing.T) {
	s := NewEscalationStore()
	if _, err := s.Get("nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestEscalationStorePendingOrderedOldestFirst(t *testing.T) {
	s := NewEscalationStore()
	base := time.Now()
	newest := newEscalation("APP-S-NEW", base.Add(time.Hour))
	oldest := newEscalation("APP-S-OLD", base.Add(-time.Hour))
	middle := newEscalation("APP-S-MID", base)
	s.Add(newest)
	s.Add(oldest)
	s.Add(middle)

	got := s.Pending()
	if len(got) != 3 {
		t.Fatalf("pending = %d, want 3", len(got))
	}
	want := []string{"APP-S-OLD", "APP-S-MID", "APP-S-NEW"}
	for i, id := range want {
		if got[i].ApplicantID != id {
			t.Errorf("pending[%d] = %s, want %s", i, got[i].ApplicantID, id)
		}
	}
}

func TestEscalationStoreDecide(t *testing.T) {
	s := NewEscalationStore()
	id := s.Add(newEscalation("APP-S-002", time.Now()))

	got, err := s.Decide(id, review.StatusApproved, "underwriter-7", "comps look fine")
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if got.Status != review.StatusApproved || got.DecidedBy != "underwriter-7" {
		t.Errorf("got %+v", got)
	}
	if got.DecidedAt == nil {
		t.Error("decided_at not set")
	}

	// Decided records leave the pending queue but stay retrievable.
	if len(s.Pending()) != 0 {
		t.Error("decided record still pending")
	}
	if len(s.All()) != 1 {
		t.Error("decided record dropped from All")
	}

	// Last write wins on repeat decisions.
	got, err = s.Decide(id, review.StatusDeclined, "underwriter-9", "changed after re-review")
	if err != nil {
		t.Fatalf("second Decide: %v", err)
	}
	if got.Status != review.StatusDeclined || got.DecidedBy != "underwriter-9" {
		t.Errorf("second decision not applied: %+v", got)
	}
}

func TestEscalationStoreDecideUnknownHasNoSideEffects(t *testing.T) {
	s := NewEscalationStore()
	id := s.Add(newEscalation("APP-S-003", time.Now()))

	if _, err := s.Decide("missing", review.StatusApproved, "x", ""); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	got, _ := s.Get(id)
	if got.Status != review.StatusPending {
		t.Errorf("existing record mutated by failed decide: %+v", got)
	}
}

func TestHistoryStoreNewestFirst(t *testing.T) {
	s := NewHistoryStore()
	base := time.Now()
	for i, id := range []string{"APP-H-1", "APP-H-2", "APP-H-3"} {
		s.Add(review.ProcessedLoanRecord{
			ID:          uuid.NewString(),
			ApplicantID: id,
			ProcessedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}

	got := s.All()
	want := []string{"APP-H-3", "APP-H-2", "APP-H-1"}
	for i, id := range want {
		if got[i].ApplicantID != id {
			t.Errorf("all[%d] = %s, want %s", i, got[i].ApplicantID, id)
		}
	}
}

func TestHistoryStoreFindByEscalationID(t *testing.T) {
	s := NewHistoryStore()
	escID := uuid.NewString()
	s.Add(review.ProcessedLoanRecord{ID: uuid.NewString(), ApplicantID: "APP-H-4"})
	linked := review.ProcessedLoanRecord{ID: uuid.NewString(), ApplicantID: "APP-H-5", EscalationID: escID}
	s.Add(linked)

	got, ok := s.FindByEscalationID(escID)
	if !ok || got.ApplicantID != "APP-H-5" {
		t.Errorf("found %+v, ok=%v", got, ok)
	}

	// Records without an escalation never match the empty key.
	if _, ok := s.FindByEscalationID(""); ok {
		t.Error("empty escalation id matched a record")
	}
	if _, ok := s.FindByEscalationID("absent"); ok {
		t.Error("unknown escalation id matched a record")
	}
}

func TestHistoryStoreUpdateHumanDecision(t *testing.T) {
	s := NewHistoryStore()
	id := uuid.NewString()
	s.Add(review.ProcessedLoanRecord{
		ID:       id,
		Decision: decision.VerdictPendingReview,
	})

	got, err := s.UpdateHumanDecision(id, review.StatusApproved, "underwriter-7", "ok")
	if err != nil {
		t.Fatalf("UpdateHumanDecision: %v", err)
	}
	if got.HumanDecision != review.StatusApproved || got.HumanDecidedBy != "underwriter-7" {
		t.Errorf("human fields = %+v", got)
	}
	if got.Decision != decision.VerdictApproved {
		t.Errorf("primary decision = %s, want APPROVED after terminal verdict", got.Decision)
	}

	// INFO_REQUESTED records the verdict without touching the primary
	// decision.
	got, err = s.UpdateHumanDecision(id, review.StatusInfoRequested, "underwriter-7", "need pay stubs")
	if err != nil {
		t.Fatal(err)
	}
	if got.Decision != decision.VerdictApproved {
		t.Errorf("info request overwrote primary decision: %s", got.Decision)
	}
	if got.HumanDecision != review.StatusInfoRequested {
		t.Errorf("human decision = %s", got.HumanDecision)
	}

	if _, err := s.UpdateHumanDecision("missing", review.StatusApproved, "x", ""); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
