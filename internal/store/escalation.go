// Package store provides the concurrent-safe in-memory registries backing
// the review surface. A single lock per store serializes mutations; this
// is deliberate at the expected data scale.
package store

import (
	"sort"
	"sync"
	"time"

	"github.com/Strob0t/LoanPilot/internal/domain"
	"github.com/Strob0t/LoanPilot/internal/domain/review"
)

// EscalationStore holds escalated applications awaiting human review,
// keyed by generated escalation id (never by applicant id: an applicant
// may be resubmitted).
type EscalationStore struct {
	mu      sync.RWMutex
	records map[string]review.EscalationRecord
}

// NewEscalationStore creates an empty escalation store.
func NewEscalationStore() *EscalationStore {
	return &EscalationStore{records: make(map[string]review.EscalationRecord)}
}

// Add stores a new escalation record and returns its id.
func (s *EscalationStore) Add(rec review.EscalationRecord) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.ID] = rec
	return rec.ID
}

// Get returns the record with the given id.
func (s *EscalationStore) Get(id string) (review.EscalationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	if !ok {
		return review.EscalationRecord{}, domain.ErrNotFound
	}
	return rec, nil
}

// Pending returns all records still awaiting a decision, oldest first.
func (s *EscalationStore) Pending() []review.EscalationRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []review.EscalationRecord
	for _, rec := range s.records {
		if rec.Status == review.StatusPending {
			out = append(out, rec)
		}
	}
	sortByEscalatedAt(out)
	return out
}

// All returns every escalation record, oldest first.
func (s *EscalationStore) All() []review.EscalationRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]review.EscalationRecord, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec)
	}
	sortByEscalatedAt(out)
	return out
}

// Decide records a human decision. Unknown ids are rejected without side
// effects. Repeated decisions overwrite: last write wins.
func (s *EscalationStore) Decide(id string, verdict review.EscalationStatus, reviewer, notes string) (review.EscalationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		return review.EscalationRecord{}, domain.ErrNotFound
	}
	now := time.Now().UTC()
	rec.Status = verdict
	rec.DecidedAt = &now
	rec.DecidedBy = reviewer
	rec.DecisionNotes = notes
	s.records[id] = rec
	return rec, nil
}

func sortByEscalatedAt(recs []review.EscalationRecord) {
	sort.Slice(recs, func(i, j int) bool {
		return recs[i].EscalatedAt.Before(recs[j].EscalatedAt)
	})
}
