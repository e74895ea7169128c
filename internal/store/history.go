package store

import (
	"sort"
	"sync"
	"time"

	"github.com/Strob0t/LoanPilot/internal/domain"
	"github.com/Strob0t/LoanPilot/internal/domain/decision"
	"github.com/Strob0t/LoanPilot/internal/domain/review"
)

// HistoryStore is the append-only registry of completed pipeline runs.
type HistoryStore struct {
	mu      sync.RWMutex
	records map[string]review.ProcessedLoanRecord
}

// NewHistoryStore creates an empty history store.
func NewHistoryStore() *HistoryStore {
	return &HistoryStore{records: make(map[string]review.ProcessedLoanRecord)}
}

// Add stores a processed loan record and returns its id.
func (s *HistoryStore) Add(rec review.ProcessedLoanRecord) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.ID] = rec
	return rec.ID
}

// Get returns the record with the given id.
func (s *HistoryStore) Get(id string) (review.ProcessedLoanRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	if !ok {
		return review.ProcessedLoanRecord{}, domain.ErrNotFound
	}
	return rec, nil
}

// All returns every record ordered newest first by processing timestamp.
func (s *HistoryStore) All() []review.ProcessedLoanRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]review.ProcessedLoanRecord, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ProcessedAt.After(out[j].ProcessedAt)
	})
	return out
}

// FindByEscalationID returns the record linked to the given escalation,
// if any. A linear scan is acceptable at this data scale.
func (s *HistoryStore) FindByEscalationID(escalationID string) (review.ProcessedLoanRecord, bool) {
	if escalationID == "" {
		return review.ProcessedLoanRecord{}, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rec := range s.records {
		if rec.EscalationID == escalationID {
			return rec, true
		}
	}
	return review.ProcessedLoanRecord{}, false
}

// UpdateHumanDecision folds a reviewer's verdict into a history record.
// Terminal verdicts (APPROVED/DECLINED) also replace the record's primary
// decision field; INFO_REQUESTED leaves it untouched.
func (s *HistoryStore) UpdateHumanDecision(id string, verdict review.EscalationStatus, reviewer, notes string) (review.ProcessedLoanRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		return review.ProcessedLoanRecord{}, domain.ErrNotFound
	}
	now := time.Now().UTC()
	rec.HumanDecision = verdict
	rec.HumanDecidedAt = &now
	rec.HumanDecidedBy = reviewer
	rec.HumanDecisionNotes = notes
	switch verdict {
	case review.StatusApproved:
		rec.Decision = decision.VerdictApproved
	case review.StatusDeclined:
		rec.Decision = decision.VerdictDeclined
	}
	s.records[id] = rec
	return rec, nil
}
