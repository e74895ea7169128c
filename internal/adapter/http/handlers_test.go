package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Strob0t/LoanPilot/internal/domain/decision"
	"github.com/Strob0t/LoanPilot/internal/domain/review"
	"github.com/Strob0t/LoanPilot/internal/service"
	"github.com/Strob0t/LoanPilot/internal/store"
)

type testEnv struct {
	srv  *httptest.Server
	esc  *store.EscalationStore
	hist *store.HistoryStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	esc := store.NewEscalationStore()
	hist := store.NewHistoryStore()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	reviews := service.NewReviewService(esc, hist, log)

	srv := httptest.NewServer(NewRouter(NewHandlers(reviews)))
	t.Cleanup(srv.Close)
	return &testEnv{srv: srv, esc: esc, hist: hist}
}

func (e *testEnv) get(t *testing.T, path string, out any) int {
	t.Helper()
	resp, err := http.Get(e.srv.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode GET %s: %v", path, err)
		}
	}
	return resp.StatusCode
}

func (e *testEnv) post(t *testing.T, path string, body, out any) int {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.Post(e.srv.URL+path, "application/json", bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode POST %s: %v", path, err)
		}
	}
	return resp.StatusCode
}

func (e *testEnv) addEscalation(applicantID string) string {
	return e.esc.Add(review.EscalationRecord{
		ID:          uuid.NewString(),
		ApplicantID: applicantID,
		Status:      review.StatusPending,
		EscalatedAt: time.Now().UTC(),
	})
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	var body map[string]string
	if code := env.get(t, "/health", &body); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
}

func TestListEscalationsEmptyIsArray(t *testing.T) {
	env := newTestEnv(t)
	resp, err := http.Get(env.srv.URL + "/api/escalations/pending")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = resp.Body.Close() }()
	raw, _ := io.ReadAll(resp.Body)
	if got := string(bytes.TrimSpace(raw)); got != "[]" {
		t.Errorf("empty list rendered as %q, want []", got)
	}
}

func TestDecideEscalation(t *testing.T) {
	env := newTestEnv(t)
	escID := env.addEscalation("APP-2024-003")
	histID := env.hist.Add(review.ProcessedLoanRecord{
		ID:           uuid.NewString(),
		ApplicantID:  "APP-2024-003",
		Decision:     decision.VerdictPendingReview,
		EscalationID: escID,
		ProcessedAt:  time.Now().UTC(),
	})

	var rec review.EscalationRecord
	code := env.post(t, "/api/escalations/"+escID+"/decide", map[string]string{
		"decision": "APPROVED",
		"reviewer": "underwriter-7",
		"notes":    "income verified",
	}, &rec)
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if rec.Status != review.StatusApproved || rec.DecidedBy != "underwriter-7" {
		t.Errorf("record = %+v", rec)
	}

	// The verdict reaches the linked history record.
	var hist review.ProcessedLoanRecord
	if code := env.get(t, "/api/loans/"+histID, &hist); code != http.StatusOK {
		t.Fatalf("loan status = %d", code)
	}
	if hist.Decision != decision.VerdictApproved || hist.HumanDecision != review.StatusApproved {
		t.Errorf("history = %+v", hist)
	}
}

func TestDecideEscalationUnknownID(t *testing.T) {
	env := newTestEnv(t)
	escID := env.addEscalation("APP-2024-003")

	code := env.post(t, "/api/escalations/"+uuid.NewString()+"/decide", map[string]string{
		"decision": "APPROVED", "reviewer": "x",
	}, nil)
	if code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", code)
	}

	rec, _ := env.esc.Get(escID)
	if rec.Status != review.StatusPending {
		t.Errorf("existing escalation mutated: %+v", rec)
	}
}

func TestDecideEscalationInvalidVerdict(t *testing.T) {
	env := newTestEnv(t)
	escID := env.addEscalation("APP-2024-003")

	code := env.post(t, "/api/escalations/"+escID+"/decide", map[string]string{
		"decision": "MAYBE", "reviewer": "x",
	}, nil)
	if code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", code)
	}
}

func TestGetEscalation(t *testing.T) {
	env := newTestEnv(t)
	escID := env.addEscalation("APP-2024-003")

	var rec review.EscalationRecord
	if code := env.get(t, "/api/escalations/"+escID, &rec); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if rec.ApplicantID != "APP-2024-003" {
		t.Errorf("record = %+v", rec)
	}

	if code := env.get(t, "/api/escalations/"+uuid.NewString(), nil); code != http.StatusNotFound {
		t.Errorf("unknown id status = %d, want 404", code)
	}
}

func TestIngestAndListLoans(t *testing.T) {
	env := newTestEnv(t)

	first := review.ProcessedLoanRecord{
		ApplicantID: "APP-2024-001",
		Decision:    decision.VerdictApproved,
		ProcessedAt: time.Now().UTC().Add(-time.Minute),
	}
	second := review.ProcessedLoanRecord{
		ApplicantID: "APP-2024-002",
		Decision:    decision.VerdictDeclined,
		ProcessedAt: time.Now().UTC(),
	}

	var stored review.ProcessedLoanRecord
	if code := env.post(t, "/api/loans", first, &stored); code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", code)
	}
	if stored.ID == "" {
		t.Error("ingested record has no id")
	}
	if code := env.post(t, "/api/loans", second, nil); code != http.StatusCreated {
		t.Fatalf("status = %d", code)
	}

	var loans []review.ProcessedLoanRecord
	if code := env.get(t, "/api/loans", &loans); code != http.StatusOK {
		t.Fatalf("list status = %d", code)
	}
	if len(loans) != 2 {
		t.Fatalf("got %d records", len(loans))
	}
	// Newest first.
	if loans[0].ApplicantID != "APP-2024-002" || loans[1].ApplicantID != "APP-2024-001" {
		t.Errorf("order = %s, %s", loans[0].ApplicantID, loans[1].ApplicantID)
	}
}

func TestIngestLoanRequiresApplicantID(t *testing.T) {
	env := newTestEnv(t)
	code := env.post(t, "/api/loans", review.ProcessedLoanRecord{Decision: decision.VerdictApproved}, nil)
	if code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", code)
	}
}

func TestStats(t *testing.T) {
	env := newTestEnv(t)
	env.addEscalation("APP-2024-003")
	env.post(t, "/api/loans", review.ProcessedLoanRecord{
		ApplicantID: "APP-2024-001", Decision: decision.VerdictApproved,
	}, nil)
	env.post(t, "/api/loans", review.ProcessedLoanRecord{
		ApplicantID: "APP-2024-002", Decision: decision.VerdictDeclined,
	}, nil)

	var stats service.Stats
	if code := env.get(t, "/api/stats", &stats); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if stats.TotalProcessed != 2 || stats.Approved != 1 || stats.Declined != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.PendingEscalations != 1 {
		t.Errorf("pending escalations = %d", stats.PendingEscalations)
	}
}
