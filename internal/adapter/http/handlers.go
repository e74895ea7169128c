package http

import (
	"net/http"

	"github.com/Strob0t/LoanPilot/internal/domain/review"
	"github.com/Strob0t/LoanPilot/internal/service"
)

// Handlers bundles the review API endpoints.
type Handlers struct {
	reviews *service.ReviewService
}

// NewHandlers creates the review API handlers.
func NewHandlers(reviews *service.ReviewService) *Handlers {
	return &Handlers{reviews: reviews}
}

func (h *Handlers) listPendingEscalations(w http.ResponseWriter, r *http.Request) {
	recs := h.reviews.PendingEscalations(r.Context())
	if recs == nil {
		recs = []review.EscalationRecord{}
	}
	writeJSON(w, http.StatusOK, recs)
}

func (h *Handlers) listEscalations(w http.ResponseWriter, r *http.Request) {
	recs := h.reviews.AllEscalations(r.Context())
	if recs == nil {
		recs = []review.EscalationRecord{}
	}
	writeJSON(w, http.StatusOK, recs)
}

func (h *Handlers) getEscalation(w http.ResponseWriter, r *http.Request) {
	rec, err := h.reviews.GetEscalation(r.Context(), urlParam(r, "id"))
	if err != nil {
		writeDomainError(w, err, "escalation not found")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

type decideRequest struct {
	Decision review.EscalationStatus `json:"decision"`
	Reviewer string                  `json:"reviewer"`
	Notes    string                  `json:"notes"`
}

func (h *Handlers) decideEscalation(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[decideRequest](w, r)
	if !ok {
		return
	}
	rec, err := h.reviews.Decide(r.Context(), urlParam(r, "id"), req.Decision, req.Reviewer, req.Notes)
	if err != nil {
		writeDomainError(w, err, "escalation not found")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *Handlers) ingestLoan(w http.ResponseWriter, r *http.Request) {
	rec, ok := readJSON[review.ProcessedLoanRecord](w, r)
	if !ok {
		return
	}
	if rec.ApplicantID == "" {
		writeError(w, http.StatusBadRequest, "applicant_id is required")
		return
	}
	stored := h.reviews.IngestLoan(r.Context(), rec)
	writeJSON(w, http.StatusCreated, stored)
}

func (h *Handlers) listLoans(w http.ResponseWriter, r *http.Request) {
	recs := h.reviews.Loans(r.Context())
	if recs == nil {
		recs = []review.ProcessedLoanRecord{}
	}
	writeJSON(w, http.StatusOK, recs)
}

func (h *Handlers) getLoan(w http.ResponseWriter, r *http.Request) {
	rec, err := h.reviews.GetLoan(r.Context(), urlParam(r, "id"))
	if err != nil {
		writeDomainError(w, err, "loan record not found")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *Handlers) stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.reviews.Stats(r.Context()))
}

func (h *Handlers) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
