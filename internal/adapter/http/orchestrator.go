package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Strob0t/LoanPilot/internal/port/a2a"
	"github.com/Strob0t/LoanPilot/internal/service"
)

// OrchestratorHandlers serves the application submission API.
type OrchestratorHandlers struct {
	pipeline *service.PipelineService
}

// NewOrchestratorHandlers creates the submission handlers.
func NewOrchestratorHandlers(pipeline *service.PipelineService) *OrchestratorHandlers {
	return &OrchestratorHandlers{pipeline: pipeline}
}

// MountOrchestratorRoutes registers the submission API on the router.
func MountOrchestratorRoutes(r chi.Router, h *OrchestratorHandlers) {
	r.Get("/health", h.health)
	r.Post("/api/applications", h.submitApplication)
}

func (h *OrchestratorHandlers) submitApplication(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, bodyLimit)
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable request body")
		return
	}

	rec, err := h.pipeline.Process(r.Context(), raw)
	if err != nil {
		var stageErr *a2a.StageError
		if errors.As(err, &stageErr) {
			writeError(w, http.StatusBadGateway, stageErr.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "pipeline failed")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *OrchestratorHandlers) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
