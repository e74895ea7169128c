package a2a

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Executor is the stage logic behind an agent endpoint. It takes the
// text payload of an incoming message and returns the text to answer
// with. Errors surface to the caller as JSON-RPC errors.
type Executor interface {
	Execute(ctx context.Context, payload string) (string, error)
}

// ExecutorFunc adapts a plain function to the Executor interface.
type ExecutorFunc func(ctx context.Context, payload string) (string, error)

// Execute calls f.
func (f ExecutorFunc) Execute(ctx context.Context, payload string) (string, error) {
	return f(ctx, payload)
}

// Handler serves one agent: its card on the well-known path and
// message/send dispatch on the root path.
type Handler struct {
	card Card
	exec Executor
	log  *slog.Logger
}

// Card holds the static identity served from the discovery endpoint.
type Card struct {
	Name        string
	Description string
	URL         string
	Version     string
	Skills      []Skill
}

// NewHandler builds a handler for one agent.
func NewHandler(card Card, exec Executor, log *slog.Logger) *Handler {
	return &Handler{card: card, exec: exec, log: log}
}

// Mount registers the agent endpoints on an existing router, so a
// process can serve the agent surface next to other routes.
func (h *Handler) Mount(r chi.Router) {
	r.Get(WellKnownPath, h.agentCard)
	r.Post("/", h.messageSend)
}

// Routes mounts the agent endpoints on a fresh router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	h.Mount(r)
	return r
}

func (h *Handler) agentCard(w http.ResponseWriter, r *http.Request) {
	card := AgentCard{
		Name:               h.card.Name,
		Description:        h.card.Description,
		URL:                h.card.URL,
		Version:            h.card.Version,
		Skills:             h.card.Skills,
		DefaultInputModes:  []string{"text"},
		DefaultOutputModes: []string{"text"},
	}
	writeJSON(w, http.StatusOK, card)
}

func (h *Handler) messageSend(w http.ResponseWriter, r *http.Request) {
	var req rpcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRPCError(w, "", -32700, "parse error")
		return
	}
	if req.Method != "message/send" {
		writeRPCError(w, req.ID, -32601, "method not found: "+req.Method)
		return
	}
	payload, ok := firstText(req.Params.Message.Parts)
	if !ok {
		writeRPCError(w, req.ID, -32602, "message has no text part")
		return
	}

	answer, err := h.exec.Execute(r.Context(), payload)
	if err != nil {
		h.log.Error("execute failed", "agent", h.card.Name, "error", err)
		writeRPCError(w, req.ID, -32603, err.Error())
		return
	}

	resp := rpcResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: &Result{
			Kind:      "message",
			Parts:     []Part{{Kind: "text", Text: answer}},
			Artifacts: nil,
		},
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeRPCError(w http.ResponseWriter, id string, code int, msg string) {
	if id == "" {
		id = uuid.NewString()
	}
	writeJSON(w, http.StatusOK, rpcResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &rpcError{Code: code, Message: msg},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
