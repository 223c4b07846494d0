package httpserver

import (
	"net/http"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/nlxchange/intent-engine/internal/engine"
	"github.com/nlxchange/intent-engine/pkg/types"
)

// IntentHandler handles HTTP requests for the intent pipeline.
type IntentHandler struct {
	pipeline *engine.Engine
	logger   *zap.Logger
}

// NewIntentHandler creates a new intent handler.
func NewIntentHandler(pipeline *engine.Engine, logger *zap.Logger) *IntentHandler {
	return &IntentHandler{
		pipeline: pipeline,
		logger:   logger,
	}
}

// ErrorResponse represents an HTTP error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HandleParse handles POST /api/parse requests. A turn that produces no
// actionable draft is still a 200: the response text explains what went
// wrong, the draft mode is "unknown".
func (h *IntentHandler) HandleParse(w http.ResponseWriter, r *http.Request) {
	var req engine.ParseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Text == "" {
		h.writeError(w, "missing required field: text", http.StatusBadRequest)
		return
	}

	h.logger.Debug("parse-request-received", zap.Int("text-length", len(req.Text)))

	resp := h.pipeline.ParseTurn(r.Context(), req)
	h.writeJSON(w, http.StatusOK, resp)
}

// ValidateRequest is the body of POST /api/validate.
type ValidateRequest struct {
	Draft *types.Draft `json:"draft"`
}

// HandleValidate handles POST /api/validate requests. Every call re-quotes;
// results are never cached.
func (h *IntentHandler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Draft == nil {
		h.writeError(w, "missing required field: draft", http.StatusBadRequest)
		return
	}

	result := h.pipeline.ValidateDraft(r.Context(), req.Draft)
	h.writeJSON(w, http.StatusOK, result)
}

// HandleExecute handles POST /api/execute requests.
func (h *IntentHandler) HandleExecute(w http.ResponseWriter, r *http.Request) {
	var req engine.ExecuteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Draft == nil {
		h.writeError(w, "missing required field: draft", http.StatusBadRequest)
		return
	}
	if req.WalletAddress == "" {
		h.writeError(w, "missing required field: walletAddress", http.StatusBadRequest)
		return
	}

	resp, err := h.pipeline.Execute(r.Context(), req)
	if err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Execution failures are carried in the body with a terminal trade
	// status; the HTTP layer stays 200 so clients read one shape.
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *IntentHandler) writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	err := json.NewEncoder(w).Encode(payload)
	if err != nil {
		h.logger.Error("failed-to-encode-response", zap.Error(err))
	}
}

// writeError writes a JSON error response.
func (h *IntentHandler) writeError(w http.ResponseWriter, message string, statusCode int) {
	h.writeJSON(w, statusCode, ErrorResponse{Error: message})
}
