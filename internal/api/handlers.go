package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/shalomhq/shalom/internal/assistant"
	"github.com/shalomhq/shalom/internal/store"
	"github.com/shalomhq/shalom/internal/types"
	"github.com/shalomhq/shalom/internal/validation"
)

// Handler implements the API handlers
type Handler struct {
	store     store.Store
	assistant assistant.Assistant
	apiKey    string
	version   string

	// now is swappable in tests; production uses time.Now.
	now func() time.Time
}

// NewHandler creates a new Handler with store.Store interface
func NewHandler(s store.Store, a assistant.Assistant, apiKey, version string) *Handler {
	return &Handler{
		store:     s,
		assistant: a,
		apiKey:    apiKey,
		version:   version,
		now:       time.Now,
	}
}

// Health returns the health status
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.GetStats(r.Context())
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, types.HealthResponse{
		Status:           "healthy",
		Version:          h.version,
		AssistantModel:   h.assistant.ModelName(),
		PlanCount:        stats.PlanCount,
		TransactionCount: stats.TransactionCount,
		EmotionCount:     stats.EmotionCount,
	})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// decodeJSON decodes the request body into v, writing a 400 problem on
// failure. Returns false if the handler should stop.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		WriteProblem(w, r, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return false
	}
	return true
}

// requireUserID reads the user_id query parameter, writing a 422 problem when
// absent. List endpoints are always scoped to one user.
func requireUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		WriteProblemWithErrors(w, r, "Request contains invalid fields", []validation.ValidationError{
			{Field: "user_id", Message: "is required"},
		})
		return "", false
	}
	return userID, true
}
