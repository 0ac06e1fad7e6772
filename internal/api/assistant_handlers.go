package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/shalomhq/shalom/internal/assistant"
	"github.com/shalomhq/shalom/internal/types"
	"github.com/shalomhq/shalom/internal/validation"
)

// Chat handles POST /api/v1/assistant/chat
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req types.ChatRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var c validation.Collector
	c.Add(validation.ValidateRequired("user_id", req.UserID))
	c.Add(validation.ValidateRequired("message", req.Message))
	c.Add(validation.ValidateMaxLength("message", req.Message, 4000))
	c.Add(validation.ValidateUTF8("message", req.Message))
	for i, turn := range req.History {
		if turn.Role != "user" && turn.Role != "assistant" {
			c.Add(&validation.ValidationError{
				Field:   "history",
				Message: fmt.Sprintf("turn %d role must be user or assistant", i),
			})
			break
		}
	}
	if c.HasErrors() {
		WriteProblemWithErrors(w, r, "Request contains invalid fields", c.Errors())
		return
	}

	profile, err := assistant.BuildProfile(r.Context(), h.store, req.UserID, h.now().UTC())
	if err != nil {
		slog.Error("build profile failed", "error", err, "user_id", req.UserID)
		MapStoreError(w, r, err)
		return
	}

	reply, err := h.assistant.Chat(r.Context(), profile, req)
	if err != nil {
		slog.Error("assistant chat failed", "error", err, "user_id", req.UserID)
		WriteProblem(w, r, http.StatusBadGateway, "Assistant unavailable")
		return
	}

	writeJSON(w, http.StatusOK, types.ChatResponse{Message: reply})
}
