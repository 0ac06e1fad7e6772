package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/shalomhq/shalom/internal/emotional"
	"github.com/shalomhq/shalom/internal/types"
	"github.com/shalomhq/shalom/internal/validation"
)

// ListEmotions handles GET /api/v1/emotions
func (h *Handler) ListEmotions(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var since time.Time
	if days := r.URL.Query().Get("days"); days != "" {
		n, err := strconv.Atoi(days)
		if err != nil || n < 1 {
			WriteProblemWithErrors(w, r, "Request contains invalid fields", []validation.ValidationError{
				{Field: "days", Message: "must be a positive number of days"},
			})
			return
		}
		since = h.now().UTC().AddDate(0, 0, -n)
	}

	entries, err := h.store.ListEmotionEntries(r.Context(), userID, since)
	if err != nil {
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// AddEmotion handles POST /api/v1/emotions
func (h *Handler) AddEmotion(w http.ResponseWriter, r *http.Request) {
	var req types.NewEmotionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var c validation.Collector
	c.Add(validation.ValidateRequired("user_id", req.UserID))
	c.Add(validation.ValidateEnum("emotion", req.Emotion, emotional.Emotions))
	c.Add(validation.ValidateIntRange("intensity", req.Intensity, 1, 10))
	c.Add(validation.ValidateMaxLength("note", req.Note, 2000))
	c.Add(validation.ValidateUTF8("note", req.Note))
	if c.HasErrors() {
		WriteProblemWithErrors(w, r, "Request contains invalid fields", c.Errors())
		return
	}

	entry, err := h.store.AddEmotionEntry(r.Context(), types.EmotionEntry{
		UserID:     req.UserID,
		Emotion:    req.Emotion,
		Intensity:  req.Intensity,
		Note:       req.Note,
		Triggers:   req.Triggers,
		Activities: req.Activities,
	})
	if err != nil {
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

// DeleteEmotion handles DELETE /api/v1/emotions/{id}
func (h *Handler) DeleteEmotion(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := validation.ValidateULID("id", id); err != nil {
		WriteProblemWithErrors(w, r, "Request contains invalid fields", []validation.ValidationError{*err})
		return
	}

	if err := h.store.DeleteEmotionEntry(r.Context(), id); err != nil {
		MapStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Wellbeing handles GET /api/v1/emotions/wellbeing. The score looks at the
// last seven days; the streak at the full history.
func (h *Handler) Wellbeing(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	now := h.now().UTC()
	entries, err := h.store.ListEmotionEntries(r.Context(), userID, time.Time{})
	if err != nil {
		MapStoreError(w, r, err)
		return
	}

	weekAgo := now.AddDate(0, 0, -7)
	recent := entries[:0:0]
	for _, e := range entries {
		if !e.RecordedAt.Before(weekAgo) {
			recent = append(recent, e)
		}
	}

	writeJSON(w, http.StatusOK, types.WellbeingResponse{
		Score:   emotional.WellbeingScore(recent),
		Streak:  emotional.JournalStreak(entries, now),
		Entries: len(entries),
	})
}
