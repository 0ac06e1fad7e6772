package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shalomhq/shalom/internal/types"
	"github.com/shalomhq/shalom/internal/validation"
)

// AddHabit handles POST /api/v1/plans/{id}/habits
func (h *Handler) AddHabit(w http.ResponseWriter, r *http.Request) {
	planID := chi.URLParam(r, "id")

	var req types.NewHabitRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var c validation.Collector
	c.Add(validation.ValidateULID("id", planID))
	c.Add(validation.ValidateRequired("title", req.Title))
	c.Add(validation.ValidateMaxLength("title", req.Title, 200))
	c.Add(validation.ValidateUTF8("title", req.Title))
	c.Add(validation.ValidateEnum("frequency", req.Frequency, types.Frequencies))
	if req.LinkedSkillID != nil {
		c.Add(validation.ValidateULID("linked_skill_id", *req.LinkedSkillID))
	}
	if c.HasErrors() {
		WriteProblemWithErrors(w, r, "Request contains invalid fields", c.Errors())
		return
	}

	habit, err := h.store.AddHabit(r.Context(), planID, types.Habit{
		Title:         req.Title,
		Description:   req.Description,
		Frequency:     types.Frequency(req.Frequency),
		TimeOfDay:     req.TimeOfDay,
		LinkedSkillID: req.LinkedSkillID,
	})
	if err != nil {
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, habit)
}

// UpdateHabit handles PATCH /api/v1/habits/{id}
func (h *Handler) UpdateHabit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req types.UpdateHabitRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var c validation.Collector
	c.Add(validation.ValidateULID("id", id))
	if req.Title != nil {
		c.Add(validation.ValidateRequired("title", *req.Title))
		c.Add(validation.ValidateMaxLength("title", *req.Title, 200))
	}
	if req.Frequency != nil {
		c.Add(validation.ValidateEnum("frequency", *req.Frequency, types.Frequencies))
	}
	if c.HasErrors() {
		WriteProblemWithErrors(w, r, "Request contains invalid fields", c.Errors())
		return
	}

	habit, err := h.store.UpdateHabit(r.Context(), id, req)
	if err != nil {
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, habit)
}

// CompleteHabit handles POST /api/v1/habits/{id}/complete
func (h *Handler) CompleteHabit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := validation.ValidateULID("id", id); err != nil {
		WriteProblemWithErrors(w, r, "Request contains invalid fields", []validation.ValidationError{*err})
		return
	}

	habit, err := h.store.CompleteHabit(r.Context(), id, h.now().UTC())
	if err != nil {
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, habit)
}

// DeleteHabit handles DELETE /api/v1/habits/{id}
func (h *Handler) DeleteHabit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := validation.ValidateULID("id", id); err != nil {
		WriteProblemWithErrors(w, r, "Request contains invalid fields", []validation.ValidationError{*err})
		return
	}

	if err := h.store.DeleteHabit(r.Context(), id); err != nil {
		MapStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
