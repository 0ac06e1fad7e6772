package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shalomhq/shalom/internal/types"
	"github.com/shalomhq/shalom/internal/validation"
)

// AddMilestone handles POST /api/v1/plans/{id}/milestones
func (h *Handler) AddMilestone(w http.ResponseWriter, r *http.Request) {
	planID := chi.URLParam(r, "id")

	var req types.NewMilestoneRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var c validation.Collector
	c.Add(validation.ValidateULID("id", planID))
	c.Add(validation.ValidateRequired("title", req.Title))
	c.Add(validation.ValidateMaxLength("title", req.Title, 200))
	c.Add(validation.ValidateUTF8("title", req.Title))
	if req.DueDate != nil {
		c.Add(validation.ValidateDate("due_date", *req.DueDate))
	}
	if c.HasErrors() {
		WriteProblemWithErrors(w, r, "Request contains invalid fields", c.Errors())
		return
	}

	m, progress, err := h.store.AddMilestone(r.Context(), planID, types.Milestone{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
	})
	if err != nil {
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, types.MilestoneResponse{Milestone: *m, PlanProgress: progress})
}

// UpdateMilestone handles PATCH /api/v1/milestones/{id}
func (h *Handler) UpdateMilestone(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req types.UpdateMilestoneRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var c validation.Collector
	c.Add(validation.ValidateULID("id", id))
	if req.Title != nil {
		c.Add(validation.ValidateRequired("title", *req.Title))
		c.Add(validation.ValidateMaxLength("title", *req.Title, 200))
	}
	if req.DueDate != nil {
		c.Add(validation.ValidateDate("due_date", *req.DueDate))
	}
	if c.HasErrors() {
		WriteProblemWithErrors(w, r, "Request contains invalid fields", c.Errors())
		return
	}

	m, progress, err := h.store.UpdateMilestone(r.Context(), id, req)
	if err != nil {
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, types.MilestoneResponse{Milestone: *m, PlanProgress: progress})
}

// ToggleMilestone handles POST /api/v1/milestones/{id}/toggle
func (h *Handler) ToggleMilestone(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := validation.ValidateULID("id", id); err != nil {
		WriteProblemWithErrors(w, r, "Request contains invalid fields", []validation.ValidationError{*err})
		return
	}

	m, progress, err := h.store.ToggleMilestone(r.Context(), id, h.now().UTC())
	if err != nil {
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, types.MilestoneResponse{Milestone: *m, PlanProgress: progress})
}

// DeleteMilestone handles DELETE /api/v1/milestones/{id}
func (h *Handler) DeleteMilestone(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := validation.ValidateULID("id", id); err != nil {
		WriteProblemWithErrors(w, r, "Request contains invalid fields", []validation.ValidationError{*err})
		return
	}

	progress, err := h.store.DeleteMilestone(r.Context(), id)
	if err != nil {
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"plan_progress": progress})
}
