package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shalomhq/shalom/internal/types"
	"github.com/shalomhq/shalom/internal/validation"
)

// AddSkill handles POST /api/v1/plans/{id}/skills
func (h *Handler) AddSkill(w http.ResponseWriter, r *http.Request) {
	planID := chi.URLParam(r, "id")

	var req types.NewSkillRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var c validation.Collector
	c.Add(validation.ValidateULID("id", planID))
	c.Add(validation.ValidateULID("parent_id", req.ParentID))
	c.Add(validation.ValidateRequired("name", req.Name))
	c.Add(validation.ValidateMaxLength("name", req.Name, 100))
	c.Add(validation.ValidateUTF8("name", req.Name))
	if c.HasErrors() {
		WriteProblemWithErrors(w, r, "Request contains invalid fields", c.Errors())
		return
	}

	skill, err := h.store.AddSkill(r.Context(), planID, req.ParentID, req.Name)
	if err != nil {
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, skill)
}

// UpdateSkillProgress handles PATCH /api/v1/skills/{id}
func (h *Handler) UpdateSkillProgress(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req types.SkillProgressRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var c validation.Collector
	c.Add(validation.ValidateULID("id", id))
	c.Add(validation.ValidateIntRange("progress", req.Progress, 0, 100))
	if c.HasErrors() {
		WriteProblemWithErrors(w, r, "Request contains invalid fields", c.Errors())
		return
	}

	skill, err := h.store.UpdateSkillProgress(r.Context(), id, req.Progress)
	if err != nil {
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, skill)
}

// DeleteSkill handles DELETE /api/v1/skills/{id}
func (h *Handler) DeleteSkill(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := validation.ValidateULID("id", id); err != nil {
		WriteProblemWithErrors(w, r, "Request contains invalid fields", []validation.ValidationError{*err})
		return
	}

	if err := h.store.DeleteSkill(r.Context(), id); err != nil {
		MapStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
