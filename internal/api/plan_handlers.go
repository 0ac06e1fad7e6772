package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shalomhq/shalom/internal/devplan"
	"github.com/shalomhq/shalom/internal/types"
	"github.com/shalomhq/shalom/internal/validation"
)

// ListPlans handles GET /api/v1/plans
func (h *Handler) ListPlans(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	plans, err := h.store.ListPlans(r.Context(), userID)
	if err != nil {
		slog.Error("list plans failed", "error", err, "user_id", userID)
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, plans)
}

// CreatePlan handles POST /api/v1/plans
func (h *Handler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	var req types.NewPlanRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var c validation.Collector
	c.Add(validation.ValidateRequired("user_id", req.UserID))
	c.Add(validation.ValidateRequired("title", req.Title))
	c.Add(validation.ValidateMaxLength("title", req.Title, 200))
	c.Add(validation.ValidateUTF8("title", req.Title))
	c.Add(validation.ValidateEnum("category", req.Category, types.Categories))
	c.Add(validation.ValidateRequired("target_date", req.TargetDate))
	if err := validation.ValidateDate("target_date", req.TargetDate); err != nil {
		c.Add(err)
	} else {
		today := h.now().UTC().Format(types.DateLayout)
		c.Add(validation.ValidateDateAfter("target_date", req.TargetDate, today))
	}
	if c.HasErrors() {
		WriteProblemWithErrors(w, r, "Request contains invalid fields", c.Errors())
		return
	}

	seed := devplan.NewSeedBundle(req.UserID, req.Title, req.Description,
		types.Category(req.Category), req.TargetDate, h.now().UTC())

	bundle, err := h.store.CreatePlan(r.Context(), seed)
	if err != nil {
		slog.Error("create plan failed", "error", err, "user_id", req.UserID)
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, bundle)
}

// GetPlan handles GET /api/v1/plans/{id}
func (h *Handler) GetPlan(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := validation.ValidateULID("id", id); err != nil {
		WriteProblemWithErrors(w, r, "Request contains invalid fields", []validation.ValidationError{*err})
		return
	}

	bundle, err := h.store.GetPlan(r.Context(), id)
	if err != nil {
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bundle)
}

// DeletePlan handles DELETE /api/v1/plans/{id}
func (h *Handler) DeletePlan(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := validation.ValidateULID("id", id); err != nil {
		WriteProblemWithErrors(w, r, "Request contains invalid fields", []validation.ValidationError{*err})
		return
	}

	if err := h.store.DeletePlan(r.Context(), id); err != nil {
		MapStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
