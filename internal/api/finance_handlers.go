package api

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shalomhq/shalom/internal/finance"
	"github.com/shalomhq/shalom/internal/store"
	"github.com/shalomhq/shalom/internal/types"
	"github.com/shalomhq/shalom/internal/validation"
)

// maxImportBytes caps finance import payloads at 10 MiB.
const maxImportBytes = 10 << 20

// ListTransactions handles GET /api/v1/transactions
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	month := r.URL.Query().Get("month")

	transactions, err := h.store.ListTransactions(r.Context(), userID, month)
	if err != nil {
		slog.Error("list transactions failed", "error", err, "user_id", userID)
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, transactions)
}

// AddTransaction handles POST /api/v1/transactions
func (h *Handler) AddTransaction(w http.ResponseWriter, r *http.Request) {
	var req types.NewTransactionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var c validation.Collector
	c.Add(validation.ValidateRequired("user_id", req.UserID))
	c.Add(validation.ValidateEnum("type", req.Type, types.TransactionTypes))
	c.Add(validation.ValidatePositive("amount", req.Amount))
	c.Add(validation.ValidateRequired("category", req.Category))
	c.Add(validation.ValidateRequired("date", req.Date))
	if req.Date != "" {
		c.Add(validation.ValidateDate("date", req.Date))
	}
	if c.HasErrors() {
		WriteProblemWithErrors(w, r, "Request contains invalid fields", c.Errors())
		return
	}

	// A transaction filed under a user-defined category must match its type.
	cat, err := h.store.GetCategory(r.Context(), req.UserID, req.Category)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		MapStoreError(w, r, err)
		return
	}
	if cat != nil && string(cat.Type) != req.Type {
		WriteProblemWithErrors(w, r, "Request contains invalid fields", []validation.ValidationError{
			{Field: "type", Message: fmt.Sprintf("category %q accepts only %s transactions", cat.Name, cat.Type)},
		})
		return
	}

	tx, err := h.store.AddTransaction(r.Context(), types.Transaction{
		UserID:      req.UserID,
		Type:        types.TransactionType(req.Type),
		Amount:      req.Amount,
		Category:    req.Category,
		Description: req.Description,
		Date:        req.Date,
		Recurring:   req.Recurring,
	})
	if err != nil {
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, tx)
}

// DeleteTransaction handles DELETE /api/v1/transactions/{id}
func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := validation.ValidateULID("id", id); err != nil {
		WriteProblemWithErrors(w, r, "Request contains invalid fields", []validation.ValidationError{*err})
		return
	}

	if err := h.store.DeleteTransaction(r.Context(), id); err != nil {
		MapStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListFinancialGoals handles GET /api/v1/financial-goals
func (h *Handler) ListFinancialGoals(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	goals, err := h.store.ListFinancialGoals(r.Context(), userID)
	if err != nil {
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, goals)
}

// AddFinancialGoal handles POST /api/v1/financial-goals
func (h *Handler) AddFinancialGoal(w http.ResponseWriter, r *http.Request) {
	var req types.NewFinancialGoalRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var c validation.Collector
	c.Add(validation.ValidateRequired("user_id", req.UserID))
	c.Add(validation.ValidateRequired("name", req.Name))
	c.Add(validation.ValidateMaxLength("name", req.Name, 200))
	c.Add(validation.ValidatePositive("target_amount", req.TargetAmount))
	if req.Deadline != nil {
		c.Add(validation.ValidateDate("deadline", *req.Deadline))
	}
	if c.HasErrors() {
		WriteProblemWithErrors(w, r, "Request contains invalid fields", c.Errors())
		return
	}

	goal, err := h.store.AddFinancialGoal(r.Context(), types.FinancialGoal{
		UserID:       req.UserID,
		Name:         req.Name,
		TargetAmount: req.TargetAmount,
		Deadline:     req.Deadline,
	})
	if err != nil {
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, goal)
}

// UpdateFinancialGoal handles PATCH /api/v1/financial-goals/{id}
func (h *Handler) UpdateFinancialGoal(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req types.UpdateFinancialGoalRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var c validation.Collector
	c.Add(validation.ValidateULID("id", id))
	if req.Name != nil {
		c.Add(validation.ValidateRequired("name", *req.Name))
	}
	if req.TargetAmount != nil {
		c.Add(validation.ValidatePositive("target_amount", *req.TargetAmount))
	}
	if req.CurrentAmount != nil && *req.CurrentAmount < 0 {
		c.Add(&validation.ValidationError{Field: "current_amount", Message: "must not be negative"})
	}
	if req.Deadline != nil {
		c.Add(validation.ValidateDate("deadline", *req.Deadline))
	}
	if c.HasErrors() {
		WriteProblemWithErrors(w, r, "Request contains invalid fields", c.Errors())
		return
	}

	goal, err := h.store.UpdateFinancialGoal(r.Context(), id, req)
	if err != nil {
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, goal)
}

// DeleteFinancialGoal handles DELETE /api/v1/financial-goals/{id}
func (h *Handler) DeleteFinancialGoal(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := validation.ValidateULID("id", id); err != nil {
		WriteProblemWithErrors(w, r, "Request contains invalid fields", []validation.ValidationError{*err})
		return
	}

	if err := h.store.DeleteFinancialGoal(r.Context(), id); err != nil {
		MapStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListCategories handles GET /api/v1/finance/categories
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	categories, err := h.store.ListCategories(r.Context(), userID)
	if err != nil {
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

// AddCategory handles POST /api/v1/finance/categories
func (h *Handler) AddCategory(w http.ResponseWriter, r *http.Request) {
	var req types.NewCategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var c validation.Collector
	c.Add(validation.ValidateRequired("user_id", req.UserID))
	c.Add(validation.ValidateRequired("name", req.Name))
	c.Add(validation.ValidateMaxLength("name", req.Name, 100))
	c.Add(validation.ValidateEnum("type", req.Type, types.TransactionTypes))
	if c.HasErrors() {
		WriteProblemWithErrors(w, r, "Request contains invalid fields", c.Errors())
		return
	}

	cat, err := h.store.AddCategory(r.Context(), types.FinanceCategory{
		UserID: req.UserID,
		Name:   req.Name,
		Type:   types.TransactionType(req.Type),
	})
	if err != nil {
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, cat)
}

// FinanceSummary handles GET /api/v1/finance/summary
func (h *Handler) FinanceSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	month := r.URL.Query().Get("month")

	transactions, err := h.store.ListTransactions(r.Context(), userID, month)
	if err != nil {
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, finance.Summary(transactions))
}

// ExportFinance handles GET /api/v1/finance/export
func (h *Handler) ExportFinance(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	ds, err := h.store.ExportDataset(r.Context(), userID)
	if err != nil {
		MapStoreError(w, r, err)
		return
	}

	data, err := finance.EncodeDataset(ds)
	if err != nil {
		slog.Error("encode dataset failed", "error", err, "user_id", userID)
		WriteProblem(w, r, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", userID+"-finance.json"))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// ImportFinance handles POST /api/v1/finance/import. The replacement is
// destructive, so it refuses to run without an explicit confirm=true.
func (h *Handler) ImportFinance(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	if r.URL.Query().Get("confirm") != "true" {
		WriteProblemWithErrors(w, r, "Request contains invalid fields", []validation.ValidationError{
			{Field: "confirm", Message: "must be \"true\": import replaces all existing finance and diary data"},
		})
		return
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxImportBytes))
	if err != nil {
		WriteProblem(w, r, http.StatusBadRequest, "Failed to read request body")
		return
	}

	ds, err := finance.DecodeDataset(data)
	if err != nil {
		WriteProblem(w, r, http.StatusBadRequest, "Invalid dataset: "+err.Error())
		return
	}

	if err := h.store.ReplaceFinanceData(r.Context(), userID, ds); err != nil {
		slog.Error("import failed", "error", err, "user_id", userID)
		MapStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{
		"transactions": len(ds.Transactions),
		"goals":        len(ds.Goals),
		"categories":   len(ds.Categories),
		"diary":        len(ds.Diary),
	})
}
