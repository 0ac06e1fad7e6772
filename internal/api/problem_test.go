package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shalomhq/shalom/internal/store"
	"github.com/shalomhq/shalom/internal/validation"
)

func TestWriteProblem_KnownStatus(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/plans/x", nil)
	w := httptest.NewRecorder()

	WriteProblem(w, req, http.StatusNotFound, "Resource not found")

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("Content-Type = %q, want application/problem+json", ct)
	}

	var p Problem
	if err := json.Unmarshal(w.Body.Bytes(), &p); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if p.Type != "https://shalom.dev/errors/not-found" {
		t.Errorf("type = %q", p.Type)
	}
	if p.Title != "Not Found" {
		t.Errorf("title = %q", p.Title)
	}
	if p.Instance != "/api/v1/plans/x" {
		t.Errorf("instance = %q", p.Instance)
	}
}

func TestWriteProblem_UnknownStatusFallsBack(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	w := httptest.NewRecorder()

	WriteProblem(w, req, http.StatusTeapot, "short and stout")

	var p Problem
	if err := json.Unmarshal(w.Body.Bytes(), &p); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if p.Type != "https://shalom.dev/errors/unknown" {
		t.Errorf("type = %q, want unknown fallback", p.Type)
	}
}

func TestWriteProblemWithErrors_IncludesFieldErrors(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/plans", nil)
	w := httptest.NewRecorder()

	WriteProblemWithErrors(w, req, "Request contains invalid fields", []validation.ValidationError{
		{Field: "title", Message: "is required"},
		{Field: "category", Message: "must be one of: programming, languages, exercises, other"},
	})

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnprocessableEntity)
	}

	var p ProblemWithErrors
	if err := json.Unmarshal(w.Body.Bytes(), &p); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if len(p.Errors) != 2 {
		t.Fatalf("errors = %d, want 2", len(p.Errors))
	}
	if p.Errors[0].Field != "title" {
		t.Errorf("first error field = %q, want title", p.Errors[0].Field)
	}
}

func TestMapStoreError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", store.ErrNotFound, http.StatusNotFound},
		{"habit already done", store.ErrHabitAlreadyDone, http.StatusConflict},
		{"duplicate category", store.ErrDuplicateCategory, http.StatusConflict},
		{"root skill", store.ErrRootSkill, http.StatusForbidden},
		{"wrapped not found", errors.Join(errors.New("ctx"), store.ErrNotFound), http.StatusNotFound},
		{"unknown error", errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			w := httptest.NewRecorder()

			MapStoreError(w, req, tt.err)

			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestMapStoreError_NeverLeaksInternalDetail(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	w := httptest.NewRecorder()

	MapStoreError(w, req, errors.New("password=hunter2 connection refused"))

	var p Problem
	if err := json.Unmarshal(w.Body.Bytes(), &p); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if p.Detail != "Internal Server Error" {
		t.Errorf("detail = %q, want generic message", p.Detail)
	}
}
