package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shalomhq/shalom/internal/store"
	"github.com/shalomhq/shalom/internal/types"
)

var errDatabase = errors.New("database error")

const testULID = "01HQZX3VJ4K5M6N7P8Q9R0S1T2"

// doRequest runs an authenticated request through the full router.
func doRequest(t *testing.T, h *Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+h.apiKey)
	w := httptest.NewRecorder()
	NewRouter(h).ServeHTTP(w, req)
	return w
}

func TestCreatePlan_Success(t *testing.T) {
	ms := &mockStore{
		bundle: &types.PlanBundle{
			Plan: types.Plan{ID: testULID, UserID: "u1", Title: "Aprender Go"},
		},
	}
	h := newTestHandler(ms, &mockAssistant{}, "key", "1.0.0")

	w := doRequest(t, h, http.MethodPost, "/api/v1/plans",
		`{"user_id":"u1","title":"Aprender Go","category":"programming","target_date":"2026-09-01"}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusCreated, w.Body.String())
	}
	if ms.lastSeed == nil {
		t.Fatal("store never received a seed bundle")
	}
	if ms.lastSeed.Plan.Category != types.CategoryProgramming {
		t.Errorf("seed category = %q, want programming", ms.lastSeed.Plan.Category)
	}
	if len(ms.lastSeed.Milestones) != 3 {
		t.Errorf("seed milestones = %d, want 3", len(ms.lastSeed.Milestones))
	}
}

func TestCreatePlan_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing title", `{"user_id":"u1","category":"programming","target_date":"2026-09-01"}`},
		{"bad category", `{"user_id":"u1","title":"x","category":"cooking","target_date":"2026-09-01"}`},
		{"bad date", `{"user_id":"u1","title":"x","category":"other","target_date":"soon"}`},
		{"past target date", `{"user_id":"u1","title":"x","category":"other","target_date":"2020-01-01"}`},
		{"missing user", `{"title":"x","category":"other","target_date":"2026-09-01"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(&mockStore{}, &mockAssistant{}, "key", "1.0.0")
			w := doRequest(t, h, http.MethodPost, "/api/v1/plans", tt.body)

			if w.Code != http.StatusUnprocessableEntity {
				t.Errorf("status = %d, want %d: %s", w.Code, http.StatusUnprocessableEntity, w.Body.String())
			}
			if ct := w.Header().Get("Content-Type"); ct != "application/problem+json" {
				t.Errorf("content type = %q, want application/problem+json", ct)
			}
		})
	}
}

func TestCreatePlan_InvalidJSON(t *testing.T) {
	h := newTestHandler(&mockStore{}, &mockAssistant{}, "key", "1.0.0")
	w := doRequest(t, h, http.MethodPost, "/api/v1/plans", `{broken`)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestListPlans_RequiresUserID(t *testing.T) {
	h := newTestHandler(&mockStore{}, &mockAssistant{}, "key", "1.0.0")
	w := doRequest(t, h, http.MethodGet, "/api/v1/plans", "")

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnprocessableEntity)
	}
}

func TestListPlans_ReturnsBundles(t *testing.T) {
	ms := &mockStore{bundles: []types.PlanBundle{
		{Plan: types.Plan{ID: testULID, UserID: "u1"}},
	}}
	h := newTestHandler(ms, &mockAssistant{}, "key", "1.0.0")

	w := doRequest(t, h, http.MethodGet, "/api/v1/plans?user_id=u1", "")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	var plans []types.PlanBundle
	if err := json.Unmarshal(w.Body.Bytes(), &plans); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if len(plans) != 1 {
		t.Errorf("plans = %d, want 1", len(plans))
	}
}

func TestGetPlan_NotFound(t *testing.T) {
	ms := &mockStore{planErr: store.ErrNotFound}
	h := newTestHandler(ms, &mockAssistant{}, "key", "1.0.0")

	w := doRequest(t, h, http.MethodGet, "/api/v1/plans/"+testULID, "")

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestGetPlan_RejectsMalformedID(t *testing.T) {
	h := newTestHandler(&mockStore{}, &mockAssistant{}, "key", "1.0.0")
	w := doRequest(t, h, http.MethodGet, "/api/v1/plans/not-a-ulid", "")

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnprocessableEntity)
	}
}

func TestDeletePlan_Success(t *testing.T) {
	h := newTestHandler(&mockStore{}, &mockAssistant{}, "key", "1.0.0")
	w := doRequest(t, h, http.MethodDelete, "/api/v1/plans/"+testULID, "")

	if w.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNoContent)
	}
}

func TestToggleMilestone_ReturnsProgress(t *testing.T) {
	ms := &mockStore{
		milestone: &types.Milestone{ID: testULID, Completed: true},
		progress:  25,
	}
	h := newTestHandler(ms, &mockAssistant{}, "key", "1.0.0")

	w := doRequest(t, h, http.MethodPost, "/api/v1/milestones/"+testULID+"/toggle", "")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	var resp types.MilestoneResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.PlanProgress != 25 {
		t.Errorf("plan progress = %d, want 25", resp.PlanProgress)
	}
	if !resp.Milestone.Completed {
		t.Error("milestone not completed in response")
	}
}

func TestAddMilestone_ValidatesDueDate(t *testing.T) {
	h := newTestHandler(&mockStore{}, &mockAssistant{}, "key", "1.0.0")
	w := doRequest(t, h, http.MethodPost, "/api/v1/plans/"+testULID+"/milestones",
		`{"title":"Marco","due_date":"not-a-date"}`)

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnprocessableEntity)
	}
}

func TestCompleteHabit_AlreadyDoneConflicts(t *testing.T) {
	ms := &mockStore{habitErr: store.ErrHabitAlreadyDone}
	h := newTestHandler(ms, &mockAssistant{}, "key", "1.0.0")

	w := doRequest(t, h, http.MethodPost, "/api/v1/habits/"+testULID+"/complete", "")

	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want %d", w.Code, http.StatusConflict)
	}
}

func TestAddHabit_ValidatesFrequency(t *testing.T) {
	h := newTestHandler(&mockStore{}, &mockAssistant{}, "key", "1.0.0")
	w := doRequest(t, h, http.MethodPost, "/api/v1/plans/"+testULID+"/habits",
		`{"title":"Meditar","frequency":"hourly"}`)

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnprocessableEntity)
	}
}

func TestUpdateSkillProgress_ValidatesRange(t *testing.T) {
	h := newTestHandler(&mockStore{}, &mockAssistant{}, "key", "1.0.0")
	w := doRequest(t, h, http.MethodPatch, "/api/v1/skills/"+testULID,
		`{"progress":140}`)

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnprocessableEntity)
	}
}

func TestDeleteSkill_RootForbidden(t *testing.T) {
	ms := &mockStore{skillErr: store.ErrRootSkill}
	h := newTestHandler(ms, &mockAssistant{}, "key", "1.0.0")

	w := doRequest(t, h, http.MethodDelete, "/api/v1/skills/"+testULID, "")

	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", w.Code, http.StatusForbidden)
	}
}
