package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/shalomhq/shalom/internal/types"
)

func TestAddEmotion_Success(t *testing.T) {
	ms := &mockStore{
		entry: &types.EmotionEntry{ID: testULID, UserID: "u1", Emotion: "happy", Intensity: 8},
	}
	h := newTestHandler(ms, &mockAssistant{}, "key", "1.0.0")

	w := doRequest(t, h, http.MethodPost, "/api/v1/emotions",
		`{"user_id":"u1","emotion":"happy","intensity":8,"note":"bom dia"}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusCreated, w.Body.String())
	}
}

func TestAddEmotion_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown emotion", `{"user_id":"u1","emotion":"ecstatic","intensity":5}`},
		{"intensity too low", `{"user_id":"u1","emotion":"happy","intensity":0}`},
		{"intensity too high", `{"user_id":"u1","emotion":"happy","intensity":11}`},
		{"missing user", `{"emotion":"happy","intensity":5}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(&mockStore{}, &mockAssistant{}, "key", "1.0.0")
			w := doRequest(t, h, http.MethodPost, "/api/v1/emotions", tt.body)

			if w.Code != http.StatusUnprocessableEntity {
				t.Errorf("status = %d, want %d: %s", w.Code, http.StatusUnprocessableEntity, w.Body.String())
			}
		})
	}
}

func TestWellbeing_ScoresRecentEntries(t *testing.T) {
	// Two recent entries: happy(8) and sad(4) within the last week, plus one
	// old entry that must not affect the score.
	ms := &mockStore{entries: []types.EmotionEntry{
		{Emotion: "happy", Intensity: 8, RecordedAt: fixedNow.AddDate(0, 0, -1)},
		{Emotion: "sad", Intensity: 4, RecordedAt: fixedNow.AddDate(0, 0, -2)},
		{Emotion: "angry", Intensity: 10, RecordedAt: fixedNow.AddDate(0, 0, -30)},
	}}
	h := newTestHandler(ms, &mockAssistant{}, "key", "1.0.0")

	w := doRequest(t, h, http.MethodGet, "/api/v1/emotions/wellbeing?user_id=u1", "")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	var resp types.WellbeingResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	// 50 + 5*mean(1.0*8, -0.8*4) = 50 + 5*2.4 = 62
	if resp.Score != 62 {
		t.Errorf("score = %d, want 62", resp.Score)
	}
	if resp.Entries != 3 {
		t.Errorf("entries = %d, want 3", resp.Entries)
	}
}

func TestWellbeing_NoEntriesIsNeutral(t *testing.T) {
	h := newTestHandler(&mockStore{}, &mockAssistant{}, "key", "1.0.0")

	w := doRequest(t, h, http.MethodGet, "/api/v1/emotions/wellbeing?user_id=u1", "")

	var resp types.WellbeingResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Score != 50 {
		t.Errorf("score = %d, want 50", resp.Score)
	}
	if resp.Streak != 0 {
		t.Errorf("streak = %d, want 0", resp.Streak)
	}
}

func TestListEmotions_RejectsBadDaysParam(t *testing.T) {
	h := newTestHandler(&mockStore{}, &mockAssistant{}, "key", "1.0.0")
	w := doRequest(t, h, http.MethodGet, "/api/v1/emotions?user_id=u1&days=abc", "")

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnprocessableEntity)
	}
}

func TestListDocuments_RejectsUnknownNamespace(t *testing.T) {
	h := newTestHandler(&mockStore{}, &mockAssistant{}, "key", "1.0.0")
	w := doRequest(t, h, http.MethodGet, "/api/v1/data/secrets?user_id=u1", "")

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnprocessableEntity)
	}
}

func TestPutDocument_StoresRawJSON(t *testing.T) {
	ms := &mockStore{}
	h := newTestHandler(ms, &mockAssistant{}, "key", "1.0.0")

	w := doRequest(t, h, http.MethodPut, "/api/v1/data/diary/2026-03-01?user_id=u1",
		`{"mood":"bom","gratitude":["família"]}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}
	var doc types.Document
	if err := json.Unmarshal(w.Body.Bytes(), &doc); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if doc.Namespace != "diary" || doc.Key != "2026-03-01" {
		t.Errorf("document = %+v", doc)
	}
}

func TestPutDocument_RejectsInvalidJSON(t *testing.T) {
	h := newTestHandler(&mockStore{}, &mockAssistant{}, "key", "1.0.0")
	w := doRequest(t, h, http.MethodPut, "/api/v1/data/diary/k?user_id=u1", `not json`)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestChat_ReturnsAssistantReply(t *testing.T) {
	ma := &mockAssistant{reply: "Você está indo bem!"}
	h := newTestHandler(&mockStore{}, ma, "key", "1.0.0")

	w := doRequest(t, h, http.MethodPost, "/api/v1/assistant/chat",
		`{"user_id":"u1","message":"como estou?"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}
	var resp types.ChatResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Message != "Você está indo bem!" {
		t.Errorf("reply = %q", resp.Message)
	}
}

func TestChat_AssistantDownReturns502(t *testing.T) {
	ma := &mockAssistant{err: errDatabase}
	h := newTestHandler(&mockStore{}, ma, "key", "1.0.0")

	w := doRequest(t, h, http.MethodPost, "/api/v1/assistant/chat",
		`{"user_id":"u1","message":"oi"}`)

	if w.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadGateway)
	}
	var p Problem
	if err := json.Unmarshal(w.Body.Bytes(), &p); err != nil {
		t.Fatalf("failed to unmarshal problem: %v", err)
	}
	if p.Type != "https://shalom.dev/errors/bad-gateway" {
		t.Errorf("problem type = %q", p.Type)
	}
	if p.Detail != "Assistant unavailable" {
		t.Errorf("problem detail = %q", p.Detail)
	}
}

func TestChat_RejectsBadHistoryRole(t *testing.T) {
	h := newTestHandler(&mockStore{}, &mockAssistant{}, "key", "1.0.0")

	w := doRequest(t, h, http.MethodPost, "/api/v1/assistant/chat",
		`{"user_id":"u1","message":"oi","history":[{"role":"system","content":"x"}]}`)

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnprocessableEntity)
	}
}
