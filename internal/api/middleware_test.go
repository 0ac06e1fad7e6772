package api

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/shalomhq/shalom/internal/types"
)

const testAPIKey = "test-secret-key-12345"

// mockHandler is a simple handler that records if it was called
func mockHandler() (http.Handler, *bool) {
	called := false
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}), &called
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	handler, called := mockHandler()
	middleware := AuthMiddleware(testAPIKey)(handler)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/plans", nil)
	req.Header.Set("Authorization", "Bearer "+testAPIKey)
	w := httptest.NewRecorder()

	middleware.ServeHTTP(w, req)

	if !*called {
		t.Error("handler was not called for valid token")
	}
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	handler, called := mockHandler()
	middleware := AuthMiddleware(testAPIKey)(handler)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/plans", nil)
	// No Authorization header
	w := httptest.NewRecorder()

	middleware.ServeHTTP(w, req)

	if *called {
		t.Error("handler should not be called for missing header")
	}
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	handler, called := mockHandler()
	middleware := AuthMiddleware(testAPIKey)(handler)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/plans", nil)
	req.Header.Set("Authorization", "Bearer wrong-token")
	w := httptest.NewRecorder()

	middleware.ServeHTTP(w, req)

	if *called {
		t.Error("handler should not be called for invalid token")
	}
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestAuthMiddleware_ResponseFormat_RFC7807(t *testing.T) {
	handler, _ := mockHandler()
	middleware := AuthMiddleware(testAPIKey)(handler)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/plans", nil)
	req.Header.Set("Authorization", "Bearer wrong-token")
	w := httptest.NewRecorder()

	middleware.ServeHTTP(w, req)

	contentType := w.Header().Get("Content-Type")
	if contentType != "application/problem+json" {
		t.Errorf("Content-Type = %v, want application/problem+json", contentType)
	}

	var p Problem
	if err := json.Unmarshal(w.Body.Bytes(), &p); err != nil {
		t.Fatalf("failed to unmarshal response as RFC 7807: %v", err)
	}

	if p.Type != "https://shalom.dev/errors/unauthorized" {
		t.Errorf("type = %v, want https://shalom.dev/errors/unauthorized", p.Type)
	}
	if p.Status != 401 {
		t.Errorf("status = %d, want 401", p.Status)
	}
	if p.Instance != "/api/v1/plans" {
		t.Errorf("instance = %v, want /api/v1/plans", p.Instance)
	}
}

func TestAuthMiddleware_NoKeyLeak(t *testing.T) {
	handler, _ := mockHandler()
	middleware := AuthMiddleware(testAPIKey)(handler)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/plans", nil)
	req.Header.Set("Authorization", "Bearer wrong-token")
	w := httptest.NewRecorder()

	middleware.ServeHTTP(w, req)

	if strings.Contains(w.Body.String(), testAPIKey) {
		t.Error("response body contains the expected API key - security violation!")
	}
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		expected string
	}{
		{"valid token", "Bearer abc123", "abc123"},
		{"missing header", "", ""},
		{"no bearer prefix", "abc123", ""},
		{"empty after bearer", "Bearer ", ""},
		{"whitespace after bearer", "Bearer    ", ""},
		{"lowercase bearer", "bearer abc123", ""},
		{"basic auth", "Basic abc123", ""},
		{"token with spaces trimmed", "Bearer  abc123 ", "abc123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			got := extractBearerToken(req)
			if got != tt.expected {
				t.Errorf("extractBearerToken() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestConstantTimeEqual(t *testing.T) {
	tests := []struct {
		name     string
		a        string
		b        string
		expected bool
	}{
		{"equal strings", "abc123", "abc123", true},
		{"different strings", "abc123", "xyz789", false},
		{"different lengths", "abc", "abcdef", false},
		{"empty strings", "", "", true},
		{"one empty", "abc", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := constantTimeEqual(tt.a, tt.b)
			if got != tt.expected {
				t.Errorf("constantTimeEqual(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}

func TestHealthBypass_ViaRoutes(t *testing.T) {
	ms := &mockStore{stats: &types.StoreStats{}}
	h := newTestHandler(ms, &mockAssistant{model: "gpt-4o-mini"}, testAPIKey, "1.0.0")
	router := NewRouter(h)

	// Health without auth succeeds.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("health endpoint without auth: status = %d, want %d", w.Code, http.StatusOK)
	}

	// Protected endpoint without auth fails with 401.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/plans?user_id=u1", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("protected endpoint without auth: status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestLoggingMiddleware_NoAuthHeaderLeak(t *testing.T) {
	var logBuf bytes.Buffer
	handler := slog.NewTextHandler(&logBuf, nil)
	oldLogger := slog.Default()
	slog.SetDefault(slog.New(handler))
	defer slog.SetDefault(oldLogger)

	innerHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	middleware := LoggingMiddleware(innerHandler)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/plans", nil)
	req.Header.Set("Authorization", "Bearer "+testAPIKey)
	w := httptest.NewRecorder()

	middleware.ServeHTTP(w, req)

	if strings.Contains(logBuf.String(), testAPIKey) {
		t.Error("log output contains the API key - security violation!")
	}
	if !strings.Contains(logBuf.String(), "request completed") {
		t.Error("expected 'request completed' in log output")
	}
}

func TestLoggingMiddleware_RequestIDIncluded(t *testing.T) {
	var logBuf bytes.Buffer
	handler := slog.NewJSONHandler(&logBuf, nil)
	oldLogger := slog.Default()
	slog.SetDefault(slog.New(handler))
	defer slog.SetDefault(oldLogger)

	innerHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	router := chi.NewRouter()
	router.Use(chiMiddleware.RequestID)
	router.Use(LoggingMiddleware)
	router.Get("/test", innerHandler)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var logEntry map[string]interface{}
	if err := json.Unmarshal(logBuf.Bytes(), &logEntry); err != nil {
		t.Fatalf("failed to parse log as JSON: %v", err)
	}

	reqID, ok := logEntry["request_id"]
	if !ok {
		t.Error("log entry missing 'request_id' field")
	}
	if reqID == "" {
		t.Error("request_id is empty")
	}
}

func TestLogLevelForStatus(t *testing.T) {
	tests := []struct {
		status int
		want   slog.Level
	}{
		{200, slog.LevelInfo},
		{204, slog.LevelInfo},
		{304, slog.LevelInfo},
		{400, slog.LevelWarn},
		{404, slog.LevelWarn},
		{422, slog.LevelWarn},
		{500, slog.LevelError},
		{503, slog.LevelError},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			if got := logLevelForStatus(tt.status); got != tt.want {
				t.Errorf("logLevelForStatus(%d) = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}

func TestRecoveryMiddleware_Panic(t *testing.T) {
	// Suppress log output during test
	var logBuf bytes.Buffer
	handler := slog.NewTextHandler(&logBuf, nil)
	oldLogger := slog.Default()
	slog.SetDefault(slog.New(handler))
	defer slog.SetDefault(oldLogger)

	panicHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("something went wrong")
	})

	middleware := RecoveryMiddleware(panicHandler)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/plans", nil)
	w := httptest.NewRecorder()

	middleware.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}

	var p Problem
	if err := json.Unmarshal(w.Body.Bytes(), &p); err != nil {
		t.Fatalf("failed to unmarshal response as RFC 7807: %v", err)
	}
	if p.Detail != "Internal Server Error" {
		t.Errorf("detail = %q, want generic 'Internal Server Error'", p.Detail)
	}

	if !strings.Contains(logBuf.String(), "panic recovered") {
		t.Error("expected 'panic recovered' in log output")
	}
	if !strings.Contains(logBuf.String(), "something went wrong") {
		t.Error("expected panic message in log output")
	}
}
