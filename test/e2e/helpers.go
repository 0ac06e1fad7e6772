// Package e2e exercises the full service stack: the HTTP client from
// pkg/shalom against the real router and a real SQLite store.
package e2e

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/shalomhq/shalom/internal/api"
	"github.com/shalomhq/shalom/internal/assistant"
	"github.com/shalomhq/shalom/internal/store"
	"github.com/shalomhq/shalom/internal/types"
	"github.com/shalomhq/shalom/pkg/shalom"
)

const testAPIKey = "e2e-test-key"

// cannedAssistant returns a fixed reply and records the profile it was given.
type cannedAssistant struct {
	reply       string
	lastProfile assistant.Profile
	lastMessage string
}

func (a *cannedAssistant) Chat(_ context.Context, profile assistant.Profile, req types.ChatRequest) (string, error) {
	a.lastProfile = profile
	a.lastMessage = req.Message
	return a.reply, nil
}

func (a *cannedAssistant) ModelName() string { return "canned" }

var _ assistant.Assistant = (*cannedAssistant)(nil)

// env bundles everything a test needs to drive the stack.
type env struct {
	client    *shalom.Client
	store     *store.SQLiteStore
	assistant *cannedAssistant
	baseURL   string
}

// newEnv starts an httptest server over the real router with a temp-dir
// SQLite store. Everything is torn down via t.Cleanup.
func newEnv(t *testing.T) *env {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "e2e.db")
	st, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	t.Cleanup(func() { st.Close() })

	sophia := &cannedAssistant{reply: "Olá! Como posso ajudar?"}
	handler := api.NewHandler(st, sophia, testAPIKey, "e2e")
	srv := httptest.NewServer(api.NewRouter(handler))
	t.Cleanup(srv.Close)

	client, err := shalom.New(shalom.Config{
		BaseURL: srv.URL,
		APIKey:  testAPIKey,
	})
	if err != nil {
		t.Fatalf("shalom.New() error = %v", err)
	}

	return &env{client: client, store: st, assistant: sophia, baseURL: srv.URL}
}
