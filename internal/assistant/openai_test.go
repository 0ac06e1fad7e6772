package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/shalomhq/shalom/internal/types"
)

// Compile-time interface check for OpenAI
var _ Assistant = (*OpenAI)(nil)

// mockChatService implements ChatService for testing
type mockChatService struct {
	response *openai.ChatCompletion
	err      error
	// Track calls for verification
	callCount    int
	lastMessages []openai.ChatCompletionMessageParamUnion
}

func (m *mockChatService) New(ctx context.Context, params openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	m.callCount++
	m.lastMessages = params.Messages.Value
	return m.response, m.err
}

func createChatResponse(content string) *openai.ChatCompletion {
	return &openai.ChatCompletion{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: content}},
		},
	}
}

func TestChat_ReturnsReply(t *testing.T) {
	mock := &mockChatService{response: createChatResponse("Olá! Como posso ajudar?")}

	client := &OpenAI{chat: mock, model: "gpt-4o-mini", maxHistory: 20}

	reply, err := client.Chat(context.Background(), Profile{Wellbeing: 60}, types.ChatRequest{
		Message: "oi",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply != "Olá! Como posso ajudar?" {
		t.Errorf("unexpected reply: %q", reply)
	}

	// System prompt plus the user message.
	if len(mock.lastMessages) != 2 {
		t.Errorf("expected 2 messages, got %d", len(mock.lastMessages))
	}
}

func TestChat_IncludesHistory(t *testing.T) {
	mock := &mockChatService{response: createChatResponse("claro")}

	client := &OpenAI{chat: mock, model: "gpt-4o-mini", maxHistory: 20}

	_, err := client.Chat(context.Background(), Profile{}, types.ChatRequest{
		Message: "e depois?",
		History: []types.ChatTurn{
			{Role: "user", Content: "me ajuda com finanças"},
			{Role: "assistant", Content: "claro, por onde começamos?"},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// System + 2 history turns + new message.
	if len(mock.lastMessages) != 4 {
		t.Errorf("expected 4 messages, got %d", len(mock.lastMessages))
	}
}

func TestChat_CapsHistory(t *testing.T) {
	mock := &mockChatService{response: createChatResponse("ok")}

	client := &OpenAI{chat: mock, model: "gpt-4o-mini", maxHistory: 4}

	history := make([]types.ChatTurn, 10)
	for i := range history {
		history[i] = types.ChatTurn{Role: "user", Content: "turno"}
	}

	_, err := client.Chat(context.Background(), Profile{}, types.ChatRequest{
		Message: "agora",
		History: history,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// System + capped 4 turns + new message.
	if len(mock.lastMessages) != 6 {
		t.Errorf("expected 6 messages, got %d", len(mock.lastMessages))
	}
}

func TestChat_WrapsErrorWithContext(t *testing.T) {
	originalErr := errors.New("api error")
	mock := &mockChatService{err: originalErr}

	client := &OpenAI{chat: mock, model: "gpt-4o-mini"}

	_, err := client.Chat(context.Background(), Profile{}, types.ChatRequest{Message: "oi"})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "chat completion failed") {
		t.Errorf("error should contain 'chat completion failed', got: %v", err)
	}
	if !errors.Is(err, originalErr) {
		t.Errorf("error should wrap original error")
	}
}

func TestChat_NoChoicesReturned(t *testing.T) {
	mock := &mockChatService{response: &openai.ChatCompletion{}}

	client := &OpenAI{chat: mock, model: "gpt-4o-mini"}

	_, err := client.Chat(context.Background(), Profile{}, types.ChatRequest{Message: "oi"})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "no choices returned") {
		t.Errorf("error should mention missing choices, got: %v", err)
	}
}

func TestChat_RespectsContextCancellation(t *testing.T) {
	mock := &mockChatService{response: createChatResponse("ok")}

	client := &OpenAI{chat: mock, model: "gpt-4o-mini", timeout: time.Minute}

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	_, err := client.Chat(ctx, Profile{}, types.ChatRequest{Message: "oi"})
	if err == nil {
		t.Fatal("expected error for cancelled context")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled error, got: %v", err)
	}
}

func TestModelName_ReturnsConfiguredModel(t *testing.T) {
	client := &OpenAI{model: "gpt-4o-mini"}
	if client.ModelName() != "gpt-4o-mini" {
		t.Errorf("expected gpt-4o-mini, got %s", client.ModelName())
	}
}

func TestRenderProfile_IncludesNumbers(t *testing.T) {
	text := renderProfile(Profile{
		Wellbeing:      72,
		JournalStreak:  5,
		PlanCount:      2,
		MeanProgress:   40,
		SavingsRate:    30,
		RecentEmotions: []string{"happy", "calm"},
		GoalNames:      []string{"Reserva de emergência"},
	})

	for _, want := range []string{"72/100", "5 dias", "2 (progresso médio 40%)", "30%", "happy, calm", "Reserva de emergência"} {
		if !strings.Contains(text, want) {
			t.Errorf("profile text missing %q:\n%s", want, text)
		}
	}
}

func TestRenderProfile_OmitsEmptyLists(t *testing.T) {
	text := renderProfile(Profile{Wellbeing: 50})
	if strings.Contains(text, "Emoções recentes") {
		t.Error("empty emotions list should be omitted")
	}
	if strings.Contains(text, "Metas financeiras") {
		t.Error("empty goals list should be omitted")
	}
}
