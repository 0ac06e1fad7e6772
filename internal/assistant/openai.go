package assistant

import (
	"context"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/shalomhq/shalom/internal/types"
)

// Compile-time interface check
var _ Assistant = (*OpenAI)(nil)

// ChatService defines the interface for making chat completion API calls.
// This abstraction enables testing without calling the real OpenAI API.
type ChatService interface {
	New(ctx context.Context, params openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// OpenAI implements the assistant using OpenAI's chat completions API.
type OpenAI struct {
	chat       ChatService
	model      openai.ChatModel
	timeout    time.Duration
	maxHistory int
}

// NewOpenAI creates a new OpenAI-backed assistant.
func NewOpenAI(apiKey, model string, timeout time.Duration, maxHistory int) *OpenAI {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAI{
		chat:       client.Chat.Completions,
		model:      openai.ChatModel(model),
		timeout:    timeout,
		maxHistory: maxHistory,
	}
}

// Chat sends the conversation to the model and returns the reply. History
// beyond the configured cap is dropped oldest-first so long conversations
// stay within the context window.
func (o *OpenAI) Chat(ctx context.Context, profile Profile, req types.ChatRequest) (string, error) {
	history := req.History
	if o.maxHistory > 0 && len(history) > o.maxHistory {
		history = history[len(history)-o.maxHistory:]
	}

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+2)
	messages = append(messages, openai.SystemMessage(systemPrompt+"\n\n"+renderProfile(profile)))
	for _, turn := range history {
		switch turn.Role {
		case "assistant":
			messages = append(messages, openai.AssistantMessage(turn.Content))
		default:
			messages = append(messages, openai.UserMessage(turn.Content))
		}
	}
	messages = append(messages, openai.UserMessage(req.Message))

	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	resp, err := o.chat.New(ctx, openai.ChatCompletionNewParams{
		Messages: openai.F(messages),
		Model:    openai.F(o.model),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion failed: no choices returned")
	}

	return resp.Choices[0].Message.Content, nil
}

// ModelName returns the chat model name
func (o *OpenAI) ModelName() string {
	return string(o.model)
}
