package api

import (
	"context"
	"errors"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// OfflinePlaceholder is returned instead of a model reply when no credential is configured.
const OfflinePlaceholder = "[Simulated LLM] Set GROQ_API_KEY in .env to use real LLM."

var ErrEmptyResponse = errors.New("model returned no choices")

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionOptions bounds one model call.
type CompletionOptions struct {
	MaxTokens   int
	Temperature float64
}

// Completer is the model boundary: messages in, the assistant's reply out.
type Completer interface {
	Complete(ctx context.Context, messages []Message, opts CompletionOptions) (string, error)
}
