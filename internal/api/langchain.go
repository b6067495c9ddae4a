package api

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	lcopenai "github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
)

// LangChainClient adapts a langchaingo model to the Completer boundary.
// A nil model means no credential was configured.
type LangChainClient struct {
	model llms.Model
}

func NewLangChainClient(model llms.Model) *LangChainClient {
	return &LangChainClient{model: model}
}

// NewLangChainOpenAI builds a client for an OpenAI compatible endpoint through langchaingo.
func NewLangChainOpenAI(apiKey, baseURL, model string) (*LangChainClient, error) {
	if apiKey == "" {
		return &LangChainClient{}, nil
	}
	llm, err := lcopenai.New(
		lcopenai.WithToken(apiKey),
		lcopenai.WithBaseURL(baseURL),
		lcopenai.WithModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create openai model: %w", err)
	}
	return &LangChainClient{model: llm}, nil
}

// NewGemini builds a client for Google's Gemini models.
func NewGemini(ctx context.Context, apiKey, model string) (*LangChainClient, error) {
	if apiKey == "" {
		return &LangChainClient{}, nil
	}
	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini model: %w", err)
	}
	return &LangChainClient{model: llm}, nil
}

func (c *LangChainClient) Complete(ctx context.Context, messages []Message, opts CompletionOptions) (string, error) {
	if c.model == nil {
		return OfflinePlaceholder, nil
	}

	content := make([]llms.MessageContent, 0, len(messages))
	for _, m := range messages {
		content = append(content, llms.TextParts(chatMessageType(m.Role), m.Content))
	}

	resp, err := c.model.GenerateContent(ctx, content,
		llms.WithMaxTokens(opts.MaxTokens),
		llms.WithTemperature(opts.Temperature),
	)
	if err != nil {
		return "", fmt.Errorf("error generating content: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Content, nil
}

func chatMessageType(role string) schema.ChatMessageType {
	switch role {
	case RoleSystem:
		return schema.ChatMessageTypeSystem
	case RoleAssistant:
		return schema.ChatMessageTypeAI
	default:
		return schema.ChatMessageTypeHuman
	}
}
