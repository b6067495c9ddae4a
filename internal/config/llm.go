package config

import (
	"fmt"
	"time"
)

const (
	ProviderOpenAI          = "openai"
	ProviderLangChainOpenAI = "langchain-openai"
	ProviderGemini          = "gemini"
)

// LLMConfig describes the model endpoint. APIKey only ever comes from the environment.
type LLMConfig struct {
	Provider string        `yaml:"provider"`
	Model    string        `yaml:"model"`
	BaseURL  string        `yaml:"base_url"`
	Timeout  time.Duration `yaml:"timeout"`
	APIKey   string        `yaml:"-"`
}

func (c *LLMConfig) ValidateConfig() error {
	switch c.Provider {
	case ProviderOpenAI, ProviderLangChainOpenAI, ProviderGemini:
	default:
		return fmt.Errorf("unknown llm provider %q", c.Provider)
	}

	if c.Model == "" {
		return fmt.Errorf("llm.model is required")
	}

	if c.Provider != ProviderGemini && c.BaseURL == "" {
		return fmt.Errorf("llm.base_url is required for provider %s", c.Provider)
	}

	return nil
}

// Offline reports whether no credential is configured, in which case the model
// boundary answers with a placeholder instead of calling out.
func (c *LLMConfig) Offline() bool {
	return c.APIKey == ""
}

// GetModelInfo is logged at startup; it never includes the key.
func (c *LLMConfig) GetModelInfo() map[string]interface{} {
	return map[string]interface{}{
		"provider": c.Provider,
		"model":    c.Model,
		"base_url": c.BaseURL,
		"offline":  c.Offline(),
	}
}
