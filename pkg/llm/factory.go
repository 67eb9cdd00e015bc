package llm

import (
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/openai/openai-go"
)

const (
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

type Config struct {
	Provider string
	APIKey   string
	BaseURL  string
	Timeout  time.Duration
}

func New(cfg Config) (Generator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("no API key configured for provider %q", cfg.Provider)
	}

	switch cfg.Provider {
	case ProviderGemini, "":
		return NewGeminiClient(cfg.APIKey, cfg.BaseURL, cfg.Timeout), nil
	case ProviderOpenAI:
		return NewOpenAIClient(cfg.APIKey, cfg.BaseURL, cfg.Timeout), nil
	case ProviderAnthropic:
		return NewAnthropicClient(cfg.APIKey, cfg.BaseURL, cfg.Timeout), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q (valid: gemini, openai, anthropic)", cfg.Provider)
	}
}

// DefaultModels returns the deep and fast model identifiers for a provider.
func DefaultModels(provider string) (deep, fast string) {
	switch provider {
	case ProviderOpenAI:
		return string(openai.ChatModelGPT4_1), string(openai.ChatModelGPT4oMini)
	case ProviderAnthropic:
		return "claude-sonnet-4-5", string(anthropic.ModelClaudeHaiku4_5)
	default:
		return "gemini-3-pro-preview", "gemini-3-flash-preview"
	}
}
