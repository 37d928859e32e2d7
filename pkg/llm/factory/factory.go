package factory

import (
	"context"
	"fmt"
	"time"

	"okada-agent-be/pkg/llm"
	"okada-agent-be/pkg/llm/anthropic"
	"okada-agent-be/pkg/llm/gemini"
	"okada-agent-be/pkg/llm/ollama"
	"okada-agent-be/pkg/llm/openai"
)

// ProviderConfig carries everything the supported backends need.
type ProviderConfig struct {
	Provider string // "ollama", "openai", "anthropic", "gemini"
	Model    string
	BaseURL  string
	APIKey   string

	// Ollama only.
	KeepAlive   time.Duration
	ContextSize int
	Timeout     time.Duration
}

func NewLLMProvider(ctx context.Context, cfg ProviderConfig) (llm.LLMProvider, error) {
	switch cfg.Provider {
	case "ollama", "":
		return ollama.New(ollama.Config{
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Model,
			KeepAlive:   cfg.KeepAlive,
			ContextSize: cfg.ContextSize,
			Timeout:     cfg.Timeout,
		}), nil
	case "openai":
		return openai.NewOpenAIProvider(cfg.APIKey, cfg.BaseURL, cfg.Model)
	case "anthropic":
		return anthropic.NewAnthropicProvider(cfg.APIKey, cfg.BaseURL, cfg.Model)
	case "gemini":
		return gemini.NewGeminiProvider(ctx, cfg.APIKey, cfg.Model)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
