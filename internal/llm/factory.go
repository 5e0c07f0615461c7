package llm

import (
	"context"
	"fmt"
)

// ProviderFactory builds a Provider bound to one API key.
type ProviderFactory func(ctx context.Context, apiKey string) (Provider, error)

// NewFactory returns the ProviderFactory for cfg.Provider.
func NewFactory(cfg Config) (ProviderFactory, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	model := cfg.ResolvedModel()

	switch cfg.Provider {
	case ProviderGemini:
		return func(ctx context.Context, key string) (Provider, error) {
			return NewGeminiProvider(ctx, GeminiConfig{APIKey: key, Model: model, BaseURL: cfg.BaseURL})
		}, nil
	case ProviderOpenAI:
		return func(_ context.Context, key string) (Provider, error) {
			return NewOpenAIProvider(OpenAIConfig{APIKey: key, Model: model, BaseURL: cfg.BaseURL})
		}, nil
	case ProviderOpenRouter:
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = defaultOpenRouterBaseURL
		}
		return func(_ context.Context, key string) (Provider, error) {
			return NewOpenAIProvider(OpenAIConfig{APIKey: key, Model: model, BaseURL: baseURL})
		}, nil
	case ProviderAnthropic:
		return func(_ context.Context, key string) (Provider, error) {
			return NewAnthropicProvider(AnthropicConfig{APIKey: key, Model: model, BaseURL: cfg.BaseURL})
		}, nil
	case ProviderMock:
		mock := NewDemoProvider()
		return func(context.Context, string) (Provider, error) { return mock, nil }, nil
	}
	return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
}
