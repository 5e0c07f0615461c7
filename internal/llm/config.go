package llm

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Provider names accepted by Config.Provider.
const (
	ProviderGemini     = "gemini"
	ProviderOpenAI     = "openai"
	ProviderOpenRouter = "openrouter"
	ProviderAnthropic  = "anthropic"
	ProviderMock       = "mock"
)

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects the backend: "gemini", "openai", "openrouter",
	// "anthropic" or "mock".
	Provider string

	// Model is a friendly name or a provider model ID. Empty uses the
	// provider default.
	Model string

	// BaseURL overrides the provider endpoint. Optional.
	BaseURL string

	// APIKeys are rotated round-robin, one per request.
	APIKeys []string

	// Timeout bounds a single request. Default: 60s.
	Timeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider: ProviderGemini,
		Timeout:  60 * time.Second,
	}
}

// defaultModels is the model used when Config.Model is empty.
var defaultModels = map[string]string{
	ProviderGemini:     "gemini-flash",
	ProviderOpenAI:     "gpt-4o-mini",
	ProviderOpenRouter: "google/gemini-2.0-flash-exp",
	ProviderAnthropic:  "claude-haiku",
	ProviderMock:       "mock",
}

// ResolvedModel returns the configured model or the provider default.
func (c Config) ResolvedModel() string {
	if c.Model != "" {
		return c.Model
	}
	return defaultModels[c.Provider]
}

// Validate checks the provider name. Missing keys are not an error here;
// they surface as ConfigurationError when a request is attempted.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderGemini, ProviderOpenAI, ProviderOpenRouter, ProviderAnthropic, ProviderMock:
		return nil
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
}

// discoverEnv lists the standard API key variables in priority order.
var discoverEnv = []struct {
	env      string
	provider string
}{
	{"GEMINI_API_KEY", ProviderGemini},
	{"OPENAI_API_KEY", ProviderOpenAI},
	{"ANTHROPIC_API_KEY", ProviderAnthropic},
	{"OPENROUTER_API_KEY", ProviderOpenRouter},
}

// DiscoverConfig probes standard API key env vars in priority order and
// returns a Config for the first provider whose key is found. A variable may
// hold several comma-separated keys. Returns (Config{}, false) if none found.
func DiscoverConfig() (Config, bool) {
	for _, d := range discoverEnv {
		if v := os.Getenv(d.env); v != "" {
			cfg := DefaultConfig()
			cfg.Provider = d.provider
			cfg.APIKeys = SplitKeys(v)
			return cfg, true
		}
	}
	return Config{}, false
}

// SplitKeys splits a comma-separated key list, dropping blanks.
func SplitKeys(s string) []string {
	var keys []string
	for _, k := range strings.Split(s, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}
