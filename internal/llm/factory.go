package llm

import (
	"fmt"
	"strings"

	"github.com/ppiankov/claimcheck/internal/model"
)

// NewProvider creates a provider from configuration. It returns (nil, nil)
// when no provider is configured, and an error wrapping
// model.ErrConfigMissing when the provider needs a credential it lacks.
func NewProvider(config Config) (Provider, error) {
	provider := strings.ToLower(strings.TrimSpace(config.Provider))

	switch provider {
	case "openai":
		return NewOpenAIProvider(config)

	case "anthropic", "claude":
		return NewAnthropicProvider(config)

	case "ollama":
		return NewOllamaProvider(config)

	case "", "none":
		// No provider configured - model-backed stages fall back
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai, anthropic, ollama)", config.Provider)
	}
}

// Enabled reports whether cfg names a provider with the credentials it needs
func Enabled(cfg *model.Config) bool {
	switch strings.ToLower(strings.TrimSpace(cfg.LLM.Provider)) {
	case "openai", "anthropic", "claude":
		return cfg.LLM.APIKey != ""
	case "ollama":
		return true
	}
	return false
}
