package llm

import (
	"errors"
	"testing"

	"github.com/ppiankov/claimcheck/internal/model"
)

func TestNewProvider(t *testing.T) {
	p, err := NewProvider(Config{})
	if err != nil || p != nil {
		t.Fatalf("Expected nil provider without error for empty config, got %v, %v", p, err)
	}

	p, err = NewProvider(Config{Provider: "OpenAI", APIKey: "k"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if p.Name() != "openai" {
		t.Errorf("Expected openai provider, got %s", p.Name())
	}

	if _, err := NewProvider(Config{Provider: "openai"}); !errors.Is(err, model.ErrConfigMissing) {
		t.Errorf("Expected ErrConfigMissing, got %v", err)
	}

	if _, err := NewProvider(Config{Provider: "gemini"}); err == nil {
		t.Error("Expected error for unknown provider")
	}
}

func TestEnabled(t *testing.T) {
	cfg := model.DefaultConfig()
	if Enabled(cfg) {
		t.Error("Expected default config (no key) to be disabled")
	}

	cfg.LLM.APIKey = "sk-test"
	if !Enabled(cfg) {
		t.Error("Expected openai with key to be enabled")
	}

	cfg.LLM.Provider = "ollama"
	cfg.LLM.APIKey = ""
	if !Enabled(cfg) {
		t.Error("Expected ollama to be enabled without key")
	}

	cfg.LLM.Provider = ""
	if Enabled(cfg) {
		t.Error("Expected empty provider to be disabled")
	}
}
