package llm

import (
	"context"
	"testing"
)

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected missing key error")
	}
	cfg.Anthropic.APIKey = "k"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg.Provider = "bogus"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected unknown provider error")
	}
	cfg.Provider = ProviderMock
	if err := cfg.Validate(); err != nil {
		t.Fatalf("mock needs no key: %v", err)
	}
}

func TestDiscover(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("OPENROUTER_API_KEY", "")

	cfg := Discover(DefaultConfig())
	if cfg.Provider != ProviderGemini || cfg.Gemini.APIKey != "g-key" {
		t.Fatalf("unexpected discovery result: %+v", cfg)
	}

	explicit := DefaultConfig()
	explicit.Anthropic.APIKey = "mine"
	if got := Discover(explicit); got.Provider != ProviderAnthropic {
		t.Fatalf("configured key should win, got %s", got.Provider)
	}
}

func TestNewProvider_Mock(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = ProviderMock
	p, err := NewProvider(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "mock" {
		t.Fatalf("unexpected model %s", p.ModelID())
	}
}

func TestPurpose(t *testing.T) {
	if PurposeFrom(context.Background()) != "unknown" {
		t.Fatal("expected default purpose")
	}
	if PurposeFrom(WithPurpose(context.Background(), "judge")) != "judge" {
		t.Fatal("purpose not carried")
	}
}
