package llm

import (
	"fmt"
	"os"
	"time"

	"github.com/abhisek/thetaquiz/internal/retry"
)

// Provider names accepted in Config.Provider.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderOpenRouter = "openrouter"
	ProviderGemini     = "gemini"
	ProviderMock       = "mock"
)

const openRouterBaseURL = "https://openrouter.ai/api/v1"

// Config selects and configures a provider.
type Config struct {
	Provider string `mapstructure:"provider"`

	Anthropic AnthropicConfig `mapstructure:"anthropic"`
	OpenAI    OpenAIConfig    `mapstructure:"openai"`
	Gemini    GeminiConfig    `mapstructure:"gemini"`

	// Timeout bounds one Generate call including retries. Default: 20s.
	Timeout time.Duration `mapstructure:"timeout"`

	MaxAttempts int `mapstructure:"max_attempts"`
}

type AnthropicConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// OpenAIConfig also serves OpenRouter, which speaks the same protocol.
type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// DefaultConfig returns a Config with sensible defaults and no keys.
func DefaultConfig() Config {
	return Config{
		Provider:    ProviderAnthropic,
		Anthropic:   AnthropicConfig{Model: "claude-haiku"},
		OpenAI:      OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:      GeminiConfig{Model: "gemini-flash"},
		Timeout:     20 * time.Second,
		MaxAttempts: 3,
	}
}

// Discover fills in the first API key found in the conventional vendor
// environment variables when cfg has none for its provider.
func Discover(cfg Config) Config {
	if cfg.keyFor(cfg.Provider) != "" {
		return cfg
	}
	probes := []struct {
		env, provider string
	}{
		{"ANTHROPIC_API_KEY", ProviderAnthropic},
		{"OPENAI_API_KEY", ProviderOpenAI},
		{"GEMINI_API_KEY", ProviderGemini},
		{"OPENROUTER_API_KEY", ProviderOpenRouter},
	}
	for _, p := range probes {
		k := os.Getenv(p.env)
		if k == "" {
			continue
		}
		cfg.Provider = p.provider
		switch p.provider {
		case ProviderAnthropic:
			cfg.Anthropic.APIKey = k
		case ProviderGemini:
			cfg.Gemini.APIKey = k
		default:
			cfg.OpenAI.APIKey = k
		}
		return cfg
	}
	return cfg
}

func (c Config) keyFor(provider string) string {
	switch provider {
	case ProviderAnthropic:
		return c.Anthropic.APIKey
	case ProviderOpenAI, ProviderOpenRouter:
		return c.OpenAI.APIKey
	case ProviderGemini:
		return c.Gemini.APIKey
	case ProviderMock:
		return "mock"
	}
	return ""
}

// Validate checks the provider name and that it has a key.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderAnthropic, ProviderOpenAI, ProviderOpenRouter, ProviderGemini, ProviderMock:
	default:
		return fmt.Errorf("unknown LLM provider %q", c.Provider)
	}
	if c.keyFor(c.Provider) == "" {
		return fmt.Errorf("no API key configured for the %s provider", c.Provider)
	}
	return nil
}

// RetryPolicy derives the retry policy for provider calls.
func (c Config) RetryPolicy() retry.Policy {
	p := retry.DefaultPolicy()
	p.InitialWait = time.Second
	p.MaxWait = 8 * time.Second
	if c.MaxAttempts > 0 {
		p.MaxAttempts = c.MaxAttempts
	}
	return p
}
