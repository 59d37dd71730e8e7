package llm

import (
	"context"
	"fmt"
	"log/slog"
)

// NewProvider builds the configured provider wrapped as
// caller → retry → logging → provider.
func NewProvider(ctx context.Context, cfg Config, logger *slog.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropic(cfg.Anthropic)
	case ProviderOpenAI:
		base, err = NewOpenAI(cfg.OpenAI)
	case ProviderOpenRouter:
		oc := cfg.OpenAI
		if oc.BaseURL == "" {
			oc.BaseURL = openRouterBaseURL
		}
		base, err = NewOpenAI(oc)
	case ProviderGemini:
		base, err = NewGemini(ctx, cfg.Gemini)
	case ProviderMock:
		base = NewMock()
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	return WithRetry(WithLogging(base, logger), cfg.RetryPolicy()), nil
}
