package llm

import (
	"context"
	"log/slog"
	"time"
)

type purposeKey struct{}

// WithPurpose labels calls made with ctx for logging.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the label set by WithPurpose, or "unknown".
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey{}).(string); ok {
		return v
	}
	return "unknown"
}

type logging struct {
	inner  Provider
	logger *slog.Logger
}

// WithLogging logs every call with its latency and token usage. Prompts
// and outputs are logged at debug level only.
func WithLogging(p Provider, logger *slog.Logger) Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &logging{inner: p, logger: logger}
}

func (l *logging) ModelID() string { return l.inner.ModelID() }

func (l *logging) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)

	attrs := []any{
		"model", l.inner.ModelID(),
		"purpose", PurposeFrom(ctx),
		"latency_ms", time.Since(start).Milliseconds(),
	}
	if err != nil {
		l.logger.WarnContext(ctx, "llm request failed", append(attrs, "error", err)...)
		return nil, err
	}

	attrs = append(attrs, "input_tokens", resp.Usage.InputTokens, "output_tokens", resp.Usage.OutputTokens)
	l.logger.InfoContext(ctx, "llm request", attrs...)
	l.logger.DebugContext(ctx, "llm exchange", "prompt", req.Prompt, "output", string(resp.Content))
	return resp, nil
}
