// Package llm is a thin, provider-neutral layer over hosted language models.
// It is used to grade free-text answers when the hosted answer checker is
// not wanted.
package llm

import (
	"context"
	"encoding/json"
)

// Provider produces one structured completion per call.
type Provider interface {
	// Generate runs a single-turn completion. When req.Schema is set the
	// returned Content has already been validated against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the resolved model identifier.
	ModelID() string
}

// Request is a single-turn prompt.
type Request struct {
	System string
	Prompt string

	// Schema, when set, asks the provider for JSON conforming to it.
	Schema *Schema

	MaxTokens int

	// Temperature in [0, 1]. Zero leaves the provider default.
	Temperature float64
}

// Response holds the model output.
type Response struct {
	Content json.RawMessage
	Usage   Usage
	Model   string

	// StopReason is normalized to "end" or "max_tokens".
	StopReason string
}

// Usage is the token accounting for one call.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Total returns input plus output tokens.
func (u Usage) Total() int {
	return u.InputTokens + u.OutputTokens
}

const (
	stopEnd       = "end"
	stopMaxTokens = "max_tokens"
)

// resolveModel maps a short alias to a model id. Unknown names pass
// through so full ids can be configured directly.
func resolveModel(name string, aliases map[string]string) string {
	if id, ok := aliases[name]; ok {
		return id
	}
	return name
}
