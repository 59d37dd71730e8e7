// Package judge decides whether a free-text response matches a bonus
// answer line.
package judge

import (
	"context"
	"strings"
)

// Verdict is the normalized judging outcome.
type Verdict string

const (
	Accept Verdict = "accept"
	Reject Verdict = "reject"
	// Prompt asks for a more specific answer. It does not end the round.
	Prompt Verdict = "prompt"
)

// ParseVerdict normalizes a directive. Anything unrecognized is a reject.
func ParseVerdict(s string) Verdict {
	switch Verdict(strings.ToLower(strings.TrimSpace(s))) {
	case Accept:
		return Accept
	case Prompt:
		return Prompt
	}
	return Reject
}

// Terminal reports whether the verdict ends the round.
func (v Verdict) Terminal() bool {
	return v != Prompt
}

// Correct reports whether the verdict scores as a correct response.
func (v Verdict) Correct() bool {
	return v == Accept
}

// Decision is a verdict plus an optional hint shown on prompts.
type Decision struct {
	Verdict        Verdict `json:"verdict"`
	DirectedPrompt string  `json:"directed_prompt,omitempty"`
}

// Judge grades a response against a raw (HTML) answer line.
//
// Implementations resolve upstream failures to Reject themselves; the only
// error they return is the caller's context ending.
type Judge interface {
	Judge(ctx context.Context, answerKey, given string) (Decision, error)
}

// Func adapts a function to Judge.
type Func func(ctx context.Context, answerKey, given string) (Decision, error)

func (f Func) Judge(ctx context.Context, answerKey, given string) (Decision, error) {
	return f(ctx, answerKey, given)
}
