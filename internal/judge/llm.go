package judge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/abhisek/thetaquiz/internal/llm"
	"github.com/abhisek/thetaquiz/internal/qbreader"
)

const llmSystemPrompt = `You are a quizbowl moderator. Decide whether the player's response matches the answer line.
Follow standard quizbowl conventions: the underlined or bolded portion is required; bracketed notes list
answers to accept, prompt on, or reject. Minor misspellings that do not change the answer are accepted.
Reply with "accept", "reject", or "prompt" (the response is on the right track but not specific enough).
When prompting, give a short directed prompt in "directed_prompt".`

var verdictSchema = llm.MustSchema("answer-verdict", "moderator ruling on a quizbowl response", map[string]any{
	"type": "object",
	"properties": map[string]any{
		"directive": map[string]any{
			"type": "string",
			"enum": []any{"accept", "reject", "prompt"},
		},
		"directed_prompt": map[string]any{"type": "string"},
	},
	"required":             []any{"directive", "directed_prompt"},
	"additionalProperties": false,
})

// LLM judges with a language model.
type LLM struct {
	provider llm.Provider
	logger   *slog.Logger
}

// NewLLM creates an LLM judge over p, which should already carry retries.
func NewLLM(p llm.Provider, logger *slog.Logger) *LLM {
	if logger == nil {
		logger = slog.Default()
	}
	return &LLM{provider: p, logger: logger}
}

func (j *LLM) Judge(ctx context.Context, answerKey, given string) (Decision, error) {
	if strings.TrimSpace(given) == "" {
		return Decision{Verdict: Reject}, nil
	}

	resp, err := j.provider.Generate(llm.WithPurpose(ctx, "judge"), llm.Request{
		System:    llmSystemPrompt,
		Prompt:    fmt.Sprintf("Answer line (HTML): %s\nPlayer response: %s", answerKey, given),
		Schema:    verdictSchema,
		MaxTokens: 128,
	})
	if err != nil {
		if ctx.Err() != nil {
			return Decision{Verdict: Reject}, ctx.Err()
		}
		j.logger.Warn("llm judge failed, rejecting", "error", err)
		return Decision{Verdict: Reject}, nil
	}

	var out struct {
		Directive      string `json:"directive"`
		DirectedPrompt string `json:"directed_prompt"`
	}
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		j.logger.Warn("llm judge returned undecodable output", "error", err)
		return Decision{Verdict: Reject}, nil
	}

	d := Decision{Verdict: ParseVerdict(out.Directive)}
	if d.Verdict == Prompt {
		d.DirectedPrompt = qbreader.StripHTML(out.DirectedPrompt)
	}
	return d, nil
}
