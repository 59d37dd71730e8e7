package judge

import (
	"context"
	"log/slog"
	"strings"

	"github.com/abhisek/thetaquiz/internal/qbreader"
	"github.com/abhisek/thetaquiz/internal/retry"
)

// Checker is the hosted answer checker. *qbreader.Client satisfies it.
type Checker interface {
	CheckAnswer(ctx context.Context, answerline, given string) (*qbreader.Directive, error)
}

// Remote judges with the QBReader answer checker.
type Remote struct {
	checker Checker
	policy  retry.Policy
	logger  *slog.Logger
}

// NewRemote creates a Remote judge. A nil logger uses slog.Default.
func NewRemote(c Checker, policy retry.Policy, logger *slog.Logger) *Remote {
	if logger == nil {
		logger = slog.Default()
	}
	return &Remote{checker: c, policy: policy, logger: logger}
}

func (r *Remote) Judge(ctx context.Context, answerKey, given string) (Decision, error) {
	if strings.TrimSpace(given) == "" {
		return Decision{Verdict: Reject}, nil
	}

	var d *qbreader.Directive
	err := retry.Do(ctx, r.policy, func(ctx context.Context) error {
		var err error
		d, err = r.checker.CheckAnswer(ctx, answerKey, given)
		return err
	})
	if err != nil {
		if ctx.Err() != nil {
			return Decision{Verdict: Reject}, ctx.Err()
		}
		r.logger.Warn("answer check failed, rejecting", "error", err)
		return Decision{Verdict: Reject}, nil
	}

	out := Decision{Verdict: ParseVerdict(d.Directive)}
	if out.Verdict == Prompt {
		out.DirectedPrompt = d.DirectedPrompt
	}
	return out, nil
}
