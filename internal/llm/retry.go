package llm

import (
	"context"
	"errors"

	"github.com/abhisek/thetaquiz/internal/retry"
)

type retrying struct {
	inner  Provider
	policy retry.Policy
}

// WithRetry retries transient provider errors under policy. A rate limit
// with a RetryAfter hint waits at least that long. Output that fails schema
// validation is retried once.
func WithRetry(p Provider, policy retry.Policy) Provider {
	return &retrying{inner: p, policy: policy}
}

func (r *retrying) ModelID() string { return r.inner.ModelID() }

func (r *retrying) Generate(ctx context.Context, req Request) (*Response, error) {
	var (
		resp        *Response
		invalidSeen bool
	)
	err := retry.Do(ctx, r.policy, func(ctx context.Context) error {
		var err error
		resp, err = r.inner.Generate(ctx, req)
		if err == nil {
			return nil
		}
		if !IsTransient(err) {
			return retry.Permanent(err)
		}

		var inv *ErrInvalidResponse
		if errors.As(err, &inv) {
			if invalidSeen {
				return retry.Permanent(err)
			}
			invalidSeen = true
		}

		var rl *ErrRateLimit
		if errors.As(err, &rl) && rl.RetryAfter > r.policy.InitialWait {
			if serr := r.policy.Wait(ctx, rl.RetryAfter-r.policy.InitialWait); serr != nil {
				return retry.Permanent(serr)
			}
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}
