package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/abhisek/thetaquiz/internal/retry"
)

func testPolicy() retry.Policy {
	return retry.Policy{
		MaxAttempts: 3,
		InitialWait: time.Millisecond,
		MaxWait:     time.Millisecond,
		Multiplier:  2,
		Sleep:       retry.NoSleep,
	}
}

func TestRetry_TransientThenSuccess(t *testing.T) {
	m := NewMock(
		MockReply{Err: &ErrProviderUnavailable{Err: errors.New("down")}},
		MockReply{Content: json.RawMessage(`{"directive":"accept"}`)},
	)
	resp, err := WithRetry(m, testPolicy()).Generate(context.Background(), Request{Schema: verdictSchema})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != `{"directive":"accept"}` {
		t.Fatalf("unexpected content %s", resp.Content)
	}
	if n := len(m.Calls()); n != 2 {
		t.Fatalf("expected 2 calls, got %d", n)
	}
}

func TestRetry_Exhausted(t *testing.T) {
	m := NewMock()
	_, err := WithRetry(m, testPolicy()).Generate(context.Background(), Request{})
	var un *ErrProviderUnavailable
	if !errors.As(err, &un) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
	if n := len(m.Calls()); n != 3 {
		t.Fatalf("expected 3 calls, got %d", n)
	}
}

func TestRetry_InvalidOutputRetriedOnce(t *testing.T) {
	bad := MockReply{Content: json.RawMessage(`{"directive":"perhaps"}`)}
	m := NewMock(bad, bad, bad)
	_, err := WithRetry(m, testPolicy()).Generate(context.Background(), Request{Schema: verdictSchema})
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got %v", err)
	}
	if n := len(m.Calls()); n != 2 {
		t.Fatalf("expected 2 calls, got %d", n)
	}
}

func TestRetry_AuthNotRetried(t *testing.T) {
	m := NewMock(MockReply{Err: &ErrAuth{Err: errors.New("bad key")}})
	_, err := WithRetry(m, testPolicy()).Generate(context.Background(), Request{})
	var auth *ErrAuth
	if !errors.As(err, &auth) {
		t.Fatalf("expected ErrAuth, got %v", err)
	}
	if n := len(m.Calls()); n != 1 {
		t.Fatalf("expected 1 call, got %d", n)
	}
}

func TestRetry_RateLimitHonorsRetryAfter(t *testing.T) {
	var waited []time.Duration
	p := testPolicy()
	p.Sleep = func(ctx context.Context, d time.Duration) error {
		waited = append(waited, d)
		return nil
	}
	m := NewMock(
		MockReply{Err: &ErrRateLimit{RetryAfter: 50 * time.Millisecond, Err: errors.New("429")}},
		MockReply{Content: json.RawMessage(`{}`)},
	)
	if _, err := WithRetry(m, p).Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var total time.Duration
	for _, d := range waited {
		total += d
	}
	if total < 50*time.Millisecond {
		t.Fatalf("expected to wait at least the RetryAfter hint, waited %s", total)
	}
}
