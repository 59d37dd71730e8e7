package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPolicy(slept *[]time.Duration) Policy {
	return Policy{
		MaxAttempts: 3,
		InitialWait: 10 * time.Millisecond,
		MaxWait:     15 * time.Millisecond,
		Multiplier:  2.0,
		Sleep: func(ctx context.Context, d time.Duration) error {
			*slept = append(*slept, d)
			return ctx.Err()
		},
	}
}

func TestDo_SucceedsFirstAttempt(t *testing.T) {
	var slept []time.Duration
	calls := 0
	err := Do(context.Background(), testPolicy(&slept), func(context.Context) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Empty(t, slept)
}

func TestDo_TransientThenSuccess(t *testing.T) {
	var slept []time.Duration
	calls := 0
	err := Do(context.Background(), testPolicy(&slept), func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("flaky")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{10 * time.Millisecond, 15 * time.Millisecond}, slept)
}

func TestDo_AllAttemptsFail(t *testing.T) {
	var slept []time.Duration
	calls := 0
	want := errors.New("down")
	err := Do(context.Background(), testPolicy(&slept), func(context.Context) error {
		calls++
		return want
	})
	require.ErrorIs(t, err, want)
	assert.Equal(t, 3, calls)
	assert.Len(t, slept, 2, "no sleep after the final attempt")
}

func TestDo_PermanentNotRetried(t *testing.T) {
	var slept []time.Duration
	calls := 0
	want := errors.New("bad request")
	err := Do(context.Background(), testPolicy(&slept), func(context.Context) error {
		calls++
		return Permanent(want)
	})
	require.ErrorIs(t, err, want)
	assert.False(t, IsPermanent(err), "the marker is stripped on return")
	assert.Equal(t, 1, calls)
}

func TestDo_ContextCancelled(t *testing.T) {
	var slept []time.Duration
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Do(ctx, testPolicy(&slept), func(context.Context) error {
		calls++
		return errors.New("down")
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_ZeroAttemptsStillCallsOnce(t *testing.T) {
	calls := 0
	_ = Do(context.Background(), Policy{Sleep: NoSleep}, func(context.Context) error {
		calls++
		return errors.New("x")
	})
	assert.Equal(t, 1, calls)
}

func TestBackoff_JitterBounds(t *testing.T) {
	p := Policy{InitialWait: 100 * time.Millisecond, Multiplier: 2, MaxWait: time.Second, Jitter: 0.2}
	for range 100 {
		d := p.Backoff(1)
		assert.GreaterOrEqual(t, d, 160*time.Millisecond)
		assert.LessOrEqual(t, d, 240*time.Millisecond)
	}
}
