package ability

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredictCorrect_EqualAbilityIsHalf(t *testing.T) {
	assert.Equal(t, 0.5, PredictCorrect(0, 0))
	assert.Equal(t, 0.5, PredictCorrect(2.3, 2.3))
}

func TestPredictCorrect_Ordering(t *testing.T) {
	assert.Greater(t, PredictCorrect(1, 0), 0.5)
	assert.Less(t, PredictCorrect(-1, 0), 0.5)
	assert.InDelta(t, 1/(1+math.Exp(-2)), PredictCorrect(1, -1), 1e-12)
}

func TestUpdate_CorrectFromZero(t *testing.T) {
	e := New(DefaultConfig())
	next, p := e.Update(0, 0, true)
	assert.Equal(t, 0.5, p)
	assert.Equal(t, 0.25, next)
}

func TestUpdate_WrongFromZero(t *testing.T) {
	e := New(DefaultConfig())
	next, _ := e.Update(0, 0, false)
	assert.Equal(t, -0.25, next)
}

func TestUpdate_Monotonic(t *testing.T) {
	e := New(DefaultConfig())
	for a := -5.0; a <= 5.0; a += 0.25 {
		for _, anchor := range []float64{-4.2, -1.3, 0, 0.6, 3.3} {
			up, _ := e.Update(a, anchor, true)
			down, _ := e.Update(a, anchor, false)
			assert.GreaterOrEqual(t, up, a, "correct must not decrease (a=%v anchor=%v)", a, anchor)
			assert.LessOrEqual(t, down, a, "wrong must not increase (a=%v anchor=%v)", a, anchor)
		}
	}
}

func TestUpdate_Clamped(t *testing.T) {
	cfg := Config{Step: 3, Min: -4, Max: 4}
	e := New(cfg)

	up, _ := e.Update(3.9, -4, true)
	assert.LessOrEqual(t, up, 4.0)

	down, _ := e.Update(-3.9, 4, false)
	assert.GreaterOrEqual(t, down, -4.0)

	for i := 0; i < 1000; i++ {
		up, _ = e.Update(up, -4, true)
		down, _ = e.Update(down, 4, false)
	}
	assert.Equal(t, 4.0, up)
	assert.Equal(t, -4.0, down)
}

func TestNew_InvalidConfigFallsBack(t *testing.T) {
	e := New(Config{Step: 0, Min: 1, Max: -1})
	assert.Equal(t, DefaultConfig(), e.Config())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"default", DefaultConfig(), false},
		{"tighter", Config{Step: 0.3, Min: -4, Max: 4}, false},
		{"zero step", Config{Step: 0, Min: -5, Max: 5}, true},
		{"inverted", Config{Step: 0.5, Min: 5, Max: -5}, true},
		{"excludes zero", Config{Step: 0.5, Min: 1, Max: 5}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestStandardError(t *testing.T) {
	_, ok := StandardError(0)
	assert.False(t, ok)
	_, ok = StandardError(-1)
	assert.False(t, ok)

	se, ok := StandardError(0.25)
	require.True(t, ok)
	assert.Equal(t, 2.0, se)

	prev := math.Inf(1)
	for info := 0.1; info < 10; info += 0.1 {
		se, ok := StandardError(info)
		require.True(t, ok)
		assert.Less(t, se, prev)
		prev = se
	}
}

func TestConfidenceInterval(t *testing.T) {
	iv := ConfidenceInterval(1, 0.5)
	assert.InDelta(t, 0.02, iv.Lo, 1e-12)
	assert.InDelta(t, 1.98, iv.Hi, 1e-12)
}

func TestRecord_AccumulatesInformation(t *testing.T) {
	e := New(DefaultConfig())
	s := NewState(3)

	p := e.Record(&s, 0, true)
	assert.Equal(t, 0.5, p)
	assert.Equal(t, 0.25, s.Ability)
	assert.Equal(t, 0.25, s.InfoSum)
	assert.Equal(t, 1, s.RoundsDone)
	assert.False(t, s.Done())

	prevInfo := s.InfoSum
	e.Record(&s, 1.6, false)
	e.Record(&s, -1.3, true)
	assert.Greater(t, s.InfoSum, prevInfo)
	assert.True(t, s.Done())
}

func TestSnapshot(t *testing.T) {
	s := NewState(12)
	snap := s.Snapshot()
	assert.Nil(t, snap.StandardError)
	assert.Nil(t, snap.Interval)

	s.Ability = 0.25
	s.InfoSum = 0.25
	snap = s.Snapshot()
	require.NotNil(t, snap.StandardError)
	require.NotNil(t, snap.Interval)
	assert.Equal(t, 2.0, *snap.StandardError)
	assert.InDelta(t, 0.25-3.92, snap.Interval.Lo, 1e-12)
}

func TestSnapshotJSON(t *testing.T) {
	s := State{Ability: 0.123456, InfoSum: 0.3}
	b, err := json.Marshal(s.Snapshot().Rounded())
	require.NoError(t, err)
	assert.JSONEq(t, `{"theta":0.12,"se":1.83,"ci":[-3.45,3.7]}`, string(b))

	var back Snapshot
	require.NoError(t, json.Unmarshal(b, &back))
	require.NotNil(t, back.Interval)
	assert.Equal(t, 3.7, back.Interval.Hi)

	b, err = json.Marshal(NewState(1).Snapshot())
	require.NoError(t, err)
	assert.JSONEq(t, `{"theta":0,"se":null,"ci":null}`, string(b))
}
