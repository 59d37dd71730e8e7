// Package ability tracks a learner's ability (theta) on a logistic scale
// using a one-parameter (Rasch-style) model updated online after each
// graded response.
package ability

import (
	"encoding/json"
	"fmt"
	"math"
)

// z95 is the two-sided 95% normal quantile.
const z95 = 1.96

// Config holds the tuning constants of the estimator. They are fixed for a
// deployment.
type Config struct {
	// Step is the learning rate applied to each update.
	Step float64 `mapstructure:"step"`

	// Min and Max bound the ability estimate.
	Min float64 `mapstructure:"min"`
	Max float64 `mapstructure:"max"`
}

// DefaultConfig returns the tuned defaults.
func DefaultConfig() Config {
	return Config{
		Step: 0.5,
		Min:  -5.0,
		Max:  5.0,
	}
}

// Validate checks the bounds and step are usable.
func (c Config) Validate() error {
	if c.Step <= 0 {
		return fmt.Errorf("ability step must be positive, got %v", c.Step)
	}
	if c.Min >= c.Max {
		return fmt.Errorf("ability bounds must satisfy min < max, got [%v, %v]", c.Min, c.Max)
	}
	if c.Min > 0 || c.Max < 0 {
		return fmt.Errorf("ability bounds [%v, %v] must contain 0", c.Min, c.Max)
	}
	return nil
}

// PredictCorrect returns the 1PL probability of a correct response.
func PredictCorrect(ability, anchor float64) float64 {
	return 1.0 / (1.0 + math.Exp(-(ability - anchor)))
}

// Information returns the Fisher information P(1-P) of one response.
func Information(p float64) float64 {
	return p * (1 - p)
}

// StandardError returns 1/sqrt(info). ok is false when no information has
// been collected yet.
func StandardError(info float64) (se float64, ok bool) {
	if info <= 0 {
		return 0, false
	}
	return 1.0 / math.Sqrt(info), true
}

// Interval is a closed confidence interval.
type Interval struct {
	Lo float64
	Hi float64
}

// MarshalJSON encodes the interval as a [lo, hi] pair.
func (iv Interval) MarshalJSON() ([]byte, error) {
	return fmt.Appendf(nil, "[%s,%s]", formatFloat(iv.Lo), formatFloat(iv.Hi)), nil
}

// UnmarshalJSON decodes a [lo, hi] pair.
func (iv *Interval) UnmarshalJSON(b []byte) error {
	var pair []float64
	if err := json.Unmarshal(b, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("interval: want 2 values, got %d", len(pair))
	}
	iv.Lo, iv.Hi = pair[0], pair[1]
	return nil
}

// ConfidenceInterval returns the 95% interval around ability.
func ConfidenceInterval(ability, se float64) Interval {
	return Interval{Lo: ability - z95*se, Hi: ability + z95*se}
}

// Estimator applies the stochastic-gradient ability update.
type Estimator struct {
	cfg Config
}

// New creates an Estimator. Invalid configs fall back to DefaultConfig.
func New(cfg Config) *Estimator {
	if cfg.Validate() != nil {
		cfg = DefaultConfig()
	}
	return &Estimator{cfg: cfg}
}

// Config returns the estimator's configuration.
func (e *Estimator) Config() Config {
	return e.cfg
}

// Update returns the new ability after a response to an item anchored at
// anchor, along with the predicted probability used for the update.
func (e *Estimator) Update(ability, anchor float64, correct bool) (float64, float64) {
	p := PredictCorrect(ability, anchor)
	if correct {
		ability += e.cfg.Step * (1 - p)
	} else {
		ability -= e.cfg.Step * p
	}
	return e.Clamp(ability), p
}

// Clamp bounds a to [Min, Max].
func (e *Estimator) Clamp(a float64) float64 {
	return math.Max(e.cfg.Min, math.Min(e.cfg.Max, a))
}

// Record applies one graded response to s: ability, information and the
// round counter all advance together.
func (e *Estimator) Record(s *State, anchor float64, correct bool) float64 {
	next, p := e.Update(s.Ability, anchor, correct)
	s.Ability = next
	s.InfoSum += Information(p)
	s.RoundsDone++
	return p
}
