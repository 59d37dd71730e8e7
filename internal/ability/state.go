package ability

import (
	"math"
	"strconv"
)

// State is the per-session measurement record.
type State struct {
	Ability     float64 `json:"theta"`
	InfoSum     float64 `json:"info_sum"`
	RoundsDone  int     `json:"rounds_done"`
	RoundsTotal int     `json:"rounds_total"`
}

// NewState returns a fresh state for a session of total rounds.
func NewState(total int) State {
	return State{RoundsTotal: total}
}

// Done reports whether every round has been graded.
func (s State) Done() bool {
	return s.RoundsDone >= s.RoundsTotal
}

// Snapshot is a read-only view of the estimate and its precision.
type Snapshot struct {
	Ability       float64   `json:"theta"`
	StandardError *float64  `json:"se"`
	Interval      *Interval `json:"ci"`
}

// Snapshot derives the standard error and confidence interval.
func (s State) Snapshot() Snapshot {
	snap := Snapshot{Ability: s.Ability}
	if se, ok := StandardError(s.InfoSum); ok {
		iv := ConfidenceInterval(s.Ability, se)
		snap.StandardError = &se
		snap.Interval = &iv
	}
	return snap
}

// Rounded returns a copy with every value rounded to two decimals.
func (s Snapshot) Rounded() Snapshot {
	out := Snapshot{Ability: round2(s.Ability)}
	if s.StandardError != nil {
		se := round2(*s.StandardError)
		out.StandardError = &se
	}
	if s.Interval != nil {
		out.Interval = &Interval{Lo: round2(s.Interval.Lo), Hi: round2(s.Interval.Hi)}
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
