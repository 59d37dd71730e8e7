// Package difficulty maps an ability estimate to a calibrated difficulty
// tier of the content source.
package difficulty

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
)

// DefaultEpsilon is the near-tie window in logits.
const DefaultEpsilon = 0.12

// ErrEmptyTable is returned when a table is built without rows.
var ErrEmptyTable = errors.New("difficulty table has no rows")

// Table is an ordered, immutable list of rows with non-decreasing anchors.
type Table struct {
	rows    []Row
	epsilon float64
}

// NewTable validates rows and builds a table. A non-positive epsilon
// disables near-tie randomization except for exact ties.
func NewTable(rows []Row, epsilon float64) (*Table, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyTable
	}
	out := make([]Row, len(rows))
	for i, r := range rows {
		if i > 0 && r.Anchor < rows[i-1].Anchor {
			return nil, fmt.Errorf("row %d (%s): anchor %v decreases from %v", i, r.Level, r.Anchor, rows[i-1].Anchor)
		}
		if len(r.Codes) == 0 {
			return nil, fmt.Errorf("row %d (%s): no difficulty codes", i, r.Level)
		}
		if r.PartIndex < 0 || r.PartIndex > 2 {
			return nil, fmt.Errorf("row %d (%s): part index %d out of range", i, r.Level, r.PartIndex)
		}
		r.Codes = slices.Clone(r.Codes)
		r.Position = i
		out[i] = r
	}
	if epsilon < 0 {
		epsilon = 0
	}
	return &Table{rows: out, epsilon: epsilon}, nil
}

// Default returns the built-in QBReader table with the default epsilon.
func Default() *Table {
	t, err := NewTable(DefaultRows(), DefaultEpsilon)
	if err != nil {
		panic(err)
	}
	return t
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Rows returns a copy of the rows in table order.
func (t *Table) Rows() []Row {
	out := make([]Row, len(t.rows))
	for i, r := range t.rows {
		r.Codes = slices.Clone(r.Codes)
		out[i] = r
	}
	return out
}

// Row returns the row at position i.
func (t *Table) Row(i int) Row {
	r := t.rows[i]
	r.Codes = slices.Clone(r.Codes)
	return r
}

// Candidates returns every row whose anchor distance from ability is within
// epsilon of the minimum distance.
func (t *Table) Candidates(ability float64) []Row {
	minDist := math.Inf(1)
	for _, r := range t.rows {
		minDist = math.Min(minDist, math.Abs(ability-r.Anchor))
	}
	var out []Row
	for i, r := range t.rows {
		if math.Abs(ability-r.Anchor) <= minDist+t.epsilon {
			out = append(out, t.Row(i))
		}
	}
	return out
}

// ChooseRow picks uniformly at random among the near-tied closest rows.
func (t *Table) ChooseRow(ability float64, rng *rand.Rand) Row {
	c := t.Candidates(ability)
	return c[rng.IntN(len(c))]
}

// PickCode picks one of the row's difficulty codes uniformly at random.
func (t *Table) PickCode(r Row, rng *rand.Rand) int {
	return r.Codes[rng.IntN(len(r.Codes))]
}

// Neighbors returns the nearest rows below and above r in table order whose
// codes differ from r's, so a neighbor query always reaches a different
// slice of the inventory. Either may be missing at the table edges.
func (t *Table) Neighbors(r Row) []Row {
	var out []Row
	for i := r.Position - 1; i >= 0; i-- {
		if !sharesCode(t.rows[i], r) {
			out = append(out, t.Row(i))
			break
		}
	}
	for i := r.Position + 1; i < len(t.rows); i++ {
		if !sharesCode(t.rows[i], r) {
			out = append(out, t.Row(i))
			break
		}
	}
	return out
}

// Lookup finds the row for a level and part.
func (t *Table) Lookup(level string, part Part) (Row, bool) {
	for i, r := range t.rows {
		if r.Level == level && r.Part == part {
			return t.Row(i), true
		}
	}
	return Row{}, false
}

func sharesCode(a, b Row) bool {
	for _, c := range a.Codes {
		if slices.Contains(b.Codes, c) {
			return true
		}
	}
	return false
}
