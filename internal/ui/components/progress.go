package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/thetaquiz/internal/ui/theme"
)

// RoundBar shows how many rounds of a session are done.
type RoundBar struct {
	Done  int
	Total int
	Width int
}

// View renders "[████░░░░] 3/12".
func (r RoundBar) View() string {
	label := fmt.Sprintf(" %d/%d", r.Done, r.Total)
	barWidth := max(r.Width-lipgloss.Width(label), 4)

	filled := 0
	if r.Total > 0 {
		filled = min(max(barWidth*r.Done/r.Total, 0), barWidth)
	}

	return lipgloss.NewStyle().Foreground(theme.Secondary).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("░", barWidth-filled)) +
		theme.Dim.Render(label)
}

// AbilityScale places the ability estimate and its interval on a
// [lo, hi] axis.
type AbilityScale struct {
	Ability float64
	Lo, Hi  float64

	// IntervalLo and IntervalHi are drawn when HasInterval is set.
	IntervalLo, IntervalHi float64
	HasInterval            bool

	Width int
}

// View renders the axis with "◆" at the estimate and "─" over the interval.
func (a AbilityScale) View() string {
	width := max(a.Width, 10)
	pos := func(v float64) int {
		if a.Hi <= a.Lo {
			return 0
		}
		p := int((v - a.Lo) / (a.Hi - a.Lo) * float64(width-1))
		return min(max(p, 0), width-1)
	}

	cells := []rune(strings.Repeat("·", width))
	if a.HasInterval {
		for i := pos(a.IntervalLo); i <= pos(a.IntervalHi); i++ {
			cells[i] = '─'
		}
	}
	cells[pos(a.Ability)] = '◆'
	return lipgloss.NewStyle().Foreground(theme.Primary).Render(string(cells))
}
