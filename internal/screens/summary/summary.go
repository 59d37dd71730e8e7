// Package summary is the end-of-session screen.
package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/samber/lo"

	"github.com/abhisek/thetaquiz/internal/router"
	"github.com/abhisek/thetaquiz/internal/screen"
	"github.com/abhisek/thetaquiz/internal/session"
	"github.com/abhisek/thetaquiz/internal/ui/components"
	"github.com/abhisek/thetaquiz/internal/ui/layout"
	"github.com/abhisek/thetaquiz/internal/ui/theme"
)

// Round is one graded item as shown in the table.
type Round struct {
	Level      string
	Part       string
	Answer     string
	Official   string
	Correct    bool
	Overridden bool
	Before     float64
	After      float64
}

// Screen shows the final estimate and the rounds played.
type Screen struct {
	status session.Status
	rounds []Round
}

var (
	_ screen.Screen          = (*Screen)(nil)
	_ screen.KeyHintProvider = (*Screen)(nil)
)

// New creates the summary for a finished session.
func New(status session.Status, rounds []Round) *Screen {
	return &Screen{status: status, rounds: rounds}
}

func (s *Screen) Init() tea.Cmd {
	return nil
}

func (s *Screen) Title() string {
	return "Results"
}

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "New game"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "enter", "esc":
			return s, func() tea.Msg { return router.PopToRootMsg{} }
		}
	}
	return s, nil
}

// Correct counts the rounds judged correct.
func (s *Screen) Correct() int {
	return lo.CountBy(s.rounds, func(r Round) bool { return r.Correct })
}

func (s *Screen) View(width, height int) string {
	snap := s.status.Snapshot.Rounded()
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(layout.Centered("Session complete", width, theme.Title))
	b.WriteString("\n\n")

	est := fmt.Sprintf("Estimated ability θ = %+.2f", snap.Ability)
	if snap.StandardError != nil {
		est += fmt.Sprintf("   SE %.2f", *snap.StandardError)
	}
	b.WriteString(layout.Centered(est, width, theme.Label))
	b.WriteString("\n")
	if snap.Interval != nil {
		b.WriteString(layout.Centered(
			fmt.Sprintf("95%% interval [%+.2f, %+.2f]", snap.Interval.Lo, snap.Interval.Hi),
			width, theme.Dim))
		b.WriteString("\n")
	}

	scale := components.AbilityScale{Ability: snap.Ability, Lo: -5, Hi: 5, Width: min(width-10, 50)}
	if snap.Interval != nil {
		scale.HasInterval = true
		scale.IntervalLo, scale.IntervalHi = snap.Interval.Lo, snap.Interval.Hi
	}
	b.WriteString(layout.Centered(scale.View(), width, theme.Body))
	b.WriteString("\n\n")

	b.WriteString(layout.Centered(
		fmt.Sprintf("%d of %d correct", s.Correct(), len(s.rounds)), width, theme.Body))
	b.WriteString("\n\n")

	// The table is trimmed to what fits under the header lines above.
	rows := s.rounds
	if room := height - 12; room > 0 && len(rows) > room {
		rows = rows[len(rows)-room:]
	}
	var table strings.Builder
	for _, r := range rows {
		mark, style := "✗", theme.Incorrect
		if r.Correct {
			mark, style = "✓", theme.Correct
		}
		if r.Overridden {
			mark = "✓*"
		}
		line := fmt.Sprintf("%-3s %-22s %-16s %+.2f → %+.2f  %s",
			mark, truncate(r.Level, 22), truncate(r.Part, 16), r.Before, r.After, truncate(r.Official, 28))
		table.WriteString(style.Render(line))
		table.WriteString("\n")
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, table.String()))
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
