// Package welcome is the splash shown before the setup screen.
package welcome

import (
	"slices"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/samber/lo"

	"github.com/abhisek/thetaquiz/internal/difficulty"
	"github.com/abhisek/thetaquiz/internal/router"
	"github.com/abhisek/thetaquiz/internal/screen"
	"github.com/abhisek/thetaquiz/internal/ui/theme"
)

const (
	tickInterval = 120 * time.Millisecond

	// Ticks before the banner appears, and before the ladder starts climbing.
	bannerTick = 2
	ladderTick = 4
)

const tagline = "How far up the difficulty ladder can you climb?"

type tickMsg time.Time

// Screen reveals the banner and the level ladder one step per tick, then
// hands over to the next screen on any key.
type Screen struct {
	next         func() screen.Screen
	ladder       []string
	ticks        int
	transitioned bool
}

var _ screen.Screen = (*Screen)(nil)

// New creates a splash that replaces itself with next() on a key press.
func New(next func() screen.Screen) *Screen {
	return &Screen{next: next, ladder: Ladder(difficulty.DefaultRows())}
}

// Ladder lists competition levels from easiest to hardest by the lowest
// anchor each level offers.
func Ladder(rows []difficulty.Row) []string {
	sorted := slices.Clone(rows)
	slices.SortStableFunc(sorted, func(a, b difficulty.Row) int {
		switch {
		case a.Anchor < b.Anchor:
			return -1
		case a.Anchor > b.Anchor:
			return 1
		}
		return 0
	})
	return lo.Uniq(lo.Map(sorted, func(r difficulty.Row, _ int) string { return r.Level }))
}

func (s *Screen) Title() string {
	return ""
}

func (s *Screen) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// done reports whether every step has been revealed.
func (s *Screen) done() bool {
	return s.ticks >= ladderTick+len(s.ladder)
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if s.done() || s.transitioned {
			return s, nil
		}
		s.ticks++
		return s, tick()

	case tea.KeyPressMsg:
		return s, s.transition()
	}
	return s, nil
}

func (s *Screen) transition() tea.Cmd {
	if s.transitioned {
		return nil
	}
	s.transitioned = true
	next := s.next()
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

func (s *Screen) View(width, height int) string {
	var sections []string

	sections = append(sections, RenderBanner(width, s.ticks))

	if s.ticks >= bannerTick {
		sections = append(sections, "", lipgloss.NewStyle().
			Foreground(theme.Text).
			Bold(true).
			Render(tagline))
	}

	if s.ticks >= ladderTick {
		shown := min(s.ticks-ladderTick, len(s.ladder))
		sections = append(sections, "")
		rung := lipgloss.NewStyle().Foreground(theme.Secondary)
		// Hardest on top.
		for i := shown - 1; i >= 0; i-- {
			sections = append(sections, rung.Render("╪ "+s.ladder[i]))
		}
	}

	if s.done() {
		sections = append(sections, "", lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Italic(true).
			Render("press any key to continue"))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(sections, "\n"))
}
