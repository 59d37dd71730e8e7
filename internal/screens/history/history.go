// Package history lists stored sessions and resumes unfinished ones.
package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/thetaquiz/internal/router"
	"github.com/abhisek/thetaquiz/internal/screen"
	"github.com/abhisek/thetaquiz/internal/screens/quiz"
	"github.com/abhisek/thetaquiz/internal/session"
	"github.com/abhisek/thetaquiz/internal/store"
	"github.com/abhisek/thetaquiz/internal/ui/layout"
	"github.com/abhisek/thetaquiz/internal/ui/theme"
)

// Limit caps the number of sessions shown.
const Limit = 50

// Lister reads stored session summaries, newest first.
type Lister interface {
	List(ctx context.Context, limit int) ([]store.Summary, error)
}

type historyLoadedMsg struct {
	Sessions []store.Summary
	Err      error
}

type statusLoadedMsg struct {
	ID     string
	Status *session.Status
	Err    error
}

// Screen displays past sessions.
type Screen struct {
	lister  Lister
	engine  quiz.Engine
	timeout time.Duration

	sessions []store.Summary
	details  map[string]*session.Status
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var (
	_ screen.Screen          = (*Screen)(nil)
	_ screen.KeyHintProvider = (*Screen)(nil)
)

// New creates the history screen. engine serves resumed sessions and the
// per-session detail view.
func New(lister Lister, engine quiz.Engine, timeout time.Duration) *Screen {
	return &Screen{
		lister:   lister,
		engine:   engine,
		timeout:  timeout,
		details:  make(map[string]*session.Status),
		expanded: make(map[int]bool),
	}
}

func (s *Screen) Init() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		sessions, err := s.lister.List(ctx, Limit)
		return historyLoadedMsg{Sessions: sessions, Err: err}
	}
}

func (s *Screen) Title() string {
	return "History"
}

func (s *Screen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Details"},
	}
	if s.resumable() {
		hints = append(hints, layout.KeyHint{Key: "r", Description: "Resume"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
}

// resumable reports whether the selected session has rounds left.
func (s *Screen) resumable() bool {
	if s.selected >= len(s.sessions) {
		return false
	}
	sum := s.sessions[s.selected]
	return sum.RoundsDone < sum.RoundsTotal
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.sessions = msg.Sessions
		}
		s.loaded = true
		return s, nil

	case statusLoadedMsg:
		if msg.Err == nil {
			s.details[msg.ID] = msg.Status
		}
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.sessions)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			if len(s.sessions) == 0 {
				return s, nil
			}
			s.expanded[s.selected] = !s.expanded[s.selected]
			id := s.sessions[s.selected].ID
			if !s.expanded[s.selected] || s.details[id] != nil {
				return s, nil
			}
			return s, s.loadStatus(id)
		case "r":
			if !s.resumable() {
				return s, nil
			}
			q := quiz.New(s.engine, s.sessions[s.selected].ID, s.timeout)
			return s, func() tea.Msg { return router.PushScreenMsg{Screen: q} }
		}
	}
	return s, nil
}

func (s *Screen) loadStatus(id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		st, err := s.engine.Snapshot(ctx, id)
		return statusLoadedMsg{ID: id, Status: st, Err: err}
	}
}

func (s *Screen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.sessions) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No sessions yet. Start a game!")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, sum := range s.sessions {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}
		state := "finished"
		if sum.RoundsDone < sum.RoundsTotal {
			state = "in progress"
		}
		line := fmt.Sprintf("%s%s  θ %+.2f  %d/%d rounds  %s",
			prefix, sum.UpdatedAt.Local().Format("Jan 02, 2006 15:04"),
			sum.Theta, sum.RoundsDone, sum.RoundsTotal, state)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
				lipgloss.NewStyle().Foreground(theme.TextDim).Render(s.detailLine(sum.ID))))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func (s *Screen) detailLine(id string) string {
	st := s.details[id]
	if st == nil {
		return "    loading..."
	}
	snap := st.Snapshot
	if snap.StandardError == nil || snap.Interval == nil {
		return fmt.Sprintf("    %s  θ %+.2f  no standard error yet", id, snap.Ability)
	}
	return fmt.Sprintf("    %s  θ %+.2f ± %.2f  95%% CI [%+.2f, %+.2f]",
		id, snap.Ability, *snap.StandardError, snap.Interval.Lo, snap.Interval.Hi)
}
