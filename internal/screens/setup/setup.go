// Package setup is the first TUI screen: pick a category and a number of
// rounds, then start a session.
package setup

import (
	"context"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"

	"github.com/abhisek/thetaquiz/internal/qbreader"
	"github.com/abhisek/thetaquiz/internal/router"
	"github.com/abhisek/thetaquiz/internal/screen"
	"github.com/abhisek/thetaquiz/internal/screens/quiz"
	"github.com/abhisek/thetaquiz/internal/session"
	"github.com/abhisek/thetaquiz/internal/ui/components"
	"github.com/abhisek/thetaquiz/internal/ui/layout"
	"github.com/abhisek/thetaquiz/internal/ui/theme"
)

// Engine starts sessions and plays them.
type Engine interface {
	quiz.Engine
	Start(ctx context.Context, id string, f session.Filters, rounds int) (*session.State, error)
}

const allCategories = "All"

type field int

const (
	fieldCategory field = iota
	fieldRounds
)

// startedMsg reports the outcome of Engine.Start.
type startedMsg struct {
	ID  string
	Err error
}

// Screen collects the session options.
type Screen struct {
	engine  Engine
	timeout time.Duration
	newID   func() string
	history func() screen.Screen

	categories components.Menu
	rounds     components.TextInput
	focus      field
	defRounds  int
	starting   bool
	err        error
}

var (
	_ screen.Screen          = (*Screen)(nil)
	_ screen.KeyHintProvider = (*Screen)(nil)
)

// Option configures the screen.
type Option func(*Screen)

// WithIDGenerator overrides uuid.NewString for session ids.
func WithIDGenerator(f func() string) Option {
	return func(s *Screen) { s.newID = f }
}

// WithHistory enables the "h" key, which pushes the screen built by f.
func WithHistory(f func() screen.Screen) Option {
	return func(s *Screen) { s.history = f }
}

// WithCategory preselects a category.
func WithCategory(name string) Option {
	return func(s *Screen) {
		name = qbreader.NormalizeCategory(name)
		for i, c := range s.categories.Items {
			if c == name {
				s.categories.Selected = i
			}
		}
	}
}

// New creates the setup screen. defaultRounds prefills the rounds field.
func New(engine Engine, defaultRounds int, timeout time.Duration, opts ...Option) *Screen {
	items := append([]string{allCategories}, qbreader.CategoryNames()...)
	s := &Screen{
		engine:     engine,
		timeout:    timeout,
		newID:      uuid.NewString,
		categories: components.NewMenu(items, 8),
		rounds:     components.NewTextInput(fmt.Sprint(defaultRounds), true, 3),
		defRounds:  defaultRounds,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Screen) Init() tea.Cmd {
	return nil
}

func (s *Screen) Title() string {
	return "New game"
}

func (s *Screen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "↑↓", Description: "Category"},
		{Key: "Tab", Description: "Rounds"},
		{Key: "Enter", Description: "Start"},
	}
	if s.history != nil {
		hints = append(hints, layout.KeyHint{Key: "h", Description: "History"})
	}
	return append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case startedMsg:
		s.starting = false
		if msg.Err != nil {
			s.err = msg.Err
			return s, nil
		}
		s.err = nil
		q := quiz.New(s.engine, msg.ID, s.timeout)
		return s, func() tea.Msg { return router.PushScreenMsg{Screen: q} }

	case tea.KeyMsg:
		if s.starting {
			return s, nil
		}
		switch msg.String() {
		case "tab", "shift+tab":
			if s.focus == fieldCategory {
				s.focus = fieldRounds
				return s, s.rounds.Init()
			}
			s.focus = fieldCategory
			return s, nil
		case "enter":
			return s.start()
		case "h":
			if s.focus == fieldCategory && s.history != nil {
				h := s.history()
				return s, func() tea.Msg { return router.PushScreenMsg{Screen: h} }
			}
		}
		if s.focus == fieldCategory {
			s.categories = s.categories.Update(msg)
			return s, nil
		}
		var cmd tea.Cmd
		s.rounds, cmd = s.rounds.Update(msg)
		return s, cmd
	}
	return s, nil
}

// Rounds is the chosen number of rounds, falling back to the default.
func (s *Screen) Rounds() int {
	n, err := s.rounds.Int()
	if err != nil || n < 1 {
		return s.defRounds
	}
	return n
}

// Filters is the chosen category filter.
func (s *Screen) Filters() session.Filters {
	c := s.categories.Value()
	if c == allCategories {
		c = ""
	}
	return session.Filters{Category: c}
}

func (s *Screen) start() (screen.Screen, tea.Cmd) {
	s.starting = true
	id := s.newID()
	f, rounds := s.Filters(), s.Rounds()
	return s, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		_, err := s.engine.Start(ctx, id, f, rounds)
		return startedMsg{ID: id, Err: err}
	}
}

func (s *Screen) View(width, height int) string {
	out := "\n" + layout.Centered("Adaptive quizbowl bonuses", width, theme.Title) + "\n"
	out += layout.Centered("Each answer moves your ability estimate; the next bonus follows it.", width, theme.Dim) + "\n\n"

	catLabel, roundsLabel := theme.Dim, theme.Dim
	if s.focus == fieldCategory {
		catLabel = theme.Label
	} else {
		roundsLabel = theme.Label
	}

	out += layout.Centered(catLabel.Render("Category"), width, theme.Body) + "\n"
	out += layout.Centered(s.categories.View(), width, theme.Body) + "\n"
	out += layout.Centered(roundsLabel.Render("Rounds")+"  "+s.rounds.View(), width, theme.Body) + "\n\n"

	switch {
	case s.starting:
		out += layout.Centered("Starting...", width, theme.Dim)
	case s.err != nil:
		out += layout.Centered("Could not start: "+s.err.Error(), width, theme.Incorrect)
	}
	return out
}
