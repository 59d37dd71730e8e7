package setup

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/thetaquiz/internal/router"
	"github.com/abhisek/thetaquiz/internal/screen"
	"github.com/abhisek/thetaquiz/internal/screens/quiz"
	"github.com/abhisek/thetaquiz/internal/session"
)

type fakeEngine struct {
	startErr error
	id       string
	filters  session.Filters
	rounds   int
}

func (f *fakeEngine) Start(_ context.Context, id string, fl session.Filters, rounds int) (*session.State, error) {
	f.id, f.filters, f.rounds = id, fl, rounds
	if f.startErr != nil {
		return nil, f.startErr
	}
	return session.NewState(id, fl, rounds, 10, time.Now()), nil
}

func (f *fakeEngine) ServeNext(context.Context, string) (*session.NextResult, error) {
	return nil, session.ErrSparse
}

func (f *fakeEngine) GradeResponse(context.Context, string, string, bool) (*session.GradeResult, error) {
	return nil, session.ErrNoPendingItem
}

func (f *fakeEngine) Snapshot(context.Context, string) (*session.Status, error) {
	return &session.Status{}, nil
}

func newScreen(eng *fakeEngine, opts ...Option) *Screen {
	opts = append([]Option{WithIDGenerator(func() string { return "sid-1" })}, opts...)
	return New(eng, 12, time.Second, opts...)
}

func press(s *Screen, msg tea.KeyPressMsg) (*Screen, tea.Cmd) {
	upd, cmd := s.Update(msg)
	return upd.(*Screen), cmd
}

func TestSetup_Defaults(t *testing.T) {
	s := newScreen(&fakeEngine{})
	if s.Rounds() != 12 {
		t.Errorf("Rounds() = %d, want 12", s.Rounds())
	}
	if s.Filters().Category != "" {
		t.Errorf("Category = %q, want unrestricted", s.Filters().Category)
	}
}

func TestSetup_StartPushesQuiz(t *testing.T) {
	eng := &fakeEngine{}
	s := newScreen(eng)

	s, _ = press(s, tea.KeyPressMsg{Code: tea.KeyDown})
	s, _ = press(s, tea.KeyPressMsg{Code: tea.KeyTab})
	s, _ = press(s, tea.KeyPressMsg{Code: '5', Text: "5"})
	s, cmd := press(s, tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a start command")
	}

	upd, next := s.Update(cmd())
	s = upd.(*Screen)
	if eng.id != "sid-1" || eng.rounds != 5 {
		t.Errorf("Start(id=%q, rounds=%d), want sid-1 and 5", eng.id, eng.rounds)
	}
	if eng.filters.Category != "Current Events" {
		t.Errorf("category = %q, want Current Events", eng.filters.Category)
	}
	if next == nil {
		t.Fatal("expected a push command")
	}
	push, ok := next().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("got %T, want PushScreenMsg", next())
	}
	if _, ok := push.Screen.(*quiz.Screen); !ok {
		t.Errorf("pushed %T, want *quiz.Screen", push.Screen)
	}
	if s.starting {
		t.Error("still starting after startedMsg")
	}
}

func TestSetup_StartError(t *testing.T) {
	s := newScreen(&fakeEngine{startErr: errors.New("disk full")})
	s, cmd := press(s, tea.KeyPressMsg{Code: tea.KeyEnter})
	upd, next := s.Update(cmd())
	s = upd.(*Screen)
	if next != nil {
		t.Error("no screen should be pushed on error")
	}
	if s.err == nil {
		t.Error("error not recorded")
	}
}

func TestSetup_WithCategory(t *testing.T) {
	s := newScreen(&fakeEngine{}, WithCategory("science"))
	if got := s.Filters().Category; got != "Science" {
		t.Errorf("Category = %q, want Science", got)
	}
}

func TestSetup_RoundsFieldIgnoresLetters(t *testing.T) {
	s := newScreen(&fakeEngine{})
	s, _ = press(s, tea.KeyPressMsg{Code: tea.KeyTab})
	s, _ = press(s, tea.KeyPressMsg{Code: 'x', Text: "x"})
	if s.Rounds() != 12 {
		t.Errorf("Rounds() = %d, want default 12", s.Rounds())
	}
}

type stubScreen struct{}

func (stubScreen) Init() tea.Cmd                            { return nil }
func (s stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (stubScreen) View(int, int) string                     { return "history" }
func (stubScreen) Title() string                            { return "History" }

func TestSetup_HistoryKey(t *testing.T) {
	s := newScreen(&fakeEngine{})
	if _, cmd := press(s, tea.KeyPressMsg{Code: 'h', Text: "h"}); cmd != nil {
		t.Error("h without a history screen should do nothing")
	}

	s = newScreen(&fakeEngine{}, WithHistory(func() screen.Screen { return stubScreen{} }))
	s, cmd := press(s, tea.KeyPressMsg{Code: 'h', Text: "h"})
	if cmd == nil {
		t.Fatal("h should push the history screen")
	}
	if _, ok := cmd().(router.PushScreenMsg); !ok {
		t.Fatalf("expected PushScreenMsg, got %T", cmd())
	}

	// Typing into the rounds field never opens history.
	s, _ = press(s, tea.KeyPressMsg{Code: tea.KeyTab})
	if _, cmd := press(s, tea.KeyPressMsg{Code: 'h', Text: "h"}); cmd != nil {
		if _, ok := cmd().(router.PushScreenMsg); ok {
			t.Error("h in the rounds field should not push history")
		}
	}
}
