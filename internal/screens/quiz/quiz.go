// Package quiz is the TUI screen that plays one adaptive session.
package quiz

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/thetaquiz/internal/router"
	"github.com/abhisek/thetaquiz/internal/screen"
	"github.com/abhisek/thetaquiz/internal/screens/summary"
	"github.com/abhisek/thetaquiz/internal/session"
	"github.com/abhisek/thetaquiz/internal/ui/components"
	"github.com/abhisek/thetaquiz/internal/ui/layout"
)

// Engine is what the screen needs from *session.Engine.
type Engine interface {
	ServeNext(ctx context.Context, id string) (*session.NextResult, error)
	GradeResponse(ctx context.Context, id, answer string, override bool) (*session.GradeResult, error)
	Snapshot(ctx context.Context, id string) (*session.Status, error)
}

type phase int

const (
	phaseLoading phase = iota
	phaseQuestion
	phaseGrading
	phaseFeedback
	phaseSparse
	phaseError
)

// Round is one graded item, kept for the summary.
type Round = summary.Round

// Screen plays a session that has already been started.
type Screen struct {
	engine  Engine
	id      string
	timeout time.Duration

	phase  phase
	item   *session.PendingItem
	status session.Status
	input  components.TextInput

	// directed is the judge's follow-up after a prompt verdict.
	directed string
	prompted bool

	last   *session.GradeResult
	answer string
	rounds []Round
	err    error
}

var (
	_ screen.Screen          = (*Screen)(nil)
	_ screen.KeyHintProvider = (*Screen)(nil)
	_ screen.StatusProvider  = (*Screen)(nil)
)

// New creates the screen for session id. timeout bounds each engine call.
func New(engine Engine, id string, timeout time.Duration) *Screen {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Screen{
		engine:  engine,
		id:      id,
		timeout: timeout,
		input:   newAnswerInput(),
	}
}

func newAnswerInput() components.TextInput {
	return components.NewTextInput("Your answer", false, 200)
}

func (s *Screen) Init() tea.Cmd {
	return tea.Batch(s.fetchNext(), s.input.Init())
}

func (s *Screen) Title() string {
	return "Quiz"
}

// Status shows the running estimate and round counter in the header.
func (s *Screen) Status() string {
	if s.status.RoundsTotal == 0 {
		return ""
	}
	snap := s.status.Snapshot.Rounded()
	str := fmt.Sprintf("θ %+.2f", snap.Ability)
	if snap.StandardError != nil {
		str += fmt.Sprintf(" ± %.2f", *snap.StandardError)
	}
	return str + fmt.Sprintf("   Round %d/%d  ", min(s.status.RoundsDone+1, s.status.RoundsTotal), s.status.RoundsTotal)
}

func (s *Screen) KeyHints() []layout.KeyHint {
	switch s.phase {
	case phaseQuestion:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Submit"},
			{Key: "Ctrl+Y", Description: "I was right"},
			{Key: "Esc", Description: "Leave"},
		}
	case phaseFeedback:
		return []layout.KeyHint{{Key: "Enter", Description: "Next"}, {Key: "Esc", Description: "Leave"}}
	case phaseSparse, phaseError:
		return []layout.KeyHint{{Key: "R", Description: "Retry"}, {Key: "Esc", Description: "Leave"}}
	}
	return []layout.KeyHint{{Key: "Esc", Description: "Leave"}, {Key: "Ctrl+C", Description: "Quit"}}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case itemMsg:
		return s.handleItem(msg)
	case gradedMsg:
		return s.handleGraded(msg)
	case finishedMsg:
		return s.handleFinished(msg)
	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.phase == phaseQuestion {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *Screen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()
	switch s.phase {
	case phaseQuestion:
		switch key {
		case "enter":
			answer := s.input.Value()
			if answer == "" {
				return s, nil
			}
			return s.submit(answer, false)
		case "ctrl+y":
			return s.submit(s.input.Value(), true)
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd

	case phaseFeedback:
		if key == "enter" || key == "space" || key == "n" {
			return s.loadNext()
		}

	case phaseSparse, phaseError:
		if key == "r" || key == "R" || key == "enter" {
			return s.loadNext()
		}
	}
	return s, nil
}

func (s *Screen) loadNext() (screen.Screen, tea.Cmd) {
	s.phase = phaseLoading
	s.err = nil
	return s, s.fetchNext()
}

func (s *Screen) submit(answer string, override bool) (screen.Screen, tea.Cmd) {
	s.phase = phaseGrading
	return s, s.grade(answer, override)
}

func (s *Screen) handleItem(msg itemMsg) (screen.Screen, tea.Cmd) {
	switch {
	case errors.Is(msg.Err, session.ErrRoundsExhausted):
		return s, s.finish()
	case errors.Is(msg.Err, session.ErrSparse):
		s.phase = phaseSparse
		return s, nil
	case msg.Err != nil:
		s.phase = phaseError
		s.err = msg.Err
		return s, nil
	}

	s.item = msg.Result.Item
	s.status = msg.Result.Status
	s.phase = phaseQuestion
	s.directed = ""
	s.prompted = false
	s.input = newAnswerInput()
	return s, s.input.Init()
}

func (s *Screen) handleGraded(msg gradedMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		// The item is still pending; let the player try again.
		s.phase = phaseQuestion
		s.err = msg.Err
		return s, nil
	}
	s.err = nil
	res := msg.Result
	s.status = res.Status

	if !res.Terminal {
		s.phase = phaseQuestion
		s.prompted = true
		s.directed = res.Decision.DirectedPrompt
		s.input.Reset()
		return s, nil
	}

	s.last = res
	s.answer = msg.Answer
	s.phase = phaseFeedback
	s.rounds = append(s.rounds, Round{
		Level:      s.item.Level,
		Part:       s.item.PartLabel,
		Answer:     msg.Answer,
		Official:   res.OfficialAnswer,
		Correct:    res.Correct,
		Overridden: res.Overridden,
		Before:     res.AbilityBefore,
		After:      res.Status.Snapshot.Ability,
	})
	return s, nil
}

func (s *Screen) handleFinished(msg finishedMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		s.phase = phaseError
		s.err = msg.Err
		return s, nil
	}
	sum := summary.New(*msg.Status, s.rounds)
	return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: sum} }
}

func (s *Screen) fetchNext() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		res, err := s.engine.ServeNext(ctx, s.id)
		return itemMsg{Result: res, Err: err}
	}
}

func (s *Screen) grade(answer string, override bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		res, err := s.engine.GradeResponse(ctx, s.id, answer, override)
		return gradedMsg{Answer: answer, Result: res, Err: err}
	}
}

func (s *Screen) finish() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		st, err := s.engine.Snapshot(ctx, s.id)
		return finishedMsg{Status: st, Err: err}
	}
}
