package quiz

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/thetaquiz/internal/ability"
	"github.com/abhisek/thetaquiz/internal/funnel"
	"github.com/abhisek/thetaquiz/internal/judge"
	"github.com/abhisek/thetaquiz/internal/router"
	"github.com/abhisek/thetaquiz/internal/screens/summary"
	"github.com/abhisek/thetaquiz/internal/session"
)

// fakeEngine returns canned results and records calls.
type fakeEngine struct {
	next     []error
	grade    *session.GradeResult
	gradeErr error
	graded   []string
	override []bool
}

func (f *fakeEngine) ServeNext(context.Context, string) (*session.NextResult, error) {
	if len(f.next) > 0 {
		err := f.next[0]
		f.next = f.next[1:]
		if err != nil {
			return nil, err
		}
	}
	return &session.NextResult{
		Item: &session.PendingItem{
			Level:      "High School Regular",
			PartLabel:  "Medium",
			Prompt:     "Name this red planet.",
			Leadin:     "This bonus is about Mars.",
			ShowLeadin: true,
			Stage:      funnel.StageTagged,
			Meta:       session.Meta{Set: "ACF Fall", Packet: 3, Number: 7},
		},
		Status: session.Status{RoundsTotal: 2},
	}, nil
}

func (f *fakeEngine) GradeResponse(_ context.Context, _ string, answer string, override bool) (*session.GradeResult, error) {
	f.graded = append(f.graded, answer)
	f.override = append(f.override, override)
	return f.grade, f.gradeErr
}

func (f *fakeEngine) Snapshot(context.Context, string) (*session.Status, error) {
	st := ability.State{Ability: 0.25, InfoSum: 0.25, RoundsDone: 2, RoundsTotal: 2}
	return &session.Status{Phase: session.PhaseComplete, RoundsDone: 2, RoundsTotal: 2, Snapshot: st.Snapshot()}, nil
}

func accepted() *session.GradeResult {
	st := ability.State{Ability: 0.25, InfoSum: 0.25, RoundsDone: 1, RoundsTotal: 2}
	return &session.GradeResult{
		Decision:       judge.Decision{Verdict: judge.Accept},
		Terminal:       true,
		Correct:        true,
		OfficialAnswer: "Mars",
		Expected:       0.5,
		Status:         session.Status{RoundsDone: 1, RoundsTotal: 2, Snapshot: st.Snapshot()},
	}
}

func typeText(t *testing.T, s *Screen, text string) *Screen {
	t.Helper()
	for _, r := range text {
		upd, _ := s.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
		s = upd.(*Screen)
	}
	return s
}

// run executes cmd and feeds its message back, as the runtime would.
func run(t *testing.T, s *Screen, cmd tea.Cmd) (*Screen, tea.Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	upd, next := s.Update(cmd())
	return upd.(*Screen), next
}

func started(t *testing.T, eng *fakeEngine) *Screen {
	t.Helper()
	s := New(eng, "sid", time.Second)
	s, _ = run(t, s, s.fetchNext())
	if s.phase != phaseQuestion {
		t.Fatalf("phase = %v, want question", s.phase)
	}
	return s
}

func TestQuiz_ShowsQuestion(t *testing.T) {
	s := started(t, &fakeEngine{})
	view := s.View(100, 30)
	for _, want := range []string{"Name this red planet.", "This bonus is about Mars.", "High School Regular", "ACF Fall"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if !strings.Contains(s.Status(), "Round 1/2") {
		t.Errorf("status = %q", s.Status())
	}
}

func TestQuiz_SubmitAndFeedback(t *testing.T) {
	eng := &fakeEngine{grade: accepted()}
	s := started(t, eng)
	s = typeText(t, s, "mars")

	upd, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	s = upd.(*Screen)
	if s.phase != phaseGrading {
		t.Fatalf("phase = %v, want grading", s.phase)
	}
	s, _ = run(t, s, cmd)

	if s.phase != phaseFeedback {
		t.Fatalf("phase = %v, want feedback", s.phase)
	}
	if len(eng.graded) != 1 || eng.graded[0] != "mars" || eng.override[0] {
		t.Errorf("graded = %v override = %v", eng.graded, eng.override)
	}
	view := s.View(100, 30)
	if !strings.Contains(view, "Correct!") || !strings.Contains(view, "Mars") {
		t.Errorf("feedback view:\n%s", view)
	}
	if len(s.rounds) != 1 || !s.rounds[0].Correct {
		t.Errorf("rounds = %+v", s.rounds)
	}
}

func TestQuiz_EmptyAnswerIgnored(t *testing.T) {
	eng := &fakeEngine{grade: accepted()}
	s := started(t, eng)
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd != nil {
		t.Error("empty answer should not be submitted")
	}
}

func TestQuiz_Override(t *testing.T) {
	eng := &fakeEngine{grade: accepted()}
	s := started(t, eng)
	_, cmd := s.Update(tea.KeyPressMsg{Code: 'y', Mod: tea.ModCtrl})
	run(t, s, cmd)
	if len(eng.override) != 1 || !eng.override[0] {
		t.Errorf("override = %v, want [true]", eng.override)
	}
}

func TestQuiz_PromptKeepsQuestion(t *testing.T) {
	eng := &fakeEngine{grade: &session.GradeResult{
		Decision: judge.Decision{Verdict: judge.Prompt, DirectedPrompt: "which planet?"},
		Terminal: false,
		Status:   session.Status{RoundsTotal: 2},
	}}
	s := started(t, eng)
	s = typeText(t, s, "planet")
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	s, _ = run(t, s, cmd)

	if s.phase != phaseQuestion {
		t.Fatalf("phase = %v, want question", s.phase)
	}
	if !strings.Contains(s.View(100, 30), "which planet?") {
		t.Error("directed prompt not shown")
	}
	if len(s.rounds) != 0 {
		t.Error("a prompt must not count as a round")
	}
}

func TestQuiz_GradeErrorKeepsQuestion(t *testing.T) {
	eng := &fakeEngine{gradeErr: errors.New("boom")}
	s := started(t, eng)
	s = typeText(t, s, "mars")
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	s, _ = run(t, s, cmd)
	if s.phase != phaseQuestion || s.err == nil {
		t.Errorf("phase = %v err = %v", s.phase, s.err)
	}
}

func TestQuiz_SparseThenRetry(t *testing.T) {
	eng := &fakeEngine{next: []error{session.ErrSparse}}
	s := New(eng, "sid", time.Second)
	s, _ = run(t, s, s.fetchNext())
	if s.phase != phaseSparse {
		t.Fatalf("phase = %v, want sparse", s.phase)
	}

	upd, cmd := s.Update(tea.KeyPressMsg{Code: 'r', Text: "r"})
	s = upd.(*Screen)
	s, _ = run(t, s, cmd)
	if s.phase != phaseQuestion {
		t.Errorf("phase after retry = %v, want question", s.phase)
	}
}

func TestQuiz_FinishReplacesWithSummary(t *testing.T) {
	eng := &fakeEngine{next: []error{session.ErrRoundsExhausted}}
	s := New(eng, "sid", time.Second)
	s, cmd := run(t, s, s.fetchNext())
	s, cmd = run(t, s, cmd)

	msg := cmd()
	rep, ok := msg.(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("got %T, want ReplaceScreenMsg", msg)
	}
	if _, ok := rep.Screen.(*summary.Screen); !ok {
		t.Errorf("replacement is %T, want *summary.Screen", rep.Screen)
	}
}
