package quiz

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/thetaquiz/internal/funnel"
	"github.com/abhisek/thetaquiz/internal/judge"
	"github.com/abhisek/thetaquiz/internal/ui/components"
	"github.com/abhisek/thetaquiz/internal/ui/layout"
	"github.com/abhisek/thetaquiz/internal/ui/theme"
)

func (s *Screen) View(width, height int) string {
	switch s.phase {
	case phaseLoading:
		return "\n\n" + layout.Centered("Finding a bonus at your level...", width, theme.Dim)
	case phaseSparse:
		return "\n\n" + layout.Centered("No unseen bonus turned up this time.", width, theme.Prompted) +
			"\n\n" + layout.Centered("Press R to try again.", width, theme.Hint)
	case phaseError:
		return "\n\n" + layout.Centered("Something went wrong", width, theme.Incorrect) +
			"\n\n" + layout.Paragraph(errText(s.err), width, theme.Dim) +
			"\n\n" + layout.Centered("Press R to retry.", width, theme.Hint)
	case phaseFeedback:
		return s.renderFeedback(width)
	}
	return s.renderQuestion(width)
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func (s *Screen) renderInfo(width int) string {
	it := s.item
	left := theme.Label.Render(fmt.Sprintf("  %s · %s", it.Level, it.PartLabel))
	right := theme.Dim.Render(sourceLine(s))
	gap := max(width-4-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", gap) + right
}

func sourceLine(s *Screen) string {
	m := s.item.Meta
	line := m.Set
	if m.Packet > 0 {
		line += fmt.Sprintf(" · packet %d", m.Packet)
	}
	if m.Number > 0 {
		line += fmt.Sprintf(" · #%d", m.Number)
	}
	if s.item.Stage == funnel.StageNeighbor {
		line += " · nearby tier"
	}
	return line
}

func (s *Screen) renderQuestion(width int) string {
	if s.item == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(s.renderInfo(width))
	b.WriteString("\n  ")
	b.WriteString(layout.Divider(width))
	b.WriteString("\n")
	b.WriteString(components.RoundBar{Done: s.status.RoundsDone, Total: s.status.RoundsTotal, Width: min(width-8, 40)}.View())
	b.WriteString("\n\n")

	if s.item.ShowLeadin && s.item.Leadin != "" {
		b.WriteString(layout.Paragraph(s.item.Leadin, width, theme.Dim))
		b.WriteString("\n\n")
	}
	b.WriteString(layout.Paragraph(s.item.Prompt, width, theme.Body.Bold(true)))
	b.WriteString("\n\n")

	if s.prompted {
		msg := "Prompt: be more specific."
		if s.directed != "" {
			msg = "Prompt: " + s.directed
		}
		b.WriteString(layout.Centered(msg, width, theme.Prompted))
		b.WriteString("\n\n")
	}

	if s.phase == phaseGrading {
		b.WriteString(layout.Centered("Checking...", width, theme.Dim))
	} else {
		b.WriteString(layout.Centered(s.input.View(), width, theme.Body))
	}
	if s.err != nil {
		b.WriteString("\n\n")
		b.WriteString(layout.Centered("Could not check that answer: "+s.err.Error(), width, theme.Incorrect))
	}
	return b.String()
}

func (s *Screen) renderFeedback(width int) string {
	res := s.last
	var b strings.Builder
	b.WriteString("\n")

	switch {
	case res.Overridden:
		b.WriteString(layout.Centered("Counted as correct", width, theme.Correct))
	case res.Decision.Verdict == judge.Accept:
		b.WriteString(layout.Centered("Correct!", width, theme.Correct))
	default:
		b.WriteString(layout.Centered("Not quite", width, theme.Incorrect))
	}
	b.WriteString("\n\n")

	if s.answer != "" {
		b.WriteString(layout.Centered("You said: "+s.answer, width, theme.Dim))
		b.WriteString("\n")
	}
	b.WriteString(layout.Paragraph("Answer: "+res.OfficialAnswer, width, theme.Body))
	b.WriteString("\n\n")

	snap := res.Status.Snapshot.Rounded()
	delta := snap.Ability - res.AbilityBefore
	line := fmt.Sprintf("θ %+.2f (%+.2f)   expected %.0f%%", snap.Ability, delta, res.Expected*100)
	b.WriteString(layout.Centered(line, width, theme.Label))
	b.WriteString("\n")

	scale := components.AbilityScale{Ability: snap.Ability, Lo: -5, Hi: 5, Width: min(width-10, 50)}
	if snap.Interval != nil {
		scale.HasInterval = true
		scale.IntervalLo, scale.IntervalHi = snap.Interval.Lo, snap.Interval.Hi
	}
	b.WriteString(layout.Centered(scale.View(), width, theme.Body))
	b.WriteString("\n\n")
	b.WriteString(layout.Centered("Press Enter for the next bonus", width, theme.Hint))
	return b.String()
}
