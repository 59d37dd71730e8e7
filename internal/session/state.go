package session

import (
	"strings"
	"time"

	"github.com/abhisek/thetaquiz/internal/ability"
	"github.com/abhisek/thetaquiz/internal/difficulty"
	"github.com/abhisek/thetaquiz/internal/funnel"
	"github.com/abhisek/thetaquiz/internal/qbreader"
)

// Filters restricts which bonuses a session draws from.
type Filters = funnel.Filters

// NormalizeFilters trims the filters and maps "All" to unrestricted.
func NormalizeFilters(f Filters) Filters {
	out := Filters{
		Category:    qbreader.NormalizeCategory(f.Category),
		Subcategory: strings.TrimSpace(f.Subcategory),
	}
	if strings.EqualFold(out.Subcategory, "all") {
		out.Subcategory = ""
	}
	for _, a := range f.AlternateSubcategories {
		if a = strings.TrimSpace(a); a != "" {
			out.AlternateSubcategories = append(out.AlternateSubcategories, a)
		}
	}
	return out
}

// Meta identifies where a bonus came from.
type Meta struct {
	Set    string `json:"set"`
	Year   int    `json:"year,omitempty"`
	Packet int    `json:"packet,omitempty"`
	Number int    `json:"qnum,omitempty"`
}

// PendingItem is the served part awaiting an answer.
type PendingItem struct {
	Key string `json:"key"`

	// AnswerKey is the raw HTML answer line sent to the judge.
	AnswerKey string `json:"answer_key"`

	// Anchor is the difficulty the response is scored against.
	Anchor float64 `json:"anchor"`

	Level     string          `json:"level"`
	Part      difficulty.Part `json:"part"`
	PartIndex int             `json:"part_index"`
	PartLabel string          `json:"part_label"`
	Confirmed bool            `json:"confirmed"`

	Prompt     string `json:"prompt"`
	Leadin     string `json:"leadin"`
	ShowLeadin bool   `json:"show_leadin"`

	Stage funnel.Stage `json:"stage"`
	Meta  Meta         `json:"meta"`
}

// Phase is the session's position in its lifecycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseAwaitingAnswer
	PhaseComplete
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseAwaitingAnswer:
		return "awaiting_answer"
	case PhaseComplete:
		return "complete"
	}
	return "unknown"
}

// State is the whole per-session record persisted between requests.
type State struct {
	ID      string  `json:"id"`
	Filters Filters `json:"filters"`

	ability.State

	Seen    *SeenSet     `json:"seen"`
	Pending *PendingItem `json:"pending,omitempty"`

	StartedAt time.Time `json:"started_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewState returns a fresh session.
func NewState(id string, f Filters, rounds, maxSeen int, now time.Time) *State {
	return &State{
		ID:        id,
		Filters:   NormalizeFilters(f),
		State:     ability.NewState(rounds),
		Seen:      NewSeenSet(maxSeen),
		StartedAt: now,
		UpdatedAt: now,
	}
}

// Phase derives the lifecycle phase.
func (s *State) Phase() Phase {
	switch {
	case s.Pending != nil:
		return PhaseAwaitingAnswer
	case s.Done():
		return PhaseComplete
	default:
		return PhaseIdle
	}
}

// Status is a compact view of a session for callers.
type Status struct {
	Phase       Phase            `json:"-"`
	RoundsDone  int              `json:"rounds_done"`
	RoundsTotal int              `json:"rounds_total"`
	Snapshot    ability.Snapshot `json:"snapshot"`
}

// Status summarizes s.
func (s *State) Status() Status {
	return Status{
		Phase:       s.Phase(),
		RoundsDone:  s.RoundsDone,
		RoundsTotal: s.RoundsTotal,
		Snapshot:    s.Snapshot(),
	}
}
