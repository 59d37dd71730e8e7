// Package session runs adaptive quiz sessions: it picks a difficulty from
// the current ability estimate, serves one bonus part at a time and scores
// the responses.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/abhisek/thetaquiz/internal/ability"
	"github.com/abhisek/thetaquiz/internal/difficulty"
	"github.com/abhisek/thetaquiz/internal/funnel"
	"github.com/abhisek/thetaquiz/internal/judge"
	"github.com/abhisek/thetaquiz/internal/parts"
	"github.com/abhisek/thetaquiz/internal/qbreader"
	"github.com/abhisek/thetaquiz/internal/random"
)

var (
	// ErrSparse means no unseen usable bonus could be found this time.
	// Nothing in the session changed, so the caller may simply retry.
	ErrSparse = errors.New("sparse: no unseen bonus available")

	// ErrNoPendingItem is returned when grading with nothing served.
	ErrNoPendingItem = errors.New("no current question")

	// ErrInvalidRounds is returned when a session is started with fewer
	// than one round, or with more rounds than the seen set can remember.
	ErrInvalidRounds = errors.New("invalid number of rounds")

	// ErrRoundsExhausted is returned by ServeNext once every round has been
	// graded.
	ErrRoundsExhausted = errors.New("all rounds played")
)

// Fetcher finds a bonus for a difficulty row. *funnel.Funnel satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context, req funnel.Request) (*funnel.Result, error)
}

// Config tunes session behavior.
type Config struct {
	// DefaultRounds is used by front ends when the player does not choose.
	DefaultRounds int `mapstructure:"default_rounds"`

	// MaxSeen bounds the per-session seen set.
	MaxSeen int `mapstructure:"max_seen"`

	// LeadinEvery shows the lead-in on the first item of every block of
	// this many rounds.
	LeadinEvery int `mapstructure:"leadin_every"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{DefaultRounds: 12, MaxSeen: DefaultMaxSeen, LeadinEvery: 3}
}

// NextResult is a served item.
type NextResult struct {
	Item *PendingItem

	// Row is the row chosen for the current ability; the item may come
	// from a neighbor row when Stage is funnel.StageNeighbor.
	Row    difficulty.Row
	Status Status
}

// GradeResult is the outcome of GradeResponse.
type GradeResult struct {
	Decision judge.Decision

	// Terminal is false for a prompt: the item stays pending and nothing
	// was scored.
	Terminal   bool
	Correct    bool
	Overridden bool

	// OfficialAnswer is the answer line as plain text.
	OfficialAnswer string

	// Expected is the predicted probability of a correct response used
	// in the update.
	Expected      float64
	AbilityBefore float64
	Status        Status
}

// Engine coordinates the table, funnel, judge and store. It is safe for
// concurrent use; calls for one session are serialized.
type Engine struct {
	store     Store
	table     *difficulty.Table
	estimator *ability.Estimator
	fetcher   Fetcher
	judge     judge.Judge
	cfg       Config

	rng    *rand.Rand
	locks  *Locker
	logger *slog.Logger
	now    func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand sets the random source used for row and code choice. It must
// be safe for concurrent use.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) { e.rng = r }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithConfig overrides DefaultConfig.
func WithConfig(cfg Config) Option {
	return func(e *Engine) { e.cfg = cfg }
}

// NewEngine creates an Engine.
func NewEngine(store Store, table *difficulty.Table, est *ability.Estimator, f Fetcher, j judge.Judge, opts ...Option) *Engine {
	e := &Engine{
		store:     store,
		table:     table,
		estimator: est,
		fetcher:   f,
		judge:     j,
		cfg:       DefaultConfig(),
		locks:     NewLocker(),
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, o := range opts {
		o(e)
	}
	if e.rng == nil {
		e.rng = random.New()
	}
	if e.cfg.LeadinEvery < 1 {
		e.cfg.LeadinEvery = 1
	}
	return e
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Start resets session id with the given filters and round count.
func (e *Engine) Start(ctx context.Context, id string, f Filters, rounds int) (*State, error) {
	if rounds < 1 {
		return nil, fmt.Errorf("%w: %d is below 1", ErrInvalidRounds, rounds)
	}
	// Every served key must stay in the seen set for the whole session.
	if limit := e.maxSeen(); rounds > limit {
		return nil, fmt.Errorf("%w: %d exceeds the limit of %d", ErrInvalidRounds, rounds, limit)
	}
	unlock := e.locks.Lock(id)
	defer unlock()

	st := NewState(id, f, rounds, e.cfg.MaxSeen, e.now())
	if err := e.store.Save(ctx, st); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	e.logger.Info("session started", "session_id", id, "rounds", rounds, "category", st.Filters.Category)
	return st, nil
}

func (e *Engine) maxSeen() int {
	if e.cfg.MaxSeen <= 0 {
		return DefaultMaxSeen
	}
	return e.cfg.MaxSeen
}

// ServeNext picks a row for the current ability, fetches an unseen bonus
// and makes the selected part pending, superseding any item already
// pending.
func (e *Engine) ServeNext(ctx context.Context, id string) (*NextResult, error) {
	unlock := e.locks.Lock(id)
	defer unlock()

	st, err := e.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if st.Done() {
		return nil, ErrRoundsExhausted
	}

	row := e.table.ChooseRow(st.Ability, e.rng)
	code := e.table.PickCode(row, e.rng)
	log := e.logger.With("session_id", id, "tier", row.Level, "part", row.Part.String(), "code", code)

	res, err := e.fetcher.Fetch(ctx, funnel.Request{
		Row:     row,
		Code:    code,
		Filters: st.Filters,
		Seen:    st.Seen,
	})
	if errors.Is(err, funnel.ErrNotFound) {
		log.Info("no bonus found")
		return nil, fmt.Errorf("%w: %w", ErrSparse, err)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch bonus: %w", err)
	}
	if res.Bonus.Usable() == 0 {
		return nil, fmt.Errorf("%w: fetched bonus has no usable parts", ErrSparse)
	}

	item := e.buildItem(st, res)
	st.Seen.Add(item.Key)
	st.Pending = item
	st.UpdatedAt = e.now()
	if err := e.store.Save(ctx, st); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	log.Debug("served bonus", "key", item.Key, "stage", res.Stage.String(), "confirmed", item.Confirmed)
	return &NextResult{Item: clonePending(item), Row: row, Status: st.Status()}, nil
}

func (e *Engine) buildItem(st *State, res *funnel.Result) *PendingItem {
	b := res.Bonus
	sel := parts.Select(b, res.Row.PartIndex, res.Row.Part)
	return &PendingItem{
		Key:        b.Key(),
		AnswerKey:  b.AnswerKeys()[sel.Index],
		Anchor:     res.Row.Anchor,
		Level:      res.Row.Level,
		Part:       res.Row.Part,
		PartIndex:  sel.Index,
		PartLabel:  sel.Label,
		Confirmed:  sel.Confirmed,
		Prompt:     b.DisplayParts()[sel.Index],
		Leadin:     b.DisplayLeadin(),
		ShowLeadin: st.RoundsDone%e.cfg.LeadinEvery == 0,
		Stage:      res.Stage,
		Meta: Meta{
			Set:    b.Set.Name,
			Year:   b.Set.Year,
			Packet: b.Packet.Number,
			Number: b.Number,
		},
	}
}

// GradeResponse judges answer against the pending item, or accepts it
// outright when override is set. A prompt verdict leaves the session
// untouched so the player can refine the answer.
func (e *Engine) GradeResponse(ctx context.Context, id, answer string, override bool) (*GradeResult, error) {
	unlock := e.locks.Lock(id)
	defer unlock()

	st, err := e.load(ctx, id)
	if err != nil {
		return nil, err
	}
	p := st.Pending
	if p == nil {
		return nil, ErrNoPendingItem
	}

	dec := judge.Decision{Verdict: judge.Accept}
	if !override {
		dec, err = e.judge.Judge(ctx, p.AnswerKey, answer)
		if err != nil {
			return nil, fmt.Errorf("judge answer: %w", err)
		}
	}

	out := &GradeResult{
		Decision:       dec,
		Terminal:       dec.Verdict.Terminal(),
		Overridden:     override,
		OfficialAnswer: qbreader.StripHTML(p.AnswerKey),
		AbilityBefore:  st.Ability,
	}
	if !out.Terminal {
		// The official answer stays hidden until the round ends.
		out.OfficialAnswer = ""
		out.Status = st.Status()
		return out, nil
	}

	out.Correct = dec.Verdict.Correct()
	out.Expected = e.estimator.Record(&st.State, p.Anchor, out.Correct)
	st.Pending = nil
	st.UpdatedAt = e.now()
	if err := e.store.Save(ctx, st); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	out.Status = st.Status()
	e.logger.Info("response graded",
		"session_id", id,
		"verdict", string(dec.Verdict),
		"override", override,
		"theta_before", out.AbilityBefore,
		"theta", st.Ability,
		"rounds_done", st.RoundsDone,
	)
	return out, nil
}

// Snapshot returns the session's current status.
func (e *Engine) Snapshot(ctx context.Context, id string) (*Status, error) {
	unlock := e.locks.Lock(id)
	defer unlock()

	st, err := e.load(ctx, id)
	if err != nil {
		return nil, err
	}
	s := st.Status()
	return &s, nil
}

// Pending returns a copy of the item awaiting an answer.
func (e *Engine) Pending(ctx context.Context, id string) (*PendingItem, error) {
	unlock := e.locks.Lock(id)
	defer unlock()

	st, err := e.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if st.Pending == nil {
		return nil, ErrNoPendingItem
	}
	return clonePending(st.Pending), nil
}

// End deletes the session.
func (e *Engine) End(ctx context.Context, id string) error {
	unlock := e.locks.Lock(id)
	defer unlock()
	return e.store.Delete(ctx, id)
}

func (e *Engine) load(ctx context.Context, id string) (*State, error) {
	st, err := e.store.Load(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	if st.Seen == nil {
		st.Seen = NewSeenSet(e.cfg.MaxSeen)
	} else {
		st.Seen.setCapacity(e.cfg.MaxSeen)
	}
	return st, nil
}

func clonePending(p *PendingItem) *PendingItem {
	c := *p
	return &c
}
