// Package funnel fetches one unseen, usable bonus for a difficulty row by
// walking a ladder of progressively broader queries.
package funnel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/thetaquiz/internal/difficulty"
	"github.com/abhisek/thetaquiz/internal/qbreader"
	"github.com/abhisek/thetaquiz/internal/random"
	"github.com/abhisek/thetaquiz/internal/retry"
)

// ErrNotFound is returned when every stage exhausts without a usable,
// unseen bonus.
var ErrNotFound = errors.New("no usable bonus found")

// Source retrieves random bonuses. *qbreader.Client satisfies it.
type Source interface {
	RandomBonuses(ctx context.Context, q qbreader.Query) ([]qbreader.Bonus, error)
}

// Seen reports whether a bonus key was already served.
type Seen interface {
	Contains(key string) bool
}

// Filters restricts retrieval by category. An empty Category is
// unrestricted.
type Filters struct {
	Category               string   `json:"category,omitempty"`
	Subcategory            string   `json:"subcategory,omitempty"`
	AlternateSubcategories []string `json:"alternate_subcategories,omitempty"`
}

// Config tunes the funnel.
type Config struct {
	// BatchSize is the number of candidates requested per call. Default: 8.
	BatchSize int `mapstructure:"batch_size"`

	// AttemptsPerStage is how many rounds of calls a stage makes before
	// giving up. Default: 2.
	AttemptsPerStage int `mapstructure:"attempts_per_stage"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{BatchSize: 8, AttemptsPerStage: 2}
}

// Request is one fetch.
type Request struct {
	Row     difficulty.Row
	Code    int
	Filters Filters
	Seen    Seen
}

// Result is the bonus the funnel settled on.
type Result struct {
	Bonus  qbreader.Bonus
	Usable int
	Stage  Stage

	// Row is the tier the bonus was fetched for. It differs from the
	// requested row only for StageNeighbor.
	Row difficulty.Row
}

// Funnel walks the retrieval ladder. It holds no per-session state and is
// safe for concurrent use.
type Funnel struct {
	src    Source
	table  *difficulty.Table
	cfg    Config
	retry  retry.Policy
	rng    *rand.Rand
	logger *slog.Logger
}

// Option configures a Funnel.
type Option func(*Funnel)

// WithRetry sets the retry policy applied to each upstream call.
func WithRetry(p retry.Policy) Option {
	return func(f *Funnel) { f.retry = p }
}

// WithRand sets the random source. It must be safe for concurrent use when
// the funnel is shared.
func WithRand(r *rand.Rand) Option {
	return func(f *Funnel) { f.rng = r }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(f *Funnel) { f.logger = l }
}

// New creates a Funnel over src. table supplies neighbor rows.
func New(src Source, table *difficulty.Table, cfg Config, opts ...Option) *Funnel {
	def := DefaultConfig()
	if cfg.BatchSize < 1 {
		cfg.BatchSize = def.BatchSize
	}
	if cfg.AttemptsPerStage < 1 {
		cfg.AttemptsPerStage = def.AttemptsPerStage
	}
	f := &Funnel{
		src:    src,
		table:  table,
		cfg:    cfg,
		retry:  retry.DefaultPolicy(),
		logger: slog.Default(),
	}
	for _, o := range opts {
		o(f)
	}
	if f.rng == nil {
		f.rng = random.New()
	}
	return f
}

// call is one upstream query and the row it targets.
type call struct {
	row   difficulty.Row
	query qbreader.Query
}

type candidate struct {
	bonus qbreader.Bonus
	row   difficulty.Row
}

// Fetch returns a usable bonus not in req.Seen, or ErrNotFound.
func (f *Funnel) Fetch(ctx context.Context, req Request) (*Result, error) {
	log := f.logger.With("tier", req.Row.Level, "part", req.Row.Part.String(), "code", req.Code)

	var prev string
	for _, stage := range []Stage{StageTagged, StageExact, StageCategory, StageNeighbor} {
		calls := f.plan(stage, req)
		if len(calls) == 0 {
			continue
		}
		// A stage that would repeat the previous stage's queries adds
		// nothing; this happens when no subcategory was requested.
		sig := signature(calls)
		if sig == prev {
			continue
		}
		prev = sig

		for attempt := range f.cfg.AttemptsPerStage {
			cands, err := f.collect(ctx, calls)
			if err != nil {
				return nil, err
			}
			cands = lo.Filter(cands, func(c candidate, _ int) bool {
				return accept(stage, c.bonus, req.Seen)
			})
			cands = lo.UniqBy(cands, func(c candidate) string { return c.bonus.Key() })
			if len(cands) == 0 {
				log.Debug("funnel stage empty", "stage", stage.String(), "attempt", attempt+1)
				continue
			}

			pick := cands[f.rng.IntN(len(cands))]
			log.Debug("funnel hit", "stage", stage.String(), "candidates", len(cands), "key", pick.bonus.Key())
			return &Result{
				Bonus:  pick.bonus,
				Usable: pick.bonus.Usable(),
				Stage:  stage,
				Row:    pick.row,
			}, nil
		}
	}
	log.Info("funnel exhausted")
	return nil, ErrNotFound
}

// plan builds the calls a stage issues.
func (f *Funnel) plan(stage Stage, req Request) []call {
	base := qbreader.Query{
		Number:        f.cfg.BatchSize,
		ThreePartOnly: true,
		StandardOnly:  true,
	}
	if req.Filters.Category != "" {
		base.Categories = []string{req.Filters.Category}
	}

	full := base
	if req.Filters.Subcategory != "" {
		full.Subcategories = []string{req.Filters.Subcategory}
	}
	full.AlternateSubcategories = slices.Clone(req.Filters.AlternateSubcategories)

	code := req.Code
	if code == 0 && len(req.Row.Codes) > 0 {
		code = req.Row.Codes[0]
	}

	switch stage {
	case StageTagged:
		q := full
		q.Difficulties = []int{code}
		q.HasDifficultyModifiers = true
		return []call{{row: req.Row, query: q}}
	case StageExact:
		q := full
		q.Difficulties = []int{code}
		return []call{{row: req.Row, query: q}}
	case StageCategory:
		return lo.Map(req.Row.Codes, func(c int, _ int) call {
			q := base
			q.Difficulties = []int{c}
			return call{row: req.Row, query: q}
		})
	case StageNeighbor:
		if f.table == nil {
			return nil
		}
		neighbors := f.table.Neighbors(req.Row)
		f.rng.Shuffle(len(neighbors), func(i, j int) {
			neighbors[i], neighbors[j] = neighbors[j], neighbors[i]
		})
		var calls []call
		for _, n := range neighbors {
			for _, c := range n.Codes {
				q := base
				q.Difficulties = []int{c}
				calls = append(calls, call{row: n, query: q})
			}
		}
		return calls
	}
	return nil
}

// collect issues calls concurrently and merges their results in call
// order. A call that fails after retries contributes nothing.
func (f *Funnel) collect(ctx context.Context, calls []call) ([]candidate, error) {
	results := make([][]qbreader.Bonus, len(calls))

	g, gctx := errgroup.WithContext(ctx)
	for i, c := range calls {
		g.Go(func() error {
			err := retry.Do(gctx, f.retry, func(ctx context.Context) error {
				b, err := f.src.RandomBonuses(ctx, c.query)
				if err != nil {
					return err
				}
				results[i] = b
				return nil
			})
			if err != nil {
				f.logger.Warn("random-bonus call failed", "difficulties", c.query.Difficulties, "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("funnel: %w", err)
	}

	var out []candidate
	for i, bs := range results {
		for _, b := range bs {
			out = append(out, candidate{bonus: b, row: calls[i].row})
		}
	}
	return out, nil
}

func accept(stage Stage, b qbreader.Bonus, seen Seen) bool {
	if b.Usable() == 0 {
		return false
	}
	if seen != nil && seen.Contains(b.Key()) {
		return false
	}
	if stage == StageTagged && !b.HasModifiers() {
		return false
	}
	return true
}

func signature(calls []call) string {
	parts := lo.Map(calls, func(c call, _ int) string { return c.query.Values().Encode() })
	return strings.Join(parts, ";")
}
