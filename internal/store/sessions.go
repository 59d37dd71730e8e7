package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/thetaquiz/internal/session"
)

const (
	sessionsTable  = "sessions"
	colID          = "id"
	colState       = "state"
	colTheta       = "theta"
	colRoundsDone  = "rounds_done"
	colRoundsTotal = "rounds_total"
	colStartedAt   = "started_at"
	colUpdatedAt   = "updated_at"
)

// SessionRepo stores session state as JSON, one row per session, with a
// few columns copied out for listing and pruning. Times are unix millis.
type SessionRepo struct {
	drv *entsql.Driver
}

var _ session.Store = (*SessionRepo)(nil)

func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

// Load returns the session or session.ErrNotFound.
func (r *SessionRepo) Load(ctx context.Context, id string) (*session.State, error) {
	q, args := builder().
		Select(colState).
		From(entsql.Table(sessionsTable)).
		Where(entsql.EQ(colID, id)).
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, q, args, &rows); err != nil {
		return nil, fmt.Errorf("query session %s: %w", id, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("query session %s: %w", id, err)
		}
		return nil, session.ErrNotFound
	}
	var raw string
	if err := rows.Scan(&raw); err != nil {
		return nil, fmt.Errorf("scan session %s: %w", id, err)
	}

	var st session.State
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &st, nil
}

// Save inserts or replaces the session.
func (r *SessionRepo) Save(ctx context.Context, st *session.State) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", st.ID, err)
	}

	q, args := builder().
		Insert(sessionsTable).
		Columns(colID, colState, colTheta, colRoundsDone, colRoundsTotal, colStartedAt, colUpdatedAt).
		Values(st.ID, string(raw), st.Ability, st.RoundsDone, st.RoundsTotal, st.StartedAt.UnixMilli(), st.UpdatedAt.UnixMilli()).
		OnConflict(
			entsql.ConflictColumns(colID),
			entsql.ResolveWithNewValues(),
		).
		Query()
	if err := r.drv.Exec(ctx, q, args, nil); err != nil {
		return fmt.Errorf("save session %s: %w", st.ID, err)
	}
	return nil
}

// Delete removes the session. Deleting an unknown id is not an error.
func (r *SessionRepo) Delete(ctx context.Context, id string) error {
	q, args := builder().Delete(sessionsTable).Where(entsql.EQ(colID, id)).Query()
	if err := r.drv.Exec(ctx, q, args, nil); err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	return nil
}

// DeleteAll removes every session and returns how many were removed.
func (r *SessionRepo) DeleteAll(ctx context.Context) (int64, error) {
	return r.deleteWhere(ctx, nil)
}

// Prune removes sessions not updated since before.
func (r *SessionRepo) Prune(ctx context.Context, before time.Time) (int64, error) {
	return r.deleteWhere(ctx, entsql.LT(colUpdatedAt, before.UnixMilli()))
}

func (r *SessionRepo) deleteWhere(ctx context.Context, p *entsql.Predicate) (int64, error) {
	d := builder().Delete(sessionsTable)
	if p != nil {
		d = d.Where(p)
	}
	q, args := d.Query()

	var res entsql.Result
	if err := r.drv.Exec(ctx, q, args, &res); err != nil {
		return 0, fmt.Errorf("delete sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

// Summary is a one-line view of a stored session.
type Summary struct {
	ID          string
	Theta       float64
	RoundsDone  int
	RoundsTotal int
	UpdatedAt   time.Time
}

// List returns the most recently updated sessions first.
func (r *SessionRepo) List(ctx context.Context, limit int) ([]Summary, error) {
	sel := builder().
		Select(colID, colTheta, colRoundsDone, colRoundsTotal, colUpdatedAt).
		From(entsql.Table(sessionsTable)).
		OrderBy(entsql.Desc(colUpdatedAt))
	if limit > 0 {
		sel = sel.Limit(limit)
	}
	q, args := sel.Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, q, args, &rows); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var (
			s       Summary
			updated int64
		)
		if err := rows.Scan(&s.ID, &s.Theta, &s.RoundsDone, &s.RoundsTotal, &updated); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		s.UpdatedAt = time.UnixMilli(updated)
		out = append(out, s)
	}
	return out, rows.Err()
}
