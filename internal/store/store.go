// Package store persists quiz sessions in SQLite.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store is an open SQLite database.
type Store struct {
	db  *sql.DB
	drv *entsql.Driver
}

// Open connects to the SQLite database at dsn, applies pragmas and creates
// the schema if needed.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// Pragmas are per connection.
	db.SetMaxOpenConns(1)
	if err := applyPragmas(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	s := &Store{db: db, drv: entsql.OpenDB(dialect.SQLite, db)}
	if err := s.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// DB returns the underlying *sql.DB.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database.
func (s *Store) Close() error {
	return s.drv.Close()
}

// Sessions returns the session repository.
func (s *Store) Sessions() *SessionRepo {
	return &SessionRepo{drv: s.drv}
}

// sessionsDDL creates the sessions table. Times are unix milliseconds.
const sessionsDDL = `CREATE TABLE IF NOT EXISTS ` + sessionsTable + ` (
	` + colID + ` TEXT NOT NULL PRIMARY KEY,
	` + colState + ` TEXT NOT NULL,
	` + colTheta + ` REAL NOT NULL DEFAULT 0,
	` + colRoundsDone + ` INTEGER NOT NULL DEFAULT 0,
	` + colRoundsTotal + ` INTEGER NOT NULL DEFAULT 0,
	` + colStartedAt + ` INTEGER NOT NULL,
	` + colUpdatedAt + ` INTEGER NOT NULL
)`

func (s *Store) migrate(ctx context.Context) error {
	if err := s.drv.Exec(ctx, sessionsDDL, []any{}, nil); err != nil {
		return fmt.Errorf("create %s: %w", sessionsTable, err)
	}
	return nil
}

// applyPragmas configures SQLite for a single local writer.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. THETAQUIZ_DB environment variable
// 2. $XDG_DATA_HOME/thetaquiz/thetaquiz.db
// 3. ~/.local/share/thetaquiz/thetaquiz.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("THETAQUIZ_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "thetaquiz", "thetaquiz.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of a database file.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
