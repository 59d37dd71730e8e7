package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/thetaquiz/internal/ability"
	"github.com/abhisek/thetaquiz/internal/config"
	"github.com/abhisek/thetaquiz/internal/difficulty"
	"github.com/abhisek/thetaquiz/internal/funnel"
	"github.com/abhisek/thetaquiz/internal/judge"
	"github.com/abhisek/thetaquiz/internal/llm"
	"github.com/abhisek/thetaquiz/internal/qbreader"
	"github.com/abhisek/thetaquiz/internal/session"
	"github.com/abhisek/thetaquiz/internal/store"
)

// deps holds the wired engine and everything that must be closed with it.
type deps struct {
	cfg    config.Config
	logger *slog.Logger
	store  *store.Store
	engine *session.Engine
}

func (r *deps) Close() error {
	return r.store.Close()
}

// buildDeps opens the store, builds dependencies and wires the session
// engine. judgeKind overrides the configured judge when non-empty.
func buildDeps(cmd *cobra.Command, judgeKind string) (*deps, error) {
	ctx := cmd.Context()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if judgeKind != "" {
		cfg.Judge.Kind = judgeKind
	}
	logger := newLogger(cfg.Log)

	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if cfg.Store.SessionTTL > 0 {
		n, err := st.Sessions().Prune(ctx, time.Now().Add(-cfg.Store.SessionTTL))
		if err != nil {
			logger.Warn("prune stale sessions", "error", err)
		} else if n > 0 {
			logger.Debug("pruned stale sessions", "count", n)
		}
	}

	table, err := difficulty.NewTable(difficulty.DefaultRows(), cfg.Table.Epsilon)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("difficulty table: %w", err)
	}

	client := qbreader.NewClient(cfg.QBReader)
	policy := cfg.Retry.Policy()
	fetcher := funnel.New(client, table, cfg.Funnel,
		funnel.WithRetry(policy),
		funnel.WithLogger(logger),
	)

	j := buildJudge(ctx, cfg, client, logger)

	engine := session.NewEngine(st.Sessions(), table, ability.New(cfg.Ability), fetcher, j,
		session.WithConfig(cfg.Session),
		session.WithLogger(logger),
	)
	return &deps{cfg: cfg, logger: logger, store: st, engine: engine}, nil
}

func buildJudge(ctx context.Context, cfg config.Config, client *qbreader.Client, logger *slog.Logger) judge.Judge {
	switch cfg.Judge.Kind {
	case config.JudgeLLM:
		provider, err := llm.NewProvider(ctx, llm.Discover(cfg.LLM), logger)
		if err == nil {
			return judge.NewLLM(provider, logger)
		}
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "Falling back to QBReader answer checking.")
	case config.JudgeExact:
		return judge.Exact{}
	}
	return judge.NewRemote(client, cfg.Retry.Policy(), logger)
}
