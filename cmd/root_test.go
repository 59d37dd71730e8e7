package cmd

import (
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/thetaquiz/internal/config"
	"github.com/abhisek/thetaquiz/internal/judge"
)

func newTestCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	c := &cobra.Command{Use: "test"}
	c.Flags().String("db", "", "")
	c.Flags().String("config", "", "")
	require.NoError(t, c.ParseFlags(args))
	return c
}

func TestResolveDBPath_FlagWins(t *testing.T) {
	dir := t.TempDir()
	flagPath := filepath.Join(dir, "nested", "flag.db")
	cfg := config.Default()
	cfg.Store.Path = filepath.Join(dir, "config.db")

	got, err := resolveDBPath(newTestCmd(t, "--db", flagPath), cfg)
	require.NoError(t, err)
	assert.Equal(t, flagPath, got)
	assert.DirExists(t, filepath.Dir(flagPath))
}

func TestResolveDBPath_ConfigThenDefault(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Store.Path = filepath.Join(dir, "config.db")

	got, err := resolveDBPath(newTestCmd(t), cfg)
	require.NoError(t, err)
	assert.Equal(t, cfg.Store.Path, got)

	t.Setenv("THETAQUIZ_DB", filepath.Join(dir, "env.db"))
	got, err = resolveDBPath(newTestCmd(t), config.Default())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "env.db"), got)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := loadConfig(newTestCmd(t, "--config", filepath.Join(t.TempDir(), "nope.yaml")))
	assert.Error(t, err)
}

func TestBuildJudge_Kinds(t *testing.T) {
	cfg := config.Default()
	cfg.Judge.Kind = config.JudgeExact
	_, isExact := buildJudge(t.Context(), cfg, nil, newLogger(cfg.Log)).(judge.Exact)
	assert.True(t, isExact)

	cfg.Judge.Kind = config.JudgeRemote
	_, isRemote := buildJudge(t.Context(), cfg, nil, newLogger(cfg.Log)).(*judge.Remote)
	assert.True(t, isRemote)
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"play", "serve", "categories", "sessions", "reset", "version"} {
		assert.True(t, names[want], "missing command %q", want)
	}
}
