// Package config loads thetaquiz settings from defaults, an optional config
// file and THETAQUIZ_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/abhisek/thetaquiz/internal/ability"
	"github.com/abhisek/thetaquiz/internal/difficulty"
	"github.com/abhisek/thetaquiz/internal/funnel"
	"github.com/abhisek/thetaquiz/internal/llm"
	"github.com/abhisek/thetaquiz/internal/qbreader"
	"github.com/abhisek/thetaquiz/internal/retry"
	"github.com/abhisek/thetaquiz/internal/server"
	"github.com/abhisek/thetaquiz/internal/session"
)

// EnvPrefix prefixes every environment override, e.g.
// THETAQUIZ_SESSION_DEFAULT_ROUNDS.
const EnvPrefix = "THETAQUIZ"

// Judge kinds.
const (
	JudgeRemote = "remote"
	JudgeLLM    = "llm"
	JudgeExact  = "exact"
)

// Config is the full application configuration.
type Config struct {
	Ability  ability.Config  `mapstructure:"ability"`
	Table    TableConfig     `mapstructure:"table"`
	Funnel   funnel.Config   `mapstructure:"funnel"`
	Session  session.Config  `mapstructure:"session"`
	QBReader qbreader.Config `mapstructure:"qbreader"`
	Retry    RetryConfig     `mapstructure:"retry"`
	Judge    JudgeConfig     `mapstructure:"judge"`
	LLM      llm.Config      `mapstructure:"llm"`
	Store    StoreConfig     `mapstructure:"store"`
	Server   server.Config   `mapstructure:"server"`
	Log      LogConfig       `mapstructure:"log"`
}

// TableConfig tunes difficulty row selection.
type TableConfig struct {
	Epsilon float64 `mapstructure:"epsilon"`
}

// RetryConfig bounds retries of upstream QBReader calls.
type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	InitialWait time.Duration `mapstructure:"initial_wait"`
	MaxWait     time.Duration `mapstructure:"max_wait"`
}

// Policy converts c into a retry policy.
func (c RetryConfig) Policy() retry.Policy {
	p := retry.DefaultPolicy()
	p.MaxAttempts = c.MaxAttempts
	p.InitialWait = c.InitialWait
	p.MaxWait = c.MaxWait
	return p
}

// JudgeConfig selects how responses are graded.
type JudgeConfig struct {
	// Kind is one of remote (QBReader check-answer), llm or exact.
	Kind string `mapstructure:"kind"`
}

// StoreConfig locates the session database. An empty Path means
// store.DefaultDBPath.
type StoreConfig struct {
	Path string `mapstructure:"path"`

	// SessionTTL prunes sessions idle for longer. Zero keeps them forever.
	SessionTTL time.Duration `mapstructure:"session_ttl"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SlogLevel parses Level, defaulting to info.
func (c LogConfig) SlogLevel() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.Level)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// Default returns the built-in configuration.
func Default() Config {
	rp := retry.DefaultPolicy()
	return Config{
		Ability:  ability.DefaultConfig(),
		Table:    TableConfig{Epsilon: difficulty.DefaultEpsilon},
		Funnel:   funnel.DefaultConfig(),
		Session:  session.DefaultConfig(),
		QBReader: qbreader.DefaultConfig(),
		Retry: RetryConfig{
			MaxAttempts: rp.MaxAttempts,
			InitialWait: rp.InitialWait,
			MaxWait:     rp.MaxWait,
		},
		Judge:  JudgeConfig{Kind: JudgeRemote},
		LLM:    llm.DefaultConfig(),
		Store:  StoreConfig{SessionTTL: 30 * 24 * time.Hour},
		Server: server.DefaultConfig(),
		Log:    LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads configuration. path may be empty, in which case only
// defaults and the environment apply.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override it during
// Unmarshal.
func setDefaults(v *viper.Viper, d Config) {
	defaults := map[string]any{
		"ability.step": d.Ability.Step,
		"ability.min":  d.Ability.Min,
		"ability.max":  d.Ability.Max,

		"table.epsilon": d.Table.Epsilon,

		"funnel.batch_size":         d.Funnel.BatchSize,
		"funnel.attempts_per_stage": d.Funnel.AttemptsPerStage,

		"session.default_rounds": d.Session.DefaultRounds,
		"session.max_seen":       d.Session.MaxSeen,
		"session.leadin_every":   d.Session.LeadinEvery,

		"qbreader.base_url":        d.QBReader.BaseURL,
		"qbreader.timeout":         d.QBReader.Timeout,
		"qbreader.rate_per_second": d.QBReader.RatePerSecond,
		"qbreader.burst":           d.QBReader.Burst,
		"qbreader.user_agent":      d.QBReader.UserAgent,

		"retry.max_attempts": d.Retry.MaxAttempts,
		"retry.initial_wait": d.Retry.InitialWait,
		"retry.max_wait":     d.Retry.MaxWait,

		"judge.kind": d.Judge.Kind,

		"llm.provider":          d.LLM.Provider,
		"llm.anthropic.api_key": d.LLM.Anthropic.APIKey,
		"llm.anthropic.model":   d.LLM.Anthropic.Model,
		"llm.openai.api_key":    d.LLM.OpenAI.APIKey,
		"llm.openai.model":      d.LLM.OpenAI.Model,
		"llm.openai.base_url":   d.LLM.OpenAI.BaseURL,
		"llm.gemini.api_key":    d.LLM.Gemini.APIKey,
		"llm.gemini.model":      d.LLM.Gemini.Model,
		"llm.timeout":           d.LLM.Timeout,
		"llm.max_attempts":      d.LLM.MaxAttempts,

		"store.path":        d.Store.Path,
		"store.session_ttl": d.Store.SessionTTL,

		"server.addr":            d.Server.Addr,
		"server.allowed_origins": d.Server.AllowedOrigins,
		"server.cookie_name":     d.Server.CookieName,
		"server.cookie_secure":   d.Server.CookieSecure,
		"server.request_timeout": d.Server.RequestTimeout,

		"log.level":  d.Log.Level,
		"log.format": d.Log.Format,
	}
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
}

// Validate checks cross-field constraints the sub-packages cannot see.
func (c Config) Validate() error {
	var errs []error
	if err := c.Ability.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Table.Epsilon < 0 {
		errs = append(errs, fmt.Errorf("table epsilon must be >= 0, got %v", c.Table.Epsilon))
	}
	if c.Funnel.BatchSize < 1 {
		errs = append(errs, fmt.Errorf("funnel batch_size must be >= 1, got %d", c.Funnel.BatchSize))
	}
	if c.Session.DefaultRounds < 1 {
		errs = append(errs, fmt.Errorf("session default_rounds must be >= 1, got %d", c.Session.DefaultRounds))
	}
	if c.Retry.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("retry max_attempts must be >= 1, got %d", c.Retry.MaxAttempts))
	}
	switch c.Judge.Kind {
	case JudgeRemote, JudgeLLM, JudgeExact:
	default:
		errs = append(errs, fmt.Errorf("unknown judge kind %q", c.Judge.Kind))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.Log.Format))
	}
	return errors.Join(errs...)
}
