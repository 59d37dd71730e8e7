// Package server exposes quiz sessions over a small JSON HTTP API. The
// session id travels in a cookie.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/abhisek/thetaquiz/internal/session"
)

// Engine is the part of *session.Engine the API needs.
type Engine interface {
	Config() session.Config
	Start(ctx context.Context, id string, f session.Filters, rounds int) (*session.State, error)
	ServeNext(ctx context.Context, id string) (*session.NextResult, error)
	GradeResponse(ctx context.Context, id, answer string, override bool) (*session.GradeResult, error)
	Snapshot(ctx context.Context, id string) (*session.Status, error)
}

// Config configures the HTTP API.
type Config struct {
	Addr           string        `mapstructure:"addr"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	CookieName     string        `mapstructure:"cookie_name"`
	CookieSecure   bool          `mapstructure:"cookie_secure"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// DefaultConfig returns a Config listening on localhost.
func DefaultConfig() Config {
	return Config{
		Addr:           "127.0.0.1:5050",
		AllowedOrigins: []string{"*"},
		CookieName:     "thetaquiz_session",
		RequestTimeout: 30 * time.Second,
	}
}

// Server holds the routes and their dependencies.
type Server struct {
	engine Engine
	cfg    Config
	logger *slog.Logger
	newID  func() string
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithIDGenerator overrides how new session ids are minted.
func WithIDGenerator(f func() string) Option {
	return func(s *Server) { s.newID = f }
}

// New creates a Server.
func New(engine Engine, cfg Config, opts ...Option) *Server {
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultConfig().CookieName
	}
	s := &Server{
		engine: engine,
		cfg:    cfg,
		logger: slog.Default(),
		newID:  uuid.NewString,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Handler returns the routed handler wrapped in CORS.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.logRequests)
	if s.cfg.RequestTimeout > 0 {
		r.Use(s.withTimeout)
	}

	// Routes live on the root router so a method mismatch answers 405;
	// a PathPrefix subrouter reports it as 404.
	r.HandleFunc("/api/start", s.handleStart).Methods(http.MethodPost)
	r.HandleFunc("/api/next", s.handleNext).Methods(http.MethodGet)
	r.HandleFunc("/api/answer", s.handleAnswer).Methods(http.MethodPost)
	r.HandleFunc("/api/categories", s.handleCategories).Methods(http.MethodGet)

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	c := cors.New(cors.Options{
		AllowedOrigins:   s.cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	})
	return c.Handler(r)
}

// ListenAndServe serves until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

func (s *Server) withTimeout(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), s.cfg.RequestTimeout)
		defer cancel()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// sessionID returns the caller's session id, minting one and setting the
// cookie when absent.
func (s *Server) sessionID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(s.cfg.CookieName); err == nil && c.Value != "" {
		return c.Value
	}
	id := s.newID()
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}
