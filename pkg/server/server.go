// Package server exposes the distance pipeline as a JSON HTTP API.
//
// # Routes
//
//	GET  /healthz                   liveness and build info
//	POST /v1/distance               one pair, see seqio.Pair
//	POST /v1/explain                one pair with its correspondence mapping
//	POST /v1/batch                  many pairs, computed concurrently
//	POST /v1/permutations/kendall   permutation Kendall tau, optionally weighted
//	GET  /v1/results?limit=N        recent results (needs a store)
//
// Errors are returned as {"error": {"code": ..., "message": ...}} with the
// status derived from the error code: 400 for malformed or invalid input,
// 422 when the sequences cannot be compared, 404 for missing resources.
//
// Every response carries an X-Request-ID header, taken from the request
// when present and generated otherwise.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/seqdist/pkg/pipeline"
)

// Defaults for [Config].
const (
	DefaultAddr         = ":8080"
	DefaultMaxBodyBytes = 32 << 20
	DefaultReadTimeout  = 30 * time.Second
	DefaultWriteTimeout = 60 * time.Second
	DefaultResultsLimit = 50
)

// Config configures a [Server].
type Config struct {
	Addr         string
	MaxLength    int   // per-sequence element limit, 0 for pipeline.DefaultMaxLength
	MaxBodyBytes int64 // request body limit
	Workers      int   // batch concurrency
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

func (c *Config) setDefaults() {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.MaxLength <= 0 {
		c.MaxLength = pipeline.DefaultMaxLength
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if c.Workers <= 0 {
		c.Workers = pipeline.DefaultWorkers
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = DefaultReadTimeout
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = DefaultWriteTimeout
	}
}

// Server serves the HTTP API.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
	cfg    Config
	router chi.Router
}

// New creates a server over runner. A nil logger uses [log.Default].
func New(runner *pipeline.Runner, cfg Config, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	cfg.setDefaults()
	s := &Server{
		runner: runner,
		logger: logger,
		cfg:    cfg,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.CleanPath)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Use(s.limitBody)
		r.Post("/distance", s.handleDistance)
		r.Post("/explain", s.handleExplain)
		r.Post("/batch", s.handleBatch)
		r.Post("/permutations/kendall", s.handlePermutation)
		r.Get("/results", s.handleResults)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, errNotFound("no route for %s %s", r.Method, r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: errorDetail{
			Code:    "METHOD_NOT_ALLOWED",
			Message: r.Method + " not allowed on " + r.URL.Path,
		}})
	})
	return r
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
