// Package server exposes the title generation pipeline over HTTP: a
// JSON API for programmatic clients and a small web form for manual
// use. All domain logic stays in the pipeline; this package only
// translates between HTTP and the core.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-titlegen/internal/pipeline"
	"github.com/alnah/go-titlegen/internal/titles"
)

const (
	// DefaultAddr is the default listen address.
	DefaultAddr = ":8000"

	// shutdownTimeout bounds graceful shutdown after the context is
	// cancelled; in-flight generation requests get this long to finish.
	shutdownTimeout = 10 * time.Second

	readHeaderTimeout = 5 * time.Second
)

// TitleRunner is the pipeline surface the server needs.
// *pipeline.Pipeline implements this.
type TitleRunner interface {
	FromURL(ctx context.Context, youtubeURL string, numTitles int, prefs ...string) (titles.Result, int, error)
}

// Server serves the title generation API and web form.
type Server struct {
	addr    string
	runner  TitleRunner
	origins []string
	healthy func() error
	httpSrv *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithAddr sets the listen address.
func WithAddr(addr string) Option {
	return func(s *Server) {
		s.addr = addr
	}
}

// WithAllowedOrigins restricts CORS to the given origins.
// Without it any origin is allowed.
func WithAllowedOrigins(origins []string) Option {
	return func(s *Server) {
		s.origins = origins
	}
}

// WithHealthCheck sets the readiness probe backing GET /health.
// The returned error, if any, is reported in the health payload.
func WithHealthCheck(fn func() error) Option {
	return func(s *Server) {
		s.healthy = fn
	}
}

// New creates a Server around the given pipeline.
func New(runner TitleRunner, opts ...Option) *Server {
	s := &Server{
		addr:    DefaultAddr,
		runner:  runner,
		healthy: func() error { return nil },
	}
	for _, opt := range opts {
		opt(s)
	}
	s.httpSrv = &http.Server{
		Addr:              s.addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: readHeaderTimeout,
	}
	return s
}

// Router builds the HTTP routes. Exposed separately so tests can drive
// the handler stack through httptest without binding a port.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(cors.Handler(corsOptions(s.origins)))

	r.Get("/", s.handleIndex)
	r.Get("/health", s.handleHealth)
	r.Post("/generate-titles", s.handleGenerate)

	return r
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.addr
}

// Run listens until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.httpSrv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func corsOptions(allowedOrigins []string) cors.Options {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	// When wildcard is used, disable AllowCredentials to prevent CSRF
	allowCreds := true
	for _, o := range allowedOrigins {
		if o == "*" {
			allowCreds = false
			break
		}
	}

	return cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: allowCreds,
		MaxAge:           300,
	}
}

// keep the concrete type honest against the interface
var _ TitleRunner = (*pipeline.Pipeline)(nil)
