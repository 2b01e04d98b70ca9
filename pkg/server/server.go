// Package server exposes the layout pipeline over HTTP.
//
// Routes:
//
//	GET    /healthz
//	GET    /v1/modules
//	GET    /v1/processors
//	POST   /v1/layout                         pipeline options → layout JSON
//	POST   /v1/render/{format}                pipeline options → artifact
//	GET    /v1/projects
//	POST   /v1/projects                       {name, config?}
//	GET    /v1/projects/{id}
//	PUT    /v1/projects/{id}                  {name?, config?}
//	DELETE /v1/projects/{id}
//	GET    /v1/projects/{id}/layout
//	GET    /v1/projects/{id}/render/{format}
//
// Errors are returned as {"code": "...", "message": "..."} with the status
// given by [errors.HTTPStatus].
package server

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/ledwall/pkg/errors"
	"github.com/matzehuels/ledwall/pkg/pipeline"
	"github.com/matzehuels/ledwall/pkg/project"
)

const (
	// DefaultRequestTimeout bounds a single request, rendering included.
	DefaultRequestTimeout = 30 * time.Second

	// maxBodyBytes caps request bodies.
	maxBodyBytes = 1 << 20

	shutdownTimeout = 10 * time.Second
)

// Server serves the HTTP API.
type Server struct {
	runner  *pipeline.Runner
	store   project.Store
	logger  *log.Logger
	strict  bool
	timeout time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and error logger.
func WithLogger(l *log.Logger) Option { return func(s *Server) { s.logger = l } }

// WithStrict forces strict mode on every computation.
func WithStrict(strict bool) Option { return func(s *Server) { s.strict = strict } }

// WithTimeout overrides [DefaultRequestTimeout].
func WithTimeout(d time.Duration) Option { return func(s *Server) { s.timeout = d } }

// New creates a server. store may be nil, in which case the project routes
// answer 501.
func New(runner *pipeline.Runner, store project.Store, opts ...Option) *Server {
	s := &Server{
		runner:  runner,
		store:   store,
		timeout: DefaultRequestTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return s
}

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.timeout))

	r.Get("/healthz", s.health)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/modules", s.listModules)
		r.Get("/processors", s.listProcessors)
		r.Post("/layout", s.computeLayout)
		r.Post("/render/{format}", s.renderLayout)

		r.Route("/projects", func(r chi.Router) {
			r.Use(s.requireStore)
			r.Get("/", s.listProjects)
			r.Post("/", s.createProject)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.getProject)
				r.Put("/", s.updateProject)
				r.Delete("/", s.deleteProject)
				r.Get("/layout", s.projectLayout)
				r.Get("/render/{format}", s.projectRender)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "no route for %s %s", r.Method, r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{
			Code:    "METHOD_NOT_ALLOWED",
			Message: r.Method + " is not allowed on " + r.URL.Path,
		})
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server starting", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("http server stopping")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
