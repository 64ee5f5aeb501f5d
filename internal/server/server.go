// Package server exposes the Eido pipeline and file store over HTTP.
//
// Routes:
//
//	POST   /api/render         render {source} to a document
//	POST   /api/parse          parse {source} into a tree
//	GET    /api/icons          list icon names
//	GET    /api/icons/{name}   serve an icon PNG
//	POST   /api/files          create a file
//	GET    /api/files          list files
//	GET    /api/files/{id}     fetch a file
//	PUT    /api/files/{id}     rename or edit a file
//	DELETE /api/files/{id}     delete a file
//	GET    /healthz            liveness and build info
//	GET    /metrics            Prometheus metrics, when configured
//
// Errors are written as JSON {"code", "message"} with the status derived
// from the error code.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/fish-not-phish/eido/pkg/buildinfo"
	"github.com/fish-not-phish/eido/pkg/icons"
	"github.com/fish-not-phish/eido/pkg/pipeline"
	"github.com/fish-not-phish/eido/pkg/store"
)

// DefaultShutdownTimeout bounds graceful shutdown when Options leaves it unset.
const DefaultShutdownTimeout = 10 * time.Second

// IconSource resolves and enumerates icons.
type IconSource interface {
	icons.Resolver
	icons.Lister
}

// Options configures a Server.
type Options struct {
	Runner *pipeline.Runner
	Store  store.Store
	Icons  IconSource
	Logger *log.Logger

	// Metrics is mounted on /metrics when set.
	Metrics http.Handler

	// IconSet identifies the icon source in artifact cache keys.
	IconSet string

	// CanvasWidth and Seed are the render defaults for requests that omit them.
	CanvasWidth float64
	Seed        uint64

	// MaxSourceBytes bounds request sources. Zero disables the check.
	MaxSourceBytes int

	ShutdownTimeout time.Duration
}

// Server is the Eido HTTP API.
type Server struct {
	opts   Options
	logger *log.Logger
	router chi.Router
}

// New builds a server and its routes.
func New(opts Options) *Server {
	if opts.Runner == nil {
		opts.Runner = pipeline.NewRunner(nil, nil, opts.Logger)
	}
	if opts.Store == nil {
		opts.Store = store.NewMemoryStore()
	}
	if opts.Icons == nil {
		opts.Icons = icons.Null{}
	}
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = DefaultShutdownTimeout
	}
	if opts.Runner.MaxSourceBytes == 0 {
		opts.Runner.MaxSourceBytes = opts.MaxSourceBytes
	}

	s := &Server{opts: opts, logger: opts.Logger}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	if s.opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.opts.Metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/render", s.handleRender)
		r.Post("/parse", s.handleParse)

		r.Get("/icons", s.handleListIcons)
		r.Get("/icons/{name}", s.handleIcon)

		r.Route("/files", func(r chi.Router) {
			r.Post("/", s.handleCreateFile)
			r.Get("/", s.handleListFiles)
			r.Get("/{id}", s.handleGetFile)
			r.Put("/{id}", s.handleUpdateFile)
			r.Delete("/{id}", s.handleDeleteFile)
		})
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully within the configured timeout.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down", "timeout", s.opts.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}
