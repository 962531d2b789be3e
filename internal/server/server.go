// Package server serves rendered pages over HTTP.
package server

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"git.home.luguber.info/inful/pagefill/internal/fetch"
	"git.home.luguber.info/inful/pagefill/internal/foundation/errors"
	"git.home.luguber.info/inful/pagefill/internal/loader"
	"git.home.luguber.info/inful/pagefill/internal/logfields"
)

const shutdownTimeout = 5 * time.Second

// Options configures a Server.
type Options struct {
	Addr string
	// Loader renders each request; Fetcher provides the shell and static files.
	Loader  *loader.Loader
	Fetcher fetch.Fetcher
	// ShellPath is the shell document path as understood by Fetcher.
	ShellPath string
	// StaticDirs are site directories served unmodified, e.g. "./src/img/".
	StaticDirs []string
	HealthPath string
	// MetricsPath is only routed when MetricsHandler is set.
	MetricsPath    string
	MetricsHandler http.Handler
	Logger         *slog.Logger
}

// Server wires the router and the underlying http.Server.
type Server struct {
	opts         Options
	router       *chi.Mux
	server       *http.Server
	logger       *slog.Logger
	errorAdapter *errors.HTTPErrorAdapter
}

// New creates a Server. Routes are registered immediately.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.HealthPath == "" {
		opts.HealthPath = "/healthz"
	}
	if opts.MetricsPath == "" {
		opts.MetricsPath = "/metrics"
	}
	s := &Server{
		opts:         opts,
		router:       chi.NewRouter(),
		logger:       opts.Logger,
		errorAdapter: errors.NewHTTPErrorAdapter(opts.Logger),
	}
	s.setupRoutes()
	s.server = &http.Server{
		Addr:              opts.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(recoverer(s.logger, s.errorAdapter))

	s.router.Get(s.opts.HealthPath, s.handleHealth)
	if s.opts.MetricsHandler != nil {
		s.router.Method(http.MethodGet, s.opts.MetricsPath, s.opts.MetricsHandler)
	}
	for _, dir := range s.opts.StaticDirs {
		prefix := routePrefix(dir)
		if prefix == "/" {
			continue
		}
		s.router.Get(prefix+"*", s.handleStatic)
	}
	s.router.Get("/*", s.handlePage)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Start serves until ctx is done, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return errors.WrapError(err, errors.CategoryRuntime, "failed to bind address").
			WithContext("addr", s.opts.Addr).
			Build()
	}
	return s.Serve(ctx, ln)
}

// Serve is Start on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", slog.String("addr", ln.Addr().String()))
		errCh <- s.server.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.WrapError(err, errors.CategoryRuntime, "HTTP server failed").Build()
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("HTTP server shutdown incomplete", logfields.Error(err))
			return err
		}
		s.logger.Info("HTTP server stopped")
		return nil
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// routePrefix turns a site directory ("./src/img/") into a route prefix ("/src/img/").
func routePrefix(dir string) string {
	dir = strings.TrimPrefix(dir, ".")
	if !strings.HasPrefix(dir, "/") {
		dir = "/" + dir
	}
	if !strings.HasSuffix(dir, "/") {
		dir += "/"
	}
	return dir
}
