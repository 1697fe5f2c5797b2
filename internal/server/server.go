// Package server implements the ifctree HTTP API.
//
// The API serves the models of one workspace. Viewers open a session, which
// owns a materializer and therefore a memo cache, and post selections to it;
// an empty selection resets the session's cache. Exploration endpoints
// (decomposition, attributes, render) are stateless.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/ifctree/pkg/observability"
	"github.com/matzehuels/ifctree/pkg/pipeline"
	"github.com/matzehuels/ifctree/pkg/session"
)

const (
	sweepInterval   = time.Minute
	shutdownTimeout = 10 * time.Second
	maxBodyBytes    = 1 << 20
)

// Config configures a Server.
type Config struct {
	// Options are the materialization defaults for new sessions.
	Options pipeline.Options

	// SessionTTL is the idle timeout of sessions. Zero uses session.DefaultTTL.
	SessionTTL time.Duration

	// Metrics, if set, is mounted at /metrics.
	Metrics http.Handler

	// OnSessions, if set, receives the number of live sessions after every
	// change.
	OnSessions func(n int)
}

// Server serves the HTTP API.
type Server struct {
	runner   *pipeline.Runner
	ws       *pipeline.Workspace
	sessions *session.Store
	cfg      Config
	logger   *log.Logger
	router   chi.Router
}

// New creates a server over the models loaded in ws.
func New(runner *pipeline.Runner, ws *pipeline.Workspace, cfg Config, logger *log.Logger) *Server {
	if cfg.SessionTTL == 0 {
		cfg.SessionTTL = session.DefaultTTL
	}
	if logger == nil {
		logger = runner.Logger
	}
	s := &Server{
		runner:   runner,
		ws:       ws,
		sessions: session.NewStore(cfg.SessionTTL),
		cfg:      cfg,
		logger:   logger,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/healthz", s.handleHealth)
	if s.cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.cfg.Metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/models", s.handleModels)
		r.Route("/models/{model}/entities/{handle}", func(r chi.Router) {
			r.Get("/decomposition", s.handleDecomposition)
			r.Get("/attributes", s.handleAttributes)
			r.Get("/render", s.handleRender)
		})
		r.Post("/sessions", s.handleCreateSession)
		r.Delete("/sessions/{id}", s.handleDeleteSession)
		r.Post("/sessions/{id}/materialize", s.handleMaterialize)
	})
	return r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// Sessions returns the session store.
func (s *Server) Sessions() *session.Store { return s.sessions }

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go s.sessions.Run(sweepCtx, sweepInterval, func(n int) {
		if n > 0 {
			s.logger.Debug("expired sessions", "removed", n)
			s.sessionsChanged()
		}
	})

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr, "models", len(s.ws.Models()))

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) sessionsChanged() {
	if s.cfg.OnSessions != nil {
		s.cfg.OnSessions(s.sessions.Len())
	}
}

// instrument logs requests and reports them to the HTTP hooks under their
// route pattern.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		d := time.Since(start)
		observability.HTTP().OnRequest(r.Context(), r.Method, route)
		observability.HTTP().OnResponse(r.Context(), r.Method, route, status, d)
		s.logger.Debug("request",
			"method", r.Method,
			"route", route,
			"status", status,
			"duration", d,
			"request_id", middleware.GetReqID(r.Context()))
	})
}
