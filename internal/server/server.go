package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"pomodoro/internal/platform/httpx"
	"pomodoro/internal/platform/metrics"
)

const requestTimeout = 30 * time.Second

// RouteRegistrar is implemented by the inbound HTTP adapters of each module.
type RouteRegistrar interface {
	Routes(r chi.Router)
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
}

// Server is the progress store's HTTP front. It owns the router and the listener lifecycle.
type Server struct {
	cfg    Config
	router chi.Router
	server *http.Server
	logger zerolog.Logger
}

func New(cfg Config, logger zerolog.Logger, recorder *metrics.Recorder, modules ...RouteRegistrar) *Server {
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 5 * time.Second
	}
	s := &Server{cfg: cfg, logger: logger.With().Str("component", "http_server").Logger()}
	s.router = s.setupRouter(recorder, modules)
	return s
}

func (s *Server) setupRouter(recorder *metrics.Recorder, modules []RouteRegistrar) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(httpx.RequestLogger(s.logger))
	r.Use(middleware.Timeout(requestTimeout))

	r.NotFound(httpx.NotFound)
	r.MethodNotAllowed(httpx.MethodNotAllowed)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", recorder.Handler())
	for _, m := range modules {
		m.Routes(r)
	}
	return r
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe binds cfg.Addr and serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.server = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", ln.Addr().String()).Msg("starting http server")
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		return s.Close()
	case err, ok := <-errCh:
		if !ok {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

// Close drains in-flight requests for at most cfg.ShutdownTimeout.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	s.logger.Info().Msg("stopping http server")
	return s.server.Shutdown(ctx)
}
