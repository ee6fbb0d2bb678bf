// Package api serves the ordering pipeline and the settings store over
// HTTP.
//
// # Endpoints
//
//	POST /v1/order     order a working set
//	POST /v1/check     validate a client-supplied ordering
//	GET  /v1/settings  current tool settings
//	PUT  /v1/settings  replace tool settings (normalized before storing)
//	GET  /healthz      liveness probe
//
// Errors are JSON objects with a machine-readable "code" taken from the
// errors package. A cyclic working set answers 422 with the unresolved
// node IDs:
//
//	{"code": "CYCLE_DETECTED", "message": "...", "unresolved": ["B", "C"], "cycle": ["B", "C"]}
//
// Every response carries an X-Request-ID header; a client-supplied value is
// echoed back, otherwise a UUID is generated.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stackorder/pkg/appstate"
	"github.com/matzehuels/stackorder/pkg/pipeline"
)

// Config holds the HTTP server settings.
type Config struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// MaxBodyBytes bounds request bodies.
	MaxBodyBytes int64
	// Version is reported by /healthz.
	Version string
}

// DefaultConfig returns the default server configuration.
func DefaultConfig() Config {
	return Config{
		Addr:         "127.0.0.1:8080",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		MaxBodyBytes: 32 << 20,
		Version:      "dev",
	}
}

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 10 * time.Second

// Server is the HTTP API server.
type Server struct {
	runner *pipeline.Runner
	store  *appstate.Store
	logger *log.Logger
	cfg    Config
}

// New creates a server. A nil logger uses log.Default(); zero config fields
// take their defaults.
func New(runner *pipeline.Runner, store *appstate.Store, logger *log.Logger, cfg Config) *Server {
	def := DefaultConfig()
	if cfg.Addr == "" {
		cfg.Addr = def.Addr
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = def.ReadTimeout
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = def.WriteTimeout
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = def.MaxBodyBytes
	}
	if cfg.Version == "" {
		cfg.Version = def.Version
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Server{runner: runner, store: store, logger: logger, cfg: cfg}
}

// ListenAndServe serves on cfg.Addr until ctx is canceled, then shuts down
// gracefully. It returns nil after a clean shutdown.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		BaseContext:  func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("api server listening", "addr", ln.Addr().String())
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.logger.Info("api server stopped")
	return nil
}
