// Package health runs the observability HTTP server: liveness, Prometheus
// metrics, and the optional simulator telemetry websocket.
package health

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vk/fuzztruck/internal/ctxlog"
)

// Server wraps the http.Server so callers get symmetric Start/Shutdown.
type Server struct {
	httpServer *http.Server
}

// New builds the server for the given port. telemetry may be nil, in which
// case the /telemetry route is not registered.
func New(port int, gatherer prometheus.Gatherer, telemetry http.Handler) *Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "OK")
	})
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	if telemetry != nil {
		mux.Handle("/telemetry", telemetry)
	}

	return &Server{
		httpServer: &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		},
	}
}

// Start runs the server in a goroutine. ListenAndServe returning
// http.ErrServerClosed is the normal shutdown path, not a failure.
func (s *Server) Start(ctx context.Context) {
	logger := ctxlog.FromContext(ctx)
	// Handlers pull their logger from the request context, so requests
	// must inherit from the app context.
	s.httpServer.BaseContext = func(net.Listener) context.Context { return ctx }
	go func() {
		logger.Info("Health server starting.", "address", fmt.Sprintf("http://localhost%s/healthz", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Health server failed unexpectedly.", "error", err)
		}
	}()
}

// Shutdown drains the server with a bounded grace period.
func (s *Server) Shutdown(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	logger.Debug("Shutting down health server...")
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("health server shutdown: %w", err)
	}
	return nil
}
