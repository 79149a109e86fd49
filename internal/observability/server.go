package observability

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"
)

const (
	// readHeaderTimeout bounds header parsing on the scrape endpoint.
	readHeaderTimeout = 5 * time.Second

	// shutdownTimeout bounds graceful shutdown once the search finishes.
	shutdownTimeout = 2 * time.Second

	metricsPath = "/metrics"
)

// MetricsServer serves a scrape endpoint for the duration of a search run.
type MetricsServer struct {
	server *http.Server
	addr   string
	done   chan error
}

// boundAddr returns the address the listener actually bound, which
// differs from the requested one when port 0 was asked for.
func (ms *MetricsServer) boundAddr() string {
	return ms.addr
}

// StartMetricsServer binds addr and serves the given handler at /metrics
// in the background. Returns once the listener is bound so scrapes cannot
// race the search start.
func StartMetricsServer(addr string, handler http.Handler, logger *slog.Logger) (*MetricsServer, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("metrics listen %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle(metricsPath, handler)

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	ms := &MetricsServer{
		server: srv,
		addr:   listener.Addr().String(),
		done:   make(chan error, 1),
	}

	go func() {
		serveErr := srv.Serve(listener)
		if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			logger.Error("metrics server stopped", "error", serveErr)
		}

		ms.done <- serveErr
	}()

	logger.Debug("metrics server listening", "addr", ms.addr)

	return ms, nil
}

// Close shuts the endpoint down gracefully.
func (ms *MetricsServer) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := ms.server.Shutdown(ctx)

	<-ms.done

	if err != nil {
		return fmt.Errorf("metrics shutdown: %w", err)
	}

	return nil
}
