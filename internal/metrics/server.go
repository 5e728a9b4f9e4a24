// internal/metrics/server.go
package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mwiater/llmbridge/internal/logging"
)

// NewHandler exposes gatherer on GET /metrics and a liveness probe on GET /healthz.
func NewHandler(gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Get("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}).ServeHTTP)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return r
}

// Serve listens on addr until ctx ends, then shuts the server down. The
// returned channel yields the bound address once listening, which lets
// callers pass ":0".
func Serve(ctx context.Context, addr string, gatherer prometheus.Gatherer) (<-chan string, <-chan error) {
	ready := make(chan string, 1)
	done := make(chan error, 1)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		done <- err
		close(done)
		return ready, done
	}
	srv := &http.Server{Handler: NewHandler(gatherer), ReadHeaderTimeout: 5 * time.Second}
	ready <- ln.Addr().String()
	logging.LogEvent("metrics listening on %s", ln.Addr())

	go func() {
		defer close(done)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			done <- err
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logging.LogWarn("metrics shutdown: %v", err)
		}
	}()
	return ready, done
}
