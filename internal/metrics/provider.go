// internal/metrics/provider.go
// Package metrics decorates a BackendClient with Prometheus instrumentation.
package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mwiater/llmbridge/internal/logging"
	"github.com/mwiater/llmbridge/internal/models"
	"github.com/mwiater/llmbridge/internal/providers"
)

const (
	OperationListModels = "list_models"
	OperationChat       = "chat_completion"

	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Collectors holds the metric vectors shared by every decorated client
// registered against the same registry.
type Collectors struct {
	Requests *prometheus.CounterVec
	Duration *prometheus.HistogramVec
	Attempts *prometheus.CounterVec
}

// NewCollectors registers the client metrics with reg. Vectors already
// registered by an earlier call are reused.
func NewCollectors(reg prometheus.Registerer) (*Collectors, error) {
	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "llmbridge",
			Subsystem: "backend",
			Name:      "requests_total",
			Help:      "Backend calls by operation and outcome",
		},
		[]string{"backend", "operation", "outcome"},
	)
	duration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "llmbridge",
			Subsystem: "backend",
			Name:      "request_duration_seconds",
			Help:      "Wall-clock duration of backend calls, retries included",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"backend", "operation"},
	)
	attempts := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "llmbridge",
			Subsystem: "chat",
			Name:      "attempts_total",
			Help:      "HTTP attempts made by chat completions",
		},
		[]string{"backend"},
	)

	var err error
	if requests, err = register(reg, requests); err != nil {
		return nil, err
	}
	if duration, err = register(reg, duration); err != nil {
		return nil, err
	}
	if attempts, err = register(reg, attempts); err != nil {
		return nil, err
	}
	return &Collectors{Requests: requests, Duration: duration, Attempts: attempts}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// Client wraps a BackendClient and records every ListModels and
// ChatCompletion call.
type Client struct {
	wrapped    providers.BackendClient
	collectors *Collectors
}

// NewClient registers the metrics with reg and returns the decorated client.
func NewClient(wrapped providers.BackendClient, reg prometheus.Registerer) (*Client, error) {
	collectors, err := NewCollectors(reg)
	if err != nil {
		return nil, err
	}
	logging.LogDebug("[METRICS] Wrapping %s client with metrics", wrapped.Kind())
	return &Client{wrapped: wrapped, collectors: collectors}, nil
}

// Unwrap returns the decorated client.
func (c *Client) Unwrap() providers.BackendClient { return c.wrapped }

// Kind passes through to the wrapped client.
func (c *Client) Kind() providers.Kind { return c.wrapped.Kind() }

// Host passes through to the wrapped client.
func (c *Client) Host() string { return c.wrapped.Host() }

// SetSystemPrompt passes through to the wrapped client.
func (c *Client) SetSystemPrompt(prompt string) { c.wrapped.SetSystemPrompt(prompt) }

// SystemPrompt passes through to the wrapped client.
func (c *Client) SystemPrompt() string { return c.wrapped.SystemPrompt() }

// ListModels records the listing call.
func (c *Client) ListModels(ctx context.Context) ([]models.Descriptor, error) {
	start := time.Now()
	list, err := c.wrapped.ListModels(ctx)
	c.observe(OperationListModels, start, err)
	return list, err
}

// ChatCompletion records the call and the attempts it took.
func (c *Client) ChatCompletion(ctx context.Context, req providers.ChatRequest) (providers.ChatResult, error) {
	start := time.Now()
	result, err := c.wrapped.ChatCompletion(ctx, req)
	c.observe(OperationChat, start, err)
	if result.Attempts > 0 {
		c.collectors.Attempts.WithLabelValues(string(c.wrapped.Kind())).Add(float64(result.Attempts))
	}
	return result, err
}

func (c *Client) observe(operation string, start time.Time, err error) {
	backend := string(c.wrapped.Kind())
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	c.collectors.Requests.WithLabelValues(backend, operation, outcome).Inc()
	c.collectors.Duration.WithLabelValues(backend, operation).Observe(time.Since(start).Seconds())
}
