// internal/providers/retry.go
package providers

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// RetryPolicy bounds the retries of a chat completion.
type RetryPolicy struct {
	// MaxAttempts counts the initial attempt. Values below 1 mean 1.
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultRetryPolicy returns three attempts starting at half a second.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:     3,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     10 * time.Second,
	}
}

// IsRetryableStatus reports whether a response status is a transient gateway error.
func IsRetryableStatus(code int) bool {
	switch code {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// IsRetryable reports whether err is worth another attempt: a transient
// gateway status or a transport timeout.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var chatErr *ChatCompletionError
	if errors.As(err, &chatErr) && IsRetryableStatus(chatErr.StatusCode) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return false
}

// RetryNotify is called before each backoff wait.
type RetryNotify func(attempt int, err error, wait time.Duration)

// Retry runs op until it succeeds, returns a non-retryable error, the policy
// runs out of attempts, or ctx ends. It returns the number of attempts made.
func Retry[T any](ctx context.Context, policy RetryPolicy, op func(ctx context.Context, attempt int) (T, error), notify RetryNotify) (T, int, error) {
	maxAttempts := policy.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	expo := backoff.NewExponentialBackOff()
	if policy.InitialInterval > 0 {
		expo.InitialInterval = policy.InitialInterval
	}
	if policy.MaxInterval > 0 {
		expo.MaxInterval = policy.MaxInterval
	}

	attempts := 0
	operation := func() (T, error) {
		attempts++
		res, err := op(ctx, attempts)
		if err != nil && (!IsRetryable(err) || ctx.Err() != nil) {
			return res, backoff.Permanent(err)
		}
		return res, err
	}

	opts := []backoff.RetryOption{
		backoff.WithBackOff(expo),
		backoff.WithMaxTries(uint(maxAttempts)),
	}
	if notify != nil {
		opts = append(opts, backoff.WithNotify(func(err error, wait time.Duration) {
			notify(attempts, err, wait)
		}))
	}

	res, err := backoff.Retry(ctx, operation, opts...)
	return res, attempts, err
}
