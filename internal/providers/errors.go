// internal/providers/errors.go
package providers

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfiguration marks missing or invalid connection configuration and
	// an undetectable backend. Never retried.
	ErrConfiguration = errors.New("configuration error")
	// ErrBackendUnavailable marks a failed model listing call.
	ErrBackendUnavailable = errors.New("backend unavailable")
	// ErrNoModelsAvailable marks an empty model listing.
	ErrNoModelsAvailable = errors.New("no models available")
	// ErrChatCompletion marks a failed chat completion.
	ErrChatCompletion = errors.New("chat completion failed")
	// ErrValidation marks invalid request input. Raised before any network call.
	ErrValidation = errors.New("validation error")
)

// ValidationError names the first invalid field of a request.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// BackendUnavailableError reports a listing call that failed at the
// transport, status or parse level.
type BackendUnavailableError struct {
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *BackendUnavailableError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("backend unavailable: %s returned %d: %v", e.Endpoint, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("backend unavailable: %s: %v", e.Endpoint, e.Err)
}

func (e *BackendUnavailableError) Is(target error) bool { return target == ErrBackendUnavailable }

func (e *BackendUnavailableError) Unwrap() error { return e.Err }

// ChatCompletionError reports a non-200 chat response, an unparseable body,
// or exhausted retries. StatusCode is 0 when no response was received.
type ChatCompletionError struct {
	StatusCode int
	Body       string
	Attempts   int
	Err        error
}

func (e *ChatCompletionError) Error() string {
	var b strings.Builder
	b.WriteString("chat completion failed")
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, ": status %d", e.StatusCode)
	}
	if body := strings.TrimSpace(e.Body); body != "" {
		fmt.Fprintf(&b, ": %s", body)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if e.Attempts > 1 {
		fmt.Fprintf(&b, " (after %d attempts)", e.Attempts)
	}
	return b.String()
}

func (e *ChatCompletionError) Is(target error) bool { return target == ErrChatCompletion }

func (e *ChatCompletionError) Unwrap() error { return e.Err }

// AsChatCompletionError converts the final error of a retried chat call into
// a *ChatCompletionError recording the attempts made.
func AsChatCompletionError(err error, attempts int) error {
	var chatErr *ChatCompletionError
	if errors.As(err, &chatErr) {
		chatErr.Attempts = attempts
		return chatErr
	}
	return &ChatCompletionError{Attempts: attempts, Err: err}
}
