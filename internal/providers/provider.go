// internal/providers/provider.go

// Package providers defines the contract shared by every chat backend.
// A backend lists the models it serves and answers single-turn chat
// completions, optionally prefixed by a standing system prompt.
package providers

import (
	"context"
	"strings"
	"sync"

	"github.com/mwiater/llmbridge/internal/models"
)

// Kind identifies a backend variant.
type Kind string

const (
	KindOllama    Kind = "ollama"
	KindOpenWebUI Kind = "openwebui"
	KindUnknown   Kind = "unknown"
)

// ParseKind normalizes a user supplied backend name. Empty and unrecognized
// values map to KindUnknown.
func ParseKind(s string) Kind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ollama":
		return KindOllama
	case "openwebui", "open-webui", "webui":
		return KindOpenWebUI
	default:
		return KindUnknown
	}
}

// ChatMessage is one entry of the messages array sent to a backend.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest carries one chat completion call.
type ChatRequest struct {
	Message string
	Model   models.Descriptor
	Options *RequestOptions
	// SystemPrompt overrides the client's sticky prompt for this call only.
	SystemPrompt string
}

// ChatResult is the outcome of a chat completion. ElapsedMillis is -1 when
// the timing is not meaningful.
type ChatResult struct {
	ElapsedMillis int64
	Content       string
	Attempts      int
}

// BackendClient is implemented by every backend variant.
type BackendClient interface {
	// Kind reports which backend variant this client talks to.
	Kind() Kind
	// Host returns the configured host the client talks to.
	Host() string
	// ListModels returns the models the backend currently serves.
	ListModels(ctx context.Context) ([]models.Descriptor, error)
	// ChatCompletion sends one user message and returns the first completion.
	ChatCompletion(ctx context.Context, req ChatRequest) (ChatResult, error)
	// SetSystemPrompt stores a standing prompt. Empty prompts are ignored.
	SetSystemPrompt(prompt string)
	// SystemPrompt returns the standing prompt, if any.
	SystemPrompt() string
}

// SystemPromptHolder implements the sticky, ignore-empty system prompt shared
// by the backend clients. It is safe for concurrent use, but one holder still
// represents one conversation.
type SystemPromptHolder struct {
	mu     sync.RWMutex
	prompt string
}

// SetSystemPrompt replaces the stored prompt unless prompt is empty.
func (h *SystemPromptHolder) SetSystemPrompt(prompt string) {
	if prompt == "" {
		return
	}
	h.mu.Lock()
	h.prompt = prompt
	h.mu.Unlock()
}

// SystemPrompt returns the stored prompt.
func (h *SystemPromptHolder) SystemPrompt() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.prompt
}

// BuildMessages assembles the messages array for a request: the per-call
// system prompt if given, else the sticky one, then the user message.
func (h *SystemPromptHolder) BuildMessages(req ChatRequest) []ChatMessage {
	system := req.SystemPrompt
	if system == "" {
		system = h.SystemPrompt()
	}
	messages := make([]ChatMessage, 0, 2)
	if system != "" {
		messages = append(messages, ChatMessage{Role: "system", Content: system})
	}
	return append(messages, ChatMessage{Role: "user", Content: req.Message})
}

// CheckChatRequest validates the parts of a request that must hold before
// any network call.
func CheckChatRequest(req ChatRequest) error {
	if strings.TrimSpace(req.Message) == "" {
		return &ValidationError{Field: "message", Reason: "must not be empty"}
	}
	if strings.TrimSpace(req.Model.Name) == "" {
		return &ValidationError{Field: "model", Reason: "must name a listed model"}
	}
	if req.Options != nil {
		return req.Options.Validate()
	}
	return nil
}
