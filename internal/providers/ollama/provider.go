// internal/providers/ollama/provider.go
// Package ollama provides a BackendClient backed by Ollama's unauthenticated HTTP API.
package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mwiater/llmbridge/internal/appconfig"
	"github.com/mwiater/llmbridge/internal/logging"
	"github.com/mwiater/llmbridge/internal/models"
	"github.com/mwiater/llmbridge/internal/providers"
	"github.com/mwiater/llmbridge/internal/util"
)

// Scheme is used when the configured host carries none.
const Scheme = "http"

// listingPaths are tried in order; /api/models answers on some Ollama proxies.
var listingPaths = []string{"/api/tags", "/api/models"}

// optionNames maps canonical option names onto Ollama modelfile parameter names.
var optionNames = map[string]string{
	"max_tokens":          "num_predict",
	"context_window_size": "num_ctx",
}

var listingSchema = providers.ListingSchema("models")

// Provider implements providers.BackendClient for Ollama.
type Provider struct {
	providers.SystemPromptHolder

	host    string
	baseURL string
	client  *http.Client
	timeout time.Duration
	retry   providers.RetryPolicy
}

// New constructs a Provider for cfg.Host using the configured chat timeout
// and retry policy.
func New(cfg *appconfig.Config) *Provider {
	timeout := cfg.RequestTimeout()
	p := &Provider{
		host:    cfg.Host,
		baseURL: providers.BaseURL(cfg.Host, Scheme),
		client: &http.Client{
			Timeout:   timeout,
			Transport: &http.Transport{ForceAttemptHTTP2: false},
		},
		timeout: timeout,
		retry:   cfg.RetryPolicy(),
	}
	p.SetSystemPrompt(cfg.SystemPrompt)
	return p
}

type tagsResponse struct {
	Models []struct {
		Name    string               `json:"name"`
		Details *models.ModelDetails `json:"details,omitempty"`
	} `json:"models"`
}

type chatRequest struct {
	Model    string                  `json:"model"`
	Messages []providers.ChatMessage `json:"messages"`
	Stream   bool                    `json:"stream"`
	Options  map[string]any          `json:"options,omitempty"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
	Done bool `json:"done"`
}

// Kind reports KindOllama.
func (p *Provider) Kind() providers.Kind { return providers.KindOllama }

// Host returns the configured host.
func (p *Provider) Host() string { return p.host }

// ListModels returns the models the host serves. Sizes missing from the
// listing are guessed from the model name.
func (p *Provider) ListModels(ctx context.Context) ([]models.Descriptor, error) {
	hostID := providers.HostIdentifier(p.host)

	var (
		endpoint string
		status   int
		body     []byte
		err      error
	)
	for _, path := range listingPaths {
		endpoint = p.baseURL + path
		logging.LogRequest("LLMB->LLM", hostID, "", "", map[string]string{"method": http.MethodGet, "url": endpoint})
		status, body, err = providers.DoJSON(ctx, p.client, p.timeout, http.MethodGet, endpoint, nil, nil)
		if err != nil {
			return nil, &providers.BackendUnavailableError{Endpoint: endpoint, Err: err}
		}
		if status != http.StatusNotFound {
			break
		}
	}
	logging.LogRequest("LLM->LLMB", hostID, "", "", body)

	if status != http.StatusOK {
		return nil, &providers.BackendUnavailableError{
			Endpoint:   endpoint,
			StatusCode: status,
			Err:        fmt.Errorf("ollama: %s", strings.TrimSpace(util.TruncateRunes(string(body), 200))),
		}
	}
	if err := providers.ValidateListing(listingSchema, body); err != nil {
		return nil, &providers.BackendUnavailableError{Endpoint: endpoint, StatusCode: status, Err: err}
	}

	var tags tagsResponse
	if err := json.Unmarshal(body, &tags); err != nil {
		return nil, &providers.BackendUnavailableError{Endpoint: endpoint, StatusCode: status, Err: err}
	}

	descriptors := make([]models.Descriptor, 0, len(tags.Models))
	for _, m := range tags.Models {
		if m.Details != nil && strings.TrimSpace(m.Details.ParameterSize) != "" {
			descriptors = append(descriptors, models.NewDescriptor(m.Name, m.Details.ParameterSize))
			continue
		}
		descriptors = append(descriptors, models.Descriptor{Name: m.Name, ParameterSize: models.SizeFromName(m.Name)})
	}
	return descriptors, nil
}

// ChatCompletion posts one non-streaming chat request and returns the reply
// text with the wall-clock time spent on the network, retries included.
func (p *Provider) ChatCompletion(ctx context.Context, req providers.ChatRequest) (providers.ChatResult, error) {
	if err := providers.CheckChatRequest(req); err != nil {
		return providers.ChatResult{}, err
	}

	payload := chatRequest{
		Model:    req.Model.Name,
		Messages: p.BuildMessages(req),
		Stream:   false,
		Options:  buildOptions(req.Options),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return providers.ChatResult{}, err
	}

	hostID := providers.HostIdentifier(p.host)
	requestID := uuid.NewString()
	endpoint := p.baseURL + "/api/chat"
	logging.LogRequest("LLMB->LLM", hostID, req.Model.Name, requestID, body)

	start := time.Now()
	respBody, attempts, err := providers.Retry(ctx, p.retry, func(ctx context.Context, attempt int) ([]byte, error) {
		status, raw, err := providers.DoJSON(ctx, p.client, p.timeout, http.MethodPost, endpoint, nil, body)
		if err != nil {
			return nil, err
		}
		logging.LogRequest("LLM->LLMB", hostID, req.Model.Name, requestID, raw)
		if status != http.StatusOK {
			return nil, &providers.ChatCompletionError{StatusCode: status, Body: strings.TrimSpace(string(raw))}
		}
		return raw, nil
	}, func(attempt int, err error, wait time.Duration) {
		logging.LogWarn("ollama: /api/chat attempt %d failed (%v); retrying in %s", attempt, err, wait)
	})
	elapsed := time.Since(start).Milliseconds()
	if err != nil {
		return providers.ChatResult{ElapsedMillis: elapsed, Attempts: attempts}, providers.AsChatCompletionError(err, attempts)
	}

	var result chatResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return providers.ChatResult{ElapsedMillis: -1, Attempts: attempts}, &providers.ChatCompletionError{
			StatusCode: http.StatusOK,
			Body:       util.TruncateRunes(string(respBody), 200),
			Attempts:   attempts,
			Err:        fmt.Errorf("ollama: decode /api/chat response: %w", err),
		}
	}

	return providers.ChatResult{ElapsedMillis: elapsed, Content: result.Message.Content, Attempts: attempts}, nil
}

// buildOptions nests the set options under Ollama's names. Nil when nothing is set.
func buildOptions(opts *providers.RequestOptions) map[string]any {
	options := providers.TranslateOptions(opts, optionNames)
	if len(options) == 0 {
		return nil
	}
	return options
}
