// internal/providers/openwebui/provider.go
// Package openwebui provides a BackendClient for OpenWebUI's bearer-authenticated,
// OpenAI-shaped API.
package openwebui

import (
	"context"
	"encoding/json"
	"errors"
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
const Scheme = "https"

var optionNames = map[string]string{
	"context_window_size": "num_ctx",
}

var listingSchema = providers.ListingSchema("data")

// Provider implements providers.BackendClient for OpenWebUI.
type Provider struct {
	providers.SystemPromptHolder

	host    string
	baseURL string
	header  http.Header
	client  *http.Client
	timeout time.Duration
	retry   providers.RetryPolicy
}

// New constructs a Provider that authenticates every call with cfg.Bearer.
func New(cfg *appconfig.Config) *Provider {
	timeout := cfg.RequestTimeout()
	p := &Provider{
		host:    cfg.Host,
		baseURL: providers.BaseURL(cfg.Host, Scheme),
		header:  providers.BearerHeader(cfg.Bearer),
		client:  &http.Client{Timeout: timeout},
		timeout: timeout,
		retry:   cfg.RetryPolicy(),
	}
	p.SetSystemPrompt(cfg.SystemPrompt)
	return p
}

type modelsResponse struct {
	Data []struct {
		Name   string `json:"name"`
		ID     string `json:"id"`
		Ollama *struct {
			Details *models.ModelDetails `json:"details,omitempty"`
		} `json:"ollama,omitempty"`
	} `json:"data"`
}

type chatResponse struct {
	Choices []struct {
		Message *providers.ChatMessage `json:"message"`
	} `json:"choices"`
}

// Kind reports KindOpenWebUI.
func (p *Provider) Kind() providers.Kind { return providers.KindOpenWebUI }

// Host returns the configured host.
func (p *Provider) Host() string { return p.host }

// ListModels returns the models the host serves. Entries without nested
// Ollama details are reported with an Unknown size.
func (p *Provider) ListModels(ctx context.Context) ([]models.Descriptor, error) {
	hostID := providers.HostIdentifier(p.host)
	endpoint := p.baseURL + "/api/models"

	logging.LogRequest("LLMB->LLM", hostID, "", "", map[string]string{"method": http.MethodGet, "url": endpoint})
	status, body, err := providers.DoJSON(ctx, p.client, p.timeout, http.MethodGet, endpoint, p.header, nil)
	if err != nil {
		return nil, &providers.BackendUnavailableError{Endpoint: endpoint, Err: err}
	}
	logging.LogRequest("LLM->LLMB", hostID, "", "", body)

	if status != http.StatusOK {
		return nil, &providers.BackendUnavailableError{
			Endpoint:   endpoint,
			StatusCode: status,
			Err:        fmt.Errorf("openwebui: %s", strings.TrimSpace(util.TruncateRunes(string(body), 200))),
		}
	}
	if err := providers.ValidateListing(listingSchema, body); err != nil {
		return nil, &providers.BackendUnavailableError{Endpoint: endpoint, StatusCode: status, Err: err}
	}

	var listing modelsResponse
	if err := json.Unmarshal(body, &listing); err != nil {
		return nil, &providers.BackendUnavailableError{Endpoint: endpoint, StatusCode: status, Err: err}
	}

	descriptors := make([]models.Descriptor, 0, len(listing.Data))
	for _, m := range listing.Data {
		size := ""
		if m.Ollama != nil && m.Ollama.Details != nil {
			size = m.Ollama.Details.ParameterSize
		}
		descriptors = append(descriptors, models.NewDescriptor(m.Name, size))
	}
	return descriptors, nil
}

// ChatCompletion posts one non-streaming chat request and returns the first
// choice's content.
func (p *Provider) ChatCompletion(ctx context.Context, req providers.ChatRequest) (providers.ChatResult, error) {
	if err := providers.CheckChatRequest(req); err != nil {
		return providers.ChatResult{}, err
	}

	// Options sit beside model and messages rather than under a nested key.
	payload := providers.TranslateOptions(req.Options, optionNames)
	payload["model"] = req.Model.Name
	payload["messages"] = p.BuildMessages(req)
	payload["stream"] = false
	body, err := json.Marshal(payload)
	if err != nil {
		return providers.ChatResult{}, err
	}

	hostID := providers.HostIdentifier(p.host)
	requestID := uuid.NewString()
	endpoint := p.baseURL + "/api/chat/completions"
	logging.LogRequest("LLMB->LLM", hostID, req.Model.Name, requestID, body)

	start := time.Now()
	respBody, attempts, err := providers.Retry(ctx, p.retry, func(ctx context.Context, attempt int) ([]byte, error) {
		status, raw, err := providers.DoJSON(ctx, p.client, p.timeout, http.MethodPost, endpoint, p.header, body)
		if err != nil {
			return nil, err
		}
		logging.LogRequest("LLM->LLMB", hostID, req.Model.Name, requestID, raw)
		if status != http.StatusOK {
			return nil, &providers.ChatCompletionError{StatusCode: status, Body: strings.TrimSpace(string(raw))}
		}
		return raw, nil
	}, func(attempt int, err error, wait time.Duration) {
		logging.LogWarn("openwebui: /api/chat/completions attempt %d failed (%v); retrying in %s", attempt, err, wait)
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
			Err:        fmt.Errorf("openwebui: decode response: %w", err),
		}
	}
	if len(result.Choices) == 0 || result.Choices[0].Message == nil {
		return providers.ChatResult{ElapsedMillis: -1, Attempts: attempts}, &providers.ChatCompletionError{
			StatusCode: http.StatusOK,
			Body:       util.TruncateRunes(string(respBody), 200),
			Attempts:   attempts,
			Err:        errors.New("openwebui: response carried no choices"),
		}
	}

	return providers.ChatResult{ElapsedMillis: elapsed, Content: result.Choices[0].Message.Content, Attempts: attempts}, nil
}
