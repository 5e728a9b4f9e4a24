// internal/providerfactory/factory.go
// Package providerfactory works out which backend a host runs and constructs
// the matching BackendClient.
package providerfactory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/mwiater/llmbridge/internal/appconfig"
	"github.com/mwiater/llmbridge/internal/logging"
	"github.com/mwiater/llmbridge/internal/providers"
	"github.com/mwiater/llmbridge/internal/providers/ollama"
	"github.com/mwiater/llmbridge/internal/providers/openwebui"
)

var probeClient = &http.Client{}

// Detect probes cfg.Host and reports which backend answered. Ollama is tried
// first and wins when it answers 200 on /api/tags; otherwise any JSON body
// from the bearer-authenticated /api/models marks OpenWebUI. Probe failures
// are never returned; they only lead to KindUnknown.
func Detect(ctx context.Context, cfg *appconfig.Config) providers.Kind {
	if cfg == nil {
		return providers.KindUnknown
	}
	timeout := cfg.ProbeTimeout()
	hostID := providers.HostIdentifier(cfg.Host)

	ollamaURL := providers.BaseURL(cfg.Host, ollama.Scheme) + "/api/tags"
	status, _, err := providers.DoJSON(ctx, probeClient, timeout, http.MethodGet, ollamaURL, nil, nil)
	if err == nil && status == http.StatusOK {
		logging.LogEvent("detect: %s answered as ollama", hostID)
		return providers.KindOllama
	}
	if err != nil {
		logging.LogDebug("detect: ollama probe %s failed: %v", ollamaURL, err)
	}

	webURL := providers.BaseURL(cfg.Host, openwebui.Scheme) + "/api/models"
	_, body, err := providers.DoJSON(ctx, probeClient, timeout, http.MethodGet, webURL, providers.BearerHeader(cfg.Bearer), nil)
	if err == nil && len(body) > 0 && json.Valid(body) {
		logging.LogEvent("detect: %s answered as openwebui", hostID)
		return providers.KindOpenWebUI
	}
	if err != nil {
		logging.LogDebug("detect: openwebui probe %s failed: %v", webURL, err)
	}

	logging.LogWarn("detect: %s matched no known backend", hostID)
	return providers.KindUnknown
}

// NewClientForKind constructs the client for kind without probing.
func NewClientForKind(kind providers.Kind, cfg *appconfig.Config) (providers.BackendClient, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil config provided to provider factory", providers.ErrConfiguration)
	}
	switch kind {
	case providers.KindOllama:
		return ollama.New(cfg), nil
	case providers.KindOpenWebUI:
		if strings.TrimSpace(cfg.Bearer) == "" {
			return nil, fmt.Errorf("%w: missing required key %q for openwebui", providers.ErrConfiguration, appconfig.KeyBearer)
		}
		return openwebui.New(cfg), nil
	default:
		return nil, fmt.Errorf("%w: could not autodetect client type for %q", providers.ErrConfiguration, cfg.Host)
	}
}

// NewBackendClient returns a client for cfg. A pinned backend key skips
// detection; otherwise the host is probed.
func NewBackendClient(ctx context.Context, cfg *appconfig.Config) (providers.BackendClient, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil config provided to provider factory", providers.ErrConfiguration)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	kind := cfg.BackendKind()
	if kind == providers.KindUnknown {
		kind = Detect(ctx, cfg)
	}
	return NewClientForKind(kind, cfg)
}
