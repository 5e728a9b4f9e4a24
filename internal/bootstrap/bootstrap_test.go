// internal/bootstrap/bootstrap_test.go
package bootstrap

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwiater/llmbridge/internal/appconfig"
	"github.com/mwiater/llmbridge/internal/metrics"
	"github.com/mwiater/llmbridge/internal/models"
	"github.com/mwiater/llmbridge/internal/providers"
	"github.com/mwiater/llmbridge/internal/providers/ollama"
	"github.com/mwiater/llmbridge/internal/selector"
)

type stubClient struct {
	providers.SystemPromptHolder
	list    []models.Descriptor
	listErr error
}

func (s *stubClient) Kind() providers.Kind { return providers.KindOllama }
func (s *stubClient) Host() string         { return "stub:11434" }
func (s *stubClient) ListModels(context.Context) ([]models.Descriptor, error) {
	return s.list, s.listErr
}
func (s *stubClient) ChatCompletion(context.Context, providers.ChatRequest) (providers.ChatResult, error) {
	return providers.ChatResult{Content: "stub"}, nil
}

func newStubBootstrapper(cfg *appconfig.Config, stub *stubClient) (*Bootstrapper, *int) {
	detections := 0
	logger := zerolog.New(&bytes.Buffer{})
	return &Bootstrapper{
		Config: cfg,
		Detect: func(context.Context, *appconfig.Config) providers.Kind {
			detections++
			return providers.KindOllama
		},
		NewClient: func(kind providers.Kind, _ *appconfig.Config) (providers.BackendClient, error) {
			return stub, nil
		},
		Registerer: prometheus.NewRegistry(),
		Logger:     &logger,
	}, &detections
}

var stubListing = []models.Descriptor{
	{Name: "llama3.1:70b", ParameterSize: models.Size70B},
	{Name: "codellama:13b", ParameterSize: models.Size13B},
	{Name: "llama3.2:3b", ParameterSize: models.Size3B},
}

func TestBootstrapSelection(t *testing.T) {
	tests := []struct {
		name      string
		cfg       appconfig.Config
		preferred string
		prompt    string
		want      string
	}{
		{name: "smallest by default", cfg: appconfig.Config{Host: "h"}, want: "llama3.2:3b"},
		{name: "prompt rules", cfg: appconfig.Config{Host: "h"}, prompt: "write some code", want: "codellama:13b"},
		{name: "explicit preferred", cfg: appconfig.Config{Host: "h"}, preferred: "llama3.1:70b", want: "llama3.1:70b"},
		{name: "configured preferred", cfg: appconfig.Config{Host: "h", PreferredModel: "llama3.1:70b"}, want: "llama3.1:70b"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := tc.cfg
			b, _ := newStubBootstrapper(&cfg, &stubClient{list: stubListing})
			client, model, err := b.Bootstrap(context.Background(), tc.preferred, tc.prompt)
			require.NoError(t, err)
			require.NotNil(t, client)
			assert.Equal(t, tc.want, model.Name)
		})
	}
}

func TestBootstrapEmptyListing(t *testing.T) {
	for name, stub := range map[string]*stubClient{
		"empty":       {},
		"unavailable": {listErr: &providers.BackendUnavailableError{Endpoint: "http://h/api/tags", StatusCode: 500}},
	} {
		t.Run(name, func(t *testing.T) {
			b, _ := newStubBootstrapper(&appconfig.Config{Host: "h"}, stub)
			_, _, err := b.Bootstrap(context.Background(), "", "")
			require.Error(t, err)
			assert.ErrorIs(t, err, providers.ErrNoModelsAvailable)
			assert.Contains(t, err.Error(), "chatbot_api_host")
		})
	}
}

func TestBootstrapAppliesConfiguration(t *testing.T) {
	stub := &stubClient{list: stubListing}
	cfg := &appconfig.Config{Host: "h", SystemPrompt: "You are terse.", Metrics: true}
	b, detections := newStubBootstrapper(cfg, stub)

	res, err := b.Run(context.Background(), "", "")
	require.NoError(t, err)
	assert.Equal(t, 1, *detections)
	assert.Equal(t, "You are terse.", stub.SystemPrompt())
	assert.Equal(t, selector.DecisionSmallest, res.Decision)
	assert.Len(t, res.Models, 3)

	decorated, ok := res.Client.(*metrics.Client)
	require.True(t, ok, "expected metrics decorator, got %T", res.Client)
	assert.Same(t, stub, decorated.Unwrap())
}

func TestBootstrapPinnedBackendSkipsDetection(t *testing.T) {
	b, detections := newStubBootstrapper(&appconfig.Config{Host: "h", Backend: "ollama"}, &stubClient{list: stubListing})
	_, _, err := b.Bootstrap(context.Background(), "", "")
	require.NoError(t, err)
	assert.Zero(t, *detections)
}

func TestBootstrapConfigurationErrors(t *testing.T) {
	_, _, err := New(nil).Bootstrap(context.Background(), "", "")
	assert.ErrorIs(t, err, providers.ErrConfiguration)

	_, _, err = New(&appconfig.Config{}).Bootstrap(context.Background(), "", "")
	assert.ErrorIs(t, err, providers.ErrConfiguration)

	b, _ := newStubBootstrapper(&appconfig.Config{Host: "h"}, nil)
	b.NewClient = nil
	b.Detect = func(context.Context, *appconfig.Config) providers.Kind { return providers.KindUnknown }
	_, _, err = b.Bootstrap(context.Background(), "", "")
	assert.ErrorIs(t, err, providers.ErrConfiguration)
}

func TestFromFileAgainstOllamaServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tags":
			_, _ = w.Write([]byte(`{"models":[{"name":"mistral:7b","details":{"parameter_size":"7B"}},{"name":"llama2:13b"}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	path := filepath.Join(t.TempDir(), "config.cfg")
	require.NoError(t, os.WriteFile(path, []byte("chatbot_api_host="+server.URL+"\nprobe_timeout_ms=500\n"), 0o644))

	client, model, err := FromFile(context.Background(), path, "", "tell me a story")
	require.NoError(t, err)
	assert.IsType(t, &ollama.Provider{}, client)
	assert.Equal(t, "mistral:7b", model.Name)
}
