// internal/providerfactory/factory_test.go
package providerfactory

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwiater/llmbridge/internal/appconfig"
	"github.com/mwiater/llmbridge/internal/providers"
	"github.com/mwiater/llmbridge/internal/providers/ollama"
	"github.com/mwiater/llmbridge/internal/providers/openwebui"
)

func serve(t *testing.T, handler http.HandlerFunc) string {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server.URL
}

func TestDetect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    providers.Kind
	}{
		{
			name: "ollama tags",
			handler: func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path == "/api/tags" {
					_, _ = w.Write([]byte(`{"models":[]}`))
					return
				}
				http.NotFound(w, r)
			},
			want: providers.KindOllama,
		},
		{
			name: "ollama wins when both answer",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"models":[],"data":[]}`))
			},
			want: providers.KindOllama,
		},
		{
			name: "openwebui json on models",
			handler: func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path == "/api/models" && r.Header.Get("Authorization") == "Bearer tok" {
					_, _ = w.Write([]byte(`{"data":[]}`))
					return
				}
				w.WriteHeader(http.StatusUnauthorized)
			},
			want: providers.KindOpenWebUI,
		},
		{
			name: "html everywhere",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write([]byte("<html>nope</html>"))
			},
			want: providers.KindUnknown,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &appconfig.Config{Host: serve(t, tc.handler), Bearer: "tok"}
			assert.Equal(t, tc.want, Detect(context.Background(), cfg))
		})
	}
}

func TestDetectUnreachableHost(t *testing.T) {
	t.Parallel()

	cfg := &appconfig.Config{Host: "http://127.0.0.1:1", ProbeTimeoutMillis: 200}
	assert.Equal(t, providers.KindUnknown, Detect(context.Background(), cfg))
	assert.Equal(t, providers.KindUnknown, Detect(context.Background(), nil))
}

func TestNewBackendClient(t *testing.T) {
	t.Parallel()

	ollamaHost := serve(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"models":[]}`))
	})
	client, err := NewBackendClient(context.Background(), &appconfig.Config{Host: ollamaHost})
	require.NoError(t, err)
	assert.IsType(t, &ollama.Provider{}, client)

	unknownHost := serve(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	_, err = NewBackendClient(context.Background(), &appconfig.Config{Host: unknownHost})
	require.Error(t, err)
	assert.ErrorIs(t, err, providers.ErrConfiguration)
	assert.Contains(t, err.Error(), "autodetect")
}

func TestNewBackendClientPinnedSkipsProbe(t *testing.T) {
	t.Parallel()

	var probes atomic.Int32
	host := serve(t, func(w http.ResponseWriter, r *http.Request) {
		probes.Add(1)
		_, _ = w.Write([]byte(`{"models":[]}`))
	})

	client, err := NewBackendClient(context.Background(), &appconfig.Config{Host: host, Backend: "openwebui", Bearer: "tok"})
	require.NoError(t, err)
	assert.IsType(t, &openwebui.Provider{}, client)
	assert.Zero(t, probes.Load())
}

func TestNewBackendClientRejectsBadConfig(t *testing.T) {
	_, err := NewBackendClient(context.Background(), nil)
	assert.ErrorIs(t, err, providers.ErrConfiguration)

	_, err = NewBackendClient(context.Background(), &appconfig.Config{})
	assert.ErrorIs(t, err, providers.ErrConfiguration)

	_, err = NewClientForKind(providers.KindUnknown, &appconfig.Config{Host: "h"})
	assert.ErrorIs(t, err, providers.ErrConfiguration)

	_, err = NewClientForKind(providers.KindOpenWebUI, &appconfig.Config{Host: "h"})
	assert.ErrorIs(t, err, providers.ErrConfiguration)
	assert.Contains(t, err.Error(), "bearer")
}
