// internal/commands/root_test.go
package llmbridge

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeOllama serves a two-model listing and echoes chat prompts back.
func fakeOllama(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tags":
			_, _ = w.Write([]byte(`{"models":[
				{"name":"codellama:13b","details":{"parameter_size":"13B"}},
				{"name":"llama3.2:3b","details":{"parameter_size":"3B"}}
			]}`))
		case "/api/chat":
			var req struct {
				Model    string `json:"model"`
				Messages []struct {
					Content string `json:"content"`
				} `json:"messages"`
			}
			body, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(body, &req)
			last := req.Messages[len(req.Messages)-1].Content
			_, _ = w.Write([]byte(`{"message":{"role":"assistant","content":"echo from ` + req.Model + `: ` + last + `"}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newApp(strings.NewReader(stdin)).rootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	missing := filepath.Join(t.TempDir(), "absent.cfg")
	root.SetArgs(append([]string{"--config", missing}, args...))
	err := root.Execute()
	return out.String(), err
}

// TestRootCmd verifies running the root command with an invalid subcommand reports an error.
func TestRootCmd(t *testing.T) {
	_, err := execute(t, "", "nonexistent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown command "nonexistent" for "llmbridge"`)
}

func TestMissingConfiguration(t *testing.T) {
	_, err := execute(t, "", "models", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chatbot_api_host")
	assert.Contains(t, err.Error(), "no configuration file found")
}

func TestDetectCmd(t *testing.T) {
	server := fakeOllama(t)
	out, err := execute(t, "", "--host", server.URL, "detect")
	require.NoError(t, err)
	assert.Contains(t, out, "ollama")
	assert.Contains(t, out, "(detected)")

	out, err = execute(t, "", "--host", server.URL, "--backend", "ollama", "detect")
	require.NoError(t, err)
	assert.Contains(t, out, "(pinned)")
}

func TestModelsListCmd(t *testing.T) {
	server := fakeOllama(t)
	out, err := execute(t, "", "--host", server.URL, "models", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Available Models (ollama)")
	assert.Contains(t, out, ">>> codellama:13b (13B)")
	assert.Contains(t, out, ">>> llama3.2:3b (3B)")

	out, err = execute(t, "", "--host", server.URL, "models", "list", "--raw")
	require.NoError(t, err)
	assert.Contains(t, out, "llama3.2:3b")
}

func TestSelectCmd(t *testing.T) {
	server := fakeOllama(t)
	out, err := execute(t, "", "--host", server.URL, "select", "--prompt", "debug this function")
	require.NoError(t, err)
	assert.Contains(t, out, "codellama:13b")
	assert.Contains(t, out, "rule:code")

	out, err = execute(t, "", "--host", server.URL, "select")
	require.NoError(t, err)
	assert.Contains(t, out, "llama3.2:3b")
	assert.Contains(t, out, "smallest")
}

func TestChatCmdOneShot(t *testing.T) {
	server := fakeOllama(t)
	out, err := execute(t, "", "--host", server.URL, "chat", "--prompt", "write code please")
	require.NoError(t, err)
	assert.Contains(t, out, "echo from codellama:13b: write code please")
	assert.Contains(t, out, "Response time:")

	_, err = execute(t, "", "--host", server.URL, "chat", "--prompt", "hi", "--temperature", "3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "temperature")
}

func TestChatCmdMetricsAddr(t *testing.T) {
	server := fakeOllama(t)
	out, err := execute(t, "", "--host", server.URL, "chat", "--prompt", "hi", "--metrics-addr", "127.0.0.1:0")
	require.NoError(t, err)
	assert.Contains(t, out, "metrics:")
	assert.Contains(t, out, "/metrics")
	assert.Contains(t, out, "echo from llama3.2:3b: hi")

	_, err = execute(t, "", "--host", server.URL, "chat", "--prompt", "hi", "--metrics-addr", "not-an-address")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "metrics endpoint")
}

func TestChatCmdSession(t *testing.T) {
	server := fakeOllama(t)
	out, err := execute(t, "hello\nquit\n", "--host", server.URL, "chat")
	require.NoError(t, err)
	assert.Contains(t, out, "AI Chat Terminal")
	assert.Contains(t, out, "echo from llama3.2:3b: hello")
	assert.Contains(t, out, "Goodbye!")
}

func TestShowConfigCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.cfg")
	require.NoError(t, os.WriteFile(path, []byte("chatbot_api_host=chat.example.edu\nbearer=sk-live-abcd\nbackend=openwebui\n"), 0o644))

	var out bytes.Buffer
	root := newApp(strings.NewReader("")).rootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"--config", path, "show", "config"})
	require.NoError(t, root.Execute())

	assert.Contains(t, out.String(), "Config file: "+path)
	assert.Contains(t, out.String(), "chat.example.edu")
	assert.Contains(t, out.String(), "openwebui")
	assert.NotContains(t, out.String(), "sk-live")
}

func TestCommandsCmdNeedsNoConfig(t *testing.T) {
	out, err := execute(t, "", "commands")
	require.NoError(t, err)
	assert.Contains(t, out, "Commands and Subcommands:")
	assert.Contains(t, out, "llmbridge models list")
	assert.Contains(t, out, "llmbridge show config")
	assert.NotContains(t, out, "completion")
}
