// internal/appconfig/appconfig.go
// Package appconfig loads the connection configuration: a flat key=value file
// whose keys may be overridden by LLMBRIDGE_* environment variables.
package appconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/mwiater/llmbridge/internal/providers"
)

const (
	// DefaultConfigPath is the config file read when none is given.
	DefaultConfigPath = "config.cfg"
	// EnvPrefix prefixes environment overrides, e.g. LLMBRIDGE_CHATBOT_API_HOST.
	EnvPrefix = "LLMBRIDGE"

	KeyHost                = "chatbot_api_host"
	KeyBearer              = "bearer"
	KeyBackend             = "backend"
	KeyTimeout             = "timeout"
	KeyProbeTimeoutMillis  = "probe_timeout_ms"
	KeyRetryAttempts       = "retry_attempts"
	KeyRetryInitialBackoff = "retry_initial_backoff_ms"
	KeyLogFile             = "log_file"
	KeyDebug               = "debug"
	KeyMetrics             = "metrics"
	KeySystemPrompt        = "system_prompt"
	KeyPreferredModel      = "preferred_model"

	defaultRequestTimeout     = 600 * time.Second
	defaultProbeTimeout       = time.Second
	defaultRetryAttempts      = 3
	defaultRetryInitialMillis = 500
)

// Config is the explicit configuration handed to the bootstrapper.
type Config struct {
	Host                      string `mapstructure:"chatbot_api_host"`
	Bearer                    string `mapstructure:"bearer"`
	Backend                   string `mapstructure:"backend"`
	TimeoutSeconds            int    `mapstructure:"timeout"`
	ProbeTimeoutMillis        int    `mapstructure:"probe_timeout_ms"`
	RetryAttempts             int    `mapstructure:"retry_attempts"`
	RetryInitialBackoffMillis int    `mapstructure:"retry_initial_backoff_ms"`
	LogFile                   string `mapstructure:"log_file"`
	Debug                     bool   `mapstructure:"debug"`
	Metrics                   bool   `mapstructure:"metrics"`
	SystemPrompt              string `mapstructure:"system_prompt"`
	PreferredModel            string `mapstructure:"preferred_model"`
	ConfigPath                string `mapstructure:"-"`
}

// RequestTimeout returns the per-attempt chat completion timeout.
func (c Config) RequestTimeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return defaultRequestTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ProbeTimeout returns the timeout used by each detection probe.
func (c Config) ProbeTimeout() time.Duration {
	if c.ProbeTimeoutMillis <= 0 {
		return defaultProbeTimeout
	}
	return time.Duration(c.ProbeTimeoutMillis) * time.Millisecond
}

// RetryPolicy returns the chat completion retry policy.
func (c Config) RetryPolicy() providers.RetryPolicy {
	policy := providers.DefaultRetryPolicy()
	if c.RetryAttempts > 0 {
		policy.MaxAttempts = c.RetryAttempts
	}
	if c.RetryInitialBackoffMillis > 0 {
		policy.InitialInterval = time.Duration(c.RetryInitialBackoffMillis) * time.Millisecond
	}
	return policy
}

// BackendKind returns the pinned backend, or KindUnknown when detection should run.
func (c Config) BackendKind() providers.Kind {
	return providers.ParseKind(c.Backend)
}

// Validate checks the keys every bootstrap needs.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Host) == "" {
		return fmt.Errorf("%w: missing required key %q", providers.ErrConfiguration, KeyHost)
	}
	if c.Backend != "" && c.BackendKind() == providers.KindUnknown {
		return fmt.Errorf("%w: %q must be ollama or openwebui, got %q", providers.ErrConfiguration, KeyBackend, c.Backend)
	}
	if c.BackendKind() == providers.KindOpenWebUI && strings.TrimSpace(c.Bearer) == "" {
		return fmt.Errorf("%w: missing required key %q for openwebui", providers.ErrConfiguration, KeyBearer)
	}
	return nil
}

// NewViper returns a viper instance with defaults and environment overrides
// registered for every known key.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyHost, "")
	v.SetDefault(KeyBearer, "")
	v.SetDefault(KeyBackend, "")
	v.SetDefault(KeyTimeout, int(defaultRequestTimeout.Seconds()))
	v.SetDefault(KeyProbeTimeoutMillis, int(defaultProbeTimeout.Milliseconds()))
	v.SetDefault(KeyRetryAttempts, defaultRetryAttempts)
	v.SetDefault(KeyRetryInitialBackoff, defaultRetryInitialMillis)
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyDebug, false)
	v.SetDefault(KeyMetrics, false)
	v.SetDefault(KeySystemPrompt, "")
	v.SetDefault(KeyPreferredModel, "")
	return v
}

// Load reads path into v and returns the validated configuration. A missing
// file is tolerated when the environment alone supplies the host.
func Load(v *viper.Viper, path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	v.SetConfigFile(path)
	if configType := configTypeFor(path); configType != "" {
		v.SetConfigType(configType)
	}

	fileRead := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("%w: could not read config file %q: %v", providers.ErrConfiguration, path, err)
		}
		fileRead = false
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: unmarshal config: %v", providers.ErrConfiguration, err)
	}
	if fileRead {
		cfg.ConfigPath = path
	}

	if err := cfg.Validate(); err != nil {
		if !fileRead {
			return Config{}, fmt.Errorf("%w (no configuration file found at %q)", err, path)
		}
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile is Load with a fresh viper instance.
func LoadFile(path string) (Config, error) {
	return Load(NewViper(), path)
}

// configTypeFor maps extensionless and .cfg files to viper's dotenv codec,
// which reads flat key=value lines.
func configTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case "", ".cfg", ".conf", ".env":
		return "dotenv"
	default:
		return ""
	}
}
