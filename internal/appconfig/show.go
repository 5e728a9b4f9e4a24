// internal/appconfig/show.go
package appconfig

import (
	"fmt"
	"io"

	"github.com/mwiater/llmbridge/internal/util"
)

// Masked returns a copy of c safe to print: the bearer token is masked.
func (c Config) Masked() Config {
	c.Bearer = util.MaskSecret(c.Bearer)
	return c
}

// ShowConfig prints the effective configuration summary with the bearer
// token masked.
func ShowConfig(out io.Writer, cfg *Config) {
	if cfg == nil {
		fmt.Fprintln(out, "No configuration loaded.")
		return
	}
	if cfg.ConfigPath == "" {
		fmt.Fprintln(out, "No config file loaded (using environment and defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", cfg.ConfigPath)
	}

	backend := cfg.Backend
	if backend == "" {
		backend = "auto-detect"
	}
	masked := cfg.Masked()
	policy := cfg.RetryPolicy()

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintf(out, "  Host:            %s\n", cfg.Host)
	fmt.Fprintf(out, "  Bearer:          %s\n", masked.Bearer)
	fmt.Fprintf(out, "  Backend:         %s\n", backend)
	fmt.Fprintf(out, "  Chat Timeout:    %s\n", cfg.RequestTimeout())
	fmt.Fprintf(out, "  Probe Timeout:   %s\n", cfg.ProbeTimeout())
	fmt.Fprintf(out, "  Retry Attempts:  %d\n", policy.MaxAttempts)
	fmt.Fprintf(out, "  Retry Backoff:   %s\n", policy.InitialInterval)
	fmt.Fprintf(out, "  Preferred Model: %s\n", cfg.PreferredModel)
	fmt.Fprintf(out, "  System Prompt:   %s\n", util.TruncateRunes(cfg.SystemPrompt, 60))
	fmt.Fprintf(out, "  Log File:        %s\n", cfg.LogFile)
	fmt.Fprintf(out, "  Debug:           %v\n", cfg.Debug)
	fmt.Fprintf(out, "  Metrics:         %v\n", cfg.Metrics)
}
