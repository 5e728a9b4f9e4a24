// internal/commands/root.go
// Package llmbridge holds the cobra command tree of the llmbridge binary.
package llmbridge

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mwiater/llmbridge/internal/appconfig"
	"github.com/mwiater/llmbridge/internal/bootstrap"
	"github.com/mwiater/llmbridge/internal/logging"
)

var (
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// skipConfig marks commands that run without a loaded configuration.
const skipConfig = "skipConfig"

// app carries the state shared by one command tree.
type app struct {
	cfgFile string
	viper   *viper.Viper
	config  *appconfig.Config
	stdin   io.Reader
}

func newApp(stdin io.Reader) *app {
	return &app{viper: appconfig.NewViper(), stdin: stdin}
}

// NewRootCmd builds the full command tree with a fresh configuration layer.
func NewRootCmd() *cobra.Command {
	return newApp(os.Stdin).rootCmd()
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "llmbridge",
		Short:         "llmbridge: one client for Ollama and OpenWebUI chat backends",
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", appVersion, appCommit, appDate),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations[skipConfig] == "true" || cmd.Name() == "help" {
				return nil
			}
			return a.loadConfig()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", appconfig.DefaultConfigPath, "config file of key=value lines")
	flags.String("host", "", "backend host, overrides chatbot_api_host")
	flags.String("backend", "", "pin the backend (ollama or openwebui) and skip detection")
	flags.Bool("debug", false, "enable debug logging")
	flags.String("logFile", "", "path to the log file")
	flags.Bool("metrics", false, "record Prometheus metrics for backend calls")
	flags.Int("timeout", 0, "chat completion timeout in seconds (0 = default)")

	for key, flag := range map[string]string{
		appconfig.KeyHost:    "host",
		appconfig.KeyBackend: "backend",
		appconfig.KeyDebug:   "debug",
		appconfig.KeyLogFile: "logFile",
		appconfig.KeyMetrics: "metrics",
		appconfig.KeyTimeout: "timeout",
	} {
		_ = a.viper.BindPFlag(key, flags.Lookup(flag))
	}

	root.AddCommand(
		a.newDetectCmd(),
		a.newModelsCmd(),
		a.newSelectCmd(),
		a.newChatCmd(),
		a.newShowCmd(),
		newCommandsCmd(root),
	)
	return root
}

func (a *app) loadConfig() error {
	cfg, err := appconfig.Load(a.viper, a.cfgFile)
	if err != nil {
		return err
	}
	a.config = &cfg

	if err := logging.Init(cfg.LogFile, cfg.Debug); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if cfg.ConfigPath == "" {
		logging.LogDebug("no config file at %s; using environment only", a.cfgFile)
	}
	return nil
}

func (a *app) bootstrapper() *bootstrap.Bootstrapper {
	return bootstrap.New(a.config)
}

// Execute runs the command tree and exits non-zero on error.
func Execute() {
	defer logging.Close()
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(root.ErrOrStderr(), errorText(err))
		logging.Close()
		os.Exit(1)
	}
}

// SetVersionInfo allows the main package to inject build-time variables.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}
