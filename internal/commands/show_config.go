// internal/commands/show_config.go
package llmbridge

import (
	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"

	"github.com/mwiater/llmbridge/internal/appconfig"
)

// newShowCmd groups the commands that display resources.
func (a *app) newShowCmd() *cobra.Command {
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Group commands for displaying resources",
	}
	showCmd.AddCommand(a.newShowConfigCmd())
	return showCmd
}

// newShowConfigCmd implements 'show config', which displays the effective
// configuration after file, environment and flag overrides.
func (a *app) newShowConfigCmd() *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show config settings",
		Long:  `Show the effective configuration after the config file, LLMBRIDGE_* environment variables and flags are applied. The bearer token is masked.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if raw {
				_, err := pp.Fprintln(cmd.OutOrStdout(), a.config.Masked())
				return err
			}
			appconfig.ShowConfig(cmd.OutOrStdout(), a.config)
			return nil
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "dump the configuration struct")
	return cmd
}
