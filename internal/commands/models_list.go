// internal/commands/models_list.go
package llmbridge

import (
	"fmt"

	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"

	"github.com/mwiater/llmbridge/internal/providers"
)

// newModelsCmd groups the model subcommands.
func (a *app) newModelsCmd() *cobra.Command {
	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "Group commands for the models a backend serves",
	}
	modelsCmd.AddCommand(a.newModelsListCmd())
	return modelsCmd
}

// newModelsListCmd implements 'models list', which prints every model the
// configured backend serves with its normalized size.
func (a *app) newModelsListCmd() *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the models served by the configured host",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.bootstrapper().Client(cmd.Context())
			if err != nil {
				return err
			}
			list, err := client.ListModels(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if raw {
				_, err := pp.Fprintln(out, list)
				return err
			}

			fmt.Fprintln(out, nodeStyle.Render(fmt.Sprintf("=== Available Models (%s) ===", client.Kind())))
			fmt.Fprintln(out, labelStyle.Render(providers.HostIdentifier(client.Host())))
			if len(list) == 0 {
				fmt.Fprintln(out, "  (none)")
			}
			for _, m := range list {
				fmt.Fprintf(out, "  >>> %s\n", m)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "dump the descriptors instead of the formatted list")
	return cmd
}
