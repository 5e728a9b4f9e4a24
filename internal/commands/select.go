// internal/commands/select.go
package llmbridge

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newSelectCmd implements 'select', which shows the model bootstrap would
// choose and which rule chose it.
func (a *app) newSelectCmd() *cobra.Command {
	var preferred, prompt string
	cmd := &cobra.Command{
		Use:   "select",
		Short: "Show which model would be chosen for a prompt",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.bootstrapper().Run(cmd.Context(), preferred, prompt)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", labelStyle.Render("backend: "), res.Client.Kind())
			fmt.Fprintf(out, "%s %s\n", labelStyle.Render("model:   "), valueStyle.Render(res.Model.String()))
			fmt.Fprintf(out, "%s %s\n", labelStyle.Render("decision:"), res.Decision)
			return nil
		},
	}
	cmd.Flags().StringVar(&preferred, "model", "", "preferred model name")
	cmd.Flags().StringVar(&prompt, "prompt", "", "prompt used for rule-based selection")
	return cmd
}
