// internal/commands/detect.go
package llmbridge

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mwiater/llmbridge/internal/providers"
)

// newDetectCmd implements 'detect', which probes the configured host and
// reports which backend answered.
func (a *app) newDetectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detect",
		Short: "Probe the configured host and print its backend type",
		Long:  `The 'detect' command probes chatbot_api_host the same way bootstrap does and prints ollama, openwebui or unknown.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			b := a.bootstrapper()
			kind := a.config.BackendKind()
			source := "pinned"
			if kind == providers.KindUnknown {
				kind = b.DetectKind(cmd.Context())
				source = "detected"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n",
				nodeStyle.Render(providers.HostIdentifier(a.config.Host)+":"),
				valueStyle.Render(string(kind)),
				labelStyle.Render("("+source+")"))
			if kind == providers.KindUnknown {
				return fmt.Errorf("%w: could not autodetect client type", providers.ErrConfiguration)
			}
			return nil
		},
	}
}
