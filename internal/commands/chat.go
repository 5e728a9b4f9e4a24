// internal/commands/chat.go
package llmbridge

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/mwiater/llmbridge/internal/chat"
	"github.com/mwiater/llmbridge/internal/metrics"
	"github.com/mwiater/llmbridge/internal/providers"
	"github.com/mwiater/llmbridge/internal/util"
)

type chatOptions struct {
	model       string
	prompt      string
	system      string
	maxTokens   int
	temperature float64
	metricsAddr string
}

// newChatCmd implements 'chat'. With --prompt it answers once and exits;
// otherwise it starts the terminal chat loop.
func (a *app) newChatCmd() *cobra.Command {
	var opts chatOptions
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start a chat session",
		Long:  `The 'chat' command bootstraps a client, picks a model and either answers a single --prompt or starts an interactive chat session.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.metricsAddr != "" {
				a.config.Metrics = true
				ctx, cancel := context.WithCancel(cmd.Context())
				defer cancel()
				ready, done := metrics.Serve(ctx, opts.metricsAddr, prometheus.DefaultGatherer)
				select {
				case addr := <-ready:
					fmt.Fprintf(cmd.ErrOrStderr(), "%s http://%s/metrics\n", labelStyle.Render("metrics:"), addr)
				case err := <-done:
					return fmt.Errorf("metrics endpoint: %w", err)
				}
				cmd.SetContext(ctx)
			}

			res, err := a.bootstrapper().Run(cmd.Context(), opts.model, opts.prompt)
			if err != nil {
				return err
			}
			if opts.system != "" {
				res.Client.SetSystemPrompt(opts.system)
			}

			requestOpts := &providers.RequestOptions{}
			if cmd.Flags().Changed("max-tokens") {
				requestOpts.MaxTokens = providers.Int(opts.maxTokens)
			}
			if cmd.Flags().Changed("temperature") {
				requestOpts.Temperature = providers.Float(opts.temperature)
			}
			if err := requestOpts.Validate(); err != nil {
				return err
			}

			if opts.prompt == "" {
				session := &chat.Session{
					Client:  res.Client,
					Model:   res.Model,
					Options: requestOpts,
					In:      a.stdin,
					Out:     cmd.OutOrStdout(),
				}
				return session.Run(cmd.Context())
			}

			result, err := res.Client.ChatCompletion(cmd.Context(), providers.ChatRequest{
				Message: opts.prompt,
				Model:   res.Model,
				Options: requestOpts,
			})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n\n", labelStyle.Render("model:"), valueStyle.Render(res.Model.Name))
			fmt.Fprintln(out, util.WrapToWidth(result.Content, 100))
			fmt.Fprintf(out, "\n%s\n", labelStyle.Render(fmt.Sprintf("Response time: %dms", result.ElapsedMillis)))
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&opts.model, "model", "", "preferred model name")
	flags.StringVarP(&opts.prompt, "prompt", "p", "", "answer this prompt once and exit")
	flags.StringVar(&opts.system, "system", "", "system prompt for the session")
	flags.IntVar(&opts.maxTokens, "max-tokens", 0, "maximum tokens to generate")
	flags.Float64Var(&opts.temperature, "temperature", 0, "sampling temperature in [0,1]")
	flags.StringVar(&opts.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while chatting, e.g. :9100")
	return cmd
}
