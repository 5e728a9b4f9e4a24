// internal/chat/chat.go
// Package chat runs the line-oriented terminal chat loop on top of a
// bootstrapped BackendClient.
package chat

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"

	"github.com/mwiater/llmbridge/internal/logging"
	"github.com/mwiater/llmbridge/internal/models"
	"github.com/mwiater/llmbridge/internal/providers"
	"github.com/mwiater/llmbridge/internal/util"
)

var (
	bannerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	modelStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	replyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	faintStyle  = lipgloss.NewStyle().Faint(true)

	errorLine = color.New(color.FgRed).SprintFunc()
	okLine    = color.New(color.FgGreen).SprintFunc()
)

const replyWidth = 100

var examplePrompts = []string{
	"Write a Go function to sort a slice",
	"Tell me a creative story about space",
	"Explain quantum computing",
	"Solve this math problem: 3x + 5 = 14",
}

// Session holds one terminal conversation. Each user line is sent as an
// independent single-turn completion.
type Session struct {
	Client  providers.BackendClient
	Model   models.Descriptor
	Options *providers.RequestOptions
	In      io.Reader
	Out     io.Writer
}

// Run reads lines from In until quit, exit, EOF or ctx ends. Backend errors
// are printed and the loop continues.
func (s *Session) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(s.In)
	s.printBanner()

	for {
		fmt.Fprint(s.Out, "\nYou: ")
		if !scanner.Scan() {
			fmt.Fprintln(s.Out)
			return scanner.Err()
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		line := strings.TrimSpace(scanner.Text())
		command, arg, _ := strings.Cut(line, " ")
		switch strings.ToLower(command) {
		case "":
			fmt.Fprintln(s.Out, "Please enter a prompt!")
			continue
		case "quit", "exit":
			fmt.Fprintln(s.Out, "\nGoodbye!")
			return nil
		case "help":
			s.printHelp()
			continue
		case "models":
			if arg == "" {
				s.chooseModel(ctx, scanner)
				continue
			}
		case "system":
			if arg != "" {
				s.Client.SetSystemPrompt(strings.TrimSpace(arg))
				fmt.Fprintln(s.Out, okLine("System prompt updated."))
				continue
			}
		}

		s.send(ctx, line)
	}
}

func (s *Session) send(ctx context.Context, prompt string) {
	fmt.Fprintf(s.Out, "\nUsing model: %s\n", modelStyle.Render(s.Model.Name))
	fmt.Fprintln(s.Out, faintStyle.Render("Generating response..."))

	result, err := s.Client.ChatCompletion(ctx, providers.ChatRequest{
		Message: prompt,
		Model:   s.Model,
		Options: s.Options,
	})
	if err != nil {
		logging.LogError(err, "chat completion with %s failed", s.Model.Name)
		fmt.Fprintln(s.Out, errorLine("An error occurred: "+describe(err)))
		return
	}

	fmt.Fprintf(s.Out, "\nAI: %s\n", replyStyle.Render(util.WrapToWidth(result.Content, replyWidth)))
	fmt.Fprintf(s.Out, "Response time: %dms\n", result.ElapsedMillis)
	fmt.Fprintln(s.Out, "\n"+strings.Repeat("=", 50))
}

// chooseModel lists the models and reads the next line as the new model
// name. An empty line keeps the current model.
func (s *Session) chooseModel(ctx context.Context, scanner *bufio.Scanner) {
	list, err := s.Client.ListModels(ctx)
	if err != nil {
		fmt.Fprintln(s.Out, errorLine("Could not list models: "+describe(err)))
		return
	}
	fmt.Fprintln(s.Out, bannerStyle.Render("\n=== Available Models ==="))
	for _, m := range list {
		fmt.Fprintf(s.Out, "- %s\n", m)
	}

	fmt.Fprint(s.Out, "\nEnter model name or press Enter to keep current model: ")
	if !scanner.Scan() {
		return
	}
	name := strings.TrimSpace(scanner.Text())
	if name == "" {
		return
	}
	for _, m := range list {
		if m.Name == name {
			s.Model = m
			fmt.Fprintf(s.Out, "\nSwitched to model: %s\n", modelStyle.Render(m.Name))
			return
		}
	}
	fmt.Fprintln(s.Out, errorLine(fmt.Sprintf("Model %s is not served by %s; keeping %s.", name, s.Client.Host(), s.Model.Name)))
}

func (s *Session) printBanner() {
	fmt.Fprintln(s.Out, bannerStyle.Render("=== AI Chat Terminal ==="))
	fmt.Fprintf(s.Out, "Backend: %s at %s\n", s.Client.Kind(), s.Client.Host())
	fmt.Fprintf(s.Out, "Model:   %s\n", modelStyle.Render(s.Model.String()))
	fmt.Fprintln(s.Out, "Type 'quit' or 'exit' to end the conversation")
	fmt.Fprintln(s.Out, "Type 'help' to see example prompts")
	fmt.Fprintln(s.Out, "Type 'models' to see and select available models")
	fmt.Fprintln(s.Out, "Type 'system <text>' to set a standing system prompt")
}

func (s *Session) printHelp() {
	fmt.Fprintln(s.Out, "\nExample prompts:")
	for i, p := range examplePrompts {
		fmt.Fprintf(s.Out, "%d. %s\n", i+1, p)
	}
}

// describe shortens well-known errors for the terminal; the full chain goes
// to the log.
func describe(err error) string {
	switch {
	case errors.Is(err, providers.ErrValidation):
		return err.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return "the backend did not answer in time"
	default:
		return util.TruncateRunes(err.Error(), 300)
	}
}
