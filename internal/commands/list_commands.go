// internal/commands/list_commands.go
package llmbridge

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

// newCommandsCmd implements 'commands', which prints the available commands
// and subcommands in a hierarchical, indented, two-column format.
func newCommandsCmd(root *cobra.Command) *cobra.Command {
	return &cobra.Command{
		Use:         "commands",
		Short:       "List all commands and subcommands in two columns",
		Annotations: map[string]string{skipConfig: "true"},
		Run: func(cmd *cobra.Command, args []string) {
			listCommands(cmd.OutOrStdout(), root)
		},
	}
}

// commandInfo holds the path and description of a command for display.
type commandInfo struct {
	path        string
	description string
}

func listCommands(out io.Writer, root *cobra.Command) {
	var rows []commandInfo
	width := 0
	for _, data := range collectCommandData(root, "", "") {
		if strings.Contains(data.path, "completion") || strings.Contains(data.path, " help") {
			continue
		}
		rows = append(rows, data)
		width = max(width, len(data.path))
	}

	fmt.Fprintln(out, "Commands and Subcommands:")
	for _, data := range rows {
		fmt.Fprintf(out, "  %s%s%s\n", data.path, strings.Repeat(" ", width-len(data.path)+2), data.description)
	}
}

// collectCommandData walks the command tree and returns a flattened slice of
// indented path/description pairs.
func collectCommandData(cmd *cobra.Command, currentPath, indent string) []commandInfo {
	fullPath := cmd.Name()
	if currentPath != "" {
		fullPath = currentPath + " " + cmd.Name()
	}

	all := []commandInfo{{path: indent + fullPath, description: cmd.Short}}
	for _, sub := range cmd.Commands() {
		all = append(all, collectCommandData(sub, fullPath, indent+"  ")...)
	}
	return all
}
