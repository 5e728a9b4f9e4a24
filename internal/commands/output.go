// internal/commands/output.go
package llmbridge

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
)

var (
	nodeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true)
	labelStyle = lipgloss.NewStyle().Faint(true)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))

	failedResult = color.New(color.FgRed).SprintFunc()
)

func errorText(err error) string {
	return failedResult("Error: " + err.Error())
}
