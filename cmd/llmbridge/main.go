// cmd/llmbridge/main.go
package main

import (
	cmd "github.com/mwiater/llmbridge/internal/commands"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// main starts the llmbridge CLI by delegating to the cobra root command.
func main() {
	cmd.SetVersionInfo(version, commit, date)
	cmd.Execute()
}
