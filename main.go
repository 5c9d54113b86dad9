// ./main.go
package main

import (
	"github.com/RatnakarVise/db-rule-3320010-assess-llm/cmd"
)

// main is the entry point for the assessment service.
func main() {
	// Execute the root command defined in the cmd package.
	// This handles all command-line parsing, configuration, and execution.
	cmd.Execute()
}
