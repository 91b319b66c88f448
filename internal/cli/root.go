// Package cli implements the phigo command tree.
package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// exitBlocked is the exit code for a security-blocked transpilation.
const exitBlocked = 77

var rootCmd = &cobra.Command{
	Use:   "phigo",
	Short: "Symbolic source transpiler with a security gate",
	Long:  "Replaces configured symbols with plain-text equivalents, leaving string\nliterals and comments untouched. Replacements that match the threat\ndenylist abort the run. Exit code 77 indicates a security block.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
