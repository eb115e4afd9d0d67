// Package main is the entry point for the keychord command.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

// Global flags.
var (
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "keychord",
	Short: "Validate and exercise keyboard shortcut definitions",
	Long: `keychord loads keys, commands and shortcuts from a TOML configuration
file or a JSON/YAML/TOML exchange document and checks, converts or drives them.

Examples:
  keychord validate keys.toml                 # Report every invalid entry
  keychord conflicts keys.toml -c editor      # Conflicts while "editor" holds
  keychord fire keys.toml "Ctrl+ KeyS Ctrl-"  # Emulate input, print executions
  keychord export keys.toml -f yaml           # Convert to an exchange document
  keychord watch keys.toml                    # Re-validate on every save
  keychord try keys.toml                      # Press keys in the terminal`,
	Version:       fmt.Sprintf("%s (%s)", version, commit),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug/info/warn/error); overrides the file")

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(conflictsCmd)
	rootCmd.AddCommand(fireCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(tryCmd)
}
