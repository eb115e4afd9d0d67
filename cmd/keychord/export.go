package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/dshills/keychord/internal/exchange"
)

var flagFormat string

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Write the loaded entries as an exchange document",
	Long: `Load a file and write the entries that loaded as a JSON, TOML or YAML
exchange document on standard output. Entries that fail to load are
reported on standard error and left out.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport(cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0], flagFormat)
	},
}

func init() {
	exportCmd.Flags().StringVarP(&flagFormat, "format", "f", "json", "Output format (json/toml/yaml)")
}

func runExport(stdout, stderr io.Writer, path, format string) error {
	f, err := exchange.ParseFormat(format)
	if err != nil {
		return err
	}
	s, err := openSession(path, stderr, sessionOptions{})
	if err != nil {
		return err
	}
	defer s.Close()
	for _, err := range splitErrors(s.loadErr) {
		s.log.Warn("skipped: %s", describe(err))
	}
	return exchange.Encode(stdout, exchange.Export(s.m), f)
}
