package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// errInvalid signals that a report found problems; the report itself has
// already been printed.
var errInvalid = errors.New("configuration has errors")

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Load a file and report every invalid entry and conflict",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate(cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0])
	},
}

func runValidate(stdout, stderr io.Writer, path string) error {
	s, err := openSession(path, stderr, sessionOptions{})
	if err != nil {
		return err
	}
	defer s.Close()
	return report(stdout, s)
}

// report prints load errors and conflicts, then a summary line.
func report(w io.Writer, s *session) error {
	problems := 0
	for _, err := range splitErrors(s.loadErr) {
		fmt.Fprintf(w, "error: %s\n", describe(err))
		problems++
	}
	// Conflicts only remain when conflict checks were relaxed on load.
	for _, p := range s.m.Conflicts() {
		fmt.Fprintf(w, "conflict: %s <> %s\n", p.A, p.B)
		problems++
	}
	fmt.Fprintf(w, "%d keys, %d commands, %d shortcuts loaded, %d problems\n",
		len(s.m.Keys()), len(s.m.Commands()), len(s.m.Shortcuts()), problems)
	if problems > 0 {
		return errInvalid
	}
	return nil
}
