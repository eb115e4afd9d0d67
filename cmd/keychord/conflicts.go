package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/keychord/internal/condition"
	"github.com/dshills/keychord/internal/config"
	"github.com/dshills/keychord/internal/errs"
)

var flagContext []string

var conflictsCmd = &cobra.Command{
	Use:   "conflicts <file>",
	Short: "List conflicting shortcut pairs",
	Long: `List every pair of shortcuts that cannot coexist.

A shortcut that conflicts with an earlier one is rejected on load; each
rejection is reported as a pair. With --context, conditions are evaluated
against the given context instead of being compared textually: name sets a
flag, name=value sets a value.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConflicts(cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0], flagContext)
	},
}

func init() {
	conflictsCmd.Flags().StringArrayVarP(&flagContext, "context", "c", nil, "Context entry (name or name=value), can be repeated")
}

// parseContext builds condition variables from name and name=value entries.
func parseContext(entries []string) *condition.Vars {
	vars := condition.NewVars()
	for _, e := range entries {
		if name, value, ok := strings.Cut(e, "="); ok {
			vars.Values[strings.TrimSpace(name)] = strings.TrimSpace(value)
			continue
		}
		vars.Flags[strings.TrimSpace(e)] = true
	}
	return vars
}

func runConflicts(stdout, stderr io.Writer, path string, ctxEntries []string) error {
	so := sessionOptions{}
	if len(ctxEntries) > 0 {
		so.Context = parseContext(ctxEntries)
		so.Tweak = func(c *config.Config) {
			c.Manager.UseContextInConflictCheck = true
		}
	}
	s, err := openSession(path, stderr, so)
	if err != nil {
		return err
	}
	defer s.Close()

	pairs, other := 0, 0
	for _, err := range splitErrors(s.loadErr) {
		var e *errs.Error
		if errors.As(err, &e) && e.Code == errs.DuplicateShortcut && len(e.Shortcuts) == 2 {
			fmt.Fprintf(stdout, "%v <> %v\n", e.Shortcuts[0], e.Shortcuts[1])
			pairs++
			continue
		}
		fmt.Fprintf(stdout, "error: %s\n", describe(err))
		other++
	}
	for _, p := range s.m.Conflicts() {
		fmt.Fprintf(stdout, "%s <> %s\n", p.A, p.B)
		pairs++
	}
	fmt.Fprintf(stdout, "%d conflicts\n", pairs)
	if pairs > 0 || other > 0 {
		return errInvalid
	}
	return nil
}
