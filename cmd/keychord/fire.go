package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/keychord/internal/command"
	"github.com/dshills/keychord/internal/emulator"
	"github.com/dshills/keychord/internal/manager"
)

var (
	flagNative  []string
	flagFireCtx []string
)

var fireCmd = &cobra.Command{
	Use:   "fire <file> <script>",
	Short: "Emulate input and print command executions",
	Long: `Emulate input against the file's shortcuts and print every command
execution and runtime error.

The script is a whitespace-separated list of tokens: KeyA presses and
releases, KeyA+ presses, KeyA- releases, 0 to 5 are mouse buttons and
wheelUp/wheelDown are wheel ticks. Use --native to report ids as natively
active (held modifiers, toggles that are on).`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFire(cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0], args[1], flagNative, flagFireCtx)
	},
}

func init() {
	fireCmd.Flags().StringSliceVarP(&flagNative, "native", "n", nil, "Ids to report as natively active (comma separated)")
	fireCmd.Flags().StringArrayVarP(&flagFireCtx, "context", "c", nil, "Context entry (name or name=value), can be repeated")
}

func runFire(stdout, stderr io.Writer, path, script string, native, ctxEntries []string) error {
	so := sessionOptions{
		Exec: func(ctx command.ExecuteContext) {
			dir := "keyup"
			if ctx.IsKeydown {
				dir = "keydown"
			}
			fmt.Fprintf(stdout, "%s %s (%v)\n", dir, ctx.Command.Name, ctx.Shortcut)
		},
		OnError: func(_ *manager.Manager, err error, _ any) {
			fmt.Fprintf(stdout, "error: %s\n", describe(err))
		},
	}
	if len(ctxEntries) > 0 {
		so.Context = parseContext(ctxEntries)
	}
	s, err := openSession(path, stderr, so)
	if err != nil {
		return err
	}
	defer s.Close()
	for _, err := range splitErrors(s.loadErr) {
		fmt.Fprintf(stderr, "warning: %s\n", describe(err))
	}

	if err := emulator.New(s.m).Fire(script, native...); err != nil {
		return err
	}
	st := s.m.State()
	fmt.Fprintf(stdout, "chain: [%s]\n", strings.TrimSpace(st.Chain.String()))
	return nil
}
