package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dshills/keychord/internal/config"
)

var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Re-validate a file every time it changes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runWatch(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0])
	},
}

func runWatch(ctx context.Context, stdout, stderr io.Writer, path string) error {
	check := func() {
		if err := runValidate(stdout, stderr, path); err != nil && err != errInvalid {
			fmt.Fprintf(stdout, "error: %v\n", err)
		}
	}
	check()

	cfg, err := loadConfig(path)
	if err != nil {
		cfg = config.Default()
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	opts := config.WatchOptions{
		Logger: cfg.Logger(stderr),
		Load:   loadConfig,
	}
	fmt.Fprintf(stdout, "watching %s\n", path)
	return config.Watch(ctx, path, opts, func(*config.Config, error) {
		fmt.Fprintln(stdout, "---")
		check()
	})
}
