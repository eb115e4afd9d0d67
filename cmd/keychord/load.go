package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dshills/keychord/internal/command"
	"github.com/dshills/keychord/internal/config"
	"github.com/dshills/keychord/internal/errs"
	"github.com/dshills/keychord/internal/exchange"
	"github.com/dshills/keychord/internal/logging"
	"github.com/dshills/keychord/internal/manager"
)

// loadConfig reads a TOML configuration file or, for .json/.yaml/.yml, a
// bare exchange document with default settings.
func loadConfig(path string) (*config.Config, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".toml" {
		return config.Load(path)
	}

	f, err := exchange.FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	doc, err := exchange.Unmarshal(data, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	cfg := config.Default()
	cfg.Keys, cfg.Commands, cfg.Shortcuts = doc.Keys, doc.Commands, doc.Shortcuts
	if err := config.NewEnvLoader(config.EnvPrefix).Apply(cfg); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// session is a manager built from a file for one command run.
type session struct {
	cfg     *config.Config
	m       *manager.Manager
	log     *logging.Logger
	closeFn func()

	// loadErr joins the entries that failed to load.
	loadErr error
}

// sessionOptions configures openSession.
type sessionOptions struct {
	// Exec is bound to every command in the file.
	Exec command.ExecuteFunc
	// OnError receives runtime errors.
	OnError manager.ErrorFunc
	// Context is set before the file's entries are loaded.
	Context any
	// Tweak adjusts the configuration before the manager is built.
	Tweak func(*config.Config)
}

// openSession loads path and builds a manager from it.
func openSession(path string, stderr io.Writer, so sessionOptions) (*session, error) {
	cfg, err := loadConfig(path)
	if err != nil {
		return nil, err
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	if so.Tweak != nil {
		so.Tweak(cfg)
	}

	log := cfg.Logger(stderr)
	opts, closeFn, err := cfg.ManagerOptions(log)
	if err != nil {
		return nil, err
	}
	opts.OnError = so.OnError

	bindings := exchange.Bindings{}
	if so.Exec != nil {
		for _, c := range cfg.Commands {
			bindings[c.Name] = so.Exec
		}
	}

	m := manager.New(opts)
	if so.Context != nil {
		if err := m.SetContext(so.Context); err != nil {
			closeFn()
			return nil, err
		}
	}
	loadErr := exchange.Load(m, cfg.Document(), bindings)
	return &session{cfg: cfg, m: m, log: log, closeFn: closeFn, loadErr: loadErr}, nil
}

// Close releases the session's evaluator.
func (s *session) Close() {
	s.m.ForceClear()
	s.closeFn()
}

// splitErrors flattens joined errors.
func splitErrors(err error) []error {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []error
		for _, e := range joined.Unwrap() {
			out = append(out, splitErrors(e)...)
		}
		return out
	}
	return []error{err}
}

// describe renders an error for the terminal, naming the shortcuts a
// classified error involves.
func describe(err error) string {
	msg := err.Error()
	var e *errs.Error
	if errors.As(err, &e) && len(e.Shortcuts) > 0 {
		names := make([]string, len(e.Shortcuts))
		for i, s := range e.Shortcuts {
			names[i] = fmt.Sprint(s)
		}
		msg += " (shortcuts: " + strings.Join(names, "; ") + ")"
	}
	return msg
}
