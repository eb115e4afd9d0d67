// Package config loads keychord configuration files.
//
// A configuration file is TOML. Besides the [manager] and [log] sections it
// carries the keys, commands and shortcuts tables in the exchange document
// layout:
//
//	[manager]
//	release_timeout = "5s"
//	evaluator = "lua"
//
//	[log]
//	level = "debug"
//
//	[[keys]]
//	id = "Ctrl"
//	modifier = "native"
//	variants = ["ControlLeft", "ControlRight"]
//
//	[[shortcuts]]
//	keys = "Ctrl+KeyS"
//	command = "save"
//
// Settings can be overridden from the environment with the KEYCHORD_ prefix.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/keychord/internal/condition"
	"github.com/dshills/keychord/internal/exchange"
	"github.com/dshills/keychord/internal/logging"
	"github.com/dshills/keychord/internal/manager"
)

// Evaluator names.
const (
	EvaluatorExpr = "expr"
	EvaluatorLua  = "lua"
)

// Config is a parsed configuration file.
type Config struct {
	Manager   ManagerConfig           `toml:"manager"`
	Log       LogConfig               `toml:"log"`
	Keys      []exchange.KeyData      `toml:"keys"`
	Commands  []exchange.CommandData  `toml:"commands"`
	Shortcuts []exchange.ShortcutData `toml:"shortcuts"`
}

// ManagerConfig holds manager options.
type ManagerConfig struct {
	// ReleaseTimeout is a duration string; "0" disables release timers.
	ReleaseTimeout string `toml:"release_timeout"`

	// Evaluator is "expr" or "lua".
	Evaluator string `toml:"evaluator"`

	IgnoreModifierConflicts   bool `toml:"ignore_modifier_conflicts"`
	IgnoreChainConflicts      bool `toml:"ignore_chain_conflicts"`
	UseContextInConflictCheck bool `toml:"use_context_in_conflict_check"`
}

// LogConfig holds logger options.
type LogConfig struct {
	Level  string `toml:"level"`
	Prefix string `toml:"prefix"`
}

// Default returns the configuration used for settings a file leaves out.
func Default() *Config {
	return &Config{
		Manager: ManagerConfig{
			ReleaseTimeout: manager.DefaultReleaseTimeout.String(),
			Evaluator:      EvaluatorExpr,
		},
		Log: LogConfig{
			Level:  "info",
			Prefix: "keychord",
		},
	}
}

// Load reads the file at path, applies KEYCHORD_ environment overrides and
// validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	cfg, err := Parse(path, data)
	if err != nil {
		return nil, err
	}
	if err := NewEnvLoader(EnvPrefix).Apply(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes TOML data over the defaults. Source names the data in
// errors.
func Parse(source string, data []byte) (*Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		pe := &ParseError{Path: source, Err: err}
		var de *toml.DecodeError
		if errors.As(err, &de) {
			pe.Line, pe.Column = de.Position()
		}
		return nil, pe
	}
	return cfg, nil
}

// Validate checks the [manager] and [log] settings. Keys, commands and
// shortcuts are validated when they are loaded into a manager.
func (c *Config) Validate() error {
	var errList []error
	if _, err := c.ReleaseTimeout(); err != nil {
		errList = append(errList, err)
	}
	switch strings.ToLower(c.Manager.Evaluator) {
	case "", EvaluatorExpr, EvaluatorLua:
	default:
		errList = append(errList, &SettingError{
			Setting: "manager.evaluator",
			Value:   c.Manager.Evaluator,
			Err:     fmt.Errorf("want %q or %q", EvaluatorExpr, EvaluatorLua),
		})
	}
	switch strings.ToLower(strings.TrimSpace(c.Log.Level)) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		errList = append(errList, &SettingError{
			Setting: "log.level",
			Value:   c.Log.Level,
			Err:     errors.New("want debug, info, warn or error"),
		})
	}
	return errors.Join(errList...)
}

// ReleaseTimeout parses manager.release_timeout.
func (c *Config) ReleaseTimeout() (time.Duration, error) {
	s := strings.TrimSpace(c.Manager.ReleaseTimeout)
	if s == "" || s == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err == nil && d < 0 {
		err = errors.New("duration cannot be negative")
	}
	if err != nil {
		return 0, &SettingError{Setting: "manager.release_timeout", Value: c.Manager.ReleaseTimeout, Err: err}
	}
	return d, nil
}

// Document returns the keys, commands and shortcuts tables.
func (c *Config) Document() exchange.Document {
	return exchange.Document{
		Version:   exchange.Version,
		Keys:      c.Keys,
		Commands:  c.Commands,
		Shortcuts: c.Shortcuts,
	}
}

// Logger creates a logger writing to w from the [log] section.
func (c *Config) Logger(w io.Writer) *logging.Logger {
	return logging.New(logging.Config{
		Level:  logging.ParseLevel(c.Log.Level),
		Output: w,
		Prefix: c.Log.Prefix,
	})
}

// ManagerOptions builds manager options from the [manager] section. The
// returned close function releases the condition evaluator.
func (c *Config) ManagerOptions(log *logging.Logger) (manager.Options, func(), error) {
	timeout, err := c.ReleaseTimeout()
	if err != nil {
		return manager.Options{}, nil, err
	}
	opts := manager.DefaultOptions()
	opts.ReleaseTimeout = timeout
	opts.IgnoreModifierConflicts = c.Manager.IgnoreModifierConflicts
	opts.IgnoreChainConflicts = c.Manager.IgnoreChainConflicts
	opts.UseContextInConflictCheck = c.Manager.UseContextInConflictCheck
	if log != nil {
		opts.Logger = log
	}

	closer := func() {}
	if strings.EqualFold(c.Manager.Evaluator, EvaluatorLua) {
		lua := condition.NewLuaEvaluator()
		opts.Evaluator = lua
		closer = lua.Close
	}
	return opts, closer, nil
}

// Build creates a manager from the configuration and loads its document.
// The manager is returned even when some entries fail to load; the error
// joins their failures. Call the close function when done with the manager.
func (c *Config) Build(log *logging.Logger, b exchange.Bindings) (*manager.Manager, func(), error) {
	opts, closer, err := c.ManagerOptions(log)
	if err != nil {
		return nil, nil, err
	}
	m := manager.New(opts)
	return m, closer, exchange.Load(m, c.Document(), b)
}
