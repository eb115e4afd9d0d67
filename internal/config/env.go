package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
)

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "KEYCHORD_"

// setter applies one override to a config.
type setter func(c *Config, value string) error

// settings maps setting paths to setters.
var settings = map[string]setter{
	"log.level":                             stringSetter(func(c *Config) *string { return &c.Log.Level }),
	"log.prefix":                            stringSetter(func(c *Config) *string { return &c.Log.Prefix }),
	"manager.release_timeout":               stringSetter(func(c *Config) *string { return &c.Manager.ReleaseTimeout }),
	"manager.evaluator":                     stringSetter(func(c *Config) *string { return &c.Manager.Evaluator }),
	"manager.ignore_modifier_conflicts":     boolSetter(func(c *Config) *bool { return &c.Manager.IgnoreModifierConflicts }),
	"manager.ignore_chain_conflicts":        boolSetter(func(c *Config) *bool { return &c.Manager.IgnoreChainConflicts }),
	"manager.use_context_in_conflict_check": boolSetter(func(c *Config) *bool { return &c.Manager.UseContextInConflictCheck }),
}

func stringSetter(field func(c *Config) *string) setter {
	return func(c *Config, v string) error {
		*field(c) = v
		return nil
	}
}

func boolSetter(field func(c *Config) *bool) setter {
	return func(c *Config, v string) error {
		b, err := parseBool(v)
		if err != nil {
			return err
		}
		*field(c) = b
		return nil
	}
}

// parseBool accepts true/yes/on/1 and false/no/off/0.
func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "on", "1":
		return true, nil
	case "false", "no", "off", "0":
		return false, nil
	default:
		return false, errors.New("not a boolean")
	}
}

// EnvLoader applies configuration overrides from environment variables.
type EnvLoader struct {
	prefix  string            // Environment variable prefix (e.g., "KEYCHORD_")
	mapping map[string]string // Env var -> setting path
	lookup  func(string) (string, bool)
}

// NewEnvLoader creates a loader reading the process environment.
// The prefix should include the trailing underscore (e.g., "KEYCHORD_").
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: defaultEnvMapping(prefix),
		lookup:  os.LookupEnv,
	}
}

// NewEnvLoaderWithLookup creates a loader reading variables from lookup.
func NewEnvLoaderWithLookup(prefix string, lookup func(string) (string, bool)) *EnvLoader {
	l := NewEnvLoader(prefix)
	l.lookup = lookup
	return l
}

// defaultEnvMapping returns the default environment variable mappings.
func defaultEnvMapping(prefix string) map[string]string {
	return map[string]string{
		prefix + "LOG_LEVEL":                     "log.level",
		prefix + "LOG_PREFIX":                    "log.prefix",
		prefix + "RELEASE_TIMEOUT":               "manager.release_timeout",
		prefix + "EVALUATOR":                     "manager.evaluator",
		prefix + "IGNORE_MODIFIER_CONFLICTS":     "manager.ignore_modifier_conflicts",
		prefix + "IGNORE_CHAIN_CONFLICTS":        "manager.ignore_chain_conflicts",
		prefix + "USE_CONTEXT_IN_CONFLICT_CHECK": "manager.use_context_in_conflict_check",
	}
}

// AddMapping adds a custom environment variable mapping.
func (l *EnvLoader) AddMapping(envVar, setting string) {
	l.mapping[envVar] = setting
}

// Apply sets every mapped variable that is present. Empty values are
// treated as set. Errors for all bad values are joined.
func (l *EnvLoader) Apply(c *Config) error {
	names := make([]string, 0, len(l.mapping))
	for env := range l.mapping {
		names = append(names, env)
	}
	sort.Strings(names)

	var errList []error
	for _, env := range names {
		val, ok := l.lookup(env)
		if !ok {
			continue
		}
		path := l.mapping[env]
		set, known := settings[path]
		if !known {
			errList = append(errList, fmt.Errorf("%s: unknown setting %q", env, path))
			continue
		}
		if err := set(c, val); err != nil {
			errList = append(errList, &SettingError{Setting: path, Value: val, Err: fmt.Errorf("%s: %w", env, err)})
		}
	}
	return errors.Join(errList...)
}
