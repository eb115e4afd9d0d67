// Package logging provides the leveled, field-carrying logger used across
// keychord.
//
// Loggers derived with WithField share their parent's sink: level, output
// and the disabled switch apply to the whole family.
package logging

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// Level is the severity of a log line.
type Level int

// Levels, lowest first.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR"}

func (l Level) String() string {
	if l < LevelDebug || int(l) >= len(levelNames) {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// ParseLevel parses a level name case-insensitively. "warning" is accepted
// for LevelWarn; anything unknown is LevelInfo.
func ParseLevel(s string) Level {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "WARNING" {
		return LevelWarn
	}
	for i, name := range levelNames {
		if name == s {
			return Level(i)
		}
	}
	return LevelInfo
}

// sink is the state shared by a logger and everything derived from it.
type sink struct {
	mu       sync.Mutex
	out      io.Writer
	level    Level
	prefix   string
	disabled bool
}

// Logger writes leveled lines with attached fields.
type Logger struct {
	s *sink

	// fields is rendered once, sorted by key, as " {k=v, ...}".
	fields map[string]any
	suffix string
}

// Config configures New.
type Config struct {
	Level Level
	// Output defaults to os.Stderr.
	Output io.Writer
	Prefix string
}

// DefaultConfig logs info and above to stderr.
func DefaultConfig() Config {
	return Config{Level: LevelInfo, Output: os.Stderr, Prefix: "keychord"}
}

// New creates a logger.
func New(cfg Config) *Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}
	return &Logger{s: &sink{out: cfg.Output, level: cfg.Level, prefix: cfg.Prefix}}
}

// Null returns a logger that discards everything.
func Null() *Logger {
	return &Logger{s: &sink{out: io.Discard, disabled: true}}
}

// WithField returns a child logger with key set.
func (l *Logger) WithField(key string, value any) *Logger {
	return l.WithFields(map[string]any{key: value})
}

// WithFields returns a child logger carrying the parent's fields plus
// fields. The parent is unchanged.
func (l *Logger) WithFields(fields map[string]any) *Logger {
	merged := make(map[string]any, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &Logger{s: l.s, fields: merged, suffix: renderFields(merged)}
}

// WithComponent sets the component field.
func (l *Logger) WithComponent(component string) *Logger {
	return l.WithField("component", component)
}

func renderFields(fields map[string]any) string {
	if len(fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%v", k, fields[k])
	}
	return " {" + strings.Join(parts, ", ") + "}"
}

// SetLevel sets the minimum level for the logger family.
func (l *Logger) SetLevel(level Level) {
	l.s.mu.Lock()
	l.s.level = level
	l.s.mu.Unlock()
}

// Level returns the minimum level.
func (l *Logger) Level() Level {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return l.s.level
}

// SetOutput redirects the logger family.
func (l *Logger) SetOutput(w io.Writer) {
	l.s.mu.Lock()
	l.s.out = w
	l.s.mu.Unlock()
}

// Disable silences the logger family until Enable.
func (l *Logger) Disable() {
	l.s.mu.Lock()
	l.s.disabled = true
	l.s.mu.Unlock()
}

// Enable undoes Disable.
func (l *Logger) Enable() {
	l.s.mu.Lock()
	l.s.disabled = false
	l.s.mu.Unlock()
}

func (l *Logger) Debug(msg string, args ...any) { l.log(LevelDebug, msg, args) }
func (l *Logger) Info(msg string, args ...any)  { l.log(LevelInfo, msg, args) }
func (l *Logger) Warn(msg string, args ...any)  { l.log(LevelWarn, msg, args) }
func (l *Logger) Error(msg string, args ...any) { l.log(LevelError, msg, args) }

// log formats msg with args when there are any, so a message containing a
// literal % is safe to pass alone.
func (l *Logger) log(level Level, msg string, args []any) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	if l.s.disabled || level < l.s.level {
		return
	}
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	prefix := ""
	if l.s.prefix != "" {
		prefix = l.s.prefix + ": "
	}
	_, _ = fmt.Fprintf(l.s.out, "%s [%s] %s%s%s\n",
		time.Now().Format("2006-01-02T15:04:05.000"), level, prefix, msg, l.suffix)
}
