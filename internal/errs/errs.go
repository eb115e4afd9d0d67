// Package errs defines the classified errors returned and reported by the
// shortcut engine.
//
// Every expected failure is a *Error carrying a Code plus the data a host
// needs to build its own message (key ids, chord index, shortcuts, command
// names). Nothing in the engine panics for expected failures.
//
// Matching is done on the code:
//
//	if errors.Is(err, errs.ErrDuplicateCommand) {
//	    // ...
//	}
package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Code classifies an engine error.
type Code string

const (
	// Uniqueness.
	DuplicateKey      Code = "DUPLICATE_KEY"
	DuplicateCommand  Code = "DUPLICATE_COMMAND"
	DuplicateShortcut Code = "DUPLICATE_SHORTCUT"

	// Referential integrity.
	KeyInUse       Code = "KEY_IN_USE"
	CommandInUse   Code = "COMMAND_IN_USE"
	UnknownKey     Code = "UNKNOWN_KEY"
	UnknownCommand Code = "UNKNOWN_COMMAND"

	// Chain and chord invariants.
	ChordWithDuplicateKey        Code = "CHORD_W_DUPLICATE_KEY"
	ChordWithOnlyModifiers       Code = "CHORD_W_ONLY_MODIFIERS"
	ChordWithMultipleTriggerKeys Code = "CHORD_W_MULTIPLE_TRIGGER_KEYS"
	ChordWithMultipleWheelKeys   Code = "CHORD_W_MULTIPLE_WHEEL_KEYS"
	ImpossibleToggleSequence     Code = "IMPOSSIBLE_TOGGLE_SEQUENCE"

	// Runtime ambiguity, reported through the host error callback.
	MultipleMatchingShortcuts Code = "MULTIPLE_MATCHING_SHORTCUTS"
	NoMatchingShortcut        Code = "NO_MATCHING_SHORTCUT"

	// Adapter failure.
	UnknownKeyEvent Code = "UNKNOWN_KEY_EVENT"

	// Integration misuse.
	CannotSetWhileDisabled Code = "CANNOT_SET_WHILE_DISABLED"
	IncorrectToggleState   Code = "INCORRECT_TOGGLE_STATE"
	InvalidValue           Code = "INVALID_VALUE"
	InvalidKey             Code = "INVALID_KEY"
	GuardRejected          Code = "GUARD_REJECTED"
)

// Sentinels for errors.Is. They match any *Error with the same code.
var (
	ErrDuplicateKey              = &Error{Code: DuplicateKey}
	ErrDuplicateCommand          = &Error{Code: DuplicateCommand}
	ErrDuplicateShortcut         = &Error{Code: DuplicateShortcut}
	ErrKeyInUse                  = &Error{Code: KeyInUse}
	ErrCommandInUse              = &Error{Code: CommandInUse}
	ErrUnknownKey                = &Error{Code: UnknownKey}
	ErrUnknownCommand            = &Error{Code: UnknownCommand}
	ErrChordWithDuplicateKey     = &Error{Code: ChordWithDuplicateKey}
	ErrChordWithOnlyModifiers    = &Error{Code: ChordWithOnlyModifiers}
	ErrChordWithMultipleTriggers = &Error{Code: ChordWithMultipleTriggerKeys}
	ErrChordWithMultipleWheels   = &Error{Code: ChordWithMultipleWheelKeys}
	ErrImpossibleToggleSequence  = &Error{Code: ImpossibleToggleSequence}
	ErrMultipleMatching          = &Error{Code: MultipleMatchingShortcuts}
	ErrNoMatchingShortcut        = &Error{Code: NoMatchingShortcut}
	ErrUnknownKeyEvent           = &Error{Code: UnknownKeyEvent}
	ErrCannotSetWhileDisabled    = &Error{Code: CannotSetWhileDisabled}
	ErrIncorrectToggleState      = &Error{Code: IncorrectToggleState}
	ErrInvalidValue              = &Error{Code: InvalidValue}
	ErrInvalidKey                = &Error{Code: InvalidKey}
	ErrGuardRejected             = &Error{Code: GuardRejected}
)

// Error is a classified engine error.
type Error struct {
	// Code classifies the failure.
	Code Code

	// Keys lists the offending key ids, if any.
	Keys []string

	// Index is the offending chord position, or -1 when not applicable.
	Index int

	// Command names the command involved, if any.
	Command string

	// Shortcuts holds the shortcuts involved (as *shortcut.Shortcut values).
	Shortcuts []any

	// Chain is the offending chain, if any.
	Chain [][]string

	// Detail is a short free-form explanation.
	Detail string

	// Err is the underlying cause.
	Err error
}

// New creates an error with the given code and detail.
func New(code Code, detail string) *Error {
	return &Error{Code: code, Index: -1, Detail: detail}
}

// Newf creates an error with a formatted detail.
func Newf(code Code, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// WithKeys sets the offending key ids.
func (e *Error) WithKeys(ids ...string) *Error {
	e.Keys = append(e.Keys, ids...)
	return e
}

// WithIndex sets the offending chord position.
func (e *Error) WithIndex(i int) *Error {
	e.Index = i
	return e
}

// WithCommand sets the command name.
func (e *Error) WithCommand(name string) *Error {
	e.Command = name
	return e
}

// WithShortcuts records the shortcuts involved.
func (e *Error) WithShortcuts(s ...any) *Error {
	e.Shortcuts = append(e.Shortcuts, s...)
	return e
}

// WithChain records the chain involved.
func (e *Error) WithChain(chain [][]string) *Error {
	e.Chain = chain
	return e
}

// Wrap sets the underlying cause.
func (e *Error) Wrap(err error) *Error {
	e.Err = err
	return e
}

func (e *Error) Error() string {
	return Format(e, nil)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// Stringifier renders key ids and chains for messages.
type Stringifier interface {
	Key(id string) string
	Chain(chain [][]string) string
}

// PlainStringifier renders ids verbatim: chords as "A+B", chains space separated.
type PlainStringifier struct{}

// Key returns the id unchanged.
func (PlainStringifier) Key(id string) string { return id }

// Chain renders a chain like "Ctrl+A B".
func (s PlainStringifier) Chain(chain [][]string) string {
	parts := make([]string, len(chain))
	for i, c := range chain {
		ids := make([]string, len(c))
		for j, id := range c {
			ids[j] = s.Key(id)
		}
		parts[i] = strings.Join(ids, "+")
	}
	return strings.Join(parts, " ")
}

// Format renders err with s. A nil s uses PlainStringifier.
func Format(err error, s Stringifier) string {
	if s == nil {
		s = PlainStringifier{}
	}
	var e *Error
	if !errors.As(err, &e) {
		if err == nil {
			return ""
		}
		return err.Error()
	}

	var sb strings.Builder
	sb.WriteString(string(e.Code))
	if len(e.Keys) > 0 {
		names := make([]string, len(e.Keys))
		for i, id := range e.Keys {
			names[i] = s.Key(id)
		}
		sb.WriteString(" [")
		sb.WriteString(strings.Join(names, ", "))
		sb.WriteString("]")
	}
	if e.Index >= 0 {
		fmt.Fprintf(&sb, " at chord %d", e.Index)
	}
	if e.Command != "" {
		fmt.Fprintf(&sb, " command %q", e.Command)
	}
	if len(e.Chain) > 0 {
		fmt.Fprintf(&sb, " in %q", s.Chain(e.Chain))
	}
	if e.Detail != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Detail)
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}
