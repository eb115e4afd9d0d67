package manager

import (
	"time"

	"github.com/dshills/keychord/internal/condition"
	"github.com/dshills/keychord/internal/errs"
	"github.com/dshills/keychord/internal/logging"
)

// DefaultReleaseTimeout is the default time after which a key that received
// no keyup is released.
const DefaultReleaseTimeout = 5 * time.Second

// Stopper cancels a scheduled function. *time.Timer satisfies it.
type Stopper interface {
	Stop() bool
}

// AfterFunc schedules f to run once after d.
type AfterFunc func(d time.Duration, f func()) Stopper

// ErrorFunc receives runtime errors that have no caller to return to, such
// as ambiguous matches or unknown key events. Raw is the host event that
// caused the error, if any.
type ErrorFunc func(m *Manager, err error, raw any)

// Options configures a Manager.
type Options struct {
	// Evaluator evaluates shortcut and command conditions.
	// Default: condition.ExprEvaluator.
	Evaluator condition.Evaluator

	// Equaler compares conditions for conflict detection.
	// Default: condition.TextEquals.
	Equaler condition.Equaler

	// Stringifier renders keys and chains in logged errors.
	// Default: errs.PlainStringifier.
	Stringifier errs.Stringifier

	// OnError receives runtime errors. Default: log at warn level.
	OnError ErrorFunc

	// ReleaseTimeout releases a key that stays pressed this long without
	// a keyup. Zero disables release timers.
	ReleaseTimeout time.Duration

	// AfterFunc schedules release timers. Default: time.AfterFunc.
	AfterFunc AfterFunc

	// IgnoreModifierConflicts disables the bare-modifier prefix rule of
	// conflict detection.
	IgnoreModifierConflicts bool

	// IgnoreChainConflicts makes only equal chains conflict.
	IgnoreChainConflicts bool

	// UseContextInConflictCheck evaluates conditions against the current
	// context instead of comparing their text.
	UseContextInConflictCheck bool

	// Logger receives diagnostic output. Default: logging.Null().
	Logger *logging.Logger
}

// DefaultOptions returns the default options.
func DefaultOptions() Options {
	return Options{
		Evaluator:      condition.ExprEvaluator{},
		Equaler:        condition.TextEquals,
		Stringifier:    errs.PlainStringifier{},
		ReleaseTimeout: DefaultReleaseTimeout,
		AfterFunc:      timeAfterFunc,
		Logger:         logging.Null(),
	}
}

func timeAfterFunc(d time.Duration, f func()) Stopper {
	return time.AfterFunc(d, f)
}

// withDefaults fills unset fields.
func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.Evaluator == nil {
		o.Evaluator = def.Evaluator
	}
	if o.Equaler == nil {
		o.Equaler = def.Equaler
	}
	if o.Stringifier == nil {
		o.Stringifier = def.Stringifier
	}
	if o.AfterFunc == nil {
		o.AfterFunc = def.AfterFunc
	}
	if o.Logger == nil {
		o.Logger = def.Logger
	}
	return o
}
