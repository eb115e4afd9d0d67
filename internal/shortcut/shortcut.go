// Package shortcut provides the shortcut record, its registry and the
// conflict detector.
package shortcut

import (
	"github.com/dshills/keychord/internal/chord"
	"github.com/dshills/keychord/internal/condition"
	"github.com/dshills/keychord/internal/errs"
	"github.com/dshills/keychord/internal/key"
)

// Shortcut binds a chain of chords to a command.
type Shortcut struct {
	// Chain is the sequence of chords that triggers the shortcut.
	Chain chord.Chain

	// Command is the name of the command to run. May be empty.
	Command string

	// Condition must hold for the shortcut to match.
	Condition condition.Condition

	// Enabled shortcuts take part in matching.
	Enabled bool

	// ForceUnequal exempts the shortcut from equality and conflict checks
	// while a multi-step edit is in progress.
	ForceUnequal bool
}

// Option configures a Shortcut created with New.
type Option func(*Shortcut)

// WithCommand sets the command name.
func WithCommand(name string) Option {
	return func(s *Shortcut) {
		s.Command = name
	}
}

// WithCondition sets the condition.
func WithCondition(text string) Option {
	return func(s *Shortcut) {
		s.Condition = condition.New(text)
	}
}

// WithEnabled sets the enabled flag. Shortcuts are enabled by default.
func WithEnabled(enabled bool) Option {
	return func(s *Shortcut) {
		s.Enabled = enabled
	}
}

// WithForceUnequal sets the forceUnequal flag.
func WithForceUnequal(v bool) Option {
	return func(s *Shortcut) {
		s.ForceUnequal = v
	}
}

// New creates a shortcut whose chain is valid against reg.
func New(chain chord.Chain, reg *key.Registry, opts ...Option) (*Shortcut, error) {
	s := &Shortcut{
		Chain:   chain.Clone(),
		Enabled: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := ValidateChain(s.Chain, reg); err != nil {
		return nil, err
	}
	return s, nil
}

// MustNew creates a shortcut and panics on error.
func MustNew(chain chord.Chain, reg *key.Registry, opts ...Option) *Shortcut {
	s, err := New(chain, reg, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

// ValidateChain checks a chain for use in a shortcut: it must be non-empty,
// hold no empty chords and satisfy every chord invariant.
func ValidateChain(chain chord.Chain, reg *key.Registry) error {
	if len(chain) == 0 {
		return errs.New(errs.InvalidValue, "shortcut chain cannot be empty")
	}
	for i, c := range chain {
		if len(c) == 0 {
			return errs.New(errs.InvalidValue, "shortcut chain cannot hold an empty chord").
				WithIndex(i).WithChain(chain.Raw())
		}
	}
	return chord.IsValidChain(chain, reg)
}

// UsesKey reports whether the chain refers to id, one of its variants, or
// one of its toggle sub-states.
func (s *Shortcut) UsesKey(id string, reg *key.Registry) bool {
	if chord.ContainsKey(s.Chain, id, reg, false) {
		return true
	}
	k := reg.Get(id)
	if k == nil {
		return false
	}
	for _, c := range s.Chain {
		for _, kid := range c {
			if k.IsToggleKey() && (kid == k.ToggleOnID || kid == k.ToggleOffID) {
				return true
			}
			// A variant id without its own entry depends on this key.
			if reg.Get(kid) == nil && !reg.IsToggleState(kid) {
				if resolved, ok := reg.Resolve(kid); ok && resolved == id {
					return true
				}
			}
		}
	}
	return false
}

// Clone returns a copy of the shortcut.
func (s *Shortcut) Clone() *Shortcut {
	c := *s
	c.Chain = s.Chain.Clone()
	return &c
}

// String renders the chain and command.
func (s *Shortcut) String() string {
	if s.Command == "" {
		return s.Chain.String()
	}
	return s.Chain.String() + " -> " + s.Command
}
