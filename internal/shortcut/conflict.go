package shortcut

import (
	"github.com/dshills/keychord/internal/chord"
	"github.com/dshills/keychord/internal/condition"
	"github.com/dshills/keychord/internal/key"
)

// ConflictOptions configures DoesShortcutConflict.
type ConflictOptions struct {
	// Context, when HasContext is set, is used to evaluate both shortcuts'
	// conditions: they conflict only if both currently hold.
	Context    any
	HasContext bool

	// Evaluator evaluates conditions when HasContext is set.
	// Defaults to condition.Always.
	Evaluator condition.Evaluator

	// Equaler compares conditions when there is no context.
	// Defaults to condition.TextEquals.
	Equaler condition.Equaler

	// IgnoreModifierConflicts disables the bare-modifier prefix rule.
	IgnoreModifierConflicts bool

	// IgnoreChainConflicts disables every prefix rule: only equal chains
	// conflict.
	IgnoreChainConflicts bool
}

// DoesShortcutConflict reports whether a and b cannot coexist. The relation
// is symmetric.
//
// Two shortcuts conflict when they are the same shortcut, or when neither is
// marked ForceUnequal, their conditions may hold together, and either their
// chains are equal chord for chord or one chain runs into the other: they
// agree on every chord up to the shorter chain's end, or diverge at a chord
// where one side is only modifiers that the other side also holds there.
func DoesShortcutConflict(a, b *Shortcut, reg *key.Registry, opts ConflictOptions) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.ForceUnequal || b.ForceUnequal {
		return false
	}

	if opts.HasContext {
		eval := opts.Evaluator
		if eval == nil {
			eval = condition.Always
		}
		if !eval.Evaluate(a.Condition, opts.Context) || !eval.Evaluate(b.Condition, opts.Context) {
			return false
		}
	} else {
		eq := opts.Equaler
		if eq == nil {
			eq = condition.TextEquals
		}
		if !eq.Equal(a.Condition, b.Condition) {
			return false
		}
	}

	if chord.EqualsKeys(a.Chain, b.Chain, reg, -1, chord.EqualOptions{AllowVariants: true}) {
		return true
	}
	if opts.IgnoreChainConflicts {
		return false
	}

	shared := min(len(a.Chain), len(b.Chain))
	for i := 0; i < shared; i++ {
		ca, cb := a.Chain[i], b.Chain[i]
		if chord.ChordsEqual(ca, cb, reg, true) {
			if i == shared-1 {
				return true
			}
			continue
		}
		if opts.IgnoreModifierConflicts {
			return false
		}
		return modifierSubset(ca, cb, reg) || modifierSubset(cb, ca, reg)
	}
	return false
}

// modifierSubset reports whether sub is made only of modifiers that super
// also holds.
func modifierSubset(sub, super chord.Chord, reg *key.Registry) bool {
	if len(sub) == 0 {
		return false
	}
	for _, id := range sub {
		if !reg.IsModifierID(id) {
			return false
		}
		if !chord.ChordContainsKey(super, id, reg, true) {
			return false
		}
	}
	return true
}

// Pair is two conflicting shortcuts.
type Pair struct {
	A, B *Shortcut
}

// Conflicts returns every conflicting pair among the given shortcuts,
// in registration order.
func Conflicts(shortcuts []*Shortcut, reg *key.Registry, opts ConflictOptions) []Pair {
	var out []Pair
	for i := 0; i < len(shortcuts); i++ {
		for j := i + 1; j < len(shortcuts); j++ {
			if DoesShortcutConflict(shortcuts[i], shortcuts[j], reg, opts) {
				out = append(out, Pair{A: shortcuts[i], B: shortcuts[j]})
			}
		}
	}
	return out
}
