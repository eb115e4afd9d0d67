package chord

import (
	"strings"

	"github.com/dshills/keychord/internal/key"
)

// Chord is an unordered set of key ids.
type Chord []string

// Chain is an ordered sequence of chords.
type Chain []Chord

// Clone returns a copy of the chord.
func (c Chord) Clone() Chord {
	if c == nil {
		return Chord{}
	}
	return append(Chord{}, c...)
}

// String renders the chord as "A+B".
func (c Chord) String() string {
	return strings.Join(c, "+")
}

// Clone returns a deep copy of the chain.
func (c Chain) Clone() Chain {
	out := make(Chain, len(c))
	for i, ch := range c {
		out[i] = ch.Clone()
	}
	return out
}

// Last returns the last chord, or nil for an empty chain.
func (c Chain) Last() Chord {
	if len(c) == 0 {
		return nil
	}
	return c[len(c)-1]
}

// IsIdle reports whether the chain holds no keys at all.
func (c Chain) IsIdle() bool {
	for _, ch := range c {
		if len(ch) > 0 {
			return false
		}
	}
	return true
}

// String renders the chain as "A+B C".
func (c Chain) String() string {
	parts := make([]string, len(c))
	for i, ch := range c {
		parts[i] = ch.String()
	}
	return strings.Join(parts, " ")
}

// Raw returns the chain as plain nested slices.
func (c Chain) Raw() [][]string {
	out := make([][]string, len(c))
	for i, ch := range c {
		out[i] = append([]string{}, ch...)
	}
	return out
}

// FromRaw builds a chain from plain nested slices.
func FromRaw(raw [][]string) Chain {
	out := make(Chain, len(raw))
	for i, ch := range raw {
		out[i] = append(Chord{}, ch...)
	}
	return out
}

// Parse parses "Control+KeyK Control+KeyC" into a chain. Chords are separated
// by whitespace and keys within a chord by "+".
func Parse(s string) Chain {
	fields := strings.Fields(s)
	out := make(Chain, 0, len(fields))
	for _, f := range fields {
		var c Chord
		for _, id := range strings.Split(f, "+") {
			if id = strings.TrimSpace(id); id != "" {
				c = append(c, id)
			}
		}
		out = append(out, c)
	}
	return out
}

func same(a, b string, reg *key.Registry, allowVariants bool) bool {
	if a == b {
		return true
	}
	return allowVariants && reg != nil && reg.Equivalent(a, b)
}

// ChordContainsKey reports whether the chord holds id, honoring variants
// when allowVariants is set.
func ChordContainsKey(c Chord, id string, reg *key.Registry, allowVariants bool) bool {
	for _, k := range c {
		if same(k, id, reg, allowVariants) {
			return true
		}
	}
	return false
}

// ContainsKey reports whether any chord of the chain holds id.
func ContainsKey(chain Chain, id string, reg *key.Registry, allowVariants bool) bool {
	for _, c := range chain {
		if ChordContainsKey(c, id, reg, allowVariants) {
			return true
		}
	}
	return false
}

// DedupeKeys collapses ids that are equal or variants of each other,
// keeping the first occurrence.
func DedupeKeys(c Chord, reg *key.Registry) Chord {
	out := make(Chord, 0, len(c))
	for _, id := range c {
		if !ChordContainsKey(out, id, reg, true) {
			out = append(out, id)
		}
	}
	return out
}

// RemoveKeys returns the multiset difference c - subtrahend: the keys still
// missing from subtrahend to complete c.
func RemoveKeys(c, subtrahend Chord, reg *key.Registry, allowVariants bool) Chord {
	out := c.Clone()
	for _, id := range subtrahend {
		for i, k := range out {
			if same(k, id, reg, allowVariants) {
				out = append(out[:i], out[i+1:]...)
				break
			}
		}
	}
	return out
}

// ChordsEqual reports whether two chords hold the same keys in any order.
func ChordsEqual(a, b Chord, reg *key.Registry, allowVariants bool) bool {
	if len(a) != len(b) {
		return false
	}
	return len(RemoveKeys(a, b, reg, allowVariants)) == 0
}

// EqualOptions configures EqualsKeys.
type EqualOptions struct {
	// AllowVariants matches variant ids as equal.
	AllowVariants bool
}

// EqualsKeys reports whether two chains are equal chord for chord, ignoring
// key order within chords. When length is >= 0 only the first length chords
// are compared, and both chains must have at least that many.
func EqualsKeys(a, b Chain, reg *key.Registry, length int, opts EqualOptions) bool {
	if length < 0 {
		if len(a) != len(b) {
			return false
		}
		length = len(a)
	} else if len(a) < length || len(b) < length {
		return false
	}
	for i := 0; i < length; i++ {
		if !ChordsEqual(a[i], b[i], reg, opts.AllowVariants) {
			return false
		}
	}
	return true
}

// SubsetOptions configures ChainContainsSubset.
type SubsetOptions struct {
	// OnlySubset excludes exact equality.
	OnlySubset bool

	// OnlyPressable requires the candidate to be exactly one keypress away
	// from the chain.
	OnlyPressable bool

	// AllowVariants matches variant ids as equal.
	AllowVariants bool
}

// ChainContainsSubset reports whether candidate is a (partial) prefix of
// chain: every candidate chord before the last must equal the chain's chord
// at the same position, and the last candidate chord must be contained in
// the corresponding chain chord.
func ChainContainsSubset(chain, candidate Chain, reg *key.Registry, opts SubsetOptions) bool {
	if len(candidate) > len(chain) {
		return false
	}
	if len(candidate) == 0 {
		if opts.OnlyPressable {
			return len(chain) == 1 && len(chain[0]) == 1
		}
		return !(opts.OnlySubset && len(chain) == 0)
	}

	last := len(candidate) - 1
	if !EqualsKeys(chain, candidate, reg, last, EqualOptions{AllowVariants: opts.AllowVariants}) {
		return false
	}

	target := chain[last]
	partial := candidate[last]
	if len(RemoveKeys(partial, target, reg, opts.AllowVariants)) != 0 {
		return false
	}
	gap := RemoveKeys(target, partial, reg, opts.AllowVariants)

	equal := len(gap) == 0 && len(candidate) == len(chain)
	if opts.OnlySubset && equal {
		return false
	}
	if opts.OnlyPressable {
		return len(candidate) == len(chain) && len(gap) == 1
	}
	return true
}
