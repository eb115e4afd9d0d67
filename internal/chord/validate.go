package chord

import (
	"github.com/dshills/keychord/internal/errs"
	"github.com/dshills/keychord/internal/key"
)

// IsValidChord checks a chord that sits at index in chain. Index may equal
// len(chain) for a chord about to be appended. The returned error is an
// *errs.Error naming the offending keys, or nil.
func IsValidChord(chain Chain, c Chord, index int, reg *key.Registry) error {
	for _, id := range c {
		if !reg.Has(id) {
			if _, ok := reg.Resolve(id); !ok {
				return errs.New(errs.UnknownKey, "key is not registered").
					WithKeys(id).WithIndex(index).WithChain(chain.Raw())
			}
		}
	}

	for i := 0; i < len(c); i++ {
		for j := i + 1; j < len(c); j++ {
			if reg.Equivalent(c[i], c[j]) {
				return errs.New(errs.ChordWithDuplicateKey, "chord repeats a key or one of its variants").
					WithKeys(c[i], c[j]).WithIndex(index).WithChain(chain.Raw())
			}
		}
	}

	var wheels, triggers, modifiers []string
	for _, id := range c {
		if reg.IsWheelID(id) {
			wheels = append(wheels, id)
		}
		if reg.IsModifierID(id) {
			modifiers = append(modifiers, id)
		} else if reg.IsTriggerID(id) {
			triggers = append(triggers, id)
		}
	}
	if len(wheels) > 1 {
		return errs.New(errs.ChordWithMultipleWheelKeys, "chord holds more than one wheel key").
			WithKeys(wheels...).WithIndex(index).WithChain(chain.Raw())
	}
	if len(triggers) > 1 {
		return errs.New(errs.ChordWithMultipleTriggerKeys, "chord holds more than one non-modifier key").
			WithKeys(triggers...).WithIndex(index).WithChain(chain.Raw())
	}

	lastIndex := len(chain) - 1
	if index >= len(chain) {
		lastIndex = index
	}
	if len(c) > 0 && len(modifiers) == len(c) && index < lastIndex {
		return errs.New(errs.ChordWithOnlyModifiers, "only the last chord may consist of modifiers alone").
			WithKeys(modifiers...).WithIndex(index).WithChain(chain.Raw())
	}
	return nil
}

// toggleState tracks which sub-state a toggle may show next.
type toggleState struct {
	canBeOn  bool
	canBeOff bool
}

// ContainsPossibleToggleChords checks that the toggle sub-states demanded by
// the chain can occur in that order.
//
// For every toggle root both flags start true. Observing a sub-state
// requires its flag and narrows the root to the opposite sub-state. A bare
// root in a chord that holds none of its sub-states is a press whose
// resulting state is unknown to the chain, so the flags swap.
func ContainsPossibleToggleChords(chain Chain, reg *key.Registry) error {
	states := make(map[string]*toggleState)
	get := func(root string) *toggleState {
		s, ok := states[root]
		if !ok {
			s = &toggleState{canBeOn: true, canBeOff: true}
			states[root] = s
		}
		return s
	}

	for i, c := range chain {
		seen := make(map[string]bool)
		for _, id := range c {
			root, ok := reg.ToggleRoot(id)
			if !ok {
				continue
			}
			s := get(root)
			if seen[root] {
				return errs.New(errs.ImpossibleToggleSequence, "chord holds both states of a toggle").
					WithKeys(id).WithIndex(i).WithChain(chain.Raw())
			}
			seen[root] = true
			if reg.IsToggleOn(id) {
				if !s.canBeOn {
					return errs.New(errs.ImpossibleToggleSequence, "toggle cannot be turned on again without being turned off").
						WithKeys(id).WithIndex(i).WithChain(chain.Raw())
				}
				s.canBeOn, s.canBeOff = false, true
			} else {
				if !s.canBeOff {
					return errs.New(errs.ImpossibleToggleSequence, "toggle cannot be turned off again without being turned on").
						WithKeys(id).WithIndex(i).WithChain(chain.Raw())
				}
				s.canBeOn, s.canBeOff = true, false
			}
		}
		for _, id := range c {
			if reg.IsToggleState(id) {
				continue
			}
			k := reg.Key(id)
			if k == nil || !k.IsToggleKey() || seen[k.ID] {
				continue
			}
			s := get(k.ID)
			s.canBeOn, s.canBeOff = s.canBeOff, s.canBeOn
		}
	}
	return nil
}

// IsValidChain checks every chord of the chain and its toggle sequence.
func IsValidChain(chain Chain, reg *key.Registry) error {
	for i, c := range chain {
		if err := IsValidChord(chain, c, i, reg); err != nil {
			return err
		}
	}
	return ContainsPossibleToggleChords(chain, reg)
}
