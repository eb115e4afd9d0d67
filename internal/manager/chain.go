package manager

import (
	"github.com/dshills/keychord/internal/chord"
	"github.com/dshills/keychord/internal/errs"
	"github.com/dshills/keychord/internal/key"
	"github.com/dshills/keychord/internal/shortcut"
)

var variants = chord.EqualOptions{AllowVariants: true}

// addToChain adds id to the last chord. A fresh chord is seeded with the
// modifiers still held and the toggles that are on, so they carry across
// chord boundaries.
func (m *Manager) addToChain(id string) {
	if m.state.IsAwaitingKeyup {
		return
	}
	last := len(m.state.Chain) - 1
	c := m.state.Chain[last]
	if len(c) == 0 {
		for _, held := range m.heldState() {
			if held != id {
				c = append(c, held)
			}
		}
	}
	if !chord.ChordContainsKey(c, id, m.keys, false) {
		c = append(c, id)
	}
	m.state.Chain[last] = c
	m.state.NextIsChord = false
	m.checkTrigger()
}

// removeFromChain handles a key leaving the pressed set. Releasing a trigger
// key of the last chord ends the chain; releasing anything else only drops
// it from the last chord.
func (m *Manager) removeFromChain(id string) {
	if m.state.IsAwaitingKeyup {
		if !m.triggerKeysHeld() {
			m.state.IsAwaitingKeyup = false
		}
		return
	}
	last := len(m.state.Chain) - 1
	c := m.state.Chain[last]
	i := indexOf(c, id)
	if i < 0 {
		return
	}
	if m.keys.IsTriggerID(id) {
		m.state.Chain = idleChain()
		m.state.NextIsChord = false
	} else {
		m.state.Chain[last] = append(c[:i:i], c[i+1:]...)
	}
	m.checkTrigger()
}

func indexOf(c chord.Chord, id string) int {
	for i, k := range c {
		if k == id {
			return i
		}
	}
	return -1
}

// triggerKeysHeld reports whether any non-modifier key is pressed.
func (m *Manager) triggerKeysHeld() bool {
	for _, k := range m.keys.All() {
		if k.Pressed && !k.IsModifierKey() {
			return true
		}
	}
	return false
}

// heldState returns the ids a fresh chord starts with: pressed modifiers and
// the on sub-state of every toggle that is on, in registration order. An off
// sub-state is the resting state and only enters the chord it changed in.
func (m *Manager) heldState() []string {
	var out []string
	for _, k := range m.keys.All() {
		if !k.Enabled {
			continue
		}
		if k.Pressed && k.IsModifierKey() {
			out = append(out, k.ID)
		}
		if k.IsToggle != key.ToggleNone && k.ToggleOnPressed {
			out = append(out, k.ToggleOnID)
		}
	}
	return out
}

// heldModifiers returns the ids of pressed modifiers in registration order.
func (m *Manager) heldModifiers() []string {
	var out []string
	for _, k := range m.keys.All() {
		if k.Pressed && k.IsModifierKey() {
			out = append(out, k.ID)
		}
	}
	return out
}

// checkUntrigger runs the keyup half of the triggered shortcut once the
// chain no longer matches it.
func (m *Manager) checkUntrigger() {
	u := m.state.Untrigger
	if u == nil {
		return
	}
	if u.Enabled && m.shortcuts.Contains(u) && chord.EqualsKeys(u.Chain, m.state.Chain, m.keys, -1, variants) {
		return
	}
	m.state.Untrigger = nil
	m.execute(u, false)
}

// matching returns the enabled shortcuts equal to the current chain whose
// conditions hold.
func (m *Manager) matching() []*shortcut.Shortcut {
	var out []*shortcut.Shortcut
	for _, s := range m.shortcuts.All() {
		if !s.Enabled {
			continue
		}
		if !chord.EqualsKeys(s.Chain, m.state.Chain, m.keys, -1, variants) {
			continue
		}
		if m.conditionsHold(s) {
			out = append(out, s)
		}
	}
	return out
}

// canContinue reports whether an enabled shortcut extends the current chain.
func (m *Manager) canContinue() bool {
	n := len(m.state.Chain)
	for _, s := range m.shortcuts.All() {
		if !s.Enabled || len(s.Chain) <= n {
			continue
		}
		if chord.EqualsKeys(s.Chain, m.state.Chain, m.keys, n, variants) && m.conditionsHold(s) {
			return true
		}
	}
	return false
}

// checkTrigger runs after every chain change. It untriggers a shortcut that
// stopped matching, triggers the one that now matches, and decides whether a
// completed chord opens the next one.
func (m *Manager) checkTrigger() {
	m.checkUntrigger()

	fired := false
	if !m.state.IsRecording {
		matches := m.matching()
		switch {
		case len(matches) > 1:
			e := errs.New(errs.MultipleMatchingShortcuts, "more than one shortcut matches the chain").
				WithChain(m.state.Chain.Raw())
			for _, s := range matches {
				e.WithShortcuts(s)
			}
			m.report(e, nil)
		case len(matches) == 1 && matches[0] != m.state.Untrigger:
			if m.state.Untrigger != nil {
				u := m.state.Untrigger
				m.state.Untrigger = nil
				m.execute(u, false)
			}
			s := matches[0]
			m.state.Untrigger = s
			m.execute(s, true)
			fired = true
		}
	}

	last := m.state.Chain.Last()
	hasTrigger := false
	for _, id := range last {
		if m.keys.IsTriggerID(id) {
			hasTrigger = true
			break
		}
	}
	if !hasTrigger {
		return
	}

	if m.state.IsRecording || m.canContinue() {
		m.state.Chain = append(m.state.Chain, chord.Chord{})
		m.state.NextIsChord = true
		m.state.IsAwaitingKeyup = true
		return
	}
	if !fired && m.state.Untrigger == nil && len(m.state.Chain) > 1 {
		m.report(errs.New(errs.NoMatchingShortcut, "no shortcut matches the chain").
			WithChain(m.state.Chain.Raw()), nil)
		m.state.Chain = idleChain()
		m.state.NextIsChord = false
		m.state.IsAwaitingKeyup = true
	}
}

// ForceClear resets all key state and the chain. A triggered shortcut is
// untriggered first so every keydown execution gets its keyup.
func (m *Manager) ForceClear() {
	m.do(m.forceClear)
}

func (m *Manager) forceClear() {
	if u := m.state.Untrigger; u != nil {
		m.state.Untrigger = nil
		m.execute(u, false)
	}
	for _, k := range m.keys.All() {
		m.stopTimer(k.ID)
		k.Pressed = false
		k.ToggleOnPressed = false
		k.ToggleOffPressed = false
	}
	m.state.Chain = idleChain()
	m.state.IsAwaitingKeyup = false
	m.state.NextIsChord = false
	m.log.Debug("state cleared")
}
