package manager

import (
	"github.com/dshills/keychord/internal/chord"
	"github.com/dshills/keychord/internal/shortcut"
)

// SafeSetChain replaces the chain while keeping the state machine
// consistent with the keys still held. With preserveModifiers set, held
// modifiers are merged into the new last chord. A triggered shortcut that
// will not match the new chain is untriggered before the chain changes.
func (m *Manager) SafeSetChain(chain chord.Chain, preserveModifiers bool) error {
	return m.doErr(func() error { return m.safeSetChain(chain, preserveModifiers) })
}

func (m *Manager) safeSetChain(chain chord.Chain, preserveModifiers bool) error {
	next := chain.Clone()
	if len(next) == 0 {
		next = idleChain()
	}
	if preserveModifiers {
		last := len(next) - 1
		for _, id := range m.heldModifiers() {
			if !chord.ChordContainsKey(next[last], id, m.keys, true) {
				next[last] = append(next[last], id)
			}
		}
	}
	if err := m.validateManagerProp(ManagerChain, next); err != nil {
		return err
	}

	if u := m.state.Untrigger; u != nil && !chord.EqualsKeys(u.Chain, next, m.keys, -1, variants) {
		m.state.Untrigger = nil
		m.execute(u, false)
	}
	m.applyManagerProp(ManagerChain, next)
	m.state.IsAwaitingKeyup = m.triggerKeysHeld()
	m.state.NextIsChord = len(next) > 1 && len(next.Last()) == 0
	m.checkTrigger()
	return nil
}

// ChainChange is a new chain for a shortcut.
type ChainChange struct {
	Shortcut *shortcut.Shortcut
	Chain    chord.Chain
}

// SwapChains sets the chains of two groups of shortcuts whose new chains
// may conflict with each other's old chains, such as when two shortcuts
// trade bindings.
//
// Group a is first exempted from conflict checks while group b takes its new
// chains, then group b is exempted while group a takes its own. Every chain
// is validated, and the final chains are checked against each other. On
// failure all chains and flags are restored.
func (m *Manager) SwapChains(a, b []ChainChange) error {
	return m.doErr(func() error {
		undoB, err := m.setChainsExempting(b, a)
		if err != nil {
			return err
		}
		undoA, err := m.setChainsExempting(a, b)
		if err != nil {
			undoB()
			return err
		}
		// Each phase skipped the other group, so check the final bindings
		// against each other.
		for _, c := range append(append([]ChainChange(nil), a...), b...) {
			if err := m.checkConflicts(c.Shortcut, c.Shortcut); err != nil {
				undoA()
				undoB()
				return err
			}
		}
		return nil
	})
}

// setChainsExempting sets the chains in changes while every shortcut in
// exempt is marked ForceUnequal. It returns a function restoring the old
// chains. On error nothing is left changed.
func (m *Manager) setChainsExempting(changes, exempt []ChainChange) (func(), error) {
	flags := make([]bool, len(exempt))
	for i, c := range exempt {
		flags[i] = c.Shortcut.ForceUnequal
		_ = m.setShortcutProp(c.Shortcut, ShortcutForceUnequal, true, CheckNone)
	}
	restoreFlags := func() {
		for i, c := range exempt {
			_ = m.setShortcutProp(c.Shortcut, ShortcutForceUnequal, flags[i], CheckNone)
		}
	}

	old := make([]chord.Chain, 0, len(changes))
	undo := func() {
		for i := len(old) - 1; i >= 0; i-- {
			_ = m.setShortcutProp(changes[i].Shortcut, ShortcutChain, old[i], CheckNone)
		}
	}
	for _, c := range changes {
		prev := c.Shortcut.Chain.Clone()
		if err := m.setShortcutProp(c.Shortcut, ShortcutChain, c.Chain, CheckFull); err != nil {
			undo()
			restoreFlags()
			return nil, err
		}
		old = append(old, prev)
	}
	restoreFlags()
	return undo, nil
}
