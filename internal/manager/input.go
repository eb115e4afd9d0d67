package manager

import (
	"fmt"

	"github.com/dshills/keychord/internal/errs"
	"github.com/dshills/keychord/internal/key"
)

// NativeState is the operating system's view of a native modifier or
// toggle.
type NativeState int8

const (
	// NativeUnknown leaves the tracked state alone.
	NativeUnknown NativeState = iota
	NativeInactive
	NativeActive
)

// String returns the state name.
func (s NativeState) String() string {
	switch s {
	case NativeInactive:
		return "inactive"
	case NativeActive:
		return "active"
	default:
		return "unknown"
	}
}

// Sampler reports the native state of a key id. For toggles, active means
// the toggle is on.
type Sampler func(id string) NativeState

// Transition is one key going down or up.
type Transition struct {
	ID   string
	Down bool
}

// Batch is one host event: the keys it transitioned plus an optional
// sampler for native state. Raw is the host event, passed back in errors.
type Batch struct {
	Transitions []Transition
	Native      Sampler
	Raw         any
}

// Keydown returns a batch pressing ids in order.
func Keydown(ids ...string) Batch {
	b := Batch{}
	for _, id := range ids {
		b.Transitions = append(b.Transitions, Transition{ID: id, Down: true})
	}
	return b
}

// Keyup returns a batch releasing ids in order.
func Keyup(ids ...string) Batch {
	b := Batch{}
	for _, id := range ids {
		b.Transitions = append(b.Transitions, Transition{ID: id})
	}
	return b
}

// chainOp is a pending chain addition or removal.
type chainOp struct {
	id  string
	add bool
}

// Input processes one batch of host input.
func (m *Manager) Input(b Batch) {
	m.do(func() { m.input(b) })
}

func (m *Manager) input(b Batch) {
	trans := make([]Transition, 0, len(b.Transitions))
	for _, t := range b.Transitions {
		id, ok := m.keys.Resolve(t.ID)
		if !ok {
			err := errs.New(errs.UnknownKeyEvent, "event names no registered key").WithKeys(t.ID)
			if near, ok := m.keys.Suggest(t.ID); ok {
				err.Detail = fmt.Sprintf("event names no registered key, did you mean %q?", near)
			}
			m.report(err, b.Raw)
			continue
		}
		trans = append(trans, Transition{ID: id, Down: t.Down})
	}

	ops := m.setKeysState(trans)
	m.updateNativeKeysState(b.Native, trans)
	for _, op := range ops {
		m.applyChainOp(op)
	}
}

func (m *Manager) applyChainOp(op chainOp) {
	if op.add {
		m.addToChain(op.id)
	} else {
		m.removeFromChain(op.id)
	}
}

// setKeysState updates pressed and emulated toggle state for each
// transition and returns the chain changes they imply.
func (m *Manager) setKeysState(trans []Transition) []chainOp {
	var ops []chainOp
	for _, t := range trans {
		k := m.keys.Get(t.ID)
		if t.Down {
			if !k.Enabled {
				continue
			}
			repeat := k.Pressed
			if err := m.setKeyProp(k, KeyPressed, true, CheckFull); err != nil {
				m.log.Debug("keydown %s rejected: %v", k.ID, err)
				continue
			}
			if repeat {
				continue
			}
			ops = append(ops, chainOp{id: k.ID, add: true})
			if k.IsToggle == key.ToggleEmulated {
				ops = append(ops, m.setToggleState(k, !k.ToggleOnPressed)...)
			}
			continue
		}

		if !k.Pressed {
			continue
		}
		if err := m.setKeyProp(k, KeyPressed, false, CheckFull); err != nil {
			m.log.Debug("keyup %s rejected: %v", k.ID, err)
			continue
		}
		ops = append(ops, chainOp{id: k.ID})
	}
	return ops
}

// setToggleState moves a toggle to on or off and returns the chain changes:
// removal of the previous sub-state and addition of the new one.
func (m *Manager) setToggleState(k *key.Key, on bool) []chainOp {
	if (on && k.ToggleOnPressed) || (!on && k.ToggleOffPressed) {
		return nil
	}
	from, to := KeyToggleOffPressed, KeyToggleOnPressed
	fromID, toID := k.ToggleOffID, k.ToggleOnID
	wasSet := k.ToggleOffPressed
	if !on {
		from, to = to, from
		fromID, toID = toID, fromID
		wasSet = k.ToggleOnPressed
	}

	var ops []chainOp
	if wasSet {
		if err := m.setKeyProp(k, from, false, CheckFull); err != nil {
			m.log.Debug("toggle %s rejected: %v", k.ID, err)
			return nil
		}
		ops = append(ops, chainOp{id: fromID})
	}
	if err := m.setKeyProp(k, to, true, CheckFull); err != nil {
		m.log.Debug("toggle %s rejected: %v", k.ID, err)
		return ops
	}
	return append(ops, chainOp{id: toID, add: true})
}

// updateNativeKeysState reconciles native keys with the sampler. Native
// modifiers transitioned in this batch are left alone; native toggles always
// follow the sampler, which reports the state after the event.
func (m *Manager) updateNativeKeysState(sample Sampler, trans []Transition) {
	if sample == nil {
		return
	}
	inBatch := make(map[string]bool, len(trans))
	for _, t := range trans {
		inBatch[t.ID] = true
	}

	for _, id := range m.keys.NativeModifiers() {
		k := m.keys.Get(id)
		if inBatch[id] || !k.Enabled {
			continue
		}
		st := sample(id)
		if st == NativeUnknown {
			continue
		}
		active := st == NativeActive
		if active == k.Pressed {
			continue
		}
		m.log.Debug("native modifier %s drifted, now %s", id, st)
		if err := m.setKeyProp(k, KeyPressed, active, CheckFull); err != nil {
			continue
		}
		m.applyChainOp(chainOp{id: id, add: active})
	}

	for _, id := range m.keys.NativeToggles() {
		k := m.keys.Get(id)
		if !k.Enabled {
			continue
		}
		st := sample(id)
		if st == NativeUnknown {
			continue
		}
		for _, op := range m.setToggleState(k, st == NativeActive) {
			m.applyChainOp(op)
		}
	}
}
