package manager

import (
	"github.com/dshills/keychord/internal/chord"
	"github.com/dshills/keychord/internal/errs"
)

// ValidateManagerProp reports whether setting prop to value is legal.
func (m *Manager) ValidateManagerProp(prop ManagerProp, value any) error {
	return m.doErr(func() error { return m.validateManagerProp(prop, value) })
}

// ApplyManagerProp sets prop without validation and notifies hooks.
// Setting ManagerChain this way replaces the chain without any trigger
// handling; use SafeSetChain to drive the state machine.
func (m *Manager) ApplyManagerProp(prop ManagerProp, value any) {
	m.do(func() { m.applyManagerProp(prop, value) })
}

// SetManagerProp validates and sets prop according to check.
func (m *Manager) SetManagerProp(prop ManagerProp, value any, check Check) error {
	return m.doErr(func() error {
		if check != CheckNone {
			if err := m.validateManagerProp(prop, value); err != nil {
				return err
			}
		}
		if check != CheckOnly {
			m.applyManagerProp(prop, value)
		}
		return nil
	})
}

func (m *Manager) validateManagerProp(prop ManagerProp, value any) error {
	switch prop {
	case ManagerChain:
		v, ok := asChain(value)
		if !ok {
			return invalidValue(string(prop), value)
		}
		if err := m.validateStateChain(v); err != nil {
			return err
		}
	case ManagerIsRecording:
		if _, ok := value.(bool); !ok {
			return invalidValue(string(prop), value)
		}
	case ManagerContext:
	default:
		return unknownProp(string(prop))
	}

	change := ManagerChange{Prop: prop, Value: value}
	for _, g := range m.hooks.canManager.matching(string(prop)) {
		if err := g(m, change); err != nil {
			return guardError(err)
		}
	}
	return nil
}

// validateStateChain checks a chain for use as the manager's state. Unlike a
// shortcut chain its last chord may be empty.
func (m *Manager) validateStateChain(chain chord.Chain) error {
	if len(chain) == 0 {
		return errs.New(errs.InvalidValue, "chain must hold at least one chord")
	}
	for i, c := range chain {
		if len(c) == 0 && i < len(chain)-1 {
			return errs.New(errs.InvalidValue, "only the last chord may be empty").
				WithIndex(i).WithChain(chain.Raw())
		}
		if err := chord.IsValidChord(chain, c, i, m.keys); err != nil {
			return err
		}
	}
	return chord.ContainsPossibleToggleChords(chain, m.keys)
}

func (m *Manager) applyManagerProp(prop ManagerProp, value any) {
	switch prop {
	case ManagerChain:
		v, _ := asChain(value)
		if len(v) == 0 {
			v = idleChain()
		}
		m.state.Chain = v.Clone()
	case ManagerIsRecording:
		v, _ := value.(bool)
		m.state.IsRecording = v
	case ManagerContext:
		m.context = value
	default:
		return
	}

	change := ManagerChange{Prop: prop, Value: value}
	for _, h := range m.hooks.onManager.matching(string(prop)) {
		m.queue(func() { h(m, change) })
	}
}
