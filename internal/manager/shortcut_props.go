package manager

import (
	"github.com/dshills/keychord/internal/chord"
	"github.com/dshills/keychord/internal/errs"
	"github.com/dshills/keychord/internal/shortcut"
)

// ValidateShortcutProp reports whether setting prop to value on s is legal.
func (m *Manager) ValidateShortcutProp(s *shortcut.Shortcut, prop ShortcutProp, value any) error {
	return m.doErr(func() error { return m.validateShortcutProp(s, prop, value) })
}

// ApplyShortcutProp sets prop without validation and notifies hooks.
func (m *Manager) ApplyShortcutProp(s *shortcut.Shortcut, prop ShortcutProp, value any) {
	m.do(func() { m.applyShortcutProp(s, prop, value) })
}

// SetShortcutProp validates and sets prop according to check.
func (m *Manager) SetShortcutProp(s *shortcut.Shortcut, prop ShortcutProp, value any, check Check) error {
	return m.doErr(func() error { return m.setShortcutProp(s, prop, value, check) })
}

func (m *Manager) setShortcutProp(s *shortcut.Shortcut, prop ShortcutProp, value any, check Check) error {
	if check != CheckNone {
		if err := m.validateShortcutProp(s, prop, value); err != nil {
			return err
		}
	}
	if check == CheckOnly {
		return nil
	}
	m.applyShortcutProp(s, prop, value)
	return nil
}

func asChain(value any) (chord.Chain, bool) {
	switch v := value.(type) {
	case chord.Chain:
		return v, true
	case [][]string:
		return chord.FromRaw(v), true
	case []chord.Chord:
		return chord.Chain(v), true
	default:
		return nil, false
	}
}

func (m *Manager) validateShortcutProp(s *shortcut.Shortcut, prop ShortcutProp, value any) error {
	if s == nil {
		return errs.New(errs.InvalidValue, "shortcut is nil")
	}
	registered := m.shortcuts.Contains(s)

	switch prop {
	case ShortcutChain:
		v, ok := asChain(value)
		if !ok {
			return invalidValue(string(prop), value)
		}
		if err := shortcut.ValidateChain(v, m.keys); err != nil {
			return err
		}
		if registered {
			c := s.Clone()
			c.Chain = v.Clone()
			if err := m.checkConflicts(c, s); err != nil {
				return err
			}
		}
	case ShortcutCommand:
		v, ok := value.(string)
		if !ok {
			return invalidValue(string(prop), value)
		}
		if v != "" && m.commands.Get(v) == nil {
			return errs.New(errs.UnknownCommand, "command is not registered").WithCommand(v)
		}
	case ShortcutCondition:
		v, ok := asCondition(value)
		if !ok {
			return invalidValue(string(prop), value)
		}
		if registered {
			c := s.Clone()
			c.Condition = v
			if err := m.checkConflicts(c, s); err != nil {
				return err
			}
		}
	case ShortcutEnabled:
		if _, ok := value.(bool); !ok {
			return invalidValue(string(prop), value)
		}
	case ShortcutForceUnequal:
		v, ok := value.(bool)
		if !ok {
			return invalidValue(string(prop), value)
		}
		if registered && !v && s.ForceUnequal {
			c := s.Clone()
			c.ForceUnequal = false
			if err := m.checkConflicts(c, s); err != nil {
				return err
			}
		}
	default:
		return unknownProp(string(prop))
	}

	change := ShortcutChange{Shortcut: s, Prop: prop, Value: value}
	for _, g := range m.hooks.canShort.matching(string(prop)) {
		if err := g(m, change); err != nil {
			return guardError(err)
		}
	}
	return nil
}

// checkConflicts reports the first registered shortcut, other than self,
// that conflicts with candidate.
func (m *Manager) checkConflicts(candidate, self *shortcut.Shortcut) error {
	subject := self
	if subject == nil {
		subject = candidate
	}
	opts := m.conflictOptions()
	for _, other := range m.shortcuts.All() {
		if other == self {
			continue
		}
		if shortcut.DoesShortcutConflict(candidate, other, m.keys, opts) {
			return errs.New(errs.DuplicateShortcut, "shortcut conflicts with an existing shortcut").
				WithShortcuts(subject, other).WithChain(candidate.Chain.Raw())
		}
	}
	return nil
}

func (m *Manager) applyShortcutProp(s *shortcut.Shortcut, prop ShortcutProp, value any) {
	switch prop {
	case ShortcutChain:
		v, _ := asChain(value)
		s.Chain = v.Clone()
	case ShortcutCommand:
		v, _ := value.(string)
		s.Command = v
	case ShortcutCondition:
		v, _ := asCondition(value)
		s.Condition = v
	case ShortcutEnabled:
		v, _ := value.(bool)
		s.Enabled = v
	case ShortcutForceUnequal:
		v, _ := value.(bool)
		s.ForceUnequal = v
	default:
		return
	}

	if s == m.state.Untrigger {
		m.checkUntrigger()
	}

	change := ShortcutChange{Shortcut: s, Prop: prop, Value: value}
	for _, h := range m.hooks.onShortcut.matching(string(prop)) {
		m.queue(func() { h(m, change) })
	}
}
