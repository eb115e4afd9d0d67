package manager

import (
	"github.com/dshills/keychord/internal/errs"
	"github.com/dshills/keychord/internal/key"
	"github.com/dshills/keychord/internal/shortcut"
)

// ValidateKeyProp reports whether setting prop to value on k is legal.
func (m *Manager) ValidateKeyProp(k *key.Key, prop KeyProp, value any) error {
	return m.doErr(func() error { return m.validateKeyProp(k, prop, value) })
}

// ApplyKeyProp sets prop without validation and notifies hooks.
func (m *Manager) ApplyKeyProp(k *key.Key, prop KeyProp, value any) {
	m.do(func() { m.applyKeyProp(k, prop, value) })
}

// SetKeyProp validates and sets prop according to check.
func (m *Manager) SetKeyProp(k *key.Key, prop KeyProp, value any, check Check) error {
	return m.doErr(func() error { return m.setKeyProp(k, prop, value, check) })
}

func (m *Manager) setKeyProp(k *key.Key, prop KeyProp, value any, check Check) error {
	if check != CheckNone {
		if err := m.validateKeyProp(k, prop, value); err != nil {
			return err
		}
	}
	if check == CheckOnly {
		return nil
	}
	m.applyKeyProp(k, prop, value)
	return nil
}

func (m *Manager) validateKeyProp(k *key.Key, prop KeyProp, value any) error {
	if k == nil {
		return errs.New(errs.InvalidKey, "key is nil")
	}
	registered := m.keys.Get(k.ID) == k

	switch prop {
	case KeyEnabled, KeyPressed, KeyToggleOnPressed, KeyToggleOffPressed:
		v, ok := value.(bool)
		if !ok {
			return invalidValue(string(prop), value)
		}
		if !v {
			break
		}
		if prop != KeyEnabled && !k.Enabled {
			return errs.New(errs.CannotSetWhileDisabled, "key is disabled").WithKeys(k.ID)
		}
		if prop == KeyToggleOnPressed || prop == KeyToggleOffPressed {
			if !k.IsToggleKey() {
				return errs.New(errs.IncorrectToggleState, "key is not a toggle").WithKeys(k.ID)
			}
			if (prop == KeyToggleOnPressed && k.ToggleOffPressed) || (prop == KeyToggleOffPressed && k.ToggleOnPressed) {
				return errs.New(errs.IncorrectToggleState, "toggle cannot be both on and off").WithKeys(k.ID)
			}
		}
	case KeyLabel:
		if _, ok := value.(string); !ok {
			return invalidValue(string(prop), value)
		}
	case KeyLayout:
		if _, ok := value.(key.Layout); !ok {
			return invalidValue(string(prop), value)
		}
	case KeyMeta:
		if value != nil {
			if _, ok := value.(map[string]any); !ok {
				return invalidValue(string(prop), value)
			}
		}
	case KeyVariants:
		v, ok := value.([]string)
		if !ok {
			return invalidValue(string(prop), value)
		}
		for _, id := range v {
			if m.keys.IsToggleState(id) {
				return errs.New(errs.DuplicateKey, "variant id is a toggle state id").WithKeys(k.ID, id)
			}
		}
		if registered {
			if err := m.speculateKey(k, func(c *key.Key) { c.Variants = append([]string(nil), v...) }); err != nil {
				return err
			}
		}
	case KeyIsModifier:
		v, ok := value.(key.ModifierKind)
		if !ok || v > key.ModifierNative {
			return invalidValue(string(prop), value)
		}
		if registered {
			if err := m.speculateKey(k, func(c *key.Key) { c.IsModifier = v }); err != nil {
				return err
			}
		}
	case KeyIsToggle:
		v, ok := value.(key.ToggleKind)
		if !ok || v > key.ToggleNative {
			return invalidValue(string(prop), value)
		}
		if registered {
			if err := m.speculateKey(k, func(c *key.Key) { setToggleKind(c, v) }); err != nil {
				return err
			}
		}
	default:
		return unknownProp(string(prop))
	}

	change := KeyChange{Key: k, Prop: prop, Value: value}
	for _, g := range m.hooks.canKey.matching(string(prop)) {
		if err := g(m, change); err != nil {
			return guardError(err)
		}
	}
	return nil
}

// speculateKey applies mutate to a copy of k in a cloned registry and
// revalidates every shortcut chain against it.
func (m *Manager) speculateKey(k *key.Key, mutate func(*key.Key)) error {
	reg := m.keys.Clone()
	c := reg.Get(k.ID)
	mutate(c)
	c.FillToggleIDs()
	if err := c.Validate(); err != nil {
		return errs.New(errs.InvalidKey, err.Error()).WithKeys(k.ID).Wrap(err)
	}
	if c.IsToggleKey() {
		for _, id := range []string{c.ToggleOnID, c.ToggleOffID} {
			if other := m.keys.Key(id); other != nil && other != k {
				return errs.New(errs.DuplicateKey, "toggle state id is already in use").WithKeys(k.ID, id)
			}
		}
	}
	reg.Reindex(c)
	for _, s := range m.shortcuts.All() {
		if err := shortcut.ValidateChain(s.Chain, reg); err != nil {
			if e, ok := err.(*errs.Error); ok {
				return e.WithShortcuts(s)
			}
			return err
		}
	}
	return nil
}

func setToggleKind(k *key.Key, kind key.ToggleKind) {
	k.IsToggle = kind
	if kind == key.ToggleNone {
		k.ToggleOnPressed = false
		k.ToggleOffPressed = false
		return
	}
	k.FillToggleIDs()
}

func (m *Manager) applyKeyProp(k *key.Key, prop KeyProp, value any) {
	registered := k != nil && m.keys.Get(k.ID) == k
	switch prop {
	case KeyEnabled:
		v, _ := value.(bool)
		k.Enabled = v
		if !v && k.Pressed {
			k.Pressed = false
			m.stopTimer(k.ID)
			if registered {
				m.removeFromChain(k.ID)
			}
		}
	case KeyPressed:
		v, _ := value.(bool)
		k.Pressed = v
		if v {
			m.startTimer(k.ID)
		} else {
			m.stopTimer(k.ID)
		}
	case KeyToggleOnPressed:
		v, _ := value.(bool)
		k.ToggleOnPressed = v
	case KeyToggleOffPressed:
		v, _ := value.(bool)
		k.ToggleOffPressed = v
	case KeyLabel:
		v, _ := value.(string)
		k.Label = v
	case KeyLayout:
		v, _ := value.(key.Layout)
		k.Layout = v
	case KeyMeta:
		v, _ := value.(map[string]any)
		k.Meta = v
	case KeyVariants:
		v, _ := value.([]string)
		k.Variants = append([]string(nil), v...)
	case KeyIsModifier:
		v, _ := value.(key.ModifierKind)
		k.IsModifier = v
	case KeyIsToggle:
		v, _ := value.(key.ToggleKind)
		setToggleKind(k, v)
	default:
		return
	}

	switch prop {
	case KeyLayout, KeyVariants, KeyIsModifier, KeyIsToggle:
		if registered {
			m.keys.Reindex(k)
		}
	}

	change := KeyChange{Key: k, Prop: prop, Value: value}
	for _, h := range m.hooks.onKey.matching(string(prop)) {
		m.queue(func() { h(m, change) })
	}
}
