package manager

import (
	"strings"

	"github.com/dshills/keychord/internal/command"
	"github.com/dshills/keychord/internal/errs"
	"github.com/dshills/keychord/internal/key"
	"github.com/dshills/keychord/internal/shortcut"
)

// entriesOp runs the validate and apply halves of a collection change
// according to check.
func (m *Manager) entriesOp(check Check, validate func() error, apply func()) error {
	return m.doErr(func() error {
		if check != CheckNone {
			if err := validate(); err != nil {
				return err
			}
		}
		if check != CheckOnly {
			apply()
		}
		return nil
	})
}

func (m *Manager) guardEntries(event string, entry any) error {
	change := EntriesChange{Event: event, Entry: entry}
	for _, g := range m.hooks.canEntries.matching(event) {
		if err := g(m, change); err != nil {
			return guardError(err)
		}
	}
	return nil
}

func (m *Manager) notifyEntries(event string, entry any) {
	change := EntriesChange{Event: event, Entry: entry}
	for _, h := range m.hooks.onEntries.matching(event) {
		m.queue(func() { h(m, change) })
	}
}

// AddKey registers k.
func (m *Manager) AddKey(k *key.Key, check Check) error {
	return m.entriesOp(check,
		func() error { return m.validateAddKey(k) },
		func() { m.applyAddKey(k) })
}

// RemoveKey unregisters k. Keys still used by a shortcut cannot be removed.
func (m *Manager) RemoveKey(k *key.Key, check Check) error {
	return m.entriesOp(check,
		func() error { return m.validateRemoveKey(k) },
		func() { m.applyRemoveKey(k) })
}

// AddCommand registers c.
func (m *Manager) AddCommand(c *command.Command, check Check) error {
	return m.entriesOp(check,
		func() error { return m.validateAddCommand(c) },
		func() { m.applyAddCommand(c) })
}

// RemoveCommand unregisters c. Commands still used by a shortcut cannot be
// removed.
func (m *Manager) RemoveCommand(c *command.Command, check Check) error {
	return m.entriesOp(check,
		func() error { return m.validateRemoveCommand(c) },
		func() { m.applyRemoveCommand(c) })
}

// AddShortcut registers s.
func (m *Manager) AddShortcut(s *shortcut.Shortcut, check Check) error {
	return m.entriesOp(check,
		func() error { return m.validateAddShortcut(s) },
		func() { m.applyAddShortcut(s) })
}

// RemoveShortcut unregisters s. A triggered shortcut is untriggered first.
func (m *Manager) RemoveShortcut(s *shortcut.Shortcut, check Check) error {
	return m.entriesOp(check,
		func() error { return m.validateRemoveShortcut(s) },
		func() { m.applyRemoveShortcut(s) })
}

func (m *Manager) validateAddKey(k *key.Key) error {
	if k == nil {
		return errs.New(errs.InvalidKey, "key is nil")
	}
	c := k.Clone()
	c.FillToggleIDs()
	if err := c.Validate(); err != nil {
		return errs.New(errs.InvalidKey, err.Error()).WithKeys(k.ID).Wrap(err)
	}
	if m.keys.Has(c.ID) {
		return errs.New(errs.DuplicateKey, "key id is already registered").WithKeys(c.ID)
	}
	if c.IsToggleKey() {
		for _, id := range []string{c.ToggleOnID, c.ToggleOffID} {
			if m.keys.Key(id) != nil {
				return errs.New(errs.DuplicateKey, "toggle state id is already in use").WithKeys(c.ID, id)
			}
		}
	}
	for _, v := range c.Variants {
		if m.keys.IsToggleState(v) {
			return errs.New(errs.DuplicateKey, "variant id is a toggle state id").WithKeys(c.ID, v)
		}
	}
	return m.guardEntries(KeysAdd, k)
}

func (m *Manager) applyAddKey(k *key.Key) {
	k.FillToggleIDs()
	k.Pressed = false
	m.keys.Insert(k)
	m.log.Debug("key %s added", k.ID)
	m.notifyEntries(KeysAdd, k)
}

func (m *Manager) validateRemoveKey(k *key.Key) error {
	if k == nil || m.keys.Get(k.ID) != k {
		id := ""
		if k != nil {
			id = k.ID
		}
		return errs.New(errs.UnknownKey, "key is not registered").WithKeys(id)
	}
	if users := m.shortcuts.UsingKey(k.ID, m.keys); len(users) > 0 {
		e := errs.New(errs.KeyInUse, "key is used by shortcuts").WithKeys(k.ID)
		for _, s := range users {
			e.WithShortcuts(s)
		}
		return e
	}
	return m.guardEntries(KeysRemove, k)
}

func (m *Manager) applyRemoveKey(k *key.Key) {
	m.stopTimer(k.ID)
	if k.Pressed {
		k.Pressed = false
		m.removeFromChain(k.ID)
	}
	m.keys.Delete(k.ID)
	m.log.Debug("key %s removed", k.ID)
	m.notifyEntries(KeysRemove, k)
}

func (m *Manager) validateAddCommand(c *command.Command) error {
	if c == nil {
		return errs.New(errs.InvalidValue, "command is nil")
	}
	if strings.TrimSpace(c.Name) == "" {
		return errs.New(errs.InvalidValue, "command name cannot be empty")
	}
	if m.commands.Get(c.Name) != nil {
		return errs.New(errs.DuplicateCommand, "command name is already registered").WithCommand(c.Name)
	}
	return m.guardEntries(CommandsAdd, c)
}

func (m *Manager) applyAddCommand(c *command.Command) {
	m.commands.Insert(c)
	m.log.Debug("command %s added", c.Name)
	m.notifyEntries(CommandsAdd, c)
}

func (m *Manager) validateRemoveCommand(c *command.Command) error {
	if c == nil || !m.commands.Contains(c) {
		name := ""
		if c != nil {
			name = c.Name
		}
		return errs.New(errs.UnknownCommand, "command is not registered").WithCommand(name)
	}
	if users := m.shortcuts.UsingCommand(c.Name); len(users) > 0 {
		e := errs.New(errs.CommandInUse, "command is used by shortcuts").WithCommand(c.Name)
		for _, s := range users {
			e.WithShortcuts(s)
		}
		return e
	}
	return m.guardEntries(CommandsRemove, c)
}

func (m *Manager) applyRemoveCommand(c *command.Command) {
	m.commands.Delete(c.Name)
	m.log.Debug("command %s removed", c.Name)
	m.notifyEntries(CommandsRemove, c)
}

func (m *Manager) validateAddShortcut(s *shortcut.Shortcut) error {
	if s == nil {
		return errs.New(errs.InvalidValue, "shortcut is nil")
	}
	if m.shortcuts.Contains(s) {
		return errs.New(errs.DuplicateShortcut, "shortcut is already registered").
			WithShortcuts(s).WithChain(s.Chain.Raw())
	}
	if err := shortcut.ValidateChain(s.Chain, m.keys); err != nil {
		return err
	}
	if s.Command != "" && m.commands.Get(s.Command) == nil {
		return errs.New(errs.UnknownCommand, "command is not registered").
			WithCommand(s.Command).WithShortcuts(s)
	}
	if err := m.checkConflicts(s, nil); err != nil {
		return err
	}
	return m.guardEntries(ShortcutsAdd, s)
}

func (m *Manager) applyAddShortcut(s *shortcut.Shortcut) {
	m.shortcuts.Insert(s)
	m.log.Debug("shortcut %s added", s)
	m.notifyEntries(ShortcutsAdd, s)
}

func (m *Manager) validateRemoveShortcut(s *shortcut.Shortcut) error {
	if s == nil || !m.shortcuts.Contains(s) {
		return errs.New(errs.InvalidValue, "shortcut is not registered")
	}
	return m.guardEntries(ShortcutsRemove, s)
}

func (m *Manager) applyRemoveShortcut(s *shortcut.Shortcut) {
	if m.state.Untrigger == s {
		m.state.Untrigger = nil
		m.execute(s, false)
	}
	m.shortcuts.Delete(s)
	m.log.Debug("shortcut %s removed", s)
	m.notifyEntries(ShortcutsRemove, s)
}
