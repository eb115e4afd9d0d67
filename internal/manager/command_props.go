package manager

import (
	"strings"

	"github.com/dshills/keychord/internal/command"
	"github.com/dshills/keychord/internal/condition"
	"github.com/dshills/keychord/internal/errs"
)

// ValidateCommandProp reports whether setting prop to value on c is legal.
func (m *Manager) ValidateCommandProp(c *command.Command, prop CommandProp, value any) error {
	return m.doErr(func() error { return m.validateCommandProp(c, prop, value) })
}

// ApplyCommandProp sets prop without validation and notifies hooks.
func (m *Manager) ApplyCommandProp(c *command.Command, prop CommandProp, value any) {
	m.do(func() { m.applyCommandProp(c, prop, value) })
}

// SetCommandProp validates and sets prop according to check.
func (m *Manager) SetCommandProp(c *command.Command, prop CommandProp, value any, check Check) error {
	return m.doErr(func() error {
		if check != CheckNone {
			if err := m.validateCommandProp(c, prop, value); err != nil {
				return err
			}
		}
		if check != CheckOnly {
			m.applyCommandProp(c, prop, value)
		}
		return nil
	})
}

func asCondition(value any) (condition.Condition, bool) {
	switch v := value.(type) {
	case condition.Condition:
		return v, true
	case string:
		return condition.New(v), true
	default:
		return condition.Condition{}, false
	}
}

func asExecute(value any) (command.ExecuteFunc, bool) {
	switch v := value.(type) {
	case nil:
		return nil, true
	case command.ExecuteFunc:
		return v, true
	case func(command.ExecuteContext):
		return v, true
	default:
		return nil, false
	}
}

func (m *Manager) validateCommandProp(c *command.Command, prop CommandProp, value any) error {
	if c == nil {
		return errs.New(errs.InvalidValue, "command is nil")
	}
	switch prop {
	case CommandName:
		v, ok := value.(string)
		if !ok || strings.TrimSpace(v) == "" {
			return invalidValue(string(prop), value)
		}
		if other := m.commands.Get(v); other != nil && other != c {
			return errs.New(errs.DuplicateCommand, "command name is taken").WithCommand(v)
		}
	case CommandExecute:
		if _, ok := asExecute(value); !ok {
			return invalidValue(string(prop), value)
		}
	case CommandCondition:
		if _, ok := asCondition(value); !ok {
			return invalidValue(string(prop), value)
		}
	case CommandDescription:
		if _, ok := value.(string); !ok {
			return invalidValue(string(prop), value)
		}
	default:
		return unknownProp(string(prop))
	}

	change := CommandChange{Command: c, Prop: prop, Value: value}
	for _, g := range m.hooks.canCommand.matching(string(prop)) {
		if err := g(m, change); err != nil {
			return guardError(err)
		}
	}
	return nil
}

func (m *Manager) applyCommandProp(c *command.Command, prop CommandProp, value any) {
	switch prop {
	case CommandName:
		v, _ := value.(string)
		if m.commands.Contains(c) {
			if n := len(m.shortcuts.UsingCommand(c.Name)); n > 0 {
				m.log.Debug("rename %s to %s leaves %d shortcuts on the old name", c.Name, v, n)
			}
			m.commands.Rename(c, v)
		} else {
			c.Name = v
		}
	case CommandExecute:
		v, _ := asExecute(value)
		c.Execute = v
	case CommandCondition:
		v, _ := asCondition(value)
		c.Condition = v
	case CommandDescription:
		v, _ := value.(string)
		c.Description = v
	default:
		return
	}

	change := CommandChange{Command: c, Prop: prop, Value: value}
	for _, h := range m.hooks.onCommand.matching(string(prop)) {
		m.queue(func() { h(m, change) })
	}
}
