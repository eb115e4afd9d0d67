// Package command provides the command record and registry.
//
// Shortcuts refer to commands by name. The reference is soft: a command may
// be renamed while shortcuts still carry the old name, in which case those
// shortcuts match but execute nothing until they are updated.
package command

import (
	"fmt"
	"strings"

	"github.com/dshills/keychord/internal/condition"
)

// ExecuteContext is passed to a command's Execute function.
type ExecuteContext struct {
	// IsKeydown is true on trigger and false on untrigger.
	IsKeydown bool

	// Command is the executing command.
	Command *Command

	// Shortcut is the matched *shortcut.Shortcut.
	Shortcut any

	// Context is the manager's current context value.
	Context any
}

// ExecuteFunc runs a command.
type ExecuteFunc func(ctx ExecuteContext)

// Command is a named action invoked by shortcuts.
type Command struct {
	// Name is the unique identity of the command.
	Name string

	// Execute runs on trigger and on untrigger. May be nil.
	Execute ExecuteFunc

	// Condition must hold for shortcuts to match this command.
	Condition condition.Condition

	// Description documents the command.
	Description string
}

// Option configures a Command created with New.
type Option func(*Command)

// WithExecute sets the execute function.
func WithExecute(fn ExecuteFunc) Option {
	return func(c *Command) {
		c.Execute = fn
	}
}

// WithCondition sets the condition.
func WithCondition(text string) Option {
	return func(c *Command) {
		c.Condition = condition.New(text)
	}
}

// WithDescription sets the description.
func WithDescription(desc string) Option {
	return func(c *Command) {
		c.Description = desc
	}
}

// New creates a validated command.
func New(name string, opts ...Option) (*Command, error) {
	c := &Command{Name: name}
	for _, opt := range opts {
		opt(c)
	}
	if strings.TrimSpace(c.Name) == "" {
		return nil, fmt.Errorf("command name cannot be empty")
	}
	return c, nil
}

// MustNew creates a command and panics on error.
func MustNew(name string, opts ...Option) *Command {
	c, err := New(name, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// Run invokes Execute if set.
func (c *Command) Run(ctx ExecuteContext) {
	if c == nil || c.Execute == nil {
		return
	}
	ctx.Command = c
	c.Execute(ctx)
}

// String returns the command name.
func (c *Command) String() string {
	return c.Name
}
