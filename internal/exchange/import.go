package exchange

import (
	"errors"
	"fmt"
	"sort"

	"github.com/dshills/keychord/internal/command"
	"github.com/dshills/keychord/internal/condition"
	"github.com/dshills/keychord/internal/errs"
	"github.com/dshills/keychord/internal/key"
	"github.com/dshills/keychord/internal/manager"
	"github.com/dshills/keychord/internal/shortcut"
)

// Bindings maps command names to execute functions.
type Bindings map[string]command.ExecuteFunc

// Apply attaches each bound function to the manager's command of the same
// name through the validated mutation path. It returns the bound names that
// have no command, sorted.
func (b Bindings) Apply(m *manager.Manager) ([]string, error) {
	names := make([]string, 0, len(b))
	for name := range b {
		names = append(names, name)
	}
	sort.Strings(names)

	var missing []string
	var errList []error
	for _, name := range names {
		c := m.Command(name)
		if c == nil {
			missing = append(missing, name)
			continue
		}
		if err := m.SetCommandProp(c, manager.CommandExecute, b[name], manager.CheckFull); err != nil {
			errList = append(errList, fmt.Errorf("binding %q: %w", name, err))
		}
	}
	return missing, errors.Join(errList...)
}

// Sets holds the entities built from a document, ready for Manager.Load.
type Sets struct {
	Keys      []*key.Key
	Commands  []*command.Command
	Shortcuts []*shortcut.Shortcut
}

// Import builds entities from doc. Entities that cannot be built are
// skipped and every failure is returned; cross-entity validation is left to
// the manager.
func Import(doc Document, b Bindings) (*Sets, []error) {
	sets := &Sets{}
	var errList []error

	if doc.Version > Version {
		errList = append(errList, fmt.Errorf("document version %d is newer than %d", doc.Version, Version))
	}

	for i, kd := range doc.Keys {
		k, err := importKey(kd)
		if err != nil {
			errList = append(errList, fmt.Errorf("keys[%d] %q: %w", i, kd.ID, err))
			continue
		}
		sets.Keys = append(sets.Keys, k)
	}

	for i, cd := range doc.Commands {
		opts := []command.Option{
			command.WithCondition(cd.Condition),
			command.WithDescription(cd.Description),
		}
		if fn, ok := b[cd.Name]; ok {
			opts = append(opts, command.WithExecute(fn))
		}
		c, err := command.New(cd.Name, opts...)
		if err != nil {
			errList = append(errList, fmt.Errorf("commands[%d]: %w",
				i, errs.New(errs.InvalidValue, "invalid command").Wrap(err)))
			continue
		}
		sets.Commands = append(sets.Commands, c)
	}

	for i, sd := range doc.Shortcuts {
		chain := sd.chain()
		if len(chain) == 0 {
			errList = append(errList, fmt.Errorf("shortcuts[%d]: %w",
				i, errs.New(errs.InvalidValue, "shortcut has no chain")))
			continue
		}
		s := &shortcut.Shortcut{
			Chain:        chain,
			Command:      sd.Command,
			Condition:    condition.New(sd.Condition),
			Enabled:      sd.Enabled == nil || *sd.Enabled,
			ForceUnequal: sd.ForceUnequal,
		}
		sets.Shortcuts = append(sets.Shortcuts, s)
	}
	return sets, errList
}

func importKey(kd KeyData) (*key.Key, error) {
	mod, err := key.ParseModifierKind(kd.Modifier)
	if err != nil {
		return nil, errs.New(errs.InvalidKey, "invalid modifier kind").Wrap(err)
	}
	tog, err := key.ParseToggleKind(kd.Toggle)
	if err != nil {
		return nil, errs.New(errs.InvalidKey, "invalid toggle kind").Wrap(err)
	}

	opts := []key.Option{
		key.WithVariants(kd.Variants...),
		key.WithModifier(mod),
		key.WithToggle(tog),
		key.WithToggleIDs(kd.ToggleOn, kd.ToggleOff),
	}
	if kd.Label != "" {
		opts = append(opts, key.WithLabel(kd.Label))
	}
	if kd.Enabled != nil {
		opts = append(opts, key.WithEnabled(*kd.Enabled))
	}
	if l := kd.Layout; l != nil {
		opts = append(opts, key.WithLayout(key.Layout{X: l.X, Y: l.Y, Width: l.Width, Height: l.Height}))
	}
	if len(kd.Meta) > 0 {
		opts = append(opts, key.WithMeta(kd.Meta))
	}

	k, err := key.New(kd.ID, opts...)
	if err != nil {
		return nil, errs.New(errs.InvalidKey, "invalid key").WithKeys(kd.ID).Wrap(err)
	}
	return k, nil
}

// Load imports doc into m. Construction errors and the manager's
// validation errors are joined; valid entities are loaded either way.
func Load(m *manager.Manager, doc Document, b Bindings) error {
	sets, errList := Import(doc, b)
	if err := m.Load(sets.Keys, sets.Commands, sets.Shortcuts); err != nil {
		errList = append(errList, err)
	}
	return errors.Join(errList...)
}
