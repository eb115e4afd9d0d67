package exchange

import (
	"github.com/dshills/keychord/internal/chord"
	"github.com/dshills/keychord/internal/key"
	"github.com/dshills/keychord/internal/manager"
)

// Version is the document format version written by Export.
const Version = 1

// Document is the pure-data form of a manager's registries.
type Document struct {
	Version   int            `json:"version" toml:"version" yaml:"version"`
	Keys      []KeyData      `json:"keys,omitempty" toml:"keys,omitempty" yaml:"keys,omitempty"`
	Commands  []CommandData  `json:"commands,omitempty" toml:"commands,omitempty" yaml:"commands,omitempty"`
	Shortcuts []ShortcutData `json:"shortcuts,omitempty" toml:"shortcuts,omitempty" yaml:"shortcuts,omitempty"`
}

// KeyData describes a key.
type KeyData struct {
	ID        string         `json:"id" toml:"id" yaml:"id"`
	Label     string         `json:"label,omitempty" toml:"label,omitempty" yaml:"label,omitempty"`
	Enabled   *bool          `json:"enabled,omitempty" toml:"enabled,omitempty" yaml:"enabled,omitempty"`
	Variants  []string       `json:"variants,omitempty" toml:"variants,omitempty" yaml:"variants,omitempty"`
	Modifier  string         `json:"modifier,omitempty" toml:"modifier,omitempty" yaml:"modifier,omitempty"`
	Toggle    string         `json:"toggle,omitempty" toml:"toggle,omitempty" yaml:"toggle,omitempty"`
	ToggleOn  string         `json:"toggleOn,omitempty" toml:"toggle_on,omitempty" yaml:"toggleOn,omitempty"`
	ToggleOff string         `json:"toggleOff,omitempty" toml:"toggle_off,omitempty" yaml:"toggleOff,omitempty"`
	Layout    *LayoutData    `json:"layout,omitempty" toml:"layout,omitempty" yaml:"layout,omitempty"`
	Meta      map[string]any `json:"meta,omitempty" toml:"meta,omitempty" yaml:"meta,omitempty"`
}

// LayoutData positions a key.
type LayoutData struct {
	X      float64 `json:"x" toml:"x" yaml:"x"`
	Y      float64 `json:"y" toml:"y" yaml:"y"`
	Width  float64 `json:"width" toml:"width" yaml:"width"`
	Height float64 `json:"height" toml:"height" yaml:"height"`
}

// CommandData describes a command without its execute function.
type CommandData struct {
	Name        string `json:"name" toml:"name" yaml:"name"`
	Condition   string `json:"condition,omitempty" toml:"condition,omitempty" yaml:"condition,omitempty"`
	Description string `json:"description,omitempty" toml:"description,omitempty" yaml:"description,omitempty"`
}

// ShortcutData describes a shortcut. Chain holds the exact chords; Keys is
// the "Ctrl+KeyA KeyB" shorthand, used when Chain is empty.
type ShortcutData struct {
	Chain        [][]string `json:"chain,omitempty" toml:"chain,omitempty" yaml:"chain,omitempty"`
	Keys         string     `json:"keys,omitempty" toml:"keys,omitempty" yaml:"keys,omitempty"`
	Command      string     `json:"command,omitempty" toml:"command,omitempty" yaml:"command,omitempty"`
	Condition    string     `json:"condition,omitempty" toml:"condition,omitempty" yaml:"condition,omitempty"`
	Enabled      *bool      `json:"enabled,omitempty" toml:"enabled,omitempty" yaml:"enabled,omitempty"`
	ForceUnequal bool       `json:"forceUnequal,omitempty" toml:"force_unequal,omitempty" yaml:"forceUnequal,omitempty"`
}

// chain returns the shortcut's chain from either field.
func (s ShortcutData) chain() chord.Chain {
	if len(s.Chain) > 0 {
		return chord.FromRaw(s.Chain)
	}
	return chord.Parse(s.Keys)
}

// Export snapshots m as a document. Runtime state (pressed keys, toggle
// state, the chain) is not exported.
func Export(m *manager.Manager) Document {
	doc := Document{Version: Version}
	for _, k := range m.Registry().All() {
		doc.Keys = append(doc.Keys, exportKey(k))
	}
	for _, c := range m.Commands() {
		doc.Commands = append(doc.Commands, CommandData{
			Name:        c.Name,
			Condition:   c.Condition.Text,
			Description: c.Description,
		})
	}
	for _, s := range m.Shortcuts() {
		sd := ShortcutData{
			Chain:        s.Chain.Raw(),
			Command:      s.Command,
			Condition:    s.Condition.Text,
			ForceUnequal: s.ForceUnequal,
		}
		if !s.Enabled {
			sd.Enabled = boolPtr(false)
		}
		doc.Shortcuts = append(doc.Shortcuts, sd)
	}
	return doc
}

func exportKey(k *key.Key) KeyData {
	kd := KeyData{
		ID:       k.ID,
		Variants: append([]string(nil), k.Variants...),
	}
	if k.Label != k.ID {
		kd.Label = k.Label
	}
	if !k.Enabled {
		kd.Enabled = boolPtr(false)
	}
	if k.IsModifier != key.ModifierNone {
		kd.Modifier = k.IsModifier.String()
	}
	if k.IsToggle != key.ToggleNone {
		kd.Toggle = k.IsToggle.String()
		if k.ToggleOnID != k.ID+key.ToggleOnSuffix {
			kd.ToggleOn = k.ToggleOnID
		}
		if k.ToggleOffID != k.ID+key.ToggleOffSuffix {
			kd.ToggleOff = k.ToggleOffID
		}
	}
	if l := k.Layout; l != (key.Layout{}) {
		kd.Layout = &LayoutData{X: l.X, Y: l.Y, Width: l.Width, Height: l.Height}
	}
	if len(k.Meta) > 0 {
		kd.Meta = make(map[string]any, len(k.Meta))
		for name, v := range k.Meta {
			kd.Meta[name] = v
		}
	}
	return kd
}

func boolPtr(v bool) *bool {
	return &v
}
