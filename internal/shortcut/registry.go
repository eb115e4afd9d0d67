package shortcut

import "github.com/dshills/keychord/internal/key"

// Registry holds shortcuts in registration order.
type Registry struct {
	entries []*Shortcut
}

// NewRegistry creates a registry with the given shortcuts.
func NewRegistry(shortcuts ...*Shortcut) *Registry {
	return &Registry{entries: append([]*Shortcut(nil), shortcuts...)}
}

// Insert appends s.
func (r *Registry) Insert(s *Shortcut) {
	r.entries = append(r.entries, s)
}

// Delete removes s.
func (r *Registry) Delete(s *Shortcut) {
	if i := r.Index(s); i >= 0 {
		r.entries = append(r.entries[:i], r.entries[i+1:]...)
	}
}

// Index returns the position of s, or -1.
func (r *Registry) Index(s *Shortcut) int {
	for i, e := range r.entries {
		if e == s {
			return i
		}
	}
	return -1
}

// Contains reports whether s is registered.
func (r *Registry) Contains(s *Shortcut) bool {
	return r.Index(s) >= 0
}

// Len returns the number of shortcuts.
func (r *Registry) Len() int {
	return len(r.entries)
}

// All returns the shortcuts in registration order.
func (r *Registry) All() []*Shortcut {
	return append([]*Shortcut(nil), r.entries...)
}

// UsingKey returns the shortcuts whose chains refer to the key id.
func (r *Registry) UsingKey(id string, reg *key.Registry) []*Shortcut {
	var out []*Shortcut
	for _, s := range r.entries {
		if s.UsesKey(id, reg) {
			out = append(out, s)
		}
	}
	return out
}

// UsingCommand returns the shortcuts that refer to the named command.
func (r *Registry) UsingCommand(name string) []*Shortcut {
	var out []*Shortcut
	for _, s := range r.entries {
		if s.Command == name {
			out = append(out, s)
		}
	}
	return out
}
