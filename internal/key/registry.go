package key

import (
	"math"
)

// Bounds is the bounding box of all key layouts.
type Bounds struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// Registry holds keys and their derived indices.
//
// The registry itself performs no cross-entity validation; the manager's
// mutation layer validates before calling Insert or Delete. Indices are only
// ever rebuilt by Reindex.
type Registry struct {
	entries map[string]*Key
	order   []string

	// group maps every known id (keys and their variant ids) to a variant group.
	group   map[string]int
	members [][]string

	// toggleRoot maps a toggle sub-state id to its root key id.
	toggleRoot map[string]string

	nativeModifiers []string
	nativeToggles   []string
	bounds          Bounds
}

// NewRegistry creates a registry with the given keys. Keys are inserted as
// is; use the manager to add keys with validation.
func NewRegistry(keys ...*Key) *Registry {
	r := &Registry{
		entries: make(map[string]*Key),
	}
	for _, k := range keys {
		r.entries[k.ID] = k
		r.order = append(r.order, k.ID)
	}
	r.Reindex(nil)
	return r
}

// Insert adds k and reindexes. An existing key with the same id is replaced.
func (r *Registry) Insert(k *Key) {
	if _, ok := r.entries[k.ID]; !ok {
		r.order = append(r.order, k.ID)
	}
	r.entries[k.ID] = k
	r.Reindex(k)
}

// Delete removes the key with the given id and reindexes.
func (r *Registry) Delete(id string) {
	if _, ok := r.entries[id]; !ok {
		return
	}
	delete(r.entries, id)
	for i, o := range r.order {
		if o == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.Reindex(nil)
}

// Reindex rebuilds every derived index. It is the only place indices are
// written; changed, when non-nil, is the key whose fields were just modified.
func (r *Registry) Reindex(changed *Key) {
	if changed != nil {
		changed.FillToggleIDs()
	}

	r.toggleRoot = make(map[string]string)
	r.nativeModifiers = r.nativeModifiers[:0]
	r.nativeToggles = r.nativeToggles[:0]

	// Union-find over ids linked by variant declarations.
	parent := make(map[string]string)
	var find func(string) string
	find = func(id string) string {
		p, ok := parent[id]
		if !ok {
			parent[id] = id
			return id
		}
		if p == id {
			return id
		}
		root := find(p)
		parent[id] = root
		return root
	}
	union := func(a, b string) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[rb] = ra
		}
	}

	first := true
	var b Bounds
	for _, id := range r.order {
		k := r.entries[id]
		find(k.ID)
		for _, v := range k.Variants {
			union(k.ID, v)
		}
		if k.IsToggle != ToggleNone {
			r.toggleRoot[k.ToggleOnID] = k.ID
			r.toggleRoot[k.ToggleOffID] = k.ID
			if k.IsToggle == ToggleNative {
				r.nativeToggles = append(r.nativeToggles, k.ID)
			}
		}
		if k.IsModifier == ModifierNative {
			r.nativeModifiers = append(r.nativeModifiers, k.ID)
		}

		l := k.Layout
		if l.Width == 0 && l.Height == 0 && l.X == 0 && l.Y == 0 {
			continue
		}
		if first {
			b = Bounds{MinX: l.X, MinY: l.Y, MaxX: l.X + l.Width, MaxY: l.Y + l.Height}
			first = false
			continue
		}
		b.MinX = math.Min(b.MinX, l.X)
		b.MinY = math.Min(b.MinY, l.Y)
		b.MaxX = math.Max(b.MaxX, l.X+l.Width)
		b.MaxY = math.Max(b.MaxY, l.Y+l.Height)
	}
	r.bounds = b

	r.group = make(map[string]int, len(parent))
	r.members = r.members[:0]
	rootIndex := make(map[string]int)
	// Walk in registration order so group membership lists are deterministic.
	visit := func(id string) {
		if _, done := r.group[id]; done {
			return
		}
		root := find(id)
		gi, ok := rootIndex[root]
		if !ok {
			gi = len(r.members)
			rootIndex[root] = gi
			r.members = append(r.members, nil)
		}
		r.group[id] = gi
		r.members[gi] = append(r.members[gi], id)
	}
	for _, id := range r.order {
		visit(id)
		for _, v := range r.entries[id].Variants {
			visit(v)
		}
	}
}

// Get returns the key registered under id, or nil.
func (r *Registry) Get(id string) *Key {
	return r.entries[id]
}

// Key returns the key for id, resolving variant ids that have no entry of
// their own and toggle sub-state ids to their root.
func (r *Registry) Key(id string) *Key {
	if k := r.entries[id]; k != nil {
		return k
	}
	if root, ok := r.toggleRoot[id]; ok {
		return r.entries[root]
	}
	if resolved, ok := r.Resolve(id); ok {
		return r.entries[resolved]
	}
	return nil
}

// Resolve maps an id to a registered key id. Registered ids resolve to
// themselves; an unregistered variant id resolves to the first registered
// key of its variant group.
func (r *Registry) Resolve(id string) (string, bool) {
	if _, ok := r.entries[id]; ok {
		return id, true
	}
	gi, ok := r.group[id]
	if !ok {
		return "", false
	}
	for _, m := range r.members[gi] {
		if _, ok := r.entries[m]; ok {
			return m, true
		}
	}
	return "", false
}

// Has reports whether id is a registered key or a toggle sub-state id.
func (r *Registry) Has(id string) bool {
	if _, ok := r.entries[id]; ok {
		return true
	}
	_, ok := r.toggleRoot[id]
	return ok
}

// Len returns the number of registered keys.
func (r *Registry) Len() int {
	return len(r.order)
}

// All returns the keys in registration order.
func (r *Registry) All() []*Key {
	out := make([]*Key, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.entries[id])
	}
	return out
}

// Equivalent reports whether a and b are the same id or variants of each other.
func (r *Registry) Equivalent(a, b string) bool {
	if a == b {
		return true
	}
	ga, ok := r.group[a]
	if !ok {
		return false
	}
	gb, ok := r.group[b]
	return ok && ga == gb
}

// Variants returns every id interchangeable with id, excluding id itself.
func (r *Registry) Variants(id string) []string {
	gi, ok := r.group[id]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(r.members[gi])-1)
	for _, m := range r.members[gi] {
		if m != id {
			out = append(out, m)
		}
	}
	return out
}

// ToggleRoot returns the root key id of a toggle sub-state id.
func (r *Registry) ToggleRoot(id string) (string, bool) {
	root, ok := r.toggleRoot[id]
	return root, ok
}

// IsToggleState reports whether id is a toggle sub-state id.
func (r *Registry) IsToggleState(id string) bool {
	_, ok := r.toggleRoot[id]
	return ok
}

// IsToggleOn reports whether id is the "on" sub-state of a toggle.
func (r *Registry) IsToggleOn(id string) bool {
	root, ok := r.toggleRoot[id]
	return ok && r.entries[root].ToggleOnID == id
}

// IsModifierID reports whether id resolves to a modifier key.
// Toggle sub-states are never modifiers.
func (r *Registry) IsModifierID(id string) bool {
	if r.IsToggleState(id) {
		return false
	}
	k := r.Key(id)
	return k != nil && k.IsModifierKey()
}

// IsTriggerID reports whether id is a trigger key: neither a modifier nor a
// toggle sub-state.
func (r *Registry) IsTriggerID(id string) bool {
	return !r.IsToggleState(id) && !r.IsModifierID(id)
}

// IsWheelID reports whether id is a wheel key or a variant of one.
func (r *Registry) IsWheelID(id string) bool {
	if IsWheelID(id) {
		return true
	}
	for _, v := range r.Variants(id) {
		if IsWheelID(v) {
			return true
		}
	}
	return false
}

// NativeModifiers returns the ids of native modifier keys.
func (r *Registry) NativeModifiers() []string {
	return append([]string(nil), r.nativeModifiers...)
}

// NativeToggles returns the ids of native toggle keys.
func (r *Registry) NativeToggles() []string {
	return append([]string(nil), r.nativeToggles...)
}

// Bounds returns the bounding box of all positioned keys.
func (r *Registry) Bounds() Bounds {
	return r.bounds
}

// Clone returns a deep copy, used for speculative validation.
func (r *Registry) Clone() *Registry {
	c := &Registry{entries: make(map[string]*Key, len(r.entries))}
	for _, id := range r.order {
		c.entries[id] = r.entries[id].Clone()
		c.order = append(c.order, id)
	}
	c.Reindex(nil)
	return c
}
