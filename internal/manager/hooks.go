package manager

import (
	"sort"

	"github.com/dshills/keychord/internal/command"
	"github.com/dshills/keychord/internal/key"
	"github.com/dshills/keychord/internal/shortcut"
)

// AnyEvent registers a hook for every event of an entity kind.
const AnyEvent = "*"

// Collection event names.
const (
	KeysAdd         = "keys@add"
	KeysRemove      = "keys@remove"
	CommandsAdd     = "commands@add"
	CommandsRemove  = "commands@remove"
	ShortcutsAdd    = "shortcuts@add"
	ShortcutsRemove = "shortcuts@remove"
)

// HookID identifies a registered hook.
type HookID uint64

// KeyChange describes a key property change.
type KeyChange struct {
	Key   *key.Key
	Prop  KeyProp
	Value any
}

// CommandChange describes a command property change.
type CommandChange struct {
	Command *command.Command
	Prop    CommandProp
	Value   any
}

// ShortcutChange describes a shortcut property change.
type ShortcutChange struct {
	Shortcut *shortcut.Shortcut
	Prop     ShortcutProp
	Value    any
}

// ManagerChange describes a manager property change.
type ManagerChange struct {
	Prop  ManagerProp
	Value any
}

// EntriesChange describes a collection change. Entry is a *key.Key,
// *command.Command or *shortcut.Shortcut.
type EntriesChange struct {
	Event string
	Entry any
}

// Hook and guard signatures. Guards return an error to veto a change.
type (
	KeyHook       func(m *Manager, c KeyChange)
	KeyGuard      func(m *Manager, c KeyChange) error
	CommandHook   func(m *Manager, c CommandChange)
	CommandGuard  func(m *Manager, c CommandChange) error
	ShortcutHook  func(m *Manager, c ShortcutChange)
	ShortcutGuard func(m *Manager, c ShortcutChange) error
	ManagerHook   func(m *Manager, c ManagerChange)
	ManagerGuard  func(m *Manager, c ManagerChange) error
	EntriesHook   func(m *Manager, c EntriesChange)
	EntriesGuard  func(m *Manager, c EntriesChange) error
)

type hookEntry[T any] struct {
	id    HookID
	event string
	fn    T
}

// hookList is an ordered list of callbacks of one signature, keyed by event.
type hookList[T any] struct {
	entries []hookEntry[T]
}

func (l *hookList[T]) add(id HookID, event string, fn T) {
	l.entries = append(l.entries, hookEntry[T]{id: id, event: event, fn: fn})
}

func (l *hookList[T]) remove(id HookID) bool {
	for i := range l.entries {
		if l.entries[i].id == id {
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
			return true
		}
	}
	return false
}

// matching returns the callbacks registered for event or AnyEvent, in
// registration order.
func (l *hookList[T]) matching(event string) []T {
	var out []T
	for _, e := range l.entries {
		if e.event == event || e.event == AnyEvent {
			out = append(out, e.fn)
		}
	}
	return out
}

func (l *hookList[T]) len() int {
	return len(l.entries)
}

// Hooks holds the observer and guard callbacks of a manager.
type Hooks struct {
	nextID HookID

	onKey      hookList[KeyHook]
	canKey     hookList[KeyGuard]
	onCommand  hookList[CommandHook]
	canCommand hookList[CommandGuard]
	onShortcut hookList[ShortcutHook]
	canShort   hookList[ShortcutGuard]
	onManager  hookList[ManagerHook]
	canManager hookList[ManagerGuard]
	onEntries  hookList[EntriesHook]
	canEntries hookList[EntriesGuard]
}

func (h *Hooks) id() HookID {
	h.nextID++
	return h.nextID
}

// OnKey registers fn for changes of prop (or AnyEvent).
func (h *Hooks) OnKey(prop KeyProp, fn KeyHook) HookID {
	id := h.id()
	h.onKey.add(id, string(prop), fn)
	return id
}

// GuardKey registers a validation guard for prop (or AnyEvent).
func (h *Hooks) GuardKey(prop KeyProp, fn KeyGuard) HookID {
	id := h.id()
	h.canKey.add(id, string(prop), fn)
	return id
}

// OnCommand registers fn for changes of prop (or AnyEvent).
func (h *Hooks) OnCommand(prop CommandProp, fn CommandHook) HookID {
	id := h.id()
	h.onCommand.add(id, string(prop), fn)
	return id
}

// GuardCommand registers a validation guard for prop (or AnyEvent).
func (h *Hooks) GuardCommand(prop CommandProp, fn CommandGuard) HookID {
	id := h.id()
	h.canCommand.add(id, string(prop), fn)
	return id
}

// OnShortcut registers fn for changes of prop (or AnyEvent).
func (h *Hooks) OnShortcut(prop ShortcutProp, fn ShortcutHook) HookID {
	id := h.id()
	h.onShortcut.add(id, string(prop), fn)
	return id
}

// GuardShortcut registers a validation guard for prop (or AnyEvent).
func (h *Hooks) GuardShortcut(prop ShortcutProp, fn ShortcutGuard) HookID {
	id := h.id()
	h.canShort.add(id, string(prop), fn)
	return id
}

// OnManager registers fn for changes of prop (or AnyEvent).
func (h *Hooks) OnManager(prop ManagerProp, fn ManagerHook) HookID {
	id := h.id()
	h.onManager.add(id, string(prop), fn)
	return id
}

// GuardManager registers a validation guard for prop (or AnyEvent).
func (h *Hooks) GuardManager(prop ManagerProp, fn ManagerGuard) HookID {
	id := h.id()
	h.canManager.add(id, string(prop), fn)
	return id
}

// OnEntries registers fn for a collection event such as KeysAdd (or AnyEvent).
func (h *Hooks) OnEntries(event string, fn EntriesHook) HookID {
	id := h.id()
	h.onEntries.add(id, event, fn)
	return id
}

// GuardEntries registers a validation guard for a collection event.
func (h *Hooks) GuardEntries(event string, fn EntriesGuard) HookID {
	id := h.id()
	h.canEntries.add(id, event, fn)
	return id
}

// Remove unregisters a hook or guard. It reports whether id was found.
func (h *Hooks) Remove(id HookID) bool {
	return h.onKey.remove(id) || h.canKey.remove(id) ||
		h.onCommand.remove(id) || h.canCommand.remove(id) ||
		h.onShortcut.remove(id) || h.canShort.remove(id) ||
		h.onManager.remove(id) || h.canManager.remove(id) ||
		h.onEntries.remove(id) || h.canEntries.remove(id)
}

// Count returns the number of registered hooks and guards.
func (h *Hooks) Count() int {
	return h.onKey.len() + h.canKey.len() + h.onCommand.len() + h.canCommand.len() +
		h.onShortcut.len() + h.canShort.len() + h.onManager.len() + h.canManager.len() +
		h.onEntries.len() + h.canEntries.len()
}

// IDs returns every registered hook id in ascending order.
func (h *Hooks) IDs() []HookID {
	var ids []HookID
	collect := func(n int, get func(int) HookID) {
		for i := 0; i < n; i++ {
			ids = append(ids, get(i))
		}
	}
	collect(h.onKey.len(), func(i int) HookID { return h.onKey.entries[i].id })
	collect(h.canKey.len(), func(i int) HookID { return h.canKey.entries[i].id })
	collect(h.onCommand.len(), func(i int) HookID { return h.onCommand.entries[i].id })
	collect(h.canCommand.len(), func(i int) HookID { return h.canCommand.entries[i].id })
	collect(h.onShortcut.len(), func(i int) HookID { return h.onShortcut.entries[i].id })
	collect(h.canShort.len(), func(i int) HookID { return h.canShort.entries[i].id })
	collect(h.onManager.len(), func(i int) HookID { return h.onManager.entries[i].id })
	collect(h.canManager.len(), func(i int) HookID { return h.canManager.entries[i].id })
	collect(h.onEntries.len(), func(i int) HookID { return h.onEntries.entries[i].id })
	collect(h.canEntries.len(), func(i int) HookID { return h.canEntries.entries[i].id })
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
