// Package emulator drives a Manager from a compact textual event script.
//
// A script is a whitespace-separated list of tokens:
//
//	KeyA        press then release
//	KeyA+       press only
//	KeyA-       release only
//	0 to 5      mouse buttons, press then release
//	wheelUp     wheel tick up (wheelDown likewise)
//
// The emulator keeps its own view of which keys are held and which native
// toggles are on, and reports that view to the manager as the native sample
// of every event. An Emulator is not safe for concurrent use.
package emulator

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dshills/keychord/internal/key"
	"github.com/dshills/keychord/internal/manager"
)

// ErrInvalidToken is returned for a token the emulator cannot send.
var ErrInvalidToken = errors.New("invalid event token")

// Event is the raw value attached to each emulated batch.
type Event struct {
	Token string
	ID    string
	Down  bool
}

// step is one parsed token.
type step struct {
	token string
	id    string
	down  bool
	up    bool
}

// Emulator fires scripted events at a manager.
type Emulator struct {
	m       *manager.Manager
	held    map[string]bool
	toggles map[string]bool
}

// New creates an emulator for m.
func New(m *manager.Manager) *Emulator {
	return &Emulator{
		m:       m,
		held:    make(map[string]bool),
		toggles: make(map[string]bool),
	}
}

// parse splits a script into steps.
func parse(script string) ([]step, error) {
	var steps []step
	for _, tok := range strings.Fields(script) {
		s := step{token: tok, down: true, up: true}
		name := tok
		switch {
		case len(tok) > 1 && strings.HasSuffix(tok, "+"):
			name, s.up = tok[:len(tok)-1], false
		case len(tok) > 1 && strings.HasSuffix(tok, "-"):
			name, s.down = tok[:len(tok)-1], false
		}
		switch strings.ToLower(name) {
		case "wheelup":
			name = key.WheelUp
		case "wheeldown":
			name = key.WheelDown
		}
		if key.IsWheelID(name) && (!s.down || !s.up) {
			return nil, fmt.Errorf("%w: wheel %q cannot be held", ErrInvalidToken, tok)
		}
		s.id = name
		steps = append(steps, s)
	}
	return steps, nil
}

// Fire runs a script. Ids listed in native are reported as natively active
// for the whole call; a listed native toggle is also remembered as on. An
// empty script sends a single sample-only batch.
//
// Fire returns an error only for a malformed script, in which case nothing
// is sent. Unknown key ids are forwarded and reported by the manager.
func (e *Emulator) Fire(script string, native ...string) error {
	steps, err := parse(script)
	if err != nil {
		return err
	}

	reg := e.m.Registry()
	forced := make(map[string]bool, len(native))
	for _, id := range native {
		root, ok := reg.Resolve(id)
		if !ok {
			if r, isState := reg.ToggleRoot(id); isState {
				root, ok = r, true
			}
		}
		if !ok {
			continue
		}
		forced[root] = true
		if k := reg.Get(root); k != nil && k.IsToggle == key.ToggleNative {
			e.toggles[root] = true
		}
	}
	sample := e.sampler(reg, forced)

	if len(steps) == 0 {
		e.m.Input(manager.Batch{Native: sample, Raw: Event{}})
		return nil
	}
	for _, s := range steps {
		if s.down {
			e.press(reg, s.id)
			e.m.Input(manager.Batch{
				Transitions: []manager.Transition{{ID: s.id, Down: true}},
				Native:      sample,
				Raw:         Event{Token: s.token, ID: s.id, Down: true},
			})
		}
		if s.up {
			delete(e.held, s.id)
			e.m.Input(manager.Batch{
				Transitions: []manager.Transition{{ID: s.id}},
				Native:      sample,
				Raw:         Event{Token: s.token, ID: s.id},
			})
		}
	}
	return nil
}

// press records a held key and flips native toggles on a fresh press.
func (e *Emulator) press(reg *key.Registry, id string) {
	if e.held[id] {
		return
	}
	e.held[id] = true
	root, ok := reg.Resolve(id)
	if !ok {
		return
	}
	if k := reg.Get(root); k != nil && k.IsToggle == key.ToggleNative {
		e.toggles[root] = !e.toggles[root]
	}
}

// sampler reports the emulator's view of native keys.
func (e *Emulator) sampler(reg *key.Registry, forced map[string]bool) manager.Sampler {
	return func(id string) manager.NativeState {
		if forced[id] {
			return manager.NativeActive
		}
		k := reg.Get(id)
		if k == nil {
			return manager.NativeUnknown
		}
		if k.IsToggle == key.ToggleNative {
			on, known := e.toggles[id]
			if !known {
				return manager.NativeUnknown
			}
			if on {
				return manager.NativeActive
			}
			return manager.NativeInactive
		}
		if k.IsModifier != key.ModifierNative {
			return manager.NativeUnknown
		}
		for held := range e.held {
			if reg.Equivalent(held, id) {
				return manager.NativeActive
			}
		}
		return manager.NativeInactive
	}
}

// Held returns the ids the emulator currently holds, sorted.
func (e *Emulator) Held() []string {
	out := make([]string, 0, len(e.held))
	for id := range e.held {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Reset forgets held keys and toggle states and force-clears the manager.
func (e *Emulator) Reset() {
	clear(e.held)
	clear(e.toggles)
	e.m.ForceClear()
}
