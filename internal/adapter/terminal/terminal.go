// Package terminal feeds tcell terminal events into a manager.
//
// Terminals report key presses only, so every key event becomes a keydown
// batch followed by a keyup batch. Modifiers arrive as a mask on the event
// and are reported through the native sampler; register them as native
// modifiers (Shift, Control, Alt, Meta by default) for shortcuts such as
// Control+KeyS to match. Mouse events carry the set of held buttons; the
// adapter diffs it against the previous event to produce transitions.
package terminal

import (
	"fmt"
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/keychord/internal/key"
	"github.com/dshills/keychord/internal/manager"
)

// Default native modifier ids.
const (
	Shift   = "Shift"
	Control = "Control"
	Alt     = "Alt"
	Meta    = "Meta"
)

// Adapter converts tcell events into batches.
type Adapter struct {
	// Modifiers maps modifier mask bits to native modifier key ids.
	Modifiers map[tcell.ModMask]string

	buttons tcell.ButtonMask
}

// New creates an adapter with the default modifier ids.
func New() *Adapter {
	return &Adapter{
		Modifiers: map[tcell.ModMask]string{
			tcell.ModShift: Shift,
			tcell.ModCtrl:  Control,
			tcell.ModAlt:   Alt,
			tcell.ModMeta:  Meta,
		},
	}
}

// Feed converts ev and sends the resulting batches to m. It returns the
// number of batches sent.
func (a *Adapter) Feed(m *manager.Manager, ev tcell.Event) int {
	batches := a.Batches(ev)
	for _, b := range batches {
		m.Input(b)
	}
	return len(batches)
}

// Batches converts ev. Events other than keys and mouse yield nothing.
func (a *Adapter) Batches(ev tcell.Event) []manager.Batch {
	switch e := ev.(type) {
	case *tcell.EventKey:
		id, mod := KeyID(e)
		return a.press(id, mod, e)
	case *tcell.EventMouse:
		return a.mouse(e)
	default:
		return nil
	}
}

// press returns a keydown batch and a keyup batch for id.
func (a *Adapter) press(id string, mod tcell.ModMask, raw tcell.Event) []manager.Batch {
	sample := a.sampler(mod)
	return []manager.Batch{
		{Transitions: []manager.Transition{{ID: id, Down: true}}, Native: sample, Raw: raw},
		{Transitions: []manager.Transition{{ID: id}}, Native: sample, Raw: raw},
	}
}

// mouseButtons maps tcell buttons to mouse button ids in button order.
var mouseButtons = []struct {
	mask tcell.ButtonMask
	id   string
}{
	{tcell.ButtonPrimary, "0"},
	{tcell.ButtonMiddle, "1"},
	{tcell.ButtonSecondary, "2"},
	{tcell.Button4, "3"},
	{tcell.Button5, "4"},
}

func (a *Adapter) mouse(e *tcell.EventMouse) []manager.Batch {
	mod := e.Modifiers()
	held := e.Buttons()
	sample := a.sampler(mod)

	var out []manager.Batch
	var trans []manager.Transition
	for _, b := range mouseButtons {
		was, is := a.buttons&b.mask != 0, held&b.mask != 0
		if was != is {
			trans = append(trans, manager.Transition{ID: b.id, Down: is})
		}
	}
	if len(trans) > 0 {
		out = append(out, manager.Batch{Transitions: trans, Native: sample, Raw: e})
	}
	a.buttons = held & (tcell.ButtonPrimary | tcell.ButtonMiddle | tcell.ButtonSecondary | tcell.Button4 | tcell.Button5)

	if held&tcell.WheelUp != 0 {
		out = append(out, a.press(key.WheelUp, mod, e)...)
	}
	if held&tcell.WheelDown != 0 {
		out = append(out, a.press(key.WheelDown, mod, e)...)
	}
	return out
}

// sampler reports the adapter's modifiers as active or inactive from mod.
func (a *Adapter) sampler(mod tcell.ModMask) manager.Sampler {
	return func(id string) manager.NativeState {
		for bit, name := range a.Modifiers {
			if name == id {
				if mod&bit != 0 {
					return manager.NativeActive
				}
				return manager.NativeInactive
			}
		}
		return manager.NativeUnknown
	}
}

// namedKeys maps special tcell keys to key ids.
var namedKeys = map[tcell.Key]string{
	tcell.KeyEnter:      "Enter",
	tcell.KeyTab:        "Tab",
	tcell.KeyBacktab:    "Tab",
	tcell.KeyBackspace:  "Backspace",
	tcell.KeyBackspace2: "Backspace",
	tcell.KeyEscape:     "Escape",
	tcell.KeyDelete:     "Delete",
	tcell.KeyInsert:     "Insert",
	tcell.KeyHome:       "Home",
	tcell.KeyEnd:        "End",
	tcell.KeyPgUp:       "PageUp",
	tcell.KeyPgDn:       "PageDown",
	tcell.KeyUp:         "ArrowUp",
	tcell.KeyDown:       "ArrowDown",
	tcell.KeyLeft:       "ArrowLeft",
	tcell.KeyRight:      "ArrowRight",
}

// punctuation maps unshifted punctuation runes to key ids.
var punctuation = map[rune]string{
	' ':  "Space",
	'-':  "Minus",
	'=':  "Equal",
	'[':  "BracketLeft",
	']':  "BracketRight",
	'\\': "Backslash",
	';':  "Semicolon",
	'\'': "Quote",
	',':  "Comma",
	'.':  "Period",
	'/':  "Slash",
	'`':  "Backquote",
}

// KeyID names the key of a tcell key event using physical key codes
// ("KeyA", "Digit1", "Enter", "F5") and returns the modifiers held with
// it. Control letters and upper-case letters imply Control and Shift.
// Runes without a code are returned as themselves.
func KeyID(e *tcell.EventKey) (string, tcell.ModMask) {
	mod := e.Modifiers()
	k := e.Key()

	if k == tcell.KeyBacktab {
		mod |= tcell.ModShift
	}
	if id, ok := namedKeys[k]; ok {
		return id, mod
	}
	if k >= tcell.KeyF1 && k <= tcell.KeyF64 {
		return fmt.Sprintf("F%d", int(k-tcell.KeyF1)+1), mod
	}
	if k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		return fmt.Sprintf("Key%c", 'A'+rune(k-tcell.KeyCtrlA)), mod | tcell.ModCtrl
	}
	if k != tcell.KeyRune {
		return e.Name(), mod
	}

	r := e.Rune()
	switch {
	case r >= 'a' && r <= 'z':
		return "Key" + string(unicode.ToUpper(r)), mod
	case r >= 'A' && r <= 'Z':
		return "Key" + string(r), mod | tcell.ModShift
	case r >= '0' && r <= '9':
		return "Digit" + string(r), mod
	}
	if id, ok := punctuation[r]; ok {
		return id, mod
	}
	return string(r), mod
}
