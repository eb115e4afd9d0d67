package terminal

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/keychord/internal/chord"
	"github.com/dshills/keychord/internal/command"
	"github.com/dshills/keychord/internal/key"
	"github.com/dshills/keychord/internal/manager"
	"github.com/dshills/keychord/internal/shortcut"
)

func TestKeyID(t *testing.T) {
	tests := []struct {
		name    string
		ev      *tcell.EventKey
		want    string
		wantMod tcell.ModMask
	}{
		{"letter", tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModNone), "KeyA", tcell.ModNone},
		{"upper", tcell.NewEventKey(tcell.KeyRune, 'Q', tcell.ModNone), "KeyQ", tcell.ModShift},
		{"digit", tcell.NewEventKey(tcell.KeyRune, '7', tcell.ModAlt), "Digit7", tcell.ModAlt},
		{"space", tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone), "Space", tcell.ModNone},
		{"punctuation", tcell.NewEventKey(tcell.KeyRune, '/', tcell.ModNone), "Slash", tcell.ModNone},
		{"ctrl letter", tcell.NewEventKey(tcell.KeyCtrlS, 0, tcell.ModCtrl), "KeyS", tcell.ModCtrl},
		{"enter", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), "Enter", tcell.ModNone},
		{"arrow", tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModShift), "ArrowLeft", tcell.ModShift},
		{"function", tcell.NewEventKey(tcell.KeyF5, 0, tcell.ModNone), "F5", tcell.ModNone},
		{"backtab", tcell.NewEventKey(tcell.KeyBacktab, 0, tcell.ModNone), "Tab", tcell.ModShift},
		{"other rune", tcell.NewEventKey(tcell.KeyRune, 'é', tcell.ModNone), "é", tcell.ModNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, mod := KeyID(tt.ev)
			if got != tt.want {
				t.Errorf("KeyID() = %q, want %q", got, tt.want)
			}
			if mod&tt.wantMod != tt.wantMod {
				t.Errorf("KeyID() mod = %v, want %v set", mod, tt.wantMod)
			}
		})
	}
}

type counter struct {
	downs, ups int
}

func newManager(t *testing.T, chain string, c *counter, keys ...*key.Key) *manager.Manager {
	t.Helper()
	m := manager.New(manager.Options{})
	for _, k := range keys {
		if err := m.AddKey(k, manager.CheckFull); err != nil {
			t.Fatalf("AddKey(%s) error = %v", k.ID, err)
		}
	}
	cmd := command.MustNew("x", command.WithExecute(func(ctx command.ExecuteContext) {
		if ctx.IsKeydown {
			c.downs++
		} else {
			c.ups++
		}
	}))
	if err := m.AddCommand(cmd, manager.CheckFull); err != nil {
		t.Fatalf("AddCommand() error = %v", err)
	}
	s := &shortcut.Shortcut{Chain: chord.Parse(chain), Command: "x", Enabled: true}
	if err := m.AddShortcut(s, manager.CheckFull); err != nil {
		t.Fatalf("AddShortcut() error = %v", err)
	}
	return m
}

func TestFeedModifiedKey(t *testing.T) {
	c := &counter{}
	m := newManager(t, "Control+KeyS", c,
		key.MustNew(Control, key.WithModifier(key.ModifierNative)),
		key.MustNew("KeyS"))
	a := New()

	if n := a.Feed(m, tcell.NewEventKey(tcell.KeyRune, 's', tcell.ModNone)); n != 2 {
		t.Fatalf("Feed() sent %d batches, want 2", n)
	}
	if c.downs != 0 {
		t.Errorf("plain s triggered the shortcut")
	}

	a.Feed(m, tcell.NewEventKey(tcell.KeyCtrlS, 0, tcell.ModCtrl))
	if c.downs != 1 || c.ups != 1 {
		t.Errorf("downs = %d, ups = %d, want 1, 1", c.downs, c.ups)
	}
	if !m.Key(Control).Pressed {
		t.Error("Control not pressed after a Ctrl event")
	}

	// The next event without the modifier releases it.
	a.Feed(m, tcell.NewEventKey(tcell.KeyRune, 's', tcell.ModNone))
	if m.Key(Control).Pressed {
		t.Error("Control still pressed")
	}
	if c.downs != 1 {
		t.Errorf("downs = %d, want 1", c.downs)
	}
}

func TestMouseButtons(t *testing.T) {
	c := &counter{}
	m := newManager(t, "0", c, key.MustNew("0"), key.MustNew("2"))
	a := New()

	if n := a.Feed(m, tcell.NewEventMouse(1, 1, tcell.ButtonPrimary, tcell.ModNone)); n != 1 {
		t.Fatalf("press sent %d batches, want 1", n)
	}
	// Drag with the button still held sends nothing.
	if n := a.Feed(m, tcell.NewEventMouse(2, 1, tcell.ButtonPrimary, tcell.ModNone)); n != 0 {
		t.Errorf("drag sent %d batches, want 0", n)
	}
	if c.downs != 1 || c.ups != 0 {
		t.Errorf("downs = %d, ups = %d, want 1, 0", c.downs, c.ups)
	}
	a.Feed(m, tcell.NewEventMouse(2, 1, tcell.ButtonNone, tcell.ModNone))
	if c.ups != 1 {
		t.Errorf("ups = %d, want 1", c.ups)
	}
}

func TestWheel(t *testing.T) {
	c := &counter{}
	m := newManager(t, key.WheelDown, c, key.MustNew(key.WheelUp), key.MustNew(key.WheelDown))
	a := New()

	if n := a.Feed(m, tcell.NewEventMouse(0, 0, tcell.WheelDown, tcell.ModNone)); n != 2 {
		t.Fatalf("wheel sent %d batches, want 2", n)
	}
	if c.downs != 1 || c.ups != 1 {
		t.Errorf("downs = %d, ups = %d, want 1, 1", c.downs, c.ups)
	}
}

func TestIgnoredEvents(t *testing.T) {
	if b := New().Batches(tcell.NewEventResize(80, 24)); b != nil {
		t.Errorf("Batches(resize) = %v, want nil", b)
	}
}
