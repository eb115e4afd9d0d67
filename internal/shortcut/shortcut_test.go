package shortcut

import (
	"testing"

	"github.com/dshills/keychord/internal/chord"
	"github.com/dshills/keychord/internal/errs"
	"github.com/dshills/keychord/internal/key"
)

func testRegistry() *key.Registry {
	return key.NewRegistry(
		key.MustNew("Ctrl", key.WithModifier(key.ModifierEmulated), key.WithVariants("ControlLeft", "ControlRight")),
		key.MustNew("Shift", key.WithModifier(key.ModifierEmulated)),
		key.MustNew("KeyA"),
		key.MustNew("KeyB"),
		key.MustNew("KeyC"),
		key.MustNew("Caps", key.WithToggle(key.ToggleEmulated)),
	)
}

func TestNew(t *testing.T) {
	reg := testRegistry()
	s, err := New(chord.Parse("Ctrl+KeyA"), reg, WithCommand("save"), WithCondition("editor"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if !s.Enabled || s.Command != "save" || s.Condition.Text != "editor" {
		t.Errorf("New() = %+v", s)
	}
	if got := s.String(); got != "Ctrl+KeyA -> save" {
		t.Errorf("String() = %q", got)
	}
}

func TestValidateChain(t *testing.T) {
	reg := testRegistry()
	tests := []struct {
		name  string
		chain chord.Chain
		want  errs.Code
	}{
		{"valid", chord.Parse("Ctrl+KeyA KeyB"), ""},
		{"empty chain", chord.Chain{}, errs.InvalidValue},
		{"empty chord", chord.Chain{{"KeyA"}, {}}, errs.InvalidValue},
		{"two triggers", chord.Parse("KeyA+KeyB"), errs.ChordWithMultipleTriggerKeys},
		{"duplicate", chord.Parse("Ctrl+ControlLeft+KeyA"), errs.ChordWithDuplicateKey},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateChain(tt.chain, reg)
			if tt.want == "" {
				if err != nil {
					t.Errorf("ValidateChain() error = %v", err)
				}
				return
			}
			if got := errs.CodeOf(err); got != tt.want {
				t.Errorf("ValidateChain() code = %q, want %q (err %v)", got, tt.want, err)
			}
		})
	}
}

func TestUsesKey(t *testing.T) {
	reg := testRegistry()
	tests := []struct {
		chain string
		id    string
		want  bool
	}{
		{"Ctrl+KeyA", "KeyA", true},
		{"Ctrl+KeyA", "Ctrl", true},
		{"ControlLeft+KeyA", "Ctrl", true},
		{"Caps:on+KeyA", "Caps", true},
		{"Ctrl+KeyA", "KeyB", false},
	}
	for _, tt := range tests {
		s := &Shortcut{Chain: chord.Parse(tt.chain), Enabled: true}
		if got := s.UsesKey(tt.id, reg); got != tt.want {
			t.Errorf("%q.UsesKey(%q) = %v, want %v", tt.chain, tt.id, got, tt.want)
		}
	}
}

func TestRegistry(t *testing.T) {
	reg := testRegistry()
	a := &Shortcut{Chain: chord.Parse("Ctrl+KeyA"), Command: "x"}
	b := &Shortcut{Chain: chord.Parse("KeyB"), Command: "y"}
	c := &Shortcut{Chain: chord.Parse("KeyC"), Command: "x"}
	r := NewRegistry(a, b)
	r.Insert(c)

	if r.Len() != 3 || r.Index(c) != 2 {
		t.Fatalf("registry = %v", r.All())
	}
	if got := r.UsingKey("Ctrl", reg); len(got) != 1 || got[0] != a {
		t.Errorf("UsingKey(Ctrl) = %v", got)
	}
	if got := r.UsingCommand("x"); len(got) != 2 || got[0] != a || got[1] != c {
		t.Errorf("UsingCommand(x) = %v", got)
	}

	r.Delete(b)
	if r.Contains(b) || r.Len() != 2 {
		t.Errorf("Delete() left %v", r.All())
	}
}

func TestClone(t *testing.T) {
	s := &Shortcut{Chain: chord.Parse("KeyA"), Enabled: true}
	c := s.Clone()
	c.Chain[0][0] = "KeyB"
	if s.Chain[0][0] != "KeyA" {
		t.Error("Clone() shares the chain")
	}
}
