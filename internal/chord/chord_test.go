package chord

import (
	"testing"

	"github.com/dshills/keychord/internal/key"
)

func testRegistry() *key.Registry {
	return key.NewRegistry(
		key.MustNew("Ctrl", key.WithModifier(key.ModifierEmulated), key.WithVariants("ControlLeft", "ControlRight")),
		key.MustNew("Shift", key.WithModifier(key.ModifierEmulated)),
		key.MustNew("KeyA"),
		key.MustNew("KeyB"),
		key.MustNew("KeyC"),
		key.MustNew(key.WheelUp),
		key.MustNew(key.WheelDown),
		key.MustNew("T", key.WithToggle(key.ToggleEmulated)),
	)
}

func TestParseAndString(t *testing.T) {
	tests := []struct {
		in    string
		want  string
		count int
	}{
		{"Ctrl+KeyA", "Ctrl+KeyA", 1},
		{"Ctrl+KeyK  Ctrl+KeyC", "Ctrl+KeyK Ctrl+KeyC", 2},
		{"Ctrl++KeyA", "Ctrl+KeyA", 1},
		{"", "", 0},
	}
	for _, tt := range tests {
		got := Parse(tt.in)
		if len(got) != tt.count {
			t.Errorf("Parse(%q) has %d chords, want %d", tt.in, len(got), tt.count)
			continue
		}
		if got.String() != tt.want {
			t.Errorf("Parse(%q) = %q, want %q", tt.in, got.String(), tt.want)
		}
	}
}

func TestRawRoundTrip(t *testing.T) {
	c := Chain{{"Ctrl", "KeyA"}, {"KeyB"}}
	raw := c.Raw()
	raw[0][0] = "Shift"
	if c[0][0] != "Ctrl" {
		t.Error("Raw() shares storage with the chain")
	}
	back := FromRaw([][]string{{"KeyA"}, {}})
	if len(back) != 2 || len(back[1]) != 0 {
		t.Errorf("FromRaw() = %v", back)
	}
}

func TestIsIdleAndLast(t *testing.T) {
	if !(Chain{{}}).IsIdle() || !(Chain{}).IsIdle() {
		t.Error("IsIdle() = false for an empty chain")
	}
	if (Chain{{"KeyA"}, {}}).IsIdle() {
		t.Error("IsIdle() = true for a chain with keys")
	}
	if got := (Chain{{"KeyA"}, {"KeyB"}}).Last(); len(got) != 1 || got[0] != "KeyB" {
		t.Errorf("Last() = %v", got)
	}
	if (Chain{}).Last() != nil {
		t.Error("Last() of empty chain is not nil")
	}
}

func TestContainsKey(t *testing.T) {
	reg := testRegistry()
	c := Chord{"ControlLeft", "KeyA"}
	if ChordContainsKey(c, "Ctrl", reg, false) {
		t.Error("ChordContainsKey matched a variant without allowVariants")
	}
	if !ChordContainsKey(c, "Ctrl", reg, true) {
		t.Error("ChordContainsKey missed a variant with allowVariants")
	}
	if !ContainsKey(Chain{{"KeyB"}, c}, "KeyA", reg, false) {
		t.Error("ContainsKey missed a key in the second chord")
	}
}

func TestDedupeAndRemove(t *testing.T) {
	reg := testRegistry()
	got := DedupeKeys(Chord{"Ctrl", "ControlLeft", "KeyA", "KeyA"}, reg)
	if len(got) != 2 || got[0] != "Ctrl" || got[1] != "KeyA" {
		t.Errorf("DedupeKeys() = %v, want [Ctrl KeyA]", got)
	}

	rest := RemoveKeys(Chord{"Ctrl", "Shift", "KeyA"}, Chord{"ControlRight", "KeyA"}, reg, true)
	if len(rest) != 1 || rest[0] != "Shift" {
		t.Errorf("RemoveKeys() = %v, want [Shift]", rest)
	}
}

func TestEqualsKeys(t *testing.T) {
	reg := testRegistry()
	v := EqualOptions{AllowVariants: true}
	tests := []struct {
		name   string
		a, b   Chain
		length int
		opts   EqualOptions
		want   bool
	}{
		{"order insensitive", Chain{{"Ctrl", "KeyA"}}, Chain{{"KeyA", "Ctrl"}}, -1, EqualOptions{}, true},
		{"variant without option", Chain{{"Ctrl", "KeyA"}}, Chain{{"ControlLeft", "KeyA"}}, -1, EqualOptions{}, false},
		{"variant with option", Chain{{"Ctrl", "KeyA"}}, Chain{{"ControlLeft", "KeyA"}}, -1, v, true},
		{"different lengths", Chain{{"KeyA"}}, Chain{{"KeyA"}, {"KeyB"}}, -1, v, false},
		{"prefix length", Chain{{"KeyA"}}, Chain{{"KeyA"}, {"KeyB"}}, 1, v, true},
		{"prefix too long", Chain{{"KeyA"}}, Chain{{"KeyA"}, {"KeyB"}}, 2, v, false},
		{"different chords", Chain{{"KeyA"}, {"KeyC"}}, Chain{{"KeyA"}, {"KeyB"}}, -1, v, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EqualsKeys(tt.a, tt.b, reg, tt.length, tt.opts); got != tt.want {
				t.Errorf("EqualsKeys() = %t, want %t", got, tt.want)
			}
		})
	}
}

func TestChainContainsSubset(t *testing.T) {
	reg := testRegistry()
	chain := Chain{{"Ctrl", "KeyA"}, {"Ctrl", "KeyB"}}
	tests := []struct {
		name      string
		chain     Chain
		candidate Chain
		opts      SubsetOptions
		want      bool
	}{
		{"empty candidate", chain, nil, SubsetOptions{}, true},
		{"empty candidate, empty chain, only subset", nil, nil, SubsetOptions{OnlySubset: true}, false},
		{"partial first chord", chain, Chain{{"Ctrl"}}, SubsetOptions{}, true},
		{"full first chord", chain, Chain{{"Ctrl", "KeyA"}}, SubsetOptions{}, true},
		{"partial second chord", chain, Chain{{"Ctrl", "KeyA"}, {"Ctrl"}}, SubsetOptions{}, true},
		{"equal", chain, chain, SubsetOptions{}, true},
		{"equal, only subset", chain, chain, SubsetOptions{OnlySubset: true}, false},
		{"mismatched earlier chord", chain, Chain{{"Ctrl"}, {"Ctrl"}}, SubsetOptions{}, false},
		{"extra key", chain, Chain{{"Ctrl", "KeyC"}}, SubsetOptions{}, false},
		{"longer candidate", Chain{{"KeyA"}}, chain, SubsetOptions{}, false},
		{"variant", chain, Chain{{"ControlLeft"}}, SubsetOptions{AllowVariants: true}, true},
		{"variant without option", chain, Chain{{"ControlLeft"}}, SubsetOptions{}, false},
		{"pressable", chain, Chain{{"Ctrl", "KeyA"}, {"Ctrl"}}, SubsetOptions{OnlyPressable: true}, true},
		{"not pressable, two keys missing", chain, Chain{{"Ctrl", "KeyA"}, {}}, SubsetOptions{OnlyPressable: true}, false},
		{"not pressable, shorter", chain, Chain{{"Ctrl", "KeyA"}}, SubsetOptions{OnlyPressable: true}, false},
		{"pressable from nothing", Chain{{"KeyA"}}, nil, SubsetOptions{OnlyPressable: true}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ChainContainsSubset(tt.chain, tt.candidate, reg, tt.opts); got != tt.want {
				t.Errorf("ChainContainsSubset() = %t, want %t", got, tt.want)
			}
		})
	}
}
