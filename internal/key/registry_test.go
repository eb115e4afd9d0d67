package key

import "testing"

func testRegistry() *Registry {
	return NewRegistry(
		MustNew("Ctrl", WithModifier(ModifierEmulated), WithVariants("ControlLeft", "ControlRight")),
		MustNew("Shift", WithModifier(ModifierNative)),
		MustNew("CapsLock", WithToggle(ToggleNative)),
		MustNew("ScrollLock", WithToggle(ToggleEmulated)),
		MustNew("KeyA", WithLayout(Layout{X: 1, Y: 2, Width: 1, Height: 1})),
		MustNew("KeyB", WithLayout(Layout{X: 3, Y: 0, Width: 2, Height: 1})),
		MustNew(WheelUp),
	)
}

func TestRegistryResolve(t *testing.T) {
	r := testRegistry()
	tests := []struct {
		id     string
		want   string
		wantOK bool
	}{
		{"Ctrl", "Ctrl", true},
		{"ControlLeft", "Ctrl", true},
		{"ControlRight", "Ctrl", true},
		{"KeyA", "KeyA", true},
		{"CapsLock:on", "", false},
		{"Nope", "", false},
	}
	for _, tt := range tests {
		got, ok := r.Resolve(tt.id)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Resolve(%q) = %q, %t, want %q, %t", tt.id, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestRegistryKey(t *testing.T) {
	r := testRegistry()
	caps := r.Get("CapsLock")
	if got := r.Key("CapsLock:on"); got != caps {
		t.Errorf("Key(CapsLock:on) = %v, want %v", got, caps)
	}
	if got := r.Key("ControlLeft"); got != r.Get("Ctrl") {
		t.Errorf("Key(ControlLeft) = %v, want Ctrl", got)
	}
	if r.Get("ControlLeft") != nil {
		t.Error("Get(ControlLeft) resolved a variant")
	}
	if !r.Has("CapsLock:off") || r.Has("ControlLeft") {
		t.Error("Has() misreports toggle states or variants")
	}
}

func TestRegistryClassification(t *testing.T) {
	r := testRegistry()
	tests := []struct {
		id                     string
		modifier, trigger, tgl bool
	}{
		{"Ctrl", true, false, false},
		{"ControlLeft", true, false, false},
		{"Shift", true, false, false},
		{"KeyA", false, true, false},
		{"CapsLock", false, true, false},
		{"CapsLock:on", false, false, true},
		{"ScrollLock:off", false, false, true},
	}
	for _, tt := range tests {
		if got := r.IsModifierID(tt.id); got != tt.modifier {
			t.Errorf("IsModifierID(%q) = %t, want %t", tt.id, got, tt.modifier)
		}
		if got := r.IsTriggerID(tt.id); got != tt.trigger {
			t.Errorf("IsTriggerID(%q) = %t, want %t", tt.id, got, tt.trigger)
		}
		if got := r.IsToggleState(tt.id); got != tt.tgl {
			t.Errorf("IsToggleState(%q) = %t, want %t", tt.id, got, tt.tgl)
		}
	}
	if !r.IsToggleOn("CapsLock:on") || r.IsToggleOn("CapsLock:off") {
		t.Error("IsToggleOn misclassified")
	}
	if root, ok := r.ToggleRoot("ScrollLock:on"); !ok || root != "ScrollLock" {
		t.Errorf("ToggleRoot() = %q, %t", root, ok)
	}
	if !r.IsWheelID(WheelUp) || r.IsWheelID("KeyA") {
		t.Error("IsWheelID misclassified")
	}
}

func TestRegistryVariants(t *testing.T) {
	r := testRegistry()
	if !r.Equivalent("ControlLeft", "ControlRight") {
		t.Error("Equivalent(ControlLeft, ControlRight) = false")
	}
	if r.Equivalent("Ctrl", "Shift") {
		t.Error("Equivalent(Ctrl, Shift) = true")
	}
	got := r.Variants("Ctrl")
	if len(got) != 2 || got[0] != "ControlLeft" || got[1] != "ControlRight" {
		t.Errorf("Variants(Ctrl) = %v", got)
	}

	// Variant declarations are transitive across keys.
	r.Insert(MustNew("Meta", WithVariants("ControlRight")))
	if !r.Equivalent("Meta", "ControlLeft") {
		t.Error("Equivalent(Meta, ControlLeft) = false after linking through ControlRight")
	}
}

func TestRegistryNativeLists(t *testing.T) {
	r := testRegistry()
	if got := r.NativeModifiers(); len(got) != 1 || got[0] != "Shift" {
		t.Errorf("NativeModifiers() = %v", got)
	}
	if got := r.NativeToggles(); len(got) != 1 || got[0] != "CapsLock" {
		t.Errorf("NativeToggles() = %v", got)
	}
}

func TestRegistryBounds(t *testing.T) {
	r := testRegistry()
	want := Bounds{MinX: 1, MinY: 0, MaxX: 5, MaxY: 3}
	if got := r.Bounds(); got != want {
		t.Errorf("Bounds() = %+v, want %+v", got, want)
	}
}

func TestRegistryReindex(t *testing.T) {
	r := testRegistry()
	a := r.Get("KeyA")
	a.IsModifier = ModifierNative
	r.Reindex(a)
	if got := r.NativeModifiers(); len(got) != 2 {
		t.Errorf("NativeModifiers() = %v after reindex", got)
	}

	r.Delete("CapsLock")
	if r.Has("CapsLock:on") {
		t.Error("toggle state still known after Delete")
	}
	if r.Len() != 6 {
		t.Errorf("Len() = %d, want 6", r.Len())
	}
}

func TestRegistryClone(t *testing.T) {
	r := testRegistry()
	c := r.Clone()
	c.Get("KeyA").Variants = []string{"a"}
	c.Reindex(c.Get("KeyA"))
	if r.Equivalent("KeyA", "a") {
		t.Error("Clone() shares state with the original")
	}
	if !c.Equivalent("KeyA", "a") {
		t.Error("clone did not pick up the variant")
	}
}

func TestSuggest(t *testing.T) {
	r := NewRegistry(
		MustNew("Control", WithModifier(ModifierNative), WithVariants("ControlLeft", "ControlRight")),
		MustNew("KeyA"),
		MustNew("CapsLock", WithToggle(ToggleNative)),
	)
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"keya", "KeyA", true},
		{"ControlLef", "ControlLeft", true},
		{"CapsLock:of", "CapsLock:off", true},
		{"Backspace", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := r.Suggest(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Suggest(%q) = %q, %v, want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
