package key

import (
	"fmt"
	"strings"
)

// Wheel pseudo-key ids. Wheel keys are always pressed then released.
const (
	WheelUp   = "WheelUp"
	WheelDown = "WheelDown"
)

// Default suffixes for toggle sub-state ids.
const (
	ToggleOnSuffix  = ":on"
	ToggleOffSuffix = ":off"
)

// ModifierKind describes whether and how a key acts as a modifier.
type ModifierKind uint8

const (
	// ModifierNone is a regular key.
	ModifierNone ModifierKind = iota

	// ModifierEmulated is a modifier whose state is inferred from key events.
	ModifierEmulated

	// ModifierNative is a modifier whose state can be sampled from the host.
	ModifierNative
)

// String returns the kind name.
func (k ModifierKind) String() string {
	switch k {
	case ModifierNone:
		return "none"
	case ModifierEmulated:
		return "emulated"
	case ModifierNative:
		return "native"
	default:
		return fmt.Sprintf("ModifierKind(%d)", k)
	}
}

// ToggleKind describes whether and how a key acts as a toggle.
type ToggleKind uint8

const (
	// ToggleNone is a regular key.
	ToggleNone ToggleKind = iota

	// ToggleEmulated flips its state on every observed keydown.
	ToggleEmulated

	// ToggleNative has its state sampled from the host.
	ToggleNative
)

// String returns the kind name.
func (k ToggleKind) String() string {
	switch k {
	case ToggleNone:
		return "none"
	case ToggleEmulated:
		return "emulated"
	case ToggleNative:
		return "native"
	default:
		return fmt.Sprintf("ToggleKind(%d)", k)
	}
}

// ParseModifierKind parses "none", "emulated" or "native" (case-insensitive).
// An empty string is ModifierNone.
func ParseModifierKind(s string) (ModifierKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "false":
		return ModifierNone, nil
	case "emulated":
		return ModifierEmulated, nil
	case "native":
		return ModifierNative, nil
	default:
		return ModifierNone, fmt.Errorf("unknown modifier kind %q", s)
	}
}

// ParseToggleKind parses "none", "emulated" or "native" (case-insensitive).
// An empty string is ToggleNone.
func ParseToggleKind(s string) (ToggleKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "false":
		return ToggleNone, nil
	case "emulated":
		return ToggleEmulated, nil
	case "native":
		return ToggleNative, nil
	default:
		return ToggleNone, fmt.Errorf("unknown toggle kind %q", s)
	}
}

// Layout positions a key on a visual keyboard. It has no effect on matching.
type Layout struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Key is a physical or virtual key.
type Key struct {
	// ID is the stable identity of the key.
	ID string

	// Enabled keys can be pressed. Disabled keys never enter a chain.
	Enabled bool

	// Label is a display name.
	Label string

	// Variants are alias ids matched interchangeably with ID.
	Variants []string

	// Layout positions the key on a visual keyboard.
	Layout Layout

	// IsModifier marks the key as a modifier.
	IsModifier ModifierKind

	// IsToggle marks the key as a toggle.
	IsToggle ToggleKind

	// Pressed is the tracked physical state.
	Pressed bool

	// ToggleOnID and ToggleOffID identify the toggle sub-states.
	ToggleOnID  string
	ToggleOffID string

	// ToggleOnPressed and ToggleOffPressed track the sub-states.
	// They are never both true.
	ToggleOnPressed  bool
	ToggleOffPressed bool

	// Meta is an opaque per-key payload owned by the host.
	Meta map[string]any
}

// Option configures a Key created with New.
type Option func(*Key)

// WithLabel sets the display label.
func WithLabel(label string) Option {
	return func(k *Key) {
		k.Label = label
	}
}

// WithVariants sets the variant ids.
func WithVariants(ids ...string) Option {
	return func(k *Key) {
		k.Variants = append([]string(nil), ids...)
	}
}

// WithModifier marks the key as a modifier.
func WithModifier(kind ModifierKind) Option {
	return func(k *Key) {
		k.IsModifier = kind
	}
}

// WithToggle marks the key as a toggle.
func WithToggle(kind ToggleKind) Option {
	return func(k *Key) {
		k.IsToggle = kind
	}
}

// WithToggleIDs overrides the default toggle sub-state ids.
func WithToggleIDs(on, off string) Option {
	return func(k *Key) {
		k.ToggleOnID = on
		k.ToggleOffID = off
	}
}

// WithLayout sets the layout position.
func WithLayout(l Layout) Option {
	return func(k *Key) {
		k.Layout = l
	}
}

// WithEnabled sets the enabled flag. Keys are enabled by default.
func WithEnabled(enabled bool) Option {
	return func(k *Key) {
		k.Enabled = enabled
	}
}

// WithMeta sets the opaque payload.
func WithMeta(meta map[string]any) Option {
	return func(k *Key) {
		k.Meta = meta
	}
}

// New creates a validated key.
func New(id string, opts ...Option) (*Key, error) {
	k := &Key{
		ID:      id,
		Enabled: true,
		Label:   id,
	}
	for _, opt := range opts {
		opt(k)
	}
	k.FillToggleIDs()
	if err := k.Validate(); err != nil {
		return nil, err
	}
	return k, nil
}

// MustNew creates a key and panics on error.
// Use only for known-valid keys in initialization code and tests.
func MustNew(id string, opts ...Option) *Key {
	k, err := New(id, opts...)
	if err != nil {
		panic("invalid key " + id + ": " + err.Error())
	}
	return k
}

// FillToggleIDs assigns default sub-state ids to a toggle that lacks them.
func (k *Key) FillToggleIDs() {
	if k.IsToggle == ToggleNone {
		return
	}
	if k.ToggleOnID == "" {
		k.ToggleOnID = k.ID + ToggleOnSuffix
	}
	if k.ToggleOffID == "" {
		k.ToggleOffID = k.ID + ToggleOffSuffix
	}
}

// Validate checks the key's own fields.
func (k *Key) Validate() error {
	if strings.TrimSpace(k.ID) == "" {
		return fmt.Errorf("key id cannot be empty")
	}
	if k.IsModifier > ModifierNative {
		return fmt.Errorf("key %s: invalid modifier kind %d", k.ID, k.IsModifier)
	}
	if k.IsToggle > ToggleNative {
		return fmt.Errorf("key %s: invalid toggle kind %d", k.ID, k.IsToggle)
	}
	if k.ToggleOnPressed && k.ToggleOffPressed {
		return fmt.Errorf("key %s: toggle cannot be both on and off", k.ID)
	}
	if k.IsToggle != ToggleNone {
		if k.ToggleOnID == "" || k.ToggleOffID == "" {
			return fmt.Errorf("key %s: toggle ids cannot be empty", k.ID)
		}
		if k.ToggleOnID == k.ToggleOffID || k.ToggleOnID == k.ID || k.ToggleOffID == k.ID {
			return fmt.Errorf("key %s: toggle ids must be distinct from each other and the key id", k.ID)
		}
	}
	for _, v := range k.Variants {
		if v == "" {
			return fmt.Errorf("key %s: variant id cannot be empty", k.ID)
		}
		if k.IsToggle != ToggleNone && (v == k.ToggleOnID || v == k.ToggleOffID) {
			return fmt.Errorf("key %s: variant %s collides with a toggle id", k.ID, v)
		}
	}
	return nil
}

// IsModifierKey reports whether the key is a modifier of any kind.
func (k *Key) IsModifierKey() bool {
	return k.IsModifier != ModifierNone
}

// IsToggleKey reports whether the key is a toggle of any kind.
func (k *Key) IsToggleKey() bool {
	return k.IsToggle != ToggleNone
}

// IsWheel reports whether the key is a wheel pseudo-key.
func (k *Key) IsWheel() bool {
	return IsWheelID(k.ID)
}

// IsWheelID reports whether id names a wheel pseudo-key.
func IsWheelID(id string) bool {
	return id == WheelUp || id == WheelDown
}

// IsMouseButtonID reports whether id names a mouse button ("0" to "5").
func IsMouseButtonID(id string) bool {
	return len(id) == 1 && id[0] >= '0' && id[0] <= '5'
}

// Clone returns a deep copy of the key.
func (k *Key) Clone() *Key {
	if k == nil {
		return nil
	}
	c := *k
	c.Variants = append([]string(nil), k.Variants...)
	if k.Meta != nil {
		c.Meta = make(map[string]any, len(k.Meta))
		for name, v := range k.Meta {
			c.Meta[name] = v
		}
	}
	return &c
}

// String returns the key id.
func (k *Key) String() string {
	return k.ID
}
