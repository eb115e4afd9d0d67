package manager

import (
	"fmt"

	"github.com/dshills/keychord/internal/errs"
)

// Check selects how a mutation is validated.
type Check int

const (
	// CheckFull validates, then applies and notifies if valid.
	CheckFull Check = iota

	// CheckOnly validates without side effects.
	CheckOnly

	// CheckNone applies and notifies unconditionally.
	CheckNone
)

// String returns the check mode name.
func (c Check) String() string {
	switch c {
	case CheckFull:
		return "full"
	case CheckOnly:
		return "only"
	case CheckNone:
		return "none"
	default:
		return fmt.Sprintf("Check(%d)", int(c))
	}
}

// KeyProp names a settable key property.
type KeyProp string

// Key properties and their value types.
const (
	KeyEnabled          KeyProp = "enabled"          // bool
	KeyLabel            KeyProp = "label"            // string
	KeyVariants         KeyProp = "variants"         // []string
	KeyLayout           KeyProp = "layout"           // key.Layout
	KeyIsModifier       KeyProp = "isModifier"       // key.ModifierKind
	KeyIsToggle         KeyProp = "isToggle"         // key.ToggleKind
	KeyPressed          KeyProp = "pressed"          // bool
	KeyToggleOnPressed  KeyProp = "toggleOnPressed"  // bool
	KeyToggleOffPressed KeyProp = "toggleOffPressed" // bool
	KeyMeta             KeyProp = "meta"             // map[string]any
)

// CommandProp names a settable command property.
type CommandProp string

// Command properties and their value types.
const (
	CommandName        CommandProp = "name"        // string
	CommandExecute     CommandProp = "execute"     // command.ExecuteFunc
	CommandCondition   CommandProp = "condition"   // condition.Condition or string
	CommandDescription CommandProp = "description" // string
)

// ShortcutProp names a settable shortcut property.
type ShortcutProp string

// Shortcut properties and their value types.
const (
	ShortcutChain        ShortcutProp = "chain"        // chord.Chain or [][]string
	ShortcutCommand      ShortcutProp = "command"      // string
	ShortcutCondition    ShortcutProp = "condition"    // condition.Condition or string
	ShortcutEnabled      ShortcutProp = "enabled"      // bool
	ShortcutForceUnequal ShortcutProp = "forceUnequal" // bool
)

// ManagerProp names a settable manager property.
type ManagerProp string

// Manager properties and their value types.
const (
	ManagerChain       ManagerProp = "chain"       // chord.Chain or [][]string
	ManagerIsRecording ManagerProp = "isRecording" // bool
	ManagerContext     ManagerProp = "context"     // any
)

func invalidValue(prop string, value any) error {
	return errs.Newf(errs.InvalidValue, "invalid value %T for %s", value, prop)
}

func unknownProp(prop string) error {
	return errs.Newf(errs.InvalidValue, "unknown property %q", prop)
}

// guardError classifies an error returned by a guard.
func guardError(err error) error {
	if errs.CodeOf(err) != "" {
		return err
	}
	return errs.New(errs.GuardRejected, err.Error()).Wrap(err)
}
