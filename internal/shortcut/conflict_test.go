package shortcut

import (
	"testing"

	"github.com/dshills/keychord/internal/chord"
	"github.com/dshills/keychord/internal/condition"
)

func sc(chain, cond string) *Shortcut {
	return &Shortcut{Chain: chord.Parse(chain), Condition: condition.New(cond), Enabled: true}
}

func TestDoesShortcutConflict(t *testing.T) {
	reg := testRegistry()
	tests := []struct {
		name string
		a, b *Shortcut
		opts ConflictOptions
		want bool
	}{
		{"equal chains", sc("Ctrl+KeyA", ""), sc("Ctrl+KeyA", ""), ConflictOptions{}, true},
		{"variant equal", sc("ControlLeft+KeyA", ""), sc("Ctrl+KeyA", ""), ConflictOptions{}, true},
		{"different", sc("Ctrl+KeyA", ""), sc("Ctrl+KeyB", ""), ConflictOptions{}, false},
		{"chain prefix", sc("KeyA", ""), sc("KeyA KeyB", ""), ConflictOptions{}, true},
		{"chain prefix ignored", sc("KeyA", ""), sc("KeyA KeyB", ""), ConflictOptions{IgnoreChainConflicts: true}, false},
		{"modifier prefix", sc("Ctrl", ""), sc("Ctrl+KeyA", ""), ConflictOptions{}, true},
		{"modifier prefix ignored", sc("Ctrl", ""), sc("Ctrl+KeyA", ""), ConflictOptions{IgnoreModifierConflicts: true}, false},
		{"diverge after shared chord", sc("Ctrl+KeyA KeyB", ""), sc("Ctrl+KeyA KeyC", ""), ConflictOptions{}, false},
		{"different conditions", sc("KeyA", "a"), sc("KeyA", "b"), ConflictOptions{}, false},
		{
			"conditions hold together",
			sc("KeyA", "a"), sc("KeyA", "b"),
			ConflictOptions{HasContext: true, Context: map[string]bool{"a": true, "b": true}, Evaluator: condition.ExprEvaluator{}},
			true,
		},
		{
			"condition fails in context",
			sc("KeyA", "a"), sc("KeyA", "b"),
			ConflictOptions{HasContext: true, Context: map[string]bool{"a": true}, Evaluator: condition.ExprEvaluator{}},
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DoesShortcutConflict(tt.a, tt.b, reg, tt.opts); got != tt.want {
				t.Errorf("DoesShortcutConflict(a, b) = %v, want %v", got, tt.want)
			}
			if got := DoesShortcutConflict(tt.b, tt.a, reg, tt.opts); got != tt.want {
				t.Errorf("DoesShortcutConflict(b, a) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestForceUnequal(t *testing.T) {
	reg := testRegistry()
	a, b := sc("KeyA", ""), sc("KeyA", "")
	b.ForceUnequal = true
	if DoesShortcutConflict(a, b, reg, ConflictOptions{}) {
		t.Error("ForceUnequal shortcut conflicts")
	}
	if !DoesShortcutConflict(b, b, reg, ConflictOptions{}) {
		t.Error("shortcut does not conflict with itself")
	}
}

func TestConflicts(t *testing.T) {
	reg := testRegistry()
	a, b, c := sc("KeyA", ""), sc("KeyB", ""), sc("KeyA KeyC", "")
	pairs := Conflicts([]*Shortcut{a, b, c}, reg, ConflictOptions{})
	if len(pairs) != 1 || pairs[0].A != a || pairs[0].B != c {
		t.Errorf("Conflicts() = %v", pairs)
	}
}
