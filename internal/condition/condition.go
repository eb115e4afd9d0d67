// Package condition provides the opaque condition value attached to commands
// and shortcuts, and evaluators for it.
//
// The engine never interprets a condition itself. It asks an Evaluator,
// supplied by the host, whether a condition holds in a context, and an
// Equaler whether two conditions are the same for conflict detection.
//
// Two evaluators are provided:
//
//   - ExprEvaluator: a small expression language ("a && !b", "lang == go").
//   - LuaEvaluator: conditions written as Lua expressions.
package condition

import "strings"

// Condition is an opaque boolean condition. The empty condition always holds.
type Condition struct {
	Text string
}

// New creates a condition from text.
func New(text string) Condition {
	return Condition{Text: text}
}

// IsEmpty reports whether the condition has no text.
func (c Condition) IsEmpty() bool {
	return strings.TrimSpace(c.Text) == ""
}

// String returns the condition text.
func (c Condition) String() string {
	return c.Text
}

// Evaluator decides whether a condition holds in a context.
type Evaluator interface {
	Evaluate(c Condition, ctx any) bool
}

// EvaluatorFunc adapts a function to Evaluator.
type EvaluatorFunc func(c Condition, ctx any) bool

// Evaluate calls f.
func (f EvaluatorFunc) Evaluate(c Condition, ctx any) bool {
	return f(c, ctx)
}

// Equaler decides whether two conditions are equivalent for conflict checks.
type Equaler interface {
	Equal(a, b Condition) bool
}

// EqualerFunc adapts a function to Equaler.
type EqualerFunc func(a, b Condition) bool

// Equal calls f.
func (f EqualerFunc) Equal(a, b Condition) bool {
	return f(a, b)
}

// TextEquals compares conditions by trimmed text. It misses logically
// equivalent expressions written differently; that is accepted because exact
// boolean equivalence is exponential.
var TextEquals = EqualerFunc(func(a, b Condition) bool {
	return strings.TrimSpace(a.Text) == strings.TrimSpace(b.Text)
})

// Always is an evaluator for which every condition holds.
var Always = EvaluatorFunc(func(Condition, any) bool { return true })
