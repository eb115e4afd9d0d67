// Package chord provides the chord and chain types and the pure algebra the
// shortcut engine is built on.
//
// A Chord is an unordered set of key ids held at the same time. A Chain is an
// ordered list of chords, forming a possibly multi-step shortcut:
//
//	[[Control KeyK] [Control KeyC]]    Ctrl+K, then Ctrl+C
//
// All functions are pure: they take the key registry for classification and
// variant lookup and never mutate their inputs.
//
// # Validity
//
// A chain is valid when every chord:
//
//   - repeats no key or variant of a key;
//   - holds at most one trigger key (a non-modifier, non-toggle-state key);
//   - holds at most one wheel key;
//   - is modifiers-only only if it is the last chord;
//
// and the sequence of toggle states it demands is physically reachable.
package chord
