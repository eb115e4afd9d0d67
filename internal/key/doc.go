// Package key provides the key record and the key registry for the shortcut
// engine.
//
// A Key is identified by a stable string id (for example "KeyA",
// "ControlLeft", "0" for the primary mouse button or "WheelUp"). Keys may be:
//
//   - Modifiers (emulated or native): keys that are held while other keys are
//     pressed, such as Control or Shift.
//   - Toggles (emulated or native): keys with two derived sub-states, on and
//     off, each addressable by its own id (CapsLock:on, CapsLock:off).
//   - Variants of each other: ids that match interchangeably, such as
//     ControlLeft and ControlRight under a virtual Control key.
//
// # Registry
//
// The Registry holds keys and the indices derived from them. Every index is
// rebuilt from a single entry point, Reindex, which every mutation path calls.
// Code outside the registry never edits an index directly.
package key
