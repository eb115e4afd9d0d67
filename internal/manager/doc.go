// Package manager provides the shortcut manager: the root that owns the key,
// command and shortcut registries, the chain state machine, and the
// validated-mutation layer through which every change is made.
//
// # Mutation
//
// Every settable property and every collection change goes through a triad:
//
//	err := m.ValidateKeyProp(k, manager.KeyPressed, true) // check only
//	m.ApplyKeyProp(k, manager.KeyPressed, true)           // apply and notify
//	err = m.SetKeyProp(k, manager.KeyPressed, true, manager.CheckFull)
//
// Validation never mutates. Apply always notifies the registered hooks.
// Collections use AddKey/RemoveKey, AddCommand/RemoveCommand and
// AddShortcut/RemoveShortcut with the same Check argument.
//
// # Input
//
// Input consumes a Batch of key transitions and an optional native state
// sampler. For each batch the manager:
//
//  1. updates pressed and toggle state of the transitioned keys;
//  2. reconciles native modifiers and toggles with the sampler;
//  3. adds or removes each key from the chain, checking for triggers after
//     every change.
//
// A matching shortcut's command runs with IsKeydown true when the chain comes
// to equal its chain, and with IsKeydown false as soon as it no longer does.
//
// # Concurrency
//
// A Manager is safe for use from multiple goroutines; calls are serialized.
// Command executions, OnSet hooks and the error callback run after the
// manager's lock is released, in the order they occurred, so they may call
// back into the Manager. Guards run while validating and must not.
package manager
