// Package reactive provides the dependency-tracking primitives the binding
// layer is built on.
//
// # Signals
//
// Signal holds a value. Get subscribes the current listener; Peek does not.
//
//	count := reactive.NewSignal(0)
//	count.Set(count.Peek() + 1)
//
// # Effects
//
// Effect is a tracked computation that re-runs synchronously whenever a
// dependency read during its last run changes. Effects return an error;
// the first run's error goes to the creator, later ones to the effect's
// ErrorHandler. This is the host for binding reactions.
//
// # Computed
//
// Computed is a lazily recomputed derivation that is itself readable.
//
// # Untyped access
//
// Bindings operate on `any`. Readable, Unwrap and Peek give untyped access
// to any Signal or Computed.
//
// # Scheduling
//
// Trees are single-threaded. Work produced off-thread (network loads, for
// instance) is posted back through a Dispatcher. Queue is the standard
// implementation, driven by Run in production or Drain in tests.
//
// # Ownership
//
// Owner scopes effects and cleanups so a mounted subtree can be torn down
// in one call.
package reactive
