// Package engine provides a history-tracking state container.
//
// An Engine holds a single JSON-like value (records, arrays and primitives)
// and records every change as a pair of patch sets: a forward set that moves
// the value to the new state and an inverse set that moves it back. The log
// of these pairs lets callers navigate to any retained state.
//
// # Architecture
//
// The engine is built on two sub-packages:
//
//   - patch: value diffing, patch application and patch composition
//   - history: the bounded log, the pending batch and the state replayer
//
// # Basic Usage
//
//	e, err := engine.New(map[string]any{"count": 0})
//	if err != nil {
//		return err
//	}
//
//	e.SetState(engine.Mutate(func(draft any) {
//		draft.(map[string]any)["count"] = 1
//	}))
//
//	e.Undo() // count is 0 again
//	e.Redo() // count is 1
//
// # Edits
//
// SetState accepts three forms of edit:
//
//   - Replace(v): v becomes the new value
//   - Compute(fn): fn is called once and its result becomes the new value
//   - Mutate(fn): fn changes a writable draft of the current value
//
// An edit that does not change the value is dropped. It creates no history
// entry and listeners are not called.
//
// # Archive Modes
//
// With auto-archive (the default) every edit is its own history entry. With
// WithAutoArchive(false), edits accumulate in a pending batch that appears as
// one consolidated entry until Archive commits it. Navigating commits the
// batch first.
//
// # Mutable Mode
//
// WithMutable(true) updates the live value in place so references held by
// the caller stay valid. A root array keeps its identity only while its
// length does not change; other shape changes replace the value and log one
// warning per engine.
//
// # History Capacity
//
// WithMaxHistory bounds the log. When it overflows, the oldest entries are
// dropped and the position shifts with them.
//
// # Thread Safety
//
// An Engine is not safe for concurrent use. Listeners run synchronously;
// calls they make into the engine are queued until every listener has been
// notified.
//
// # Persistence
//
// Snapshot returns the value, the log and the position. FromSnapshot rebuilds
// an equivalent engine from them.
package engine
