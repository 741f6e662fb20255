// Package history holds the patch log behind the engine's undo/redo.
//
// # Log
//
// A Log is a pair of length-matched arrays: forward patch sets and the
// inverse patch sets that undo them. Entry i moves the state at position i to
// position i+1; its inverse moves it back.
//
//	log, _ := history.NewLog(history.Patches{})
//	log.Append(forward, inverse)
//	log.Trim(10) // keep the newest 10 entries
//
// # Batch
//
// A Batch collects uncommitted entries while the caller groups several edits
// into one undo step. Consolidate folds them into a single forward/inverse
// pair that is appended to the Log in one piece.
//
// # Replayer
//
// A Replayer rebuilds every reachable state (past, present and future) by
// replaying inverse and forward patches outward from the current value, and
// caches the result until it is invalidated.
package history
