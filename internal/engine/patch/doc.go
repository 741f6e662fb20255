// Package patch implements the diff/apply collaborator used by the engine.
//
// Values are JSON-like: nil, booleans, numbers, strings, map[string]any
// records and []any arrays. Any other composite is treated as an opaque leaf.
//
// # Patches
//
// A Patch is one RFC 6902 style operation (add, remove or replace) addressed
// by a JSON Pointer. A PatchSet is the ordered group of patches describing a
// single transition between two states:
//
//	eng := patch.NewJSONEngine()
//	res, _ := eng.Diff(map[string]any{"n": 1.0}, patch.Replace(map[string]any{"n": 2.0}))
//	// res.Forward: [{replace /n 2}]  res.Inverse: [{replace /n 1}]
//
//	prev, _ := eng.Apply(res.Value, res.Inverse, false)
//	// prev == map[string]any{"n": 1.0}
//
// # Edits
//
// Edit is a tagged union of the three ways a caller can describe a change:
// Replace (a full value), Compute (a function producing a value) and Mutate
// (a procedure that modifies a writable draft).
//
// # Composition
//
// Compose merges several patch sets into one set with the same effect. It is
// used to fold a batch of edits into a single undo step.
package patch
