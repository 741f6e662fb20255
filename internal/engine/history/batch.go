package history

import "github.com/dshills/rewind/internal/engine/patch"

// Batch accumulates uncommitted entries between archives.
// The zero value is an empty batch.
type Batch struct {
	forward []patch.PatchSet
	inverse []patch.PatchSet
}

// Add appends one entry to the batch.
func (b *Batch) Add(forward, inverse patch.PatchSet) {
	b.forward = append(b.forward, forward)
	b.inverse = append(b.inverse, inverse)
}

// Len returns the number of pending entries.
func (b *Batch) Len() int {
	return len(b.forward)
}

// Empty reports whether nothing is pending.
func (b *Batch) Empty() bool {
	return len(b.forward) == 0
}

// Clear discards all pending entries.
func (b *Batch) Clear() {
	b.forward = nil
	b.inverse = nil
}

// Consolidate folds every pending entry into one forward/inverse pair that
// moves the state from before the first entry to after the last one, and
// back.
func (b *Batch) Consolidate() (forward, inverse patch.PatchSet) {
	return patch.Compose(b.forward...), patch.ComposeInverse(b.inverse...)
}
