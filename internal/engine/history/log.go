package history

import (
	"slices"

	"github.com/dshills/rewind/internal/engine/patch"
)

// Patches is the serializable form of a patch log.
type Patches struct {
	Forward []patch.PatchSet `json:"patches" yaml:"patches"`
	Inverse []patch.PatchSet `json:"inversePatches" yaml:"inversePatches"`
}

// Len returns the number of entries.
func (p Patches) Len() int {
	return len(p.Forward)
}

// Clone returns a copy whose outer slices can be appended to without
// affecting p. Patch sets themselves are shared and must be treated as
// read-only.
func (p Patches) Clone() Patches {
	return Patches{
		Forward: slices.Clone(p.Forward),
		Inverse: slices.Clone(p.Inverse),
	}
}

// Log is the committed history: forward patch sets and their inverses,
// bounded by a capacity and trimmed from the oldest end.
type Log struct {
	forward []patch.PatchSet
	inverse []patch.PatchSet
}

// NewLog creates a log from p. If the forward and inverse arrays differ in
// length, both are cut to the shorter one and ok is false; the returned log
// is usable either way.
func NewLog(p Patches) (l *Log, ok bool) {
	l = &Log{}
	ok = l.Reset(p)
	return l, ok
}

// Reset replaces the log contents with a copy of p. It reports false if p
// had to be cut to equal lengths.
func (l *Log) Reset(p Patches) bool {
	n := min(len(p.Forward), len(p.Inverse))
	l.forward = slices.Clone(p.Forward[:n])
	l.inverse = slices.Clone(p.Inverse[:n])
	return len(p.Forward) == len(p.Inverse)
}

// Len returns the number of committed entries.
func (l *Log) Len() int {
	return len(l.forward)
}

// Forward returns the forward patch set of entry i.
func (l *Log) Forward(i int) patch.PatchSet {
	return l.forward[i]
}

// Inverse returns the inverse patch set of entry i.
func (l *Log) Inverse(i int) patch.PatchSet {
	return l.inverse[i]
}

// Append adds an entry at the newest end.
func (l *Log) Append(forward, inverse patch.PatchSet) {
	l.forward = append(l.forward, forward)
	l.inverse = append(l.inverse, inverse)
}

// Truncate discards every entry at index n and above.
func (l *Log) Truncate(n int) {
	if n < 0 {
		n = 0
	}
	if n >= len(l.forward) {
		return
	}
	clear(l.forward[n:])
	clear(l.inverse[n:])
	l.forward = l.forward[:n]
	l.inverse = l.inverse[:n]
}

// Trim keeps only the newest capacity entries and returns how many of the
// oldest entries were removed. A capacity of zero empties the log.
func (l *Log) Trim(capacity int) int {
	if capacity < 0 {
		capacity = 0
	}
	excess := len(l.forward) - capacity
	if excess <= 0 {
		return 0
	}
	l.forward = slices.Clone(l.forward[excess:])
	l.inverse = slices.Clone(l.inverse[excess:])
	return excess
}

// Patches returns a copy of the log contents.
func (l *Log) Patches() Patches {
	return Patches{
		Forward: slices.Clone(l.forward),
		Inverse: slices.Clone(l.inverse),
	}
}

// Visible returns the committed entries followed by the consolidated batch,
// if any, as one extra entry.
func Visible(l *Log, b *Batch) Patches {
	p := l.Patches()
	if b.Empty() {
		return p
	}
	fwd, inv := b.Consolidate()
	p.Forward = append(p.Forward, fwd)
	p.Inverse = append(p.Inverse, inv)
	return p
}
