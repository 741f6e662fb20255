package history

import (
	"fmt"
	"slices"

	"github.com/dshills/rewind/internal/engine/patch"
)

// Applier applies a patch set to a value.
type Applier interface {
	Apply(base any, patches patch.PatchSet, inPlace bool) (any, error)
}

// Replayer reconstructs the full sequence of reachable states and caches it.
// The zero value is ready to use.
type Replayer struct {
	states []any
	valid  bool
}

// Invalidate drops the cached sequence. Call it whenever the log, the
// position or the current value changes.
func (r *Replayer) Invalidate() {
	r.states = nil
	r.valid = false
}

// States returns every state from the oldest retained one through the last
// reachable future state. current is the state at position. When the visible
// log is longer than capacity, only the newest capacity entries are replayed.
//
// current is included as-is; every other state is a fresh value produced in
// copy mode. The returned slice is shared with the cache and must not be
// modified.
func (r *Replayer) States(current any, visible Patches, position, capacity int, a Applier) ([]any, error) {
	if r.valid {
		return r.states, nil
	}

	n := visible.Len()
	start := 0
	if capacity >= 0 && n > capacity {
		start = n - capacity
	}
	start = min(start, position)

	states := make([]any, 0, n-start+1)
	state := current
	for i := position - 1; i >= start; i-- {
		prev, err := a.Apply(state, visible.Inverse[i], false)
		if err != nil {
			return nil, fmt.Errorf("replay inverse %d: %w", i, err)
		}
		states = append(states, prev)
		state = prev
	}
	slices.Reverse(states)
	states = append(states, current)

	state = current
	for i := position; i < n; i++ {
		next, err := a.Apply(state, visible.Forward[i], false)
		if err != nil {
			return nil, fmt.Errorf("replay forward %d: %w", i, err)
		}
		states = append(states, next)
		state = next
	}

	r.states = states
	r.valid = true
	return states, nil
}
