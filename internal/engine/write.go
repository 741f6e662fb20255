package engine

import (
	"github.com/dshills/rewind/internal/engine/patch"
)

// write produces the value that becomes current after an edit.
//
// In immutable mode the diff result is used directly. In mutable mode a
// Mutate edit is replayed in place on the live value, and a replacement is
// copied into the live value when both have the same shape; anything else
// falls back to the new value.
func (e *Engine) write(edit Edit, res patch.Result) (any, error) {
	if !e.mutable {
		return res.Value, nil
	}

	if edit.Kind() == patch.EditMutate {
		return e.patcher.Apply(e.value, res.Forward, !res.Forward.HasRootReplace())
	}

	if next, ok := overwrite(e.value, res.Value); ok {
		return next, nil
	}
	e.warnFallback(e.value, res.Value)
	return res.Value, nil
}

// restore rewrites live to equal a deep copy of snap, keeping live's identity
// when the shapes allow it.
func (e *Engine) restore(live, snap any) any {
	fresh := patch.Clone(snap)
	if next, ok := overwrite(live, fresh); ok {
		return next
	}
	e.warnFallback(live, fresh)
	return fresh
}

// overwrite makes dst equal to src in place. Keys missing from src are
// removed before src's keys are copied in. It reports false when dst cannot
// hold src without a new value.
func overwrite(dst, src any) (any, bool) {
	switch d := dst.(type) {
	case map[string]any:
		s, ok := src.(map[string]any)
		if !ok || d == nil || s == nil {
			return nil, false
		}
		for k := range d {
			if _, keep := s[k]; !keep {
				delete(d, k)
			}
		}
		for k, v := range s {
			d[k] = v
		}
		return d, true
	case []any:
		s, ok := src.([]any)
		if !ok || d == nil || len(s) != len(d) {
			return nil, false
		}
		copy(d, s)
		return d, true
	default:
		return nil, false
	}
}

// warnFallback logs once per engine that a mutable write could not keep the
// live value's identity.
func (e *Engine) warnFallback(live, next any) {
	if e.warnedFallback {
		return
	}
	e.warnedFallback = true
	e.logger.Warn("mutable write replaced the state value; references to the old value are stale",
		"current_shape", patch.ShapeOf(live).String(),
		"next_shape", patch.ShapeOf(next).String())
}
