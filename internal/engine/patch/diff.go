package patch

import (
	"reflect"
	"slices"
	"sort"
)

// differ accumulates forward patches and their inverses while walking two
// values in lockstep.
type differ struct {
	forward PatchSet
	inverse PatchSet
}

// Diff computes the patches that turn from into to, and the inverse patches
// that turn to back into from. Neither value is modified.
func Diff(from, to any) (forward, inverse PatchSet) {
	d := &differ{}
	d.walk(Path{}, from, to)
	slices.Reverse(d.inverse)
	return d.forward, d.inverse
}

// emit records one forward patch and the patch that undoes it.
func (d *differ) emit(fwd, inv Patch) {
	d.forward = append(d.forward, fwd)
	d.inverse = append(d.inverse, inv)
}

func (d *differ) walk(path Path, from, to any) {
	switch a := from.(type) {
	case map[string]any:
		if b, ok := to.(map[string]any); ok && a != nil && b != nil {
			d.walkRecord(path, a, b)
			return
		}
	case []any:
		if b, ok := to.([]any); ok && a != nil && b != nil {
			d.walkArray(path, a, b)
			return
		}
	}

	if reflect.DeepEqual(from, to) {
		return
	}
	d.emit(
		Patch{Op: OpReplace, Path: path, Value: Clone(to)},
		Patch{Op: OpReplace, Path: path, Value: Clone(from)},
	)
}

func (d *differ) walkRecord(path Path, from, to map[string]any) {
	removed := make([]string, 0)
	for k := range from {
		if _, ok := to[k]; !ok {
			removed = append(removed, k)
		}
	}
	sort.Strings(removed)
	for _, k := range removed {
		child := path.Child(k)
		d.emit(
			Patch{Op: OpRemove, Path: child},
			Patch{Op: OpAdd, Path: child, Value: Clone(from[k])},
		)
	}

	keys := make([]string, 0, len(to))
	for k := range to {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		child := path.Child(k)
		old, existed := from[k]
		if existed {
			d.walk(child, old, to[k])
			continue
		}
		d.emit(
			Patch{Op: OpAdd, Path: child, Value: Clone(to[k])},
			Patch{Op: OpRemove, Path: child},
		)
	}
}

func (d *differ) walkArray(path Path, from, to []any) {
	common := min(len(from), len(to))
	for i := 0; i < common; i++ {
		d.walk(path.Index(i), from[i], to[i])
	}

	// Growth appends from the old end; shrinkage removes from the tail so
	// every emitted index is valid at the moment it is applied.
	for i := len(from); i < len(to); i++ {
		child := path.Index(i)
		d.emit(
			Patch{Op: OpAdd, Path: child, Value: Clone(to[i])},
			Patch{Op: OpRemove, Path: child},
		)
	}
	for i := len(from) - 1; i >= len(to); i-- {
		child := path.Index(i)
		d.emit(
			Patch{Op: OpRemove, Path: child},
			Patch{Op: OpAdd, Path: child, Value: Clone(from[i])},
		)
	}
}
