package patch

import "slices"

// Compose merges sets, applied in order, into one equivalent patch set.
//
// The result is the concatenation of the sets with superseded operations
// removed: an operation is dropped when a later replace targets the same path
// or one of its ancestors and no operation in between may shift the array
// indices that path relies on.
func Compose(sets ...PatchSet) PatchSet {
	n := 0
	for _, s := range sets {
		n += len(s)
	}
	ops := make(PatchSet, 0, n)
	for _, s := range sets {
		ops = append(ops, s...)
	}
	return canonicalize(ops)
}

// ComposeInverse merges inverse sets recorded in application order into the
// single set that undoes all of them: the newest inverse runs first.
func ComposeInverse(sets ...PatchSet) PatchSet {
	reversed := slices.Clone(sets)
	slices.Reverse(reversed)
	return Compose(reversed...)
}

func canonicalize(ops PatchSet) PatchSet {
	dropped := make([]bool, len(ops))
	for j := len(ops) - 1; j >= 0; j-- {
		if dropped[j] || ops[j].Op != OpReplace {
			continue
		}
		target := ops[j].Path
		for i := j - 1; i >= 0; i-- {
			if dropped[i] {
				continue
			}
			p := ops[i]
			if p.Path.HasPrefix(target) && (len(p.Path) > len(target) || p.Op == OpReplace) {
				dropped[i] = true
				continue
			}
			if p.shiftsIndices() && target.HasPrefix(p.Path.Parent()) {
				break
			}
		}
	}

	out := make(PatchSet, 0, len(ops))
	for i, p := range ops {
		if !dropped[i] {
			out = append(out, p)
		}
	}
	return out
}
