package patch

// EditKind identifies the form of an Edit.
type EditKind int

const (
	// EditInvalid is the zero Edit.
	EditInvalid EditKind = iota
	// EditReplace carries a full replacement value.
	EditReplace
	// EditCompute carries a function producing the replacement value.
	EditCompute
	// EditMutate carries a procedure that modifies a writable draft.
	EditMutate
)

// String returns the edit kind name.
func (k EditKind) String() string {
	switch k {
	case EditReplace:
		return "replace"
	case EditCompute:
		return "compute"
	case EditMutate:
		return "mutate"
	default:
		return "invalid"
	}
}

// Edit describes a change to a value. Build one with Replace, Compute or Mutate.
type Edit struct {
	kind    EditKind
	value   any
	compute func() any
	mutate  func(draft any)
}

// Replace returns an edit that swaps the whole value for v.
func Replace(v any) Edit {
	return Edit{kind: EditReplace, value: v}
}

// Compute returns an edit whose replacement value is produced by fn.
func Compute(fn func() any) Edit {
	return Edit{kind: EditCompute, compute: fn}
}

// Mutate returns an edit that modifies a draft of the current value.
//
// The draft is a record or array that may be changed in place, including
// nested containers. A root array cannot change length through a draft;
// use Replace for that.
func Mutate(fn func(draft any)) Edit {
	return Edit{kind: EditMutate, mutate: fn}
}

// Kind returns the edit form.
func (e Edit) Kind() EditKind {
	if e.kind == EditCompute && e.compute == nil {
		return EditInvalid
	}
	if e.kind == EditMutate && e.mutate == nil {
		return EditInvalid
	}
	return e.kind
}

// Value returns the replacement value of a Replace edit.
func (e Edit) Value() any {
	return e.value
}

// Resolve turns a Compute edit into the equivalent Replace edit by calling
// its function once. Other edits are returned unchanged.
func (e Edit) Resolve() Edit {
	if e.Kind() != EditCompute {
		return e
	}
	return Replace(e.compute())
}
