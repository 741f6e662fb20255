package patch

import "fmt"

// JSONEngine diffs and applies patches over JSON-like values.
// The zero value is ready to use.
type JSONEngine struct{}

// NewJSONEngine returns a JSONEngine.
func NewJSONEngine() *JSONEngine {
	return &JSONEngine{}
}

// Diff evaluates edit against base and returns the new value together with
// the forward and inverse patch sets. base is never modified: a Mutate edit
// runs against a deep clone.
func (JSONEngine) Diff(base any, edit Edit) (Result, error) {
	var next any
	switch edit.Kind() {
	case EditReplace:
		next = edit.Value()
	case EditCompute:
		next = edit.Resolve().Value()
	case EditMutate:
		draft := Clone(base)
		edit.mutate(draft)
		next = draft
	default:
		return Result{}, fmt.Errorf("%w: kind %s", ErrInvalidEdit, edit.Kind())
	}

	forward, inverse := Diff(base, next)
	return Result{Value: next, Forward: forward, Inverse: inverse}, nil
}

// Apply applies patches to base; see the package-level Apply.
func (JSONEngine) Apply(base any, patches PatchSet, inPlace bool) (any, error) {
	return Apply(base, patches, inPlace)
}
