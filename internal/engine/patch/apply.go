package patch

import (
	"fmt"
	"slices"
	"strconv"
)

// Apply applies patches to base in order and returns the result.
//
// When inPlace is true, records and arrays inside base are modified directly
// and the returned value shares identity with base wherever Go allows it
// (a root array that changes length gets a new slice header). When inPlace is
// false, base is left untouched and a new value is returned.
//
// Values copied out of patches are cloned, so later in-place edits never
// reach back into the patch log.
func Apply(base any, patches PatchSet, inPlace bool) (any, error) {
	root := base
	if !inPlace {
		root = Clone(base)
	}
	for _, p := range patches {
		next, err := applyOne(root, p)
		if err != nil {
			return nil, fmt.Errorf("apply %s %q: %w", p.Op, p.Path.String(), err)
		}
		root = next
	}
	return root, nil
}

func applyOne(root any, p Patch) (any, error) {
	if !p.Op.Valid() {
		return nil, ErrInvalidOp
	}
	if p.Path.IsRoot() {
		switch p.Op {
		case OpAdd, OpReplace:
			return Clone(p.Value), nil
		default:
			return nil, fmt.Errorf("%w: cannot remove the root", ErrInvalidPath)
		}
	}
	return applyAt(root, p.Path, p)
}

// applyAt walks to the container addressed by path and returns the possibly
// re-headed container so the parent can store it back.
func applyAt(node any, path Path, p Patch) (any, error) {
	tok := path[0]
	if len(path) == 1 {
		return applyLeaf(node, tok, p)
	}

	switch c := node.(type) {
	case map[string]any:
		child, ok := c[tok]
		if !ok {
			return nil, fmt.Errorf("%w: missing key %q", ErrInvalidPath, tok)
		}
		updated, err := applyAt(child, path[1:], p)
		if err != nil {
			return nil, err
		}
		c[tok] = updated
		return c, nil
	case []any:
		i, err := arrayIndex(tok, len(c), false)
		if err != nil {
			return nil, err
		}
		updated, err := applyAt(c[i], path[1:], p)
		if err != nil {
			return nil, err
		}
		c[i] = updated
		return c, nil
	default:
		return nil, fmt.Errorf("%w: %q does not address a container", ErrInvalidPath, tok)
	}
}

func applyLeaf(node any, tok string, p Patch) (any, error) {
	switch c := node.(type) {
	case map[string]any:
		if c == nil {
			return nil, fmt.Errorf("%w: nil record", ErrInvalidPath)
		}
		switch p.Op {
		case OpAdd:
			c[tok] = Clone(p.Value)
		case OpReplace:
			if _, ok := c[tok]; !ok {
				return nil, fmt.Errorf("%w: missing key %q", ErrInvalidPath, tok)
			}
			c[tok] = Clone(p.Value)
		case OpRemove:
			if _, ok := c[tok]; !ok {
				return nil, fmt.Errorf("%w: missing key %q", ErrInvalidPath, tok)
			}
			delete(c, tok)
		}
		return c, nil
	case []any:
		switch p.Op {
		case OpAdd:
			i, err := arrayIndex(tok, len(c), true)
			if err != nil {
				return nil, err
			}
			return slices.Insert(c, i, Clone(p.Value)), nil
		case OpReplace:
			i, err := arrayIndex(tok, len(c), false)
			if err != nil {
				return nil, err
			}
			c[i] = Clone(p.Value)
			return c, nil
		default:
			i, err := arrayIndex(tok, len(c), false)
			if err != nil {
				return nil, err
			}
			return slices.Delete(c, i, i+1), nil
		}
	default:
		return nil, fmt.Errorf("%w: %q does not address a container", ErrInvalidPath, tok)
	}
}

// arrayIndex parses an array reference token. "-" and length are accepted
// only when inserting.
func arrayIndex(tok string, length int, insert bool) (int, error) {
	if tok == "-" {
		if insert {
			return length, nil
		}
		return 0, fmt.Errorf("%w: \"-\" is only valid for add", ErrInvalidPath)
	}
	i, err := strconv.Atoi(tok)
	if err != nil || i < 0 {
		return 0, fmt.Errorf("%w: bad array index %q", ErrInvalidPath, tok)
	}
	limit := length - 1
	if insert {
		limit = length
	}
	if i > limit {
		return 0, fmt.Errorf("%w: index %d out of range (len %d)", ErrInvalidPath, i, length)
	}
	return i, nil
}
