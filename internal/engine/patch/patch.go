package patch

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-openapi/jsonpointer"
)

// Op is a primitive patch operation.
type Op string

// Supported operations.
const (
	OpAdd     Op = "add"
	OpRemove  Op = "remove"
	OpReplace Op = "replace"
)

// Valid reports whether op is a supported operation.
func (op Op) Valid() bool {
	switch op {
	case OpAdd, OpRemove, OpReplace:
		return true
	default:
		return false
	}
}

// Path addresses a location inside a value as a list of unescaped
// reference tokens. The empty path addresses the root.
type Path []string

// ParsePath parses a JSON Pointer such as "/items/0/name".
func ParsePath(s string) (Path, error) {
	if s == "" {
		return Path{}, nil
	}
	ptr, err := jsonpointer.New(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidPath, s, err)
	}
	return Path(ptr.DecodedTokens()), nil
}

// MustParsePath is like ParsePath but panics on error.
func MustParsePath(s string) Path {
	p, err := ParsePath(s)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the JSON Pointer form of the path.
func (p Path) String() string {
	if len(p) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, tok := range p {
		sb.WriteByte('/')
		sb.WriteString(jsonpointer.Escape(tok))
	}
	return sb.String()
}

// IsRoot reports whether the path addresses the whole value.
func (p Path) IsRoot() bool {
	return len(p) == 0
}

// Child returns a new path with tok appended. The receiver is not modified.
func (p Path) Child(tok string) Path {
	child := make(Path, len(p), len(p)+1)
	copy(child, p)
	return append(child, tok)
}

// Index returns a new path with the array index i appended.
func (p Path) Index(i int) Path {
	return p.Child(strconv.Itoa(i))
}

// Parent returns the path of the containing value. The root is its own parent.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return p
	}
	return p[:len(p)-1]
}

// HasPrefix reports whether prefix is p itself or one of its ancestors.
func (p Path) HasPrefix(prefix Path) bool {
	if len(prefix) > len(p) {
		return false
	}
	for i, tok := range prefix {
		if p[i] != tok {
			return false
		}
	}
	return true
}

// Equal reports whether two paths address the same location.
func (p Path) Equal(other Path) bool {
	return len(p) == len(other) && p.HasPrefix(other)
}

// MarshalJSON encodes the path as a JSON Pointer string.
func (p Path) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON decodes a JSON Pointer string.
func (p *Path) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParsePath(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// MarshalYAML encodes the path as a JSON Pointer string.
func (p Path) MarshalYAML() (any, error) {
	return p.String(), nil
}

// Patch is a single edit operation at a path.
type Patch struct {
	Op    Op   `json:"op" yaml:"op"`
	Path  Path `json:"path" yaml:"path"`
	Value any  `json:"value,omitempty" yaml:"value,omitempty"`
}

// String returns a short human-readable form of the patch.
func (p Patch) String() string {
	if p.Op == OpRemove {
		return fmt.Sprintf("%s %s", p.Op, p.Path)
	}
	return fmt.Sprintf("%s %s %v", p.Op, p.Path, p.Value)
}

// IsRootReplace reports whether the patch replaces the whole value.
func (p Patch) IsRootReplace() bool {
	return p.Path.IsRoot() && (p.Op == OpReplace || p.Op == OpAdd)
}

// shiftsIndices reports whether the patch may move array elements.
func (p Patch) shiftsIndices() bool {
	if p.Op != OpAdd && p.Op != OpRemove {
		return false
	}
	if len(p.Path) == 0 {
		return false
	}
	last := p.Path[len(p.Path)-1]
	if last == "-" {
		return true
	}
	_, err := strconv.Atoi(last)
	return err == nil
}

// PatchSet is an ordered group of patches forming one transition.
type PatchSet []Patch

// HasRootReplace reports whether any patch in the set replaces the root.
func (ps PatchSet) HasRootReplace() bool {
	for _, p := range ps {
		if p.IsRootReplace() {
			return true
		}
	}
	return false
}

// Result is the outcome of diffing an edit against a value.
type Result struct {
	// Value is the state after the edit.
	Value any

	// Forward transforms the original value into Value.
	Forward PatchSet

	// Inverse transforms Value back into the original value.
	Inverse PatchSet
}

// Empty reports whether the edit produced no change.
func (r Result) Empty() bool {
	return len(r.Forward) == 0 && len(r.Inverse) == 0
}
