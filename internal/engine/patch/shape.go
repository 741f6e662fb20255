package patch

import "reflect"

// Shape classifies a value for write-path decisions.
type Shape int

const (
	// ShapePrimitive is nil, a boolean, a number or a string.
	ShapePrimitive Shape = iota
	// ShapeRecord is a map[string]any.
	ShapeRecord
	// ShapeArray is a []any.
	ShapeArray
	// ShapeForeign is any other composite (structs, typed maps, pointers).
	ShapeForeign
)

// String returns the shape name.
func (s Shape) String() string {
	switch s {
	case ShapePrimitive:
		return "primitive"
	case ShapeRecord:
		return "record"
	case ShapeArray:
		return "array"
	case ShapeForeign:
		return "foreign"
	default:
		return "unknown"
	}
}

// Composite reports whether values of this shape can be updated in place.
func (s Shape) Composite() bool {
	return s == ShapeRecord || s == ShapeArray
}

// ShapeOf classifies v.
func ShapeOf(v any) Shape {
	switch v.(type) {
	case nil, bool, string,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return ShapePrimitive
	case map[string]any:
		return ShapeRecord
	case []any:
		return ShapeArray
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct,
		reflect.Pointer, reflect.Interface, reflect.Func, reflect.Chan:
		return ShapeForeign
	default:
		return ShapePrimitive
	}
}

// Clone returns a deep copy of the records and arrays in v.
// Leaves, including foreign composites, are shared.
func Clone(v any) any {
	switch t := v.(type) {
	case map[string]any:
		if t == nil {
			return t
		}
		m := make(map[string]any, len(t))
		for k, child := range t {
			m[k] = Clone(child)
		}
		return m
	case []any:
		if t == nil {
			return t
		}
		s := make([]any, len(t))
		for i, child := range t {
			s[i] = Clone(child)
		}
		return s
	default:
		return v
	}
}
