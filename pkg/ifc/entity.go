package ifc

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrEntityNotFound is returned by an [EntityStore] when a handle has no entity.
var ErrEntityNotFound = errors.New("entity not found")

// ModelID identifies a loaded model.
type ModelID string

// Handle is the stable integer identifier of an entity within one model.
type Handle uint32

// String returns the handle in IFC notation (#42).
func (h Handle) String() string { return "#" + strconv.FormatUint(uint64(h), 10) }

// ValueKind discriminates the variants of [Value].
type ValueKind uint8

const (
	// ValueNull is the zero value: an absent or unset attribute.
	ValueNull ValueKind = iota
	// ValuePrimitive is a typed scalar (string, float64, int64 or bool).
	ValuePrimitive
	// ValueReference points to another entity in the same model.
	ValueReference
	// ValueList is an ordered sequence of values.
	ValueList
)

// Value is an attribute value. Only the fields of the active Kind are set.
type Value struct {
	Kind ValueKind

	// Type is the IFC type name of a primitive wrapper, e.g. IFCLENGTHMEASURE.
	Type   string
	Scalar any

	Ref Handle
	// Weak marks a back reference that must not be followed forward.
	Weak bool

	Items []Value
}

// Primitive returns a typed scalar value.
func Primitive(typ string, scalar any) Value {
	return Value{Kind: ValuePrimitive, Type: typ, Scalar: scalar}
}

// Ref returns a reference to h.
func Ref(h Handle) Value { return Value{Kind: ValueReference, Ref: h} }

// WeakRef returns a back reference to h.
func WeakRef(h Handle) Value { return Value{Kind: ValueReference, Ref: h, Weak: true} }

// List returns a list value.
func List(items ...Value) Value { return Value{Kind: ValueList, Items: items} }

// RefList returns a list of references.
func RefList(handles ...Handle) Value {
	items := make([]Value, len(handles))
	for i, h := range handles {
		items[i] = Ref(h)
	}
	return List(items...)
}

// IsNull reports whether the value is absent. A primitive with a nil scalar
// and an empty list are null as well.
func (v Value) IsNull() bool {
	switch v.Kind {
	case ValuePrimitive:
		return v.Scalar == nil
	case ValueReference:
		return false
	case ValueList:
		return len(v.Items) == 0
	}
	return true
}

// Text formats a primitive scalar. Floats use the shortest representation
// that round-trips; non-primitives format as the empty string.
func (v Value) Text() string {
	if v.Kind != ValuePrimitive {
		return ""
	}
	return FormatScalar(v.Scalar)
}

// FormatScalar formats a scalar the way the property tables display it.
func FormatScalar(s any) string {
	switch x := s.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	}
	return fmt.Sprint(s)
}

// Attribute is one named attribute of an entity.
type Attribute struct {
	Name  string
	Value Value
}

// Entity is an immutable IFC instance. Attributes keep declaration order.
type Entity struct {
	Model      ModelID
	Handle     Handle
	Kind       Kind
	Attributes []Attribute
}

// Attr returns the attribute with the given name.
func (e *Entity) Attr(name string) (Value, bool) {
	for _, a := range e.Attributes {
		if a.Name == name {
			return a.Value, true
		}
	}
	return Value{}, false
}

// Text returns the formatted scalar of a primitive attribute, or "".
func (e *Entity) Text(name string) string {
	v, _ := e.Attr(name)
	return v.Text()
}

// Scalar returns the raw scalar of a primitive attribute.
func (e *Entity) Scalar(name string) (any, bool) {
	v, ok := e.Attr(name)
	if !ok || v.Kind != ValuePrimitive || v.Scalar == nil {
		return nil, false
	}
	return v.Scalar, true
}

// Ref returns the handle of a (non-weak) reference attribute.
func (e *Entity) Ref(name string) (Handle, bool) {
	v, ok := e.Attr(name)
	if !ok || v.Kind != ValueReference || v.Weak {
		return 0, false
	}
	return v.Ref, true
}

// Refs returns the handles of a reference or list-of-references attribute.
// Non-reference items and weak references are skipped.
func (e *Entity) Refs(name string) []Handle {
	v, ok := e.Attr(name)
	if !ok {
		return nil
	}
	return v.Handles()
}

// Handles flattens the references held by v.
func (v Value) Handles() []Handle {
	switch v.Kind {
	case ValueReference:
		if v.Weak {
			return nil
		}
		return []Handle{v.Ref}
	case ValueList:
		var out []Handle
		for _, it := range v.Items {
			out = append(out, it.Handles()...)
		}
		return out
	}
	return nil
}

// Name returns the Name attribute, the label most IFC entities carry.
func (e *Entity) Name() (any, bool) { return e.Scalar("Name") }
