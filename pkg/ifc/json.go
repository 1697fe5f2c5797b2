package ifc

import (
	"encoding/json"
	"fmt"
)

// valueJSON is the wire form of a Value. Exactly one of the shapes is used:
//
//	{"type": "IFCLABEL", "value": "Wall-01"}
//	{"ref": 42, "weak": true}
//	{"list": [...]}
type valueJSON struct {
	Type  string      `json:"type,omitempty"`
	Value any         `json:"value,omitempty"`
	Ref   *Handle     `json:"ref,omitempty"`
	Weak  bool        `json:"weak,omitempty"`
	List  []Value     `json:"list,omitempty"`
	Empty *emptyField `json:"empty,omitempty"`
}

// emptyField marks an explicitly empty list, which would otherwise be
// indistinguishable from null.
type emptyField struct{}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case ValueNull:
		return []byte("null"), nil
	case ValuePrimitive:
		return json.Marshal(valueJSON{Type: v.Type, Value: v.Scalar})
	case ValueReference:
		ref := v.Ref
		return json.Marshal(valueJSON{Ref: &ref, Weak: v.Weak})
	case ValueList:
		if len(v.Items) == 0 {
			return json.Marshal(valueJSON{Empty: &emptyField{}})
		}
		return json.Marshal(valueJSON{List: v.Items})
	}
	return nil, fmt.Errorf("unknown value kind %d", v.Kind)
}

// UnmarshalJSON implements json.Unmarshaler. Numbers decode as float64.
func (v *Value) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = Value{}
		return nil
	}
	var w valueJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	switch {
	case w.Ref != nil:
		*v = Value{Kind: ValueReference, Ref: *w.Ref, Weak: w.Weak}
	case w.List != nil:
		*v = List(w.List...)
	case w.Empty != nil:
		*v = Value{Kind: ValueList}
	case w.Value != nil:
		*v = Primitive(w.Type, normalizeScalar(w.Value))
	default:
		*v = Value{}
	}
	return nil
}

func normalizeScalar(s any) any {
	switch x := s.(type) {
	case float64, string, bool:
		return x
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return x.String()
		}
		return f
	}
	return fmt.Sprint(s)
}

type attributeJSON struct {
	Name  string `json:"name"`
	Value Value  `json:"value"`
}

type entityJSON struct {
	Handle     Handle          `json:"handle"`
	Kind       Kind            `json:"kind"`
	Attributes []attributeJSON `json:"attributes"`
}

// MarshalJSON implements json.Marshaler. The model ID is not encoded; it is
// supplied by whatever container holds the entity.
func (e *Entity) MarshalJSON() ([]byte, error) {
	w := entityJSON{Handle: e.Handle, Kind: e.Kind, Attributes: make([]attributeJSON, len(e.Attributes))}
	for i, a := range e.Attributes {
		w.Attributes[i] = attributeJSON(a)
	}
	return json.Marshal(w)
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *Entity) UnmarshalJSON(data []byte) error {
	var w entityJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if w.Handle == 0 {
		return fmt.Errorf("entity: missing handle")
	}
	if w.Kind == "" {
		return fmt.Errorf("entity %s: missing kind", w.Handle)
	}
	e.Handle = w.Handle
	e.Kind = ParseKind(string(w.Kind))
	e.Attributes = make([]Attribute, len(w.Attributes))
	for i, a := range w.Attributes {
		e.Attributes[i] = Attribute(a)
	}
	return nil
}

// EncodeAttributes encodes only the attribute list, as stored by database
// backends that keep handle and kind in their own columns.
func EncodeAttributes(attrs []Attribute) ([]byte, error) {
	w := make([]attributeJSON, len(attrs))
	for i, a := range attrs {
		w[i] = attributeJSON(a)
	}
	return json.Marshal(w)
}

// DecodeAttributes is the inverse of EncodeAttributes.
func DecodeAttributes(data []byte) ([]Attribute, error) {
	var w []attributeJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, err
	}
	out := make([]Attribute, len(w))
	for i, a := range w {
		out[i] = Attribute(a)
	}
	return out, nil
}
