package props

import "github.com/matzehuels/ifctree/pkg/ifc"

// Data keys used by the property table.
const (
	KeyName   = "Name"
	KeyValue  = "Value"
	KeyEntity = "Entity"
)

// Row is one node of the materialized table.
type Row struct {
	Data     map[string]any `json:"data" yaml:"data"`
	Children []*Row         `json:"children,omitempty" yaml:"children,omitempty"`
}

// NewRow returns a group row labeled name. A nil name leaves the label unset.
func NewRow(name any) *Row {
	r := &Row{Data: make(map[string]any, 2)}
	if name != nil {
		r.Data[KeyName] = name
	}
	return r
}

// Field returns a leaf row {Name: name, Value: value}.
func Field(name, value any) *Row {
	r := NewRow(name)
	r.Data[KeyValue] = value
	return r
}

// Add appends the non-nil rows as children.
func (r *Row) Add(children ...*Row) {
	for _, c := range children {
		if c != nil {
			r.Children = append(r.Children, c)
		}
	}
}

// HasChildren reports whether r has at least one child.
func (r *Row) HasChildren() bool { return r != nil && len(r.Children) > 0 }

// Name returns the row label formatted as text.
func (r *Row) Name() string { return ifc.FormatScalar(r.Data[KeyName]) }

// Value returns the leaf value and whether the row has one.
func (r *Row) Value() (any, bool) {
	v, ok := r.Data[KeyValue]
	return v, ok
}

// Child returns the first child labeled name.
func (r *Row) Child(name string) (*Row, bool) {
	for _, c := range r.Children {
		if c.Name() == name {
			return c, true
		}
	}
	return nil, false
}

// Walk visits r and its descendants depth-first. Returning false from fn
// skips the children of that row.
func (r *Row) Walk(fn func(row *Row, depth int) bool) {
	r.walk(fn, 0)
}

func (r *Row) walk(fn func(*Row, int) bool, depth int) {
	if !fn(r, depth) {
		return
	}
	for _, c := range r.Children {
		c.walk(fn, depth+1)
	}
}

// nonEmpty returns r when it has children, nil otherwise.
func nonEmpty(r *Row) *Row {
	if r.HasChildren() {
		return r
	}
	return nil
}
