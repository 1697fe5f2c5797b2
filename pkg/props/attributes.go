package props

import "github.com/matzehuels/ifctree/pkg/ifc"

// ignoredAttributes are structural or back-reference attributes with no
// meaning for the reader of a property table.
var ignoredAttributes = ifc.Exacts("OwnerHistory", "ObjectPlacement", "CompositionType")

// AttributeOptions configures [ProjectAttributes].
type AttributeOptions struct {
	// GroupLabel names the returned row. Defaults to "Attributes".
	GroupLabel string
	// IncludeKind prepends a Class row with the entity's class name.
	IncludeKind bool
}

// ProjectAttributes flattens the direct attributes of e into one group row.
//
// Only primitive values are emitted, in declaration order. References and
// lists are left to the relation resolvers; null values and the ignored
// attributes are skipped.
func ProjectAttributes(e *ifc.Entity, opts AttributeOptions) *Row {
	label := opts.GroupLabel
	if label == "" {
		label = "Attributes"
	}
	row := NewRow(label)
	if opts.IncludeKind {
		row.Add(Field("Class", e.Kind.Label()))
	}
	for _, a := range e.Attributes {
		if ifc.MatchAny(ignoredAttributes, a.Name) || a.Value.IsNull() {
			continue
		}
		if a.Value.Kind != ifc.ValuePrimitive {
			continue
		}
		row.Add(Field(a.Name, a.Value.Scalar))
	}
	return row
}
