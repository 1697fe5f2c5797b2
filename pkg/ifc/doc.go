// Package ifc defines the entity model shared by every ifctree component.
//
// # Overview
//
// An IFC model is a flat collection of entities. Each entity is addressed by an
// integer [Handle] that is unique within its model, carries a [Kind] (the
// uppercase IFC class tag such as IFCWALL) and an ordered list of attributes.
// Attribute values form a small tagged union:
//
//   - primitive: a typed scalar wrapper such as IFCLABEL("Wall-01")
//   - reference: a pointer to another entity by handle
//   - list: an ordered sequence of values
//
// References marked weak (owner history and similar back pointers) are kept
// for completeness but are never followed when projecting attributes.
//
// # Collaborators
//
// The package only declares the contracts consumed by the property engine in
// [github.com/matzehuels/ifctree/pkg/props]:
//
//   - [EntityStore]: entity lookup by handle and by kind
//   - [RelationIndex]: precomputed inverse relations per handle
//   - [UnitResolver]: unit symbol and precision for a measure type
//
// Implementations live in pkg/store, pkg/ifc/relations and pkg/units.
//
// # Matching attribute names
//
// Several components select attributes either by exact name or by a rule over
// the name. [Matcher] captures both forms behind a single [Matcher.Matches]:
//
//	valueAttr := ifc.Predicate(func(name string) bool {
//	    return strings.Contains(name, "Value")
//	})
//	ignored := []ifc.Matcher{ifc.Exact("OwnerHistory"), ifc.Exact("ObjectPlacement")}
package ifc
