package ifc

// Relation is the name of an inverse attribute, e.g. IsDefinedBy.
type Relation string

// Inverse attributes recorded by the relation index.
const (
	IsDefinedBy              Relation = "IsDefinedBy"
	DefinesOccurrence        Relation = "DefinesOccurrence"
	HasAssociations          Relation = "HasAssociations"
	AssociatedTo             Relation = "AssociatedTo"
	ClassificationForObjects Relation = "ClassificationForObjects"
	HasAssignments           Relation = "HasAssignments"
	OperatesOn               Relation = "OperatesOn"
	ContainedInStructure     Relation = "ContainedInStructure"
	ContainsElements         Relation = "ContainsElements"
	Nests                    Relation = "Nests"
	IsNestedBy               Relation = "IsNestedBy"
	Decomposes               Relation = "Decomposes"
	IsDecomposedBy           Relation = "IsDecomposedBy"
	IsTypedBy                Relation = "IsTypedBy"
	Types                    Relation = "Types"
)

// Relations lists every relation name the index can hold, in a stable order.
var Relations = []Relation{
	IsDefinedBy, DefinesOccurrence,
	HasAssociations, AssociatedTo, ClassificationForObjects,
	HasAssignments, OperatesOn,
	ContainedInStructure, ContainsElements,
	Nests, IsNestedBy,
	Decomposes, IsDecomposedBy,
	IsTypedBy, Types,
}
