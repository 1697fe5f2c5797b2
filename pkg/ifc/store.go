package ifc

import "context"

// EntityStore gives read access to the entities of loaded models.
type EntityStore interface {
	// Entity returns the entity with handle h, or ErrEntityNotFound.
	Entity(ctx context.Context, model ModelID, h Handle) (*Entity, error)
	// EntitiesOfKind returns every entity of the given kind in handle order.
	EntitiesOfKind(ctx context.Context, model ModelID, kind Kind) ([]*Entity, error)
}

// RelationIndex resolves inverse relations. A false result means the
// relation has no entry for h, which is not an error.
type RelationIndex interface {
	Related(model ModelID, h Handle, rel Relation) ([]Handle, bool)
}

// Unit is the display unit of a measure type.
type Unit struct {
	Symbol string
	Digits int
}

// UnitResolver maps a measure type (IFCLENGTHMEASURE) to its model unit.
type UnitResolver interface {
	Resolve(ctx context.Context, model ModelID, valueType string) (Unit, bool)
}
