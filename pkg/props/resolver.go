package props

import (
	"context"
	"errors"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ifctree/pkg/ifc"
	"github.com/matzehuels/ifctree/pkg/observability"
)

// Resolver turns the entities reached through one relation category into a
// labeled sub-tree. It holds no per-call state and is safe for concurrent use.
type Resolver struct {
	store  ifc.EntityStore
	index  ifc.RelationIndex
	units  ifc.UnitResolver
	logger *log.Logger
}

// NewResolver returns a Resolver reading from store and index. units may be
// nil, in which case values are shown without unit symbols.
func NewResolver(store ifc.EntityStore, index ifc.RelationIndex, units ifc.UnitResolver, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Resolver{store: store, index: index, units: units, logger: logger}
}

// fetch loads one entity. Any failure is reported as absent: missing handles
// are expected in partial exports, other store errors are logged.
func (r *Resolver) fetch(ctx context.Context, model ifc.ModelID, h ifc.Handle) (*ifc.Entity, bool) {
	e, err := r.store.Entity(ctx, model, h)
	if err == nil && e != nil {
		return e, true
	}
	switch {
	case err == nil, errors.Is(err, ifc.ErrEntityNotFound):
		r.logger.Debug("entity missing", "model", model, "handle", h)
	case ctx.Err() != nil:
		return nil, false
	default:
		r.logger.Warn("entity fetch failed", "model", model, "handle", h, "err", err)
	}
	observability.Materialize().OnEntityMissing(ctx, string(model), uint32(h))
	return nil, false
}

// related fetches the entities linked to h by rel, skipping absent ones.
func (r *Resolver) related(ctx context.Context, model ifc.ModelID, h ifc.Handle, rel ifc.Relation) []*ifc.Entity {
	hs, ok := r.index.Related(model, h, rel)
	if !ok {
		return nil
	}
	out := make([]*ifc.Entity, 0, len(hs))
	for _, t := range hs {
		if e, ok := r.fetch(ctx, model, t); ok {
			out = append(out, e)
		}
	}
	return out
}

// Container returns the spatial structure containing h as a SpatialContainer
// row, or nil when h is not contained anywhere. Only the first containment is
// shown.
func (r *Resolver) Container(ctx context.Context, model ifc.ModelID, h ifc.Handle) *Row {
	hs, ok := r.index.Related(model, h, ifc.ContainedInStructure)
	if !ok || len(hs) == 0 {
		return nil
	}
	c, ok := r.fetch(ctx, model, hs[0])
	if !ok {
		return nil
	}
	return ProjectAttributes(c, AttributeOptions{GroupLabel: "SpatialContainer"})
}
