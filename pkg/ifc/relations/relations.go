// Package relations builds and serves the inverse relation index of IFC models.
//
// IFC stores relationships as objectified entities (IfcRelDefinesByProperties,
// IfcRelContainedInSpatialStructure, ...) that point at both sides. Viewers need
// the opposite direction: given an element, which property sets define it,
// which storey contains it. [Build] scans every relationship entity of a model
// once and records both directions per handle, so that lookups afterwards are
// plain map reads.
//
//	m, err := relations.Build(ctx, store, "model-1")
//	idx := relations.NewIndex()
//	idx.Add(m)
//	psets, ok := idx.Related("model-1", wall, ifc.IsDefinedBy)
package relations

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"github.com/matzehuels/ifctree/pkg/ifc"
)

// definition describes one objectified relationship kind.
type definition struct {
	kind     ifc.Kind
	related  string       // attribute holding the related objects
	relating string       // attribute holding the relating object
	forward  ifc.Relation // recorded on each related object
	inverse  ifc.Relation // recorded on the relating object
}

var definitions = []definition{
	{ifc.KindRelDefinesByProperties, "RelatedObjects", "RelatingPropertyDefinition", ifc.IsDefinedBy, ifc.DefinesOccurrence},
	{ifc.KindRelAssociatesMaterial, "RelatedObjects", "RelatingMaterial", ifc.HasAssociations, ifc.AssociatedTo},
	{ifc.KindRelAssociatesClassification, "RelatedObjects", "RelatingClassification", ifc.HasAssociations, ifc.ClassificationForObjects},
	{ifc.KindRelAssignsToProcess, "RelatedObjects", "RelatingProcess", ifc.HasAssignments, ifc.OperatesOn},
	{ifc.KindRelContainedInSpatialStructure, "RelatedElements", "RelatingStructure", ifc.ContainedInStructure, ifc.ContainsElements},
	{ifc.KindRelNests, "RelatedObjects", "RelatingObject", ifc.Nests, ifc.IsNestedBy},
	{ifc.KindRelAggregates, "RelatedObjects", "RelatingObject", ifc.Decomposes, ifc.IsDecomposedBy},
	{ifc.KindRelDefinesByType, "RelatedObjects", "RelatingType", ifc.IsTypedBy, ifc.Types},
}

// Model holds the inverse relations of one model. It is read-only once built.
type Model struct {
	ID        ifc.ModelID
	relations map[ifc.Handle]map[ifc.Relation][]ifc.Handle
}

// NewModel returns an empty relation set for a model.
func NewModel(id ifc.ModelID) *Model {
	return &Model{ID: id, relations: make(map[ifc.Handle]map[ifc.Relation][]ifc.Handle)}
}

// Build scans the relationship entities of model and returns its relations.
// Relationships with a missing relating side are ignored.
func Build(ctx context.Context, store ifc.EntityStore, model ifc.ModelID) (*Model, error) {
	m := NewModel(model)
	for _, def := range definitions {
		rels, err := store.EntitiesOfKind(ctx, model, def.kind)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", def.kind.Label(), err)
		}
		for _, rel := range rels {
			relating, ok := rel.Ref(def.relating)
			if !ok {
				continue
			}
			for _, related := range rel.Refs(def.related) {
				m.Add(related, def.forward, relating)
				m.Add(relating, def.inverse, related)
			}
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Add records target under (h, rel). Duplicates are ignored.
func (m *Model) Add(h ifc.Handle, rel ifc.Relation, target ifc.Handle) {
	byRel, ok := m.relations[h]
	if !ok {
		byRel = make(map[ifc.Relation][]ifc.Handle)
		m.relations[h] = byRel
	}
	if slices.Contains(byRel[rel], target) {
		return
	}
	byRel[rel] = append(byRel[rel], target)
}

// Related returns the handles related to h through rel.
func (m *Model) Related(h ifc.Handle, rel ifc.Relation) ([]ifc.Handle, bool) {
	hs, ok := m.relations[h][rel]
	if !ok || len(hs) == 0 {
		return nil, false
	}
	return hs, true
}

// HasRelations reports whether h takes part in any relation.
func (m *Model) HasRelations(h ifc.Handle) bool { return len(m.relations[h]) > 0 }

// Len returns the number of handles with at least one relation.
func (m *Model) Len() int { return len(m.relations) }

type modelJSON struct {
	ID        ifc.ModelID                                  `json:"id"`
	Relations map[ifc.Handle]map[ifc.Relation][]ifc.Handle `json:"relations"`
}

// MarshalJSON implements json.Marshaler.
func (m *Model) MarshalJSON() ([]byte, error) {
	return json.Marshal(modelJSON{ID: m.ID, Relations: m.relations})
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *Model) UnmarshalJSON(data []byte) error {
	var w modelJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	m.ID = w.ID
	m.relations = w.Relations
	if m.relations == nil {
		m.relations = make(map[ifc.Handle]map[ifc.Relation][]ifc.Handle)
	}
	return nil
}

// Index serves the relations of several models. It is safe for concurrent use.
type Index struct {
	mu     sync.RWMutex
	models map[ifc.ModelID]*Model
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{models: make(map[ifc.ModelID]*Model)}
}

// Add registers (or replaces) the relations of a model.
func (x *Index) Add(m *Model) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.models[m.ID] = m
}

// Remove drops a model.
func (x *Index) Remove(id ifc.ModelID) {
	x.mu.Lock()
	defer x.mu.Unlock()
	delete(x.models, id)
}

// Model returns the relations of a model.
func (x *Index) Model(id ifc.ModelID) (*Model, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	m, ok := x.models[id]
	return m, ok
}

// Models returns the IDs of all registered models, sorted.
func (x *Index) Models() []ifc.ModelID {
	x.mu.RLock()
	defer x.mu.RUnlock()
	ids := make([]ifc.ModelID, 0, len(x.models))
	for id := range x.models {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Related implements ifc.RelationIndex.
func (x *Index) Related(model ifc.ModelID, h ifc.Handle, rel ifc.Relation) ([]ifc.Handle, bool) {
	m, ok := x.Model(model)
	if !ok {
		return nil, false
	}
	return m.Related(h, rel)
}

var _ ifc.RelationIndex = (*Index)(nil)
