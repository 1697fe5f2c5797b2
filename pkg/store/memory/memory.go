// Package memory provides an in-process entity store.
//
// It is the default backend for the CLI, which loads a model file into memory
// for the duration of one command, and the fixture store used by tests.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/matzehuels/ifctree/pkg/ifc"
)

type model struct {
	entities map[ifc.Handle]*ifc.Entity
	byKind   map[ifc.Kind][]ifc.Handle
}

// Store keeps entities per model. It is safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	models map[ifc.ModelID]*model
}

// New creates an empty store.
func New() *Store {
	return &Store{models: make(map[ifc.ModelID]*model)}
}

// Put adds entities to a model, replacing entities with the same handle.
// The Model field of each entity is set to id.
func (s *Store) Put(id ifc.ModelID, entities ...*ifc.Entity) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.models[id]
	if !ok {
		m = &model{entities: make(map[ifc.Handle]*ifc.Entity), byKind: make(map[ifc.Kind][]ifc.Handle)}
		s.models[id] = m
	}
	for _, e := range entities {
		e.Model = id
		if old, ok := m.entities[e.Handle]; ok {
			m.byKind[old.Kind] = slices.DeleteFunc(m.byKind[old.Kind], func(h ifc.Handle) bool { return h == e.Handle })
		}
		m.entities[e.Handle] = e
		hs := m.byKind[e.Kind]
		i, _ := slices.BinarySearch(hs, e.Handle)
		m.byKind[e.Kind] = slices.Insert(hs, i, e.Handle)
	}
}

// Remove drops a model and all its entities.
func (s *Store) Remove(id ifc.ModelID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.models, id)
}

// Models returns the loaded model IDs, sorted.
func (s *Store) Models() []ifc.ModelID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]ifc.ModelID, 0, len(s.models))
	for id := range s.models {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Len returns the number of entities in a model.
func (s *Store) Len(id ifc.ModelID) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if m, ok := s.models[id]; ok {
		return len(m.entities)
	}
	return 0
}

// Entity implements ifc.EntityStore.
func (s *Store) Entity(_ context.Context, id ifc.ModelID, h ifc.Handle) (*ifc.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if m, ok := s.models[id]; ok {
		if e, ok := m.entities[h]; ok {
			return e, nil
		}
	}
	return nil, ifc.ErrEntityNotFound
}

// EntitiesOfKind implements ifc.EntityStore.
func (s *Store) EntitiesOfKind(_ context.Context, id ifc.ModelID, kind ifc.Kind) ([]*ifc.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.models[id]
	if !ok {
		return nil, nil
	}
	hs := m.byKind[kind]
	out := make([]*ifc.Entity, 0, len(hs))
	for _, h := range hs {
		out = append(out, m.entities[h])
	}
	return out, nil
}

// All returns every entity of a model in handle order.
func (s *Store) All(id ifc.ModelID) []*ifc.Entity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.models[id]
	if !ok {
		return nil
	}
	hs := make([]ifc.Handle, 0, len(m.entities))
	for h := range m.entities {
		hs = append(hs, h)
	}
	slices.Sort(hs)
	out := make([]*ifc.Entity, len(hs))
	for i, h := range hs {
		out[i] = m.entities[h]
	}
	return out
}

var _ ifc.EntityStore = (*Store)(nil)
