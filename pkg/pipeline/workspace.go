package pipeline

import (
	"context"
	"slices"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ifctree/pkg/ifc"
	"github.com/matzehuels/ifctree/pkg/ifc/relations"
	"github.com/matzehuels/ifctree/pkg/props"
	"github.com/matzehuels/ifctree/pkg/store"
	"github.com/matzehuels/ifctree/pkg/store/memory"
	"github.com/matzehuels/ifctree/pkg/units"
)

// Source records where a loaded model came from.
type Source string

const (
	SourceFile  Source = "file"
	SourceStore Source = "store"
)

// Model describes a model loaded into a workspace.
type Model struct {
	Info   store.ModelInfo
	Source Source
	// Path is the model file for SourceFile models.
	Path string
	// Hash is the content hash of the model file, empty for stored models.
	Hash string
}

// Workspace is the set of models one CLI invocation or server process works
// on. It is safe for concurrent use.
type Workspace struct {
	mem        *memory.Store
	persistent store.Store
	index      *relations.Index
	units      *units.Resolver

	mu     sync.RWMutex
	models map[ifc.ModelID]Model
}

func newWorkspace(persistent store.Store, logger *log.Logger) *Workspace {
	w := &Workspace{
		mem:        memory.New(),
		persistent: persistent,
		index:      relations.NewIndex(),
		models:     make(map[ifc.ModelID]Model),
	}
	w.units = units.NewResolver(w, logger)
	return w
}

// Index returns the relation index of all loaded models.
func (w *Workspace) Index() *relations.Index { return w.index }

// Units returns the unit resolver shared by the workspace's materializers.
func (w *Workspace) Units() *units.Resolver { return w.units }

// Model returns a loaded model.
func (w *Workspace) Model(id ifc.ModelID) (Model, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	m, ok := w.models[id]
	return m, ok
}

// Models returns the loaded models sorted by ID.
func (w *Workspace) Models() []Model {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]Model, 0, len(w.models))
	for _, m := range w.models {
		out = append(out, m)
	}
	slices.SortFunc(out, func(a, b Model) int {
		switch {
		case a.Info.ID < b.Info.ID:
			return -1
		case a.Info.ID > b.Info.ID:
			return 1
		}
		return 0
	})
	return out
}

// Unload forgets a model.
func (w *Workspace) Unload(id ifc.ModelID) {
	w.mu.Lock()
	delete(w.models, id)
	w.mu.Unlock()
	w.mem.Remove(id)
	w.index.Remove(id)
	w.units.Forget(id)
}

func (w *Workspace) add(m Model, entities []*ifc.Entity, rels *relations.Model) {
	if m.Source == SourceFile {
		w.mem.Remove(m.Info.ID)
		w.mem.Put(m.Info.ID, entities...)
	}
	w.mu.Lock()
	w.models[m.Info.ID] = m
	w.mu.Unlock()
	w.index.Add(rels)
	w.units.Forget(m.Info.ID)
}

func (w *Workspace) backend(model ifc.ModelID) ifc.EntityStore {
	w.mu.RLock()
	m, ok := w.models[model]
	w.mu.RUnlock()
	if ok && m.Source == SourceStore && w.persistent != nil {
		return w.persistent
	}
	return w.mem
}

// Entity implements ifc.EntityStore.
func (w *Workspace) Entity(ctx context.Context, model ifc.ModelID, h ifc.Handle) (*ifc.Entity, error) {
	return w.backend(model).Entity(ctx, model, h)
}

// EntitiesOfKind implements ifc.EntityStore.
func (w *Workspace) EntitiesOfKind(ctx context.Context, model ifc.ModelID, kind ifc.Kind) ([]*ifc.Entity, error) {
	return w.backend(model).EntitiesOfKind(ctx, model, kind)
}

// Materializer creates a materializer over the workspace. Unit display uses
// the workspace's unit resolver unless opts.Units is set.
func (w *Workspace) Materializer(opts props.Options) *props.Materializer {
	if opts.Units == nil {
		opts.Units = w.units
	}
	return props.NewMaterializer(w, w.index, opts)
}

// Explorer creates an explorer over the workspace.
func (w *Workspace) Explorer(logger *log.Logger) *props.Explorer {
	return props.NewExplorer(w, w.index, logger)
}

var _ ifc.EntityStore = (*Workspace)(nil)
