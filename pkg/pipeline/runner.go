package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ifctree/pkg/cache"
	ierrors "github.com/matzehuels/ifctree/pkg/errors"
	"github.com/matzehuels/ifctree/pkg/ifc"
	"github.com/matzehuels/ifctree/pkg/ifc/relations"
	ifcio "github.com/matzehuels/ifctree/pkg/io"
	"github.com/matzehuels/ifctree/pkg/props"
	"github.com/matzehuels/ifctree/pkg/render/nodelink"
	"github.com/matzehuels/ifctree/pkg/store"
	"github.com/matzehuels/ifctree/pkg/store/memory"
)

// Cache key types reported to the observability hooks.
const (
	keyTypeIndex    = "index"
	keyTypeArtifact = "artifact"
)

// Runner encapsulates model loading and rendering with caching.
// Both CLI and server use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache, store and logger. Multiple
// goroutines can safely use the same Runner.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Store  store.Store
	Logger *log.Logger

	// IndexTTL overrides TTLIndex when positive.
	IndexTTL time.Duration
}

// NewRunner creates a runner.
// If keyer is nil, a DefaultKeyer is used.
// If c is nil, a NullCache is used (caching disabled).
// st may be nil when no persistent store is configured.
func NewRunner(c cache.Cache, keyer cache.Keyer, st store.Store, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Store: st, Logger: logger}
}

// NewWorkspace creates an empty workspace backed by the runner's store.
func (r *Runner) NewWorkspace() *Workspace {
	return newWorkspace(r.Store, r.Logger)
}

// Load resolves ref into ws. An existing file is read as a model document;
// anything else is treated as the ID of a model in the persistent store.
func (r *Runner) Load(ctx context.Context, ws *Workspace, ref string) (Model, error) {
	if fi, err := os.Stat(ref); err == nil && !fi.IsDir() {
		return r.LoadFile(ctx, ws, ref)
	}
	if err := ierrors.ValidateModelID(ref); err != nil {
		return Model{}, ierrors.Wrap(ierrors.ErrCodeModelNotFound, err, "no model file or stored model %q", ref)
	}
	return r.LoadStored(ctx, ws, ifc.ModelID(ref))
}

// LoadFile reads the model document at path into ws.
func (r *Runner) LoadFile(ctx context.Context, ws *Workspace, path string) (Model, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Model{}, ierrors.Wrap(ierrors.ErrCodeModelNotFound, err, "model file %s", path)
	}
	if err != nil {
		return Model{}, fmt.Errorf("read %s: %w", path, err)
	}
	doc, err := ifcio.ReadModel(bytes.NewReader(data))
	if err != nil {
		return Model{}, fmt.Errorf("%s: %w", path, err)
	}
	if doc.ID == "" {
		doc.SetID(ifc.ModelID(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))))
	}

	m := Model{
		Info:   store.ModelInfo{ID: doc.ID, Name: doc.Name, Entities: len(doc.Entities)},
		Source: SourceFile,
		Path:   path,
		Hash:   cache.Hash(data),
	}

	// The index is built from a scratch store so ws never holds a model
	// without its relations.
	scratch := memory.New()
	scratch.Put(m.Info.ID, doc.Entities...)
	rels, hit, err := r.IndexWithCacheInfo(ctx, scratch, m.Info.ID, m.Hash)
	if err != nil {
		return Model{}, err
	}
	ws.add(m, doc.Entities, rels)

	r.Logger.Info("loaded model",
		"model", m.Info.ID,
		"entities", m.Info.Entities,
		"related", rels.Len(),
		"cached", hit)
	return m, nil
}

// LoadStored registers a model of the persistent store in ws.
func (r *Runner) LoadStored(ctx context.Context, ws *Workspace, id ifc.ModelID) (Model, error) {
	if r.Store == nil {
		return Model{}, ierrors.New(ierrors.ErrCodeModelNotFound, "model %q: no such file and no store configured", id)
	}
	info, err := r.Store.Model(ctx, id)
	if errors.Is(err, store.ErrModelNotFound) {
		return Model{}, ierrors.Wrap(ierrors.ErrCodeModelNotFound, err, "model %q", id)
	}
	if err != nil {
		return Model{}, ierrors.Wrap(ierrors.ErrCodeStore, err, "load model %q", id)
	}

	rels, err := relations.Build(ctx, r.Store, id)
	if err != nil {
		return Model{}, ierrors.Wrap(ierrors.ErrCodeStore, err, "index model %q", id)
	}
	m := Model{Info: info, Source: SourceStore}
	ws.add(m, nil, rels)

	r.Logger.Info("loaded stored model", "model", id, "entities", info.Entities, "related", rels.Len())
	return m, nil
}

// IndexWithCacheInfo returns the relation index of model, read from the
// cache under hash when possible, and reports whether it was a cache hit.
// An empty hash bypasses the cache.
func (r *Runner) IndexWithCacheInfo(ctx context.Context, entities ifc.EntityStore, model ifc.ModelID, hash string) (*relations.Model, bool, error) {
	var key string
	if hash != "" {
		key = r.Keyer.IndexKey(hash)
		cached := relations.NewModel(model)
		if hit, err := cache.GetJSON(ctx, r.Cache, keyTypeIndex, key, cached); err == nil && hit {
			// The same file may be loaded under another ID.
			cached.ID = model
			return cached, true, nil
		} else if err != nil {
			r.Logger.Warn("index cache read failed", "model", model, "err", err)
		}
	}

	rels, err := relations.Build(ctx, entities, model)
	if err != nil {
		return nil, false, fmt.Errorf("index %s: %w", model, err)
	}
	if key != "" {
		if err := cache.SetJSON(ctx, r.Cache, keyTypeIndex, key, rels, r.indexTTL()); err != nil {
			r.Logger.Warn("index cache write failed", "model", model, "err", err)
		}
	}
	return rels, false, nil
}

// Import reads the model document at path and saves it in the persistent
// store. id overrides the document's ID when set.
func (r *Runner) Import(ctx context.Context, path string, id ifc.ModelID) (store.ModelInfo, error) {
	if r.Store == nil {
		return store.ModelInfo{}, ierrors.New(ierrors.ErrCodeUnsupported, "no persistent store configured")
	}
	doc, err := ifcio.ImportModel(path)
	if err != nil {
		return store.ModelInfo{}, err
	}
	if id != "" {
		if err := ierrors.ValidateModelID(string(id)); err != nil {
			return store.ModelInfo{}, err
		}
		doc.SetID(id)
	}
	info := store.ModelInfo{ID: doc.ID, Name: doc.Name, Entities: len(doc.Entities)}
	if err := r.Store.Save(ctx, info, doc.Entities); err != nil {
		return store.ModelInfo{}, ierrors.Wrap(ierrors.ErrCodeStore, err, "save model %q", doc.ID)
	}
	r.Logger.Info("imported model", "model", info.ID, "entities", info.Entities)
	return info, nil
}

// RenderWithCacheInfo materializes handles of model and draws them, reading
// the artifact from the cache when possible.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, ws *Workspace, model ifc.ModelID, handles []ifc.Handle, opts Options) ([]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	m, ok := ws.Model(model)
	if !ok {
		return nil, false, ierrors.New(ierrors.ErrCodeModelNotFound, "model %q is not loaded", model)
	}

	var key string
	if m.Hash != "" {
		hs := make([]uint32, len(handles))
		for i, h := range handles {
			hs[i] = uint32(h)
		}
		key = r.Keyer.ArtifactKey(m.Hash, cache.ArtifactKeyOpts{
			Handles: hs,
			Format:  opts.Format,
			Units:   opts.DisplayUnits,
			Depth:   opts.Depth,
		})
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			return data, true, nil
		}
	}

	mat := ws.Materializer(opts.Props(r.Logger))
	rows, err := mat.Materialize(ctx, props.Selection{model: slices.Clone(handles)})
	if err != nil {
		return nil, false, err
	}
	if len(rows) == 0 {
		return nil, false, ierrors.New(ierrors.ErrCodeEntityNotFound, "no entity of %v found in %q", handles, model)
	}
	data, err := nodelink.Render(ctx, rows, opts.Format, nodelink.Options{MaxDepth: opts.Depth})
	if err != nil {
		return nil, false, ierrors.Wrap(ierrors.ErrCodeInternal, err, "render")
	}

	if key != "" {
		if err := r.Cache.Set(ctx, key, data, TTLArtifact); err != nil {
			r.Logger.Warn("artifact cache write failed", "model", model, "err", err)
		}
	}
	return data, false, nil
}

// Render is a convenience wrapper that discards the cache hit info.
func (r *Runner) Render(ctx context.Context, ws *Workspace, model ifc.ModelID, handles []ifc.Handle, opts Options) ([]byte, error) {
	data, _, err := r.RenderWithCacheInfo(ctx, ws, model, handles, opts)
	return data, err
}

func (r *Runner) indexTTL() time.Duration {
	if r.IndexTTL > 0 {
		return r.IndexTTL
	}
	return TTLIndex
}

// Close releases resources held by the runner.
func (r *Runner) Close() error {
	var errs []error
	if r.Cache != nil {
		errs = append(errs, r.Cache.Close())
	}
	if r.Store != nil {
		errs = append(errs, r.Store.Close())
	}
	return errors.Join(errs...)
}
