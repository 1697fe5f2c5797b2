package props

import (
	"context"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/ifctree/pkg/ifc"
	"github.com/matzehuels/ifctree/pkg/observability"
)

// DefaultWorkers bounds how many handles of one selection are resolved at once.
const DefaultWorkers = 8

// Selection maps each model to the handles selected in it.
type Selection map[ifc.ModelID][]ifc.Handle

// Empty reports whether no handle is selected.
func (s Selection) Empty() bool {
	for _, hs := range s {
		if len(hs) > 0 {
			return false
		}
	}
	return true
}

// Len returns the number of selected handles, duplicates included.
func (s Selection) Len() int {
	n := 0
	for _, hs := range s {
		n += len(hs)
	}
	return n
}

// Distinct returns the number of distinct (model, handle) pairs.
func (s Selection) Distinct() int { return len(s.targets()) }

type target struct {
	model  ifc.ModelID
	handle ifc.Handle
}

// targets flattens the selection: models in sorted order, handles in the
// order given with repeats removed.
func (s Selection) targets() []target {
	models := make([]ifc.ModelID, 0, len(s))
	for m := range s {
		models = append(models, m)
	}
	sort.Slice(models, func(i, j int) bool { return models[i] < models[j] })

	var out []target
	for _, m := range models {
		seen := make(map[ifc.Handle]struct{}, len(s[m]))
		for _, h := range s[m] {
			if _, dup := seen[h]; dup {
				continue
			}
			seen[h] = struct{}{}
			out = append(out, target{model: m, handle: h})
		}
	}
	return out
}

// Options configures a [Materializer].
type Options struct {
	// Units resolves measure types to display units. Nil disables units.
	Units ifc.UnitResolver
	// DisplayUnits appends unit symbols to property and quantity values.
	DisplayUnits bool
	// Workers bounds concurrent handle resolution. Defaults to DefaultWorkers.
	Workers int
	Logger  *log.Logger
}

// Materializer builds the property table of a selection.
type Materializer struct {
	resolver *Resolver
	memo     *Memo
	group    singleflight.Group
	opts     Options
	logger   *log.Logger
}

// NewMaterializer returns a Materializer with an empty memo.
func NewMaterializer(store ifc.EntityStore, index ifc.RelationIndex, opts Options) *Materializer {
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return &Materializer{
		resolver: NewResolver(store, index, opts.Units, opts.Logger),
		memo:     NewMemo(),
		opts:     opts,
		logger:   opts.Logger,
	}
}

// Resolver returns the resolver the materializer walks with.
func (m *Materializer) Resolver() *Resolver { return m.resolver }

// Memo returns the row memo.
func (m *Materializer) Memo() *Memo { return m.memo }

// Reset clears the memo.
func (m *Materializer) Reset(ctx context.Context) {
	m.memo.Clear()
	observability.Materialize().OnMemoReset(ctx)
}

// Materialize returns one row per selected handle that resolves to an entity,
// in selection order. An empty selection clears the memo and returns no rows.
//
// Missing entities and relations never fail the call; the only error returned
// is the context's.
func (m *Materializer) Materialize(ctx context.Context, sel Selection) (rows []*Row, err error) {
	if sel.Empty() {
		m.logger.Debug("empty selection, clearing memo")
		m.Reset(ctx)
		return nil, nil
	}

	targets := sel.targets()
	start := time.Now()
	hooks := observability.Materialize()
	hooks.OnMaterializeStart(ctx, len(sel), len(targets))
	defer func() {
		hooks.OnMaterializeComplete(ctx, len(rows), time.Since(start), err)
	}()

	results := make([]*Row, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.opts.Workers)
	for i, t := range targets {
		g.Go(func() error {
			row, err := m.row(gctx, t.model, t.handle)
			if err != nil {
				return err
			}
			results[i] = row
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows = make([]*Row, 0, len(results))
	for _, r := range results {
		if r != nil {
			rows = append(rows, r)
		}
	}
	m.logger.Debug("materialized", "handles", len(targets), "rows", len(rows), "elapsed", time.Since(start))
	return rows, nil
}

// row returns the memoized row of h, building it at most once per generation
// even when several callers ask concurrently.
func (m *Materializer) row(ctx context.Context, model ifc.ModelID, h ifc.Handle) (*Row, error) {
	hooks := observability.Materialize()
	if row, ok := m.memo.Get(model, h); ok {
		hooks.OnMemoHit(ctx, string(model))
		return row, nil
	}
	gen := m.memo.Generation()
	key := string(model) + "\x00" + strconv.FormatUint(uint64(h), 10)
	v, err, _ := m.group.Do(key, func() (any, error) {
		if row, ok := m.memo.Get(model, h); ok {
			return row, nil
		}
		hooks.OnMemoMiss(ctx, string(model))
		row, err := m.build(ctx, model, h)
		if err != nil || row == nil {
			return row, err
		}
		m.memo.Put(gen, model, h, row)
		return row, nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		// The shared call was cancelled by another caller's context.
		return m.build(ctx, model, h)
	}
	row, _ := v.(*Row)
	return row, nil
}

// build materializes one element. The relation categories are independent
// and resolve in parallel; their rows are attached in a fixed order.
func (m *Materializer) build(ctx context.Context, model ifc.ModelID, h ifc.Handle) (*Row, error) {
	e, ok := m.resolver.fetch(ctx, model, h)
	if !ok {
		return nil, ctx.Err()
	}

	var (
		psets, qsets               *Row
		classifications, materials *Row
		tasks, container           *Row
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		psets, qsets = m.definitions(gctx, model, h)
		return gctx.Err()
	})
	g.Go(func() error {
		classifications, materials = m.associations(gctx, model, h)
		return gctx.Err()
	})
	g.Go(func() error {
		tasks = m.assignments(gctx, model, h)
		return gctx.Err()
	})
	g.Go(func() error {
		container = m.resolver.Container(gctx, model, h)
		return gctx.Err()
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	name, _ := e.Name()
	row := NewRow(name)
	row.Add(
		ProjectAttributes(e, AttributeOptions{IncludeKind: true}),
		psets,
		qsets,
		classifications,
		materials,
		tasks,
		container,
	)
	return row, nil
}

func (m *Materializer) definitions(ctx context.Context, model ifc.ModelID, h ifc.Handle) (psets, qsets *Row) {
	var ps, qs []*ifc.Entity
	for _, d := range m.resolver.related(ctx, model, h, ifc.IsDefinedBy) {
		switch d.Kind {
		case ifc.KindPropertySet:
			ps = append(ps, d)
		case ifc.KindElementQuantity:
			qs = append(qs, d)
		}
	}
	return nonEmpty(m.resolver.PropertySets(ctx, ps, m.opts.DisplayUnits)),
		nonEmpty(m.resolver.QuantitySets(ctx, qs, m.opts.DisplayUnits))
}

func (m *Materializer) associations(ctx context.Context, model ifc.ModelID, h ifc.Handle) (classifications, materials *Row) {
	var cs, ms []*ifc.Entity
	for _, a := range m.resolver.related(ctx, model, h, ifc.HasAssociations) {
		switch a.Kind {
		case ifc.KindClassificationReference:
			cs = append(cs, a)
		case ifc.KindMaterial, ifc.KindMaterialList, ifc.KindMaterialLayer,
			ifc.KindMaterialLayerSet, ifc.KindMaterialLayerSetUsage:
			ms = append(ms, a)
		}
	}
	return nonEmpty(m.resolver.Classifications(ctx, cs)), nonEmpty(m.resolver.Materials(ctx, ms))
}

func (m *Materializer) assignments(ctx context.Context, model ifc.ModelID, h ifc.Handle) *Row {
	var ts []*ifc.Entity
	for _, a := range m.resolver.related(ctx, model, h, ifc.HasAssignments) {
		if a.Kind == ifc.KindTask {
			ts = append(ts, a)
		}
	}
	return nonEmpty(m.resolver.Tasks(ctx, ts))
}
