package props

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ifctree/pkg/ifc"
	"github.com/matzehuels/ifctree/pkg/observability"
)

// Data keys of explorer rows.
const (
	KeyModel     = "model"
	KeyHandle    = "handle"
	KeyRelations = "relations"
)

// maxExploreDepth bounds the attribute explorer. Path guarding alone keeps it
// finite but not small on densely related models.
const maxExploreDepth = 12

// DefaultDecomposition are the relations followed by [Explorer.Decomposition]
// when none are given.
var DefaultDecomposition = []ifc.Relation{ifc.IsDecomposedBy, ifc.ContainsElements}

// DefaultAttributeMatchers selects the attributes followed by
// [Explorer.Attributes] when no matchers are given.
func DefaultAttributeMatchers() []ifc.Matcher {
	ms := ifc.Exacts(
		"Name",
		"ContainedInStructure",
		"ForLayerSet",
		"LayerThickness",
		"HasProperties",
		"HasAssociations",
		"HasAssignments",
		"HasPropertySets",
		"PredefinedType",
		"Quantities",
		"ReferencedSource",
		"Identification",
	)
	return append(ms,
		ifc.Predicate(func(n string) bool { return strings.Contains(n, "Value") }),
		ifc.Predicate(func(n string) bool { return strings.HasPrefix(n, "Material") }),
		ifc.Predicate(func(n string) bool { return strings.HasPrefix(n, "Relating") }),
		ifc.Predicate(func(n string) bool {
			return strings.HasPrefix(n, "Is") && n != "IsGroupedBy" && n != "IsDecomposedBy"
		}),
	)
}

// Explorer builds the navigation trees shown next to the property table.
type Explorer struct {
	r *Resolver
}

// NewExplorer returns an Explorer over store and index.
func NewExplorer(store ifc.EntityStore, index ifc.RelationIndex, logger *log.Logger) *Explorer {
	return &Explorer{r: NewResolver(store, index, nil, logger)}
}

// Explorer returns an Explorer sharing the materializer's resolver.
func (m *Materializer) Explorer() *Explorer { return &Explorer{r: m.resolver} }

// Project returns the handle of the model's first IFCPROJECT.
func (x *Explorer) Project(ctx context.Context, model ifc.ModelID) (ifc.Handle, bool) {
	ps, err := x.r.store.EntitiesOfKind(ctx, model, ifc.KindProject)
	if err != nil || len(ps) == 0 {
		return 0, false
	}
	return ps[0].Handle, true
}

// Decomposition returns the spatial breakdown below h, or nil if h does not
// resolve. With no relations given, [DefaultDecomposition] is followed.
//
// Children that have relations of their own are nested directly. Leaves are
// grouped under one row per class, in first-seen order:
//
//	IfcBuildingStorey  Level 1
//	├── IfcSpace       Room 101
//	└── IfcWall
//	    ├── Wall-01
//	    └── Wall-02
func (x *Explorer) Decomposition(ctx context.Context, model ifc.ModelID, h ifc.Handle, rels ...ifc.Relation) *Row {
	if len(rels) == 0 {
		rels = DefaultDecomposition
	}
	return x.decompose(ctx, model, h, rels, map[ifc.Handle]struct{}{})
}

func (x *Explorer) decompose(ctx context.Context, model ifc.ModelID, h ifc.Handle, rels []ifc.Relation, path map[ifc.Handle]struct{}) *Row {
	if ctx.Err() != nil {
		return nil
	}
	e, ok := x.r.fetch(ctx, model, h)
	if !ok {
		return nil
	}
	path[h] = struct{}{}
	defer delete(path, h)

	name, _ := e.Name()
	row := &Row{Data: map[string]any{
		KeyEntity: e.Kind.Label(),
		KeyModel:  string(model),
		KeyHandle: uint32(h),
	}}
	if name != nil {
		row.Data[KeyName] = name
	}

	for _, rel := range rels {
		related, ok := x.r.index.Related(model, h, rel)
		if !ok {
			continue
		}
		row.Data[KeyRelations] = handleList(related)

		var order []string
		groups := make(map[string][]*Row)
		for _, c := range related {
			if _, onPath := path[c]; onPath {
				observability.Materialize().OnCycleDetected(ctx, string(model), uint32(c))
				continue
			}
			child := x.decompose(ctx, model, c, rels, path)
			if child == nil {
				continue
			}
			if _, nested := child.Data[KeyRelations]; nested {
				row.Add(child)
				continue
			}
			class := child.Data[KeyEntity].(string)
			if n, ok := child.Data[KeyName]; ok {
				child.Data[KeyEntity] = n
				delete(child.Data, KeyName)
			} else {
				delete(child.Data, KeyEntity)
			}
			if _, seen := groups[class]; !seen {
				order = append(order, class)
			}
			groups[class] = append(groups[class], child)
		}
		for _, class := range order {
			children := groups[class]
			handles := make([]uint32, len(children))
			for i, c := range children {
				handles[i] = c.Data[KeyHandle].(uint32)
			}
			row.Add(&Row{
				Data: map[string]any{
					KeyEntity:    class,
					KeyModel:     string(model),
					KeyRelations: handles,
				},
				Children: children,
			})
		}
	}
	return row
}

// Attributes returns the attribute tree of h. Every attribute whose name is
// selected by include is shown; references among them are followed, as are
// the inverse relations whose names are selected. With no matchers given,
// [DefaultAttributeMatchers] applies. Numbers are rounded to three decimals.
func (x *Explorer) Attributes(ctx context.Context, model ifc.ModelID, h ifc.Handle, include ...ifc.Matcher) *Row {
	if len(include) == 0 {
		include = DefaultAttributeMatchers()
	}
	return x.attributes(ctx, model, h, include, map[ifc.Handle]struct{}{})
}

func (x *Explorer) attributes(ctx context.Context, model ifc.ModelID, h ifc.Handle, include []ifc.Matcher, path map[ifc.Handle]struct{}) *Row {
	e, ok := x.r.fetch(ctx, model, h)
	if !ok {
		return &Row{Data: map[string]any{KeyEntity: fmt.Sprintf("%d properties not found...", h)}}
	}
	row := &Row{Data: map[string]any{KeyEntity: e.Kind.Label()}}
	if len(path) >= maxExploreDepth || ctx.Err() != nil {
		return row
	}
	path[h] = struct{}{}
	defer delete(path, h)

	follow := func(t ifc.Handle) {
		if _, onPath := path[t]; onPath {
			observability.Materialize().OnCycleDetected(ctx, string(model), uint32(t))
			return
		}
		row.Add(x.attributes(ctx, model, t, include, path))
	}

	for _, a := range e.Attributes {
		if !ifc.MatchAny(include, a.Name) || a.Value.IsNull() {
			continue
		}
		switch a.Value.Kind {
		case ifc.ValuePrimitive:
			row.Data[a.Name] = round3(a.Value.Scalar)
		case ifc.ValueReference, ifc.ValueList:
			for _, t := range a.Value.Handles() {
				follow(t)
			}
		}
	}

	for _, m := range include {
		for _, rel := range inverseTargets(m) {
			related, ok := x.r.index.Related(model, h, rel)
			if !ok {
				continue
			}
			for _, t := range related {
				follow(t)
			}
		}
	}
	return row
}

// inverseTargets returns the relations selected by m. Exact matchers select at
// most one relation.
func inverseTargets(m ifc.Matcher) []ifc.Relation {
	if name, ok := m.IsExact(); ok {
		for _, rel := range ifc.Relations {
			if string(rel) == name {
				return []ifc.Relation{rel}
			}
		}
		return nil
	}
	var out []ifc.Relation
	for _, rel := range ifc.Relations {
		if m.Matches(string(rel)) {
			out = append(out, rel)
		}
	}
	return out
}

func round3(v any) any {
	if f, ok := v.(float64); ok {
		return math.Round(f*1000) / 1000
	}
	return v
}

func handleList(hs []ifc.Handle) []uint32 {
	out := make([]uint32, len(hs))
	for i, h := range hs {
		out[i] = uint32(h)
	}
	return out
}
