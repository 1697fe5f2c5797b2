package props

import (
	"context"

	"github.com/matzehuels/ifctree/pkg/ifc"
)

// Classifications renders classification references grouped under the name
// of their source:
//
//	Classifications
//	└── Uniclass 2015
//	    ├── Identification: Pr_20_93
//	    └── Name: Walls
//
// References without a resolvable source are skipped.
func (r *Resolver) Classifications(ctx context.Context, refs []*ifc.Entity) *Row {
	row := NewRow("Classifications")
	for _, ref := range refs {
		src, ok := ref.Ref("ReferencedSource")
		if !ok {
			continue
		}
		source, ok := r.fetch(ctx, ref.Model, src)
		if !ok {
			continue
		}
		sourceName, _ := source.Name()
		ident, ok := ref.Scalar("Identification")
		if !ok {
			// IFC2x3 names the code ItemReference.
			ident, _ = ref.Scalar("ItemReference")
		}
		name, _ := ref.Name()

		c := NewRow(sourceName)
		c.Add(Field("Identification", ident), Field("Name", name))
		row.Add(c)
	}
	return row
}

// Materials renders material associations. Layer set usages expand to one
// Layer row per layer, material lists to one Name row per material, and single
// materials to a Name row.
func (r *Resolver) Materials(ctx context.Context, materials []*ifc.Entity) *Row {
	row := NewRow("Materials")
	for _, m := range materials {
		switch m.Kind {
		case ifc.KindMaterialLayerSetUsage:
			h, ok := m.Ref("ForLayerSet")
			if !ok {
				continue
			}
			if set, ok := r.fetch(ctx, m.Model, h); ok {
				row.Add(r.layerRows(ctx, set)...)
			}
		case ifc.KindMaterialLayerSet:
			row.Add(r.layerRows(ctx, m)...)
		case ifc.KindMaterialLayer:
			row.Add(r.layerRow(ctx, m))
		case ifc.KindMaterialList:
			for _, h := range m.Refs("Materials") {
				if mat, ok := r.fetch(ctx, m.Model, h); ok {
					name, _ := mat.Name()
					row.Add(Field("Name", name))
				}
			}
		case ifc.KindMaterial:
			name, _ := m.Name()
			row.Add(Field("Name", name))
		}
	}
	return row
}

func (r *Resolver) layerRows(ctx context.Context, set *ifc.Entity) []*Row {
	var out []*Row
	for _, h := range set.Refs("MaterialLayers") {
		layer, ok := r.fetch(ctx, set.Model, h)
		if !ok {
			continue
		}
		if lr := r.layerRow(ctx, layer); lr != nil {
			out = append(out, lr)
		}
	}
	return out
}

func (r *Resolver) layerRow(ctx context.Context, layer *ifc.Entity) *Row {
	h, ok := layer.Ref("Material")
	if !ok {
		return nil
	}
	mat, ok := r.fetch(ctx, layer.Model, h)
	if !ok {
		return nil
	}
	thickness, _ := layer.Scalar("LayerThickness")
	name, _ := mat.Name()

	l := NewRow("Layer")
	l.Add(Field("Thickness", thickness), Field("Material", name))
	return l
}
