package props

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/matzehuels/ifctree/pkg/ifc"
)

func TestDecomposition(t *testing.T) {
	store, idx := setup(t)
	x := NewExplorer(store, idx, nil)
	ctx := context.Background()

	root, ok := x.Project(ctx, "m")
	assert.True(t, ok)
	assert.Equal(t, ifc.Handle(70), root)

	want := &Row{
		Data: map[string]any{
			KeyEntity: "IfcProject", KeyName: "Demo", KeyModel: "m", KeyHandle: uint32(70),
			KeyRelations: []uint32{60},
		},
		Children: []*Row{{
			Data: map[string]any{
				KeyEntity: "IfcBuildingStorey", KeyName: "Level 1", KeyModel: "m", KeyHandle: uint32(60),
				KeyRelations: []uint32{1, 2},
			},
			Children: []*Row{{
				Data: map[string]any{KeyEntity: "IfcWall", KeyModel: "m", KeyRelations: []uint32{1, 2}},
				Children: []*Row{
					{Data: map[string]any{KeyEntity: "Wall-01", KeyModel: "m", KeyHandle: uint32(1)}},
					{Data: map[string]any{KeyEntity: "Bare", KeyModel: "m", KeyHandle: uint32(2)}},
				},
			}},
		}},
	}
	if diff := cmp.Diff(want, x.Decomposition(ctx, "m", root)); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}

	assert.Nil(t, x.Decomposition(ctx, "m", 999))
}

func TestAttributes(t *testing.T) {
	store, idx := setup(t)
	x := NewExplorer(store, idx, nil)
	ctx := context.Background()

	// 51 nests 50 again; the explorer must not re-enter it.
	want := &Row{
		Data: map[string]any{KeyEntity: "IfcTask", "Name": "Build", "Identification": "A"},
		Children: []*Row{{
			Data: map[string]any{KeyEntity: "IfcTask", "Name": "Formwork", "Identification": "A.1"},
			Children: []*Row{{
				Data: map[string]any{KeyEntity: "IfcTask", "Name": "Pour", "Identification": "A.1.1"},
			}},
		}},
	}
	if diff := cmp.Diff(want, x.Attributes(ctx, "m", 50)); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}

	wall := x.Attributes(ctx, "m", 1)
	assert.Equal(t, "IfcWall", wall.Data[KeyEntity])
	assert.Equal(t, "Wall-01", wall.Data["Name"])
	assert.NotContains(t, wall.Data, "GlobalId")
	if assert.NotEmpty(t, wall.Children) {
		assert.Equal(t, "IfcBuildingStorey", wall.Children[0].Data[KeyEntity], "ContainedInStructure is listed first")
	}

	missing := x.Attributes(ctx, "m", 999)
	assert.Equal(t, "999 properties not found...", missing.Data[KeyEntity])
}

func TestAttributesCustomMatchers(t *testing.T) {
	store, idx := setup(t)
	x := NewExplorer(store, idx, nil)

	row := x.Attributes(context.Background(), "m", 21, ifc.Exact("AreaValue"))
	assert.Equal(t, map[string]any{KeyEntity: "IfcQuantityArea", "AreaValue": 12.346}, row.Data)
	assert.Empty(t, row.Children)
}

func TestInverseTargets(t *testing.T) {
	assert.Equal(t, []ifc.Relation{ifc.HasAssociations}, inverseTargets(ifc.Exact("HasAssociations")))
	assert.Nil(t, inverseTargets(ifc.Exact("Name")))

	var is []ifc.Relation
	for _, m := range DefaultAttributeMatchers() {
		is = append(is, inverseTargets(m)...)
	}
	assert.NotContains(t, is, ifc.IsDecomposedBy)
	assert.Contains(t, is, ifc.IsDefinedBy)
}
