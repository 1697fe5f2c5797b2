package relations

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/ifctree/pkg/ifc"
	"github.com/matzehuels/ifctree/pkg/store/memory"
)

func fixture() *memory.Store {
	s := memory.New()
	s.Put("m",
		&ifc.Entity{Handle: 1, Kind: ifc.KindWall},
		&ifc.Entity{Handle: 2, Kind: ifc.KindWall},
		&ifc.Entity{Handle: 10, Kind: ifc.KindPropertySet},
		&ifc.Entity{Handle: 20, Kind: ifc.KindBuildingStorey},
		&ifc.Entity{Handle: 100, Kind: ifc.KindRelDefinesByProperties, Attributes: []ifc.Attribute{
			{Name: "RelatedObjects", Value: ifc.RefList(1, 2, 1)},
			{Name: "RelatingPropertyDefinition", Value: ifc.Ref(10)},
		}},
		&ifc.Entity{Handle: 101, Kind: ifc.KindRelContainedInSpatialStructure, Attributes: []ifc.Attribute{
			{Name: "RelatedElements", Value: ifc.RefList(1, 2)},
			{Name: "RelatingStructure", Value: ifc.Ref(20)},
		}},
		// Broken relationship without a relating side.
		&ifc.Entity{Handle: 102, Kind: ifc.KindRelAggregates, Attributes: []ifc.Attribute{
			{Name: "RelatedObjects", Value: ifc.RefList(1)},
		}},
	)
	return s
}

func TestBuild(t *testing.T) {
	m, err := Build(context.Background(), fixture(), "m")
	require.NoError(t, err)

	psets, ok := m.Related(1, ifc.IsDefinedBy)
	require.True(t, ok)
	assert.Equal(t, []ifc.Handle{10}, psets)

	occurrences, ok := m.Related(10, ifc.DefinesOccurrence)
	require.True(t, ok)
	assert.Equal(t, []ifc.Handle{1, 2}, occurrences, "duplicates are collapsed, order kept")

	containers, _ := m.Related(2, ifc.ContainedInStructure)
	assert.Equal(t, []ifc.Handle{20}, containers)

	_, ok = m.Related(1, ifc.Decomposes)
	assert.False(t, ok, "relationship without relating side must be ignored")

	_, ok = m.Related(99, ifc.IsDefinedBy)
	assert.False(t, ok)
	assert.True(t, m.HasRelations(20))
}

func TestBuildCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Build(ctx, fixture(), "m")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIndex(t *testing.T) {
	m, err := Build(context.Background(), fixture(), "m")
	require.NoError(t, err)

	idx := NewIndex()
	idx.Add(m)
	assert.Equal(t, []ifc.ModelID{"m"}, idx.Models())

	hs, ok := idx.Related("m", 1, ifc.IsDefinedBy)
	assert.True(t, ok)
	assert.Equal(t, []ifc.Handle{10}, hs)

	_, ok = idx.Related("unknown", 1, ifc.IsDefinedBy)
	assert.False(t, ok)

	idx.Remove("m")
	_, ok = idx.Model("m")
	assert.False(t, ok)
}

func TestModelJSON(t *testing.T) {
	m, err := Build(context.Background(), fixture(), "m")
	require.NoError(t, err)

	data, err := json.Marshal(m)
	require.NoError(t, err)

	var restored Model
	require.NoError(t, json.Unmarshal(data, &restored))
	assert.Equal(t, m.ID, restored.ID)
	assert.Equal(t, m.Len(), restored.Len())

	hs, ok := restored.Related(10, ifc.DefinesOccurrence)
	assert.True(t, ok)
	assert.Equal(t, []ifc.Handle{1, 2}, hs)
}
