// Package storetest provides a conformance suite for store.Store backends.
package storetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/ifctree/pkg/ifc"
	"github.com/matzehuels/ifctree/pkg/store"
)

// Entities returns a small model: a wall with a property set.
func Entities() []*ifc.Entity {
	return []*ifc.Entity{
		{Handle: 1, Kind: ifc.KindWall, Attributes: []ifc.Attribute{
			{Name: "Name", Value: ifc.Primitive("IFCLABEL", "Wall-01")},
			{Name: "Height", Value: ifc.Primitive("IFCLENGTHMEASURE", 2.75)},
			{Name: "Tag", Value: ifc.Value{}},
		}},
		{Handle: 2, Kind: ifc.KindPropertySet, Attributes: []ifc.Attribute{
			{Name: "Name", Value: ifc.Primitive("IFCLABEL", "Pset_WallCommon")},
			{Name: "HasProperties", Value: ifc.RefList(3)},
		}},
		{Handle: 3, Kind: ifc.KindPropertySingleValue, Attributes: []ifc.Attribute{
			{Name: "Name", Value: ifc.Primitive("IFCIDENTIFIER", "IsExternal")},
			{Name: "NominalValue", Value: ifc.Primitive("IFCBOOLEAN", true)},
		}},
		{Handle: 4, Kind: ifc.KindRelDefinesByProperties, Attributes: []ifc.Attribute{
			{Name: "RelatedObjects", Value: ifc.RefList(1)},
			{Name: "RelatingPropertyDefinition", Value: ifc.Ref(2)},
			{Name: "OwnerHistory", Value: ifc.WeakRef(9)},
		}},
		{Handle: 5, Kind: ifc.KindWall, Attributes: []ifc.Attribute{
			{Name: "Name", Value: ifc.Primitive("IFCLABEL", "Wall-02")},
		}},
	}
}

// Run exercises s. The store must not contain a model named "storetest".
func Run(t *testing.T, s store.Store) {
	t.Helper()
	ctx := context.Background()
	const id ifc.ModelID = "storetest"
	t.Cleanup(func() { _ = s.Delete(ctx, id) })

	t.Run("save and read", func(t *testing.T) {
		require.NoError(t, s.Save(ctx, store.ModelInfo{ID: id, Name: "Test"}, Entities()))

		e, err := s.Entity(ctx, id, 1)
		require.NoError(t, err)
		assert.Equal(t, id, e.Model)
		assert.Equal(t, ifc.KindWall, e.Kind)
		assert.Equal(t, Entities()[0].Attributes, e.Attributes)

		rel, err := s.Entity(ctx, id, 4)
		require.NoError(t, err)
		v, _ := rel.Attr("OwnerHistory")
		assert.True(t, v.Weak, "weak flag must survive storage")

		_, err = s.Entity(ctx, id, 99)
		assert.ErrorIs(t, err, ifc.ErrEntityNotFound)
		_, err = s.Entity(ctx, "unknown", 1)
		assert.ErrorIs(t, err, ifc.ErrEntityNotFound)
	})

	t.Run("entities of kind", func(t *testing.T) {
		walls, err := s.EntitiesOfKind(ctx, id, ifc.KindWall)
		require.NoError(t, err)
		require.Len(t, walls, 2)
		assert.Equal(t, ifc.Handle(1), walls[0].Handle)
		assert.Equal(t, ifc.Handle(5), walls[1].Handle)

		none, err := s.EntitiesOfKind(ctx, id, ifc.KindSlab)
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("models", func(t *testing.T) {
		info, err := s.Model(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, store.ModelInfo{ID: id, Name: "Test", Entities: 5}, info)

		all, err := s.Models(ctx)
		require.NoError(t, err)
		assert.Contains(t, all, info)

		_, err = s.Model(ctx, "unknown")
		assert.ErrorIs(t, err, store.ErrModelNotFound)
	})

	t.Run("save replaces", func(t *testing.T) {
		require.NoError(t, s.Save(ctx, store.ModelInfo{ID: id, Name: "Renamed"}, Entities()[:2]))
		info, err := s.Model(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Renamed", info.Name)
		assert.Equal(t, 2, info.Entities)

		_, err = s.Entity(ctx, id, 5)
		assert.ErrorIs(t, err, ifc.ErrEntityNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, s.Delete(ctx, id))
		_, err := s.Model(ctx, id)
		assert.ErrorIs(t, err, store.ErrModelNotFound)
		_, err = s.Entity(ctx, id, 1)
		assert.ErrorIs(t, err, ifc.ErrEntityNotFound)
		assert.NoError(t, s.Delete(ctx, id), "deleting twice is fine")
	})
}
