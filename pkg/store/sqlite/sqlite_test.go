package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/ifctree/pkg/ifc"
	"github.com/matzehuels/ifctree/pkg/store"
	"github.com/matzehuels/ifctree/pkg/store/storetest"
)

func TestStore(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "models.db"))
	require.NoError(t, err)
	defer s.Close()
	storetest.Run(t, s)
}

func TestInMemory(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)
	defer s.Close()
	storetest.Run(t, s)
}

func TestReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "models.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, store.ModelInfo{ID: "m"}, storetest.Entities()))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, path, s.Path())

	e, err := s.Entity(ctx, "m", 3)
	require.NoError(t, err)
	v, _ := e.Attr("NominalValue")
	assert.Equal(t, ifc.Primitive("IFCBOOLEAN", true), v)
}
