package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/matzehuels/ifctree/pkg/ifc"
)

func TestStore(t *testing.T) {
	ctx := context.Background()
	s := New()
	s.Put("m",
		&ifc.Entity{Handle: 3, Kind: ifc.KindWall},
		&ifc.Entity{Handle: 1, Kind: ifc.KindWall},
		&ifc.Entity{Handle: 2, Kind: ifc.KindSlab},
	)

	e, err := s.Entity(ctx, "m", 1)
	if err != nil {
		t.Fatalf("Entity() error = %v", err)
	}
	if e.Model != "m" {
		t.Errorf("Entity().Model = %q, want %q", e.Model, "m")
	}

	if _, err := s.Entity(ctx, "m", 99); !errors.Is(err, ifc.ErrEntityNotFound) {
		t.Errorf("Entity(99) error = %v, want ErrEntityNotFound", err)
	}
	if _, err := s.Entity(ctx, "other", 1); !errors.Is(err, ifc.ErrEntityNotFound) {
		t.Errorf("Entity(other model) error = %v, want ErrEntityNotFound", err)
	}

	walls, _ := s.EntitiesOfKind(ctx, "m", ifc.KindWall)
	if len(walls) != 2 || walls[0].Handle != 1 || walls[1].Handle != 3 {
		t.Errorf("EntitiesOfKind(wall) = %v, want handles [1 3]", walls)
	}

	// Replacing an entity moves it between kinds.
	s.Put("m", &ifc.Entity{Handle: 3, Kind: ifc.KindSlab})
	walls, _ = s.EntitiesOfKind(ctx, "m", ifc.KindWall)
	slabs, _ := s.EntitiesOfKind(ctx, "m", ifc.KindSlab)
	if len(walls) != 1 || len(slabs) != 2 {
		t.Errorf("after replace: %d walls, %d slabs, want 1 and 2", len(walls), len(slabs))
	}

	if got := s.Len("m"); got != 3 {
		t.Errorf("Len() = %d, want 3", got)
	}
	if all := s.All("m"); len(all) != 3 || all[2].Handle != 3 {
		t.Errorf("All() not in handle order: %v", all)
	}

	s.Remove("m")
	if got := s.Models(); len(got) != 0 {
		t.Errorf("Models() after Remove = %v, want empty", got)
	}
}
