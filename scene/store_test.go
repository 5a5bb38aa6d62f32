package scene

import (
	"context"
	"errors"
	"testing"

	"github.com/pthm-cable/quadsphere/planet"
)

func buildPlanet(t *testing.T, resolution int) *planet.Generator {
	t.Helper()
	g, err := planet.NewGenerator(planet.Settings{
		Resolution: resolution,
		Radius:     1,
		Normals:    planet.NormalsSphere,
	}, planet.Options{Workers: 2})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(g.Close)
	return g
}

func TestStoreReusesEntities(t *testing.T) {
	store := NewStore()
	g := buildPlanet(t, 4)

	for i := 0; i < 3; i++ {
		if _, err := g.Rebuild(context.Background(), store); err != nil {
			t.Fatalf("rebuild %d: %v", i, err)
		}
	}

	if store.Len() != planet.NumFaces {
		t.Errorf("Len = %d, want %d", store.Len(), planet.NumFaces)
	}
	if store.Created() != planet.NumFaces {
		t.Errorf("Created = %d, want %d after repeated rebuilds", store.Created(), planet.NumFaces)
	}
	for i := 0; i < planet.NumFaces; i++ {
		mesh, rev, ok := store.Mesh(i)
		if !ok || mesh == nil {
			t.Fatalf("face %d missing", i)
		}
		if rev != 3 {
			t.Errorf("face %d revision %d, want 3", i, rev)
		}
	}
}

func TestStoreDrain(t *testing.T) {
	store := NewStore()
	g := buildPlanet(t, 3)
	if _, err := g.Rebuild(context.Background(), store); err != nil {
		t.Fatal(err)
	}

	seen := make(map[int]bool)
	n := store.Drain(func(tag FaceTag, mesh *planet.MeshData) {
		seen[tag.Index] = true
		if len(mesh.Vertices) != 9 {
			t.Errorf("face %s: %d vertices", tag.Name, len(mesh.Vertices))
		}
	})
	if n != planet.NumFaces || len(seen) != planet.NumFaces {
		t.Errorf("drained %d faces, want %d", n, planet.NumFaces)
	}
	if n := store.Drain(func(FaceTag, *planet.MeshData) {}); n != 0 {
		t.Errorf("second drain returned %d faces, want 0", n)
	}

	face := planet.Faces()[2]
	mesh, _, _ := store.Mesh(2)
	if err := store.UpsertFace(face, mesh); err != nil {
		t.Fatal(err)
	}
	if n := store.Drain(func(tag FaceTag, _ *planet.MeshData) {
		if tag.Index != 2 {
			t.Errorf("unexpected dirty face %d", tag.Index)
		}
	}); n != 1 {
		t.Errorf("drained %d faces after single upsert, want 1", n)
	}
}

func TestStoreRemoveRecreates(t *testing.T) {
	store := NewStore()
	g := buildPlanet(t, 2)
	if _, err := g.Rebuild(context.Background(), store); err != nil {
		t.Fatal(err)
	}

	store.Remove(0)
	if _, _, ok := store.Mesh(0); ok {
		t.Error("removed face still present")
	}
	if store.Len() != planet.NumFaces-1 {
		t.Errorf("Len = %d after remove", store.Len())
	}

	if _, err := g.Rebuild(context.Background(), store); err != nil {
		t.Fatal(err)
	}
	if store.Created() != planet.NumFaces+1 {
		t.Errorf("Created = %d, want %d", store.Created(), planet.NumFaces+1)
	}
	if _, rev, _ := store.Mesh(0); rev != 1 {
		t.Errorf("recreated face revision %d, want 1", rev)
	}
}

func TestStoreShading(t *testing.T) {
	store := NewStore()
	if err := store.SetElevation(planet.ElevationRange{Min: 0.9, Max: 1.3}); err != nil {
		t.Fatal(err)
	}
	sh := store.Shading()
	if sh.MinHeight != 0.9 || sh.MaxHeight != 1.3 {
		t.Errorf("shading %+v", sh)
	}
}

func TestStoreRejectsBadInput(t *testing.T) {
	store := NewStore()
	if err := store.UpsertFace(planet.Face{Index: 7}, &planet.MeshData{}); !errors.Is(err, planet.ErrInvalidConfiguration) {
		t.Errorf("expected ErrInvalidConfiguration for bad index, got %v", err)
	}
	if err := store.UpsertFace(planet.Faces()[0], nil); !errors.Is(err, planet.ErrInvalidConfiguration) {
		t.Errorf("expected ErrInvalidConfiguration for nil mesh, got %v", err)
	}
}
