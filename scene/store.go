package scene

import (
	"fmt"
	"sync"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/quadsphere/planet"
)

// Store is a planet.Sink backed by an ark world. Each face maps to one
// entity for the lifetime of the store; upserting a face that already has a
// live entity replaces its mesh in place.
type Store struct {
	mu sync.Mutex

	world  *ecs.World
	mapper *ecs.Map2[FaceTag, FaceMesh]
	filter *ecs.Filter2[FaceTag, FaceMesh]

	entities [planet.NumFaces]ecs.Entity
	present  [planet.NumFaces]bool

	shading planet.ShadingParams
	created int
}

// NewStore creates an empty store.
func NewStore() *Store {
	world := ecs.NewWorld()
	return &Store{
		world:  world,
		mapper: ecs.NewMap2[FaceTag, FaceMesh](world),
		filter: ecs.NewFilter2[FaceTag, FaceMesh](world),
	}
}

// UpsertFace stores mesh for face, reusing the face's entity when it is alive.
func (s *Store) UpsertFace(face planet.Face, mesh *planet.MeshData) error {
	if face.Index < 0 || face.Index >= planet.NumFaces {
		return fmt.Errorf("%w: face index %d", planet.ErrInvalidConfiguration, face.Index)
	}
	if mesh == nil {
		return fmt.Errorf("%w: nil mesh for face %s", planet.ErrInvalidConfiguration, face.Name())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.present[face.Index] && s.world.Alive(s.entities[face.Index]) {
		_, m := s.mapper.Get(s.entities[face.Index])
		m.Data = mesh
		m.Revision++
		m.Dirty = true
		return nil
	}

	tag := FaceTag{Index: face.Index, Name: face.Name()}
	m := FaceMesh{Data: mesh, Revision: 1, Dirty: true}
	s.entities[face.Index] = s.mapper.NewEntity(&tag, &m)
	s.present[face.Index] = true
	s.created++
	return nil
}

// SetElevation records the global range as shading parameters.
func (s *Store) SetElevation(r planet.ElevationRange) error {
	s.mu.Lock()
	s.shading = r.Shading()
	s.mu.Unlock()
	return nil
}

// Shading returns the parameters from the last SetElevation.
func (s *Store) Shading() planet.ShadingParams {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shading
}

// Mesh returns the current mesh and revision of a face.
func (s *Store) Mesh(index int) (*planet.MeshData, int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= planet.NumFaces || !s.present[index] || !s.world.Alive(s.entities[index]) {
		return nil, 0, false
	}
	_, m := s.mapper.Get(s.entities[index])
	return m.Data, m.Revision, true
}

// Drain calls fn for every face upserted since the last drain and clears
// its dirty flag.
func (s *Store) Drain(fn func(tag FaceTag, mesh *planet.MeshData)) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	query := s.filter.Query()
	for query.Next() {
		tag, m := query.Get()
		if !m.Dirty {
			continue
		}
		m.Dirty = false
		fn(*tag, m.Data)
		n++
	}
	return n
}

// Remove drops a face entity. A later upsert creates a new one.
func (s *Store) Remove(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= planet.NumFaces || !s.present[index] {
		return
	}
	if s.world.Alive(s.entities[index]) {
		s.world.RemoveEntity(s.entities[index])
	}
	s.present[index] = false
}

// Len returns the number of face entities in the world.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	query := s.filter.Query()
	for query.Next() {
		n++
	}
	return n
}

// Created returns how many face entities have been created.
func (s *Store) Created() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.created
}
