package planet

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/quadsphere/noise"
)

// NormalMode selects how vertex normals are produced.
type NormalMode string

const (
	// NormalsRecalculated averages the area-weighted normals of the triangles
	// around each vertex after displacement.
	NormalsRecalculated NormalMode = "recalculated"
	// NormalsSphere uses the undisplaced sphere direction.
	NormalsSphere NormalMode = "sphere"
)

// MeshData is one face's triangulated grid. It is produced whole by Build and
// never patched; ownership passes to whoever receives it.
type MeshData struct {
	Vertices  []r3.Vec
	Triangles []int
	Normals   []r3.Vec
}

// TriangleCount returns the number of triangles in the mesh.
func (m *MeshData) TriangleCount() int {
	return len(m.Triangles) / 3
}

// Build generates the face mesh. Layers whose settings are inert are skipped;
// every other layer adds its value plus 0.5, and a non-zero total scales the
// sphere point radially.
func (f Face) Build(resolution int, radius float64, layers []noise.Filter, mode NormalMode) (*MeshData, ElevationRange, error) {
	if err := validateBuild(resolution, radius, layers, mode); err != nil {
		return nil, ElevationRange{}, err
	}

	n := resolution
	mesh := &MeshData{
		Vertices:  make([]r3.Vec, n*n),
		Triangles: make([]int, 6*(n-1)*(n-1)),
		Normals:   make([]r3.Vec, n*n),
	}
	elevation := NewElevationRange()
	span := float64(n - 1)

	i, tri := 0, 0
	for y := 0; y < n; y++ {
		py := float64(y) / span
		for x := 0; x < n; x++ {
			px := float64(x) / span

			dir := r3.Unit(f.CubePoint(px, py))

			total := 0.0
			for _, layer := range layers {
				if layer.Settings().Inert() {
					continue
				}
				total += layer.Evaluate(dir) + 0.5
			}

			v := r3.Scale(radius, dir)
			if total != 0 {
				v = r3.Scale(total, v)
			}
			if !finite(v) {
				return nil, ElevationRange{}, fmt.Errorf("%w: face %s vertex %d is %v", ErrNumericDegenerate, f.Name(), i, v)
			}

			mesh.Vertices[i] = v
			mesh.Normals[i] = dir
			elevation.Add(r3.Norm(v))

			if x != n-1 && y != n-1 {
				mesh.Triangles[tri] = i
				mesh.Triangles[tri+1] = i + n + 1
				mesh.Triangles[tri+2] = i + n

				mesh.Triangles[tri+3] = i
				mesh.Triangles[tri+4] = i + 1
				mesh.Triangles[tri+5] = i + n + 1
				tri += 6
			}
			i++
		}
	}

	if mode == NormalsRecalculated {
		RecalculateNormals(mesh)
	}

	return mesh, elevation, nil
}

func validateBuild(resolution int, radius float64, layers []noise.Filter, mode NormalMode) error {
	if resolution < 2 {
		return fmt.Errorf("%w: resolution %d is below 2", ErrInvalidConfiguration, resolution)
	}
	if !(radius > 0) || math.IsInf(radius, 0) {
		return fmt.Errorf("%w: radius %v must be positive and finite", ErrInvalidConfiguration, radius)
	}
	switch mode {
	case NormalsRecalculated, NormalsSphere:
	default:
		return fmt.Errorf("%w: unknown normal mode %q", ErrInvalidConfiguration, mode)
	}
	for i, layer := range layers {
		if layer == nil {
			return fmt.Errorf("%w: layer %d is nil", ErrInvalidConfiguration, i)
		}
		if err := checkLayer(i, layer.Settings()); err != nil {
			return err
		}
	}
	return nil
}

// checkLayer classifies a layer validation failure into the planet taxonomy.
func checkLayer(i int, s noise.Settings) error {
	err := s.Validate()
	switch {
	case err == nil:
		return nil
	case errors.Is(err, noise.ErrDegenerate):
		return fmt.Errorf("%w: layer %d: %w", ErrNumericDegenerate, i, err)
	default:
		return fmt.Errorf("%w: layer %d: %w", ErrInvalidConfiguration, i, err)
	}
}

func finite(v r3.Vec) bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsNaN(v.Z) &&
		!math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0) && !math.IsInf(v.Z, 0)
}
