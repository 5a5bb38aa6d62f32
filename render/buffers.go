// Package render flattens planet meshes into GPU-ready buffers.
package render

import (
	"errors"
	"fmt"

	"github.com/dgravesa/go-parallel/parallel"

	"github.com/pthm-cable/quadsphere/planet"
)

// MaxVertices is the largest face a 16-bit index buffer can address.
const MaxVertices = 1 << 16

// MaxResolution is the largest face resolution that fits MaxVertices.
const MaxResolution = 256

// ErrTooManyVertices is returned when a mesh cannot be indexed with uint16.
var ErrTooManyVertices = errors.New("mesh exceeds 16-bit index range")

// Buffers holds one face in the flat layout raylib meshes expect.
type Buffers struct {
	Vertices []float32 // xyz per vertex
	Normals  []float32 // xyz per vertex
	Colors   []uint8   // rgba per vertex
	Indices  []uint16
}

// VertexCount returns the number of vertices in the buffers.
func (b *Buffers) VertexCount() int { return len(b.Vertices) / 3 }

// TriangleCount returns the number of triangles in the buffers.
func (b *Buffers) TriangleCount() int { return len(b.Indices) / 3 }

// FromMesh converts mesh into buffers, coloring each vertex by its elevation
// within shading. Vertices are converted in parallel.
func FromMesh(mesh *planet.MeshData, shading planet.ShadingParams, g Gradient) (*Buffers, error) {
	n := len(mesh.Vertices)
	if n > MaxVertices {
		return nil, fmt.Errorf("%w: %d vertices", ErrTooManyVertices, n)
	}
	if len(mesh.Normals) != n {
		return nil, fmt.Errorf("mesh has %d normals for %d vertices", len(mesh.Normals), n)
	}

	b := &Buffers{
		Vertices: make([]float32, 3*n),
		Normals:  make([]float32, 3*n),
		Colors:   make([]uint8, 4*n),
		Indices:  make([]uint16, len(mesh.Triangles)),
	}

	parallel.For(n, func(i, _ int) {
		v, nv := mesh.Vertices[i], mesh.Normals[i]
		b.Vertices[3*i], b.Vertices[3*i+1], b.Vertices[3*i+2] = float32(v.X), float32(v.Y), float32(v.Z)
		b.Normals[3*i], b.Normals[3*i+1], b.Normals[3*i+2] = float32(nv.X), float32(nv.Y), float32(nv.Z)

		c := g.At(shading.Normalize(norm(v.X, v.Y, v.Z)))
		b.Colors[4*i], b.Colors[4*i+1], b.Colors[4*i+2], b.Colors[4*i+3] = c.R, c.G, c.B, c.A
	})

	for i, idx := range mesh.Triangles {
		if idx < 0 || idx >= n {
			return nil, fmt.Errorf("index %d out of range for %d vertices", idx, n)
		}
		b.Indices[i] = uint16(idx)
	}
	return b, nil
}
