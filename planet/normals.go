package planet

import "gonum.org/v1/gonum/spatial/r3"

// RecalculateNormals replaces mesh normals with the area-weighted average of
// the adjacent triangle normals. The unnormalized edge cross product has
// length twice the triangle area, so summing it weights by area.
// Vertices with no usable triangle keep their existing normal.
func RecalculateNormals(m *MeshData) {
	acc := make([]r3.Vec, len(m.Vertices))
	for t := 0; t+2 < len(m.Triangles); t += 3 {
		a, b, c := m.Triangles[t], m.Triangles[t+1], m.Triangles[t+2]
		n := TriangleNormal(m.Vertices[a], m.Vertices[b], m.Vertices[c])
		acc[a] = r3.Add(acc[a], n)
		acc[b] = r3.Add(acc[b], n)
		acc[c] = r3.Add(acc[c], n)
	}

	for i, n := range acc {
		if r3.Norm2(n) == 0 {
			continue
		}
		m.Normals[i] = r3.Unit(n)
	}
}

// TriangleNormal returns the unnormalized normal implied by the winding a, b, c.
func TriangleNormal(a, b, c r3.Vec) r3.Vec {
	return r3.Cross(r3.Sub(b, a), r3.Sub(c, a))
}
