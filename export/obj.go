// Package export writes generated planets to mesh interchange formats.
package export

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/pthm-cable/quadsphere/planet"
)

// WriteOBJ writes every face of res as a named group in Wavefront OBJ
// format. Face indices are offset so the groups share one vertex list.
func WriteOBJ(w io.Writer, res *planet.Result) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "# quadsphere: %d vertices, %d triangles\n", res.VertexCount(), res.TriangleCount())
	fmt.Fprintf(bw, "# elevation %g %g\n", res.Elevation.Min, res.Elevation.Max)

	base := 0
	for _, f := range res.Faces {
		m := f.Mesh
		fmt.Fprintf(bw, "g %s\n", f.Face.Name())
		for _, v := range m.Vertices {
			fmt.Fprintf(bw, "v %g %g %g\n", v.X, v.Y, v.Z)
		}
		for _, n := range m.Normals {
			fmt.Fprintf(bw, "vn %g %g %g\n", n.X, n.Y, n.Z)
		}
		for i := 0; i < len(m.Triangles); i += 3 {
			// OBJ indices are 1-based
			a := base + m.Triangles[i] + 1
			b := base + m.Triangles[i+1] + 1
			c := base + m.Triangles[i+2] + 1
			fmt.Fprintf(bw, "f %d//%d %d//%d %d//%d\n", a, a, b, b, c, c)
		}
		base += len(m.Vertices)
	}

	return bw.Flush()
}

// WriteOBJFile writes res to path.
func WriteOBJFile(path string, res *planet.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := WriteOBJ(f, res); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
