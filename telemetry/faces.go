package telemetry

import "github.com/pthm-cable/quadsphere/planet"

// FaceRecord is one row of faces.csv.
type FaceRecord struct {
	Rebuild      int     `csv:"rebuild"`
	Face         string  `csv:"face"`
	Vertices     int     `csv:"vertices"`
	Triangles    int     `csv:"triangles"`
	MinElevation float64 `csv:"min_elevation"`
	MaxElevation float64 `csv:"max_elevation"`
	BuildUS      int64   `csv:"build_us"`
}

// FaceRecords flattens a result into one record per face, in face order.
func FaceRecords(rebuild int, res *planet.Result) []FaceRecord {
	records := make([]FaceRecord, 0, planet.NumFaces)
	for _, f := range res.Faces {
		records = append(records, FaceRecord{
			Rebuild:      rebuild,
			Face:         f.Face.Name(),
			Vertices:     len(f.Mesh.Vertices),
			Triangles:    f.Mesh.TriangleCount(),
			MinElevation: f.Elevation.Min,
			MaxElevation: f.Elevation.Max,
			BuildUS:      f.Duration.Microseconds(),
		})
	}
	return records
}
