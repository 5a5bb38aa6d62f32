// Package scene keeps generated planet faces as ECS entities so render
// resources can be reused across rebuilds.
package scene

import "github.com/pthm-cable/quadsphere/planet"

// FaceTag identifies which cube face an entity holds.
type FaceTag struct {
	Index int
	Name  string
}

// FaceMesh holds the current mesh of a face.
type FaceMesh struct {
	Data     *planet.MeshData
	Revision int  // bumped on every upsert
	Dirty    bool // set until a consumer drains the face
}
