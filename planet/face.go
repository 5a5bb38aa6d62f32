package planet

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// NumFaces is the number of cube faces in a quad sphere.
const NumFaces = 6

// Directions lists the outward axis of each face. The face index used by
// sinks and output files is the position in this list.
var Directions = [NumFaces]r3.Vec{
	{X: 0, Y: 1, Z: 0},  // up
	{X: 0, Y: -1, Z: 0}, // down
	{X: -1, Y: 0, Z: 0}, // left
	{X: 1, Y: 0, Z: 0},  // right
	{X: 0, Y: 0, Z: 1},  // forward
	{X: 0, Y: 0, Z: -1}, // back
}

var directionNames = [NumFaces]string{"up", "down", "left", "right", "forward", "back"}

// Face is one cube face of the quad sphere: its outward axis and the two
// in-plane axes the grid is laid out along.
type Face struct {
	Index  int
	Up     r3.Vec
	LocalX r3.Vec
	LocalZ r3.Vec
}

// NewFace derives the in-plane axes for an axis-aligned unit up vector.
// LocalX is a cyclic permutation of Up, which is only perpendicular to Up
// because Up has a single non-zero component.
func NewFace(up r3.Vec) (Face, error) {
	idx := -1
	for i, d := range Directions {
		if d == up {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Face{}, fmt.Errorf("%w: face axis %v is not a unit coordinate axis", ErrInvalidConfiguration, up)
	}

	localX := r3.Vec{X: up.Y, Y: up.Z, Z: up.X}
	return Face{
		Index:  idx,
		Up:     up,
		LocalX: localX,
		LocalZ: r3.Cross(up, localX),
	}, nil
}

// Faces returns the six faces in Directions order.
func Faces() [NumFaces]Face {
	var out [NumFaces]Face
	for i, d := range Directions {
		f, err := NewFace(d)
		if err != nil {
			panic(err)
		}
		out[i] = f
	}
	return out
}

// Name returns the face's direction name.
func (f Face) Name() string {
	if f.Index < 0 || f.Index >= NumFaces {
		return fmt.Sprintf("face%d", f.Index)
	}
	return directionNames[f.Index]
}

// CubePoint returns the point on the unit cube face at grid progress (px, py) in [0,1].
func (f Face) CubePoint(px, py float64) r3.Vec {
	return r3.Add(f.Up, r3.Add(r3.Scale(2*px-1, f.LocalX), r3.Scale(2*py-1, f.LocalZ)))
}
