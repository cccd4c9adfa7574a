package dice

import (
	"errors"
	"fmt"

	"diceroll/internal/geometry"
	"diceroll/internal/mathutil"
)

var (
	// ErrRaggedTriangles is returned when a vertex list does not split into whole triangles.
	ErrRaggedTriangles = errors.New("dice: vertex count is not a multiple of 3")
	// ErrRaggedPositions is returned when a flat position array does not split into whole vertices.
	ErrRaggedPositions = errors.New("dice: position count is not a multiple of 3")
)

// FaceUVs maps each face triangle onto its numeral texture: the first two
// vertices along the bottom edge, the third at the top centre. V is in image
// rows (0 = top).
var FaceUVs = [3][2]float64{{1, 1}, {0.5, 0}, {0, 1}}

// Face is one numbered triangle of the die, in die-local coordinates.
type Face struct {
	Label int
	Tri   geometry.Triangle
	UVs   [3][2]float64
}

// Name is the face label as shown on the die.
func (f Face) Name() string {
	return fmt.Sprintf("%d", f.Label)
}

// LabelFaces splits a non-indexed vertex list into faces. Every three
// consecutive vertices form one face, labelled vertexIndex/3 + 1, so the
// labelling depends only on triangle order. Degenerate triangles are kept.
func LabelFaces(verts []mathutil.Vec3) ([]Face, error) {
	if len(verts)%3 != 0 {
		return nil, fmt.Errorf("%w: got %d vertices", ErrRaggedTriangles, len(verts))
	}
	faces := make([]Face, 0, len(verts)/3)
	for i := 0; i < len(verts); i += 3 {
		faces = append(faces, Face{
			Label: i/3 + 1,
			Tri:   geometry.Triangle{verts[i], verts[i+1], verts[i+2]},
			UVs:   FaceUVs,
		})
	}
	return faces, nil
}

// LabelPositions is LabelFaces over a flat x, y, z position array.
func LabelPositions(positions []float64) ([]Face, error) {
	if len(positions)%3 != 0 {
		return nil, fmt.Errorf("%w: got %d floats", ErrRaggedPositions, len(positions))
	}
	verts := make([]mathutil.Vec3, len(positions)/3)
	for i := range verts {
		verts[i] = mathutil.Vec3{positions[i*3], positions[i*3+1], positions[i*3+2]}
	}
	return LabelFaces(verts)
}
