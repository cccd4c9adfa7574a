// Package dice builds numbered dice: a convex solid whose triangles are
// labelled in order and textured with their numerals.
package dice

import (
	"fmt"
	"image"

	"diceroll/internal/geometry"
	"diceroll/internal/mathutil"
)

// Die is a labelled convex solid. Faces and Textures are read-only after Build
// and may be shared between concurrent rolls.
type Die struct {
	Name     string
	Hull     []mathutil.Vec3 // distinct vertices, die-local
	Faces    []Face
	Textures map[int]*image.NRGBA // by face label
}

// Build creates the named solid, labels its faces and bakes one numeral
// texture per face. glyphs may be nil for an untextured die.
func Build(name string, radius float64, glyphs GlyphSource) (*Die, error) {
	solid, err := geometry.SolidByName(name, radius)
	if err != nil {
		return nil, err
	}
	verts := solid.NonIndexed()
	faces, err := LabelFaces(verts)
	if err != nil {
		return nil, fmt.Errorf("dice: label %s: %w", name, err)
	}

	d := &Die{
		Name:     solid.Name,
		Hull:     geometry.Dedupe(verts, 1e-9),
		Faces:    faces,
		Textures: make(map[int]*image.NRGBA, len(faces)),
	}
	if glyphs == nil {
		return d, nil
	}
	for _, f := range faces {
		tex, err := glyphs.Glyph(f.Label)
		if err != nil {
			return nil, err
		}
		d.Textures[f.Label] = tex
	}
	return d, nil
}

// Triangles returns the faces placed at the given pose, in face order.
func (d *Die) Triangles(q mathutil.Quat, p mathutil.Vec3) []geometry.Triangle {
	out := make([]geometry.Triangle, len(d.Faces))
	for i, f := range d.Faces {
		out[i] = f.Tri.Transform(q, p)
	}
	return out
}

// FaceCount is N, the highest label.
func (d *Die) FaceCount() int {
	return len(d.Faces)
}
