package raster

import (
	"image"
	"image/color"

	"diceroll/internal/dice"
	"diceroll/internal/geometry"
	"diceroll/internal/mathutil"
)

// Table defaults.
const (
	TableSize  = 50.0
	TableCells = 10
)

// TableRepeat is how often the table texture repeats across the table in u and v.
var TableRepeat = [2]float64{2, 1}

var (
	// TableColor is used when no table texture is available.
	TableColor = color.NRGBA{R: 133, G: 94, B: 66, A: 255}
	// DieColor fills die faces that have no numeral texture.
	DieColor = color.NRGBA{R: 240, G: 240, B: 240, A: 255}
)

// TableSurface builds a size×size table centred on the origin at z=0, facing +Z.
// The plane is split into cells×cells quads so that parts behind the camera
// can be dropped without losing the visible rest.
func TableSurface(size float64, cells int, tex *image.NRGBA, repeat [2]float64) Surface {
	if cells < 1 {
		cells = 1
	}
	half := size / 2
	step := size / float64(cells)
	uvAt := func(x, y float64) [2]float64 {
		return [2]float64{(x + half) / size * repeat[0], (half - y) / size * repeat[1]}
	}

	s := Surface{Texture: tex, Color: TableColor}
	for j := 0; j < cells; j++ {
		for i := 0; i < cells; i++ {
			x0 := -half + float64(i)*step
			y0 := -half + float64(j)*step
			x1, y1 := x0+step, y0+step
			a := mathutil.Vec3{x0, y0, 0}
			b := mathutil.Vec3{x1, y0, 0}
			c := mathutil.Vec3{x1, y1, 0}
			d := mathutil.Vec3{x0, y1, 0}
			// Counter-clockwise seen from above.
			s.Tris = append(s.Tris, geometry.Triangle{a, b, c}, geometry.Triangle{a, c, d})
			s.UVs = append(s.UVs,
				[3][2]float64{uvAt(x0, y0), uvAt(x1, y0), uvAt(x1, y1)},
				[3][2]float64{uvAt(x0, y0), uvAt(x1, y1), uvAt(x0, y1)},
			)
		}
	}
	return s
}

// DieSurfaces places every face of d at the given pose, one surface per face
// so each carries its own numeral texture.
func DieSurfaces(d *dice.Die, q mathutil.Quat, p mathutil.Vec3) []Surface {
	tris := d.Triangles(q, p)
	out := make([]Surface, len(d.Faces))
	for i, f := range d.Faces {
		out[i] = Surface{
			Tris:    tris[i : i+1],
			UVs:     [][3][2]float64{f.UVs},
			Texture: d.Textures[f.Label],
			Color:   DieColor,
		}
	}
	return out
}
