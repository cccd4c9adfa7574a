// Package geometry holds the die solids, triangle lists and the ray queries
// run against them.
package geometry

import (
	"fmt"
	"math"
	"strings"

	"diceroll/internal/mathutil"
)

// Solid is an indexed convex polyhedron whose vertices lie on a sphere.
type Solid struct {
	Name     string
	Vertices []mathutil.Vec3
	Indices  [][3]int // counter-clockwise seen from outside
}

// Icosahedron returns the 20-face solid used for the default d20.
func Icosahedron(radius float64) Solid {
	t := (1 + math.Sqrt(5)) / 2
	verts := []mathutil.Vec3{
		{-1, t, 0}, {1, t, 0}, {-1, -t, 0}, {1, -t, 0},
		{0, -1, t}, {0, 1, t}, {0, -1, -t}, {0, 1, -t},
		{t, 0, -1}, {t, 0, 1}, {-t, 0, -1}, {-t, 0, 1},
	}
	idx := [][3]int{
		{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
		{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
		{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
		{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
	}
	return project("d20", verts, idx, radius)
}

// Octahedron returns the 8-face solid.
func Octahedron(radius float64) Solid {
	verts := []mathutil.Vec3{
		{1, 0, 0}, {-1, 0, 0}, {0, 1, 0}, {0, -1, 0}, {0, 0, 1}, {0, 0, -1},
	}
	idx := [][3]int{
		{0, 2, 4}, {0, 4, 3}, {0, 3, 5}, {0, 5, 2},
		{1, 2, 5}, {1, 5, 3}, {1, 3, 4}, {1, 4, 2},
	}
	return project("d8", verts, idx, radius)
}

// SolidByName resolves "d8" or "d20" (case-insensitive). Only solids that
// rest on a face with a parallel face on top are offered, since the result is
// read by a ray from above.
func SolidByName(name string, radius float64) (Solid, error) {
	switch strings.ToLower(name) {
	case "d20", "icosahedron":
		return Icosahedron(radius), nil
	case "d8", "octahedron":
		return Octahedron(radius), nil
	}
	return Solid{}, fmt.Errorf("geometry: unknown solid %q", name)
}

func project(name string, verts []mathutil.Vec3, idx [][3]int, radius float64) Solid {
	out := make([]mathutil.Vec3, len(verts))
	for i, v := range verts {
		out[i] = v.Normalize().Scale(radius)
	}
	return Solid{Name: name, Vertices: out, Indices: idx}
}

// NonIndexed expands the solid into a flat vertex list, three consecutive
// vertices per triangle, in index order.
func (s Solid) NonIndexed() []mathutil.Vec3 {
	out := make([]mathutil.Vec3, 0, len(s.Indices)*3)
	for _, tri := range s.Indices {
		out = append(out, s.Vertices[tri[0]], s.Vertices[tri[1]], s.Vertices[tri[2]])
	}
	return out
}

// Positions flattens NonIndexed into x, y, z triplets.
func (s Solid) Positions() []float64 {
	verts := s.NonIndexed()
	out := make([]float64, 0, len(verts)*3)
	for _, v := range verts {
		out = append(out, v[0], v[1], v[2])
	}
	return out
}
