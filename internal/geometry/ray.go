package geometry

import (
	"sort"

	"diceroll/internal/mathutil"
)

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    mathutil.Vec3
	Direction mathutil.Vec3 // normalized
}

// NewRay normalizes dir.
func NewRay(origin, dir mathutil.Vec3) Ray {
	return Ray{Origin: origin, Direction: dir.Normalize()}
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float64) mathutil.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// Hit is one ray/triangle intersection.
type Hit struct {
	Index    int     // index into the triangle slice that was cast against
	Distance float64 // along the ray, > 0
	Point    mathutil.Vec3
}

// IntersectTriangle runs a double-sided Möller–Trumbore test. slack widens
// the barycentric bounds so rays grazing an edge or vertex still register.
// Returns the distance along the ray and whether the triangle was hit.
func (r Ray) IntersectTriangle(tri Triangle, slack float64) (float64, bool) {
	e1 := tri[1].Sub(tri[0])
	e2 := tri[2].Sub(tri[0])
	p := r.Direction.Cross(e2)
	det := e1.Dot(p)
	if det > -1e-12 && det < 1e-12 {
		return 0, false // parallel or degenerate
	}
	invDet := 1 / det

	s := r.Origin.Sub(tri[0])
	u := s.Dot(p) * invDet
	if u < -slack || u > 1+slack {
		return 0, false
	}
	q := s.Cross(e1)
	v := r.Direction.Dot(q) * invDet
	if v < -slack || u+v > 1+slack {
		return 0, false
	}
	t := e2.Dot(q) * invDet
	if t <= 1e-9 {
		return 0, false // behind the origin
	}
	return t, true
}

// Cast intersects the ray with every triangle and returns the hits ordered
// nearest first. Ties keep triangle order.
func (r Ray) Cast(tris []Triangle, slack float64) []Hit {
	var hits []Hit
	for i, tri := range tris {
		if t, ok := r.IntersectTriangle(tri, slack); ok {
			hits = append(hits, Hit{Index: i, Distance: t, Point: r.At(t)})
		}
	}
	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].Distance < hits[b].Distance
	})
	return hits
}

// Nearest returns the closest hit, if any.
func (r Ray) Nearest(tris []Triangle, slack float64) (Hit, bool) {
	hits := r.Cast(tris, slack)
	if len(hits) == 0 {
		return Hit{}, false
	}
	return hits[0], true
}
