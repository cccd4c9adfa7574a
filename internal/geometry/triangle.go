package geometry

import "diceroll/internal/mathutil"

// Triangle is three vertices in counter-clockwise order.
type Triangle [3]mathutil.Vec3

// Normal returns the unit face normal, or the zero vector for a degenerate triangle.
func (t Triangle) Normal() mathutil.Vec3 {
	return t[1].Sub(t[0]).Cross(t[2].Sub(t[0])).Normalize()
}

// Centroid returns the mean of the three vertices.
func (t Triangle) Centroid() mathutil.Vec3 {
	return t[0].Add(t[1]).Add(t[2]).Scale(1.0 / 3)
}

// Area returns the triangle's surface area.
func (t Triangle) Area() float64 {
	return 0.5 * t[1].Sub(t[0]).Cross(t[2].Sub(t[0])).Len()
}

// Transform rotates the triangle by q and then translates it by p.
func (t Triangle) Transform(q mathutil.Quat, p mathutil.Vec3) Triangle {
	r := mathutil.QuatToMat3(q)
	return Triangle{
		r.MulVec3(t[0]).Add(p),
		r.MulVec3(t[1]).Add(p),
		r.MulVec3(t[2]).Add(p),
	}
}

// Dedupe returns the distinct points of verts, keeping first-seen order.
// Points closer than tol are treated as the same point.
func Dedupe(verts []mathutil.Vec3, tol float64) []mathutil.Vec3 {
	var out []mathutil.Vec3
	tolSq := tol * tol
next:
	for _, v := range verts {
		for _, u := range out {
			if v.Sub(u).LenSq() <= tolSq {
				continue next
			}
		}
		out = append(out, v)
	}
	return out
}
