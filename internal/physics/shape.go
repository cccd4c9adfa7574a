package physics

import "diceroll/internal/mathutil"

// Plane is a static infinite half-space boundary: points p with
// Normal·p < Offset are inside the solid.
type Plane struct {
	Normal mathutil.Vec3
	Offset float64
}

// GroundPlane is the z=0 table top facing +Z.
func GroundPlane() Plane {
	return Plane{Normal: mathutil.AxisZ}
}

// Depth is how far p is below the plane surface (positive when penetrating).
func (pl Plane) Depth(p mathutil.Vec3) float64 {
	return pl.Offset - pl.Normal.Dot(p)
}

// ContactMaterial holds the surface response shared by every contact.
type ContactMaterial struct {
	Friction    float64
	Restitution float64
}

// DefaultMaterial matches a die bouncing on a wooden table.
func DefaultMaterial() ContactMaterial {
	return ContactMaterial{Friction: 0.2, Restitution: 0.6}
}

type contact struct {
	r        mathutil.Vec3 // from centre of mass to contact point
	n        mathutil.Vec3
	t1, t2   mathutil.Vec3
	kn       float64
	kt1, kt2 float64
	target   float64 // desired separating normal velocity
	lambdaN  float64
	lambdaT1 float64
	lambdaT2 float64
	friction float64
}
