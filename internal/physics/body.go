// Package physics is a small rigid-body engine: convex bodies falling under
// gravity onto static planes, with friction, restitution and sleeping.
package physics

import (
	"math"

	"diceroll/internal/mathutil"
)

// Body is a rigid convex hull. A body with zero mass is static.
type Body struct {
	Mass            float64
	InvMass         float64
	InvInertia      mathutil.Vec3 // body-space diagonal
	Hull            []mathutil.Vec3
	Position        mathutil.Vec3
	Velocity        mathutil.Vec3
	AngularVelocity mathutil.Vec3
	Orientation     mathutil.Quat
	LinearDamping   float64
	AngularDamping  float64

	force  mathutil.Vec3
	torque mathutil.Vec3

	sleeping  bool
	idleTime  float64
	contacts  []contact
	invIWorld mathutil.Mat3
}

// NewConvexBody creates a dynamic body from hull points in body space.
// Inertia is approximated by the hull's bounding box.
func NewConvexBody(mass float64, hull []mathutil.Vec3) *Body {
	b := &Body{
		Mass:           mass,
		Hull:           hull,
		Orientation:    mathutil.QuatIdentity(),
		LinearDamping:  0.01,
		AngularDamping: 0.01,
	}
	if mass <= 0 {
		return b
	}
	b.InvMass = 1 / mass

	half := halfExtents(hull)
	ex, ey, ez := 2*half[0], 2*half[1], 2*half[2]
	inertia := mathutil.Vec3{
		mass / 12 * (ey*ey + ez*ez),
		mass / 12 * (ex*ex + ez*ez),
		mass / 12 * (ex*ex + ey*ey),
	}
	for i, v := range inertia {
		if v > 0 {
			b.InvInertia[i] = 1 / v
		}
	}
	return b
}

func halfExtents(hull []mathutil.Vec3) mathutil.Vec3 {
	var h mathutil.Vec3
	for _, p := range hull {
		for k := 0; k < 3; k++ {
			h[k] = math.Max(h[k], math.Abs(p[k]))
		}
	}
	return h
}

// ApplyForce accumulates a world-space force at a world-space offset from the
// centre of mass. Forces are cleared after the next internal step.
func (b *Body) ApplyForce(force, offset mathutil.Vec3) {
	b.force = b.force.Add(force)
	b.torque = b.torque.Add(offset.Cross(force))
	b.WakeUp()
}

// ApplyLocalForce is ApplyForce with both vectors given in body space.
func (b *Body) ApplyLocalForce(force, localPoint mathutil.Vec3) {
	b.ApplyForce(b.Orientation.Rotate(force), b.Orientation.Rotate(localPoint))
}

// PointToWorld maps a body-space point to world space.
func (b *Body) PointToWorld(p mathutil.Vec3) mathutil.Vec3 {
	return b.Orientation.Rotate(p).Add(b.Position)
}

// Sleeping reports whether the body has come to rest and stopped integrating.
func (b *Body) Sleeping() bool {
	return b.sleeping
}

// WakeUp resumes integration of a sleeping body.
func (b *Body) WakeUp() {
	b.sleeping = false
	b.idleTime = 0
}

// Dynamic reports whether the body moves.
func (b *Body) Dynamic() bool {
	return b.InvMass > 0
}

func (b *Body) updateInertiaWorld() {
	b.invIWorld = mathutil.Conjugate(mathutil.QuatToMat3(b.Orientation), b.InvInertia)
}

// applyImpulse changes momentum by j applied at world offset r.
func (b *Body) applyImpulse(j, r mathutil.Vec3) {
	b.Velocity = b.Velocity.Add(j.Scale(b.InvMass))
	b.AngularVelocity = b.AngularVelocity.Add(b.invIWorld.MulVec3(r.Cross(j)))
}

// velocityAt is the world velocity of the material point at offset r.
func (b *Body) velocityAt(r mathutil.Vec3) mathutil.Vec3 {
	return b.Velocity.Add(b.AngularVelocity.Cross(r))
}

// effectiveMass is the inverse of the impulse needed per unit velocity change along dir at r.
func (b *Body) effectiveMass(r, dir mathutil.Vec3) float64 {
	rn := r.Cross(dir)
	return b.InvMass + rn.Dot(b.invIWorld.MulVec3(rn))
}
