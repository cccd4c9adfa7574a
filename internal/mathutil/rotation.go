package mathutil

import "math"

// RotX returns a 3×3 rotation matrix around the X axis. Angle in radians.
func RotX(a float64) Mat3 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat3{
		1, 0, 0,
		0, c, -s,
		0, s, c,
	}
}

// RotY returns a 3×3 rotation matrix around the Y axis.
func RotY(a float64) Mat3 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat3{
		c, 0, s,
		0, 1, 0,
		-s, 0, c,
	}
}

// RotZ returns a 3×3 rotation matrix around the Z axis.
func RotZ(a float64) Mat3 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat3{
		c, -s, 0,
		s, c, 0,
		0, 0, 1,
	}
}

// Deg2Rad converts degrees to radians.
func Deg2Rad(d float64) float64 {
	return d * math.Pi / 180
}

// RotationBetween returns the shortest rotation taking unit vector from onto unit vector to.
func RotationBetween(from, to Vec3) Quat {
	d := from.Dot(to)
	if d > 1-1e-9 {
		return QuatIdentity()
	}
	if d < -1+1e-9 {
		axis, _ := from.Tangents()
		return AxisAngle(axis, math.Pi)
	}
	c := from.Cross(to)
	return Quat{c[0], c[1], c[2], 1 + d}.Normalize()
}
