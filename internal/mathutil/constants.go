package mathutil

import "math"

// World axes. The scene is Z-up: the table is the z=0 plane and gravity points along -Z.
var (
	AxisX = Vec3{1, 0, 0}
	AxisY = Vec3{0, 1, 0}
	AxisZ = Vec3{0, 0, 1}

	// Down is the direction result rays are cast in.
	Down = Vec3{0, 0, -1}
)

// Epsilon is the tolerance used for degenerate lengths and determinants.
const Epsilon = 1e-12

// NearlyEqual reports whether a and b differ by at most tol.
func NearlyEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}
