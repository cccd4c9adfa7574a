package viewmatrix

import (
	"math"

	"diceroll/internal/mathutil"
)

// Camera defaults for the dice table view.
const (
	DefaultFOV  = 75.0 // vertical, degrees
	DefaultNear = 0.1
	DefaultFar  = 100.0
)

// FollowOffset is where the camera sits relative to the die it follows.
// The height is absolute, not relative to the die.
var FollowOffset = mathutil.Vec3{0, 10, 13}

// StartPosition is where a new camera sits before its first Follow, on the
// opposite side of the origin from the follow offset.
var StartPosition = mathutil.Vec3{0, -10, 13}

// Camera is a perspective camera with Z up.
type Camera struct {
	FOV    float64
	Aspect float64
	Near   float64
	Far    float64

	Position mathutil.Vec3
	Target   mathutil.Vec3
	Up       mathutil.Vec3
}

// NewPerspective returns a camera at the follow offset aimed at the origin.
// fov is the vertical field of view in degrees.
func NewPerspective(fov, aspect, near, far float64) *Camera {
	if aspect <= 0 {
		aspect = 1
	}
	return &Camera{
		FOV:      fov,
		Aspect:   aspect,
		Near:     near,
		Far:      far,
		Position: StartPosition,
		Up:       mathutil.AxisZ,
	}
}

// SetAspect updates the aspect ratio after a viewport resize.
func (c *Camera) SetAspect(aspect float64) {
	if aspect > 0 {
		c.Aspect = aspect
	}
}

func (c *Camera) LookAt(target mathutil.Vec3) {
	c.Target = target
}

// Follow moves the camera to (x, y+10, 13) relative to target and aims it at target.
func (c *Camera) Follow(target mathutil.Vec3) {
	c.Position = mathutil.Vec3{target[0] + FollowOffset[0], target[1] + FollowOffset[1], FollowOffset[2]}
	c.LookAt(target)
}

// View returns the world-to-camera transform.
func (c *Camera) View() mathutil.Mat4 {
	return mathutil.LookAt(c.Position, c.Target, c.Up)
}

// focal returns the projection scale on the y axis.
func (c *Camera) focal() float64 {
	return 1 / math.Tan(mathutil.Deg2Rad(c.FOV/2))
}

// ProjectVertices transforms world-space vertices to screen coordinates for a
// width×height target.
// Returns px, py, pz slices (screen X, screen Y, inverse depth) and a visibility
// mask; vertices outside the near/far range are marked invisible and their
// screen coordinates are left at zero.
func (c *Camera) ProjectVertices(verts []mathutil.Vec3, width, height int) ([]float64, []float64, []float64, []bool) {
	n := len(verts)
	px := make([]float64, n)
	py := make([]float64, n)
	pz := make([]float64, n)
	vis := make([]bool, n)

	view := c.View()
	f := c.focal()
	halfW := float64(width) / 2
	halfH := float64(height) / 2

	for i, v := range verts {
		t := view.MulPoint(v)
		depth := -t[2]
		if depth < c.Near || depth > c.Far {
			continue
		}
		ndcX := t[0] * f / (c.Aspect * depth)
		ndcY := t[1] * f / depth

		px[i] = (ndcX + 1) * halfW
		py[i] = (1 - ndcY) * halfH
		// Larger is nearer, matching the z-buffer convention.
		pz[i] = 1 / depth
		vis[i] = true
	}
	return px, py, pz, vis
}

// Unproject returns the world-space direction of the ray through screen pixel (sx, sy).
func (c *Camera) Unproject(sx, sy float64, width, height int) mathutil.Vec3 {
	f := c.focal()
	ndcX := sx/(float64(width)/2) - 1
	ndcY := 1 - sy/(float64(height)/2)
	camDir := mathutil.Vec3{ndcX * c.Aspect / f, ndcY / f, -1}

	// The view rotation is orthonormal, so its transpose maps camera to world.
	view := c.View()
	rot := mathutil.Mat3{
		view[0], view[1], view[2],
		view[4], view[5], view[6],
		view[8], view[9], view[10],
	}
	return rot.Transpose().MulVec3(camDir).Normalize()
}
