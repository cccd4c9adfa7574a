package roll

import (
	"errors"

	"diceroll/internal/dice"
	"diceroll/internal/geometry"
	"diceroll/internal/mathutil"
)

// ErrNoIntersection is returned when the result ray misses every face.
var ErrNoIntersection = errors.New("roll: result ray hit no face")

// Resolver defaults.
const (
	DefaultRayHeight = 15
	// DefaultRetrySlack is the barycentric widening used for the second cast.
	DefaultRetrySlack = 0.05
)

// Resolver reads the upward face by casting a ray straight down through the
// die's resting x, y position.
type Resolver struct {
	RayHeight  float64
	RetrySlack float64
}

// NewResolver returns a resolver with the default ray height and retry slack.
func NewResolver() Resolver {
	return Resolver{RayHeight: DefaultRayHeight, RetrySlack: DefaultRetrySlack}
}

// Ray is the downward ray used for a die resting at pos.
func (r Resolver) Ray(pos mathutil.Vec3) geometry.Ray {
	return geometry.NewRay(mathutil.Vec3{pos[0], pos[1], r.RayHeight}, mathutil.Down)
}

// Resolve places faces at the pose (q, pos) and returns the label of the
// nearest face the ray crosses. A miss is retried once with widened edges; a
// second miss returns an unknown result and ErrNoIntersection.
func (r Resolver) Resolve(faces []dice.Face, q mathutil.Quat, pos mathutil.Vec3) (Result, error) {
	if len(faces) == 0 {
		return Result{}, ErrNoIntersection
	}
	tris := make([]geometry.Triangle, len(faces))
	for i, f := range faces {
		tris[i] = f.Tri.Transform(q, pos)
	}

	ray := r.Ray(pos)
	hit, ok := ray.Nearest(tris, 0)
	if !ok {
		hit, ok = ray.Nearest(tris, r.RetrySlack)
	}
	if !ok {
		return Result{}, ErrNoIntersection
	}
	return KnownResult(faces[hit.Index].Label), nil
}
