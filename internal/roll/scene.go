// Package roll runs one dice throw: the physics loop, the stop detector that
// notices when the die has settled, and the resolver that reads the top face.
package roll

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"diceroll/internal/dice"
	"diceroll/internal/mathutil"
	"diceroll/internal/physics"
)

var (
	// ErrNotSettled is returned by Run when the frame budget runs out before the die rests.
	ErrNotSettled = errors.New("roll: die did not come to rest")
	// ErrNotThrown is returned by Run for a State that did not come from Throw.
	ErrNotThrown = errors.New("roll: state was not thrown")
)

// Throw defaults.
const (
	DefaultDropHeight  = 10
	DefaultMaxForce    = 20
	DefaultFixedStep   = 1.0 / 60
	DefaultMaxSubSteps = 3
)

// Options configures a Scene. Zero values take the package defaults, except
// MaxForce where zero means the die is dropped without a push.
type Options struct {
	Physics     physics.Settings
	DropHeight  float64
	Orientation mathutil.Quat // attitude at the drop; zero means identity
	MaxForce    float64       // upper bound of each random horizontal force component
	FixedStep   float64
	MaxSubSteps int

	Tolerance float64
	Threshold int
	Mode      ToleranceMode

	Resolver Resolver
	Logger   *slog.Logger
}

func (o *Options) applyDefaults() {
	if o.Physics.Gravity == (mathutil.Vec3{}) {
		o.Physics = physics.DefaultSettings()
	}
	if o.DropHeight <= 0 {
		o.DropHeight = DefaultDropHeight
	}
	if o.Orientation == (mathutil.Quat{}) {
		o.Orientation = mathutil.QuatIdentity()
	}
	o.Orientation = o.Orientation.Normalize()
	if o.FixedStep <= 0 {
		o.FixedStep = DefaultFixedStep
	}
	if o.MaxSubSteps <= 0 {
		o.MaxSubSteps = DefaultMaxSubSteps
	}
	if o.Resolver.RayHeight <= 0 {
		o.Resolver.RayHeight = DefaultRayHeight
	}
	if o.Resolver.RetrySlack <= 0 {
		o.Resolver.RetrySlack = DefaultRetrySlack
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
}

// Scene is a die on a table. It holds no per-roll progress; that lives in
// State, so one Scene can throw any number of rolls.
type Scene struct {
	die  *dice.Die
	opts Options
}

// NewScene prepares a scene for die. Call Throw before stepping frames.
func NewScene(die *dice.Die, opts Options) (*Scene, error) {
	if die == nil || len(die.Hull) == 0 {
		return nil, fmt.Errorf("roll: die has no hull")
	}
	opts.applyDefaults()
	return &Scene{die: die, opts: opts}, nil
}

// State is the mutable progress of one roll, passed into every Frame call.
type State struct {
	Seed     uint64
	Frame    int
	Elapsed  float64
	Detector *StopDetector
	Result   Result
	Resolved bool
	Err      error // set when resolution failed

	world *physics.World
	body  *physics.Body
}

// Pose is the die's current orientation and position.
func (st *State) Pose() (mathutil.Quat, mathutil.Vec3) {
	if st.body == nil {
		return mathutil.QuatIdentity(), mathutil.Vec3{}
	}
	return st.body.Orientation, st.body.Position
}

// Sample is a snapshot taken after a frame.
type Sample struct {
	Frame        int
	Elapsed      float64
	Position     mathutil.Vec3
	Orientation  mathutil.Quat
	StableFrames int
	AtRest       bool
	Sleeping     bool
	Resolved     bool
	Result       Result
}

// Throw resets the physics and drops the die from the configured height with
// a random horizontal push drawn from seed. The push is applied at the body
// position in body space, which also sets the die spinning.
func (s *Scene) Throw(seed uint64) *State {
	w := physics.NewWorld(s.opts.Physics)
	w.AddPlane(physics.GroundPlane())

	b := physics.NewConvexBody(1, s.die.Hull)
	b.Position = mathutil.Vec3{0, 0, s.opts.DropHeight}
	b.Orientation = s.opts.Orientation
	w.AddBody(b)

	if s.opts.MaxForce > 0 {
		rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
		force := mathutil.Vec3{rng.Float64() * s.opts.MaxForce, rng.Float64() * s.opts.MaxForce, 0}
		b.ApplyLocalForce(force, b.Position)
		s.opts.Logger.Debug("throw", "seed", seed, "force", force)
	}

	return &State{
		Seed:     seed,
		Detector: NewStopDetector(s.opts.Tolerance, s.opts.Threshold, s.opts.Mode),
		world:    w,
		body:     b,
	}
}

// Frame advances the roll by dt seconds of wall time: physics, stop check,
// and, the first time the die is at rest, result resolution. A State that did
// not come from Throw is left untouched.
func (s *Scene) Frame(st *State, dt float64) Sample {
	if st.world == nil {
		return Sample{}
	}
	st.world.Step(s.opts.FixedStep, dt, s.opts.MaxSubSteps)
	st.Frame++
	st.Elapsed += dt

	atRest := st.Detector.Update(st.body.Orientation)
	if atRest && !st.Resolved {
		s.resolve(st)
	}
	return Sample{
		Frame:        st.Frame,
		Elapsed:      st.Elapsed,
		Position:     st.body.Position,
		Orientation:  st.body.Orientation,
		StableFrames: st.Detector.StableFrames(),
		AtRest:       atRest,
		Sleeping:     st.body.Sleeping(),
		Resolved:     st.Resolved,
		Result:       st.Result,
	}
}

func (s *Scene) resolve(st *State) {
	res, err := s.opts.Resolver.Resolve(s.die.Faces, st.body.Orientation, st.body.Position)
	st.Resolved = true
	st.Result = res
	st.Err = err
	if err != nil {
		s.opts.Logger.Warn("result unresolved", "seed", st.Seed, "frame", st.Frame, "err", err)
		return
	}
	s.opts.Logger.Info("die at rest", "seed", st.Seed, "frame", st.Frame, "result", res.Value())
}

// Run steps frames of length dt until the result is resolved or maxFrames
// pass. onFrame, if set, sees every sample and may stop the run by returning
// an error.
func (s *Scene) Run(st *State, dt float64, maxFrames int, onFrame func(Sample) error) (Result, error) {
	if st == nil || st.world == nil {
		return Result{}, ErrNotThrown
	}
	for st.Frame < maxFrames && !st.Resolved {
		sample := s.Frame(st, dt)
		if onFrame != nil {
			if err := onFrame(sample); err != nil {
				return st.Result, err
			}
		}
	}
	if !st.Resolved {
		return Result{}, fmt.Errorf("%w after %d frames", ErrNotSettled, st.Frame)
	}
	return st.Result, st.Err
}

// Die returns the die being rolled.
func (s *Scene) Die() *dice.Die {
	return s.die
}

// Options returns the effective options, defaults applied.
func (s *Scene) Options() Options {
	return s.opts
}
