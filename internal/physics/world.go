package physics

import (
	"math"

	"diceroll/internal/mathutil"
)

// Settings configures a World.
type Settings struct {
	Gravity    mathutil.Vec3
	Material   ContactMaterial
	Iterations int // solver passes per internal step

	AllowSleep      bool
	SleepSpeedLimit float64 // m/s and rad/s below which a body counts as idle
	SleepTimeLimit  float64 // seconds idle before sleeping

	// BounceThreshold is the approach speed below which contacts do not bounce.
	BounceThreshold float64
}

// DefaultSettings returns Earth gravity along -Z with sleeping enabled.
func DefaultSettings() Settings {
	return Settings{
		Gravity:         mathutil.Vec3{0, 0, -9.81},
		Material:        DefaultMaterial(),
		Iterations:      10,
		AllowSleep:      true,
		SleepSpeedLimit: 0.1,
		SleepTimeLimit:  1,
		BounceThreshold: 0.5,
	}
}

// World steps bodies against static planes. Not safe for concurrent use;
// each roll owns its world.
type World struct {
	Settings
	Bodies []*Body
	Planes []Plane

	accumulator float64
	time        float64
}

// NewWorld creates an empty world. Zero-valued settings fields are taken from DefaultSettings.
func NewWorld(s Settings) *World {
	def := DefaultSettings()
	if s.Iterations <= 0 {
		s.Iterations = def.Iterations
	}
	if s.SleepSpeedLimit <= 0 {
		s.SleepSpeedLimit = def.SleepSpeedLimit
	}
	if s.SleepTimeLimit <= 0 {
		s.SleepTimeLimit = def.SleepTimeLimit
	}
	if s.BounceThreshold <= 0 {
		s.BounceThreshold = def.BounceThreshold
	}
	return &World{Settings: s}
}

func (w *World) AddBody(b *Body)  { w.Bodies = append(w.Bodies, b) }
func (w *World) AddPlane(p Plane) { w.Planes = append(w.Planes, p) }
func (w *World) Time() float64    { return w.time }

// Step advances the world by sinceLast seconds of wall time in fixed
// increments of dt, running at most maxSubSteps internal steps. Leftover time
// carries into the next call. A non-positive sinceLast runs exactly one step.
// Returns the number of internal steps taken.
func (w *World) Step(dt, sinceLast float64, maxSubSteps int) int {
	if sinceLast <= 0 {
		w.internalStep(dt)
		return 1
	}
	if maxSubSteps <= 0 {
		maxSubSteps = 1
	}
	w.accumulator += sinceLast
	steps := 0
	for w.accumulator >= dt && steps < maxSubSteps {
		w.internalStep(dt)
		w.accumulator -= dt
		steps++
	}
	w.accumulator = math.Mod(w.accumulator, dt)
	return steps
}

func (w *World) internalStep(dt float64) {
	for _, b := range w.Bodies {
		if !b.Dynamic() || b.sleeping {
			b.force, b.torque = mathutil.Vec3{}, mathutil.Vec3{}
			continue
		}
		b.updateInertiaWorld()

		// Forces.
		acc := w.Gravity.Add(b.force.Scale(b.InvMass))
		b.Velocity = b.Velocity.Add(acc.Scale(dt))
		b.AngularVelocity = b.AngularVelocity.Add(b.invIWorld.MulVec3(b.torque).Scale(dt))
		b.force, b.torque = mathutil.Vec3{}, mathutil.Vec3{}

		b.Velocity = b.Velocity.Scale(math.Pow(1-b.LinearDamping, dt))
		b.AngularVelocity = b.AngularVelocity.Scale(math.Pow(1-b.AngularDamping, dt))

		// Contacts.
		w.collectContacts(b)
		for i := 0; i < w.Iterations; i++ {
			for c := range b.contacts {
				w.solveContact(b, &b.contacts[c])
			}
		}

		// Integrate.
		b.Position = b.Position.Add(b.Velocity.Scale(dt))
		b.Orientation = b.Orientation.Integrate(b.AngularVelocity, dt)
		w.resolvePenetration(b)

		if w.AllowSleep {
			w.updateSleep(b, dt)
		}
	}
	w.time += dt
}

// contactMargin lets vertices resting exactly on a plane register as touching.
const contactMargin = 1e-3

func (w *World) collectContacts(b *Body) {
	b.contacts = b.contacts[:0]
	for _, pl := range w.Planes {
		for _, local := range b.Hull {
			p := b.PointToWorld(local)
			if pl.Depth(p) < -contactMargin {
				continue
			}
			r := p.Sub(b.Position)
			n := pl.Normal
			t1, t2 := n.Tangents()
			c := contact{
				r:        r,
				n:        n,
				t1:       t1,
				t2:       t2,
				kn:       b.effectiveMass(r, n),
				kt1:      b.effectiveMass(r, t1),
				kt2:      b.effectiveMass(r, t2),
				friction: w.Material.Friction,
			}
			if vn := b.velocityAt(r).Dot(n); vn < -w.BounceThreshold {
				c.target = -w.Material.Restitution * vn
			}
			b.contacts = append(b.contacts, c)
		}
	}
}

// solveContact runs one sequential-impulse pass: a non-negative normal
// impulse, then Coulomb friction clamped by the accumulated normal impulse.
func (w *World) solveContact(b *Body, c *contact) {
	if c.kn <= 0 {
		return
	}
	vn := b.velocityAt(c.r).Dot(c.n)
	dl := (c.target - vn) / c.kn
	next := math.Max(c.lambdaN+dl, 0)
	dl, c.lambdaN = next-c.lambdaN, next
	b.applyImpulse(c.n.Scale(dl), c.r)

	limit := c.friction * c.lambdaN
	c.lambdaT1 = frictionPass(b, c.r, c.t1, c.kt1, c.lambdaT1, limit)
	c.lambdaT2 = frictionPass(b, c.r, c.t2, c.kt2, c.lambdaT2, limit)
}

func frictionPass(b *Body, r, t mathutil.Vec3, k, acc, limit float64) float64 {
	if k <= 0 {
		return acc
	}
	vt := b.velocityAt(r).Dot(t)
	next := acc - vt/k
	next = math.Max(-limit, math.Min(limit, next))
	b.applyImpulse(t.Scale(next-acc), r)
	return next
}

// resolvePenetration lifts the body out of every plane it sank into.
func (w *World) resolvePenetration(b *Body) {
	for _, pl := range w.Planes {
		deepest := 0.0
		for _, local := range b.Hull {
			if d := pl.Depth(b.PointToWorld(local)); d > deepest {
				deepest = d
			}
		}
		if deepest > 0 {
			b.Position = b.Position.Add(pl.Normal.Scale(deepest))
		}
	}
}

func (w *World) updateSleep(b *Body, dt float64) {
	limit := w.SleepSpeedLimit * w.SleepSpeedLimit
	if b.Velocity.LenSq() < limit && b.AngularVelocity.LenSq() < limit {
		b.idleTime += dt
		if b.idleTime > w.SleepTimeLimit {
			b.sleeping = true
			b.Velocity = mathutil.Vec3{}
			b.AngularVelocity = mathutil.Vec3{}
		}
		return
	}
	b.idleTime = 0
}
