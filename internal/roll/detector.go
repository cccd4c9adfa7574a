package roll

import (
	"fmt"
	"math"

	"diceroll/internal/mathutil"
)

// ToleranceMode selects how two orientations are compared.
type ToleranceMode int

const (
	// Symmetric treats components as equal when |prev - cur| < tolerance.
	Symmetric ToleranceMode = iota
	// OneSided treats components as equal when prev - cur < tolerance, so any
	// increase of a component counts as unchanged. Kept for parity with older runs.
	OneSided
)

// ParseToleranceMode accepts "symmetric" or "one-sided".
func ParseToleranceMode(s string) (ToleranceMode, error) {
	switch s {
	case "", "symmetric":
		return Symmetric, nil
	case "one-sided", "onesided":
		return OneSided, nil
	}
	return Symmetric, fmt.Errorf("roll: unknown tolerance mode %q", s)
}

func (m ToleranceMode) String() string {
	if m == OneSided {
		return "one-sided"
	}
	return "symmetric"
}

// Detector defaults.
const (
	DefaultTolerance = 0.001
	DefaultThreshold = 100
)

// StopDetector decides when a die has stopped turning by counting consecutive
// frames whose orientation matches the last changed orientation.
type StopDetector struct {
	Tolerance float64
	Threshold int
	Mode      ToleranceMode

	previous     mathutil.Quat
	primed       bool
	stableFrames int
}

// NewStopDetector returns a detector; non-positive arguments take the defaults.
func NewStopDetector(tolerance float64, threshold int, mode ToleranceMode) *StopDetector {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &StopDetector{Tolerance: tolerance, Threshold: threshold, Mode: mode}
}

// Update feeds this frame's orientation and reports whether the die is at
// rest: more than Threshold consecutive stable frames. The first orientation
// after construction or Reset is the reference and counts as stable.
func (d *StopDetector) Update(q mathutil.Quat) bool {
	if !d.primed {
		d.previous, d.primed = q, true
		d.stableFrames = 1
		return d.AtRest()
	}
	if d.equal(d.previous, q) {
		d.stableFrames++
	} else {
		d.previous = q
		d.stableFrames = 0
	}
	return d.AtRest()
}

// AtRest reports the state after the last Update.
func (d *StopDetector) AtRest() bool {
	return d.stableFrames > d.Threshold
}

// StableFrames is the current count of consecutive stable frames.
func (d *StopDetector) StableFrames() int {
	return d.stableFrames
}

// Reset forgets the previous orientation, ready for a new roll.
func (d *StopDetector) Reset() {
	d.previous = mathutil.Quat{}
	d.primed = false
	d.stableFrames = 0
}

func (d *StopDetector) equal(prev, cur mathutil.Quat) bool {
	for i := range prev {
		diff := prev[i] - cur[i]
		if d.Mode == Symmetric {
			diff = math.Abs(diff)
		}
		if diff >= d.Tolerance {
			return false
		}
	}
	return true
}
