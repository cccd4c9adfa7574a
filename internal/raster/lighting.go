package raster

import (
	"math"

	"diceroll/internal/mathutil"
)

// LightConfig holds precomputed lighting parameters: one ambient term plus a
// single directional light.
type LightConfig struct {
	LightDir  mathutil.Vec3 // unit vector from the scene toward the light
	Ambient   float64
	Direct    float64
	Exposure  float64
	SRGBGamma float64
	InvGamma  float64
}

// DefaultLightConfig returns the table lighting: soft white ambient 0.8 and a
// directional light of intensity 0.4 overhead at (0, 0, 20).
func DefaultLightConfig() LightConfig {
	return LightConfig{
		LightDir:  mathutil.Vec3{0, 0, 20}.Normalize(),
		Ambient:   0.8,
		Direct:    0.4,
		Exposure:  1.6,
		SRGBGamma: 2.2,
		InvGamma:  1.0 / 2.2,
	}
}

// ComputeShade returns the combined lighting scalar for a world-space face normal.
func (lc *LightConfig) ComputeShade(normal mathutil.Vec3) float64 {
	ndl := normal.Dot(lc.LightDir)
	if ndl < 0 {
		ndl = 0
	}
	return lc.Ambient + ndl*lc.Direct
}

// Precomputed sRGB-to-linear lookup table (256 entries).
var srgbToLinear [256]float64

func init() {
	for i := 0; i < 256; i++ {
		srgbToLinear[i] = math.Pow(float64(i)/255.0, 2.2)
	}
}

// ACESTonemap applies ACES Filmic tone mapping to a linear value.
func ACESTonemap(x float64) float64 {
	return (x * (2.51*x + 0.03)) / (x*(2.43*x+0.59) + 0.14)
}
