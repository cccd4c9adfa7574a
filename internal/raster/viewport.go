package raster

import (
	"image"

	"diceroll/internal/viewmatrix"
)

// MaxPixelRatio caps the device pixel ratio applied to the output size.
const MaxPixelRatio = 2.0

// Viewport ties a camera to a renderer and keeps their sizes in step.
type Viewport struct {
	Width      int // logical size
	Height     int
	PixelRatio float64

	Camera   *viewmatrix.Camera
	Renderer *Renderer
}

// NewViewport creates a viewport with the default table camera.
func NewViewport(width, height int, pixelRatio float64, supersample int) *Viewport {
	v := &Viewport{
		Camera:   viewmatrix.NewPerspective(viewmatrix.DefaultFOV, 1, viewmatrix.DefaultNear, viewmatrix.DefaultFar),
		Renderer: NewRenderer(width, height, supersample),
	}
	v.Resize(width, height, pixelRatio)
	return v
}

// Resize updates the camera aspect and the renderer output to width×height
// logical pixels at pixelRatio (clamped to [1, MaxPixelRatio]).
func (v *Viewport) Resize(width, height int, pixelRatio float64) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	if pixelRatio < 1 {
		pixelRatio = 1
	}
	if pixelRatio > MaxPixelRatio {
		pixelRatio = MaxPixelRatio
	}
	v.Width, v.Height, v.PixelRatio = width, height, pixelRatio
	v.Camera.SetAspect(float64(width) / float64(height))
	v.Renderer.Resize(v.OutputSize())
}

// OutputSize is the size of a finished frame in device pixels.
func (v *Viewport) OutputSize() (int, int) {
	return int(float64(v.Width)*v.PixelRatio + 0.5), int(float64(v.Height)*v.PixelRatio + 0.5)
}

// Render draws surfaces through the camera at the supersampled render size.
func (v *Viewport) Render(surfaces []Surface) *image.NRGBA {
	return v.Renderer.Render(v.Camera, surfaces)
}
