package raster

import (
	"image"
	"image/color"

	"diceroll/internal/geometry"
	"diceroll/internal/mathutil"
	"diceroll/internal/viewmatrix"
)

// Surface is a set of world-space triangles sharing one texture or color.
type Surface struct {
	Tris    []geometry.Triangle
	UVs     [][3][2]float64 // per triangle; ignored when Texture is nil
	Texture *image.NRGBA
	Color   color.NRGBA
}

// Background is the clear color behind the table.
var Background = color.NRGBA{R: 24, G: 24, B: 28, A: 255}

// Renderer draws surfaces through a camera into a reusable frame buffer.
// A Renderer is not safe for concurrent use; give each goroutine its own.
type Renderer struct {
	Width       int // output size before supersampling
	Height      int
	Supersample int
	Light       LightConfig
	Background  color.NRGBA

	fb *FrameBuffer
}

// NewRenderer creates a renderer for a width×height output drawn at
// supersample× resolution.
func NewRenderer(width, height, supersample int) *Renderer {
	if supersample < 1 {
		supersample = 1
	}
	return &Renderer{
		Width:       width,
		Height:      height,
		Supersample: supersample,
		Light:       DefaultLightConfig(),
		Background:  Background,
	}
}

// Resize changes the output size. The frame buffer is reallocated on the
// next Render.
func (r *Renderer) Resize(width, height int) {
	r.Width, r.Height = width, height
}

// RenderSize is the frame buffer size including supersampling.
func (r *Renderer) RenderSize() (int, int) {
	return r.Width * r.Supersample, r.Height * r.Supersample
}

// Render rasterizes surfaces as seen by cam and returns the supersampled
// frame. Triangles facing away from the camera or crossing the near plane
// are skipped.
func (r *Renderer) Render(cam *viewmatrix.Camera, surfaces []Surface) *image.NRGBA {
	w, h := r.RenderSize()
	if r.fb == nil || r.fb.Width != w || r.fb.Height != h {
		r.fb = NewFrameBuffer(w, h)
	}
	r.fb.Clear(r.Background)

	for _, s := range surfaces {
		r.drawSurface(cam, s)
	}
	return r.fb.Image()
}

func (r *Renderer) drawSurface(cam *viewmatrix.Camera, s Surface) {
	if len(s.Tris) == 0 {
		return
	}
	flat := make([]mathutil.Vec3, 0, len(s.Tris)*3)
	for _, t := range s.Tris {
		flat = append(flat, t[0], t[1], t[2])
	}
	px, py, pz, vis := cam.ProjectVertices(flat, r.fb.Width, r.fb.Height)

	tex := s.Texture
	for i, t := range s.Tris {
		base := i * 3
		if !vis[base] || !vis[base+1] || !vis[base+2] {
			continue
		}
		n := t.Normal()
		if n.Dot(t.Centroid().Sub(cam.Position)) >= 0 {
			continue
		}
		var uv [3][2]float64
		if tex != nil && i < len(s.UVs) {
			uv = s.UVs[i]
		}
		var vs [3]Vertex
		for k := 0; k < 3; k++ {
			vs[k] = Vertex{X: px[base+k], Y: py[base+k], Z: pz[base+k], U: uv[k][0], V: uv[k][1]}
		}
		RasterizeTriangle(r.fb, vs, tex, s.Color, r.Light.ComputeShade(n), &r.Light)
	}
}
