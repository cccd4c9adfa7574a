package raster

import (
	"image"
	"image/color"
	"math"
	"testing"

	"diceroll/internal/dice"
	"diceroll/internal/mathutil"
	"diceroll/internal/viewmatrix"
)

func TestFrameBufferClear(t *testing.T) {
	fb := NewFrameBuffer(4, 3)
	fb.Clear(color.NRGBA{R: 1, G: 2, B: 3, A: 255})
	img := fb.Image()
	if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 3 {
		t.Fatalf("bounds = %v", img.Bounds())
	}
	if got := img.NRGBAAt(3, 2); got != (color.NRGBA{R: 1, G: 2, B: 3, A: 255}) {
		t.Fatalf("pixel = %v", got)
	}
	if !math.IsInf(fb.ZBuf[5], -1) {
		t.Fatalf("z = %v", fb.ZBuf[5])
	}
}

func TestComputeShade(t *testing.T) {
	lc := DefaultLightConfig()
	tests := []struct {
		n    mathutil.Vec3
		want float64
	}{
		{mathutil.AxisZ, 1.2},
		{mathutil.AxisX, 0.8},
		{mathutil.Down, 0.8},
	}
	for _, tt := range tests {
		if got := lc.ComputeShade(tt.n); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("shade(%v) = %v, want %v", tt.n, got, tt.want)
		}
	}
}

func TestSampleTextureWraps(t *testing.T) {
	tex := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	tex.SetNRGBA(0, 0, color.NRGBA{R: 200, A: 255})
	tex.SetNRGBA(1, 0, color.NRGBA{G: 200, A: 255})
	tex.SetNRGBA(0, 1, color.NRGBA{R: 200, A: 255})
	tex.SetNRGBA(1, 1, color.NRGBA{G: 200, A: 255})

	r, g, _, _ := SampleTexture(tex, 0, 0.5)
	r2, g2, _, _ := SampleTexture(tex, 2, 0.5)
	if r != r2 || g != g2 || r != 200 || g != 0 {
		t.Fatalf("u=0 -> (%d,%d), u=2 -> (%d,%d)", r, g, r2, g2)
	}
	r, g, _, _ = SampleTexture(tex, 0.5, 0)
	if r != 100 || g != 100 {
		t.Fatalf("midpoint = (%d,%d)", r, g)
	}
}

func TestRasterizeTriangleDepthTest(t *testing.T) {
	fb := NewFrameBuffer(20, 20)
	lc := DefaultLightConfig()
	quad := func(z float64) [3]Vertex {
		return [3]Vertex{{X: 0, Y: 0, Z: z}, {X: 20, Y: 0, Z: z}, {X: 0, Y: 20, Z: z}}
	}
	red := color.NRGBA{R: 255, A: 255}
	blue := color.NRGBA{B: 255, A: 255}

	// Near red first, then a far blue triangle that must not overwrite it.
	RasterizeTriangle(fb, quad(0.5), nil, red, 1, &lc)
	RasterizeTriangle(fb, quad(0.1), nil, blue, 1, &lc)

	c := fb.Image().NRGBAAt(3, 3)
	if c.R == 0 || c.B != 0 {
		t.Fatalf("pixel = %v, want the nearer red", c)
	}
	// Outside the triangle stays clear.
	if c := fb.Image().NRGBAAt(18, 18); c.A != 0 {
		t.Fatalf("pixel outside = %v", c)
	}
}

func TestRasterizeTriangleClipsToBuffer(t *testing.T) {
	fb := NewFrameBuffer(8, 4)
	lc := DefaultLightConfig()
	vs := [3]Vertex{{X: -50, Y: -50, Z: 1}, {X: 100, Y: -50, Z: 1}, {X: -50, Y: 100, Z: 1}}
	RasterizeTriangle(fb, vs, nil, color.NRGBA{G: 255, A: 255}, 1, &lc)
	img := fb.Image()
	for y := 0; y < 4; y++ {
		for x := 0; x < 8; x++ {
			if img.NRGBAAt(x, y).G == 0 {
				t.Fatalf("pixel (%d,%d) not filled", x, y)
			}
		}
	}
}

func TestRenderTableAndDie(t *testing.T) {
	d, err := dice.Build("d20", 1, nil)
	if err != nil {
		t.Fatal(err)
	}
	cam := viewmatrix.NewPerspective(viewmatrix.DefaultFOV, 4.0/3, viewmatrix.DefaultNear, viewmatrix.DefaultFar)
	cam.Follow(mathutil.Vec3{})

	r := NewRenderer(80, 60, 1)
	table := TableSurface(TableSize, TableCells, nil, TableRepeat)

	img := r.Render(cam, []Surface{table})
	if img.Bounds().Dx() != 80 || img.Bounds().Dy() != 60 {
		t.Fatalf("bounds = %v", img.Bounds())
	}
	tableAtCentre := img.NRGBAAt(40, 30)
	if tableAtCentre == Background {
		t.Fatal("table missing at screen centre")
	}
	if got := img.NRGBAAt(40, 0); got != Background {
		t.Fatalf("top edge = %v, want background past the table", got)
	}

	surfaces := append([]Surface{table}, DieSurfaces(d, mathutil.QuatIdentity(), mathutil.Vec3{0, 0, 1})...)
	img = r.Render(cam, surfaces)
	dieAtCentre := img.NRGBAAt(40, 30)
	if dieAtCentre == tableAtCentre || dieAtCentre.R < 150 {
		t.Fatalf("die not drawn over the table: %v", dieAtCentre)
	}
}

func TestRendererResizeAndSupersample(t *testing.T) {
	cam := viewmatrix.NewPerspective(viewmatrix.DefaultFOV, 1, viewmatrix.DefaultNear, viewmatrix.DefaultFar)
	r := NewRenderer(10, 10, 2)
	r.Resize(16, 8)
	img := r.Render(cam, nil)
	if img.Bounds().Dx() != 32 || img.Bounds().Dy() != 16 {
		t.Fatalf("bounds = %v", img.Bounds())
	}
}

func TestViewportResize(t *testing.T) {
	tests := []struct {
		w, h       int
		ratio      float64
		wantW      int
		wantH      int
		wantAspect float64
	}{
		{800, 600, 1, 800, 600, 800.0 / 600},
		{400, 400, 1.5, 600, 600, 1},
		{300, 100, 3, 600, 200, 3},
		{640, 480, 0, 640, 480, 640.0 / 480},
	}
	for _, tt := range tests {
		v := NewViewport(10, 10, 1, 2)
		v.Resize(tt.w, tt.h, tt.ratio)
		w, h := v.OutputSize()
		if w != tt.wantW || h != tt.wantH {
			t.Errorf("Resize(%d, %d, %v): output %dx%d, want %dx%d", tt.w, tt.h, tt.ratio, w, h, tt.wantW, tt.wantH)
		}
		if math.Abs(v.Camera.Aspect-tt.wantAspect) > 1e-12 {
			t.Errorf("aspect = %v, want %v", v.Camera.Aspect, tt.wantAspect)
		}
		if rw, rh := v.Renderer.RenderSize(); rw != 2*w || rh != 2*h {
			t.Errorf("render size %dx%d, want supersampled %dx%d", rw, rh, 2*w, 2*h)
		}
	}
}
