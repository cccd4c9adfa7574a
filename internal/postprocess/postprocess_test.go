package postprocess

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestDownsampleRectangle(t *testing.T) {
	c := color.NRGBA{R: 120, G: 60, B: 30, A: 255}
	out := Downsample(solid(160, 120, c), 80, 60)
	if out.Bounds().Dx() != 80 || out.Bounds().Dy() != 60 {
		t.Fatalf("bounds = %v", out.Bounds())
	}
	got := out.NRGBAAt(40, 30)
	if absDiff(got.R, c.R) > 1 || absDiff(got.G, c.G) > 1 || absDiff(got.B, c.B) > 1 || got.A != 255 {
		t.Fatalf("pixel = %v, want about %v", got, c)
	}
}

func TestDownsampleNoop(t *testing.T) {
	img := solid(10, 10, color.NRGBA{A: 255})
	if out := Downsample(img, 10, 10); out != img {
		t.Fatal("expected the input back")
	}
}

func TestLabelerDrawsPanel(t *testing.T) {
	l, err := NewLabeler(0)
	if err != nil {
		t.Fatalf("NewLabeler: %v", err)
	}
	defer l.Close()

	bg := color.NRGBA{R: 200, G: 200, B: 200, A: 255}
	img := solid(200, 80, bg)
	out, err := l.Draw(img, "Result: 17")
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if out.Bounds() != img.Bounds() {
		t.Fatalf("bounds = %v", out.Bounds())
	}
	// Far corner untouched, panel corner darkened.
	if got := out.NRGBAAt(199, 79); got != bg {
		t.Fatalf("corner = %v", got)
	}
	if got := out.NRGBAAt(LabelPoints/2+4, LabelPoints/2+4); got.R >= bg.R {
		t.Fatalf("panel not drawn: %v", got)
	}
}

func TestWriteWebP(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "roll.webp")
	img := solid(16, 8, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	if err := WriteWebP(path, img); err != nil {
		t.Fatalf("WriteWebP: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WEBP" {
		t.Fatalf("not a WebP container: % x", data[:min(12, len(data))])
	}
}

func absDiff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}
