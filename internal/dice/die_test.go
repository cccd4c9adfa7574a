package dice

import (
	"image"
	"testing"

	"diceroll/internal/mathutil"
)

type stubGlyphs struct{ calls int }

func (s *stubGlyphs) Glyph(label int) (*image.NRGBA, error) {
	s.calls++
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	img.Pix[0] = uint8(label)
	return img, nil
}

func TestBuildD20(t *testing.T) {
	g := &stubGlyphs{}
	d, err := Build("d20", 1, g)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if d.FaceCount() != 20 || len(d.Hull) != 12 {
		t.Fatalf("faces = %d hull = %d", d.FaceCount(), len(d.Hull))
	}
	if g.calls != 20 || len(d.Textures) != 20 {
		t.Fatalf("glyph calls = %d textures = %d", g.calls, len(d.Textures))
	}
	if d.Textures[7].Pix[0] != 7 {
		t.Fatal("texture 7 attached to the wrong face")
	}

	p := mathutil.Vec3{2, 3, 4}
	tris := d.Triangles(mathutil.QuatIdentity(), p)
	if tris[0][0] != d.Faces[0].Tri[0].Add(p) {
		t.Fatalf("translated vertex = %v", tris[0][0])
	}
}

func TestBuildUnknownSolid(t *testing.T) {
	if _, err := Build("d13", 1, nil); err == nil {
		t.Fatal("expected error")
	}
}

func TestCanvasGlyphs(t *testing.T) {
	g, err := NewCanvasGlyphs(GlyphSize, GlyphPoints)
	if err != nil {
		t.Fatalf("NewCanvasGlyphs: %v", err)
	}
	defer g.Close()

	img, err := g.Glyph(17)
	if err != nil {
		t.Fatalf("Glyph: %v", err)
	}
	if b := img.Bounds(); b.Dx() != GlyphSize || b.Dy() != GlyphSize {
		t.Fatalf("glyph bounds = %v", b)
	}
	if c := img.NRGBAAt(1, 1); c.R < 250 || c.G < 250 || c.B < 250 {
		t.Fatalf("background pixel = %v, want white", c)
	}
	dark := 0
	for i := 0; i < len(img.Pix); i += 4 {
		if img.Pix[i] < 128 {
			dark++
		}
	}
	if dark == 0 {
		t.Fatal("no numeral pixels drawn")
	}

	again, _ := g.Glyph(17)
	if again != img {
		t.Fatal("glyph not cached")
	}
}
