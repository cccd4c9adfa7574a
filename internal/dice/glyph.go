package dice

import (
	"fmt"
	"image"
	"strconv"
	"sync"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"

	"diceroll/internal/texture"
)

// Default numeral texture layout.
const (
	GlyphSize   = 60
	GlyphPoints = 20
)

// GlyphSource renders the numeral texture for a face label.
type GlyphSource interface {
	Glyph(label int) (*image.NRGBA, error)
}

// CanvasGlyphs draws numerals black on white with gg and caches them per label.
// Safe for concurrent use.
type CanvasGlyphs struct {
	size   int
	source *text.FontSource
	face   text.Face

	mu    sync.Mutex
	cache map[int]*image.NRGBA
}

// NewCanvasGlyphs prepares a glyph renderer using the Go Regular font.
func NewCanvasGlyphs(size int, points float64) (*CanvasGlyphs, error) {
	if size <= 0 {
		size = GlyphSize
	}
	if points <= 0 {
		points = GlyphPoints
	}
	src, err := text.NewFontSource(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("dice: load font: %w", err)
	}
	return &CanvasGlyphs{
		size:   size,
		source: src,
		face:   src.Face(points),
		cache:  make(map[int]*image.NRGBA),
	}, nil
}

// Glyph returns the texture for label, drawing it on first use.
func (g *CanvasGlyphs) Glyph(label int) (*image.NRGBA, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if img, ok := g.cache[label]; ok {
		return img, nil
	}
	img, err := g.draw(strconv.Itoa(label))
	if err != nil {
		return nil, fmt.Errorf("dice: glyph %d: %w", label, err)
	}
	g.cache[label] = img
	return img, nil
}

func (g *CanvasGlyphs) draw(s string) (*image.NRGBA, error) {
	dc := gg.NewContext(g.size, g.size)
	defer dc.Close()

	w := float64(g.size)
	dc.SetRGB(1, 1, 1)
	dc.DrawRectangle(0, 0, w, w)
	if err := dc.Fill(); err != nil {
		return nil, err
	}

	// Centred on the lower, wide part of the triangle.
	dc.SetFont(g.face)
	dc.SetRGB(0, 0, 0)
	dc.DrawStringAnchored(s, w/2, w*3/4, 0.5, 0.5)
	if err := dc.FlushGPU(); err != nil {
		return nil, err
	}

	return texture.ToNRGBA(dc.Image()), nil
}

// Close releases the font source.
func (g *CanvasGlyphs) Close() error {
	return g.source.Close()
}
