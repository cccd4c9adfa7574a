package postprocess

import (
	"fmt"
	"image"
	"sync"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"

	"diceroll/internal/texture"
)

// LabelPoints is the default font size of the result label.
const LabelPoints = 24

// Labeler draws the result label in the top-left corner of a frame.
// Safe for concurrent use.
type Labeler struct {
	mu     sync.Mutex
	source *text.FontSource
	face   text.Face
	points float64
}

// NewLabeler loads the Go Regular font at the given size (0 for LabelPoints).
func NewLabeler(points float64) (*Labeler, error) {
	if points <= 0 {
		points = LabelPoints
	}
	src, err := text.NewFontSource(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("postprocess: load font: %w", err)
	}
	return &Labeler{source: src, face: src.Face(points), points: points}, nil
}

// Draw returns a copy of img with s drawn on a dark panel sized to the text.
func (l *Labeler) Draw(img *image.NRGBA, s string) (*image.NRGBA, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	dc := gg.NewContextForImage(img)
	defer dc.Close()

	dc.SetFont(l.face)
	tw, th := dc.MeasureString(s)
	pad := l.points / 2
	x, y := pad, pad

	dc.SetRGBA(0, 0, 0, 0.6)
	dc.DrawRoundedRectangle(x, y, tw+2*pad, th+2*pad, pad/2)
	if err := dc.Fill(); err != nil {
		return nil, fmt.Errorf("postprocess: label panel: %w", err)
	}

	dc.SetRGB(1, 1, 1)
	dc.DrawStringAnchored(s, x+pad, y+pad+th/2, 0, 0.5)
	if err := dc.FlushGPU(); err != nil {
		return nil, fmt.Errorf("postprocess: label text: %w", err)
	}
	return texture.ToNRGBA(dc.Image()), nil
}

// Close releases the font source.
func (l *Labeler) Close() error {
	return l.source.Close()
}
