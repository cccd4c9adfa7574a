package batch

import (
	"image"

	"diceroll/internal/dice"
	"diceroll/internal/mathutil"
	"diceroll/internal/postprocess"
	"diceroll/internal/raster"
)

// Painter turns a die pose into a finished frame: camera follow, render,
// downsample and the optional result label. One Painter per goroutine.
type Painter struct {
	Viewport *raster.Viewport
	Table    raster.Surface
	Labeler  *postprocess.Labeler // nil skips labels
}

// NewPainter creates a painter for width×height logical pixels.
// table may be nil for a plain colored table.
func NewPainter(width, height int, pixelRatio float64, supersample int, table *image.NRGBA, labeler *postprocess.Labeler) *Painter {
	return &Painter{
		Viewport: raster.NewViewport(width, height, pixelRatio, supersample),
		Table:    raster.TableSurface(raster.TableSize, raster.TableCells, table, raster.TableRepeat),
		Labeler:  labeler,
	}
}

// Paint renders die at pose (q, p) with the camera following it. A non-empty
// label is drawn onto the frame.
func (pt *Painter) Paint(die *dice.Die, q mathutil.Quat, p mathutil.Vec3, label string) (*image.NRGBA, error) {
	pt.Viewport.Camera.Follow(p)

	surfaces := append([]raster.Surface{pt.Table}, raster.DieSurfaces(die, q, p)...)
	img := pt.Viewport.Render(surfaces)

	w, h := pt.Viewport.OutputSize()
	img = postprocess.Downsample(img, w, h)

	if label == "" || pt.Labeler == nil {
		return img, nil
	}
	return pt.Labeler.Draw(img, label)
}
