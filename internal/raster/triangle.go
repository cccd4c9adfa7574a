package raster

import (
	"image"
	"image/color"
	"math"
)

// Vertex is a projected triangle corner: screen position, inverse depth and
// texture coordinates.
type Vertex struct {
	X, Y float64
	Z    float64 // 1/depth, larger is nearer
	U, V float64
}

// RasterizeTriangle rasterizes a single triangle with texture mapping, z-buffer,
// sRGB color space, lighting, and ACES tone mapping.
//
// Lighting is flat: shade is computed per face by the caller. Texture
// coordinates are interpolated perspective-correctly. When tex is nil the
// triangle is filled with def.
func RasterizeTriangle(fb *FrameBuffer, vs [3]Vertex, tex *image.NRGBA, def color.NRGBA, shade float64, lc *LightConfig) {
	x0, y0, z0 := vs[0].X, vs[0].Y, vs[0].Z
	x1, y1, z1 := vs[1].X, vs[1].Y, vs[1].Z
	x2, y2, z2 := vs[2].X, vs[2].Y, vs[2].Z

	minX := int(math.Floor(math.Min(math.Min(x0, x1), x2)))
	maxX := int(math.Ceil(math.Max(math.Max(x0, x1), x2)))
	minY := int(math.Floor(math.Min(math.Min(y0, y1), y2)))
	maxY := int(math.Ceil(math.Max(math.Max(y0, y1), y2)))

	if minX < 0 {
		minX = 0
	}
	if maxX >= fb.Width {
		maxX = fb.Width - 1
	}
	if minY < 0 {
		minY = 0
	}
	if maxY >= fb.Height {
		maxY = fb.Height - 1
	}
	if minX > maxX || minY > maxY {
		return
	}

	// Barycentric setup
	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if det > -1e-8 && det < 1e-8 {
		return
	}
	invDet := 1.0 / det

	dy12 := y1 - y2
	dx21 := x2 - x1
	dy20 := y2 - y0
	dx02 := x0 - x2

	// u/z and v/z are linear in screen space.
	uz0, vz0 := vs[0].U*z0, vs[0].V*z0
	uz1, vz1 := vs[1].U*z1, vs[1].V*z1
	uz2, vz2 := vs[2].U*z2, vs[2].V*z2

	gain := shade * lc.Exposure
	invGamma := lc.InvGamma

	// Untextured faces shade to one color.
	var flat [3]uint8
	if tex == nil {
		flat = shadeTexel(def.R, def.G, def.B, gain, invGamma)
	}

	for sy := minY; sy <= maxY; sy++ {
		dsy := float64(sy) + 0.5 - y2
		rowOff := sy * fb.Width
		for sx := minX; sx <= maxX; sx++ {
			dsx := float64(sx) + 0.5 - x2
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1.0 - w0 - w1

			if w0 < -0.001 || w1 < -0.001 || w2 < -0.001 {
				continue
			}

			z := w0*z0 + w1*z1 + w2*z2
			zIdx := rowOff + sx
			if z <= fb.ZBuf[zIdx] {
				continue
			}

			var rgb [3]uint8
			ca := def.A
			if tex != nil {
				u := (w0*uz0 + w1*uz1 + w2*uz2) / z
				v := (w0*vz0 + w1*vz1 + w2*vz2) / z
				var cr, cg, cb uint8
				cr, cg, cb, ca = SampleTexture(tex, u, v)
				if ca < 8 {
					continue
				}
				rgb = shadeTexel(cr, cg, cb, gain, invGamma)
			} else {
				rgb = flat
			}
			fb.ZBuf[zIdx] = z

			pxIdx := zIdx * 4
			fb.Color[pxIdx] = rgb[0]
			fb.Color[pxIdx+1] = rgb[1]
			fb.Color[pxIdx+2] = rgb[2]
			fb.Color[pxIdx+3] = ca
		}
	}
}

// shadeTexel decodes an sRGB texel, applies the light gain and tone mapping,
// and encodes it back to sRGB.
func shadeTexel(r, g, b uint8, gain, invGamma float64) [3]uint8 {
	return [3]uint8{
		clamp255(math.Pow(ACESTonemap(srgbToLinear[r]*gain), invGamma) * 255),
		clamp255(math.Pow(ACESTonemap(srgbToLinear[g]*gain), invGamma) * 255),
		clamp255(math.Pow(ACESTonemap(srgbToLinear[b]*gain), invGamma) * 255),
	}
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
