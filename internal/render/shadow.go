// Package render holds the image post-processing applied when a drawing
// leaves the canvas, currently margin matting with a blurred drop shadow.
package render

import (
	"image"
	"image/color"
	"image/draw"
)

// MatteOptions configures the matte applied to an exported drawing.
type MatteOptions struct {
	// Margin is the padding added around the drawing on every side.
	Margin int
	// Radius is the shadow blur radius.
	Radius int
	// Offset displaces the shadow relative to the drawing.
	Offset image.Point
	// Opacity is the peak shadow alpha in [0, 1]. Zero disables the shadow.
	Opacity float64
	// Backdrop fills the matte behind the shadow. A zero alpha keeps the
	// backdrop transparent.
	Backdrop color.RGBA
}

// DefaultMatteOptions returns a conservative matte that works well for most
// drawings.
func DefaultMatteOptions() MatteOptions {
	return MatteOptions{
		Margin:  32,
		Radius:  24,
		Offset:  image.Pt(8, 12),
		Opacity: 0.45,
	}
}

// Matte centers the drawing on a margin-padded canvas with a blurred drop
// shadow underneath. The result always has zero-based bounds. A nil input
// returns nil; an empty margin and opacity return the input unchanged.
func Matte(img *image.RGBA, opts MatteOptions) *image.RGBA {
	if img == nil {
		return nil
	}
	if img.Bounds().Empty() {
		return img
	}
	margin := opts.Margin
	if margin < 0 {
		margin = 0
	}
	radius := opts.Radius
	if radius < 0 {
		radius = 0
	}
	opacity := opts.Opacity
	if opacity > 1 {
		opacity = 1
	}
	if margin == 0 && opacity <= 0 {
		return img
	}

	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	dst := image.NewRGBA(image.Rect(0, 0, w+2*margin, h+2*margin))
	if opts.Backdrop.A > 0 {
		draw.Draw(dst, dst.Bounds(), image.NewUniform(opts.Backdrop), image.Point{}, draw.Src)
	}

	content := image.Rect(margin, margin, margin+w, margin+h)

	shadowAlpha := uint8(opacity*255 + 0.5)
	if shadowAlpha > 0 {
		// The drawing is an opaque rectangle, so the shadow mask is its full
		// extent padded by the blur radius.
		mask := image.NewGray(image.Rect(0, 0, w+2*radius, h+2*radius))
		inner := image.Rect(radius, radius, radius+w, radius+h)
		draw.Draw(mask, inner, image.NewUniform(color.Gray{Y: 255}), image.Point{}, draw.Src)
		blurred := blurGray(mask, radius)

		shadowOrigin := content.Min.Add(opts.Offset).Sub(image.Pt(radius, radius))
		draw.DrawMask(dst, blurred.Bounds().Add(shadowOrigin),
			image.NewUniform(color.RGBA{0, 0, 0, shadowAlpha}), image.Point{},
			blurred, blurred.Bounds().Min, draw.Over)
	}

	draw.Draw(dst, content, img, img.Bounds().Min, draw.Over)
	return dst
}

// blurGray applies a two-pass box blur using per-row and per-column prefix
// sums.
func blurGray(src *image.Gray, radius int) *image.Gray {
	if radius <= 0 {
		out := image.NewGray(src.Bounds())
		copy(out.Pix, src.Pix)
		return out
	}
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	tmp := image.NewGray(bounds)
	dst := image.NewGray(bounds)

	for y := 0; y < h; y++ {
		rowStart := y * src.Stride
		tmpStart := y * tmp.Stride
		prefix := make([]int, w+1)
		for x := 0; x < w; x++ {
			prefix[x+1] = prefix[x] + int(src.Pix[rowStart+x])
		}
		for x := 0; x < w; x++ {
			x0 := x - radius
			if x0 < 0 {
				x0 = 0
			}
			x1 := x + radius
			if x1 >= w {
				x1 = w - 1
			}
			sum := prefix[x1+1] - prefix[x0]
			count := x1 - x0 + 1
			tmp.Pix[tmpStart+x] = uint8(sum / count)
		}
	}

	for x := 0; x < w; x++ {
		prefix := make([]int, h+1)
		for y := 0; y < h; y++ {
			prefix[y+1] = prefix[y] + int(tmp.Pix[y*tmp.Stride+x])
		}
		for y := 0; y < h; y++ {
			y0 := y - radius
			if y0 < 0 {
				y0 = 0
			}
			y1 := y + radius
			if y1 >= h {
				y1 = h - 1
			}
			sum := prefix[y1+1] - prefix[y0]
			count := y1 - y0 + 1
			dst.Pix[y*dst.Stride+x] = uint8(sum / count)
		}
	}

	return dst
}
