package surface

import (
	"image"
	"image/color"
)

// stampBrush paints a round brush tip centered at (x, y). A width of one
// maps to a single pixel so thin strokes stay crisp.
func stampBrush(img *image.RGBA, x, y, width int, col color.Color) {
	if width <= 1 {
		if image.Pt(x, y).In(img.Bounds()) {
			img.Set(x, y, col)
		}
		return
	}
	r := width / 2
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy > r*r {
				continue
			}
			px := x + dx
			py := y + dy
			if image.Pt(px, py).In(img.Bounds()) {
				img.Set(px, py, col)
			}
		}
	}
}

// drawSegment walks the Bresenham line between the two points stamping the
// round brush at every step, giving round caps at both ends.
func drawSegment(img *image.RGBA, x0, y0, x1, y1 int, col color.Color, width int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy
	for {
		stampBrush(img, x0, y0, width, col)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// strokeRect strokes the outline of rect. The outline passes through both
// Min and Max so the rectangle's corners land exactly on the gesture's
// anchor and cursor positions.
func strokeRect(img *image.RGBA, rect image.Rectangle, col color.Color, width int) {
	drawSegment(img, rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y, col, width)
	drawSegment(img, rect.Max.X, rect.Min.Y, rect.Max.X, rect.Max.Y, col, width)
	drawSegment(img, rect.Max.X, rect.Max.Y, rect.Min.X, rect.Max.Y, col, width)
	drawSegment(img, rect.Min.X, rect.Max.Y, rect.Min.X, rect.Min.Y, col, width)
}

// strokeCircleThin plots a one-pixel midpoint circle.
func strokeCircleThin(img *image.RGBA, cx, cy, r int, col color.Color) {
	if r < 0 {
		return
	}
	if r == 0 {
		if image.Pt(cx, cy).In(img.Bounds()) {
			img.Set(cx, cy, col)
		}
		return
	}
	x := r
	y := 0
	err := 1 - r
	for x >= y {
		pts := [][2]int{{x, y}, {y, x}, {-y, x}, {-x, y}, {-x, -y}, {-y, -x}, {y, -x}, {x, -y}}
		for _, p := range pts {
			px := cx + p[0]
			py := cy + p[1]
			if image.Pt(px, py).In(img.Bounds()) {
				img.Set(px, py, col)
			}
		}
		y++
		if err < 0 {
			err += 2*y + 1
		} else {
			x--
			err += 2 * (y - x + 1)
		}
	}
}

// strokeCircle strokes a circle outline. Thickness is built from concentric
// one-pixel circles centered on the nominal radius.
func strokeCircle(img *image.RGBA, cx, cy, r int, col color.Color, width int) {
	if width <= 1 {
		strokeCircleThin(img, cx, cy, r, col)
		return
	}
	start := -width / 2
	for i := 0; i < width; i++ {
		rr := r + start + i
		if rr >= 0 {
			strokeCircleThin(img, cx, cy, rr, col)
		}
	}
}
