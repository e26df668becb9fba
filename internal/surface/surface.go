package surface

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"sync"
)

// Surface is the canvas pixel buffer. It is fixed-size, always fully opaque,
// and mutated only through its draw and restore operations. Shape previews
// are rendered against an internal copy of the last committed snapshot so a
// gesture in progress can shrink or change direction without leaving
// artifacts behind.
type Surface struct {
	img  *image.RGBA
	base *image.RGBA
	bg   color.RGBA

	mu  sync.Mutex
	gen uint64
}

// New creates a Surface of the given size filled with the background color.
func New(width, height int, background color.RGBA) *Surface {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	background.A = 255
	s := &Surface{
		img:  image.NewRGBA(image.Rect(0, 0, width, height)),
		base: image.NewRGBA(image.Rect(0, 0, width, height)),
		bg:   background,
	}
	s.Clear()
	copy(s.base.Pix, s.img.Pix)
	return s
}

// NewFromImage creates a Surface adopting the pixels of src, composited over
// the background color so the buffer stays fully opaque.
func NewFromImage(src image.Image, background color.RGBA) *Surface {
	b := src.Bounds()
	s := New(b.Dx(), b.Dy(), background)
	draw.Draw(s.img, s.img.Bounds(), src, b.Min, draw.Over)
	copy(s.base.Pix, s.img.Pix)
	return s
}

// Bounds returns the fixed extent of the buffer.
func (s *Surface) Bounds() image.Rectangle { return s.img.Bounds() }

// Background returns the background color the surface was initialized with.
func (s *Surface) Background() color.RGBA { return s.bg }

// RGBA exposes the live pixel buffer for presentation. Callers must not
// mutate it.
func (s *Surface) RGBA() *image.RGBA { return s.img }

// Committed returns a copy of the last committed pixels. A gesture in
// progress does not appear in it.
func (s *Surface) Committed() *image.RGBA {
	out := image.NewRGBA(s.base.Bounds())
	copy(out.Pix, s.base.Pix)
	return out
}

// Clear fills the entire buffer with the background color.
func (s *Surface) Clear() {
	draw.Draw(s.img, s.img.Bounds(), &image.Uniform{s.bg}, image.Point{}, draw.Src)
}

// StrokeSegment draws a round-capped line segment between the two points.
// Freehand tools call this cumulatively as the pointer moves; each segment
// is permanent. A zero-length segment stamps a single round dot.
func (s *Surface) StrokeSegment(from, to image.Point, col color.RGBA, width int) {
	drawSegment(s.img, from.X, from.Y, to.X, to.Y, col, width)
}

// RectanglePreview restores the buffer to the last committed state and then
// strokes an unfilled rectangle from anchor to cur. When square is set the
// rectangle's sides are both forced to min(|dx|, |dy|), each keeping the
// sign of its raw delta so the square grows from the anchor toward the
// cursor on both axes.
func (s *Surface) RectanglePreview(anchor, cur image.Point, col color.RGBA, width int, square bool) {
	s.restoreBase()
	end := cur
	if square {
		dx := cur.X - anchor.X
		dy := cur.Y - anchor.Y
		side := absInt(dx)
		if absInt(dy) < side {
			side = absInt(dy)
		}
		end = image.Pt(anchor.X+copysignInt(side, dx), anchor.Y+copysignInt(side, dy))
	}
	strokeRect(s.img, orderedRect(anchor, end), col, width)
}

// CirclePreview restores the buffer to the last committed state and then
// strokes an unfilled circle centered at anchor with radius equal to the
// Euclidean distance from anchor to cur.
func (s *Surface) CirclePreview(anchor, cur image.Point, col color.RGBA, width int) {
	s.restoreBase()
	dx := float64(cur.X - anchor.X)
	dy := float64(cur.Y - anchor.Y)
	r := int(math.Round(math.Hypot(dx, dy)))
	strokeCircle(s.img, anchor.X, anchor.Y, r, col, width)
}

// Snapshot captures the current pixel contents as an immutable Snapshot.
func (s *Surface) Snapshot() (*Snapshot, error) {
	return encodeSnapshot(s.img)
}

// Commit captures the current pixel contents and records them as the base
// state that shape previews restore to.
func (s *Surface) Commit() (*Snapshot, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	copy(s.base.Pix, s.img.Pix)
	return snap, nil
}

// Restore replaces the buffer contents with the snapshot's pixels. The
// operation is atomic from the caller's perspective: decoding happens before
// any pixel is touched, and a restore superseded by a newer one is discarded
// rather than applied out of order. Cancelling ctx abandons the decode and
// leaves the surface in its last-good state.
func (s *Surface) Restore(ctx context.Context, snap *Snapshot) error {
	if snap == nil {
		return fmt.Errorf("restore: nil snapshot")
	}
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	decoded, err := snap.decode(ctx)
	if err != nil {
		return fmt.Errorf("restore: %w", err)
	}
	if decoded.Bounds() != s.img.Bounds() {
		return fmt.Errorf("restore: snapshot bounds %v do not match surface %v", decoded.Bounds(), s.img.Bounds())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		// A newer restore finished the race; this one is stale.
		return nil
	}
	copy(s.img.Pix, decoded.Pix)
	copy(s.base.Pix, decoded.Pix)
	return nil
}

func (s *Surface) restoreBase() {
	copy(s.img.Pix, s.base.Pix)
}

func orderedRect(a, b image.Point) image.Rectangle {
	minX, maxX := a.X, b.X
	if minX > maxX {
		minX, maxX = maxX, minX
	}
	minY, maxY := a.Y, b.Y
	if minY > maxY {
		minY, maxY = maxY, minY
	}
	return image.Rect(minX, minY, maxX, maxY)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func copysignInt(mag, sign int) int {
	if sign < 0 {
		return -mag
	}
	return mag
}
