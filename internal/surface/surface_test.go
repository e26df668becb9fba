package surface

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"testing"
)

var (
	white = color.RGBA{255, 255, 255, 255}
	black = color.RGBA{0, 0, 0, 255}
)

func pixEqual(t *testing.T, s *Surface, x, y int, want color.RGBA) {
	t.Helper()
	got := s.RGBA().RGBAAt(x, y)
	if got != want {
		t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, want)
	}
}

func TestNewFillsBackground(t *testing.T) {
	s := New(16, 16, white)
	for _, p := range []image.Point{{0, 0}, {15, 15}, {8, 3}} {
		pixEqual(t, s, p.X, p.Y, white)
	}
}

func TestStrokeSegmentDot(t *testing.T) {
	s := New(16, 16, white)
	s.StrokeSegment(image.Pt(8, 8), image.Pt(8, 8), black, 1)
	pixEqual(t, s, 8, 8, black)
	pixEqual(t, s, 9, 8, white)
}

func TestEraserOverFreshSurfaceIsIdempotent(t *testing.T) {
	s := New(32, 32, white)
	pristine := make([]byte, len(s.RGBA().Pix))
	copy(pristine, s.RGBA().Pix)

	// Erasing paints the background color, so background-on-background must
	// leave every pixel untouched.
	s.StrokeSegment(image.Pt(2, 2), image.Pt(28, 25), s.Background(), 6)
	if !bytes.Equal(pristine, s.RGBA().Pix) {
		t.Fatal("erasing a never-drawn region changed pixel content")
	}
}

func TestRectanglePreviewUnconstrained(t *testing.T) {
	s := New(100, 100, white)
	s.RectanglePreview(image.Pt(10, 10), image.Pt(40, 30), black, 1, false)
	for _, p := range []image.Point{{10, 10}, {40, 10}, {10, 30}, {40, 30}, {25, 10}, {10, 20}} {
		pixEqual(t, s, p.X, p.Y, black)
	}
	// Unfilled: the interior stays background.
	pixEqual(t, s, 25, 20, white)
}

func TestSquareConstraintPreservesDirection(t *testing.T) {
	s := New(100, 100, white)
	// dx=+30, dy=-10: the square side is min(30,10)=10 and each axis keeps
	// its own sign, so the far corner is (60,40).
	s.RectanglePreview(image.Pt(50, 50), image.Pt(80, 40), black, 1, true)
	for _, p := range []image.Point{{50, 50}, {60, 50}, {50, 40}, {60, 40}, {55, 40}, {50, 45}} {
		pixEqual(t, s, p.X, p.Y, black)
	}
	pixEqual(t, s, 55, 45, white) // interior
	pixEqual(t, s, 61, 45, white) // right of the square
	pixEqual(t, s, 55, 51, white) // a sign error would mirror the square downward
}

func TestSquareConstraintClippedAtOrigin(t *testing.T) {
	s := New(100, 100, white)
	// Anchor (0,0), cursor (30,-10): side 10 toward +x/-y. Only the bottom
	// edge and the corner columns are inside the surface.
	s.RectanglePreview(image.Pt(0, 0), image.Pt(30, -10), black, 1, true)
	pixEqual(t, s, 0, 0, black)
	pixEqual(t, s, 5, 0, black)
	pixEqual(t, s, 10, 0, black)
	pixEqual(t, s, 11, 0, white)
	pixEqual(t, s, 5, 1, white)  // nothing below the anchor row
	pixEqual(t, s, 5, 10, white) // ignoring the sign would grow the square downward
}

func TestCirclePreviewRadius(t *testing.T) {
	s := New(100, 100, white)
	// 3-4-5 triangle: anchor (50,50), cursor (53,54) gives radius 5.
	s.CirclePreview(image.Pt(50, 50), image.Pt(53, 54), black, 1)
	for _, p := range []image.Point{{55, 50}, {45, 50}, {50, 55}, {50, 45}} {
		pixEqual(t, s, p.X, p.Y, black)
	}
	pixEqual(t, s, 50, 50, white)
	pixEqual(t, s, 56, 50, white)
}

func TestPreviewDiscardsPriorFrame(t *testing.T) {
	s := New(100, 100, white)
	anchor := image.Pt(10, 10)
	cursors := []image.Point{{40, 40}, {35, 20}, {20, 35}, {30, 30}, {20, 20}}
	for _, cur := range cursors {
		s.RectanglePreview(anchor, cur, black, 1, false)
	}
	// Only the final rectangle survives; the first frame's far corner must
	// be background again.
	pixEqual(t, s, 40, 40, white)
	pixEqual(t, s, 20, 20, black)
	pixEqual(t, s, 10, 10, black)
}

func TestCommitBecomesPreviewBase(t *testing.T) {
	s := New(64, 64, white)
	s.StrokeSegment(image.Pt(5, 5), image.Pt(20, 5), black, 1)
	if _, err := s.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	s.RectanglePreview(image.Pt(30, 30), image.Pt(50, 50), black, 1, false)
	// The committed stroke survives the preview restore.
	pixEqual(t, s, 10, 5, black)
	pixEqual(t, s, 30, 30, black)
}

func TestSnapshotRestoreIsExact(t *testing.T) {
	s := New(64, 64, white)
	s.StrokeSegment(image.Pt(3, 3), image.Pt(60, 48), color.RGBA{200, 30, 90, 255}, 4)
	snap, err := s.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	want := make([]byte, len(s.RGBA().Pix))
	copy(want, s.RGBA().Pix)

	s.StrokeSegment(image.Pt(0, 60), image.Pt(60, 0), black, 8)
	if err := s.Restore(context.Background(), snap); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if !bytes.Equal(want, s.RGBA().Pix) {
		t.Fatal("restore did not reproduce the captured pixels exactly")
	}
}

func TestRestoreCancelledLeavesSurfaceUntouched(t *testing.T) {
	s := New(32, 32, white)
	snap, err := s.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	s.StrokeSegment(image.Pt(1, 1), image.Pt(30, 30), black, 2)
	before := make([]byte, len(s.RGBA().Pix))
	copy(before, s.RGBA().Pix)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Restore(ctx, snap); err == nil {
		t.Fatal("expected error from cancelled restore")
	}
	if !bytes.Equal(before, s.RGBA().Pix) {
		t.Fatal("cancelled restore modified the surface")
	}
}

func TestRestoreRejectsMismatchedBounds(t *testing.T) {
	small := New(16, 16, white)
	snap, err := small.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	big := New(32, 32, white)
	if err := big.Restore(context.Background(), snap); err == nil {
		t.Fatal("expected bounds mismatch error")
	}
}

func TestNewFromImageIsOpaque(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 8, 8))
	src.SetRGBA(2, 2, color.RGBA{10, 20, 30, 255})
	s := NewFromImage(src, white)
	pixEqual(t, s, 2, 2, color.RGBA{10, 20, 30, 255})
	// Transparent source pixels composite over the background.
	pixEqual(t, s, 0, 0, white)
}

func TestCommittedIsDetachedCopy(t *testing.T) {
	s := New(16, 16, white)
	s.StrokeSegment(image.Pt(4, 4), image.Pt(4, 4), black, 1)
	if _, err := s.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	// Uncommitted work stays out of the committed view.
	s.StrokeSegment(image.Pt(8, 8), image.Pt(8, 8), black, 1)
	got := s.Committed()
	if got.RGBAAt(4, 4) != black {
		t.Fatal("committed copy lost the committed pixel")
	}
	if got.RGBAAt(8, 8) != white {
		t.Fatal("uncommitted pixel visible in committed copy")
	}

	// Mutating the copy must not touch the surface.
	got.SetRGBA(0, 0, black)
	pixEqual(t, s, 0, 0, white)
}
