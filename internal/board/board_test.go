package board

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/example/sketchpad/internal/tool"
)

var (
	white = color.RGBA{255, 255, 255, 255}
	black = color.RGBA{0, 0, 0, 255}
)

func newTestBoard(t *testing.T, opts ...Option) *Board {
	t.Helper()
	base := []Option{
		WithSize(100, 100),
		WithBackground(white),
		WithColor(black),
		WithStrokeWidth(1),
	}
	b, err := New(append(base, opts...)...)
	if err != nil {
		t.Fatalf("new board: %v", err)
	}
	return b
}

func pixEqual(t *testing.T, b *Board, x, y int, want color.RGBA) {
	t.Helper()
	got := b.Image().RGBAAt(x, y)
	if got != want {
		t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, want)
	}
}

func TestGestureCommitsExactlyOnce(t *testing.T) {
	b := newTestBoard(t)
	if b.HistoryLen() != 1 {
		t.Fatalf("HistoryLen = %d before drawing, want 1", b.HistoryLen())
	}

	b.PointerDown(image.Pt(10, 10))
	for _, p := range []image.Point{{20, 10}, {30, 15}, {40, 20}, {50, 25}, {60, 30}} {
		b.PointerMove(p)
	}
	if b.HistoryLen() != 1 {
		t.Fatalf("HistoryLen = %d mid-gesture, want 1", b.HistoryLen())
	}
	b.PointerUp(image.Pt(60, 30))
	if b.HistoryLen() != 2 {
		t.Fatalf("HistoryLen = %d after gesture, want 2", b.HistoryLen())
	}
	if b.GestureActive() {
		t.Fatal("gesture still active after pointer up")
	}
}

func TestEventsOutsideGestureAreNoops(t *testing.T) {
	b := newTestBoard(t)
	before := make([]byte, len(b.Image().Pix))
	copy(before, b.Image().Pix)

	b.PointerMove(image.Pt(20, 20))
	b.PointerUp(image.Pt(30, 30))
	b.PointerLeave(image.Pt(40, 40))

	if !bytes.Equal(before, b.Image().Pix) {
		t.Fatal("move/up/leave without a gesture changed pixels")
	}
	if b.HistoryLen() != 1 {
		t.Fatalf("HistoryLen = %d, want 1", b.HistoryLen())
	}
}

func TestClickWithoutMovementMarks(t *testing.T) {
	b := newTestBoard(t)
	b.PointerDown(image.Pt(8, 8))
	b.PointerUp(image.Pt(8, 8))
	pixEqual(t, b, 8, 8, black)
	if b.HistoryLen() != 2 {
		t.Fatalf("HistoryLen = %d, want 2", b.HistoryLen())
	}
}

func TestToolSwitchMidGestureIgnored(t *testing.T) {
	b := newTestBoard(t, WithTool(tool.Rectangle))
	b.PointerDown(image.Pt(10, 10))
	b.PointerMove(image.Pt(30, 20))

	if b.SetTool(tool.Circle) {
		t.Fatal("tool switch accepted during an active gesture")
	}
	b.PointerMove(image.Pt(40, 30))
	b.PointerUp(image.Pt(40, 30))

	// The gesture stayed a rectangle: corners marked, center empty.
	pixEqual(t, b, 10, 10, black)
	pixEqual(t, b, 40, 30, black)
	pixEqual(t, b, 25, 20, white)

	if b.Tool() != tool.Rectangle {
		t.Fatalf("Tool = %v after rejected switch, want %v", b.Tool(), tool.Rectangle)
	}
	if !b.SetTool(tool.Circle) {
		t.Fatal("tool switch rejected with no gesture active")
	}
}

func TestShapePreviewDoesNotAccumulate(t *testing.T) {
	b := newTestBoard(t, WithTool(tool.Rectangle))
	b.PointerDown(image.Pt(10, 10))
	b.PointerMove(image.Pt(60, 60))
	b.PointerMove(image.Pt(30, 30))
	b.PointerUp(image.Pt(30, 30))

	pixEqual(t, b, 30, 30, black)
	pixEqual(t, b, 60, 60, white)
}

func TestUndoRedoRoundTrip(t *testing.T) {
	b := newTestBoard(t)
	ctx := context.Background()

	b.PointerDown(image.Pt(10, 10))
	b.PointerUp(image.Pt(10, 10))
	pixEqual(t, b, 10, 10, black)

	if !b.Undo(ctx) {
		t.Fatal("undo reported no change")
	}
	pixEqual(t, b, 10, 10, white)

	if !b.Redo(ctx) {
		t.Fatal("redo reported no change")
	}
	pixEqual(t, b, 10, 10, black)
}

func TestUndoAtFloorIsNoop(t *testing.T) {
	b := newTestBoard(t)
	ctx := context.Background()
	if b.Undo(ctx) {
		t.Fatal("undo on a fresh board reported a change")
	}
	if b.Redo(ctx) {
		t.Fatal("redo on a fresh board reported a change")
	}
}

func TestUndoRestoreFailureRevertsHistory(t *testing.T) {
	b := newTestBoard(t)
	b.PointerDown(image.Pt(10, 10))
	b.PointerUp(image.Pt(10, 10))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if b.Undo(ctx) {
		t.Fatal("undo with a cancelled context reported success")
	}
	// The failed undo left both the pixels and the history position intact.
	pixEqual(t, b, 10, 10, black)
	if b.CanRedo() {
		t.Fatal("failed undo left a dangling redo entry")
	}
	if !b.Undo(context.Background()) {
		t.Fatal("undo failed after the context recovered")
	}
	pixEqual(t, b, 10, 10, white)
}

func TestClearCanvasIsUndoable(t *testing.T) {
	b := newTestBoard(t)
	ctx := context.Background()
	b.PointerDown(image.Pt(10, 10))
	b.PointerMove(image.Pt(40, 40))
	b.PointerUp(image.Pt(40, 40))

	if err := b.ClearCanvas(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	pixEqual(t, b, 10, 10, white)
	pixEqual(t, b, 40, 40, white)

	if !b.Undo(ctx) {
		t.Fatal("undo after clear reported no change")
	}
	pixEqual(t, b, 10, 10, black)
}

func TestEraserPaintsBackground(t *testing.T) {
	b := newTestBoard(t, WithStrokeWidth(4))
	b.PointerDown(image.Pt(10, 20))
	b.PointerMove(image.Pt(50, 20))
	b.PointerUp(image.Pt(50, 20))
	pixEqual(t, b, 30, 20, black)

	b.SetTool(tool.Eraser)
	b.PointerDown(image.Pt(10, 20))
	b.PointerMove(image.Pt(50, 20))
	b.PointerUp(image.Pt(50, 20))
	pixEqual(t, b, 30, 20, white)
}

func TestPointerLeaveCommitsPartialShape(t *testing.T) {
	b := newTestBoard(t, WithTool(tool.Rectangle))
	b.PointerDown(image.Pt(10, 10))
	b.PointerMove(image.Pt(25, 25))
	b.PointerLeave(image.Pt(30, 30))

	if b.GestureActive() {
		t.Fatal("gesture still active after pointer leave")
	}
	if b.HistoryLen() != 2 {
		t.Fatalf("HistoryLen = %d after leave, want 2", b.HistoryLen())
	}
	pixEqual(t, b, 30, 30, black)
}

func TestExportImageIsCommittedState(t *testing.T) {
	b := newTestBoard(t)
	b.PointerDown(image.Pt(5, 5))
	b.PointerUp(image.Pt(5, 5))

	// A gesture in flight is not part of the export.
	b.PointerDown(image.Pt(50, 50))
	b.PointerMove(image.Pt(60, 60))

	img, err := png.Decode(bytes.NewReader(b.ExportImage()))
	if err != nil {
		t.Fatalf("decode export: %v", err)
	}
	r, g, bl, _ := img.At(5, 5).RGBA()
	if r != 0 || g != 0 || bl != 0 {
		t.Fatal("committed stroke missing from export")
	}
	r, g, bl, _ = img.At(50, 50).RGBA()
	if r != 0xffff || g != 0xffff || bl != 0xffff {
		t.Fatal("uncommitted gesture leaked into export")
	}
}

func TestWithImageSeedsCanvas(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 40, 40))
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			src.SetRGBA(x, y, color.RGBA{0, 128, 0, 255})
		}
	}
	b, err := New(WithImage(src), WithBackground(white))
	if err != nil {
		t.Fatalf("new board: %v", err)
	}
	if got := b.Bounds(); got != image.Rect(0, 0, 40, 40) {
		t.Fatalf("Bounds = %v, want the seed image bounds", got)
	}
	pixEqual(t, b, 20, 20, color.RGBA{0, 128, 0, 255})
}

func TestCommittedImageExcludesActiveGesture(t *testing.T) {
	b := newTestBoard(t, WithTool(tool.Rectangle))

	b.PointerDown(image.Pt(10, 10))
	b.PointerMove(image.Pt(60, 60))

	pixEqual(t, b, 10, 10, black)
	if got := b.CommittedImage().RGBAAt(10, 10); got != white {
		t.Fatalf("committed pixel (10,10) = %v mid-gesture, want %v", got, white)
	}
	img, err := png.Decode(bytes.NewReader(b.ExportImage()))
	if err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if r, g, bl, _ := img.At(10, 10).RGBA(); r != 0xffff || g != 0xffff || bl != 0xffff {
		t.Fatal("uncommitted preview leaked into the export mid-gesture")
	}

	b.PointerUp(image.Pt(60, 60))
	if got := b.CommittedImage().RGBAAt(10, 10); got != black {
		t.Fatalf("committed pixel (10,10) = %v after gesture, want %v", got, black)
	}
}
