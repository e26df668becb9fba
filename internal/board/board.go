// Package board turns pointer input into committed pixels. It owns the
// drawing surface, the snapshot history, and the transient state of the
// gesture in progress, and exposes the operations the UI shell invokes.
package board

import (
	"context"
	"image"
	"image/color"

	"github.com/sirupsen/logrus"

	"github.com/example/sketchpad/internal/history"
	"github.com/example/sketchpad/internal/surface"
	"github.com/example/sketchpad/internal/tool"
)

const (
	// DefaultWidth and DefaultHeight size the canvas when nothing is
	// configured.
	DefaultWidth  = 800
	DefaultHeight = 600
)

// DefaultBackground is the canvas background when nothing is configured.
var DefaultBackground = color.RGBA{255, 255, 255, 255}

// gesture is the transient state between a pointer-down and the matching
// pointer-up or leave. The tool is captured at pointer-down so switching
// tools mid-gesture cannot change the stroke's behaviour.
type gesture struct {
	active bool
	tool   tool.Tool
	anchor image.Point
	last   image.Point
}

// Board is the interaction state machine plus the resources it drives.
type Board struct {
	surface *surface.Surface
	history *history.Stack

	tool  tool.Tool
	color color.RGBA
	width int

	gesture gesture
}

// Option configures a Board during creation.
type Option func(*settings)

type settings struct {
	width, height int
	background    color.RGBA
	image         image.Image
	limit         int
	tool          tool.Tool
	color         color.RGBA
	strokeWidth   int
}

// WithSize sets the canvas dimensions.
func WithSize(width, height int) Option {
	return func(s *settings) { s.width, s.height = width, height }
}

// WithBackground sets the canvas background color.
func WithBackground(c color.RGBA) Option {
	return func(s *settings) { s.background = c }
}

// WithImage seeds the canvas with an existing image; its bounds override the
// configured size.
func WithImage(img image.Image) Option {
	return func(s *settings) { s.image = img }
}

// WithHistoryLimit caps the number of committed states kept; zero keeps
// history unbounded.
func WithHistoryLimit(n int) Option {
	return func(s *settings) { s.limit = n }
}

// WithTool sets the initially selected tool.
func WithTool(t tool.Tool) Option {
	return func(s *settings) { s.tool = t }
}

// WithColor sets the initial stroke color.
func WithColor(c color.RGBA) Option {
	return func(s *settings) { s.color = c }
}

// WithStrokeWidth sets the initial stroke width.
func WithStrokeWidth(w int) Option {
	return func(s *settings) { s.strokeWidth = w }
}

// New creates a Board with an initialized surface and a history seeded with
// the blank canvas state.
func New(opts ...Option) (*Board, error) {
	st := settings{
		width:       DefaultWidth,
		height:      DefaultHeight,
		background:  DefaultBackground,
		tool:        tool.Pencil,
		color:       color.RGBA{0, 0, 0, 255},
		strokeWidth: 2,
	}
	for _, o := range opts {
		o(&st)
	}
	if st.strokeWidth < 1 {
		st.strokeWidth = 1
	}

	var surf *surface.Surface
	if st.image != nil {
		surf = surface.NewFromImage(st.image, st.background)
	} else {
		surf = surface.New(st.width, st.height, st.background)
	}
	seed, err := surf.Commit()
	if err != nil {
		return nil, err
	}
	return &Board{
		surface: surf,
		history: history.New(seed, history.WithLimit(st.limit)),
		tool:    st.tool,
		color:   st.color,
		width:   st.strokeWidth,
	}, nil
}

// PointerDown begins a gesture at p. A pointer-down while a gesture is
// already active is ignored.
func (b *Board) PointerDown(p image.Point) {
	if b.gesture.active {
		return
	}
	b.gesture = gesture{active: true, tool: b.tool, anchor: p, last: p}
	if b.gesture.tool.Behavior() == tool.Freehand {
		// Open the path with a dot so a click without movement still marks.
		b.surface.StrokeSegment(p, p, b.renderColor(), b.width)
	}
}

// PointerMove advances the gesture to p. Moves outside a gesture are no-ops.
func (b *Board) PointerMove(p image.Point) {
	if !b.gesture.active {
		return
	}
	switch {
	case b.gesture.tool.Behavior() == tool.Freehand:
		b.surface.StrokeSegment(b.gesture.last, p, b.renderColor(), b.width)
		b.gesture.last = p
	case b.gesture.tool == tool.Circle:
		b.surface.CirclePreview(b.gesture.anchor, p, b.renderColor(), b.width)
		b.gesture.last = p
	default:
		b.surface.RectanglePreview(b.gesture.anchor, p, b.renderColor(), b.width, b.gesture.tool.ConstrainsSquare())
		b.gesture.last = p
	}
}

// PointerUp finalizes the gesture: the surface state is committed and pushed
// onto the history. An up without an active gesture is a no-op.
func (b *Board) PointerUp(p image.Point) {
	if !b.gesture.active {
		return
	}
	b.PointerMove(p)
	b.gesture = gesture{}
	snap, err := b.surface.Commit()
	if err != nil {
		logrus.WithError(err).Error("commit gesture")
		return
	}
	b.history.Push(snap)
}

// PointerLeave is treated as gesture end, not cancellation: the partial
// shape is committed exactly as on PointerUp.
func (b *Board) PointerLeave(p image.Point) {
	b.PointerUp(p)
}

// GestureActive reports whether a gesture is in progress.
func (b *Board) GestureActive() bool { return b.gesture.active }

// SetTool selects the active tool. Tool changes during a gesture are
// ignored; the gesture keeps the tool captured at pointer-down.
func (b *Board) SetTool(t tool.Tool) bool {
	if b.gesture.active {
		return false
	}
	b.tool = t
	return true
}

// Tool returns the active tool identifier, for UI highlighting.
func (b *Board) Tool() tool.Tool { return b.tool }

// SetColor sets the stroke color used by non-erase tools. Style is read at
// draw time, so a change mid-gesture affects subsequent segments.
func (b *Board) SetColor(c color.RGBA) {
	c.A = 255
	b.color = c
}

// Color returns the current stroke color.
func (b *Board) Color() color.RGBA { return b.color }

// SetStrokeWidth sets the stroke width, clamped to at least one pixel.
func (b *Board) SetStrokeWidth(w int) {
	if w < 1 {
		w = 1
	}
	b.width = w
}

// StrokeWidth returns the current stroke width.
func (b *Board) StrokeWidth() int { return b.width }

// Undo restores the previous committed state. It reports whether anything
// changed; undoing past the initial blank state is a silent no-op.
func (b *Board) Undo(ctx context.Context) bool {
	if b.gesture.active {
		return false
	}
	snap := b.history.Undo()
	if snap == nil {
		return false
	}
	if err := b.surface.Restore(ctx, snap); err != nil {
		// Snapshots only ever come from the surface itself, so a decode
		// failure is an internal error. Leave the surface last-good and put
		// the history back the way it was.
		logrus.WithError(err).Error("undo restore")
		b.history.Redo()
		return false
	}
	return true
}

// Redo reapplies the most recently undone state, if any.
func (b *Board) Redo(ctx context.Context) bool {
	if b.gesture.active {
		return false
	}
	snap := b.history.Redo()
	if snap == nil {
		return false
	}
	if err := b.surface.Restore(ctx, snap); err != nil {
		logrus.WithError(err).Error("redo restore")
		b.history.Undo()
		return false
	}
	return true
}

// CanUndo reports whether an undo would change the canvas.
func (b *Board) CanUndo() bool { return b.history.CanUndo() }

// CanRedo reports whether a redo would change the canvas.
func (b *Board) CanRedo() bool { return b.history.CanRedo() }

// HistoryLen returns the number of committed states including the initial
// blank canvas.
func (b *Board) HistoryLen() int { return b.history.Len() }

// ClearCanvas wipes the canvas back to the background color. The blank
// state is committed like any gesture, so it can be undone.
func (b *Board) ClearCanvas() error {
	if b.gesture.active {
		return nil
	}
	b.surface.Clear()
	snap, err := b.surface.Commit()
	if err != nil {
		return err
	}
	b.history.Push(snap)
	return nil
}

// Image exposes the live canvas for presentation.
func (b *Board) Image() *image.RGBA { return b.surface.RGBA() }

// CommittedImage returns a copy of the last committed canvas state. Save and
// copy go through this so an in-flight gesture never leaks into an export.
func (b *Board) CommittedImage() *image.RGBA { return b.surface.Committed() }

// Bounds returns the canvas extent.
func (b *Board) Bounds() image.Rectangle { return b.surface.Bounds() }

// Background returns the canvas background color.
func (b *Board) Background() color.RGBA { return b.surface.Background() }

// ExportImage returns the committed canvas as PNG bytes, suitable for a
// user-initiated save.
func (b *Board) ExportImage() []byte {
	return b.history.Current().Bytes()
}

func (b *Board) renderColor() color.RGBA {
	return b.gesture.tool.RenderColor(b.color, b.surface.Background())
}
