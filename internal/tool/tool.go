package tool

import (
	"fmt"
	"image/color"
	"strings"
)

// Tool identifies one of the drawing behaviours available on the canvas.
type Tool int

const (
	Pencil Tool = iota
	Eraser
	Rectangle
	Square
	Circle
)

// Behavior classifies how a tool consumes pointer movement during a gesture.
type Behavior int

const (
	// Freehand tools commit each segment to the canvas as the pointer moves.
	Freehand Behavior = iota
	// AnchoredShape tools re-render a preview from the gesture anchor on
	// every move; only the final shape survives the gesture.
	AnchoredShape
)

var names = [...]string{
	Pencil:    "pencil",
	Eraser:    "eraser",
	Rectangle: "rect",
	Square:    "square",
	Circle:    "circle",
}

// All returns the tools in display order.
func All() []Tool {
	return []Tool{Pencil, Eraser, Rectangle, Square, Circle}
}

func (t Tool) String() string {
	if int(t) < 0 || int(t) >= len(names) {
		return "unknown"
	}
	return names[t]
}

// Behavior reports whether the tool draws freehand or previews an anchored shape.
func (t Tool) Behavior() Behavior {
	switch t {
	case Rectangle, Square, Circle:
		return AnchoredShape
	default:
		return Freehand
	}
}

// Erases reports whether the tool paints with the background color rather
// than the selected color.
func (t Tool) Erases() bool {
	return t == Eraser
}

// ConstrainsSquare reports whether the tool forces equal rectangle sides.
func (t Tool) ConstrainsSquare() bool {
	return t == Square
}

// RenderColor resolves the color the tool paints with. The eraser always
// returns the background color; erasing is indistinguishable from painting
// the background.
func (t Tool) RenderColor(current, background color.RGBA) color.RGBA {
	if t.Erases() {
		return background
	}
	return current
}

// Parse resolves a tool name used by the CLI and configuration.
func Parse(s string) (Tool, error) {
	spec := strings.ToLower(strings.TrimSpace(s))
	for i, name := range names {
		if spec == name {
			return Tool(i), nil
		}
	}
	// Accept the long form too.
	if spec == "rectangle" {
		return Rectangle, nil
	}
	return Pencil, fmt.Errorf("unknown tool %q", s)
}
