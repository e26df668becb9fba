package tool

import (
	"image/color"
	"strings"
	"testing"
)

func TestParseRoundTrip(t *testing.T) {
	for _, tl := range All() {
		got, err := Parse(tl.String())
		if err != nil {
			t.Fatalf("Parse(%q): %v", tl.String(), err)
		}
		if got != tl {
			t.Fatalf("Parse(%q) = %v, want %v", tl.String(), got, tl)
		}
	}
}

func TestParseAliases(t *testing.T) {
	for _, tt := range []struct {
		in   string
		want Tool
	}{
		{"rect", Rectangle},
		{"rectangle", Rectangle},
		{"Pencil", Pencil},
		{"ERASER", Eraser},
	} {
		got, err := Parse(tt.in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseUnknown(t *testing.T) {
	_, err := Parse("spline")
	if err == nil {
		t.Fatal("expected error for unknown tool name")
	}
	if !strings.Contains(err.Error(), "spline") {
		t.Fatalf("error %q does not name the bad input", err)
	}
}

func TestBehavior(t *testing.T) {
	for _, tt := range []struct {
		tool Tool
		want Behavior
	}{
		{Pencil, Freehand},
		{Eraser, Freehand},
		{Rectangle, AnchoredShape},
		{Square, AnchoredShape},
		{Circle, AnchoredShape},
	} {
		if got := tt.tool.Behavior(); got != tt.want {
			t.Fatalf("%v.Behavior() = %v, want %v", tt.tool, got, tt.want)
		}
	}
}

func TestRenderColor(t *testing.T) {
	fg := color.RGBA{200, 30, 90, 255}
	bg := color.RGBA{255, 255, 255, 255}
	if got := Pencil.RenderColor(fg, bg); got != fg {
		t.Fatalf("pencil renders %v, want the stroke color", got)
	}
	if got := Eraser.RenderColor(fg, bg); got != bg {
		t.Fatalf("eraser renders %v, want the background color", got)
	}
}

func TestConstrainsSquare(t *testing.T) {
	if !Square.ConstrainsSquare() {
		t.Fatal("square tool does not constrain")
	}
	if Rectangle.ConstrainsSquare() {
		t.Fatal("rectangle tool constrains")
	}
}
