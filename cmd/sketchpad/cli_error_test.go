package main

import (
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/sketchpad/internal/config"
)

func testRoot() *root {
	return &root{program: "sketchpad", config: config.New()}
}

func TestParseDrawUnknownShape(t *testing.T) {
	_, err := parseDrawCmd([]string{"-output", "out.png", "spline", "0", "0", "1", "1"}, testRoot())
	if err == nil {
		t.Fatalf("expected error")
	}
	if want := "unsupported shape"; !strings.Contains(err.Error(), want) {
		t.Fatalf("expected error to mention %q, got %v", want, err)
	}
}

func TestParseDrawOddCoordinates(t *testing.T) {
	_, err := parseDrawCmd([]string{"-output", "out.png", "pencil", "0", "0", "5"}, testRoot())
	if err == nil {
		t.Fatalf("expected error")
	}
	if want := "x y pairs"; !strings.Contains(err.Error(), want) {
		t.Fatalf("expected error to mention %q, got %v", want, err)
	}
}

func TestParseDrawBlankCanvasRequiresOutput(t *testing.T) {
	_, err := parseDrawCmd([]string{"rect", "0", "0", "10", "10"}, testRoot())
	if err == nil {
		t.Fatalf("expected error")
	}
	if want := "output file is required"; !strings.Contains(err.Error(), want) {
		t.Fatalf("expected error to mention %q, got %v", want, err)
	}
}

func TestParseDrawClipboardRequiresOutput(t *testing.T) {
	_, err := parseDrawCmd([]string{"-from-clipboard", "pencil", "0", "0", "1", "1"}, testRoot())
	if err == nil {
		t.Fatalf("expected error")
	}
	if want := "output file is required when reading from the clipboard"; !strings.Contains(err.Error(), want) {
		t.Fatalf("expected error to mention %q, got %v", want, err)
	}
}

func TestParseDrawRectCoordinateCount(t *testing.T) {
	_, err := parseDrawCmd([]string{"-output", "out.png", "rect", "0", "0", "10"}, testRoot())
	if err == nil {
		t.Fatalf("expected error")
	}
	if want := "exactly 4 integer arguments"; !strings.Contains(err.Error(), want) {
		t.Fatalf("expected error to mention %q, got %v", want, err)
	}
}

func TestParseColorForms(t *testing.T) {
	cases := []struct {
		spec string
		want color.RGBA
	}{
		{"red", color.RGBA{255, 0, 0, 255}},
		{"Lime", color.RGBA{0, 255, 0, 255}},
		{"#102030", color.RGBA{0x10, 0x20, 0x30, 255}},
		{"#10203040", color.RGBA{0x10, 0x20, 0x30, 0x40}},
	}
	for _, tc := range cases {
		got, err := parseColor(tc.spec)
		if err != nil {
			t.Fatalf("parseColor(%q): %v", tc.spec, err)
		}
		if got != tc.want {
			t.Errorf("parseColor(%q) = %v, want %v", tc.spec, got, tc.want)
		}
	}
	if _, err := parseColor("not-a-color"); err == nil {
		t.Fatal("expected error for unknown color")
	}
}

func TestSplitDrawArgsNegativeCoordinates(t *testing.T) {
	flags, positionals, err := splitDrawArgs([]string{"pencil", "-5", "-5", "10", "10", "-width", "3"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(flags) != 2 || flags[0] != "-width" || flags[1] != "3" {
		t.Fatalf("flags = %v, want [-width 3]", flags)
	}
	if len(positionals) != 5 {
		t.Fatalf("positionals = %v, want 5 entries", positionals)
	}
	if positionals[1] != "-5" {
		t.Fatalf("negative coordinate not kept as positional: %v", positionals)
	}
}

func TestDrawRunBlankCanvas(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.png")
	cmd, err := parseDrawCmd([]string{"-output", out, "-color", "black", "-width", "1", "rect", "10", "10", "30", "30"}, testRoot())
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	r, g, b, _ := img.At(10, 10).RGBA()
	if r != 0 || g != 0 || b != 0 {
		t.Fatal("expected rectangle corner to be stroked")
	}
	r, g, b, _ = img.At(20, 20).RGBA()
	if r != 0xffff || g != 0xffff || b != 0xffff {
		t.Fatal("expected rectangle interior to stay background")
	}
}
