package ui

import (
	"image"
	"testing"
)

func TestChromeStatePerInstance(t *testing.T) {
	a := New()
	b := New()
	a.chrome.toolbarWidth = 120
	if got := b.chrome.toolbarWidth; got != defaultToolbarWidth {
		t.Fatalf("toolbarWidth = %d, want %d", got, defaultToolbarWidth)
	}
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	ra := a.chrome.canvasRect(img, 1)
	rb := b.chrome.canvasRect(img, 1)
	if ra.Min.X != 120 || rb.Min.X != defaultToolbarWidth {
		t.Fatalf("canvas rects do not track their instance: %v vs %v", ra, rb)
	}
}

func TestNewChromeDefaults(t *testing.T) {
	c := newChrome()
	for _, idx := range []int{c.hoverTool, c.hoverPalette, c.hoverWidth, c.hoverShortcut} {
		if idx != -1 {
			t.Fatalf("hover index = %d, want -1", idx)
		}
	}
}

func TestShortcutActionAt(t *testing.T) {
	c := newChrome()
	var fired bool
	c.shortcutRects = []Shortcut{{rect: image.Rect(10, 10, 40, 24), action: func() { fired = true }}}
	if act := c.shortcutActionAt(image.Pt(0, 0)); act != nil {
		t.Fatal("expected miss outside the shortcut rect")
	}
	if c.hoverShortcut != -1 {
		t.Fatalf("hoverShortcut = %d after miss, want -1", c.hoverShortcut)
	}
	act := c.shortcutActionAt(image.Pt(12, 12))
	if act == nil {
		t.Fatal("expected hit inside the shortcut rect")
	}
	act()
	if !fired {
		t.Fatal("action not invoked")
	}
	if c.hoverShortcut != 0 {
		t.Fatalf("hoverShortcut = %d after hit, want 0", c.hoverShortcut)
	}
}

func TestFitZoom(t *testing.T) {
	c := newChrome()
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	if z := c.fitZoom(img, c.toolbarWidth+200, titleHeight+bottomHeight+100); z != 1 {
		t.Fatalf("fitZoom = %v, want 1", z)
	}
}
