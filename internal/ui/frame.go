package ui

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/exp/shiny/screen"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/example/sketchpad/internal/theme"
	"github.com/example/sketchpad/internal/tool"
)

const (
	titleHeight  = 24
	bottomHeight = 24
)

const defaultToolbarWidth = 64

// frameDropThreshold specifies how many consecutive frames can be canceled
// before a draw is allowed to complete to keep the UI responsive.
const frameDropThreshold = 10

var messageFace font.Face

func init() {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		logrus.WithError(err).Fatal("parse font")
	}
	messageFace, err = opentype.NewFace(f, &opentype.FaceOptions{Size: 32, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		logrus.WithError(err).Fatal("font face")
	}
}

// chrome is the window furniture of one UI instance: button and swatch
// layout plus hover state. The event loop hit-tests it while the paint
// goroutine lays it out, so the mutable parts are guarded by the mutex.
// toolbarWidth and toolButtons are fixed before the paint goroutine starts.
type chrome struct {
	toolbarWidth int
	toolButtons  []*CacheButton

	mu            sync.Mutex
	paletteRects  []image.Rectangle
	widthRects    []image.Rectangle
	shortcutRects []Shortcut
	hoverTool     int
	hoverPalette  int
	hoverWidth    int
	hoverShortcut int
}

func newChrome() *chrome {
	return &chrome{
		toolbarWidth:  defaultToolbarWidth,
		hoverTool:     -1,
		hoverPalette:  -1,
		hoverWidth:    -1,
		hoverShortcut: -1,
	}
}

// canvasRect returns the destination rectangle for drawing the canvas. The
// canvas origin is anchored just below the title bar so its on-screen
// position stays stable as the window resizes.
func (c *chrome) canvasRect(img *image.RGBA, zoom float64) image.Rectangle {
	w := int(float64(img.Bounds().Dx()) * zoom)
	h := int(float64(img.Bounds().Dy()) * zoom)
	x0 := c.toolbarWidth
	y0 := titleHeight
	return image.Rect(x0, y0, x0+w, y0+h)
}

func (c *chrome) fitZoom(img *image.RGBA, winW, winH int) float64 {
	availW := winW - c.toolbarWidth
	availH := winH - titleHeight - bottomHeight
	zx := float64(availW) / float64(img.Bounds().Dx())
	zy := float64(availH) / float64(img.Bounds().Dy())
	if zx < zy {
		return zx
	}
	return zy
}

func (c *chrome) setHover(tool, palette, width, shortcut int) {
	c.mu.Lock()
	c.hoverTool = tool
	c.hoverPalette = palette
	c.hoverWidth = width
	c.hoverShortcut = shortcut
	c.mu.Unlock()
}

// shortcutActionAt returns the action of the shortcut under p, if any, and
// records it as the hovered entry.
func (c *chrome) shortcutActionAt(p image.Point) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hoverShortcut = -1
	for i, sc := range c.shortcutRects {
		if p.In(sc.rect) {
			c.hoverShortcut = i
			return sc.action
		}
	}
	return nil
}

type paintState struct {
	width, height  int
	img            *image.RGBA
	zoom           float64
	th             *theme.Theme
	tool           tool.Tool
	colorIdx       int
	widthIdx       int
	message        string
	messageUntil   time.Time
	chrome         *chrome
	handleShortcut func(string)
}

func drawTitle(dst *image.RGBA, st paintState) {
	draw.Draw(dst, image.Rect(0, 0, st.width, titleHeight),
		&image.Uniform{st.th.ToolbarBackground}, image.Point{}, draw.Src)
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(st.th.Foreground), Face: basicfont.Face7x13,
		Dot: fixed.P(4, 16)}
	d.DrawString("SketchPad")
}

func drawToolbar(dst *image.RGBA, st paintState) {
	c := st.chrome
	c.mu.Lock()
	defer c.mu.Unlock()

	draw.Draw(dst, image.Rect(0, titleHeight, c.toolbarWidth, st.height-bottomHeight),
		&image.Uniform{st.th.ToolbarBackground}, image.Point{}, draw.Src)

	y := titleHeight
	for i, cb := range c.toolButtons {
		r := image.Rect(0, y, c.toolbarWidth, y+24)
		cb.SetRect(r)
		tb := cb.Button.(*ToolButton)
		state := StateDefault
		if tb.tool == st.tool {
			state = StateOn
		} else if i == c.hoverTool {
			state = StateHover
		}
		cb.Draw(dst, state)
		y += 24
	}

	// color swatches below the tools
	y += 4
	x := 4
	c.paletteRects = c.paletteRects[:0]
	for i, p := range Palette() {
		rect := image.Rect(x, y, x+16, y+16)
		draw.Draw(dst, rect, &image.Uniform{p}, image.Point{}, draw.Src)
		if i == c.hoverPalette {
			draw.Draw(dst, rect, &image.Uniform{color.RGBA{255, 255, 255, 80}}, image.Point{}, draw.Over)
		}
		if i == st.colorIdx {
			chromeRect(dst, rect, st.th.SwatchBorder)
		}
		c.paletteRects = append(c.paletteRects, rect)
		x += 18
		if x+16 > c.toolbarWidth {
			x = 4
			y += 18
		}
	}

	// stroke width previews drawn in the selected color
	y += 8
	col := paletteColorAt(st.colorIdx)
	c.widthRects = c.widthRects[:0]
	for i, w := range WidthOptions() {
		rect := image.Rect(0, y, c.toolbarWidth, y+16)
		fill := st.th.ButtonBackground
		if i == st.widthIdx {
			fill = st.th.ButtonBackgroundOn
		} else if i == c.hoverWidth {
			fill = st.th.ButtonBackgroundHover
		}
		draw.Draw(dst, rect, &image.Uniform{fill}, image.Point{}, draw.Src)
		d := &font.Drawer{Dst: dst, Src: image.NewUniform(st.th.ButtonText), Face: basicfont.Face7x13, Dot: fixed.P(4, y+12)}
		d.DrawString(fmt.Sprintf("%d", w))
		lineY := y + 8
		half := w / 2
		draw.Draw(dst, image.Rect(24, lineY-half, c.toolbarWidth-4, lineY+half+1),
			&image.Uniform{col}, image.Point{}, draw.Src)
		c.widthRects = append(c.widthRects, rect)
		y += 16
	}
}

func drawShortcuts(dst *image.RGBA, st paintState) {
	c := st.chrome
	c.mu.Lock()
	defer c.mu.Unlock()

	rect := image.Rect(0, st.height-bottomHeight, st.width, st.height)
	draw.Draw(dst, rect, &image.Uniform{st.th.ToolbarBackground}, image.Point{}, draw.Src)
	c.shortcutRects = c.shortcutRects[:0]
	zoomStr := fmt.Sprintf("+/-:zoom (%.0f%%)", st.zoom*100)
	shortcuts := []Shortcut{
		{label: "^Z:undo", th: st.th, action: func() { st.handleShortcut("undo") }},
		{label: "^Y:redo", th: st.th, action: func() { st.handleShortcut("redo") }},
		{label: "^D:clear", th: st.th, action: func() { st.handleShortcut("clear") }},
		{label: "^S:save", th: st.th, action: func() { st.handleShortcut("save") }},
		{label: "^C:copy", th: st.th, action: func() { st.handleShortcut("copy") }},
		{label: zoomStr, th: st.th, action: func() { st.handleShortcut("zoom") }},
		{label: "Q:quit", th: st.th, action: func() { st.handleShortcut("quit") }},
	}
	x := c.toolbarWidth + 4
	y := st.height - bottomHeight + 16
	meas := &font.Drawer{Face: basicfont.Face7x13}
	for i := range shortcuts {
		sc := &shortcuts[i]
		w := meas.MeasureString(sc.label).Ceil()
		sc.SetRect(image.Rect(x-2, y-14, x+w+2, y+4))
		state := StateDefault
		if i == c.hoverShortcut {
			state = StateHover
		}
		sc.Draw(dst, state)
		c.shortcutRects = append(c.shortcutRects, *sc)
		x = sc.rect.Max.X + 8
	}
}

func drawFrame(ctx context.Context, s screen.Screen, w screen.Window, st paintState) {
	b, err := s.NewBuffer(image.Point{st.width, st.height})
	if err != nil {
		logrus.WithError(err).Error("new buffer")
		return
	}
	defer b.Release()

	dst := b.RGBA()
	draw.Draw(dst, dst.Bounds(), &image.Uniform{st.th.Background}, image.Point{}, draw.Src)
	if ctx.Err() != nil {
		return
	}

	cr := st.chrome.canvasRect(st.img, st.zoom)
	xdraw.NearestNeighbor.Scale(dst, cr, st.img, st.img.Bounds(), draw.Over, nil)
	chromeRect(dst, cr.Inset(-1), st.th.CanvasBorder)
	if ctx.Err() != nil {
		return
	}

	drawTitle(dst, st)
	drawToolbar(dst, st)
	drawShortcuts(dst, st)
	if ctx.Err() != nil {
		return
	}

	if st.message != "" && time.Now().Before(st.messageUntil) {
		d := &font.Drawer{Dst: dst, Src: image.NewUniform(st.th.Foreground), Face: messageFace}
		wmsg := d.MeasureString(st.message).Ceil()
		ascent := messageFace.Metrics().Ascent.Ceil()
		descent := messageFace.Metrics().Descent.Ceil()
		px := (st.width - wmsg) / 2
		py := (st.height-ascent-descent)/2 + ascent
		rect := image.Rect(px-8, py-ascent-8, px+wmsg+8, py+descent+8)
		draw.Draw(dst, rect, &image.Uniform{color.RGBA{255, 255, 255, 230}}, image.Point{}, draw.Over)
		chromeRect(dst, rect, st.th.Foreground)
		d.Dot = fixed.P(px, py)
		d.DrawString(st.message)
	}

	if ctx.Err() != nil {
		return
	}

	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}
