// Package ui is the interactive shell around a drawing board: a shiny
// window with a tool bar, color palette, stroke widths, and a shortcut bar,
// translating pointer and key events into board operations.
package ui

import (
	"context"
	"fmt"
	"image"
	"sync"
	"time"
	"unicode"

	"github.com/sirupsen/logrus"
	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/sketchpad/internal/board"
	"github.com/example/sketchpad/internal/export"
	"github.com/example/sketchpad/internal/notify"
	"github.com/example/sketchpad/internal/render"
	"github.com/example/sketchpad/internal/theme"
	"github.com/example/sketchpad/internal/tool"
)

// UI drives the interactive window around a Board.
type UI struct {
	board    *board.Board
	th       *theme.Theme
	output   string
	saveDir  string
	matte    *render.MatteOptions
	notifier *notify.Notifier

	colorIdx int
	widthIdx int

	chrome *chrome

	onClose   func()
	closeOnce sync.Once
}

// Option modifies a UI during creation.
type Option func(*UI)

// WithBoard sets the board the window operates on.
func WithBoard(b *board.Board) Option { return func(u *UI) { u.board = b } }

// WithTheme sets the UI color palette.
func WithTheme(th *theme.Theme) Option { return func(u *UI) { u.th = th } }

// WithOutput sets the file path used when saving.
func WithOutput(out string) Option { return func(u *UI) { u.output = out } }

// WithSaveDir sets the directory used when no output path is set.
func WithSaveDir(dir string) Option { return func(u *UI) { u.saveDir = dir } }

// WithMatte applies a drop-shadow matte to saved and copied drawings.
func WithMatte(m *render.MatteOptions) Option { return func(u *UI) { u.matte = m } }

// WithNotifier sets the desktop notifier for save and copy events.
func WithNotifier(n *notify.Notifier) Option { return func(u *UI) { u.notifier = n } }

// WithColorIndex sets the initial palette index.
func WithColorIndex(idx int) Option { return func(u *UI) { u.colorIdx = idx } }

// WithWidthIndex sets the initial stroke width index.
func WithWidthIndex(idx int) Option { return func(u *UI) { u.widthIdx = idx } }

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(u *UI) { u.onClose = fn } }

// New creates a UI with the provided options.
func New(opts ...Option) *UI {
	u := &UI{th: theme.Default(), chrome: newChrome()}
	for _, o := range opts {
		o(u)
	}
	u.colorIdx = clampColorIndex(u.colorIdx)
	u.widthIdx = clampWidthIndex(u.widthIdx)
	return u
}

func (u *UI) notifyClose() {
	u.closeOnce.Do(func() {
		if u.onClose != nil {
			u.onClose()
		}
	})
}

// Run executes the UI loop using shiny's driver.
func (u *UI) Run() { driver.Main(u.Main) }

func (u *UI) Main(s screen.Screen) {
	b := u.board
	th := u.th
	c := u.chrome
	colorIdx := clampColorIndex(u.colorIdx)
	widthIdx := clampWidthIndex(u.widthIdx)
	b.SetColor(paletteColorAt(colorIdx))
	b.SetStrokeWidth(widthAt(widthIdx))

	// Make the toolbar wide enough for the title and every tool label so
	// nothing is clipped on start up.
	d := &font.Drawer{Face: basicfont.Face7x13}
	max := d.MeasureString("SketchPad").Ceil() + 8
	labels := map[tool.Tool]string{
		tool.Pencil:    "P:Pencil",
		tool.Eraser:    "E:Erase",
		tool.Rectangle: "X:Rect",
		tool.Square:    "S:Square",
		tool.Circle:    "O:Circle",
	}
	for _, lbl := range labels {
		if w := d.MeasureString(lbl).Ceil() + 8; w > max {
			max = w
		}
	}
	if max > c.toolbarWidth {
		c.toolbarWidth = max
	}

	width := b.Bounds().Dx() + c.toolbarWidth
	height := b.Bounds().Dy() + titleHeight + bottomHeight
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: "SketchPad"})
	if err != nil {
		logrus.WithError(err).Fatal("new window")
	}
	defer w.Release()
	defer u.notifyClose()

	zoom := 1.0
	var message string
	var messageUntil time.Time
	var confirmClear bool

	showMessage := func(msg string) {
		message = msg
		logrus.Info(msg)
		messageUntil = time.Now().Add(2 * time.Second)
	}

	var paintMu sync.Mutex
	var paintCancel context.CancelFunc
	var dropCount int
	paintCh := make(chan paintState, 1)
	go func() {
		for st := range paintCh {
			ctx, cancel := context.WithCancel(context.Background())
			paintMu.Lock()
			paintCancel = cancel
			paintMu.Unlock()
			drawFrame(ctx, s, w, st)
			paintMu.Lock()
			paintCancel = nil
			if ctx.Err() == nil {
				dropCount = 0
			}
			paintMu.Unlock()
		}
	}()
	stopPaint := func() {
		paintMu.Lock()
		if paintCancel != nil {
			paintCancel()
		}
		paintMu.Unlock()
	}

	// Restores are serialized: starting a new undo or redo abandons any
	// restore still decoding.
	var restoreCancel context.CancelFunc
	restoreCtx := func() context.Context {
		if restoreCancel != nil {
			restoreCancel()
		}
		ctx, cancel := context.WithCancel(context.Background())
		restoreCancel = cancel
		return ctx
	}

	c.toolButtons = nil
	for _, t := range tool.All() {
		t := t
		tb := &ToolButton{label: labels[t], tool: t, th: th}
		tb.onSelect = func() { b.SetTool(t) }
		c.toolButtons = append(c.toolButtons, &CacheButton{Button: tb})
	}

	keyboardAction := map[KeyShortcut]string{}
	actions := map[string]func(){}
	register := func(name string, keys KeyboardShortcuts, fn func()) {
		actions[name] = fn
		if keys != nil {
			for _, sc := range keys.KeyboardShortcuts() {
				keyboardAction[sc] = name
			}
		}
	}

	register("undo", shortcutList{{Rune: 'z', Modifiers: key.ModControl}}, func() {
		if b.Undo(restoreCtx()) {
			showMessage("undo")
		}
	})
	register("redo", shortcutList{{Rune: 'y', Modifiers: key.ModControl}}, func() {
		if b.Redo(restoreCtx()) {
			showMessage("redo")
		}
	})
	register("clear", shortcutList{{Rune: 'd', Modifiers: key.ModControl}}, func() {
		if err := b.ClearCanvas(); err != nil {
			logrus.WithError(err).Error("clear")
			return
		}
		showMessage("canvas cleared")
	})
	// Save and copy export the committed state, never the live buffer, so a
	// gesture in progress cannot leak a half-drawn preview.
	register("save", shortcutList{{Rune: 's', Modifiers: key.ModControl}}, func() {
		opts := export.Options{Path: u.output, Dir: u.saveDir}
		var (
			path string
			err  error
		)
		if u.matte != nil {
			opts.Matte = u.matte
			path, err = export.Save(b.CommittedImage(), opts)
		} else {
			path, err = export.SaveBytes(b.ExportImage(), opts)
		}
		if err != nil {
			logrus.WithError(err).Error("save")
			return
		}
		u.notifier.Save(path)
		showMessage(fmt.Sprintf("saved %s", path))
	})
	register("copy", shortcutList{{Rune: 'c', Modifiers: key.ModControl}}, func() {
		committed := b.CommittedImage()
		if err := export.Copy(committed, u.matte); err != nil {
			logrus.WithError(err).Error("copy")
			return
		}
		u.notifier.Copy("drawing", committed)
		showMessage("drawing copied to clipboard")
	})
	register("zoom", nil, func() {})
	register("quit", nil, func() {
		stopPaint()
		w.Send(lifecycle.Event{To: lifecycle.StageDead})
	})

	handleShortcut := func(action string) {
		if fn, ok := actions[action]; ok {
			fn()
		}
		w.Send(paint.Event{})
	}

	for {
		e := w.NextEvent()
		switch e := e.(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				stopPaint()
				return
			}
		case size.Event:
			width = e.WidthPx
			height = e.HeightPx
			w.Send(paint.Event{})
		case paint.Event:
			paintMu.Lock()
			if paintCancel != nil {
				if dropCount < frameDropThreshold {
					paintCancel()
					dropCount++
				}
			}
			paintMu.Unlock()
			st := paintState{
				width:          width,
				height:         height,
				img:            b.Image(),
				zoom:           zoom,
				th:             th,
				tool:           b.Tool(),
				colorIdx:       colorIdx,
				widthIdx:       widthIdx,
				message:        message,
				messageUntil:   messageUntil,
				chrome:         c,
				handleShortcut: handleShortcut,
			}
			select {
			case paintCh <- st:
			default:
				<-paintCh
				paintCh <- st
			}
		case mouse.Event:
			p := image.Point{int(e.X), int(e.Y)}
			cr := c.canvasRect(b.Image(), zoom)
			mx := int((float64(e.X) - float64(cr.Min.X)) / zoom)
			my := int((float64(e.Y) - float64(cr.Min.Y)) / zoom)

			// A gesture that wanders off the canvas ends there, committing
			// the partial stroke.
			if b.GestureActive() && !p.In(cr) {
				b.PointerLeave(image.Pt(mx, my))
				w.Send(paint.Event{})
				continue
			}

			if message != "" && time.Now().Before(messageUntil) && e.Direction == mouse.DirPress {
				messageUntil = time.Time{}
				w.Send(paint.Event{})
				continue
			}

			if p.Y >= height-bottomHeight {
				act := c.shortcutActionAt(p)
				if act != nil && e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress {
					act()
				}
				if e.Direction == mouse.DirNone {
					w.Send(paint.Event{})
				}
				continue
			}

			if p.X < c.toolbarWidth && p.Y >= titleHeight {
				pos := p.Y - titleHeight
				idx := pos / 24
				if idx < len(c.toolButtons) {
					if e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress {
						c.toolButtons[idx].Activate()
						w.Send(paint.Event{})
					}
					c.setHover(idx, -1, -1, -1)
					if e.Direction == mouse.DirNone {
						w.Send(paint.Event{})
					}
					continue
				}
				pos -= len(c.toolButtons)*24 + 4
				paletteCols := c.toolbarWidth / 18
				rows := (paletteLen() + paletteCols - 1) / paletteCols
				paletteHeight := rows * 18
				if pos >= 0 && pos < paletteHeight {
					colX := (p.X - 4) / 18
					colY := pos / 18
					cidx := colY*paletteCols + colX
					if cidx >= 0 && cidx < paletteLen() {
						if e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress {
							colorIdx = cidx
							b.SetColor(paletteColorAt(colorIdx))
							w.Send(paint.Event{})
						}
						c.setHover(-1, cidx, -1, -1)
						if e.Direction == mouse.DirNone {
							w.Send(paint.Event{})
						}
						continue
					}
				}
				pos -= paletteHeight + 8
				if pos >= 0 {
					widx := pos / 16
					if widx >= 0 && widx < widthsLen() {
						if e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress {
							widthIdx = widx
							b.SetStrokeWidth(widthAt(widthIdx))
							w.Send(paint.Event{})
						}
						c.setHover(-1, -1, widx, -1)
						if e.Direction == mouse.DirNone {
							w.Send(paint.Event{})
						}
						continue
					}
				}
				if e.Direction == mouse.DirNone {
					c.setHover(-1, -1, -1, -1)
					w.Send(paint.Event{})
				}
				continue
			}

			if e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress && p.In(cr) {
				b.PointerDown(image.Pt(mx, my))
				w.Send(paint.Event{})
				continue
			}
			if b.GestureActive() {
				switch e.Direction {
				case mouse.DirNone:
					b.PointerMove(image.Pt(mx, my))
					w.Send(paint.Event{})
				case mouse.DirRelease:
					b.PointerUp(image.Pt(mx, my))
					w.Send(paint.Event{})
				}
			}
		case key.Event:
			if e.Direction != key.DirPress {
				continue
			}
			ks := KeyShortcut{Rune: unicode.ToLower(e.Rune), Code: e.Code, Modifiers: e.Modifiers}
			if action, ok := keyboardAction[ks]; ok {
				if action == "clear" {
					if !confirmClear {
						confirmClear = true
						showMessage("press ^D again to clear")
						w.Send(paint.Event{})
						continue
					}
					confirmClear = false
				} else {
					confirmClear = false
				}
				handleShortcut(action)
				continue
			}
			confirmClear = false
			switch e.Rune {
			case 'p', 'P':
				b.SetTool(tool.Pencil)
				w.Send(paint.Event{})
			case 'e', 'E':
				b.SetTool(tool.Eraser)
				w.Send(paint.Event{})
			case 'x', 'X':
				b.SetTool(tool.Rectangle)
				w.Send(paint.Event{})
			case 's', 'S':
				b.SetTool(tool.Square)
				w.Send(paint.Event{})
			case 'o', 'O':
				b.SetTool(tool.Circle)
				w.Send(paint.Event{})
			case '+', '=':
				zoom *= 1.25
				w.Send(paint.Event{})
			case '-':
				zoom /= 1.25
				if zoom < 0.1 {
					zoom = 0.1
				}
				w.Send(paint.Event{})
			case 'f', 'F':
				zoom = c.fitZoom(b.Image(), width, height)
				if zoom < 0.1 {
					zoom = 0.1
				}
				w.Send(paint.Event{})
			case 'q', 'Q':
				stopPaint()
				return
			}
		}
	}
}
