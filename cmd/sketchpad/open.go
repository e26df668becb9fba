package main

import (
	"flag"
	"fmt"
	"image/png"
	"log"
	"os"

	"github.com/example/sketchpad/internal/board"
	"github.com/example/sketchpad/internal/render"
	"github.com/example/sketchpad/internal/tool"
	"github.com/example/sketchpad/internal/ui"
)

// openCmd opens an existing PNG file in an interactive window.
type openCmd struct {
	*root
	fs          *flag.FlagSet
	file        string
	output      string
	toolName    string
	colorSpec   string
	strokeWidth int
	matte       bool
}

func (c *openCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func (c *openCmd) Template() string {
	return "open.txt"
}

func parseOpenCmd(args []string, r *root) (*openCmd, error) {
	fs := flag.NewFlagSet("open", flag.ExitOnError)
	c := &openCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	cfg := r.config
	fs.StringVar(&c.output, "output", "", "file path used when saving (defaults to the opened file)")
	fs.StringVar(&c.toolName, "tool", cfg.Style.Tool, "starting tool (pencil, eraser, rect, square, circle)")
	fs.StringVar(&c.colorSpec, "color", "", "starting stroke color name or hex value")
	fs.IntVar(&c.strokeWidth, "stroke-width", cfg.Style.Width, "starting stroke width in pixels")
	fs.BoolVar(&c.matte, "matte", false, "add a drop-shadow matte to saved and copied drawings")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		return nil, &UsageError{of: c}
	}
	c.file = fs.Arg(0)
	if c.output == "" {
		c.output = c.file
	}
	return c, nil
}

func (c *openCmd) Run() error {
	cfg := c.root.config

	f, err := os.Open(c.file)
	if err != nil {
		return fmt.Errorf("open %s: %w", c.file, err)
	}
	img, err := png.Decode(f)
	if cerr := f.Close(); cerr != nil {
		log.Printf("error closing %q: %v", c.file, cerr)
	}
	if err != nil {
		return fmt.Errorf("decode %s: %w", c.file, err)
	}

	startTool, err := tool.Parse(c.toolName)
	if err != nil {
		return err
	}

	col := cfg.Style.Color
	if c.colorSpec != "" {
		col, err = parseColor(c.colorSpec)
		if err != nil {
			return err
		}
	}
	if c.strokeWidth < 1 {
		c.strokeWidth = 1
	}

	b, err := board.New(
		board.WithImage(img),
		board.WithBackground(cfg.Canvas.Background),
		board.WithHistoryLimit(cfg.History.Limit),
		board.WithTool(startTool),
		board.WithColor(col),
		board.WithStrokeWidth(c.strokeWidth),
	)
	if err != nil {
		return fmt.Errorf("create board: %w", err)
	}

	opts := []ui.Option{
		ui.WithBoard(b),
		ui.WithTheme(c.root.activeTheme),
		ui.WithOutput(c.output),
		ui.WithSaveDir(cfg.SaveDir),
		ui.WithNotifier(c.root.notifier),
		ui.WithColorIndex(ui.EnsurePaletteColor(col, "")),
		ui.WithWidthIndex(ui.EnsureWidth(c.strokeWidth)),
	}
	if c.matte {
		m := render.DefaultMatteOptions()
		opts = append(opts, ui.WithMatte(&m))
	}
	ui.New(opts...).Run()
	return nil
}
