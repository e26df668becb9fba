package main

import (
	"flag"
	"fmt"

	"github.com/example/sketchpad/internal/board"
	"github.com/example/sketchpad/internal/render"
	"github.com/example/sketchpad/internal/tool"
	"github.com/example/sketchpad/internal/ui"
)

// newCmd opens an interactive window with an empty canvas.
type newCmd struct {
	*root
	fs             *flag.FlagSet
	width          int
	height         int
	backgroundSpec string
	output         string
	saveDir        string
	toolName       string
	colorSpec      string
	strokeWidth    int
	matte          bool
}

func (c *newCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func (c *newCmd) Template() string {
	return "new.txt"
}

func parseNewCmd(args []string, r *root) (*newCmd, error) {
	fs := flag.NewFlagSet("new", flag.ExitOnError)
	c := &newCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	cfg := r.config
	fs.IntVar(&c.width, "width", cfg.Canvas.Width, "canvas width in pixels")
	fs.IntVar(&c.height, "height", cfg.Canvas.Height, "canvas height in pixels")
	fs.StringVar(&c.backgroundSpec, "background", "", "canvas background color name or hex value")
	fs.StringVar(&c.output, "output", "", "file path used when saving")
	fs.StringVar(&c.saveDir, "save-dir", cfg.SaveDir, "directory used when saving without an output path")
	fs.StringVar(&c.toolName, "tool", cfg.Style.Tool, "starting tool (pencil, eraser, rect, square, circle)")
	fs.StringVar(&c.colorSpec, "color", "", "starting stroke color name or hex value")
	fs.IntVar(&c.strokeWidth, "stroke-width", cfg.Style.Width, "starting stroke width in pixels")
	fs.BoolVar(&c.matte, "matte", false, "add a drop-shadow matte to saved and copied drawings")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: c}
	}
	if c.width < 1 || c.height < 1 {
		return nil, fmt.Errorf("canvas size must be positive, got %dx%d", c.width, c.height)
	}
	return c, nil
}

func (c *newCmd) Run() error {
	cfg := c.root.config

	background := cfg.Canvas.Background
	if c.backgroundSpec != "" {
		bg, err := parseColor(c.backgroundSpec)
		if err != nil {
			return err
		}
		background = bg
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
		board.WithSize(c.width, c.height),
		board.WithBackground(background),
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
		ui.WithSaveDir(c.saveDir),
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
