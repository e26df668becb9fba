package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"

	"github.com/example/sketchpad/internal/board"
	"github.com/example/sketchpad/internal/clipboard"
	"github.com/example/sketchpad/internal/export"
	"github.com/example/sketchpad/internal/render"
	"github.com/example/sketchpad/internal/theme"
	"github.com/example/sketchpad/internal/tool"
	"github.com/example/sketchpad/internal/ui"
)

// drawCmd applies one tool stroke to an image without opening a window.
// Strokes go through the same gesture path the interactive window uses.
type drawCmd struct {
	file          string
	output        string
	fromClipboard bool
	toClipboard   bool
	colorSpec     string
	color         color.RGBA
	width         int
	matte         bool
	tool          tool.Tool
	points        []image.Point
	*root
	fs *flag.FlagSet
}

func (d *drawCmd) FlagSet() *flag.FlagSet {
	return d.fs
}

func (d *drawCmd) Template() string {
	return "draw.txt"
}

func parseColor(s string) (color.RGBA, error) {
	spec := strings.ToLower(strings.TrimSpace(s))
	if spec == "" {
		return color.RGBA{}, fmt.Errorf("color cannot be empty")
	}
	if c, ok := colornames.Map[spec]; ok {
		return c, nil
	}
	for _, entry := range ui.PaletteColors() {
		if strings.EqualFold(entry.Name, s) {
			return entry.Color, nil
		}
	}
	if strings.HasPrefix(spec, "#") {
		return theme.ParseColor(spec)
	}
	return color.RGBA{}, fmt.Errorf("invalid color %q", s)
}

func parseDrawCmd(args []string, r *root) (*drawCmd, error) {
	fs := flag.NewFlagSet("draw", flag.ExitOnError)
	d := &drawCmd{root: r, fs: fs}
	fs.Usage = usageFunc(d)
	fs.StringVar(&d.file, "file", "", "input image file (blank canvas when omitted)")
	fs.StringVar(&d.output, "output", "", "output file path (defaults to the input file)")
	fs.BoolVar(&d.fromClipboard, "from-clipboard", false, "read the input image from the clipboard")
	fs.BoolVar(&d.fromClipboard, "from-clip", false, "read the input image from the clipboard (alias)")
	fs.BoolVar(&d.toClipboard, "to-clipboard", false, "copy the result to the clipboard")
	fs.BoolVar(&d.toClipboard, "to-clip", false, "copy the result to the clipboard (alias)")
	fs.StringVar(&d.colorSpec, "color", "black", "stroke color name or hex value")
	fs.IntVar(&d.width, "width", 2, "stroke width in pixels")
	fs.BoolVar(&d.matte, "matte", false, "add a drop-shadow matte to the saved image")

	flagArgs, positionals, err := splitDrawArgs(args)
	if err != nil {
		return nil, err
	}
	if err := fs.Parse(flagArgs); err != nil {
		return nil, err
	}
	if len(positionals) < 1 {
		return nil, &UsageError{of: d}
	}
	shape := strings.ToLower(positionals[0])
	remaining := positionals[1:]
	switch shape {
	case "pencil", "erase":
		d.tool = tool.Pencil
		if shape == "erase" {
			d.tool = tool.Eraser
		}
		d.points, err = expectPoints(remaining, 1, shape)
	case "rect", "rectangle":
		d.tool = tool.Rectangle
		d.points, err = expectExactPoints(remaining, 2, shape)
	case "square":
		d.tool = tool.Square
		d.points, err = expectExactPoints(remaining, 2, shape)
	case "circle":
		d.tool = tool.Circle
		d.points, err = expectExactPoints(remaining, 2, shape)
	default:
		return nil, fmt.Errorf("unsupported shape %q", shape)
	}
	if err != nil {
		return nil, err
	}
	colorVal, err := parseColor(d.colorSpec)
	if err != nil {
		return nil, err
	}
	d.color = colorVal
	if d.fromClipboard {
		if d.output == "" {
			if d.file != "" {
				d.output = d.file
			} else {
				return nil, fmt.Errorf("output file is required when reading from the clipboard")
			}
		}
	} else if d.output == "" {
		if d.file == "" {
			return nil, fmt.Errorf("output file is required when drawing on a blank canvas")
		}
		d.output = d.file
	}
	if d.width < 1 {
		d.width = 1
	}
	return d, nil
}

// expectPoints parses pairs of integers into points, requiring at least min
// pairs. A single pair is a dot for the freehand tools.
func expectPoints(args []string, min int, shape string) ([]image.Point, error) {
	if len(args) < min*2 || len(args)%2 != 0 {
		return nil, fmt.Errorf("%s requires x y pairs (at least %d)", shape, min)
	}
	points := make([]image.Point, 0, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		x, err := strconv.Atoi(args[i])
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q", args[i])
		}
		y, err := strconv.Atoi(args[i+1])
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q", args[i+1])
		}
		points = append(points, image.Pt(x, y))
	}
	return points, nil
}

func expectExactPoints(args []string, n int, shape string) ([]image.Point, error) {
	if len(args) != n*2 {
		return nil, fmt.Errorf("%s requires exactly %d integer arguments", shape, n*2)
	}
	return expectPoints(args, n, shape)
}

func (d *drawCmd) Run() error {
	cfg := d.root.config

	opts := []board.Option{
		board.WithBackground(cfg.Canvas.Background),
		board.WithTool(d.tool),
		board.WithColor(d.color),
		board.WithStrokeWidth(d.width),
	}
	src, err := d.loadSource()
	if err != nil {
		return err
	}
	if src != nil {
		opts = append(opts, board.WithImage(src))
	} else {
		opts = append(opts, board.WithSize(cfg.Canvas.Width, cfg.Canvas.Height))
	}
	b, err := board.New(opts...)
	if err != nil {
		return fmt.Errorf("create board: %w", err)
	}

	b.PointerDown(d.points[0])
	for _, p := range d.points[1:] {
		b.PointerMove(p)
	}
	b.PointerUp(d.points[len(d.points)-1])

	saveOpts := export.Options{Path: d.output}
	if d.matte {
		m := render.DefaultMatteOptions()
		saveOpts.Matte = &m
	}
	saved, err := export.Save(b.Image(), saveOpts)
	if err != nil {
		return fmt.Errorf("save %s: %w", d.output, err)
	}
	if abs, err := filepath.Abs(saved); err == nil {
		saved = abs
	}
	fmt.Fprintf(os.Stderr, "saved %s\n", saved)
	d.root.notifySave(saved)

	if d.toClipboard {
		var matte *render.MatteOptions
		if d.matte {
			m := render.DefaultMatteOptions()
			matte = &m
		}
		if err := export.Copy(b.Image(), matte); err != nil {
			return fmt.Errorf("copy PNG to clipboard: %w", err)
		}
		detail := filepath.Base(d.output)
		if detail == "" {
			detail = "drawing"
		}
		fmt.Fprintf(os.Stderr, "copied %s to clipboard\n", detail)
		d.root.notifyCopy(detail, b.Image())
	}
	return nil
}

func (d *drawCmd) loadSource() (image.Image, error) {
	if d.fromClipboard {
		img, err := clipboard.ReadImage()
		if err != nil {
			return nil, fmt.Errorf("read clipboard image: %w", err)
		}
		return img, nil
	}
	if d.file == "" {
		return nil, nil
	}
	f, err := os.Open(d.file)
	if err != nil {
		return nil, err
	}
	img, err := png.Decode(f)
	if cerr := f.Close(); cerr != nil {
		log.Printf("error closing %q: %v", f.Name(), cerr)
	}
	if err != nil {
		return nil, err
	}
	return img, nil
}

var drawFlagNames = map[string]struct{}{
	"file":           {},
	"output":         {},
	"from-clipboard": {},
	"from-clip":      {},
	"to-clipboard":   {},
	"to-clip":        {},
	"color":          {},
	"width":          {},
	"matte":          {},
}

var drawBoolFlags = map[string]struct{}{
	"from-clipboard": {},
	"from-clip":      {},
	"to-clipboard":   {},
	"to-clip":        {},
	"matte":          {},
}

// splitDrawArgs separates known flags from positionals so that flags can
// trail the shape arguments.
func splitDrawArgs(args []string) ([]string, []string, error) {
	var flags []string
	var positionals []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			positionals = append(positionals, args[i+1:]...)
			break
		}
		if !strings.HasPrefix(arg, "-") || arg == "-" {
			positionals = append(positionals, arg)
			continue
		}
		name := strings.TrimLeft(arg, "-")
		if name == "" {
			positionals = append(positionals, arg)
			continue
		}
		parts := strings.SplitN(name, "=", 2)
		base := strings.ToLower(parts[0])
		if _, ok := drawFlagNames[base]; !ok {
			positionals = append(positionals, arg)
			continue
		}
		// Normalise to single dash form for the flag parser.
		norm := "-" + base
		if len(parts) == 2 {
			flags = append(flags, norm+"="+parts[1])
			continue
		}
		if _, ok := drawBoolFlags[base]; ok {
			flags = append(flags, norm)
			continue
		}
		if i+1 >= len(args) {
			return nil, nil, fmt.Errorf("flag %s requires a value", arg)
		}
		flags = append(flags, norm, args[i+1])
		i++
	}
	return flags, positionals, nil
}
