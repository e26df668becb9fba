package config

import (
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	input := `
theme = my_custom_theme
save_dir = /tmp/drawings

[canvas]
width = 1024
height = 768
background = #FAFAFA

[history]
limit = 50

[style]
tool = circle
color = #CC1E5A
width = 4

[notify]
save = true
copy = false

[theme.my_custom_theme]
Background = #111111
Foreground = #FFFFFF
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Theme != "my_custom_theme" {
		t.Errorf("Expected theme 'my_custom_theme', got '%s'", cfg.Theme)
	}
	if cfg.SaveDir != "/tmp/drawings" {
		t.Errorf("Expected save_dir '/tmp/drawings', got '%s'", cfg.SaveDir)
	}

	if cfg.Canvas.Width != 1024 || cfg.Canvas.Height != 768 {
		t.Errorf("Unexpected canvas size: %dx%d", cfg.Canvas.Width, cfg.Canvas.Height)
	}
	if cfg.Canvas.Background.R != 0xFA {
		t.Errorf("Unexpected canvas background: %+v", cfg.Canvas.Background)
	}

	if cfg.History.Limit != 50 {
		t.Errorf("Expected history limit 50, got %d", cfg.History.Limit)
	}

	if cfg.Style.Tool != "circle" {
		t.Errorf("Expected tool 'circle', got '%s'", cfg.Style.Tool)
	}
	if cfg.Style.Color.R != 0xCC || cfg.Style.Color.G != 0x1E || cfg.Style.Color.B != 0x5A {
		t.Errorf("Unexpected style color: %+v", cfg.Style.Color)
	}
	if cfg.Style.Width != 4 {
		t.Errorf("Expected stroke width 4, got %d", cfg.Style.Width)
	}

	if !cfg.Notify.Save {
		t.Error("Expected notify.save to be true")
	}
	if cfg.Notify.Copy {
		t.Error("Expected notify.copy to be false")
	}

	custom, ok := cfg.Themes["my_custom_theme"]
	if !ok {
		t.Fatal("Expected theme 'my_custom_theme' to be loaded")
	}
	if custom.Background.R != 0x11 || custom.Background.G != 0x11 || custom.Background.B != 0x11 {
		t.Errorf("Unexpected theme Background color: %+v", custom.Background)
	}
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if cfg.Canvas.Width != 800 || cfg.Canvas.Height != 600 {
		t.Errorf("Unexpected default canvas size: %dx%d", cfg.Canvas.Width, cfg.Canvas.Height)
	}
	if cfg.History.Limit != 0 {
		t.Errorf("Expected unbounded history by default, got limit %d", cfg.History.Limit)
	}
	if cfg.Style.Tool != "pencil" {
		t.Errorf("Expected default tool 'pencil', got '%s'", cfg.Style.Tool)
	}
}

func TestParseRejectsBadValues(t *testing.T) {
	for _, input := range []string{
		"[canvas]\nwidth = zero\n",
		"[canvas]\nwidth = -3\n",
		"[canvas]\nbackground = white\n",
		"[history]\nlimit = -1\n",
		"[style]\nwidth = 0\n",
		"[notify]\nsave = sometimes\n",
	} {
		if _, err := Parse(strings.NewReader(input)); err == nil {
			t.Errorf("Expected error for input %q", input)
		}
	}
}

func TestCircular(t *testing.T) {
	input := `theme = dark
save_dir = /home/user/drawings

[canvas]
width = 640
height = 480
background = #FFFFF0

[history]
limit = 25

[style]
tool = square
color = #004080
width = 3

[notify]
save = true
copy = true

[theme.custom]
Name = custom
Background = #000000
Foreground = #FFFFFF
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Initial parse failed: %v", err)
	}

	generated := cfg.String()

	cfg2, err := Parse(strings.NewReader(generated))
	if err != nil {
		t.Fatalf("Circular parse failed: %v", err)
	}

	if cfg.Theme != cfg2.Theme {
		t.Errorf("Theme mismatch: %q vs %q", cfg.Theme, cfg2.Theme)
	}
	if cfg.SaveDir != cfg2.SaveDir {
		t.Errorf("SaveDir mismatch: %q vs %q", cfg.SaveDir, cfg2.SaveDir)
	}
	if cfg.Canvas != cfg2.Canvas {
		t.Errorf("Canvas mismatch: %+v vs %+v", cfg.Canvas, cfg2.Canvas)
	}
	if cfg.History != cfg2.History {
		t.Errorf("History mismatch: %+v vs %+v", cfg.History, cfg2.History)
	}
	if cfg.Style != cfg2.Style {
		t.Errorf("Style mismatch: %+v vs %+v", cfg.Style, cfg2.Style)
	}
	if cfg.Notify != cfg2.Notify {
		t.Errorf("Notify mismatch: %+v vs %+v", cfg.Notify, cfg2.Notify)
	}

	t1 := cfg.Themes["custom"]
	t2 := cfg2.Themes["custom"]
	if t1 == nil || t2 == nil {
		t.Fatalf("Custom theme missing in one config")
	}
	if t1.Background != t2.Background {
		t.Errorf("Theme background mismatch: %v vs %v", t1.Background, t2.Background)
	}
}
