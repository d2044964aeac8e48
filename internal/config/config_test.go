package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestDefaultConfig_ValidAndHasBuiltinPanels(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if len(cfg.Panels) == 0 {
		t.Fatalf("expected builtin panels in defaults")
	}
	if cfg.Backend != BackendEbiten {
		t.Fatalf("expected default backend %q, got %q", BackendEbiten, cfg.Backend)
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Display.Width != DefaultWidth || res.Config.Display.Height != DefaultHeight {
		t.Fatalf("expected default display size, got %dx%d", res.Config.Display.Width, res.Config.Display.Height)
	}
	if len(res.Files) != 0 {
		t.Fatalf("expected no loaded files, got %v", res.Files)
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "# empty\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Decorations.TitlebarHeight != DefaultTitlebarHeight {
		t.Fatalf("expected titlebar_height %d, got %d", DefaultTitlebarHeight, res.Config.Decorations.TitlebarHeight)
	}
}

func TestLoadFromPath_DisplayAndColors(t *testing.T) {
	data := `
display:
  width: 320
  height: 240
  background: "#102030"
decorations:
  colors:
    titlebar_focused: "#80ff0000"
`
	path := writeConfig(t, t.TempDir(), "config.yaml", strings.TrimSpace(data)+"\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := res.Config
	if cfg.Display.Width != 320 || cfg.Display.Height != 240 {
		t.Fatalf("expected 320x240, got %dx%d", cfg.Display.Width, cfg.Display.Height)
	}
	if cfg.Display.Background != 0xff102030 {
		t.Fatalf("expected opaque background, got %s", cfg.Display.Background)
	}
	if cfg.Decorations.Colors.TitlebarFocused != 0x80ff0000 {
		t.Fatalf("expected #80ff0000, got %s", cfg.Decorations.Colors.TitlebarFocused)
	}
	// Untouched colors keep their defaults.
	if cfg.Decorations.Colors.Grip != DefaultConfig().Decorations.Colors.Grip {
		t.Fatalf("expected default grip color, got %s", cfg.Decorations.Colors.Grip)
	}

	val, src, err := Explain(res, "display.width")
	if err != nil {
		t.Fatalf("explain display.width: %v", err)
	}
	if val != 320 {
		t.Fatalf("expected explain display.width 320, got %#v", val)
	}
	if src.Kind != SourceFile || src.Line != 2 {
		t.Fatalf("expected file source at line 2, got %#v", src)
	}

	_, src, err = Explain(res, "display.fps")
	if err != nil {
		t.Fatalf("explain display.fps: %v", err)
	}
	if src.Kind != SourceDefault {
		t.Fatalf("expected default source, got %#v", src)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{"#000000", 0xff000000, false},
		{"#ffffff", 0xffffffff, false},
		{"#80112233", 0x80112233, false},
		{"  #ABCDEF ", 0xffabcdef, false},
		{"123456", 0xff123456, false},
		{"#fff", 0, true},
		{"#gggggg", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseColor(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseColor(%q) = %#x, want %#x", tt.in, uint32(got), uint32(tt.want))
			}
		})
	}
}

func TestColor_String(t *testing.T) {
	if got := Color(0xff102030).String(); got != "#102030" {
		t.Errorf("String() = %q, want #102030", got)
	}
	if got := Color(0x80102030).String(); got != "#80102030" {
		t.Errorf("String() = %q, want #80102030", got)
	}
}

func TestLoadFromPath_InvalidColorHasContext(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "display:\n  background: blue\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error for invalid color")
	}
	if !strings.Contains(err.Error(), "blue") || !strings.Contains(err.Error(), path) {
		t.Fatalf("expected color error with file path, got %v", err)
	}
}

func TestLoadFromPath_StrictUnknownKeyErrors(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "unknown_key: 1\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "unknown_key") && !strings.Contains(err.Error(), "field") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Fatalf("expected error to include file path, got %v", err)
	}
}

func TestLoadFromPath_IncludeDirectoryOrderAndMainOverrides(t *testing.T) {
	dir := t.TempDir()

	// config.d loaded first, in sorted order.
	configD := filepath.Join(dir, "config.d")
	if err := os.MkdirAll(configD, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeConfig(t, configD, "10-base.yaml", "placement:\n  gap: 5\ndisplay:\n  fps: 30\n")
	writeConfig(t, configD, "20-override.yaml", "placement:\n  gap: 6\n")

	// Main file overrides includes.
	main := strings.Join([]string{
		"include:",
		"  - config.d",
		"placement:",
		"  gap: 7",
		"",
	}, "\n")
	path := writeConfig(t, dir, "config.yaml", main)

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Placement.Gap != 7 {
		t.Fatalf("expected gap to be 7, got %d", res.Config.Placement.Gap)
	}
	if res.Config.Display.FPS != 30 {
		t.Fatalf("expected fps from include to survive, got %d", res.Config.Display.FPS)
	}
	if len(res.Files) != 3 {
		t.Fatalf("expected 3 loaded files, got %v", res.Files)
	}
}

func TestLoadFromPath_IncludeMissingPathHasContext(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "include:\n  - missing.yaml\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "include") || !strings.Contains(err.Error(), "missing.yaml") {
		t.Fatalf("expected include error, got %v", err)
	}
	if !strings.Contains(err.Error(), path+":") {
		t.Fatalf("expected error to include file:line:col prefix, got %v", err)
	}
}

func TestLoadFromPath_IncludeCycleDetection(t *testing.T) {
	dir := t.TempDir()
	a := writeConfig(t, dir, "a.yaml", "include: b.yaml\n")
	writeConfig(t, dir, "b.yaml", "include: a.yaml\n")

	_, err := LoadFromPath(a)
	if err == nil {
		t.Fatalf("expected cycle error")
	}
	if !strings.Contains(err.Error(), "include cycle") {
		t.Fatalf("expected cycle error, got %v", err)
	}
}

func TestLoadFromPath_PanelsReplaceBuiltinsWithDefaults(t *testing.T) {
	data := `
panels:
  - name: clock
    width: 40
    height: 20
  - name: hud
    pattern: bars
    x: 10
    y: 30
    width: 64
    height: 32
    scale: 2
    style: borderless
    color: "#000000"
`
	path := writeConfig(t, t.TempDir(), "config.yaml", strings.TrimSpace(data)+"\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	panels := res.Config.Panels
	if len(panels) != 2 {
		t.Fatalf("expected 2 panels, got %d", len(panels))
	}

	clock := panels[0]
	if clock.Pattern != "solid" || clock.Scale != 1 || clock.Style != "titled" || clock.Title != "clock" {
		t.Fatalf("expected defaults on clock, got %+v", clock)
	}
	if clock.Placed() {
		t.Fatalf("clock has no coordinates and should be auto placed")
	}

	hud := panels[1]
	if !hud.Placed() || *hud.X != 10 || *hud.Y != 30 {
		t.Fatalf("expected hud at (10,30), got %+v", hud)
	}
	if hud.Scale != 2 || hud.Style != "borderless" || hud.Color != 0xff000000 {
		t.Fatalf("unexpected hud panel: %+v", hud)
	}

	val, src, err := Explain(res, "panels[1].scale")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if val != 2 || src.Kind != SourceFile {
		t.Fatalf("expected scale 2 from file, got %#v %#v", val, src)
	}
}

func TestExplain_BuiltinPanels(t *testing.T) {
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	_, src, err := Explain(res, "panels[0].pattern")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if src.Kind != SourceBuiltin {
		t.Fatalf("expected builtin source, got %#v", src)
	}
	if _, _, err := Explain(res, "panels[99].pattern"); err == nil {
		t.Fatalf("expected error for out of range panel index")
	}
	if _, _, err := Explain(res, "nope"); err == nil {
		t.Fatalf("expected error for unknown path")
	}
}

func TestLoadFromPath_PanelValidationHasSourceContext(t *testing.T) {
	data := `
panels:
  - name: a
    width: 10
    height: 10
  - name: b
    width: 10
    height: 10
    pattern: plasma
`
	path := writeConfig(t, t.TempDir(), "config.yaml", strings.TrimSpace(data)+"\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}
	if verr.Path != "panels[1].pattern" {
		t.Fatalf("expected path panels[1].pattern, got %q", verr.Path)
	}
	if verr.Source.Kind != SourceFile || verr.Source.Line != 8 {
		t.Fatalf("expected source at line 8, got %#v", verr.Source)
	}
	if !strings.Contains(err.Error(), path+":8:") {
		t.Fatalf("expected file:line prefix, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		path   string
	}{
		{"zero width", func(c *Config) { c.Display.Width = 0 }, "display"},
		{"fps too high", func(c *Config) { c.Display.FPS = 1000 }, "display.fps"},
		{"unknown backend", func(c *Config) { c.Backend = "wayland" }, "backend"},
		{"titlebar too small", func(c *Config) { c.Decorations.TitlebarHeight = 4 }, "decorations.titlebar_height"},
		{"grip zero", func(c *Config) { c.Decorations.GripSize = 0 }, "decorations.grip_size"},
		{"fixed without grid", func(c *Config) { c.Placement.Mode = LayoutModeFixed }, "placement"},
		{"bad region", func(c *Config) { c.Placement.Region.Type = "diagonal" }, "placement"},
		{"negative gap", func(c *Config) { c.Placement.Gap = -1 }, "placement"},
		{"duplicate panel", func(c *Config) { c.Panels = append(c.Panels, c.Panels[0]) }, "panels[4].name"},
		{"panel scale", func(c *Config) { c.Panels[0].Scale = 0 }, "panels[0].scale"},
		{"panel half placed", func(c *Config) { x := 1; c.Panels[0].X = &x }, "panels[0]"},
		{"panel style", func(c *Config) { c.Panels[1].Style = "fancy" }, "panels[1].style"},
		{"log level", func(c *Config) { c.Logging.Level = "trace" }, "logging.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() = %v, want ValidationError", err)
			}
			if verr.Path != tt.path {
				t.Errorf("Validate() path = %q, want %q", verr.Path, tt.path)
			}
		})
	}
}

func TestValidate_CustomRegion(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Placement.Region = TileRegion{Type: RegionCustom, XPercent: 50, YPercent: 0, WidthPercent: 60, HeightPercent: 100}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected x_percent + width_percent overflow to fail")
	}
	cfg.Placement.Region.WidthPercent = 50
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid custom region, got %v", err)
	}
}

func TestGetEventLogConfig_Defaults(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	cfg := DefaultConfig()
	el := cfg.GetEventLogConfig()
	if el.MaxSizeMB != 10 || el.MaxFiles != 3 {
		t.Fatalf("unexpected defaults: %+v", el)
	}
	if !strings.HasSuffix(el.File, filepath.Join("softx", "events.log")) {
		t.Fatalf("unexpected default file %q", el.File)
	}

	cfg.Logging.EventLog.File = "/tmp/x.log"
	if got := cfg.GetEventLogConfig().File; got != "/tmp/x.log" {
		t.Fatalf("explicit file overridden: %q", got)
	}
}

func TestMarshal_RoundTripsThroughLoader(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Display.Background = 0x80010203
	data, err := cfg.Marshal()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), "#80010203") {
		t.Fatalf("expected hex color in output:\n%s", data)
	}

	path := writeConfig(t, t.TempDir(), "config.yaml", string(data))
	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load marshaled config: %v", err)
	}
	if res.Config.Display.Background != cfg.Display.Background {
		t.Fatalf("background = %s, want %s", res.Config.Display.Background, cfg.Display.Background)
	}
	if len(res.Config.Panels) != len(cfg.Panels) {
		t.Fatalf("panels = %d, want %d", len(res.Config.Panels), len(cfg.Panels))
	}
}
