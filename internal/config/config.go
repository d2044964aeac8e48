package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Backend selects where composed frames are presented.
type Backend string

const (
	BackendEbiten   Backend = "ebiten"   // Desktop window driven by ebiten.
	BackendX11      Backend = "x11"      // Plain X11 window fed with PutImage.
	BackendHeadless Backend = "headless" // No output; frames kept in memory.
)

// DisplayConfig describes the output surface.
type DisplayConfig struct {
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Background Color  `yaml:"background"`
	FPS        int    `yaml:"fps"`
	Title      string `yaml:"title"`
}

// DecorationColors are the frame colors painted by the window manager.
type DecorationColors struct {
	Titlebar        Color `yaml:"titlebar"`
	TitlebarFocused Color `yaml:"titlebar_focused"`
	TitleText       Color `yaml:"title_text"`
	CloseBox        Color `yaml:"close_box"`
	Grip            Color `yaml:"grip"`
}

// Decorations configures frame geometry and colors.
type Decorations struct {
	TitlebarHeight int              `yaml:"titlebar_height"`
	GripSize       int              `yaml:"grip_size"`
	MinWidth       int              `yaml:"min_width"`
	MinHeight      int              `yaml:"min_height"`
	Colors         DecorationColors `yaml:"colors"`
}

// LayoutMode defines how auto-placed panels are arranged.
type LayoutMode string

const (
	LayoutModeAuto       LayoutMode = "auto"       // Dynamic grid based on count.
	LayoutModeFixed      LayoutMode = "fixed"      // Specific rows × cols.
	LayoutModeVertical   LayoutMode = "vertical"   // Single column stack.
	LayoutModeHorizontal LayoutMode = "horizontal" // Single row side-by-side.
)

// RegionType defines tile region presets.
type RegionType string

const (
	RegionFull       RegionType = "full"
	RegionLeftHalf   RegionType = "left-half"
	RegionRightHalf  RegionType = "right-half"
	RegionTopHalf    RegionType = "top-half"
	RegionBottomHalf RegionType = "bottom-half"
	RegionCustom     RegionType = "custom"
)

// TileRegion defines the part of the display used for placement.
type TileRegion struct {
	Type          RegionType `yaml:"type"`
	XPercent      int        `yaml:"x_percent"`      // 0-100
	YPercent      int        `yaml:"y_percent"`      // 0-100
	WidthPercent  int        `yaml:"width_percent"`  // 0-100
	HeightPercent int        `yaml:"height_percent"` // 0-100
}

// FixedGrid defines specific grid dimensions.
type FixedGrid struct {
	Rows int `yaml:"rows"`
	Cols int `yaml:"cols"`
}

// Placement controls where panels without explicit coordinates go.
type Placement struct {
	Mode      LayoutMode `yaml:"mode"`
	FixedGrid FixedGrid  `yaml:"fixed_grid,omitempty"`
	Region    TileRegion `yaml:"region"`
	Gap       int        `yaml:"gap"`
}

// Panel describes a window created at startup with generated content.
type Panel struct {
	Name    string `yaml:"name"`
	Title   string `yaml:"title,omitempty"`
	Pattern string `yaml:"pattern"`
	Color   Color  `yaml:"color,omitempty"`
	Accent  Color  `yaml:"accent,omitempty"`
	X       *int   `yaml:"x,omitempty"` // nil = auto placement
	Y       *int   `yaml:"y,omitempty"`
	Width   int    `yaml:"width"`
	Height  int    `yaml:"height"`
	Scale   int    `yaml:"scale"`
	Style   string `yaml:"style"`
	Wrap    *bool  `yaml:"wrap,omitempty"` // nil = follow style
}

// Placed reports whether the panel carries explicit coordinates.
func (p Panel) Placed() bool {
	return p.X != nil && p.Y != nil
}

type MCPConfig struct {
	Enabled bool `yaml:"enabled"`
}

// EventLogConfig configures the window lifecycle log file.
type EventLogConfig struct {
	Enabled bool `yaml:"enabled,omitempty"`
	// File is the log file path (default: ~/.local/share/softx/events.log)
	File string `yaml:"file,omitempty"`
	// MaxSizeMB is the maximum log file size before rotation (default: 10)
	MaxSizeMB int `yaml:"max_size_mb,omitempty"`
	// MaxFiles is the number of rotated files to keep (default: 3)
	MaxFiles int `yaml:"max_files,omitempty"`
}

type LoggingConfig struct {
	// Level controls process log verbosity: debug, info, warn, error
	Level    string         `yaml:"level"`
	EventLog EventLogConfig `yaml:"event_log,omitempty"`
}

// Config holds the application configuration.
type Config struct {
	Display       DisplayConfig `yaml:"display"`
	Backend       Backend       `yaml:"backend"`
	Decorations   Decorations   `yaml:"decorations"`
	Placement     Placement     `yaml:"placement"`
	Panels        []Panel       `yaml:"panels"`
	MCP           MCPConfig     `yaml:"mcp"`
	ScreenshotDir string        `yaml:"screenshot_dir,omitempty"`
	Logging       LoggingConfig `yaml:"logging"`
	Watch         bool          `yaml:"watch"`
}

const (
	DefaultWidth          = 800
	DefaultHeight         = 600
	DefaultFPS            = 60
	DefaultTitlebarHeight = 16
	DefaultGripSize       = 8
	DefaultMinWidth       = 10
	DefaultMinHeight      = 6

	maxFPS = 240
)

func DefaultConfig() *Config {
	return &Config{
		Display: DisplayConfig{
			Width:      DefaultWidth,
			Height:     DefaultHeight,
			Background: 0xff1e272e,
			FPS:        DefaultFPS,
			Title:      "softx",
		},
		Backend: BackendEbiten,
		Decorations: Decorations{
			TitlebarHeight: DefaultTitlebarHeight,
			GripSize:       DefaultGripSize,
			MinWidth:       DefaultMinWidth,
			MinHeight:      DefaultMinHeight,
			Colors: DecorationColors{
				Titlebar:        0xff34495e,
				TitlebarFocused: 0xff3498db,
				TitleText:       0xffecf0f1,
				CloseBox:        0xffe74c3c,
				Grip:            0xff95a5a6,
			},
		},
		Placement: Placement{
			Mode:   LayoutModeAuto,
			Region: TileRegion{Type: RegionFull},
			Gap:    24,
		},
		Panels: BuiltinPanels(),
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// GetEventLogConfig returns the event log configuration with defaults applied.
func (c *Config) GetEventLogConfig() EventLogConfig {
	if c == nil {
		return EventLogConfig{}
	}
	cfg := c.Logging.EventLog
	if cfg.File == "" {
		home, err := os.UserHomeDir()
		if err != nil || home == "" {
			home = os.Getenv("HOME")
		}
		if home == "" {
			home = "."
		}
		cfg.File = filepath.Join(home, ".local/share/softx/events.log")
	}
	if cfg.MaxSizeMB == 0 {
		cfg.MaxSizeMB = 10
	}
	if cfg.MaxFiles == 0 {
		cfg.MaxFiles = 3
	}
	return cfg
}

// Marshal renders the effective configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	if c.Display.Width <= 0 || c.Display.Height <= 0 {
		return &ValidationError{Path: "display", Err: fmt.Errorf("width and height must be positive")}
	}
	if c.Display.FPS <= 0 || c.Display.FPS > maxFPS {
		return &ValidationError{Path: "display.fps", Err: fmt.Errorf("fps must be between 1 and %d", maxFPS)}
	}
	switch c.Backend {
	case BackendEbiten, BackendX11, BackendHeadless:
	default:
		return &ValidationError{Path: "backend", Err: fmt.Errorf("backend must be one of: ebiten, x11, headless")}
	}

	d := c.Decorations
	if d.TitlebarHeight < 8 {
		return &ValidationError{Path: "decorations.titlebar_height", Err: fmt.Errorf("titlebar_height must be >= 8")}
	}
	if d.GripSize < 1 {
		return &ValidationError{Path: "decorations.grip_size", Err: fmt.Errorf("grip_size must be >= 1")}
	}
	if d.MinWidth < DefaultMinWidth {
		return &ValidationError{Path: "decorations.min_width", Err: fmt.Errorf("min_width must be >= %d", DefaultMinWidth)}
	}
	if d.MinHeight < DefaultMinHeight {
		return &ValidationError{Path: "decorations.min_height", Err: fmt.Errorf("min_height must be >= %d", DefaultMinHeight)}
	}

	if err := validatePlacement(&c.Placement); err != nil {
		return &ValidationError{Path: "placement", Err: err}
	}

	names := make(map[string]struct{}, len(c.Panels))
	for i, p := range c.Panels {
		path := fmt.Sprintf("panels[%d]", i)
		if strings.TrimSpace(p.Name) == "" {
			return &ValidationError{Path: path + ".name", Err: fmt.Errorf("name is required")}
		}
		if _, dup := names[p.Name]; dup {
			return &ValidationError{Path: path + ".name", Err: fmt.Errorf("duplicate panel name %q", p.Name)}
		}
		names[p.Name] = struct{}{}
		if p.Width <= 0 || p.Height <= 0 {
			return &ValidationError{Path: path, Err: fmt.Errorf("width and height must be positive")}
		}
		if p.Scale < 1 {
			return &ValidationError{Path: path + ".scale", Err: fmt.Errorf("scale must be >= 1")}
		}
		if (p.X == nil) != (p.Y == nil) {
			return &ValidationError{Path: path, Err: fmt.Errorf("x and y must be set together")}
		}
		if !knownPattern(p.Pattern) {
			return &ValidationError{Path: path + ".pattern", Err: fmt.Errorf("pattern must be one of: %s", strings.Join(Patterns, ", "))}
		}
		switch p.Style {
		case "titled", "borderless", "popup":
		default:
			return &ValidationError{Path: path + ".style", Err: fmt.Errorf("style must be one of: titled, borderless, popup")}
		}
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return &ValidationError{Path: "logging.level", Err: fmt.Errorf("level must be one of: debug, info, warn, error")}
	}
	if c.Logging.EventLog.MaxSizeMB < 0 {
		return &ValidationError{Path: "logging.event_log.max_size_mb", Err: fmt.Errorf("max_size_mb must be >= 0")}
	}
	if c.Logging.EventLog.MaxFiles < 0 {
		return &ValidationError{Path: "logging.event_log.max_files", Err: fmt.Errorf("max_files must be >= 0")}
	}

	return nil
}

// validatePlacement checks if a placement configuration is valid.
func validatePlacement(p *Placement) error {
	switch p.Mode {
	case LayoutModeAuto, LayoutModeFixed, LayoutModeVertical, LayoutModeHorizontal:
	default:
		return fmt.Errorf("invalid mode %q", p.Mode)
	}

	if p.Mode == LayoutModeFixed {
		if p.FixedGrid.Rows <= 0 || p.FixedGrid.Cols <= 0 {
			return fmt.Errorf("fixed mode requires rows and cols to be positive")
		}
	}

	if p.Gap < 0 {
		return fmt.Errorf("gap must be >= 0")
	}

	switch p.Region.Type {
	case RegionFull, RegionLeftHalf, RegionRightHalf, RegionTopHalf, RegionBottomHalf:
		// ok
	case RegionCustom:
		if p.Region.XPercent < 0 || p.Region.XPercent > 100 {
			return fmt.Errorf("x_percent must be between 0 and 100")
		}
		if p.Region.YPercent < 0 || p.Region.YPercent > 100 {
			return fmt.Errorf("y_percent must be between 0 and 100")
		}
		if p.Region.WidthPercent <= 0 || p.Region.WidthPercent > 100 {
			return fmt.Errorf("width_percent must be between 1 and 100")
		}
		if p.Region.HeightPercent <= 0 || p.Region.HeightPercent > 100 {
			return fmt.Errorf("height_percent must be between 1 and 100")
		}
		if p.Region.XPercent+p.Region.WidthPercent > 100 {
			return fmt.Errorf("x_percent + width_percent must be <= 100")
		}
		if p.Region.YPercent+p.Region.HeightPercent > 100 {
			return fmt.Errorf("y_percent + height_percent must be <= 100")
		}
	default:
		return fmt.Errorf("invalid region type %q", p.Region.Type)
	}

	return nil
}
