package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		// Not present.
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawDisplay struct {
	Width      *int    `yaml:"width"`
	Height     *int    `yaml:"height"`
	Background *Color  `yaml:"background"`
	FPS        *int    `yaml:"fps"`
	Title      *string `yaml:"title"`
}

type RawDecorationColors struct {
	Titlebar        *Color `yaml:"titlebar"`
	TitlebarFocused *Color `yaml:"titlebar_focused"`
	TitleText       *Color `yaml:"title_text"`
	CloseBox        *Color `yaml:"close_box"`
	Grip            *Color `yaml:"grip"`
}

type RawDecorations struct {
	TitlebarHeight *int                 `yaml:"titlebar_height"`
	GripSize       *int                 `yaml:"grip_size"`
	MinWidth       *int                 `yaml:"min_width"`
	MinHeight      *int                 `yaml:"min_height"`
	Colors         *RawDecorationColors `yaml:"colors"`
}

type RawFixedGrid struct {
	Rows *int `yaml:"rows"`
	Cols *int `yaml:"cols"`
}

type RawTileRegion struct {
	Type          *RegionType `yaml:"type"`
	XPercent      *int        `yaml:"x_percent"`
	YPercent      *int        `yaml:"y_percent"`
	WidthPercent  *int        `yaml:"width_percent"`
	HeightPercent *int        `yaml:"height_percent"`
}

type RawPlacement struct {
	Mode      *LayoutMode    `yaml:"mode"`
	FixedGrid *RawFixedGrid  `yaml:"fixed_grid"`
	Region    *RawTileRegion `yaml:"region"`
	Gap       *int           `yaml:"gap"`
}

type RawPanel struct {
	Name    *string `yaml:"name"`
	Title   *string `yaml:"title"`
	Pattern *string `yaml:"pattern"`
	Color   *Color  `yaml:"color"`
	Accent  *Color  `yaml:"accent"`
	X       *int    `yaml:"x"`
	Y       *int    `yaml:"y"`
	Width   *int    `yaml:"width"`
	Height  *int    `yaml:"height"`
	Scale   *int    `yaml:"scale"`
	Style   *string `yaml:"style"`
	Wrap    *bool   `yaml:"wrap"`
}

type RawMCP struct {
	Enabled *bool `yaml:"enabled"`
}

type RawEventLog struct {
	Enabled   *bool   `yaml:"enabled"`
	File      *string `yaml:"file"`
	MaxSizeMB *int    `yaml:"max_size_mb"`
	MaxFiles  *int    `yaml:"max_files"`
}

type RawLoggingConfig struct {
	Level    *string      `yaml:"level"`
	EventLog *RawEventLog `yaml:"event_log"`
}

type RawConfig struct {
	Include       IncludeList       `yaml:"include"`
	Display       *RawDisplay       `yaml:"display"`
	Backend       *Backend          `yaml:"backend"`
	Decorations   *RawDecorations   `yaml:"decorations"`
	Placement     *RawPlacement     `yaml:"placement"`
	Panels        []RawPanel        `yaml:"panels"`
	MCP           *RawMCP           `yaml:"mcp"`
	ScreenshotDir *string           `yaml:"screenshot_dir"`
	Logging       *RawLoggingConfig `yaml:"logging"`
	Watch         *bool             `yaml:"watch"`
}

// merge applies overlay on top of c. Scalars and nested structs merge field by
// field; the panels list is replaced as a whole.
func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c

	if overlay.Display != nil {
		base := RawDisplay{}
		if out.Display != nil {
			base = *out.Display
		}
		merged := mergeRawDisplay(base, *overlay.Display)
		out.Display = &merged
	}
	if overlay.Backend != nil {
		out.Backend = overlay.Backend
	}
	if overlay.Decorations != nil {
		base := RawDecorations{}
		if out.Decorations != nil {
			base = *out.Decorations
		}
		merged := mergeRawDecorations(base, *overlay.Decorations)
		out.Decorations = &merged
	}
	if overlay.Placement != nil {
		base := RawPlacement{}
		if out.Placement != nil {
			base = *out.Placement
		}
		merged := mergeRawPlacement(base, *overlay.Placement)
		out.Placement = &merged
	}
	if overlay.Panels != nil {
		out.Panels = append([]RawPanel(nil), overlay.Panels...)
	}
	if overlay.MCP != nil {
		if out.MCP == nil {
			out.MCP = &RawMCP{}
		}
		if overlay.MCP.Enabled != nil {
			out.MCP.Enabled = overlay.MCP.Enabled
		}
	}
	if overlay.ScreenshotDir != nil {
		out.ScreenshotDir = overlay.ScreenshotDir
	}
	if overlay.Logging != nil {
		if out.Logging == nil {
			out.Logging = &RawLoggingConfig{}
		}
		if overlay.Logging.Level != nil {
			out.Logging.Level = overlay.Logging.Level
		}
		if overlay.Logging.EventLog != nil {
			base := RawEventLog{}
			if out.Logging.EventLog != nil {
				base = *out.Logging.EventLog
			}
			merged := mergeRawEventLog(base, *overlay.Logging.EventLog)
			out.Logging.EventLog = &merged
		}
	}
	if overlay.Watch != nil {
		out.Watch = overlay.Watch
	}

	return out
}

func mergeRawDisplay(base RawDisplay, overlay RawDisplay) RawDisplay {
	out := base
	if overlay.Width != nil {
		out.Width = overlay.Width
	}
	if overlay.Height != nil {
		out.Height = overlay.Height
	}
	if overlay.Background != nil {
		out.Background = overlay.Background
	}
	if overlay.FPS != nil {
		out.FPS = overlay.FPS
	}
	if overlay.Title != nil {
		out.Title = overlay.Title
	}
	return out
}

func mergeRawDecorations(base RawDecorations, overlay RawDecorations) RawDecorations {
	out := base
	if overlay.TitlebarHeight != nil {
		out.TitlebarHeight = overlay.TitlebarHeight
	}
	if overlay.GripSize != nil {
		out.GripSize = overlay.GripSize
	}
	if overlay.MinWidth != nil {
		out.MinWidth = overlay.MinWidth
	}
	if overlay.MinHeight != nil {
		out.MinHeight = overlay.MinHeight
	}
	if overlay.Colors != nil {
		colors := RawDecorationColors{}
		if out.Colors != nil {
			colors = *out.Colors
		}
		if overlay.Colors.Titlebar != nil {
			colors.Titlebar = overlay.Colors.Titlebar
		}
		if overlay.Colors.TitlebarFocused != nil {
			colors.TitlebarFocused = overlay.Colors.TitlebarFocused
		}
		if overlay.Colors.TitleText != nil {
			colors.TitleText = overlay.Colors.TitleText
		}
		if overlay.Colors.CloseBox != nil {
			colors.CloseBox = overlay.Colors.CloseBox
		}
		if overlay.Colors.Grip != nil {
			colors.Grip = overlay.Colors.Grip
		}
		out.Colors = &colors
	}
	return out
}

func mergeRawTileRegion(base RawTileRegion, overlay RawTileRegion) RawTileRegion {
	out := base
	if overlay.Type != nil {
		out.Type = overlay.Type
	}
	if overlay.XPercent != nil {
		out.XPercent = overlay.XPercent
	}
	if overlay.YPercent != nil {
		out.YPercent = overlay.YPercent
	}
	if overlay.WidthPercent != nil {
		out.WidthPercent = overlay.WidthPercent
	}
	if overlay.HeightPercent != nil {
		out.HeightPercent = overlay.HeightPercent
	}
	return out
}

func mergeRawFixedGrid(base RawFixedGrid, overlay RawFixedGrid) RawFixedGrid {
	out := base
	if overlay.Rows != nil {
		out.Rows = overlay.Rows
	}
	if overlay.Cols != nil {
		out.Cols = overlay.Cols
	}
	return out
}

func mergeRawPlacement(base RawPlacement, overlay RawPlacement) RawPlacement {
	out := base
	if overlay.Mode != nil {
		out.Mode = overlay.Mode
	}
	if overlay.FixedGrid != nil {
		if out.FixedGrid == nil {
			out.FixedGrid = &RawFixedGrid{}
		}
		merged := mergeRawFixedGrid(*out.FixedGrid, *overlay.FixedGrid)
		out.FixedGrid = &merged
	}
	if overlay.Region != nil {
		if out.Region == nil {
			out.Region = &RawTileRegion{}
		}
		merged := mergeRawTileRegion(*out.Region, *overlay.Region)
		out.Region = &merged
	}
	if overlay.Gap != nil {
		out.Gap = overlay.Gap
	}
	return out
}

func mergeRawEventLog(base RawEventLog, overlay RawEventLog) RawEventLog {
	out := base
	if overlay.Enabled != nil {
		out.Enabled = overlay.Enabled
	}
	if overlay.File != nil {
		out.File = overlay.File
	}
	if overlay.MaxSizeMB != nil {
		out.MaxSizeMB = overlay.MaxSizeMB
	}
	if overlay.MaxFiles != nil {
		out.MaxFiles = overlay.MaxFiles
	}
	return out
}
