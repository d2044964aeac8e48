package config

import (
	"fmt"
	"strings"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// BuildEffectiveConfig applies a merged raw config on top of the defaults.
func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	if d := raw.Display; d != nil {
		if d.Width != nil {
			cfg.Display.Width = *d.Width
		}
		if d.Height != nil {
			cfg.Display.Height = *d.Height
		}
		if d.Background != nil {
			cfg.Display.Background = *d.Background
		}
		if d.FPS != nil {
			cfg.Display.FPS = *d.FPS
		}
		if d.Title != nil {
			cfg.Display.Title = *d.Title
		}
	}
	if raw.Backend != nil {
		cfg.Backend = Backend(strings.ToLower(strings.TrimSpace(string(*raw.Backend))))
	}

	if d := raw.Decorations; d != nil {
		if d.TitlebarHeight != nil {
			cfg.Decorations.TitlebarHeight = *d.TitlebarHeight
		}
		if d.GripSize != nil {
			cfg.Decorations.GripSize = *d.GripSize
		}
		if d.MinWidth != nil {
			cfg.Decorations.MinWidth = *d.MinWidth
		}
		if d.MinHeight != nil {
			cfg.Decorations.MinHeight = *d.MinHeight
		}
		if c := d.Colors; c != nil {
			colors := &cfg.Decorations.Colors
			if c.Titlebar != nil {
				colors.Titlebar = *c.Titlebar
			}
			if c.TitlebarFocused != nil {
				colors.TitlebarFocused = *c.TitlebarFocused
			}
			if c.TitleText != nil {
				colors.TitleText = *c.TitleText
			}
			if c.CloseBox != nil {
				colors.CloseBox = *c.CloseBox
			}
			if c.Grip != nil {
				colors.Grip = *c.Grip
			}
		}
	}

	if raw.Placement != nil {
		cfg.Placement = mergePlacementPatch(cfg.Placement, *raw.Placement)
	}

	if raw.Panels != nil {
		cfg.Panels = make([]Panel, 0, len(raw.Panels))
		for _, rp := range raw.Panels {
			cfg.Panels = append(cfg.Panels, buildPanel(rp))
		}
	}

	if raw.MCP != nil && raw.MCP.Enabled != nil {
		cfg.MCP.Enabled = *raw.MCP.Enabled
	}
	if raw.ScreenshotDir != nil {
		cfg.ScreenshotDir = *raw.ScreenshotDir
	}

	if raw.Logging != nil {
		if raw.Logging.Level != nil {
			cfg.Logging.Level = strings.ToLower(strings.TrimSpace(*raw.Logging.Level))
		}
		if el := raw.Logging.EventLog; el != nil {
			if el.Enabled != nil {
				cfg.Logging.EventLog.Enabled = *el.Enabled
			}
			if el.File != nil {
				cfg.Logging.EventLog.File = *el.File
			}
			if el.MaxSizeMB != nil {
				cfg.Logging.EventLog.MaxSizeMB = *el.MaxSizeMB
			}
			if el.MaxFiles != nil {
				cfg.Logging.EventLog.MaxFiles = *el.MaxFiles
			}
		}
	}
	if raw.Watch != nil {
		cfg.Watch = *raw.Watch
	}

	if err := validatePlacement(&cfg.Placement); err != nil {
		return nil, &ValidationError{Path: "placement", Err: err}
	}

	return cfg, nil
}

// buildPanel fills unset panel fields with defaults.
func buildPanel(rp RawPanel) Panel {
	p := Panel{
		Pattern: "solid",
		Scale:   1,
		Style:   "titled",
		X:       rp.X,
		Y:       rp.Y,
		Wrap:    rp.Wrap,
	}
	if rp.Name != nil {
		p.Name = strings.TrimSpace(*rp.Name)
	}
	p.Title = p.Name
	if rp.Title != nil {
		p.Title = *rp.Title
	}
	if rp.Pattern != nil {
		p.Pattern = strings.ToLower(strings.TrimSpace(*rp.Pattern))
	}
	if rp.Color != nil {
		p.Color = *rp.Color
	}
	if rp.Accent != nil {
		p.Accent = *rp.Accent
	}
	p.Width = derefInt(rp.Width, 0)
	p.Height = derefInt(rp.Height, 0)
	if rp.Scale != nil {
		p.Scale = *rp.Scale
	}
	if rp.Style != nil {
		p.Style = strings.ToLower(strings.TrimSpace(*rp.Style))
	}
	return p
}

func mergePlacementPatch(base Placement, patch RawPlacement) Placement {
	out := base

	if patch.Mode != nil {
		out.Mode = *patch.Mode
	}
	if patch.Region != nil {
		if patch.Region.Type != nil {
			out.Region.Type = *patch.Region.Type
		}
		if patch.Region.XPercent != nil {
			out.Region.XPercent = *patch.Region.XPercent
		}
		if patch.Region.YPercent != nil {
			out.Region.YPercent = *patch.Region.YPercent
		}
		if patch.Region.WidthPercent != nil {
			out.Region.WidthPercent = *patch.Region.WidthPercent
		}
		if patch.Region.HeightPercent != nil {
			out.Region.HeightPercent = *patch.Region.HeightPercent
		}

		if out.Region.Type == RegionCustom {
			// Only default fields that the user didn't set.
			if patch.Region.WidthPercent == nil && out.Region.WidthPercent == 0 {
				out.Region.WidthPercent = 100
			}
			if patch.Region.HeightPercent == nil && out.Region.HeightPercent == 0 {
				out.Region.HeightPercent = 100
			}
		}
	}
	if patch.FixedGrid != nil {
		if patch.FixedGrid.Rows != nil {
			out.FixedGrid.Rows = *patch.FixedGrid.Rows
		}
		if patch.FixedGrid.Cols != nil {
			out.FixedGrid.Cols = *patch.FixedGrid.Cols
		}
	}
	if patch.Gap != nil {
		out.Gap = *patch.Gap
	}

	return out
}

func derefInt(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}
