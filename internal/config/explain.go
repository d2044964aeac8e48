package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Explain returns the effective value at the given YAML-like path and its source.
//
// Supported paths include:
//
//	display.width
//	display.background
//	backend
//	decorations.titlebar_height
//	decorations.colors.titlebar_focused
//	placement.mode
//	placement.region.type
//	placement.fixed_grid.rows
//	panels
//	panels[0].pattern
//	mcp.enabled
//	screenshot_dir
//	logging.level
//	logging.event_log.file
//	watch
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}

	// Exact-path file source wins.
	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}

	if strings.HasPrefix(path, "panels") {
		if _, fromFile := res.Sources["panels"]; !fromFile {
			return value, Source{Kind: SourceBuiltin, Name: "panels"}, nil
		}
	}

	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

func lookupValue(cfg *Config, path string) (any, error) {
	parts := strings.Split(path, ".")
	unknown := fmt.Errorf("unknown path: %s", path)

	switch {
	case parts[0] == "display":
		if len(parts) == 1 {
			return cfg.Display, nil
		}
		if len(parts) != 2 {
			return nil, unknown
		}
		switch parts[1] {
		case "width":
			return cfg.Display.Width, nil
		case "height":
			return cfg.Display.Height, nil
		case "background":
			return cfg.Display.Background, nil
		case "fps":
			return cfg.Display.FPS, nil
		case "title":
			return cfg.Display.Title, nil
		}
		return nil, unknown

	case parts[0] == "backend":
		if len(parts) != 1 {
			return nil, unknown
		}
		return cfg.Backend, nil

	case parts[0] == "decorations":
		d := cfg.Decorations
		if len(parts) == 1 {
			return d, nil
		}
		switch parts[1] {
		case "titlebar_height":
			return d.TitlebarHeight, nil
		case "grip_size":
			return d.GripSize, nil
		case "min_width":
			return d.MinWidth, nil
		case "min_height":
			return d.MinHeight, nil
		case "colors":
			if len(parts) == 2 {
				return d.Colors, nil
			}
			if len(parts) != 3 {
				return nil, unknown
			}
			switch parts[2] {
			case "titlebar":
				return d.Colors.Titlebar, nil
			case "titlebar_focused":
				return d.Colors.TitlebarFocused, nil
			case "title_text":
				return d.Colors.TitleText, nil
			case "close_box":
				return d.Colors.CloseBox, nil
			case "grip":
				return d.Colors.Grip, nil
			}
		}
		return nil, unknown

	case parts[0] == "placement":
		p := cfg.Placement
		if len(parts) == 1 {
			return p, nil
		}
		switch parts[1] {
		case "mode":
			return p.Mode, nil
		case "gap":
			return p.Gap, nil
		case "fixed_grid":
			if len(parts) == 2 {
				return p.FixedGrid, nil
			}
			switch parts[2] {
			case "rows":
				return p.FixedGrid.Rows, nil
			case "cols":
				return p.FixedGrid.Cols, nil
			}
		case "region":
			if len(parts) == 2 {
				return p.Region, nil
			}
			switch parts[2] {
			case "type":
				return p.Region.Type, nil
			case "x_percent":
				return p.Region.XPercent, nil
			case "y_percent":
				return p.Region.YPercent, nil
			case "width_percent":
				return p.Region.WidthPercent, nil
			case "height_percent":
				return p.Region.HeightPercent, nil
			}
		}
		return nil, unknown

	case strings.HasPrefix(parts[0], "panels"):
		return lookupPanel(cfg, parts, unknown)

	case parts[0] == "mcp":
		if len(parts) == 1 {
			return cfg.MCP, nil
		}
		if len(parts) == 2 && parts[1] == "enabled" {
			return cfg.MCP.Enabled, nil
		}
		return nil, unknown

	case parts[0] == "screenshot_dir":
		return cfg.ScreenshotDir, nil

	case parts[0] == "logging":
		if len(parts) == 1 {
			return cfg.Logging, nil
		}
		switch parts[1] {
		case "level":
			return cfg.Logging.Level, nil
		case "event_log":
			el := cfg.GetEventLogConfig()
			if len(parts) == 2 {
				return el, nil
			}
			switch parts[2] {
			case "enabled":
				return el.Enabled, nil
			case "file":
				return el.File, nil
			case "max_size_mb":
				return el.MaxSizeMB, nil
			case "max_files":
				return el.MaxFiles, nil
			}
		}
		return nil, unknown

	case parts[0] == "watch":
		return cfg.Watch, nil
	}
	return nil, unknown
}

func lookupPanel(cfg *Config, parts []string, unknown error) (any, error) {
	if parts[0] == "panels" {
		if len(parts) != 1 {
			return nil, unknown
		}
		return cfg.Panels, nil
	}
	idxStr, ok := strings.CutPrefix(parts[0], "panels[")
	if !ok || !strings.HasSuffix(idxStr, "]") {
		return nil, unknown
	}
	idx, err := strconv.Atoi(strings.TrimSuffix(idxStr, "]"))
	if err != nil || idx < 0 || idx >= len(cfg.Panels) {
		return nil, fmt.Errorf("unknown panel index %q", idxStr)
	}
	p := cfg.Panels[idx]
	if len(parts) == 1 {
		return p, nil
	}
	if len(parts) != 2 {
		return nil, unknown
	}
	switch parts[1] {
	case "name":
		return p.Name, nil
	case "title":
		return p.Title, nil
	case "pattern":
		return p.Pattern, nil
	case "color":
		return p.Color, nil
	case "accent":
		return p.Accent, nil
	case "x":
		return p.X, nil
	case "y":
		return p.Y, nil
	case "width":
		return p.Width, nil
	case "height":
		return p.Height, nil
	case "scale":
		return p.Scale, nil
	case "style":
		return p.Style, nil
	case "wrap":
		return p.Wrap, nil
	}
	return nil, unknown
}
