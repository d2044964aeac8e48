package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/softx/internal/config"
	"github.com/1broseidon/softx/internal/display"
	"github.com/1broseidon/softx/internal/host"
	"github.com/1broseidon/softx/internal/runtimepath"
)

func (s *Server) handleListWindows(ctx context.Context, _ *mcpsdk.CallToolRequest, args ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	var out ListWindowsOutput
	err := s.exec.Exec(ctx, func(h *host.Host) error {
		out.Width, out.Height = h.Size()
		if f := h.Server().Focused(); f != nil {
			out.Focused = f.ID()
		}
		out.Windows = make([]host.WindowInfo, 0)
		for _, info := range h.Windows() {
			if info.Frame && !args.IncludeFrames {
				continue
			}
			// Wrapped clients are unmapped; their frame is what is shown.
			if args.MappedOnly && !info.Mapped && info.FrameID == 0 {
				continue
			}
			out.Windows = append(out.Windows, info)
		}
		return nil
	})
	if err != nil {
		return nil, ListWindowsOutput{}, err
	}
	s.log.Debug("list_windows", "count", len(out.Windows))
	return nil, out, nil
}

func (s *Server) handleCreatePanel(ctx context.Context, _ *mcpsdk.CallToolRequest, args CreatePanelInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	p, err := panelFromInput(args)
	if err != nil {
		return nil, WindowOutput{}, err
	}

	var out WindowOutput
	err = s.exec.Exec(ctx, func(h *host.Host) error {
		x, y := h.CenteredOrigin(p)
		if p.Placed() {
			x, y = *p.X, *p.Y
		}
		w, err := h.CreatePanel(p, x, y)
		if err != nil {
			return err
		}
		h.Server().FocusWindow(w)
		out.Window = h.Info(w)
		return nil
	})
	if err != nil {
		return nil, WindowOutput{}, err
	}
	s.log.Info("panel created", "id", out.Window.ID, "name", p.Name, "pattern", p.Pattern)
	return nil, out, nil
}

func panelFromInput(args CreatePanelInput) (config.Panel, error) {
	if args.Name == "" {
		return config.Panel{}, fmt.Errorf("name is required")
	}
	if args.Width <= 0 || args.Height <= 0 {
		return config.Panel{}, fmt.Errorf("width and height must be positive, got %dx%d", args.Width, args.Height)
	}
	if (args.X == nil) != (args.Y == nil) {
		return config.Panel{}, fmt.Errorf("x and y must be given together")
	}
	if args.Scale < 0 {
		return config.Panel{}, fmt.Errorf("scale must be >= 1, got %d", args.Scale)
	}

	p := config.Panel{
		Name:    args.Name,
		Title:   args.Title,
		Pattern: args.Pattern,
		X:       args.X,
		Y:       args.Y,
		Width:   args.Width,
		Height:  args.Height,
		Scale:   max(1, args.Scale),
		Style:   args.Style,
		Wrap:    args.Wrap,
	}
	if p.Pattern == "" {
		p.Pattern = "solid"
	}
	switch p.Style {
	case "":
		p.Style = display.StyleTitled.String()
	case "titled", "borderless", "popup":
	default:
		return config.Panel{}, fmt.Errorf("style must be one of: titled, borderless, popup")
	}
	if args.Color != "" {
		c, err := config.ParseColor(args.Color)
		if err != nil {
			return config.Panel{}, fmt.Errorf("color: %w", err)
		}
		p.Color = c
	}
	if args.Accent != "" {
		c, err := config.ParseColor(args.Accent)
		if err != nil {
			return config.Panel{}, fmt.Errorf("accent: %w", err)
		}
		p.Accent = c
	}
	return p, nil
}

// withWindow resolves id to a live client window and runs fn on the session
// goroutine, returning the window's state afterwards.
func (s *Server) withWindow(ctx context.Context, id uint32, fn func(h *host.Host, w *display.Window) error) (WindowOutput, error) {
	var out WindowOutput
	err := s.exec.Exec(ctx, func(h *host.Host) error {
		w, err := h.Lookup(id)
		if err != nil {
			return err
		}
		if err := fn(h, w); err != nil {
			return err
		}
		out.Window = h.Info(w)
		return nil
	})
	return out, err
}

func (s *Server) handleDestroyWindow(ctx context.Context, _ *mcpsdk.CallToolRequest, args WindowRefInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	out, err := s.withWindow(ctx, args.ID, func(h *host.Host, w *display.Window) error {
		if !h.Server().DestroyWindow(w) {
			return fmt.Errorf("window %d could not be destroyed", w.ID())
		}
		return nil
	})
	if err != nil {
		return nil, WindowOutput{}, err
	}
	s.log.Info("window destroyed", "id", out.Window.ID)
	return nil, out, nil
}

func (s *Server) handleMoveWindow(ctx context.Context, _ *mcpsdk.CallToolRequest, args MoveWindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	out, err := s.withWindow(ctx, args.ID, func(h *host.Host, w *display.Window) error {
		x, y := args.X, args.Y
		frame, wrapped := h.Twm().FrameOf(w)
		if wrapped {
			y += h.Twm().Options().TitlebarHeight * w.Scale()
		}
		h.Server().MoveWindow(w, x, y)
		if wrapped {
			h.Server().MoveWindow(frame, args.X, args.Y)
		}
		return nil
	})
	if err != nil {
		return nil, WindowOutput{}, err
	}
	return nil, out, nil
}

func (s *Server) handleResizeWindow(ctx context.Context, _ *mcpsdk.CallToolRequest, args ResizeWindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	if args.Width <= 0 || args.Height <= 0 {
		return nil, WindowOutput{}, fmt.Errorf("width and height must be positive, got %dx%d", args.Width, args.Height)
	}
	out, err := s.withWindow(ctx, args.ID, func(h *host.Host, w *display.Window) error {
		if args.Onscreen {
			h.Server().SetWindowOnscreenSize(w.ID(), args.Width, args.Height)
		} else {
			h.Server().SetWindowContentSize(w.ID(), args.Width, args.Height)
		}
		return nil
	})
	if err != nil {
		return nil, WindowOutput{}, err
	}
	return nil, out, nil
}

func (s *Server) handleSetScale(ctx context.Context, _ *mcpsdk.CallToolRequest, args SetScaleInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	if args.Scale < 1 {
		return nil, WindowOutput{}, fmt.Errorf("scale must be >= 1, got %d", args.Scale)
	}
	out, err := s.withWindow(ctx, args.ID, func(h *host.Host, w *display.Window) error {
		h.Server().SetWindowScale(w.ID(), args.Scale, args.PreserveOnscreen)
		return nil
	})
	if err != nil {
		return nil, WindowOutput{}, err
	}
	return nil, out, nil
}

func (s *Server) handleSetTitle(ctx context.Context, _ *mcpsdk.CallToolRequest, args SetTitleInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	out, err := s.withWindow(ctx, args.ID, func(_ *host.Host, w *display.Window) error {
		w.SetTitle(args.Title)
		return nil
	})
	if err != nil {
		return nil, WindowOutput{}, err
	}
	return nil, out, nil
}

func raise(h *host.Host, w *display.Window) {
	if frame, ok := h.Twm().FrameOf(w); ok {
		h.Server().BringToFront(frame)
		return
	}
	h.Server().BringToFront(w)
}

func (s *Server) handleRaiseWindow(ctx context.Context, _ *mcpsdk.CallToolRequest, args WindowRefInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	out, err := s.withWindow(ctx, args.ID, func(h *host.Host, w *display.Window) error {
		raise(h, w)
		return nil
	})
	if err != nil {
		return nil, WindowOutput{}, err
	}
	return nil, out, nil
}

func (s *Server) handleFocusWindow(ctx context.Context, _ *mcpsdk.CallToolRequest, args WindowRefInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	out, err := s.withWindow(ctx, args.ID, func(h *host.Host, w *display.Window) error {
		raise(h, w)
		h.Server().FocusWindow(w)
		return nil
	})
	if err != nil {
		return nil, WindowOutput{}, err
	}
	return nil, out, nil
}

func (s *Server) handleWrapWindow(ctx context.Context, _ *mcpsdk.CallToolRequest, args WindowRefInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	out, err := s.withWindow(ctx, args.ID, func(h *host.Host, w *display.Window) error {
		if !h.Twm().Wrap(w) {
			return fmt.Errorf("window %d could not be decorated", w.ID())
		}
		return nil
	})
	if err != nil {
		return nil, WindowOutput{}, err
	}
	return nil, out, nil
}

func (s *Server) handleUnwrapWindow(ctx context.Context, _ *mcpsdk.CallToolRequest, args WindowRefInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	out, err := s.withWindow(ctx, args.ID, func(h *host.Host, w *display.Window) error {
		if !h.Twm().Unwrap(w) {
			return fmt.Errorf("window %d is not decorated", w.ID())
		}
		return nil
	})
	if err != nil {
		return nil, WindowOutput{}, err
	}
	return nil, out, nil
}

func (s *Server) handleScreenshot(ctx context.Context, _ *mcpsdk.CallToolRequest, args ScreenshotInput) (*mcpsdk.CallToolResult, ScreenshotOutput, error) {
	path := args.Path
	if path == "" {
		var err error
		path, err = runtimepath.ScreenshotPath(s.screenshotDir, s.now())
		if err != nil {
			return nil, ScreenshotOutput{}, err
		}
	}

	out := ScreenshotOutput{Path: path}
	err := s.exec.Exec(ctx, func(h *host.Host) error {
		out.Width, out.Height = h.Size()
		return h.Screenshot(path)
	})
	if err != nil {
		return nil, ScreenshotOutput{}, err
	}
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: fmt.Sprintf("Saved %dx%d screenshot to %s", out.Width, out.Height, path)},
		},
	}, out, nil
}
