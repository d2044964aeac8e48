// Package mcp exposes a running softx session to MCP clients over stdio.
package mcp

import (
	"context"
	"log/slog"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/thejerf/suture/v4"

	"github.com/1broseidon/softx/internal/config"
	"github.com/1broseidon/softx/internal/host"
)

const (
	ServerName    = "softx"
	ServerVersion = "0.1.0"
)

// Executor runs fn on the session goroutine. *host.Host implements it.
type Executor interface {
	Exec(ctx context.Context, fn func(*host.Host) error) error
}

// Server is the MCP server for window inspection and control.
type Server struct {
	mcpServer *mcpsdk.Server
	exec      Executor
	log       *slog.Logger

	screenshotDir string
	now           func() time.Time
	transport     mcpsdk.Transport
}

// NewServer creates an MCP server that drives the session behind exec.
func NewServer(exec Executor, cfg *config.Config, logger *slog.Logger) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		exec:          exec,
		log:           logger.With("component", "mcp"),
		screenshotDir: cfg.ScreenshotDir,
		now:           time.Now,
		transport:     &mcpsdk.StdioTransport{},
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run serves MCP on stdio, blocking until the client disconnects or ctx is
// done.
func (s *Server) Run(ctx context.Context) error {
	s.log.Info("mcp server listening on stdio")
	return s.mcpServer.Run(ctx, s.transport)
}

// String implements service.Service.
func (s *Server) String() string { return "mcp" }

// Serve implements service.Service. Stdio cannot be reopened, so a clean
// disconnect ends the service for good.
func (s *Server) Serve(ctx context.Context) error {
	if err := s.Run(ctx); err != nil {
		return err
	}
	s.log.Info("mcp client disconnected")
	return suture.ErrDoNotRestart
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List windows back to front with geometry, scale, focus and decoration state. Window manager frames are hidden unless include_frames is set; wrapped clients report their frame_id.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "create_panel",
		Description: "Create and map an animated panel window. Titled panels get a titlebar with a close box and a resize grip. Omit x and y to center the panel.",
	}, s.handleCreatePanel)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "destroy_window",
		Description: "Destroy a window. Destroying a frame or its client removes both.",
	}, s.handleDestroyWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "move_window",
		Description: "Move a window so its outer top-left corner, titlebar included, is at x,y.",
	}, s.handleMoveWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "resize_window",
		Description: "Resize a window's content. With onscreen set, the size is in screen pixels and divided by the window scale.",
	}, s.handleResizeWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_window_scale",
		Description: "Change a window's integer scale factor.",
	}, s.handleSetScale)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_window_title",
		Description: "Change the titlebar text of a window.",
	}, s.handleSetTitle)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "raise_window",
		Description: "Bring a window (its frame, when decorated) to the top of the stack.",
	}, s.handleRaiseWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "focus_window",
		Description: "Give a window keyboard focus and raise it.",
	}, s.handleFocusWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "wrap_window",
		Description: "Add window manager decorations to a window. Fails if it is already decorated.",
	}, s.handleWrapWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "unwrap_window",
		Description: "Remove window manager decorations and show the bare window again.",
	}, s.handleUnwrapWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "screenshot",
		Description: "Save the composited output as a PNG and return its path.",
	}, s.handleScreenshot)
}
