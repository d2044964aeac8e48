package mcp

import "github.com/1broseidon/softx/internal/host"

// ListWindowsInput is the input for the list_windows tool.
type ListWindowsInput struct {
	IncludeFrames bool `json:"include_frames,omitempty" jsonschema:"When true, include window manager frames in the listing (default: false)"`
	MappedOnly    bool `json:"mapped_only,omitempty" jsonschema:"When true, only list mapped windows"`
}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	Width   int               `json:"width"`
	Height  int               `json:"height"`
	Focused uint32            `json:"focused,omitempty"`
	Windows []host.WindowInfo `json:"windows"`
}

// CreatePanelInput is the input for the create_panel tool.
type CreatePanelInput struct {
	Name    string `json:"name" jsonschema:"required,Window name"`
	Title   string `json:"title,omitempty" jsonschema:"Titlebar text (default: name)"`
	Pattern string `json:"pattern,omitempty" jsonschema:"Content pattern: solid, gradient, checker, bounce or bars (default: solid)"`
	Color   string `json:"color,omitempty" jsonschema:"Primary colour as #rrggbb or #aarrggbb"`
	Accent  string `json:"accent,omitempty" jsonschema:"Secondary colour as #rrggbb or #aarrggbb"`
	X       *int   `json:"x,omitempty" jsonschema:"Outer left edge in pixels; omitted places the panel automatically"`
	Y       *int   `json:"y,omitempty" jsonschema:"Outer top edge in pixels, titlebar included"`
	Width   int    `json:"width" jsonschema:"required,Content width in logical pixels"`
	Height  int    `json:"height" jsonschema:"required,Content height in logical pixels"`
	Scale   int    `json:"scale,omitempty" jsonschema:"Integer scale factor (default: 1)"`
	Style   string `json:"style,omitempty" jsonschema:"Window style: titled or borderless (default: titled)"`
	Wrap    *bool  `json:"wrap,omitempty" jsonschema:"Force or suppress window manager decorations regardless of style"`
}

// WindowOutput describes a window after a tool changed it.
type WindowOutput struct {
	Window host.WindowInfo `json:"window"`
}

// WindowRefInput names a single window. Frame ids resolve to their client.
type WindowRefInput struct {
	ID uint32 `json:"id" jsonschema:"required,Window id from list_windows"`
}

// MoveWindowInput is the input for the move_window tool.
type MoveWindowInput struct {
	ID uint32 `json:"id" jsonschema:"required,Window id from list_windows"`
	X  int    `json:"x" jsonschema:"required,New outer left edge in pixels"`
	Y  int    `json:"y" jsonschema:"required,New outer top edge in pixels, titlebar included"`
}

// ResizeWindowInput is the input for the resize_window tool.
type ResizeWindowInput struct {
	ID       uint32 `json:"id" jsonschema:"required,Window id from list_windows"`
	Width    int    `json:"width" jsonschema:"required,New width in pixels"`
	Height   int    `json:"height" jsonschema:"required,New height in pixels"`
	Onscreen bool   `json:"onscreen,omitempty" jsonschema:"When true, width and height are on-screen pixels and are divided by the scale; otherwise they are content pixels"`
}

// SetScaleInput is the input for the set_window_scale tool.
type SetScaleInput struct {
	ID               uint32 `json:"id" jsonschema:"required,Window id from list_windows"`
	Scale            int    `json:"scale" jsonschema:"required,New integer scale factor (>= 1)"`
	PreserveOnscreen bool   `json:"preserve_onscreen,omitempty" jsonschema:"When true, keep the on-screen size and shrink the content instead"`
}

// SetTitleInput is the input for the set_window_title tool.
type SetTitleInput struct {
	ID    uint32 `json:"id" jsonschema:"required,Window id from list_windows"`
	Title string `json:"title" jsonschema:"required,New titlebar text"`
}

// ScreenshotInput is the input for the screenshot tool.
type ScreenshotInput struct {
	Path string `json:"path,omitempty" jsonschema:"Output PNG path (default: timestamped file in the screenshot directory)"`
}

// ScreenshotOutput is the output for the screenshot tool.
type ScreenshotOutput struct {
	Path   string `json:"path"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}
