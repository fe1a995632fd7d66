package overlay

import (
	"context"

	"github.com/thenoetrevino/tempo/internal/events"
)

// Window names, routes and geometry of the time progress overlay
const (
	WindowName   = "time-progress-bar"
	WindowTitle  = "Time Progress"
	WindowURL    = "/time-progress-bar-floating"
	WindowHeight = 4
)

// WindowOptions describes how a window is created
type WindowOptions struct {
	Title       string
	URL         string
	Width       int
	Height      int
	X           int
	Y           int
	Decorations bool
	Resizable   bool
	AlwaysOnTop bool
	Transparent bool
	Center      bool
	Visible     bool
	Shadow      bool
	SkipTaskbar bool
}

// TimeProgressOptions returns the options for a bar spanning screenWidth
// pinned to the top edge
func TimeProgressOptions(screenWidth int) WindowOptions {
	return WindowOptions{
		Title:       WindowTitle,
		URL:         WindowURL,
		Width:       screenWidth,
		Height:      WindowHeight,
		Y:           0,
		Decorations: false,
		Resizable:   false,
		AlwaysOnTop: true,
		Transparent: true,
		Center:      false,
		Visible:     true,
		Shadow:      false,
		SkipTaskbar: true,
	}
}

// Window is a handle to a created window
type Window interface {
	Show(ctx context.Context) error
	Hide(ctx context.Context) error
	SetAlwaysOnTop(ctx context.Context, onTop bool) error
}

// Windowing creates windows
type Windowing interface {
	ScreenWidth(ctx context.Context) (int, error)
	CreateWindow(ctx context.Context, name string, opts WindowOptions) (Window, error)
}

// EventSource delivers payloads published on a named channel
type EventSource interface {
	Listen(ctx context.Context, channel string, handler func(payload []byte)) error
}

var _ EventSource = (*events.Bus)(nil)
