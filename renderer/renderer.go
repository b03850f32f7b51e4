// Package renderer defines the contract between the application shell and a
// rendering backend.
package renderer

import "github.com/cockroachdb/errors"

// ErrNotReady is returned by Render before the backend finished
// initialization or after it was shut down.
var ErrNotReady = errors.New("renderer is not ready")

// Window is the part of the application window every backend can rely on.
// Backends assert richer interfaces on top of it.
type Window interface {
	RequiredInstanceExtensions() []string
}

type EventKind int

const (
	EventOther EventKind = iota
	EventCloseRequested
	EventResized
)

func (k EventKind) String() string {
	switch k {
	case EventCloseRequested:
		return "close-requested"
	case EventResized:
		return "resized"
	}
	return "other"
}

// Event is a window event as delivered by the event loop.
type Event struct {
	Kind EventKind

	// Width and Height are set for EventResized.
	Width  int
	Height int
}

// Renderer is a rendering backend driven by the window event loop.
type Renderer interface {
	// WindowReady is called once the window exists. On error nothing the
	// backend created is left alive.
	WindowReady(window Window) error

	// WindowEvent handles one window event and reports whether the event
	// loop should stop.
	WindowEvent(event Event) (exit bool)

	// Render draws one frame.
	Render() error

	// Shutdown releases everything. It is safe to call more than once.
	Shutdown()
}
