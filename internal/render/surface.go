// Package render draws the game state and reports window events.
package render

import (
	"image/color"

	"github.com/ayusman/headshooter/internal/game"
)

// Surface accepts the draw primitives of one frame.
type Surface interface {
	// Clear fills the whole surface.
	Clear(c color.Color)
	// FillRect fills an axis-aligned rectangle.
	FillRect(r game.Rect, c color.Color)
	// FillCircle fills a circle centred on (cx, cy).
	FillCircle(cx, cy, radius float64, c color.Color)
	// Text draws s horizontally and vertically centred on (cx, cy).
	Text(s string, cx, cy, size float64, c color.Color)
	// Overlay runs draw on a transparent layer and composites it with the given opacity in [0, 1].
	Overlay(alpha float64, draw func(Surface))
}

// Event is a window or keyboard event delivered once per tick.
type Event int

const (
	// EventQuit is the window close request.
	EventQuit Event = iota
	// EventQuitKey is the Q key.
	EventQuitKey
	// EventRestart is the R key.
	EventRestart
)

// String returns the event name.
func (e Event) String() string {
	switch e {
	case EventQuit:
		return "quit"
	case EventQuitKey:
		return "quit key"
	case EventRestart:
		return "restart"
	default:
		return "unknown"
	}
}

// EventSource reports the events that arrived since the previous poll.
type EventSource interface {
	Poll() []Event
}
