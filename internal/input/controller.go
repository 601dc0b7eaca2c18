// Package input translates raw pointer, wheel and keyboard events into
// viewport mutations. It owns the drag state machine and the pixel size of
// the viewport; every mutation is immediately pushed to the GPU through a
// Pusher.
package input

import (
	"log/slog"

	"github.com/mandelview/mandelview/internal/view"
)

// Pusher uploads a viewport snapshot to the GPU and schedules a redraw.
// Satisfied by gpu.UniformSync.
type Pusher interface {
	Push(view.State)
}

// Controller applies events to a viewport State. One controller per
// window; all access happens on the event-loop thread.
type Controller struct {
	state  *view.State
	pusher Pusher
	cursor view.Cursor

	// Viewport size in the same coordinate space as cursor positions,
	// kept in sync via Resize events.
	width  int
	height int
}

// NewController returns a controller mutating state and pushing through
// pusher. width and height are the initial viewport size, in the same
// coordinate space the cursor events will use.
func NewController(state *view.State, pusher Pusher, width, height int) *Controller {
	return &Controller{
		state:  state,
		pusher: pusher,
		width:  width,
		height: height,
	}
}

// Handle applies one event and reports whether it was consumed. Pan, zoom
// and iteration changes consume their event; drag bookkeeping
// (press/release/leave) and everything unrecognized do not, so the caller
// keeps its default handling for those.
func (c *Controller) Handle(ev Event) bool {
	switch ev := ev.(type) {
	case CursorMoved:
		consumed := false
		if c.cursor.Dragging {
			dx := ev.X - c.cursor.X
			dy := ev.Y - c.cursor.Y
			if dx != 0 || dy != 0 {
				c.state.Pan(dx, dy, c.width, c.height)
				c.pusher.Push(*c.state)
				consumed = true
			}
		}
		c.cursor.X, c.cursor.Y = ev.X, ev.Y
		return consumed

	case CursorLeft:
		c.cursor.Dragging = false
		return false

	case MouseButton:
		if ev.Button == ButtonLeft {
			c.cursor.Dragging = ev.Pressed
		}
		return false

	case Scroll:
		c.state.ZoomAt(ev.Steps, c.cursor.X, c.cursor.Y, c.width, c.height)
		c.pusher.Push(*c.state)
		return true

	case KeyPress:
		switch ev.Key {
		case KeyArrowUp:
			c.state.RaiseIterations()
		case KeyArrowDown:
			c.state.LowerIterations()
		default:
			return false
		}
		slog.Debug("iteration budget changed", "max_iterations", c.state.MaxIterations)
		c.pusher.Push(*c.state)
		return true

	case Resize:
		if !c.state.SetAspect(ev.Width, ev.Height) {
			return false
		}
		c.width, c.height = ev.Width, ev.Height
		c.pusher.Push(*c.state)
		return false

	default:
		return false
	}
}

// Cursor returns the current pointer state.
func (c *Controller) Cursor() view.Cursor {
	return c.cursor
}
