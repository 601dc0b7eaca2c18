package input

// Event is one raw windowing event relevant to the explorer. The concrete
// types below form a closed union; Controller.Handle switches over them
// exhaustively with an explicit fallthrough for anything it does not
// recognize.
type Event interface {
	isEvent()
}

// CursorMoved reports the pointer at window position (X, Y). Cursor
// positions and Resize sizes must share one coordinate space; on HiDPI
// displays that means window coordinates, not framebuffer pixels.
type CursorMoved struct {
	X, Y float64
}

// CursorLeft reports the pointer leaving the window. Treated as a forced
// end of any drag in progress.
type CursorLeft struct{}

// MouseButton reports a button press or release.
type MouseButton struct {
	Button  Button
	Pressed bool
}

// Scroll reports a wheel movement. Steps is the scroll amount in wheel
// steps; touchpads deliver fractional values through the same channel and
// both feed the zoom formula unconverted.
type Scroll struct {
	Steps float64
}

// KeyPress reports a key going down. Edge-triggered: OS auto-repeat is
// filtered out by the caller.
type KeyPress struct {
	Key Key
}

// Resize reports a new viewport size, in the same coordinate space as
// CursorMoved.
type Resize struct {
	Width, Height int
}

func (CursorMoved) isEvent() {}
func (CursorLeft) isEvent()  {}
func (MouseButton) isEvent() {}
func (Scroll) isEvent()      {}
func (KeyPress) isEvent()    {}
func (Resize) isEvent()      {}

// Button identifies a pointer button.
type Button int

// Pointer buttons. Only the left button participates in dragging.
const (
	ButtonLeft Button = iota
	ButtonRight
	ButtonMiddle
)

// Key identifies a keyboard key the controller cares about.
type Key int

// Keys with a binding. KeyUnknown stands for everything else.
const (
	KeyUnknown Key = iota
	KeyArrowUp
	KeyArrowDown
)
