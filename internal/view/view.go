// Package view holds the mathematical viewport of the explorer: the region
// of the complex plane currently on screen and the iteration budget of the
// fractal computation. It is pure data plus the pan/zoom/iteration
// transforms; it knows nothing about windows or the GPU.
package view

const (
	// IterationStep is the amount the iteration budget changes per key press.
	IterationStep = 128

	// MinIterations is the floor of the iteration budget.
	MinIterations = 128
)

// State describes the visible viewport. The viewport is anchored at its
// bottom-left corner; its width in plane units is Height * AspectRatio.
//
// State is owned by the event loop and mutated only through the methods
// below; there is no concurrent access.
type State struct {
	// OriginX, OriginY are the plane coordinates of the bottom-left corner.
	OriginX float64
	OriginY float64

	// Height is the viewport extent along the imaginary axis, always > 0.
	Height float64

	// AspectRatio is the pixel width/height of the window, recomputed on
	// every resize.
	AspectRatio float64

	// MaxIterations is the iteration budget of the fractal computation.
	// Invariant: a positive multiple of IterationStep, never below
	// MinIterations.
	MaxIterations uint32
}

// Cursor is the last observed pointer state, in pixel coordinates.
type Cursor struct {
	X, Y     float64
	Dragging bool
}

// DefaultViewport returns the startup viewport covering the classic
// full-set framing.
func DefaultViewport() State {
	return State{
		OriginX:       -2.0,
		OriginY:       -1.0,
		Height:        2.0,
		AspectRatio:   1.0,
		MaxIterations: MinIterations,
	}
}

// DeepZoomViewport returns a preset framing a deep-zoom region of the set,
// with an iteration budget to match.
func DeepZoomViewport() State {
	return State{
		OriginX:       -0.749488,
		OriginY:       0.031567533,
		Height:        0.000141897,
		AspectRatio:   1.0,
		MaxIterations: 4096,
	}
}

// Width returns the viewport extent along the real axis in plane units.
func (s State) Width() float64 {
	return s.Height * s.AspectRatio
}

// PlaneAt maps a fractional viewport position to its plane coordinate.
// u runs 0..1 left to right, v runs 0..1 bottom to top.
func (s State) PlaneAt(u, v float64) (x, y float64) {
	return s.OriginX + u*s.Height*s.AspectRatio, s.OriginY + v*s.Height
}

// Pan shifts the origin by a drag of (dx, dy) pixels over a viewport of
// width x height pixels. Pixel y grows downward while the imaginary axis
// grows upward, hence the sign flip on dy.
func (s *State) Pan(dx, dy float64, width, height int) {
	s.OriginX -= dx / float64(width) * s.Height * s.AspectRatio
	s.OriginY += dy / float64(height) * s.Height
}

// ZoomAt rescales the viewport about the cursor at pixel (px, py) so that
// the plane point under the cursor stays fixed. delta is the wheel scroll
// amount; positive zooms in.
func (s *State) ZoomAt(delta, px, py float64, width, height int) {
	scale := 1 - delta/10
	u := px / float64(width)
	v := 1 - py/float64(height)
	newHeight := s.Height * scale
	heightDiff := newHeight - s.Height
	s.OriginX -= u * heightDiff * s.AspectRatio
	s.OriginY -= v * heightDiff
	s.Height = newHeight
}

// RaiseIterations increases the iteration budget by one step. Unbounded
// above.
func (s *State) RaiseIterations() {
	s.MaxIterations += IterationStep
}

// LowerIterations decreases the iteration budget by one step, saturating
// at MinIterations.
func (s *State) LowerIterations() {
	if s.MaxIterations <= MinIterations+IterationStep {
		s.MaxIterations = MinIterations
		return
	}
	s.MaxIterations -= IterationStep
}

// SetAspect recomputes the aspect ratio from a pixel size. Zero-area sizes
// are ignored and leave the state unchanged. Reports whether the size was
// accepted.
func (s *State) SetAspect(width, height int) bool {
	if width <= 0 || height <= 0 {
		return false
	}
	s.AspectRatio = float64(width) / float64(height)
	return true
}
