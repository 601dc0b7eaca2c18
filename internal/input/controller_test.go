package input

import (
	"math"
	"testing"

	"github.com/mandelview/mandelview/internal/view"
)

// recordingPusher captures every snapshot pushed to the GPU.
type recordingPusher struct {
	pushes []view.State
}

func (p *recordingPusher) Push(s view.State) {
	p.pushes = append(p.pushes, s)
}

func newTestController() (*Controller, *view.State, *recordingPusher) {
	s := view.DefaultViewport()
	s.SetAspect(800, 600)
	p := &recordingPusher{}
	return NewController(&s, p, 800, 600), &s, p
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= 1e-12*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

func TestDragStateMachine(t *testing.T) {
	c, s, p := newTestController()

	// Move without a press: cursor tracked, no pan, no push.
	if c.Handle(CursorMoved{X: 100, Y: 100}) {
		t.Error("move while idle reported consumed")
	}
	if got := c.Cursor(); got.X != 100 || got.Y != 100 || got.Dragging {
		t.Errorf("cursor = %+v, want (100, 100) idle", got)
	}
	if len(p.pushes) != 0 {
		t.Fatalf("idle move pushed %d times", len(p.pushes))
	}

	// Press, then move: pans and pushes.
	if c.Handle(MouseButton{Button: ButtonLeft, Pressed: true}) {
		t.Error("button press reported consumed")
	}
	if !c.Handle(CursorMoved{X: 110, Y: 100}) {
		t.Error("drag move not consumed")
	}
	if len(p.pushes) != 1 {
		t.Fatalf("drag move pushed %d times, want 1", len(p.pushes))
	}
	wantX := -2.0 - 10.0/800.0*2.0*(800.0/600.0)
	if !almostEqual(s.OriginX, wantX) {
		t.Errorf("OriginX = %v, want %v", s.OriginX, wantX)
	}

	// Release, then move: no pan.
	if c.Handle(MouseButton{Button: ButtonLeft, Pressed: false}) {
		t.Error("button release reported consumed")
	}
	if c.Handle(CursorMoved{X: 200, Y: 200}) {
		t.Error("move after release reported consumed")
	}
	if len(p.pushes) != 1 {
		t.Errorf("move after release pushed; total %d, want 1", len(p.pushes))
	}
}

func TestCursorLeaveForcesRelease(t *testing.T) {
	c, _, p := newTestController()

	c.Handle(MouseButton{Button: ButtonLeft, Pressed: true})
	c.Handle(CursorMoved{X: 10, Y: 10})
	if c.Handle(CursorLeft{}) {
		t.Error("cursor leave reported consumed")
	}
	if c.Cursor().Dragging {
		t.Error("still dragging after cursor left the window")
	}

	before := len(p.pushes)
	if c.Handle(CursorMoved{X: 50, Y: 50}) {
		t.Error("move after forced release reported consumed")
	}
	if len(p.pushes) != before {
		t.Error("move after forced release pushed")
	}
}

func TestNonLeftButtonIgnored(t *testing.T) {
	c, _, _ := newTestController()

	c.Handle(MouseButton{Button: ButtonRight, Pressed: true})
	if c.Cursor().Dragging {
		t.Error("right button started a drag")
	}
}

func TestZeroDeltaDragMoveNotConsumed(t *testing.T) {
	c, _, p := newTestController()

	c.Handle(MouseButton{Button: ButtonLeft, Pressed: true})
	c.Handle(CursorMoved{X: 10, Y: 10})
	before := len(p.pushes)
	if c.Handle(CursorMoved{X: 10, Y: 10}) {
		t.Error("zero-delta move reported consumed")
	}
	if len(p.pushes) != before {
		t.Error("zero-delta move pushed")
	}
}

func TestScrollZoomsAtCursor(t *testing.T) {
	c, s, p := newTestController()

	// Scenario B: wheel +1 at the screen center.
	c.Handle(CursorMoved{X: 400, Y: 300})
	if !c.Handle(Scroll{Steps: 1}) {
		t.Error("scroll not consumed")
	}
	if len(p.pushes) != 1 {
		t.Fatalf("scroll pushed %d times, want 1", len(p.pushes))
	}
	if !almostEqual(s.Height, 1.8) {
		t.Errorf("Height = %v, want 1.8", s.Height)
	}
	// The center point must not have moved.
	gotX, gotY := s.PlaneAt(0.5, 0.5)
	if !almostEqual(gotX, -2.0+0.5*2.0*(800.0/600.0)) || !almostEqual(gotY, 0) {
		t.Errorf("center plane point moved to (%v, %v)", gotX, gotY)
	}
}

func TestZoomFixedPointAfterResize(t *testing.T) {
	c, s, _ := newTestController()

	// Cursor positions are interpreted against the size delivered by
	// Resize events; the zoom anchor must stay fixed at the new size.
	c.Handle(Resize{Width: 1600, Height: 1200})
	c.Handle(CursorMoved{X: 400, Y: 900})
	u := 400.0 / 1600.0
	v := 1 - 900.0/1200.0
	wantX, wantY := s.PlaneAt(u, v)

	c.Handle(Scroll{Steps: 2})

	gotX, gotY := s.PlaneAt(u, v)
	if !almostEqual(gotX, wantX) || !almostEqual(gotY, wantY) {
		t.Errorf("anchored point = (%v, %v), want (%v, %v)", gotX, gotY, wantX, wantY)
	}
}

func TestIterationKeys(t *testing.T) {
	tests := []struct {
		name         string
		keys         []Key
		want         uint32
		wantConsumed bool
	}{
		{"up", []Key{KeyArrowUp}, 256, true},
		{"scenario C: down at floor", []Key{KeyArrowDown}, 128, true},
		{"up up down", []Key{KeyArrowUp, KeyArrowUp, KeyArrowDown}, 256, true},
		{"unknown key", []Key{KeyUnknown}, 128, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, s, p := newTestController()
			var consumed bool
			for _, k := range tt.keys {
				consumed = c.Handle(KeyPress{Key: k})
			}
			if consumed != tt.wantConsumed {
				t.Errorf("consumed = %v, want %v", consumed, tt.wantConsumed)
			}
			if s.MaxIterations != tt.want {
				t.Errorf("MaxIterations = %d, want %d", s.MaxIterations, tt.want)
			}
			wantPushes := len(tt.keys)
			if !tt.wantConsumed {
				wantPushes--
			}
			if len(p.pushes) != wantPushes {
				t.Errorf("pushed %d times, want %d", len(p.pushes), wantPushes)
			}
		})
	}
}

func TestResize(t *testing.T) {
	c, s, p := newTestController()

	c.Handle(Resize{Width: 1024, Height: 1024})
	if s.AspectRatio != 1.0 {
		t.Errorf("AspectRatio = %v, want 1", s.AspectRatio)
	}
	if len(p.pushes) != 1 {
		t.Fatalf("resize pushed %d times, want 1", len(p.pushes))
	}

	// Subsequent pans use the new pixel size.
	c.Handle(MouseButton{Button: ButtonLeft, Pressed: true})
	c.Handle(CursorMoved{X: 0, Y: 0})
	c.Handle(CursorMoved{X: 102.4, Y: 0})
	wantX := -2.0 - 102.4/1024.0*2.0*1.0
	if !almostEqual(s.OriginX, wantX) {
		t.Errorf("OriginX = %v, want %v", s.OriginX, wantX)
	}
}

func TestZeroAreaResizeIgnored(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
	}{
		{"zero width", 0, 600},
		{"zero height", 800, 0},
		{"both zero", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, s, p := newTestController()
			before := *s

			if c.Handle(Resize{Width: tt.width, Height: tt.height}) {
				t.Error("ignored resize reported consumed")
			}
			if *s != before {
				t.Errorf("state changed: %+v", *s)
			}
			if len(p.pushes) != 0 {
				t.Errorf("ignored resize pushed %d times", len(p.pushes))
			}
		})
	}
}

func TestConsumedContract(t *testing.T) {
	tests := []struct {
		name string
		ev   Event
		want bool
	}{
		{"cursor leave", CursorLeft{}, false},
		{"button press", MouseButton{Button: ButtonLeft, Pressed: true}, false},
		{"button release", MouseButton{Button: ButtonLeft, Pressed: false}, false},
		{"idle move", CursorMoved{X: 5, Y: 5}, false},
		{"scroll", Scroll{Steps: 1}, true},
		{"arrow up", KeyPress{Key: KeyArrowUp}, true},
		{"arrow down", KeyPress{Key: KeyArrowDown}, true},
		{"other key", KeyPress{Key: KeyUnknown}, false},
		{"resize", Resize{Width: 640, Height: 480}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _, _ := newTestController()
			if got := c.Handle(tt.ev); got != tt.want {
				t.Errorf("Handle(%T) = %v, want %v", tt.ev, got, tt.want)
			}
		})
	}
}
