package gpu

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/mandelview/mandelview/internal/view"
)

func TestMarshalLayout(t *testing.T) {
	u := Uniforms{
		OriginX:       -0.749488,
		OriginY:       0.031567533,
		Height:        0.000141897,
		AspectRatio:   4.0 / 3.0,
		MaxIterations: 4096,
	}
	buf := u.Marshal()

	if len(buf) != UniformsSize {
		t.Fatalf("len = %d, want %d", len(buf), UniformsSize)
	}
	fields := []struct {
		name   string
		offset int
		want   float64
	}{
		{"OriginX", 0, u.OriginX},
		{"OriginY", 8, u.OriginY},
		{"Height", 16, u.Height},
		{"AspectRatio", 24, u.AspectRatio},
	}
	for _, f := range fields {
		got := math.Float64frombits(binary.LittleEndian.Uint64(buf[f.offset:]))
		if got != f.want {
			t.Errorf("%s at offset %d = %v, want %v", f.name, f.offset, got, f.want)
		}
	}
	if got := binary.LittleEndian.Uint32(buf[32:]); got != 4096 {
		t.Errorf("MaxIterations at offset 32 = %d, want 4096", got)
	}
	if got := binary.LittleEndian.Uint32(buf[36:]); got != 0 {
		t.Errorf("padding at offset 36 = %d, want 0", got)
	}
}

func TestMarshalNegativeZero(t *testing.T) {
	u := Uniforms{OriginX: math.Copysign(0, -1)}
	buf := u.Marshal()
	got := binary.LittleEndian.Uint64(buf[0:])
	if got != math.Float64bits(math.Copysign(0, -1)) {
		t.Errorf("negative zero not preserved: bits = %#x", got)
	}
}

func TestFromView(t *testing.T) {
	s := view.DeepZoomViewport()
	s.SetAspect(800, 600)
	u := FromView(s)

	if u.OriginX != s.OriginX || u.OriginY != s.OriginY {
		t.Errorf("origin = (%v, %v), want (%v, %v)", u.OriginX, u.OriginY, s.OriginX, s.OriginY)
	}
	if u.Height != s.Height || u.AspectRatio != s.AspectRatio {
		t.Errorf("height/aspect = (%v, %v), want (%v, %v)", u.Height, u.AspectRatio, s.Height, s.AspectRatio)
	}
	if u.MaxIterations != s.MaxIterations {
		t.Errorf("MaxIterations = %d, want %d", u.MaxIterations, s.MaxIterations)
	}
}
