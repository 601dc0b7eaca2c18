package gpu

import (
	"encoding/binary"
	"math"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/mandelview/mandelview/internal/view"
)

// UniformsSize is the byte size of the GPU uniform block.
const UniformsSize = 40

// Uniforms is the parameter block read by the fragment stage. The layout
// must match the Params struct in shader.wgsl bit for bit: four f64 fields
// at offsets 0/8/16/24, a u32 at 32, and 4 bytes of padding keeping the
// total size a multiple of the 8-byte alignment.
type Uniforms struct {
	OriginX       float64
	OriginY       float64
	Height        float64
	AspectRatio   float64
	MaxIterations uint32
	_pad          uint32
}

// FromView captures a viewport snapshot in GPU layout.
func FromView(s view.State) Uniforms {
	return Uniforms{
		OriginX:       s.OriginX,
		OriginY:       s.OriginY,
		Height:        s.Height,
		AspectRatio:   s.AspectRatio,
		MaxIterations: s.MaxIterations,
	}
}

// Marshal serializes the block little-endian for queue upload.
func (u Uniforms) Marshal() []byte {
	buf := make([]byte, UniformsSize)
	binary.LittleEndian.PutUint64(buf[0:], math.Float64bits(u.OriginX))
	binary.LittleEndian.PutUint64(buf[8:], math.Float64bits(u.OriginY))
	binary.LittleEndian.PutUint64(buf[16:], math.Float64bits(u.Height))
	binary.LittleEndian.PutUint64(buf[24:], math.Float64bits(u.AspectRatio))
	binary.LittleEndian.PutUint32(buf[32:], u.MaxIterations)
	binary.LittleEndian.PutUint32(buf[36:], 0) // _pad
	return buf
}

// UniformSync is the single write path from viewport state to the GPU
// uniform buffer. Push must run after every mutation that should become
// visible; queue submission order guarantees the write lands before any
// draw submitted afterwards.
type UniformSync struct {
	queue         *wgpu.Queue
	buf           *wgpu.Buffer
	requestRedraw func()
}

// NewUniformSync returns a sync writing to buf via queue. requestRedraw is
// invoked once per Push to schedule a frame; it may be nil.
func NewUniformSync(queue *wgpu.Queue, buf *wgpu.Buffer, requestRedraw func()) *UniformSync {
	return &UniformSync{queue: queue, buf: buf, requestRedraw: requestRedraw}
}

// Push uploads a snapshot of s and schedules exactly one redraw. It never
// draws itself.
func (s *UniformSync) Push(v view.State) {
	s.queue.WriteBuffer(s.buf, 0, FromView(v).Marshal())
	if s.requestRedraw != nil {
		s.requestRedraw()
	}
}
