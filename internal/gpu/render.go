package gpu

import (
	"fmt"
	"log/slog"

	"github.com/cogentcore/webgpu/wgpu"
)

// FrameSource is the surface and device the render loop draws against.
// *Context implements it.
type FrameSource interface {
	AcquireFrame() (*Frame, error)
	Present(*Frame)
	Reconfigure(width, height int)
	Size() (width, height int)
	Device() *wgpu.Device
	Queue() *wgpu.Queue
}

// Loop drives frame production. Frames are rendered only when something
// marked the view dirty; the loop itself never mutates viewport state.
type Loop struct {
	src  FrameSource
	pipe *Pipeline

	// Last known good framebuffer size, used to heal a lost surface.
	width  int
	height int

	dirty bool
}

// NewLoop returns a loop drawing pipe's output to src. The first frame is
// already scheduled.
func NewLoop(src FrameSource, pipe *Pipeline) *Loop {
	w, h := src.Size()
	return &Loop{src: src, pipe: pipe, width: w, height: h, dirty: true}
}

// RequestRedraw marks the view dirty. Cheap and idempotent.
func (l *Loop) RequestRedraw() {
	l.dirty = true
}

// NeedsRedraw reports whether a frame is pending.
func (l *Loop) NeedsRedraw() bool {
	return l.dirty
}

// Resize records a new framebuffer size and reconfigures the surface.
// Zero-area sizes are ignored.
func (l *Loop) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	l.width, l.height = width, height
	l.src.Reconfigure(width, height)
	l.dirty = true
}

// Redraw renders one frame if the view is dirty. A lost or outdated
// surface is reconfigured at the last known size and the frame retried on
// the next pass; running out of device memory is fatal; any other
// acquisition failure is logged and the frame skipped.
func (l *Loop) Redraw() error {
	if !l.dirty {
		return nil
	}

	frame, err := l.src.AcquireFrame()
	if err != nil {
		switch classified := classifySurfaceError(err); classified {
		case errSurfaceLost:
			slog.Warn("surface lost, reconfiguring", "error", err)
			l.src.Reconfigure(l.width, l.height)
			return nil
		case errOutOfMemory:
			return fmt.Errorf("gpu: acquire frame: %w", classified)
		default:
			slog.Warn("frame skipped", "error", err)
			l.dirty = false
			return nil
		}
	}
	l.dirty = false

	if err := l.draw(frame); err != nil {
		slog.Warn("frame dropped", "error", err)
		frame.Release()
		return nil
	}
	l.src.Present(frame)
	return nil
}

func (l *Loop) draw(frame *Frame) error {
	encoder, err := l.src.Device().CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	defer encoder.Release()

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       frame.View(),
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: wgpu.Color{A: 1},
		}},
	})
	pass.SetPipeline(l.pipe.RenderPipeline())
	pass.SetBindGroup(0, l.pipe.BindGroup(), nil)
	pass.Draw(4, 1, 0, 0)
	endErr := pass.End()
	pass.Release()
	if endErr != nil {
		return fmt.Errorf("end render pass: %w", endErr)
	}

	cmd, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("finish encoder: %w", err)
	}
	defer cmd.Release()

	l.src.Queue().Submit(cmd)
	return nil
}
