// Package gpu owns the WebGPU side of the explorer: device setup, surface
// configuration, the render pipeline, uniform upload and the per-frame
// protocol. Everything here runs on the main thread.
package gpu

import (
	"fmt"
	"log/slog"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// Option configures context creation.
type Option func(*Context)

// WithVSync selects the present mode: fifo (vsync) when on, immediate
// when off.
func WithVSync(on bool) Option {
	return func(c *Context) {
		if on {
			c.presentMode = wgpu.PresentModeFifo
		} else {
			c.presentMode = wgpu.PresentModeImmediate
		}
	}
}

// WithLabel sets the debug label used for the device.
func WithLabel(label string) Option {
	return func(c *Context) {
		c.label = label
	}
}

// Context holds the long-lived GPU objects for one window: instance,
// surface, adapter, device and queue, plus the current surface
// configuration.
type Context struct {
	instance *wgpu.Instance
	surface  *wgpu.Surface
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue

	format      wgpu.TextureFormat
	alphaMode   wgpu.CompositeAlphaMode
	presentMode wgpu.PresentMode
	label       string

	width  uint32
	height uint32
}

// NewContext brings up a device for window and configures its surface at
// the given framebuffer size. The adapter must support double-precision
// shader arithmetic; setup fails on hardware without it.
func NewContext(window *glfw.Window, width, height int, opts ...Option) (*Context, error) {
	c := &Context{
		presentMode: wgpu.PresentModeFifo,
		label:       "mandelview",
	}
	for _, opt := range opts {
		opt(c)
	}

	c.instance = wgpu.CreateInstance(nil)
	c.surface = c.instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(window))

	adapter, err := c.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
		CompatibleSurface: c.surface,
	})
	if err != nil {
		c.Release()
		return nil, fmt.Errorf("gpu: request adapter: %w", err)
	}
	c.adapter = adapter

	info := adapter.GetInfo()
	slog.Info("gpu adapter",
		"name", info.Name,
		"backend", info.BackendType.String(),
		"type", info.AdapterType.String(),
	)

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label:            c.label,
		RequiredFeatures: []wgpu.FeatureName{wgpu.NativeFeatureShaderF64},
		RequiredLimits:   &wgpu.RequiredLimits{Limits: wgpu.DefaultLimits()},
	})
	if err != nil {
		c.Release()
		return nil, fmt.Errorf("gpu: request device (f64 shaders required): %w", err)
	}
	c.device = device
	c.queue = device.GetQueue()

	caps := c.surface.GetCapabilities(adapter)
	c.format = preferredFormat(caps.Formats)
	c.alphaMode = caps.AlphaModes[0]

	c.configure(uint32(width), uint32(height))
	slog.Debug("surface configured",
		"format", c.format.String(),
		"width", width,
		"height", height,
	)
	return c, nil
}

// preferredFormat picks an sRGB format when the surface offers one,
// otherwise the first supported format.
func preferredFormat(formats []wgpu.TextureFormat) wgpu.TextureFormat {
	for _, f := range formats {
		if f == wgpu.TextureFormatBGRA8UnormSrgb || f == wgpu.TextureFormatRGBA8UnormSrgb {
			return f
		}
	}
	return formats[0]
}

func (c *Context) configure(width, height uint32) {
	c.width, c.height = width, height
	c.surface.Configure(c.adapter, c.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      c.format,
		Width:       width,
		Height:      height,
		PresentMode: c.presentMode,
		AlphaMode:   c.alphaMode,
	})
}

// Reconfigure resizes the surface. Zero-area sizes are ignored so a
// minimized window never produces an invalid configuration.
func (c *Context) Reconfigure(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.configure(uint32(width), uint32(height))
}

// Size returns the configured surface size in pixels.
func (c *Context) Size() (width, height int) {
	return int(c.width), int(c.height)
}

// Device returns the logical device.
func (c *Context) Device() *wgpu.Device { return c.device }

// Queue returns the device queue.
func (c *Context) Queue() *wgpu.Queue { return c.queue }

// Format returns the surface texture format.
func (c *Context) Format() wgpu.TextureFormat { return c.format }

// Frame is one acquired surface texture plus its render view. Exactly one
// of Present or Release must be called per frame.
type Frame struct {
	texture *wgpu.Texture
	view    *wgpu.TextureView
}

// View returns the texture view to render into.
func (f *Frame) View() *wgpu.TextureView { return f.view }

// Release drops the frame without presenting it.
func (f *Frame) Release() {
	f.view.Release()
	f.texture.Release()
}

// AcquireFrame gets the next surface texture. Errors are returned raw;
// the render loop classifies them.
func (c *Context) AcquireFrame() (*Frame, error) {
	tex, err := c.surface.GetCurrentTexture()
	if err != nil {
		return nil, err
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, err
	}
	return &Frame{texture: tex, view: view}, nil
}

// Present shows the frame and releases its resources.
func (c *Context) Present(f *Frame) {
	c.surface.Present()
	f.Release()
}

// Release frees all GPU objects. The context is unusable afterwards.
func (c *Context) Release() {
	if c.queue != nil {
		c.queue.Release()
		c.queue = nil
	}
	if c.device != nil {
		c.device.Release()
		c.device = nil
	}
	if c.adapter != nil {
		c.adapter.Release()
		c.adapter = nil
	}
	if c.surface != nil {
		c.surface.Release()
		c.surface = nil
	}
	if c.instance != nil {
		c.instance.Release()
		c.instance = nil
	}
}
