// Command mandelview is an interactive Mandelbrot explorer rendered on
// the GPU in double precision. Drag to pan, scroll to zoom at the cursor,
// arrow up/down to change the iteration budget, escape to quit.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/mandelview/mandelview/internal/gpu"
	"github.com/mandelview/mandelview/internal/input"
	"github.com/mandelview/mandelview/internal/view"
)

const (
	windowWidth  = 800
	windowHeight = 600
	windowTitle  = "Mandelbrot Explorer"
)

func init() {
	// GLFW event handling must run on the main OS thread.
	runtime.LockOSThread()
}

func main() {
	var (
		preset = flag.String("preset", "default", "starting viewport: default or deep")
		vsync  = flag.Bool("vsync", true, "synchronize presentation with the display")
		debug  = flag.Bool("debug", false, "enable debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := run(*preset, *vsync); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(preset string, vsync bool) error {
	var state view.State
	switch preset {
	case "default":
		state = view.DefaultViewport()
	case "deep":
		state = view.DeepZoomViewport()
	default:
		return fmt.Errorf("unknown preset %q", preset)
	}

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("init glfw: %w", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	window, err := glfw.CreateWindow(windowWidth, windowHeight, windowTitle, nil, nil)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	defer window.Destroy()

	// Cursor callbacks report window coordinates while the surface lives in
	// framebuffer pixels; on HiDPI displays these differ by the content
	// scale. The controller stays in window coordinates throughout, the
	// surface in framebuffer pixels. The aspect ratio is the same in both
	// spaces.
	fbWidth, fbHeight := window.GetFramebufferSize()
	winWidth, winHeight := window.GetSize()
	state.SetAspect(winWidth, winHeight)

	ctx, err := gpu.NewContext(window, fbWidth, fbHeight, gpu.WithVSync(vsync))
	if err != nil {
		return err
	}
	defer ctx.Release()

	pipe, err := gpu.BuildPipeline(ctx.Device(), ctx.Format(), gpu.FromView(state))
	if err != nil {
		return err
	}
	defer pipe.Release()

	loop := gpu.NewLoop(ctx, pipe)
	sync := gpu.NewUniformSync(ctx.Queue(), pipe.UniformBuffer(), func() {
		loop.RequestRedraw()
		glfw.PostEmptyEvent()
	})
	ctrl := input.NewController(&state, sync, winWidth, winHeight)

	window.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		ctrl.Handle(input.CursorMoved{X: x, Y: y})
	})
	window.SetCursorEnterCallback(func(_ *glfw.Window, entered bool) {
		if !entered {
			ctrl.Handle(input.CursorLeft{})
		}
	})
	window.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		ctrl.Handle(input.MouseButton{
			Button:  mapButton(button),
			Pressed: action == glfw.Press,
		})
	})
	window.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		ctrl.Handle(input.Scroll{Steps: yoff})
	})
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if action != glfw.Press {
			return
		}
		if ctrl.Handle(input.KeyPress{Key: mapKey(key)}) {
			return
		}
		if key == glfw.KeyEscape {
			w.SetShouldClose(true)
		}
	})
	window.SetSizeCallback(func(_ *glfw.Window, width, height int) {
		ctrl.Handle(input.Resize{Width: width, Height: height})
	})
	window.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		loop.Resize(width, height)
	})

	sync.Push(state)

	for !window.ShouldClose() {
		if loop.NeedsRedraw() {
			glfw.PollEvents()
			if err := loop.Redraw(); err != nil {
				return err
			}
		} else {
			glfw.WaitEvents()
		}
	}
	return nil
}

func mapButton(b glfw.MouseButton) input.Button {
	switch b {
	case glfw.MouseButtonLeft:
		return input.ButtonLeft
	case glfw.MouseButtonRight:
		return input.ButtonRight
	default:
		return input.ButtonMiddle
	}
}

func mapKey(k glfw.Key) input.Key {
	switch k {
	case glfw.KeyUp:
		return input.KeyArrowUp
	case glfw.KeyDown:
		return input.KeyArrowDown
	default:
		return input.KeyUnknown
	}
}
