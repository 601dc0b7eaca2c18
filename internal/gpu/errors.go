package gpu

import (
	"errors"
	"strings"
)

// Frame-acquisition failure classes. wgpu-native reports acquisition
// failures as errors carrying the surface status name; the render loop
// branches on the class, never on the text.
var (
	errSurfaceLost = errors.New("gpu: surface lost")
	errOutOfMemory = errors.New("gpu: out of memory")
)

// classifySurfaceError maps a frame-acquisition error onto a failure
// class. An outdated surface heals the same way as a lost one
// (reconfigure and retry), so both map to errSurfaceLost. Anything
// unrecognized, including timeouts, is returned unchanged for the
// log-and-skip path.
func classifySurfaceError(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "lost"), strings.Contains(msg, "outdated"):
		return errSurfaceLost
	case strings.Contains(msg, "out of memory"), strings.Contains(msg, "outofmemory"):
		return errOutOfMemory
	default:
		return err
	}
}
