package desktop

import (
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"

	"shaderbg/internal/gfx"
)

// Context creation APIs tried for every option set, in order.
var creationAPIs = []int{glfw.NativeContextAPI, glfw.EGLContextAPI}

func boolHint(v bool) int {
	if v {
		return glfw.True
	}
	return glfw.False
}

// esHints requests an OpenGL ES 2.0 context, whose shading language is the
// one generated fragment sources are written in.
func esHints(api int) {
	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.ClientAPI, glfw.OpenGLESAPI)
	glfw.WindowHint(glfw.ContextCreationAPI, api)
	glfw.WindowHint(glfw.ContextVersionMajor, 2)
	glfw.WindowHint(glfw.ContextVersionMinor, 0)
}

// surfaceHints configures a borderless background window that never takes
// focus or floats above other windows.
func surfaceHints(api int, opts gfx.ContextOptions) {
	esHints(api)
	glfw.WindowHint(glfw.Resizable, glfw.False)
	glfw.WindowHint(glfw.Decorated, glfw.False)
	glfw.WindowHint(glfw.Floating, glfw.False)
	glfw.WindowHint(glfw.Focused, glfw.False)
	glfw.WindowHint(glfw.FocusOnShow, glfw.False)
	glfw.WindowHint(glfw.AutoIconify, glfw.False)

	if opts.Antialias {
		glfw.WindowHint(glfw.Samples, 4)
	} else {
		glfw.WindowHint(glfw.Samples, 0)
	}
	glfw.WindowHint(glfw.TransparentFramebuffer, boolHint(opts.Alpha))
	if !opts.Alpha {
		glfw.WindowHint(glfw.AlphaBits, 0)
	}
	if opts.Depth {
		glfw.WindowHint(glfw.DepthBits, 24)
	} else {
		glfw.WindowHint(glfw.DepthBits, 0)
	}
	if opts.Stencil {
		glfw.WindowHint(glfw.StencilBits, 8)
	} else {
		glfw.WindowHint(glfw.StencilBits, 0)
	}

	// Graphics switching lets macOS keep the context on the integrated GPU.
	switch opts.Power {
	case gfx.PowerDefault:
		glfw.WindowHint(glfw.CocoaGraphicsSwitching, glfw.True)
	case gfx.PowerHighPerformance:
		glfw.WindowHint(glfw.CocoaGraphicsSwitching, glfw.False)
	}
}

func apiName(api int) string {
	switch api {
	case glfw.NativeContextAPI:
		return "native"
	case glfw.EGLContextAPI:
		return "egl"
	default:
		return fmt.Sprintf("api(%d)", api)
	}
}

// createWindow wraps glfw.CreateWindow. The binding panics on errors it does
// not expect from window creation (format or platform errors); those are
// reported as plain errors.
func createWindow(width, height int, title string) (w *glfw.Window, err error) {
	defer func() {
		if r := recover(); r != nil {
			w, err = nil, fmt.Errorf("create window: %v", r)
		}
	}()
	return glfw.CreateWindow(width, height, title, nil, nil)
}
