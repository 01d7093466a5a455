//go:build !windows

package desktop

import "github.com/go-gl/glfw/v3.3/glfw"

// sendToBack is a no-op where GLFW offers no way to lower a window; the
// surface relies on being unfocused and non-floating instead.
func sendToBack(window *glfw.Window) bool {
	return false
}
