//go:build windows

package desktop

import (
	"syscall"
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
)

var (
	user32                         = syscall.NewLazyDLL("user32.dll")
	procGetWindowLongPtr           = user32.NewProc("GetWindowLongPtrW")
	procSetWindowLongPtr           = user32.NewProc("SetWindowLongPtrW")
	procSetWindowPos               = user32.NewProc("SetWindowPos")
	procSetLayeredWindowAttributes = user32.NewProc("SetLayeredWindowAttributes")
)

// sendToBack places the surface window below every other top-level window
// and makes it transparent to mouse input.
func sendToBack(window *glfw.Window) bool {
	hwnd := uintptr(unsafe.Pointer(window.GetWin32Window()))
	if hwnd == 0 {
		return false
	}

	// GWL_EXSTYLE = -20 (must be converted to uintptr via int32)
	var gwlExStyle int32 = -20
	const (
		WS_EX_TRANSPARENT = uintptr(0x00000020)
		WS_EX_LAYERED     = uintptr(0x00080000)
		WS_EX_NOACTIVATE  = uintptr(0x08000000)
		LWA_ALPHA         = 0x2
	)
	style, _, _ := procGetWindowLongPtr.Call(hwnd, uintptr(gwlExStyle))
	style |= WS_EX_TRANSPARENT | WS_EX_LAYERED | WS_EX_NOACTIVATE
	procSetWindowLongPtr.Call(hwnd, uintptr(gwlExStyle), style)
	// A layered window stays invisible until its attributes are set.
	procSetLayeredWindowAttributes.Call(hwnd, 0, 255, LWA_ALPHA)

	const (
		HWND_BOTTOM    = 1
		SWP_NOSIZE     = 0x0001
		SWP_NOMOVE     = 0x0002
		SWP_NOACTIVATE = 0x0010
	)
	ret, _, _ := procSetWindowPos.Call(hwnd, HWND_BOTTOM, 0, 0, 0, 0, SWP_NOSIZE|SWP_NOMOVE|SWP_NOACTIVATE)
	return ret != 0
}
