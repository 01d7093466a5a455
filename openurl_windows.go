//go:build windows

package main

import (
	"syscall"
	"unsafe"
)

var (
	shell32           = syscall.NewLazyDLL("shell32.dll")
	procShellExecuteW = shell32.NewProc("ShellExecuteW")
)

// openURL hands url to the default browser through ShellExecuteW.
func openURL(url string) error {
	verb, err := syscall.UTF16PtrFromString("open")
	if err != nil {
		return err
	}
	target, err := syscall.UTF16PtrFromString(url)
	if err != nil {
		return err
	}

	const swShowNormal = 1
	ret, _, callErr := procShellExecuteW.Call(
		0,
		uintptr(unsafe.Pointer(verb)),
		uintptr(unsafe.Pointer(target)),
		0,
		0,
		swShowNormal,
	)
	// ShellExecute returns a value > 32 on success
	if ret <= 32 {
		if errno, ok := callErr.(syscall.Errno); ok && errno != 0 {
			return errno
		}
		return syscall.Errno(ret)
	}
	return nil
}
