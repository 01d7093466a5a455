//go:build !windows

package main

import (
	"os/exec"
	"runtime"

	"github.com/pkg/errors"
)

// openURL hands url to the desktop's opener command.
func openURL(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux", "freebsd", "openbsd", "netbsd":
		cmd = exec.Command("xdg-open", url)
	default:
		return errors.Errorf("opening URLs is not supported on %s", runtime.GOOS)
	}
	return errors.Wrap(cmd.Start(), "open url")
}
