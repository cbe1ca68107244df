//go:build !windows

package runner

import (
	"os/exec"
	"syscall"
)

// setDetachedAttrs puts the child in its own session so it survives the
// craftctl process and terminal exiting.
func setDetachedAttrs(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setsid: true,
	}
}
