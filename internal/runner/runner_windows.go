//go:build windows

package runner

import (
	"os/exec"
	"syscall"
)

const createNewProcessGroup = 0x00000200

// setDetachedAttrs detaches the child from craftctl's console so it
// survives the parent exiting.
func setDetachedAttrs(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CreationFlags: createNewProcessGroup,
	}
}
