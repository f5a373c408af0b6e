//go:build windows

package core

import (
	"os/exec"
	"syscall"
)

func StripWindow(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{HideWindow: true}
}
