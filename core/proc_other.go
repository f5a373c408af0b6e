//go:build !windows

package core

import "os/exec"

func StripWindow(cmd *exec.Cmd) {
}
