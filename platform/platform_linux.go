//go:build linux

package platform

import (
	"os"
	"os/exec"
	"path/filepath"
)

func steamRoot() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".steam", "steam")
}

func isSteamRunning() bool {
	return exec.Command("pgrep", "-x", "steam").Run() == nil
}

func terminateSteam() error {
	return exec.Command("steam", "-shutdown").Run()
}

func launchSteam() error {
	cmd := exec.Command("steam", "-silent")
	if err := cmd.Start(); err != nil {
		return err
	}
	return cmd.Process.Release()
}
