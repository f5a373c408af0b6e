//go:build darwin

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
	return filepath.Join(home, "Library", "Application Support", "Steam")
}

func isSteamRunning() bool {
	return exec.Command("pgrep", "-x", "steam_osx").Run() == nil
}

func terminateSteam() error {
	return exec.Command("osascript", "-e", `quit app "Steam"`).Run()
}

func launchSteam() error {
	return exec.Command("open", "-a", "Steam", "--args", "-silent").Start()
}
