//go:build windows

package platform

import (
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"

	"golang.org/x/sys/windows/registry"
)

const fallbackSteamRoot = `C:\Program Files (x86)\Steam`

func steamRoot() string {
	key, err := registry.OpenKey(registry.CURRENT_USER, `SOFTWARE\Valve\Steam`, registry.QUERY_VALUE)
	if err != nil {
		return fallbackSteamRoot
	}
	defer key.Close()

	steamPath, _, err := key.GetStringValue("SteamPath")
	if err != nil || steamPath == "" {
		return fallbackSteamRoot
	}

	return filepath.FromSlash(steamPath)
}

func steamExe() string {
	key, err := registry.OpenKey(registry.CURRENT_USER, `SOFTWARE\Valve\Steam`, registry.QUERY_VALUE)
	if err == nil {
		defer key.Close()
		if exe, _, err := key.GetStringValue("SteamExe"); err == nil && exe != "" {
			return filepath.FromSlash(exe)
		}
	}
	return filepath.Join(fallbackSteamRoot, "steam.exe")
}

func isSteamRunning() bool {
	cmd := exec.Command("tasklist", "/FI", "IMAGENAME eq steam.exe", "/NH")
	cmd.SysProcAttr = &syscall.SysProcAttr{HideWindow: true}
	out, err := cmd.Output()
	if err != nil {
		return false
	}
	return strings.Contains(strings.ToLower(string(out)), "steam.exe")
}

func terminateSteam() error {
	cmd := exec.Command(steamExe(), "-shutdown")
	cmd.SysProcAttr = &syscall.SysProcAttr{HideWindow: true}
	return cmd.Run()
}

func launchSteam() error {
	cmd := exec.Command(steamExe(), "-silent")
	cmd.SysProcAttr = &syscall.SysProcAttr{HideWindow: true}
	if err := cmd.Start(); err != nil {
		return err
	}
	return cmd.Process.Release()
}
