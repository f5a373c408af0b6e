package core

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// Used for debugging
const printCommands = true

// Installer runs the external install step for a single app. The step
// is network-bound and may take arbitrarily long; implementations block
// until the process exits. Exit status is advisory only, the caller
// re-validates the filesystem afterwards.
type Installer interface {
	Install(ctx context.Context, appid int, installPath string) error
}

// SteamCmdInstaller shells out to steamcmd, authenticated with the
// configured account identity.
type SteamCmdInstaller struct {
	config *Config
}

func NewSteamCmdInstaller(config *Config) *SteamCmdInstaller {
	return &SteamCmdInstaller{config: config}
}

func makeCommand(ctx context.Context, cmd_string string, arg ...string) *exec.Cmd {
	if printCommands {
		InfoLogger.Println("Running Command ", cmd_string, arg)
	}

	cmd := exec.CommandContext(ctx, cmd_string, arg...)
	StripWindow(cmd)
	return cmd
}

func (i *SteamCmdInstaller) Install(ctx context.Context, appid int, installPath string) error {
	cmd := makeCommand(ctx, i.config.SteamCmd,
		"+force_install_dir", installPath,
		"+login", i.config.SteamLogin,
		"+app_update", strconv.Itoa(appid), "validate",
		"+quit")

	// steamcmd narrates progress on stdout; let the user watch it.
	cmd.Stdout = os.Stdout
	var stderr strings.Builder
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = err.Error()
		}
		return fmt.Errorf("%w: %v", ErrInstallerFailed, detail)
	}

	return nil
}
