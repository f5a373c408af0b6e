// Package platform holds the per-OS pieces: locating the Steam root,
// and controlling the external Steam client process.
package platform

import "time"

// SteamClient controls the external client process. Everything here is
// best-effort; the caller never treats a failed restart as a failed
// operation.
type SteamClient struct{}

func NewSteamClient() *SteamClient {
	return &SteamClient{}
}

func (c *SteamClient) IsRunning() bool {
	return isSteamRunning()
}

// TerminateAndRelaunch asks the client to shut down, waits for it to
// exit, then starts it again silently and detached. The relaunched
// process is never awaited.
func (c *SteamClient) TerminateAndRelaunch() error {
	if isSteamRunning() {
		if err := terminateSteam(); err != nil {
			return err
		}
		waitForSteamExit(10 * time.Second)
	}

	return launchSteam()
}

func waitForSteamExit(timeout time.Duration) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if !isSteamRunning() {
			return
		}
		time.Sleep(500 * time.Millisecond)
	}
}

// SteamRoot returns the conventional per-user Steam install root.
func SteamRoot() string {
	return steamRoot()
}
