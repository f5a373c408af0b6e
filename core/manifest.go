package core

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/andygrunwald/vdf"
)

// AppManifest is the typed view of the client's appmanifest_<appid>.acf
// file. Only the fields this system consumes are represented; everything
// else in the file is opaque client state we must not clobber.
type AppManifest struct {
	AppID      int
	Name       string
	InstallDir string
}

// ClientController is the process-control surface of the external Steam
// client. Both operations are best-effort.
type ClientController interface {
	IsRunning() bool
	TerminateAndRelaunch() error
}

// ManifestReconciler detects, generates and validates the client's
// manifest files so that externally-installed games show up in the
// client's library.
type ManifestReconciler struct {
	config *Config
	client ClientController
}

func NewManifestReconciler(config *Config, client ClientController) *ManifestReconciler {
	return &ManifestReconciler{
		config: config,
		client: client,
	}
}

type appManifestFile struct {
	AppState struct {
		AppID      string `json:"appid"`
		Name       string `json:"name"`
		InstallDir string `json:"installdir"`
	} `json:"AppState"`
}

// Probe reads the manifest for an app if one exists. A missing file, a
// parse failure or a manifest without a usable installdir all report
// "no manifest" rather than a partial match.
func (m *ManifestReconciler) Probe(appid int) *AppManifest {
	path := m.config.ManifestPath(appid)
	file, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer file.Close()

	parser := vdf.NewParser(file)
	parsed, err := parser.Parse()
	if err != nil {
		InfoLogger.Println("Ignoring unparseable manifest", path, err)
		return nil
	}

	jsonStr, err := json.Marshal(parsed)
	if err != nil {
		return nil
	}

	acf := appManifestFile{}
	if err := json.Unmarshal(jsonStr, &acf); err != nil {
		return nil
	}
	if strings.TrimSpace(acf.AppState.InstallDir) == "" {
		return nil
	}

	manifest := &AppManifest{
		AppID:      appid,
		Name:       acf.AppState.Name,
		InstallDir: acf.AppState.InstallDir,
	}
	if parsedID, err := strconv.Atoi(acf.AppState.AppID); err == nil {
		manifest.AppID = parsedID
	}

	return manifest
}

// Ensure guarantees a client-visible manifest exists for the app. An
// existing manifest is left byte-for-byte untouched, since it may carry
// build ids or ownership state we do not track. Only a first-time write
// triggers the client restart.
func (m *ManifestReconciler) Ensure(appid int, installPath string) error {
	if m.Probe(appid) != nil {
		InfoLogger.Println("Manifest already present for", appid)
		return nil
	}

	if err := m.writeManifest(appid, installPath); err != nil {
		return fmt.Errorf("%w: %v", ErrManifestWriteFailed, err)
	}

	InfoLogger.Println("Created manifest for", appid, "- restarting client")
	m.restartClient()
	return nil
}

// Remove deletes the manifest for an app. Missing files are fine.
func (m *ManifestReconciler) Remove(appid int) error {
	err := os.Remove(m.config.ManifestPath(appid))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (m *ManifestReconciler) writeManifest(appid int, installPath string) error {
	installDir := filepath.Base(installPath)
	content := renderManifest(appid, installDir, dirSizeOnDisk(installPath), m.config.SteamID, time.Now())

	dir := filepath.Dir(m.config.ManifestPath(appid))
	if _, err := os.Stat(dir); err != nil {
		return err
	}

	// Temp-and-rename so the client never observes a half-written file.
	tmp, err := os.CreateTemp(dir, fmt.Sprintf("appmanifest_%d.acf.tmp*", appid))
	if err != nil {
		return err
	}
	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	if err := os.Rename(tmp.Name(), m.config.ManifestPath(appid)); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	return nil
}

// renderManifest emits the nested key-value block the client's own
// parser expects. StateFlags 4 means fully installed.
func renderManifest(appid int, installDir string, sizeOnDisk int64, owner string, now time.Time) string {
	var b strings.Builder
	b.WriteString("\"AppState\"\n{\n")
	writeManifestField(&b, "appid", strconv.Itoa(appid))
	writeManifestField(&b, "universe", "1")
	writeManifestField(&b, "name", installDir)
	writeManifestField(&b, "StateFlags", "4")
	writeManifestField(&b, "installdir", installDir)
	writeManifestField(&b, "LastUpdated", strconv.FormatInt(now.Unix(), 10))
	writeManifestField(&b, "LastOwner", owner)
	writeManifestField(&b, "SizeOnDisk", strconv.FormatInt(sizeOnDisk, 10))
	writeManifestField(&b, "buildid", "0")
	b.WriteString("}\n")
	return b.String()
}

func writeManifestField(b *strings.Builder, key, value string) {
	fmt.Fprintf(b, "\t\"%s\"\t\t\"%s\"\n", key, value)
}

func dirSizeOnDisk(path string) int64 {
	var size int64
	filepath.Walk(path, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			size += info.Size()
		}
		return nil
	})
	return size
}

// restartClient kicks the external client so it re-scans manifests. The
// relaunch is fire-and-forget: it is not part of the install's success
// contract and is never awaited.
func (m *ManifestReconciler) restartClient() {
	if m.client == nil {
		return
	}

	if m.client.IsRunning() {
		InfoLogger.Println("Client is running, requesting restart")
	}

	go func() {
		if err := m.client.TerminateAndRelaunch(); err != nil {
			ErrorLogger.Println("Client restart failed:", err)
		}
	}()
}
