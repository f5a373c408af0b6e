package core

import (
	"path/filepath"
	"regexp"
	"strings"
)

// ManifestProber is the read-only manifest lookup the resolver needs.
type ManifestProber interface {
	Probe(appid int) *AppManifest
}

// PathResolver computes the canonical on-disk install directory for a
// game. A manifest-declared installdir always wins over the sanitized
// display name: the client may already track the app under a different
// folder, and inventing a second one would orphan it.
type PathResolver struct {
	config    *Config
	manifests ManifestProber
}

func NewPathResolver(config *Config, manifests ManifestProber) *PathResolver {
	return &PathResolver{
		config:    config,
		manifests: manifests,
	}
}

var (
	invalidPathChars = regexp.MustCompile(`[^A-Za-z0-9_ -]`)
	underscoreRuns   = regexp.MustCompile(`_+`)
)

var selectionStatusSuffixes = []string{
	" [" + StatusInstalled + "]",
	" [" + StatusNotInstalled + "]",
}

// SanitizeName turns a display name (possibly a selection label with a
// status suffix) into a filesystem-safe folder name.
func SanitizeName(name string) string {
	for _, suffix := range selectionStatusSuffixes {
		name = strings.TrimSuffix(name, suffix)
	}

	name = invalidPathChars.ReplaceAllString(name, "_")
	name = strings.ReplaceAll(name, " ", "_")
	name = underscoreRuns.ReplaceAllString(name, "_")
	return strings.Trim(name, "_")
}

// Resolve returns the absolute install path for an app. Side-effect free
// except for the read-only manifest probe. Deterministic for a fixed
// manifest state.
func (r *PathResolver) Resolve(name string, appid int) string {
	installDir := SanitizeName(name)

	if manifest := r.manifests.Probe(appid); manifest != nil && manifest.InstallDir != "" {
		installDir = manifest.InstallDir
	}

	return filepath.Join(r.config.LibraryRoot(), installDir)
}
