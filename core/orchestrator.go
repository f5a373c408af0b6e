package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// InstallationContext is the resolved target of one workflow phase. It
// is never cached across invocations and never mutated: the documented
// re-resolution point after the installer step produces a fresh value.
type InstallationContext struct {
	AppID int
	Name  string
	Path  string
}

// InstallOrchestrator drives the end-to-end install and uninstall
// workflows: resolve path, run the external installer, validate the
// filesystem result, reconcile the client manifest, commit to the
// library store. It assumes one operation in flight per library.
type InstallOrchestrator struct {
	store     *LibraryStore
	resolver  *PathResolver
	manifests *ManifestReconciler
	installer Installer
	channels  *ChannelProvider
}

func NewInstallOrchestrator(store *LibraryStore, resolver *PathResolver, manifests *ManifestReconciler, installer Installer, channels *ChannelProvider) *InstallOrchestrator {
	return &InstallOrchestrator{
		store:     store,
		resolver:  resolver,
		manifests: manifests,
		installer: installer,
		channels:  channels,
	}
}

func (o *InstallOrchestrator) log(format string, msg ...any) {
	if o.channels != nil {
		LogMessage(o.channels.Logs, format, msg...)
	} else if InfoLogger != nil {
		InfoLogger.Printf(format, msg...)
	}
}

func (o *InstallOrchestrator) resolveContext(name string, appid int) InstallationContext {
	return InstallationContext{
		AppID: appid,
		Name:  name,
		Path:  o.resolver.Resolve(name, appid),
	}
}

// InstallGame runs the full install workflow for one app. Failures at
// the subprocess or validation stage abort before any store mutation;
// a manifest-reconciliation failure is a warning only, the game files
// themselves are already valid at that point.
func (o *InstallOrchestrator) InstallGame(ctx context.Context, name string, appid int) error {
	ictx := o.resolveContext(name, appid)
	o.log("Installing %v (appid %v)", name, appid)
	o.log("Target directory: %v", ictx.Path)

	if err := os.MkdirAll(ictx.Path, os.ModePerm); err != nil {
		return fmt.Errorf("%w: creating %v: %v", ErrFilesystem, ictx.Path, err)
	}

	o.log("Running installer for %v...", appid)
	if err := o.installer.Install(ctx, appid, ictx.Path); err != nil {
		return err
	}

	o.log("Validating installation...")
	if err := validateInstallDir(ictx.Path); err != nil {
		return err
	}

	// The installer or its manifest side effects may have changed the
	// canonical installdir mid-flow. Re-resolve once, here, and surface
	// any divergence instead of silently switching paths.
	final := o.resolveContext(name, appid)
	if final.Path != ictx.Path {
		o.log("Warning: install path changed from %v to %v during install", ictx.Path, final.Path)
	}

	if err := o.manifests.Ensure(appid, final.Path); err != nil {
		// The game files are valid; client visibility is a convenience.
		o.log("Warning: manifest reconciliation failed: %v", err)
	}

	if err := o.store.MarkInstalled(appid); err != nil {
		return err
	}

	o.log("%v installed", name)
	return nil
}

// UninstallGame removes the install directory and manifest, then marks
// the game uninstalled. Cleanup is best-effort; the store commit always
// runs, so uninstalling an already-uninstalled game succeeds silently.
func (o *InstallOrchestrator) UninstallGame(ctx context.Context, name string, appid int) error {
	ictx := o.resolveContext(name, appid)
	o.log("Uninstalling %v (appid %v)", name, appid)

	if _, err := os.Stat(ictx.Path); err == nil {
		o.log("Removing %v", ictx.Path)
		if err := os.RemoveAll(ictx.Path); err != nil {
			o.log("Warning: could not remove %v: %v", ictx.Path, err)
		}
	}

	if err := o.manifests.Remove(ictx.AppID); err != nil {
		o.log("Warning: could not remove manifest: %v", err)
	}

	if err := o.store.MarkUninstalled(appid); err != nil {
		return err
	}

	o.log("%v uninstalled", name)
	return nil
}

// validateInstallDir accepts a directory that contains at least one
// file within two levels of nesting. The installer's exit status is
// advisory; this check is what decides success.
func validateInstallDir(path string) error {
	entries, err := os.ReadDir(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInstallerFailed, err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			return nil
		}

		nested, err := os.ReadDir(filepath.Join(path, entry.Name()))
		if err != nil {
			continue
		}
		for _, sub := range nested {
			if !sub.IsDir() {
				return nil
			}
		}
	}

	return fmt.Errorf("%w: no files found under %v", ErrInstallerFailed, path)
}
