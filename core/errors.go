package core

import "errors"

// Failure taxonomy for the install/uninstall workflows. Install-side
// errors abort the operation before any store mutation; manifest write
// failures are downgraded to warnings by the orchestrator.
var (
	ErrStoreUnavailable    = errors.New("library store missing or unreadable")
	ErrNotFound            = errors.New("appid not present in library store")
	ErrInstallerFailed     = errors.New("installer failed or produced no files")
	ErrManifestWriteFailed = errors.New("manifest write failed")
	ErrFilesystem          = errors.New("filesystem operation failed")
)
