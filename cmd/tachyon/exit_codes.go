package main

import (
	"errors"
	"os"

	tachyon "github.com/alnah/go-tachyon"
	"github.com/alnah/go-tachyon/internal/config"
)

// Exit codes for the tachyon CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful build
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied, store errors
	ExitParse   = 4 // Malformed markup
	ExitUpload  = 5 // FTP mirroring failed
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Upload errors (exit 5)
	if errors.Is(err, tachyon.ErrUpload) {
		return ExitUpload
	}

	// Parse errors (exit 4)
	if errors.Is(err, tachyon.ErrParse) ||
		errors.Is(err, tachyon.ErrEmptyDocument) {
		return ExitParse
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, tachyon.ErrInvalidOption) ||
		errors.Is(err, tachyon.ErrInvalidIndent) ||
		errors.Is(err, tachyon.ErrStyleNotFound) ||
		errors.Is(err, tachyon.ErrTemplateSetNotFound) ||
		errors.Is(err, tachyon.ErrIncompleteTemplateSet) ||
		errors.Is(err, tachyon.ErrInvalidAssetPath) ||
		errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrUnsupportedShell) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, tachyon.ErrSourceRoot) ||
		errors.Is(err, tachyon.ErrStore) ||
		errors.Is(err, ErrReadSource) ||
		errors.Is(err, ErrWriteOutput) {
		return ExitIO
	}

	return ExitGeneral
}
