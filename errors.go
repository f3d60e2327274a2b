package tachyon

import (
	"errors"
	"fmt"
)

// Sentinel errors for library operations.
var (
	ErrEmptyDocument = errors.New("document text cannot be empty")
	ErrParse         = errors.New("markup parse failure")
	ErrInvalidIndent = errors.New("invalid indentation settings")

	// Site build errors.
	ErrSourceRoot     = errors.New("source root is not a directory")
	ErrTemplateRender = errors.New("page template rendering failed")
	ErrStore          = errors.New("change-detection store failed")
	ErrUpload         = errors.New("upload failed")
	ErrInvalidOption  = errors.New("invalid site option")

	// Upload failures that stop mirroring before any file is sent.
	ErrUploadConnect = fmt.Errorf("%w: cannot reach server", ErrUpload)
	ErrUploadLogin   = fmt.Errorf("%w: login rejected", ErrUpload)

	// Asset loading errors.
	ErrStyleNotFound         = errors.New("style not found")
	ErrTemplateSetNotFound   = errors.New("template set not found")
	ErrIncompleteTemplateSet = errors.New("template set missing required template")
	ErrInvalidAssetPath      = errors.New("invalid asset path")
)

// wrapError creates a new error that wraps the original with a public sentinel.
// The resulting error preserves the original message via Error() and supports
// errors.Is() matching against the public sentinel via Unwrap().
func wrapError(sentinel, original error) error {
	return &wrappedError{sentinel: sentinel, original: original}
}

type wrappedError struct {
	sentinel error
	original error
}

func (e *wrappedError) Error() string {
	return e.original.Error()
}

// Unwrap returns the public sentinel for errors.Is() matching.
// Internal errors are not exposed since they're in internal/ packages.
func (e *wrappedError) Unwrap() error {
	return e.sentinel
}
