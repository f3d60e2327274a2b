package markup

import "errors"

// Sentinel errors for compile passes.
var (
	// ErrMalformedRow indicates a line opened a table row but its cells
	// could not be extracted (missing closing pipe).
	ErrMalformedRow = errors.New("malformed table row")

	// ErrNoListing indicates a directory index was requested without a
	// directory listing collaborator.
	ErrNoListing = errors.New("directory listing unavailable")
)
