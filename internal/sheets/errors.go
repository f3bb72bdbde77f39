package sheets

import "errors"

// Common sheets errors
var (
	// ErrMissingCredentials is returned when no service account key is configured.
	ErrMissingCredentials = errors.New("missing Google service account credentials")

	// ErrInvalidURL is returned when a URL does not point to a spreadsheet.
	ErrInvalidURL = errors.New("invalid Google Sheets URL")

	// ErrEmptySheet is returned when a sheet has no rows, not even a header.
	ErrEmptySheet = errors.New("sheet is empty")
)
