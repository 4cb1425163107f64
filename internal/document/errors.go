package document

import "errors"

// Named errors returned by the document source.
var (
	// ErrNotFound is returned when the document file does not exist.
	ErrNotFound = errors.New("document not found")

	// ErrUnreadable is returned when the document file exists but cannot be read.
	ErrUnreadable = errors.New("document unreadable")

	// ErrInvalid is returned when the document content is not a single valid JSON value.
	ErrInvalid = errors.New("document is not valid JSON")
)
