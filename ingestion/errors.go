package ingestion

import "errors"

var (
	// ErrSinkRequired is returned when a document sink is not provided.
	ErrSinkRequired = errors.New("document sink required")

	// ErrUnsupportedFile is returned for files without a supported extension.
	ErrUnsupportedFile = errors.New("unsupported file type")

	// ErrEmptyFile is returned for files with no text.
	ErrEmptyFile = errors.New("file has no text")
)
