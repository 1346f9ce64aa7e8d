package reembed

import "errors"

var (
	// ErrRepositoryRequired is returned when a collection repository is not provided.
	ErrRepositoryRequired = errors.New("collection repository required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")
)
