package storage

import (
	"context"

	"github.com/poiesic/triage/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close releases resources held by the repository.
	Close() error
}

// CollectionRepository stores named document collections and their documents.
type CollectionRepository interface {
	Repository

	// GetOrCreateCollection returns the named collection, creating it if absent.
	// The boolean reports whether the collection was created by this call.
	GetOrCreateCollection(ctx context.Context, name, embedder string) (*core.CollectionInfo, bool, error)

	// GetCollection retrieves a collection by name.
	// Returns ErrNotFound if the collection doesn't exist.
	GetCollection(ctx context.Context, name string) (*core.CollectionInfo, error)

	// UpdateCollection overwrites the stored collection metadata.
	// Returns ErrNotFound if the collection doesn't exist.
	UpdateCollection(ctx context.Context, info *core.CollectionInfo) error

	// ListCollections returns every collection ordered by name.
	ListCollections(ctx context.Context) ([]*core.CollectionInfo, error)

	// UpsertDocuments inserts or replaces documents by ID.
	// Sets InsertedAt on new documents and UpdatedAt on every write.
	// Returns ErrNotFound if the collection doesn't exist.
	UpsertDocuments(ctx context.Context, collection string, docs ...*core.Document) ([]*core.Document, error)

	// GetDocument retrieves a single document.
	// Returns ErrNotFound if the document doesn't exist.
	GetDocument(ctx context.Context, collection, id string) (*core.Document, error)

	// DeleteDocuments removes documents by ID. Missing IDs are ignored.
	DeleteDocuments(ctx context.Context, collection string, ids ...string) error

	// ListDocuments returns every document in a collection ordered by ID.
	ListDocuments(ctx context.Context, collection string) ([]*core.Document, error)

	// CountDocuments returns the number of documents in a collection.
	CountDocuments(ctx context.Context, collection string) (int, error)

	// FindSimilar finds documents similar to the given unit vector.
	// Returns documents with similarity >= minSimilarity, up to limit results,
	// ordered by similarity score (highest first). Documents whose vector
	// dimension differs from the query are skipped.
	FindSimilar(ctx context.Context, collection string, vector []float32, minSimilarity float32, limit int) ([]*core.ScoredDocument, error)
}
