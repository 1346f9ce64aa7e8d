package ai

import (
	"context"

	"github.com/poiesic/triage/core"
)

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)

	// Name identifies the embedding model. Vectors from embedders with
	// different names are not comparable.
	Name() string
}

// Classifier assigns a topic, sentiment, priority and confidence to text.
// Implementations must be thread-safe for concurrent use.
type Classifier interface {
	// Classify returns the classification for text, or an error when the
	// strategy could not produce one. Implementations do not retry.
	Classify(ctx context.Context, text string) (core.Classification, error)
}

// AIProvider aggregates AI services for convenient initialization and lifecycle management.
type AIProvider interface {
	// Embedder returns the text embedding service.
	Embedder() Embedder

	// Classifier returns the primary classification strategy.
	Classifier() Classifier

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
