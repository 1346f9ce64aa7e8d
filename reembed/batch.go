package reembed

import (
	"context"
	"fmt"

	"github.com/poiesic/triage/ai"
	"github.com/poiesic/triage/core"
	"github.com/poiesic/triage/storage"
)

// BatchProcessor embeds batches of documents and writes them back.
type BatchProcessor struct {
	repo       storage.CollectionRepository
	collection string
	embedder   ai.Embedder
}

// NewBatchProcessor creates a new batch processor.
func NewBatchProcessor(repo storage.CollectionRepository, collection string, embedder ai.Embedder) *BatchProcessor {
	return &BatchProcessor{
		repo:       repo,
		collection: collection,
		embedder:   embedder,
	}
}

// Process embeds the documents in one call, normalizes the vectors and
// upserts the documents. It returns the vector dimension.
func (bp *BatchProcessor) Process(ctx context.Context, docs []*core.Document) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}

	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.Text
	}

	embeddings, err := bp.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("failed to generate embeddings: %w", err)
	}
	if len(embeddings) != len(docs) {
		return 0, fmt.Errorf("embedding count mismatch: expected %d, got %d", len(docs), len(embeddings))
	}

	for i := range docs {
		docs[i].Vector = core.NormalizeVector(embeddings[i])
	}

	if _, err := bp.repo.UpsertDocuments(ctx, bp.collection, docs...); err != nil {
		return 0, fmt.Errorf("failed to update documents: %w", err)
	}

	return len(docs[0].Vector), nil
}
