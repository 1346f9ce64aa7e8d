package docstore

import (
	"context"
	"fmt"

	"github.com/poiesic/triage/core"
)

// Collection is a named set of embedded documents.
type Collection struct {
	name  string
	store *Store
}

var _ Index = (*Collection)(nil)

// Name returns the collection name.
func (c *Collection) Name() string {
	return c.name
}

// Info returns the stored collection metadata.
func (c *Collection) Info(ctx context.Context) (*core.CollectionInfo, error) {
	return c.store.repo.GetCollection(ctx, c.name)
}

// Add embeds the documents in one batch and upserts them by ID.
// Documents without an ID get one derived from their source and text.
func (c *Collection) Add(ctx context.Context, docs ...core.Document) error {
	if len(docs) == 0 {
		return nil
	}

	prepared := make([]*core.Document, len(docs))
	texts := make([]string, len(docs))
	for i := range docs {
		doc := docs[i]
		if err := core.ValidateDocument(&doc); err != nil {
			return fmt.Errorf("document %d: %w", i, err)
		}
		if doc.ID == "" {
			doc.ID = core.IDFromContent(doc.Source + "\n" + doc.Text).String()
		}
		prepared[i] = &doc
		texts[i] = doc.Text
	}

	vectors, err := c.store.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed documents: %w", err)
	}
	if len(vectors) != len(prepared) {
		return fmt.Errorf("%w: got %d, want %d", ErrEmbeddingCount, len(vectors), len(prepared))
	}
	for i, doc := range prepared {
		doc.Vector = core.NormalizeVector(vectors[i])
	}

	if _, err := c.store.repo.UpsertDocuments(ctx, c.name, prepared...); err != nil {
		return fmt.Errorf("store documents: %w", err)
	}

	if err := c.recordEmbedder(ctx, len(prepared[0].Vector)); err != nil {
		return err
	}

	c.store.logger.Debug("added documents", "collection", c.name, "count", len(prepared))
	return nil
}

// recordEmbedder stamps the collection with the embedder and dimension of
// its first vectors.
func (c *Collection) recordEmbedder(ctx context.Context, dimension int) error {
	info, err := c.store.repo.GetCollection(ctx, c.name)
	if err != nil {
		return err
	}
	if info.Dimension != 0 {
		return nil
	}
	info.Dimension = dimension
	info.Embedder = c.store.embedder.Name()
	return c.store.repo.UpdateCollection(ctx, info)
}

// Query embeds text and returns up to topK stored documents ranked by
// cosine similarity. A non-positive topK means DefaultTopK. An empty
// collection yields no documents and no error.
func (c *Collection) Query(ctx context.Context, text string, topK int) ([]*core.ScoredDocument, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}

	vector, err := c.store.embedder.EmbedText(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vector) == 0 {
		return nil, fmt.Errorf("embed query: empty vector")
	}

	results, err := c.store.repo.FindSimilar(ctx, c.name, core.NormalizeVector(vector), c.store.minSimilarity, topK)
	if err != nil {
		return nil, fmt.Errorf("query collection %q: %w", c.name, err)
	}
	return results, nil
}

// Count returns the number of stored documents.
func (c *Collection) Count(ctx context.Context) (int, error) {
	return c.store.repo.CountDocuments(ctx, c.name)
}

// Documents returns every stored document ordered by ID.
func (c *Collection) Documents(ctx context.Context) ([]*core.Document, error) {
	return c.store.repo.ListDocuments(ctx, c.name)
}

// Delete removes documents by ID.
func (c *Collection) Delete(ctx context.Context, ids ...string) error {
	return c.store.repo.DeleteDocuments(ctx, c.name, ids...)
}
