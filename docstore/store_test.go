package docstore

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/triage/ai/local"
	"github.com/poiesic/triage/ai/mock"
	"github.com/poiesic/triage/core"
	"github.com/poiesic/triage/storage"
	"github.com/poiesic/triage/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepo(t *testing.T) storage.CollectionRepository {
	t.Helper()
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})
	return repo
}

func setupCollection(t *testing.T) *Collection {
	t.Helper()
	store, err := NewStore(setupRepo(t), local.NewHashEmbedder(local.DefaultDimension))
	require.NoError(t, err)
	docs, err := store.GetOrCreateCollection(context.Background(), DefaultCollection)
	require.NoError(t, err)
	return docs
}

func TestNewStore_Requirements(t *testing.T) {
	_, err := NewStore(nil, local.NewHashEmbedder(0))
	assert.ErrorIs(t, err, ErrRepositoryRequired)

	_, err = NewStore(setupRepo(t), nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)

	_, err = NewStore(setupRepo(t), local.NewHashEmbedder(0), WithMinSimilarity(2))
	assert.Error(t, err)
}

func TestGetOrCreateCollection_Idempotent(t *testing.T) {
	store, err := NewStore(setupRepo(t), local.NewHashEmbedder(0))
	require.NoError(t, err)
	ctx := context.Background()

	first, err := store.GetOrCreateCollection(ctx, "docs")
	require.NoError(t, err)
	require.NoError(t, first.Add(ctx, core.Document{ID: "a", Text: "Okta SAML setup"}))

	second, err := store.GetOrCreateCollection(ctx, "docs")
	require.NoError(t, err)
	count, err := second.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	infos, err := store.Collections(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "docs", infos[0].Name)
	assert.Equal(t, "local-hash-512", infos[0].Embedder)
	assert.Equal(t, local.DefaultDimension, infos[0].Dimension)
}

func TestCollection_AddAndQuery(t *testing.T) {
	docs := setupCollection(t)
	ctx := context.Background()

	require.NoError(t, docs.Add(ctx,
		core.Document{ID: "sso", Text: "Configure Okta SAML single sign on for your workspace", Source: "https://docs.example.com/sso"},
		core.Document{ID: "lineage", Text: "Lineage is built automatically from query history and dbt manifests", Source: "https://docs.example.com/lineage"},
		core.Document{ID: "glossary", Text: "Glossary terms can be imported in bulk from CSV", Source: "https://docs.example.com/glossary"},
		core.Document{ID: "pii", Text: "Tag PII columns to mask sensitive data", Source: "https://docs.example.com/pii"},
	))

	results, err := docs.Query(ctx, "How is lineage built for dbt models?", 3)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "lineage", results[0].Document.ID)
	assert.Equal(t, "https://docs.example.com/lineage", results[0].Document.Source)
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
	}
}

func TestCollection_QueryDefaultTopK(t *testing.T) {
	docs := setupCollection(t)
	ctx := context.Background()

	for _, text := range []string{"one alpha", "two alpha", "three alpha", "four alpha", "five alpha"} {
		require.NoError(t, docs.Add(ctx, core.Document{Text: text}))
	}

	results, err := docs.Query(ctx, "alpha", 0)
	require.NoError(t, err)
	assert.Len(t, results, DefaultTopK)
}

func TestCollection_QueryEmpty(t *testing.T) {
	docs := setupCollection(t)

	results, err := docs.Query(context.Background(), "anything at all", 3)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestCollection_UpsertByID(t *testing.T) {
	docs := setupCollection(t)
	ctx := context.Background()

	require.NoError(t, docs.Add(ctx, core.Document{ID: "a", Text: "original text"}))
	require.NoError(t, docs.Add(ctx, core.Document{ID: "a", Text: "replacement text"}))

	all, err := docs.Documents(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "replacement text", all[0].Text)
}

func TestCollection_GeneratedIDsAreStable(t *testing.T) {
	docs := setupCollection(t)
	ctx := context.Background()

	doc := core.Document{Text: "same text", Source: "a.txt"}
	require.NoError(t, docs.Add(ctx, doc))
	require.NoError(t, docs.Add(ctx, doc))

	all, err := docs.Documents(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, core.IDFromContent("a.txt\nsame text").String(), all[0].ID)
}

func TestCollection_AddRejectsEmptyText(t *testing.T) {
	docs := setupCollection(t)
	err := docs.Add(context.Background(), core.Document{ID: "x", Text: "  "})
	assert.ErrorIs(t, err, core.ErrEmptyContent)
}

func TestCollection_AddNothing(t *testing.T) {
	docs := setupCollection(t)
	assert.NoError(t, docs.Add(context.Background()))
}

func TestCollection_EmbedderErrors(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	store, err := NewStore(setupRepo(t), embedder)
	require.NoError(t, err)
	docs, err := store.GetOrCreateCollection(context.Background(), "docs")
	require.NoError(t, err)

	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, errors.New("embedding service unavailable")
	}
	err = docs.Add(context.Background(), core.Document{Text: "x"})
	assert.ErrorContains(t, err, "embedding service unavailable")

	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return [][]float32{}, nil
	}
	err = docs.Add(context.Background(), core.Document{Text: "x"})
	assert.ErrorIs(t, err, ErrEmbeddingCount)

	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, errors.New("timeout")
	}
	_, err = docs.Query(context.Background(), "x", 3)
	assert.ErrorContains(t, err, "timeout")
}

func TestCollection_VectorsAreNormalized(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return [][]float32{{3, 4}}, nil
	}
	store, err := NewStore(setupRepo(t), embedder)
	require.NoError(t, err)
	docs, err := store.GetOrCreateCollection(context.Background(), "docs")
	require.NoError(t, err)

	require.NoError(t, docs.Add(context.Background(), core.Document{ID: "a", Text: "x"}))

	all, err := docs.Documents(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.InDelta(t, 0.6, all[0].Vector[0], 1e-6)
	assert.InDelta(t, 0.8, all[0].Vector[1], 1e-6)
}

func TestCollection_DimensionMismatchSkipped(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	small, err := NewStore(repo, local.NewHashEmbedder(8))
	require.NoError(t, err)
	docs, err := small.GetOrCreateCollection(ctx, "docs")
	require.NoError(t, err)
	require.NoError(t, docs.Add(ctx, core.Document{ID: "old", Text: "lineage graph"}))

	large, err := NewStore(repo, local.NewHashEmbedder(64))
	require.NoError(t, err)
	docs, err = large.GetOrCreateCollection(ctx, "docs")
	require.NoError(t, err)

	results, err := docs.Query(ctx, "lineage graph", 3)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestCollection_Delete(t *testing.T) {
	docs := setupCollection(t)
	ctx := context.Background()
	require.NoError(t, docs.Add(ctx, core.Document{ID: "a", Text: "a"}, core.Document{ID: "b", Text: "b"}))

	require.NoError(t, docs.Delete(ctx, "a"))
	count, err := docs.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
