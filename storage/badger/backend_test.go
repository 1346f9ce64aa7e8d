package badger

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/triage/core"
	"github.com/poiesic/triage/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenBackend_InMemory(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	assert.False(t, backend.IsClosed())
}

func TestOpenBackend_FileSystem(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "triage_db")
	backend, err := OpenBackend(dir, false)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestOpenBackend_FilePath(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(tmpFile, []byte("x"), 0644))

	backend, err := OpenBackend(tmpFile, false)
	assert.Error(t, err)
	assert.Nil(t, backend)
}

func TestBackendClose(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)

	assert.False(t, backend.IsClosed())
	require.NoError(t, backend.Close())
	assert.True(t, backend.IsClosed())
}

func TestWithTx_Closed(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	require.NoError(t, backend.Close())

	repo, err := NewCollectionRepository(backend)
	require.NoError(t, err)

	_, _, err = repo.GetOrCreateCollection(context.Background(), "docs", "local")
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
}

func TestFindSimilar_NoDocuments(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	defer backend.Close()

	results, err := backend.FindSimilar(context.Background(), makeDocumentPrefix("docs"), []float32{0.1, 0.2, 0.3}, 0.5, 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestFindSimilar_WithDocuments(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	require.NoError(t, err)
	defer func() {
		repo.Close()
		backend.Close()
	}()

	ctx := context.Background()
	_, _, err = repo.GetOrCreateCollection(ctx, "docs", "test")
	require.NoError(t, err)

	_, err = repo.UpsertDocuments(ctx, "docs",
		&core.Document{ID: "a", Text: "alpha", Vector: []float32{1, 0, 0}},
		&core.Document{ID: "b", Text: "beta", Vector: []float32{0.8, 0.6, 0}},
		&core.Document{ID: "c", Text: "gamma", Vector: []float32{0, 0, 1}},
		&core.Document{ID: "d", Text: "no vector"},
		&core.Document{ID: "e", Text: "wrong dimension", Vector: []float32{1, 0}},
	)
	require.NoError(t, err)

	results, err := backend.FindSimilar(ctx, makeDocumentPrefix("docs"), []float32{1, 0, 0}, 0.5, 10)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].Document.ID)
	assert.InDelta(t, 1.0, results[0].Score, 1e-6)
	assert.Equal(t, "b", results[1].Document.ID)
	assert.InDelta(t, 0.8, results[1].Score, 1e-6)

	limited, err := backend.FindSimilar(ctx, makeDocumentPrefix("docs"), []float32{1, 0, 0}, -1, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "a", limited[0].Document.ID)
}

func TestFindSimilar_TiesOrderedByID(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	_, _, err = repo.GetOrCreateCollection(ctx, "docs", "test")
	require.NoError(t, err)
	_, err = repo.UpsertDocuments(ctx, "docs",
		&core.Document{ID: "z", Text: "z", Vector: []float32{0, 1}},
		&core.Document{ID: "m", Text: "m", Vector: []float32{0, 1}},
	)
	require.NoError(t, err)

	results, err := backend.FindSimilar(ctx, makeDocumentPrefix("docs"), []float32{1, 0}, 0, 5)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "m", results[0].Document.ID)
	assert.Equal(t, "z", results[1].Document.ID)
}
