package badger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/triage/core"
	"github.com/poiesic/triage/storage"
)

// CollectionRepository implements storage.CollectionRepository for BadgerDB.
type CollectionRepository struct {
	backend *Backend
}

var _ storage.CollectionRepository = (*CollectionRepository)(nil)

// NewCollectionRepository creates a new CollectionRepository.
func NewCollectionRepository(backend *Backend) (storage.CollectionRepository, error) {
	if backend == nil {
		return nil, errors.New("backend is required")
	}
	return &CollectionRepository{backend: backend}, nil
}

// Close is a no-op; the backend owns the database handle.
func (r *CollectionRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *CollectionRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// GetOrCreateCollection returns the named collection, creating it if absent.
func (r *CollectionRepository) GetOrCreateCollection(ctx context.Context, name, embedder string) (*core.CollectionInfo, bool, error) {
	if strings.TrimSpace(name) == "" {
		return nil, false, storage.ErrEmptyCollectionName
	}
	if strings.Contains(name, keySep) {
		return nil, false, fmt.Errorf("%w: %q", storage.ErrInvalidCollectionName, name)
	}

	var info *core.CollectionInfo
	created := false
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		info, err = readCollection(tx, name)
		if err != nil || info != nil {
			return err
		}

		info = &core.CollectionInfo{
			Name:      name,
			Embedder:  embedder,
			CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
		}
		if err := tx.Set(makeCollectionKey(name), storage.MarshalCollectionInfo(info)); err != nil {
			return err
		}
		created = true
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, false, err
	}
	return info, created, nil
}

// GetCollection retrieves a collection by name.
func (r *CollectionRepository) GetCollection(ctx context.Context, name string) (*core.CollectionInfo, error) {
	var info *core.CollectionInfo
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		info, err = readCollection(tx, name)
		if err != nil {
			return err
		}
		if info == nil {
			return fmt.Errorf("collection %q: %w", name, storage.ErrNotFound)
		}
		return nil
	}, false)
	return info, err
}

// UpdateCollection overwrites the stored collection metadata.
func (r *CollectionRepository) UpdateCollection(ctx context.Context, info *core.CollectionInfo) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		existing, err := readCollection(tx, info.Name)
		if err != nil {
			return err
		}
		if existing == nil {
			return fmt.Errorf("collection %q: %w", info.Name, storage.ErrNotFound)
		}
		if err := tx.Set(makeCollectionKey(info.Name), storage.MarshalCollectionInfo(info)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// ListCollections returns every collection ordered by name.
func (r *CollectionRepository) ListCollections(ctx context.Context) ([]*core.CollectionInfo, error) {
	var result []*core.CollectionInfo
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(collectionPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var info *core.CollectionInfo
			err := iter.Item().Value(func(val []byte) error {
				var err error
				info, err = storage.UnmarshalCollectionInfo(val)
				return err
			})
			if err != nil {
				return err
			}
			result = append(result, info)
		}
		return nil
	}, false)
	return result, err
}

// UpsertDocuments inserts or replaces documents by ID.
func (r *CollectionRepository) UpsertDocuments(ctx context.Context, collection string, docs ...*core.Document) ([]*core.Document, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		info, err := readCollection(tx, collection)
		if err != nil {
			return err
		}
		if info == nil {
			return fmt.Errorf("collection %q: %w", collection, storage.ErrNotFound)
		}

		now := time.Now().UTC().Truncate(time.Microsecond)
		for _, doc := range docs {
			key := makeDocumentKey(collection, doc.ID)
			old, err := readDocument(tx, key)
			if err != nil {
				return err
			}
			if old != nil {
				doc.InsertedAt = old.InsertedAt
			} else if doc.InsertedAt.IsZero() {
				doc.InsertedAt = now
			}
			doc.UpdatedAt = now

			if err := tx.Set(key, storage.MarshalDocument(doc)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return docs, err
}

// GetDocument retrieves a single document.
func (r *CollectionRepository) GetDocument(ctx context.Context, collection, id string) (*core.Document, error) {
	var result *core.Document
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readDocument(tx, makeDocumentKey(collection, id))
		if err != nil {
			return err
		}
		if result == nil {
			return fmt.Errorf("document %q: %w", id, storage.ErrNotFound)
		}
		return nil
	}, false)
	return result, err
}

// DeleteDocuments removes documents by ID.
func (r *CollectionRepository) DeleteDocuments(ctx context.Context, collection string, ids ...string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			if err := tx.Delete(makeDocumentKey(collection, id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// ListDocuments returns every document in a collection ordered by ID.
func (r *CollectionRepository) ListDocuments(ctx context.Context, collection string) ([]*core.Document, error) {
	var result []*core.Document
	err := r.backend.scanDocuments(ctx, makeDocumentPrefix(collection), func(doc *core.Document) error {
		result = append(result, doc)
		return nil
	})
	return result, err
}

// CountDocuments returns the number of documents in a collection.
// Only keys are visited; values are never decoded.
func (r *CollectionRepository) CountDocuments(ctx context.Context, collection string) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeDocumentPrefix(collection)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// FindSimilar finds documents in a collection similar to the given vector.
func (r *CollectionRepository) FindSimilar(ctx context.Context, collection string, vector []float32, minSimilarity float32, limit int) ([]*core.ScoredDocument, error) {
	if len(vector) == 0 || limit <= 0 {
		return nil, fmt.Errorf("%w: vector length %d, limit %d", storage.ErrInvalidQuery, len(vector), limit)
	}
	return r.backend.FindSimilar(ctx, makeDocumentPrefix(collection), vector, minSimilarity, limit)
}

// Helper methods

// readCollection reads collection metadata, returning nil when absent.
func readCollection(tx *badger.Txn, name string) (*core.CollectionInfo, error) {
	item, err := tx.Get(makeCollectionKey(name))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var info *core.CollectionInfo
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		info, unmarshalErr = storage.UnmarshalCollectionInfo(val)
		return unmarshalErr
	})
	return info, err
}

// readDocument reads a document from the transaction, returning nil when absent.
func readDocument(tx *badger.Txn, key []byte) (*core.Document, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var doc *core.Document
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		doc, unmarshalErr = storage.UnmarshalDocument(val)
		return unmarshalErr
	})
	return doc, err
}
