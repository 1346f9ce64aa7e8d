package docstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/poiesic/triage/ai"
	"github.com/poiesic/triage/core"
	"github.com/poiesic/triage/storage"
)

const (
	// DefaultCollection is the collection used for knowledge-base documents.
	DefaultCollection = "docs"

	// DefaultTopK is the number of documents Query returns when topK is not positive.
	DefaultTopK = 3

	// defaultMinSimilarity admits every document, so the nearest ones are
	// always returned.
	defaultMinSimilarity = -1
)

var (
	// ErrRepositoryRequired is returned when a collection repository is not provided.
	ErrRepositoryRequired = errors.New("collection repository required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrEmbeddingCount indicates the embedder returned a different number of vectors than texts.
	ErrEmbeddingCount = errors.New("embedder returned wrong number of vectors")
)

// Index is the minimal document store surface used by answering and ingestion.
type Index interface {
	// Add embeds and stores documents, replacing any with the same ID.
	Add(ctx context.Context, docs ...core.Document) error

	// Query returns up to topK documents ranked by similarity to text.
	Query(ctx context.Context, text string, topK int) ([]*core.ScoredDocument, error)
}

// Store opens named collections over a repository, embedding documents
// with a single embedder.
type Store struct {
	repo          storage.CollectionRepository
	embedder      ai.Embedder
	minSimilarity float32
	logger        *slog.Logger
}

// Option configures a Store.
type Option func(*Store) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithMinSimilarity drops query results scoring below min.
// Default admits every document.
func WithMinSimilarity(min float32) Option {
	return func(s *Store) error {
		if min < -1 || min > 1 {
			return fmt.Errorf("min similarity %v outside [-1, 1]", min)
		}
		s.minSimilarity = min
		return nil
	}
}

// NewStore creates a Store.
func NewStore(repo storage.CollectionRepository, embedder ai.Embedder, opts ...Option) (*Store, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	s := &Store{
		repo:          repo,
		embedder:      embedder,
		minSimilarity: defaultMinSimilarity,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	s.logger = s.logger.With("component", "docstore")
	return s, nil
}

// Embedder returns the embedder used for new documents and queries.
func (s *Store) Embedder() ai.Embedder {
	return s.embedder
}

// Repository returns the underlying collection repository.
func (s *Store) Repository() storage.CollectionRepository {
	return s.repo
}

// GetOrCreateCollection opens the named collection, creating it on first use.
// Repeated calls with the same name address the same stored documents.
func (s *Store) GetOrCreateCollection(ctx context.Context, name string) (*Collection, error) {
	info, created, err := s.repo.GetOrCreateCollection(ctx, name, s.embedder.Name())
	if err != nil {
		return nil, fmt.Errorf("open collection %q: %w", name, err)
	}

	if created {
		s.logger.Info("created collection", "collection", name, "embedder", info.Embedder)
	} else if info.Embedder != s.embedder.Name() {
		s.logger.Warn("collection was embedded with a different model; run reembed",
			"collection", name,
			"stored_embedder", info.Embedder,
			"current_embedder", s.embedder.Name())
	}

	return &Collection{name: name, store: s}, nil
}

// Collections lists every stored collection.
func (s *Store) Collections(ctx context.Context) ([]*core.CollectionInfo, error) {
	return s.repo.ListCollections(ctx)
}
