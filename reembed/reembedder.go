// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package reembed

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/poiesic/triage/ai"
	"github.com/poiesic/triage/core"
	"github.com/poiesic/triage/storage"
)

// Config holds configuration for the reembedding operation.
type Config struct {
	// BatchSize is the number of documents embedded per call
	BatchSize int

	// ReportInterval is how often to report progress (number of documents)
	ReportInterval int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      DefaultBatchSize,
		ReportInterval: DefaultBatchSize,
	}
}

// Reembedder rebuilds the vectors of one collection.
type Reembedder struct {
	repo       storage.CollectionRepository
	collection string
	embedder   ai.Embedder
	config     *Config
	progress   io.Writer
	processor  *BatchProcessor
	iterator   *DocumentIterator
}

// NewReembedder creates a new reembedder.
// progress: where to write progress output (typically os.Stderr)
func NewReembedder(repo storage.CollectionRepository, collection string, embedder ai.Embedder, config *Config, progress io.Writer) (*Reembedder, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if progress == nil {
		progress = io.Discard
	}

	return &Reembedder{
		repo:       repo,
		collection: collection,
		embedder:   embedder,
		config:     config,
		progress:   progress,
		processor:  NewBatchProcessor(repo, collection, embedder),
		iterator:   NewDocumentIterator(repo, collection, config.BatchSize),
	}, nil
}

// Run re-embeds every document in the collection and records the new
// embedder on the collection. It returns the number of documents processed.
func (r *Reembedder) Run(ctx context.Context) (int, error) {
	info, err := r.repo.GetCollection(ctx, r.collection)
	if err != nil {
		return 0, fmt.Errorf("failed to open collection %q: %w", r.collection, err)
	}

	total, err := r.repo.CountDocuments(ctx, r.collection)
	if err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}

	info.Embedder = r.embedder.Name()
	if total == 0 {
		fmt.Fprintf(r.progress, "No documents in collection %q\n", r.collection)
		info.Dimension = 0
		return 0, r.repo.UpdateCollection(ctx, info)
	}

	fmt.Fprintf(r.progress, "Reembedding %d documents in %q with %s (batch size: %d)\n",
		total, r.collection, r.embedder.Name(), r.config.BatchSize)

	tracker := NewProgressTracker(r.progress, r.collection, total, r.config.ReportInterval)
	tracker.Start()

	processed := 0
	err = r.iterator.ForEach(ctx, func(docs []*core.Document) error {
		dimension, err := r.processor.Process(ctx, docs)
		if err != nil {
			return fmt.Errorf("failed to process batch: %w", err)
		}
		info.Dimension = dimension
		processed += len(docs)
		tracker.Add(len(docs))
		return nil
	})
	if err != nil {
		return processed, err
	}

	if err := r.repo.UpdateCollection(ctx, info); err != nil {
		return processed, fmt.Errorf("failed to update collection: %w", err)
	}

	tracker.Finish()
	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Reembedding complete. Processed %d documents in %v (%.1f docs/sec)\n",
		processed, elapsed.Round(time.Millisecond), perSecond(processed, elapsed))

	return processed, nil
}
