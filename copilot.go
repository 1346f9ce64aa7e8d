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

package triage

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/poiesic/triage/ai"
	"github.com/poiesic/triage/ai/local"
	"github.com/poiesic/triage/ai/openai"
	"github.com/poiesic/triage/answer"
	"github.com/poiesic/triage/classify"
	"github.com/poiesic/triage/config"
	"github.com/poiesic/triage/core"
	"github.com/poiesic/triage/docstore"
	"github.com/poiesic/triage/ingestion"
	"github.com/poiesic/triage/reembed"
	"github.com/poiesic/triage/storage"
	"github.com/poiesic/triage/storage/badger"
)

// Copilot wires the classifier, the document store and the answer composer
// over one storage directory.
type Copilot struct {
	backend    *badger.Backend
	repo       storage.CollectionRepository
	provider   ai.AIProvider
	classifier *classify.Classifier
	store      *docstore.Store
	collection *docstore.Collection
	composer   *answer.Composer
	logger     *slog.Logger
}

// Option configures a Copilot.
type Option func(*options)

type options struct {
	aiConfig   *ai.Config
	provider   ai.AIProvider
	inMemory   bool
	collection string
	topK       int
	canned     map[core.Topic]answer.Canned
	logger     *slog.Logger
}

// WithAIConfig sets the model configuration. A configuration with a
// credential selects the hosted model and embeddings.
func WithAIConfig(cfg *ai.Config) Option {
	return func(o *options) {
		o.aiConfig = cfg
	}
}

// WithProvider sets the AI provider directly, bypassing provider selection.
// The Copilot closes it on Close.
func WithProvider(provider ai.AIProvider) Option {
	return func(o *options) {
		o.provider = provider
	}
}

// WithInMemory keeps all documents in memory. The directory is ignored.
func WithInMemory() Option {
	return func(o *options) {
		o.inMemory = true
	}
}

// WithCollectionName sets the document collection. Default is "docs".
func WithCollectionName(name string) Option {
	return func(o *options) {
		o.collection = name
	}
}

// WithTopK sets how many documents answers draw on. Default is 3.
func WithTopK(topK int) Option {
	return func(o *options) {
		o.topK = topK
	}
}

// WithCannedAnswers replaces the built-in canned answers.
func WithCannedAnswers(canned map[core.Topic]answer.Canned) Option {
	return func(o *options) {
		o.canned = canned
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithConfig applies a loaded configuration: model settings, collection,
// retrieval depth and canned answers.
func WithConfig(cfg *config.Config) Option {
	return func(o *options) {
		o.aiConfig = cfg.ModelConfig()
		o.collection = cfg.Storage.Collection
		o.topK = cfg.Answer.TopK
		if canned, err := cfg.CannedAnswers(); err == nil {
			o.canned = canned
		}
	}
}

// Open opens or creates the document store in dir and builds the copilot.
func Open(dir string, opts ...Option) (*Copilot, error) {
	o := &options{
		aiConfig:   ai.DefaultConfig(),
		collection: docstore.DefaultCollection,
		topK:       docstore.DefaultTopK,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	backend, err := badger.OpenBackend(dir, o.inMemory)
	if err != nil {
		return nil, err
	}

	c := &Copilot{backend: backend, logger: o.logger.With("component", "copilot")}
	if err := c.init(o); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Copilot) init(o *options) error {
	repo, err := badger.NewCollectionRepository(c.backend)
	if err != nil {
		return err
	}
	c.repo = repo

	provider := o.provider
	if provider == nil {
		provider, err = selectProvider(o.aiConfig)
		if err != nil {
			return err
		}
	}
	c.provider = provider

	c.classifier, err = classify.New(provider.Classifier(), classify.WithLogger(o.logger))
	if err != nil {
		return err
	}

	c.store, err = docstore.NewStore(repo, provider.Embedder(), docstore.WithLogger(o.logger))
	if err != nil {
		return err
	}

	c.collection, err = c.store.GetOrCreateCollection(context.Background(), o.collection)
	if err != nil {
		return err
	}

	composerOpts := []answer.Option{answer.WithLogger(o.logger), answer.WithTopK(o.topK)}
	if o.canned != nil {
		composerOpts = append(composerOpts, answer.WithCannedAnswers(o.canned))
	}
	c.composer, err = answer.NewComposer(c.classifier, c.collection, composerOpts...)
	if err != nil {
		return err
	}

	c.logger.Info("copilot ready",
		"strategy", c.classifier.Strategy(),
		"embedder", provider.Embedder().Name(),
		"collection", o.collection)
	return nil
}

// selectProvider uses the hosted model when a credential is configured and
// the local strategies otherwise.
func selectProvider(cfg *ai.Config) (ai.AIProvider, error) {
	if cfg == nil || !cfg.HasCredential() {
		return local.NewProvider(), nil
	}
	return openai.NewProvider(cfg)
}

// Close releases the classifier pool, the provider and the store.
func (c *Copilot) Close() error {
	var errs []error
	if c.classifier != nil {
		c.classifier.Release()
	}
	if c.provider != nil {
		if err := c.provider.Close(); err != nil {
			c.logger.Error("error closing AI provider", "err", err)
			errs = append(errs, err)
		}
	}
	if c.repo != nil {
		if err := c.repo.Close(); err != nil {
			c.logger.Error("error closing collection repository", "err", err)
			errs = append(errs, err)
		}
	}
	if c.backend != nil {
		if err := c.backend.Close(); err != nil {
			c.logger.Error("error closing backend storage", "err", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Classify classifies ticket text. It never fails.
func (c *Copilot) Classify(ctx context.Context, text string) core.Classification {
	return c.classifier.Classify(ctx, text)
}

// ClassifyAll classifies tickets concurrently, preserving their order.
func (c *Copilot) ClassifyAll(ctx context.Context, tickets []core.Ticket) ([]classify.Result, error) {
	return c.classifier.ClassifyAll(ctx, tickets)
}

// Answer classifies query and composes the reply. It never fails.
func (c *Copilot) Answer(ctx context.Context, query string) core.Answer {
	return c.composer.Answer(ctx, query)
}

// Ingest adds documents to the collection.
func (c *Copilot) Ingest(ctx context.Context, docs ...core.Document) error {
	if err := c.collection.Add(ctx, docs...); err != nil {
		c.logger.Error("ingest failed", "err", err)
		return err
	}
	return nil
}

// NewIngester creates an ingester writing to the collection.
func (c *Copilot) NewIngester(opts ...ingestion.Option) (*ingestion.Ingester, error) {
	return ingestion.NewIngester(c.collection, opts...)
}

// NewReembedder creates a reembedder that rebuilds the collection with
// the current embedder.
func (c *Copilot) NewReembedder(cfg *reembed.Config, progress io.Writer) (*reembed.Reembedder, error) {
	return reembed.NewReembedder(c.repo, c.collection.Name(), c.provider.Embedder(), cfg, progress)
}

// Classifier returns the ticket classifier.
func (c *Copilot) Classifier() *classify.Classifier {
	return c.classifier
}

// Store returns the document store.
func (c *Copilot) Store() *docstore.Store {
	return c.store
}

// Collection returns the document collection answers draw on.
func (c *Copilot) Collection() *docstore.Collection {
	return c.collection
}

// Composer returns the answer composer.
func (c *Copilot) Composer() *answer.Composer {
	return c.composer
}
