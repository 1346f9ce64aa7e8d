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

package openai

import (
	"log/slog"

	"github.com/poiesic/triage/ai"
)

// Provider pairs the hosted embedder and classifier behind one credential.
type Provider struct {
	config     *ai.Config
	embedder   *Embedder
	classifier *Classifier
	logger     *slog.Logger
}

// NewProvider builds the hosted embedder and classifier. The config must
// carry a credential; callers without one use the local provider instead.
func NewProvider(config *ai.Config) (ai.AIProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if !config.HasCredential() {
		return nil, ErrMissingCredential
	}

	embedder, err := newEmbedder(config)
	if err != nil {
		return nil, err
	}

	classifier, err := newClassifier(config)
	if err != nil {
		return nil, err
	}

	return &Provider{
		config:     config,
		embedder:   embedder,
		classifier: classifier,
		logger:     slog.Default().With("component", "openai-provider"),
	}, nil
}

// Embedder returns the hosted embedder.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// Classifier returns the hosted classifier.
func (p *Provider) Classifier() ai.Classifier {
	return p.classifier
}

// Close releases the provider. The HTTP clients hold no resources to free.
func (p *Provider) Close() error {
	p.logger.Debug("closing OpenAI provider")
	return nil
}
