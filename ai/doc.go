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

// Package ai provides abstractions for the model-backed services used by the
// triage copilot.
//
// This package defines interfaces for text embeddings and ticket
// classification so that classification, retrieval and ingestion depend on
// abstractions rather than on a particular vendor.
//
// # Interfaces
//
//   - Embedder: Generates vector embeddings from text
//   - Classifier: Produces a topic, sentiment, priority and confidence
//   - AIProvider: Aggregates the two for convenient initialization
//
// # Implementation Packages
//
//   - ai/openai: Hosted implementation using OpenAI-compatible APIs via langchaingo
//   - ai/local: Keyword rules and a hashed term-frequency embedder; no network
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// # Constructor Return Type Pattern
//
// Public constructors (openai.NewProvider, local.NewProvider) return
// INTERFACE types. Test utility constructors (mock.NewMockEmbedder,
// mock.NewMockClassifier) return CONCRETE types so tests can inject behavior
// and assert call counts.
//
// # Usage Example
//
//	config := ai.NewConfig(ai.WithAPIKey(os.Getenv("OPENAI_API_KEY")))
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	result, err := provider.Classifier().Classify(ctx, "Okta SSO is failing")
package ai
