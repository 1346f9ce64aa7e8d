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

// Package docstore is the knowledge-base document store.
//
// A Store opens named collections over a storage.CollectionRepository and
// embeds text with one ai.Embedder. Vectors are normalized to unit length
// before they are stored, so similarity is the cosine of the angle between
// query and document. Re-adding a document with the same ID replaces it.
//
// A collection remembers the embedder that produced its vectors. Opening it
// with a different embedder logs a warning; stored vectors of another
// dimension are skipped at query time until the reembed package rebuilds
// them.
//
// # Usage
//
//	store, err := docstore.NewStore(repo, provider.Embedder())
//	docs, err := store.GetOrCreateCollection(ctx, docstore.DefaultCollection)
//	err = docs.Add(ctx, core.Document{ID: "sso", Text: "...", Source: "https://..."})
//	hits, err := docs.Query(ctx, "configure okta", docstore.DefaultTopK)
package docstore
