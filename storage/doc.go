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

// Package storage provides the storage abstraction layer for the triage copilot.
//
// This package defines repository interfaces that decouple the knowledge-base
// store from the code that embeds and retrieves documents. The badger
// subpackage provides the persistent implementation.
//
// # Constructor Return Type Pattern
//
// Public constructors in implementation packages return the interface:
//
//	repo, err := badger.NewCollectionRepository(backend)  // returns storage.CollectionRepository
//
// # Architecture
//
//   - Repository: transaction and lifecycle operations
//   - CollectionRepository: named collections, their documents, and vector search
//
// Values are encoded with mus-go (see MarshalDocument and MarshalCollectionInfo).
//
// # Usage
//
// Use in tests with in-memory storage:
//
//	repo, backend, err := badger.NewMemoryRepository()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//	defer repo.Close()
//
// # Context Support
//
// All repository methods accept context.Context for cancellation.
package storage
