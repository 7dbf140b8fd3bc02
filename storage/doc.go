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

// Package storage provides the storage abstraction layer for docmem.
//
// This package defines the MemoryStore interface that decouples the
// ingestion pipeline from the storage implementation. The pipeline treats
// the store as a remote service: every call may block on I/O and every
// error is classified into a retry category via Classify.
//
// # Constructor Return Type Pattern
//
// Public backend constructors return the MemoryStore interface rather than
// a concrete type:
//
//	store, err := badger.NewStore(backend)  // returns storage.MemoryStore
//
// This keeps consumers decoupled from BadgerDB specifics and lets tests
// substitute in-memory or mock implementations without modification.
//
// # Collections
//
// Records are partitioned into named collections, one per memory tier.
// Within a collection a record's fingerprint is its identity: upserting
// the same fingerprint overwrites, never duplicates.
//
// # Thread Safety
//
// All MemoryStore implementations must be safe for concurrent use.
//
// # Context Support
//
// All methods accept context.Context for cancellation and timeout support.
package storage
