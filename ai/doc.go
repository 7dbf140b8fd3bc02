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

// Package ai provides abstractions for the AI services used in docmem.
//
// The ingestion pipeline and search layer depend only on the Embedder
// interface defined here, never on a concrete implementation.
//
// # Implementation Packages
//
//   - ai/openai: production implementation using OpenAI-compatible APIs
//   - ai/mock: test doubles for unit testing without external services
//
// # Constructor Return Type Pattern
//
// Public constructors (openai.NewEmbedder) return the Embedder INTERFACE to
// enforce abstraction and prevent coupling to a concrete implementation.
// Test utility constructors (mock.NewMockEmbedder) return CONCRETE types so
// tests can inject behavior and assert on call counts.
//
//	embedder, err := openai.NewEmbedder(config)  // returns ai.Embedder
//	mockEmbed := mock.NewMockEmbedder()          // returns *mock.MockEmbedder
package ai
