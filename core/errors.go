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


package core

import "errors"

// Domain validation errors. These are always fatal to the single request,
// never retried, and reported immediately to the caller.
var (
	// ErrInvalidTier indicates an unknown tier name.
	ErrInvalidTier = errors.New("invalid tier")

	// ErrAgentIDRequired indicates the agent tier was requested without an
	// agent identifier.
	ErrAgentIDRequired = errors.New("agent tier requires an agent id")

	// ErrTierNameRequired indicates a custom tier was requested without a name.
	ErrTierNameRequired = errors.New("custom tier requires a name")

	// ErrEmptyDocument indicates a document with no text.
	ErrEmptyDocument = errors.New("document text cannot be empty")

	// ErrInvalidChunkSize indicates a non-positive chunk size.
	ErrInvalidChunkSize = errors.New("chunk size must be positive")

	// ErrOverlapTooLarge indicates overlap >= chunk size.
	ErrOverlapTooLarge = errors.New("overlap must be smaller than chunk size")

	// ErrInvalidFingerprint indicates a malformed fingerprint value.
	ErrInvalidFingerprint = errors.New("invalid fingerprint")
)
