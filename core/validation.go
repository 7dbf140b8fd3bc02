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

import (
	"fmt"
	"strings"
)

// ValidateDocument validates a Document according to domain rules.
//
// Validation rules:
//   - Text must not be empty or whitespace-only
//
// NOT validated:
//   - Source (a logical name is optional; storage keys come from fingerprints)
//   - Metadata (free-form caller data)
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrEmptyDocument)
	}
	if strings.TrimSpace(doc.Text) == "" {
		return ErrEmptyDocument
	}
	return nil
}

// ValidateChunking validates a (chunkSize, overlap) pair. Both are measured
// in words. Must pass before any chunking occurs.
func ValidateChunking(chunkSize, overlap int) error {
	if chunkSize <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidChunkSize, chunkSize)
	}
	if overlap < 0 || overlap >= chunkSize {
		return fmt.Errorf("%w: overlap %d, chunk size %d", ErrOverlapTooLarge, overlap, chunkSize)
	}
	return nil
}

// ValidateRecord validates an IngestionRecord before it is handed to storage.
func ValidateRecord(record *IngestionRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidFingerprint)
	}
	if !record.Fingerprint.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidFingerprint, record.Fingerprint)
	}
	if record.Collection == "" {
		return fmt.Errorf("%w: record has no collection", ErrInvalidTier)
	}
	return nil
}
