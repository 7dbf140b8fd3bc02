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

package storage

import (
	"fmt"

	"github.com/poiesic/docmem/core"
)

// MarshalFingerprint serializes a Fingerprint to bytes.
func MarshalFingerprint(fingerprint core.Fingerprint) []byte {
	buf := make([]byte, core.FingerprintMUS.Size(fingerprint))
	core.FingerprintMUS.Marshal(fingerprint, buf)
	return buf
}

// UnmarshalFingerprint deserializes a Fingerprint from bytes.
func UnmarshalFingerprint(data []byte) (core.Fingerprint, error) {
	fingerprint, _, err := core.FingerprintMUS.Unmarshal(data)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return fingerprint, nil
}

// MarshalIngestionRecord serializes an IngestionRecord to bytes.
func MarshalIngestionRecord(record *core.IngestionRecord) []byte {
	buf := make([]byte, core.IngestionRecordMUS.Size(*record))
	core.IngestionRecordMUS.Marshal(*record, buf)
	return buf
}

// UnmarshalIngestionRecord deserializes an IngestionRecord from bytes.
func UnmarshalIngestionRecord(data []byte) (*core.IngestionRecord, error) {
	record, _, err := core.IngestionRecordMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &record, nil
}
