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

import "errors"

var (
	// ErrNotFound indicates that the requested record was not found.
	ErrNotFound = errors.New("record not found")

	// ErrUnavailable indicates that the storage service could not be reached.
	ErrUnavailable = errors.New("storage unavailable")

	// ErrTimeout indicates that a storage call exceeded its deadline.
	ErrTimeout = errors.New("storage timeout")

	// ErrResourceExhausted indicates quota exhaustion or backpressure.
	ErrResourceExhausted = errors.New("storage resource exhausted")

	// ErrUnauthorized indicates that the storage service rejected the caller.
	ErrUnauthorized = errors.New("storage unauthorized")

	// ErrInvalidRecord indicates that the record failed storage-side validation.
	ErrInvalidRecord = errors.New("invalid record")

	// ErrStorageClosed indicates that the storage backend is closed.
	ErrStorageClosed = errors.New("storage is closed")

	// ErrSerializationFailed indicates a serialization/deserialization failure.
	ErrSerializationFailed = errors.New("serialization failed")
)
