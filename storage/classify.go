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
	"context"
	"errors"

	"github.com/poiesic/docmem/core"
)

// Classify maps a storage error to a retry category. Unreachable or slow
// storage is worth retrying; rejected input and missing records are not.
func Classify(err error) core.Category {
	switch {
	case errors.Is(err, ErrUnavailable),
		errors.Is(err, ErrTimeout),
		errors.Is(err, context.DeadlineExceeded):
		return core.CategoryTransientNetwork
	case errors.Is(err, ErrResourceExhausted):
		return core.CategoryTransientResource
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, ErrInvalidRecord),
		errors.Is(err, ErrNotFound),
		errors.Is(err, ErrSerializationFailed),
		errors.Is(err, ErrStorageClosed):
		return core.CategoryPermanentValidation
	default:
		return core.CategoryPermanentUnknown
	}
}
