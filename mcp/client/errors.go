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

package client

import "errors"

var (
	// ErrTransportRequired indicates NewClient was given a nil transport.
	ErrTransportRequired = errors.New("transport required")

	// ErrAlreadyStarted indicates Start was called more than once.
	ErrAlreadyStarted = errors.New("worker already started")

	// ErrNotReady indicates a request was issued before the worker
	// finished initializing or after it stopped.
	ErrNotReady = errors.New("worker not ready")

	// ErrStartTimeout indicates the worker did not answer initialize
	// within the start timeout.
	ErrStartTimeout = errors.New("worker start timed out")

	// ErrStopped indicates the worker stopped while a request was in
	// flight.
	ErrStopped = errors.New("worker stopped")
)
