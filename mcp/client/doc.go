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

// Package client manages a docmem worker process over a line-delimited
// JSON-RPC transport.
//
// The Client walks a fixed lifecycle: NotStarted, Starting, Ready,
// ShuttingDown, Stopped. Every transition that depends on the worker is
// bounded by a timeout, so a hung or crashed worker can never wedge the
// caller. Startup waits for the initialize response before reporting Ready;
// shutdown signals the worker, waits a grace period for clean exit, then
// force-kills it.
//
// Requests carry monotonically increasing identifiers and are serialized:
// a request is not written until the previous response (or a cancellation
// or transport error) has been observed. Responses are matched to waiters
// by identifier, and a response whose waiter has gone away, for example
// after the caller's context expired, is discarded rather than treated as
// an error.
//
// The Transport interface abstracts the worker connection. Production code
// uses CommandTransport, which spawns a subprocess and wires its stdin and
// stdout. Tests inject an in-memory transport so lifecycle and correlation
// behavior can be exercised without spawning processes.
package client
