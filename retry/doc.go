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

// Package retry wraps storage and network calls with classification-aware
// exponential backoff.
//
// An Executor retries an operation only while its classifier reports a
// transient error category; permanent categories propagate immediately.
// Every failed attempt is recorded against an injected Stats object, so
// callers own their counters and tests can assert on a fresh instance.
package retry
