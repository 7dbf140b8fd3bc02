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

// Package mcp exposes docmem operations as Model Context Protocol tools.
//
// The server is built on the official MCP Go SDK, which handles initialize
// negotiation, request correlation, and input schema validation. Tool
// handlers receive typed input structs and return typed outputs; unknown
// tools and schema violations are rejected by the SDK with a structured
// error response, never a crash.
//
// Dependencies are injected through the Ports struct, so handlers can be
// tested against mocks without a transport.
package mcp
