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


// Package markdown prepares markdown documents for ingestion.
//
// It normalizes raw text into a canonical form (whitespace, heading and list
// markers, stripped HTML comments), extracts YAML front matter, splits the
// canonical text into heading-delimited sections, and tiles section text into
// fixed-size, overlapping word chunks suitable for embedding.
//
// Normalization is fail-open: it never rejects input, and an internal failure
// degrades to returning the original text unchanged so a cosmetic cleanup can
// never lose a document.
package markdown
