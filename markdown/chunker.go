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


package markdown

import (
	"strings"

	"github.com/poiesic/docmem/core"
)

// DefaultChunkSize is the default chunk size in words.
const DefaultChunkSize = 900

// DefaultChunkOverlap is the default word overlap between adjacent chunks.
const DefaultChunkOverlap = 200

// Chunker tiles section text into fixed-size, overlapping word chunks.
// Chunks never span a section boundary.
type Chunker struct {
	chunkSize int
	overlap   int
}

// ChunkerOption configures a Chunker.
type ChunkerOption func(*Chunker)

// WithChunkSize sets the chunk size in words.
func WithChunkSize(size int) ChunkerOption {
	return func(c *Chunker) {
		c.chunkSize = size
	}
}

// WithChunkOverlap sets the word overlap between adjacent chunks.
func WithChunkOverlap(overlap int) ChunkerOption {
	return func(c *Chunker) {
		c.overlap = overlap
	}
}

// NewChunker creates a Chunker. Overlap must be strictly smaller than the
// chunk size; violating that is a validation error raised here, before any
// chunking can occur.
func NewChunker(opts ...ChunkerOption) (*Chunker, error) {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}
	for _, opt := range opts {
		opt(c)
	}
	if err := core.ValidateChunking(c.chunkSize, c.overlap); err != nil {
		return nil, err
	}
	return c, nil
}

// Chunk walks each section word by word, emitting a chunk every chunkSize
// words. Each chunk after a section's first begins overlap words before the
// end of the previous chunk; the final chunk of a section is never padded
// beyond the section's remaining words. Dropping each chunk's declared
// Overlap and joining the rest with single spaces reconstructs the section's
// exact word stream (see Reassemble).
func (c *Chunker) Chunk(sections []core.Section) []core.Chunk {
	var chunks []core.Chunk

	index := 0
	for si, section := range sections {
		words := strings.Fields(section.Body)
		if len(words) == 0 {
			continue
		}

		start := 0
		prevEnd := 0
		for {
			end := start + c.chunkSize
			if end > len(words) {
				end = len(words)
			}

			overlap := 0
			if start > 0 {
				overlap = prevEnd - start
			}

			chunks = append(chunks, core.Chunk{
				Index:        index,
				Section:      si,
				SectionTitle: section.Title,
				Text:         strings.Join(words[start:end], " "),
				Size:         end - start,
				Overlap:      overlap,
			})
			index++

			if end == len(words) {
				break
			}
			prevEnd = end
			start = end - c.overlap
		}
	}

	return chunks
}

// Reassemble re-tiles chunks back into the document's word stream: each
// chunk after a section's first contributes its words minus the declared
// overlap. The result equals the normalized text's words joined by single
// spaces, which is the lossless re-tiling invariant tests rely on.
func Reassemble(chunks []core.Chunk) string {
	var words []string
	for _, chunk := range chunks {
		w := strings.Fields(chunk.Text)
		if chunk.Overlap > 0 && chunk.Overlap <= len(w) {
			w = w[chunk.Overlap:]
		}
		words = append(words, w...)
	}
	return strings.Join(words, " ")
}
