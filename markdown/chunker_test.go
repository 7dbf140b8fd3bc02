package markdown

import (
	"fmt"
	"strings"
	"testing"

	"github.com/poiesic/docmem/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sectionWords(sections []core.Section) string {
	var words []string
	for _, s := range sections {
		words = append(words, strings.Fields(s.Body)...)
	}
	return strings.Join(words, " ")
}

func TestChunkerValidation(t *testing.T) {
	_, err := NewChunker(WithChunkSize(5), WithChunkOverlap(5))
	assert.ErrorIs(t, err, core.ErrOverlapTooLarge)

	_, err = NewChunker(WithChunkSize(5), WithChunkOverlap(7))
	assert.ErrorIs(t, err, core.ErrOverlapTooLarge)

	_, err = NewChunker(WithChunkSize(0))
	assert.ErrorIs(t, err, core.ErrInvalidChunkSize)

	_, err = NewChunker(WithChunkSize(5), WithChunkOverlap(4))
	assert.NoError(t, err)
}

func TestChunkScenario(t *testing.T) {
	n := NewNormalizer()
	canonical, _ := n.Normalize("# Title\n\nHello world.\n\n## Sub\n\nMore text here.")
	sections := ExtractSections(canonical)
	require.Len(t, sections, 2)

	chunker, err := NewChunker(WithChunkSize(5), WithChunkOverlap(1))
	require.NoError(t, err)

	chunks := chunker.Chunk(sections)
	require.Len(t, chunks, 2)

	assert.Equal(t, "Hello world.", chunks[0].Text)
	assert.Equal(t, 0, chunks[0].Overlap)
	assert.Equal(t, "Title", chunks[0].SectionTitle)

	assert.Equal(t, "More text here.", chunks[1].Text)
	assert.Equal(t, 0, chunks[1].Overlap)
	assert.Equal(t, "Sub", chunks[1].SectionTitle)

	assert.Equal(t, sectionWords(sections), Reassemble(chunks))
}

func TestChunkOverlapping(t *testing.T) {
	words := make([]string, 12)
	for i := range words {
		words[i] = fmt.Sprintf("w%d", i)
	}
	sections := []core.Section{{Level: 1, Title: "S", Body: strings.Join(words, " ")}}

	chunker, err := NewChunker(WithChunkSize(5), WithChunkOverlap(2))
	require.NoError(t, err)

	chunks := chunker.Chunk(sections)
	require.Len(t, chunks, 4)

	assert.Equal(t, "w0 w1 w2 w3 w4", chunks[0].Text)
	assert.Equal(t, 0, chunks[0].Overlap)
	assert.Equal(t, "w3 w4 w5 w6 w7", chunks[1].Text)
	assert.Equal(t, 2, chunks[1].Overlap)
	assert.Equal(t, "w6 w7 w8 w9 w10", chunks[2].Text)
	assert.Equal(t, 2, chunks[2].Overlap)
	assert.Equal(t, "w9 w10 w11", chunks[3].Text)
	assert.Equal(t, 2, chunks[3].Overlap)

	assert.Equal(t, sectionWords(sections), Reassemble(chunks))
}

func TestChunksDoNotSpanSections(t *testing.T) {
	body := "one two three four five six"
	sections := []core.Section{
		{Level: 1, Title: "A", Body: body},
		{Level: 1, Title: "B", Body: body},
	}

	chunker, err := NewChunker(WithChunkSize(5), WithChunkOverlap(1))
	require.NoError(t, err)

	chunks := chunker.Chunk(sections)
	require.Len(t, chunks, 4)

	for _, chunk := range chunks {
		title := sections[chunk.Section].Title
		assert.Equal(t, title, chunk.SectionTitle)
	}
	// Each section's first chunk starts fresh.
	assert.Equal(t, 0, chunks[0].Overlap)
	assert.Equal(t, 0, chunks[2].Overlap)
	assert.Equal(t, 1, chunks[1].Overlap)
	assert.Equal(t, 1, chunks[3].Overlap)

	assert.Equal(t, sectionWords(sections), Reassemble(chunks))
}

func TestChunkLosslessRetiling(t *testing.T) {
	// Property check across several (chunkSize, overlap) pairs.
	var sb strings.Builder
	for i := 0; i < 137; i++ {
		fmt.Fprintf(&sb, "word%d ", i)
	}
	sections := []core.Section{
		{Level: 0, Title: "Introduction", Body: sb.String()},
		{Level: 1, Title: "Tail", Body: "alpha beta gamma"},
	}

	cases := []struct{ size, overlap int }{
		{5, 0}, {5, 1}, {5, 4}, {10, 3}, {50, 20}, {900, 200}, {1000, 0},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("size=%d overlap=%d", tc.size, tc.overlap), func(t *testing.T) {
			chunker, err := NewChunker(WithChunkSize(tc.size), WithChunkOverlap(tc.overlap))
			require.NoError(t, err)

			chunks := chunker.Chunk(sections)
			assert.Equal(t, sectionWords(sections), Reassemble(chunks))

			for i, chunk := range chunks {
				assert.Equal(t, i, chunk.Index)
				assert.LessOrEqual(t, chunk.Size, tc.size)
				assert.Less(t, chunk.Overlap, tc.size)
			}
		})
	}
}

func TestChunkSkipsEmptySections(t *testing.T) {
	sections := []core.Section{
		{Level: 1, Title: "Empty"},
		{Level: 1, Title: "Full", Body: "some words here"},
	}

	chunker, err := NewChunker(WithChunkSize(5), WithChunkOverlap(1))
	require.NoError(t, err)

	chunks := chunker.Chunk(sections)
	require.Len(t, chunks, 1)
	assert.Equal(t, "Full", chunks[0].SectionTitle)
	assert.Equal(t, 1, chunks[0].Section)
}
