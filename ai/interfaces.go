package ai

import "context"

// Embedder turns text into vectors for similarity search. The ingestion
// pipeline embeds chunk batches on write and the searcher embeds queries
// on read, so implementations must be safe for concurrent use.
type Embedder interface {
	// EmbedText embeds a single string. Used for query-time embedding
	// where there is only ever one input.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts embeds a batch in one round trip. Output order matches
	// input order. An error means no usable vectors were produced; a
	// partial result is never returned.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}
