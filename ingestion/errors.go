package ingestion

import "errors"

var (
	// ErrStoreRequired is returned when a memory store is not provided.
	ErrStoreRequired = errors.New("memory store required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrEmbeddingFailed is returned when chunk embeddings cannot be generated.
	ErrEmbeddingFailed = errors.New("embedding failed")

	// ErrNoDocuments is returned when a directory contains no markdown files.
	ErrNoDocuments = errors.New("no markdown documents found")
)
