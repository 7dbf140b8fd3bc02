package reembed

import "errors"

var (
	// ErrStoreRequired indicates a nil store was passed to NewReembedder.
	ErrStoreRequired = errors.New("store is required")

	// ErrEmbedderRequired indicates a nil embedder was passed to
	// NewReembedder.
	ErrEmbedderRequired = errors.New("embedder is required")
)
