// Package ingestion provides pipeline orchestration for document ingestion.
//
// The Pipeline type runs the end-to-end workflow for a markdown document:
//   - Normalizing the raw text and extracting front matter
//   - Segmenting into sections and overlap-aware chunks
//   - Fingerprinting each chunk and skipping tier-scoped duplicates
//   - Embedding chunk texts in a batch
//   - Persisting each surviving chunk through the retry executor
//
// A single document is processed synchronously; chunk-level persistence
// failures never abort the document. The per-chunk results, duplicates, and
// failure categories are reported in the returned Outcome, so re-ingesting
// the same document is safe: previously stored chunks are recognized as
// duplicates and skipped.
//
// Batches of documents are fanned out across a worker pool, one pipeline
// run per document.
package ingestion
