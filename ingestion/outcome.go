package ingestion

import "github.com/poiesic/docmem/core"

// ChunkOutcome reports what happened to one chunk of an ingested document.
type ChunkOutcome struct {
	// Index is the chunk's ordinal within the document.
	Index int

	// Fingerprint is the chunk's content digest, which is also its storage
	// record identifier.
	Fingerprint core.Fingerprint

	// Stored is true when the chunk was newly persisted by this ingestion.
	Stored bool

	// DuplicateOf names the existing record when the chunk was skipped as a
	// tier-scoped duplicate. Empty otherwise.
	DuplicateOf core.Fingerprint

	// Category classifies the failure when the chunk could not be persisted
	// after retries. Empty on success or duplicate skip.
	Category core.Category

	// Err is the last error observed for a failed chunk.
	Err error
}

// Outcome summarizes one document ingestion.
type Outcome struct {
	// Source is the document's source identifier.
	Source string

	// Tier is the routed destination tier.
	Tier core.Tier

	// Collection is the storage collection the tier maps to.
	Collection string

	// Fingerprint is the whole-document digest of the normalized text.
	Fingerprint core.Fingerprint

	// Stored is true when at least one chunk was newly persisted.
	Stored bool

	// ChunkCount is the total number of chunks produced.
	ChunkCount int

	// Chunks holds the per-chunk results in document order.
	Chunks []ChunkOutcome

	// Metadata is the merged front matter and caller-supplied metadata that
	// was attached to each persisted record.
	Metadata map[string]string
}

// Duplicates returns how many chunks were skipped as duplicates.
func (o *Outcome) Duplicates() int {
	n := 0
	for _, c := range o.Chunks {
		if c.DuplicateOf != "" {
			n++
		}
	}
	return n
}

// FailedChunks returns the indices of chunks that could not be persisted.
func (o *Outcome) FailedChunks() []int {
	var failed []int
	for _, c := range o.Chunks {
		if c.Err != nil {
			failed = append(failed, c.Index)
		}
	}
	return failed
}
