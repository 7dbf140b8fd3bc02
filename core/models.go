package core

import "time"

// Document is the raw unit of ingestion: a source identifier (file path or
// logical name), the raw markdown text, and optional caller-supplied metadata.
// A Document is immutable once read.
type Document struct {
	Source   string
	Text     string
	Metadata map[string]string
}

// Section is a contiguous span of normalized text under one heading.
// Level 0 with the title "Introduction" is the unheaded preamble.
// The heading line itself is represented by Level and Title; Body holds
// everything between this heading and the next.
type Section struct {
	Level int
	Title string
	Body  string
}

// Chunk is a bounded slice of one section's text, sized for embedding.
type Chunk struct {
	// Index is the chunk's ordinal within the whole document.
	Index int

	// Section is the index of the source section within the document.
	Section int

	// SectionTitle is the source section's title, carried for filtering.
	SectionTitle string

	// Text is the chunk's content: Size words joined by single spaces.
	Text string

	// Size is the chunk length in words.
	Size int

	// Overlap is how many leading words repeat the tail of the previous
	// chunk of the same section. Always 0 for a section's first chunk.
	Overlap int
}

// IngestionRecord is the unit persisted to a storage collection. Records are
// never mutated after creation; corrections are delete-and-reinsert.
type IngestionRecord struct {
	Fingerprint Fingerprint
	Tier        string
	Collection  string
	Text        string
	Vector      []float32
	Metadata    map[string]string
	IngestedAt  time.Time
}

// QueryResult is a single match from a memory query.
type QueryResult struct {
	Record     *IngestionRecord
	Score      float32
	Collection string
}

// CollectionStats describes one storage collection.
type CollectionStats struct {
	Name          string
	DocumentCount int
}
