package storage

import (
	"context"

	"github.com/poiesic/docmem/core"
)

// MemoryStore provides persistence for ingestion records, partitioned into
// named collections. Implementations must be thread-safe and support
// concurrent access.
type MemoryStore interface {
	// Upsert stores a record in a collection, keyed by its fingerprint.
	// Re-upserting the same fingerprint overwrites the prior record.
	Upsert(ctx context.Context, collection string, record *core.IngestionRecord) error

	// FindByFingerprint retrieves the record with the given fingerprint.
	// Returns ErrNotFound if no such record exists in the collection.
	FindByFingerprint(ctx context.Context, collection string, fingerprint core.Fingerprint) (*core.IngestionRecord, error)

	// Delete removes the record with the given fingerprint.
	// Returns ErrNotFound if no such record exists in the collection.
	Delete(ctx context.Context, collection string, fingerprint core.Fingerprint) error

	// Search finds records in a collection whose vectors are similar to the
	// given vector. Returns records with similarity >= minSimilarity, up to
	// limit results, ordered by similarity score (highest first).
	Search(ctx context.Context, collection string, vector []float32, minSimilarity float32, limit int) ([]*core.QueryResult, error)

	// ForEachRecord calls fn for every record in a collection, in key
	// order. Iteration stops at the first error from fn, which is
	// returned unchanged.
	ForEachRecord(ctx context.Context, collection string, fn func(*core.IngestionRecord) error) error

	// CollectionStats returns the record count for one collection.
	// A collection that has never been written to has a count of zero.
	CollectionStats(ctx context.Context, collection string) (*core.CollectionStats, error)

	// ListCollections returns stats for every collection ever written to,
	// ordered by name.
	ListCollections(ctx context.Context) ([]core.CollectionStats, error)

	// Close closes the storage backend and releases resources.
	Close() error
}
