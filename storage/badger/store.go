package badger

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/docmem/core"
	"github.com/poiesic/docmem/storage"
)

// Store implements storage.MemoryStore on top of a BadgerDB backend.
// Records are keyed by collection and fingerprint, so an upsert of an
// existing fingerprint overwrites in place.
type Store struct {
	backend *Backend
}

var _ storage.MemoryStore = (*Store)(nil)

// NewStore creates a MemoryStore backed by the given backend.
func NewStore(backend *Backend) storage.MemoryStore {
	return &Store{backend: backend}
}

// Upsert stores a record in a collection, keyed by its fingerprint.
func (s *Store) Upsert(ctx context.Context, collection string, record *core.IngestionRecord) error {
	if s.backend.IsClosed() {
		return storage.ErrStorageClosed
	}
	if err := core.ValidateRecord(record); err != nil {
		return fmt.Errorf("%w: %w", storage.ErrInvalidRecord, err)
	}

	stored := *record
	stored.Collection = collection
	if stored.IngestedAt.IsZero() {
		stored.IngestedAt = time.Now().UTC()
	}

	return s.backend.WithTx(func(tx *badger.Txn) error {
		key := makeRecordKey(collection, stored.Fingerprint)
		value := storage.MarshalIngestionRecord(&stored)
		if err := tx.Set(key, value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// FindByFingerprint retrieves the record with the given fingerprint.
func (s *Store) FindByFingerprint(ctx context.Context, collection string, fingerprint core.Fingerprint) (*core.IngestionRecord, error) {
	if s.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var result *core.IngestionRecord
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		record, err := readRecord(tx, makeRecordKey(collection, fingerprint))
		if err != nil {
			return err
		}
		if record == nil {
			return storage.ErrNotFound
		}
		result = record
		return nil
	}, false)
	return result, err
}

// Delete removes the record with the given fingerprint.
func (s *Store) Delete(ctx context.Context, collection string, fingerprint core.Fingerprint) error {
	if s.backend.IsClosed() {
		return storage.ErrStorageClosed
	}

	return s.backend.WithTx(func(tx *badger.Txn) error {
		key := makeRecordKey(collection, fingerprint)

		// Read first so a missing record is reported, not silently ignored.
		record, err := readRecord(tx, key)
		if err != nil {
			return err
		}
		if record == nil {
			return storage.ErrNotFound
		}

		if err := tx.Delete(key); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Search finds records in a collection whose vectors are similar to the
// given vector. Similarity is the dot product, which equals cosine
// similarity for normalized vectors.
func (s *Store) Search(ctx context.Context, collection string, vector []float32, minSimilarity float32, limit int) ([]*core.QueryResult, error) {
	if s.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var results []*core.QueryResult
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeCollectionPrefix(collection)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var record *core.IngestionRecord
			err := iter.Item().Value(func(val []byte) error {
				var err error
				record, err = storage.UnmarshalIngestionRecord(val)
				return err
			})
			if err != nil {
				return err
			}

			// Skip records without embeddings
			if len(record.Vector) == 0 {
				continue
			}

			similarity := dotProduct(vector, record.Vector)
			if similarity >= minSimilarity {
				results = append(results, &core.QueryResult{
					Record:     record,
					Score:      similarity,
					Collection: collection,
				})
			}
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}

	// Sort by similarity descending
	slices.SortFunc(results, func(a, b *core.QueryResult) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	return results, nil
}

// ForEachRecord calls fn for every record in a collection, in key order.
func (s *Store) ForEachRecord(ctx context.Context, collection string, fn func(*core.IngestionRecord) error) error {
	if s.backend.IsClosed() {
		return storage.ErrStorageClosed
	}

	return s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeCollectionPrefix(collection)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var record *core.IngestionRecord
			err := iter.Item().Value(func(val []byte) error {
				var err error
				record, err = storage.UnmarshalIngestionRecord(val)
				return err
			})
			if err != nil {
				return err
			}
			if err := fn(record); err != nil {
				return err
			}
		}
		return nil
	}, false)
}

// CollectionStats returns the record count for one collection.
func (s *Store) CollectionStats(ctx context.Context, collection string) (*core.CollectionStats, error) {
	if s.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	count := 0
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeCollectionPrefix(collection)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	return &core.CollectionStats{Name: collection, DocumentCount: count}, nil
}

// ListCollections returns stats for every collection with at least one
// record, ordered by name.
func (s *Store) ListCollections(ctx context.Context) ([]core.CollectionStats, error) {
	if s.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	counts := make(map[string]int)
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(recordPrefix + ":")
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			collection, ok := collectionFromKey(iter.Item().Key())
			if !ok {
				continue
			}
			counts[collection]++
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	results := make([]core.CollectionStats, 0, len(counts))
	for name, count := range counts {
		results = append(results, core.CollectionStats{Name: name, DocumentCount: count})
	}
	slices.SortFunc(results, func(a, b core.CollectionStats) int {
		return strings.Compare(a.Name, b.Name)
	})
	return results, nil
}

// Close closes the underlying backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

// readRecord reads a record from the transaction. A missing key yields
// (nil, nil) so callers decide whether absence is an error.
func readRecord(tx *badger.Txn, key []byte) (*core.IngestionRecord, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var record *core.IngestionRecord
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		record, unmarshalErr = storage.UnmarshalIngestionRecord(val)
		return unmarshalErr
	})
	return record, err
}

// dotProduct calculates the dot product of two vectors.
func dotProduct(a, b []float32) float32 {
	var sum float32
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}
	for i := 0; i < minLen; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
