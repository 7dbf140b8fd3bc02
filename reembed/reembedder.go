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

package reembed

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/poiesic/docmem/ai"
	"github.com/poiesic/docmem/core"
	"github.com/poiesic/docmem/retry"
	"github.com/poiesic/docmem/storage"
)

// Config holds configuration for the reembedding operation.
type Config struct {
	// BatchSize is the number of records embedded per request.
	BatchSize int

	// ReportInterval is how often to report progress, in records.
	ReportInterval int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
	}
}

// Reembedder regenerates the vectors of every record in every collection.
type Reembedder struct {
	store    storage.MemoryStore
	embedder ai.Embedder
	executor *retry.Executor
	config   *Config
	progress io.Writer
}

// NewReembedder creates a reembedder. A nil executor gets a default one; a
// nil config gets DefaultConfig. Progress output typically goes to
// os.Stderr.
func NewReembedder(store storage.MemoryStore, embedder ai.Embedder, executor *retry.Executor, config *Config, progress io.Writer) (*Reembedder, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if config.BatchSize <= 0 {
		return nil, fmt.Errorf("batch size must be greater than 0")
	}
	if config.ReportInterval <= 0 {
		return nil, fmt.Errorf("report interval must be greater than 0")
	}
	if progress == nil {
		progress = io.Discard
	}

	if executor == nil {
		var err error
		executor, err = retry.NewExecutor(storage.Classify, nil)
		if err != nil {
			return nil, err
		}
	}

	return &Reembedder{
		store:    store,
		embedder: embedder,
		executor: executor,
		config:   config,
		progress: progress,
	}, nil
}

// Run reembeds every record in the database. All embedding and storage
// calls go through the retry executor; the first exhausted failure aborts
// the run so a dead embedding service does not churn through the whole
// database.
func (r *Reembedder) Run(ctx context.Context) error {
	collections, err := r.store.ListCollections(ctx)
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}

	total := 0
	for _, c := range collections {
		total += c.DocumentCount
	}
	if total == 0 {
		fmt.Fprintf(r.progress, "No records found in database (0 records)\n")
		return nil
	}

	fmt.Fprintf(r.progress, "Starting reembedding of %d records in %d collections (batch size: %d)\n",
		total, len(collections), r.config.BatchSize)

	tracker := NewProgressTracker(r.progress, total, r.config.ReportInterval)
	tracker.Start()

	processed := 0
	for _, collection := range collections {
		batch := make([]*core.IngestionRecord, 0, r.config.BatchSize)

		flush := func() error {
			if len(batch) == 0 {
				return nil
			}
			if err := r.processBatch(ctx, collection.Name, batch); err != nil {
				return err
			}
			processed += len(batch)
			tracker.Update(processed)
			batch = batch[:0]
			return nil
		}

		err := r.store.ForEachRecord(ctx, collection.Name, func(record *core.IngestionRecord) error {
			batch = append(batch, record)
			if len(batch) >= r.config.BatchSize {
				return flush()
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("collection %s: %w", collection.Name, err)
		}
		if err := flush(); err != nil {
			return fmt.Errorf("collection %s: %w", collection.Name, err)
		}
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Reembedding complete. Processed %d records in %v (%.1f records/sec)\n",
		processed, elapsed.Round(time.Second), float64(processed)/elapsed.Seconds())

	return nil
}

// processBatch embeds the batch's text and writes the records back with
// fresh vectors.
func (r *Reembedder) processBatch(ctx context.Context, collection string, records []*core.IngestionRecord) error {
	texts := make([]string, len(records))
	for i, record := range records {
		texts[i] = record.Text
	}

	var embeddings [][]float32
	err := r.executor.Execute(ctx, "reembed-embed", func() error {
		var embedErr error
		embeddings, embedErr = r.embedder.EmbedTexts(ctx, texts)
		return embedErr
	})
	if err != nil {
		return fmt.Errorf("failed to generate embeddings: %w", err)
	}
	if len(embeddings) != len(records) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(records), len(embeddings))
	}

	for i, record := range records {
		record.Vector = NormalizeVector(embeddings[i])
		upsertErr := r.executor.Execute(ctx, "reembed-upsert", func() error {
			return r.store.Upsert(ctx, collection, record)
		})
		if upsertErr != nil {
			return fmt.Errorf("failed to update record %s: %w", record.Fingerprint, upsertErr)
		}
	}

	return nil
}
