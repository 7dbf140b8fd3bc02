package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/docmem/ai"
	"github.com/poiesic/docmem/core"
	"github.com/poiesic/docmem/markdown"
	"github.com/poiesic/docmem/retry"
	"github.com/poiesic/docmem/storage"
)

// Pipeline orchestrates document ingestion into tiered memory collections.
// A Pipeline holds no per-document state and is safe for concurrent use.
type Pipeline struct {
	store        storage.MemoryStore
	embedder     ai.Embedder
	executor     *retry.Executor
	stats        *retry.Stats
	normalizer   *markdown.Normalizer
	chunker      *markdown.Chunker
	pool         *ants.Pool
	chunkSize    int
	chunkOverlap int
	logger       *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithChunking sets the chunk size and overlap, both in words.
// Defaults are markdown.DefaultChunkSize and markdown.DefaultChunkOverlap.
func WithChunking(size, overlap int) Option {
	return func(p *Pipeline) error {
		if err := core.ValidateChunking(size, overlap); err != nil {
			return err
		}
		p.chunkSize = size
		p.chunkOverlap = overlap
		return nil
	}
}

// WithExecutor sets the retry executor guarding storage and embedding calls.
// Default is an executor built from storage.Classify with fresh stats.
func WithExecutor(executor *retry.Executor) Option {
	return func(p *Pipeline) error {
		p.executor = executor
		return nil
	}
}

// WithStats sets the error-event counters used by the default executor.
// Ignored when WithExecutor is also given.
func WithStats(stats *retry.Stats) Option {
	return func(p *Pipeline) error {
		p.stats = stats
		return nil
	}
}

// WithPoolSize sets the worker pool size for batch ingestion.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(store storage.MemoryStore, embedder ai.Embedder, opts ...Option) (*Pipeline, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		store:        store,
		embedder:     embedder,
		pool:         pool,
		chunkSize:    markdown.DefaultChunkSize,
		chunkOverlap: markdown.DefaultChunkOverlap,
		logger:       slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	if p.executor == nil {
		if p.stats == nil {
			p.stats = retry.NewStats()
		}
		executor, execErr := retry.NewExecutor(storage.Classify, p.stats, retry.WithLogger(p.logger))
		if execErr != nil {
			p.Release()
			return nil, execErr
		}
		p.executor = executor
	}
	p.stats = p.executor.Stats()

	chunker, err := markdown.NewChunker(
		markdown.WithChunkSize(p.chunkSize),
		markdown.WithChunkOverlap(p.chunkOverlap),
	)
	if err != nil {
		p.Release()
		return nil, err
	}
	p.chunker = chunker

	// Normalizer failures count against the same stats as retry attempts,
	// so fail-open cleanup regressions show up in system status.
	p.normalizer = markdown.NewNormalizer(
		markdown.WithLogger(p.logger),
		markdown.WithEventRecorder(p.stats),
	)

	return p, nil
}

// Stats returns the error-event counters shared by the pipeline's
// normalizer and retry executor.
func (p *Pipeline) Stats() *retry.Stats {
	return p.stats
}

// Ingest runs the full pipeline for one document and persists its chunks
// into the tier's collection. Chunk persistence failures do not abort the
// document; they are reported per chunk in the Outcome.
func (p *Pipeline) Ingest(ctx context.Context, doc *core.Document, tier core.Tier) (*Outcome, error) {
	if err := core.ValidateDocument(doc); err != nil {
		return nil, err
	}
	collection, err := tier.Collection()
	if err != nil {
		return nil, err
	}

	canonical, frontMatter := p.normalizer.Normalize(doc.Text)
	metadata := mergeMetadata(frontMatter, doc.Metadata)

	sections := markdown.ExtractSections(canonical)
	chunks := p.chunker.Chunk(sections)
	if len(chunks) == 0 {
		return nil, core.ErrEmptyDocument
	}

	outcome := &Outcome{
		Source:      doc.Source,
		Tier:        tier,
		Collection:  collection,
		Fingerprint: core.FingerprintText(canonical),
		ChunkCount:  len(chunks),
		Chunks:      make([]ChunkOutcome, 0, len(chunks)),
		Metadata:    metadata,
	}

	vectors, err := p.embedChunks(ctx, chunks)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	for i, chunk := range chunks {
		result := p.persistChunk(ctx, collection, tier, chunk, vectors[i], metadata, now)
		if result.Stored {
			outcome.Stored = true
		}
		outcome.Chunks = append(outcome.Chunks, result)
	}

	p.logger.Info("document ingested",
		"source", doc.Source,
		"tier", tier.String(),
		"chunks", outcome.ChunkCount,
		"stored", outcome.Stored,
		"duplicates", outcome.Duplicates(),
		"failed", len(outcome.FailedChunks()))

	return outcome, nil
}

// CheckResult reports whether content already exists within a tier.
type CheckResult struct {
	// Fingerprint is the whole-document digest of the normalized content.
	Fingerprint core.Fingerprint

	// ChunkCount is how many chunks the content produces.
	ChunkCount int

	// ExistingChunks is how many of those chunks are already stored.
	ExistingChunks int

	// Duplicate is true when every chunk already exists in the collection.
	Duplicate bool
}

// CheckDuplicate reports whether content would be skipped as a duplicate if
// ingested into the tier. The check runs the same normalize, segment, and
// chunk path as Ingest, so its answer matches what Ingest would do.
func (p *Pipeline) CheckDuplicate(ctx context.Context, text string, tier core.Tier) (*CheckResult, error) {
	collection, err := tier.Collection()
	if err != nil {
		return nil, err
	}

	canonical, _ := p.normalizer.Normalize(text)
	chunks := p.chunker.Chunk(markdown.ExtractSections(canonical))

	result := &CheckResult{
		Fingerprint: core.FingerprintText(canonical),
		ChunkCount:  len(chunks),
	}

	for _, chunk := range chunks {
		existing, findErr := p.findExisting(ctx, collection, core.FingerprintText(chunk.Text))
		if findErr != nil {
			return nil, findErr
		}
		if existing != nil {
			result.ExistingChunks++
		}
	}
	result.Duplicate = result.ChunkCount > 0 && result.ExistingChunks == result.ChunkCount

	return result, nil
}

// AnalysisResult summarizes content without touching storage.
type AnalysisResult struct {
	Fingerprint core.Fingerprint
	Words       int
	Sections    int
	Chunks      int
	Summary     string
	Metadata    map[string]string
}

// Analyze normalizes content and reports its structure: word count, section
// and chunk counts, fingerprint, extracted front matter, and a short summary.
func (p *Pipeline) Analyze(text string) *AnalysisResult {
	canonical, metadata := p.normalizer.Normalize(text)
	sections := markdown.ExtractSections(canonical)
	chunks := p.chunker.Chunk(sections)

	return &AnalysisResult{
		Fingerprint: core.FingerprintText(canonical),
		Words:       markdown.WordCount(canonical),
		Sections:    len(sections),
		Chunks:      len(chunks),
		Summary:     markdown.Summary(canonical, 200),
		Metadata:    metadata,
	}
}

// Release releases the batch worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}

// embedChunks generates embeddings for all chunk texts in one batch call,
// guarded by the retry executor.
func (p *Pipeline) embedChunks(ctx context.Context, chunks []core.Chunk) ([][]float32, error) {
	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	var vectors [][]float32
	err := p.executor.Execute(ctx, "embed", func() error {
		var embedErr error
		vectors, embedErr = p.embedder.EmbedTexts(ctx, texts)
		return embedErr
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEmbeddingFailed, err)
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("%w: got %d vectors for %d chunks", ErrEmbeddingFailed, len(vectors), len(chunks))
	}
	return vectors, nil
}

// persistChunk runs dedup check and persistence for a single chunk.
func (p *Pipeline) persistChunk(ctx context.Context, collection string, tier core.Tier, chunk core.Chunk, vector []float32, metadata map[string]string, now time.Time) ChunkOutcome {
	fingerprint := core.FingerprintText(chunk.Text)
	result := ChunkOutcome{Index: chunk.Index, Fingerprint: fingerprint}

	existing, err := p.findExisting(ctx, collection, fingerprint)
	if err != nil {
		result.Err = err
		result.Category = storage.Classify(err)
		return result
	}
	if existing != nil {
		result.DuplicateOf = existing.Fingerprint
		return result
	}

	record := &core.IngestionRecord{
		Fingerprint: fingerprint,
		Tier:        tier.String(),
		Collection:  collection,
		Text:        chunk.Text,
		Vector:      vector,
		Metadata:    metadata,
		IngestedAt:  now,
	}

	err = p.executor.Execute(ctx, "upsert", func() error {
		return p.store.Upsert(ctx, collection, record)
	})
	if err != nil {
		p.logger.Warn("chunk persistence failed",
			"collection", collection, "chunk", chunk.Index, "err", err)
		result.Err = err
		result.Category = storage.Classify(err)
		return result
	}

	result.Stored = true
	return result
}

// findExisting looks up a fingerprint in a collection through the retry
// executor. A miss is not an error; it returns (nil, nil).
func (p *Pipeline) findExisting(ctx context.Context, collection string, fingerprint core.Fingerprint) (*core.IngestionRecord, error) {
	var found *core.IngestionRecord
	err := p.executor.Execute(ctx, "find", func() error {
		record, findErr := p.store.FindByFingerprint(ctx, collection, fingerprint)
		if findErr != nil {
			if errors.Is(findErr, storage.ErrNotFound) {
				return nil
			}
			return findErr
		}
		found = record
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// mergeMetadata combines front matter with caller-supplied metadata.
// Caller-supplied keys win on conflict.
func mergeMetadata(frontMatter, explicit map[string]string) map[string]string {
	if len(frontMatter) == 0 && len(explicit) == 0 {
		return nil
	}
	merged := make(map[string]string, len(frontMatter)+len(explicit))
	for k, v := range frontMatter {
		merged[k] = v
	}
	for k, v := range explicit {
		merged[k] = v
	}
	return merged
}
