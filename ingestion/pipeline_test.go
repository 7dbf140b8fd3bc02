package ingestion

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/docmem/ai/mock"
	"github.com/poiesic/docmem/core"
	"github.com/poiesic/docmem/retry"
	"github.com/poiesic/docmem/storage"
)

// fakeStore is an in-memory MemoryStore with injectable failures.
type fakeStore struct {
	mu          sync.Mutex
	collections map[string]map[core.Fingerprint]*core.IngestionRecord

	// upsertErr, when set, fails every Upsert with this error.
	upsertErr error
	// failText, when set, fails Upsert only for records with this text.
	failText string
}

func newFakeStore() *fakeStore {
	return &fakeStore{collections: make(map[string]map[core.Fingerprint]*core.IngestionRecord)}
}

func (s *fakeStore) Upsert(ctx context.Context, collection string, record *core.IngestionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.upsertErr != nil {
		return s.upsertErr
	}
	if s.failText != "" && record.Text == s.failText {
		return storage.ErrUnavailable
	}
	if s.collections[collection] == nil {
		s.collections[collection] = make(map[core.Fingerprint]*core.IngestionRecord)
	}
	stored := *record
	s.collections[collection][record.Fingerprint] = &stored
	return nil
}

func (s *fakeStore) FindByFingerprint(ctx context.Context, collection string, fingerprint core.Fingerprint) (*core.IngestionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.collections[collection][fingerprint]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return record, nil
}

func (s *fakeStore) Delete(ctx context.Context, collection string, fingerprint core.Fingerprint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.collections[collection][fingerprint]; !ok {
		return storage.ErrNotFound
	}
	delete(s.collections[collection], fingerprint)
	return nil
}

func (s *fakeStore) Search(ctx context.Context, collection string, vector []float32, minSimilarity float32, limit int) ([]*core.QueryResult, error) {
	return nil, nil
}

func (s *fakeStore) ForEachRecord(ctx context.Context, collection string, fn func(*core.IngestionRecord) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, record := range s.collections[collection] {
		if err := fn(record); err != nil {
			return err
		}
	}
	return nil
}

func (s *fakeStore) CollectionStats(ctx context.Context, collection string) (*core.CollectionStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &core.CollectionStats{Name: collection, DocumentCount: len(s.collections[collection])}, nil
}

func (s *fakeStore) ListCollections(ctx context.Context) ([]core.CollectionStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var stats []core.CollectionStats
	for name, records := range s.collections {
		stats = append(stats, core.CollectionStats{Name: name, DocumentCount: len(records)})
	}
	return stats, nil
}

func (s *fakeStore) Close() error { return nil }

func (s *fakeStore) count(collection string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.collections[collection])
}

func fastExecutor(t *testing.T) *retry.Executor {
	t.Helper()
	executor, err := retry.NewExecutor(storage.Classify, retry.NewStats(),
		retry.WithBaseDelay(time.Millisecond), retry.WithoutJitter())
	require.NoError(t, err)
	return executor
}

func newTestPipeline(t *testing.T, store storage.MemoryStore, opts ...Option) *Pipeline {
	t.Helper()
	opts = append([]Option{WithExecutor(fastExecutor(t))}, opts...)
	pipeline, err := NewPipeline(store, mock.NewMockEmbedder(), opts...)
	require.NoError(t, err)
	t.Cleanup(pipeline.Release)
	return pipeline
}

const sampleDoc = "# Title\n\nHello world.\n\n## Sub\n\nMore text here."

func TestNewPipeline_Validation(t *testing.T) {
	_, err := NewPipeline(nil, mock.NewMockEmbedder())
	assert.ErrorIs(t, err, ErrStoreRequired)

	_, err = NewPipeline(newFakeStore(), nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)

	_, err = NewPipeline(newFakeStore(), mock.NewMockEmbedder(), WithChunking(5, 5))
	assert.ErrorIs(t, err, core.ErrOverlapTooLarge)
}

func TestIngest_StoresChunks(t *testing.T) {
	store := newFakeStore()
	pipeline := newTestPipeline(t, store, WithChunking(5, 1))

	doc := &core.Document{Source: "sample.md", Text: sampleDoc}
	outcome, err := pipeline.Ingest(context.Background(), doc, core.GlobalTier())
	require.NoError(t, err)

	assert.True(t, outcome.Stored)
	assert.Equal(t, "global_memory", outcome.Collection)
	assert.Equal(t, outcome.ChunkCount, store.count("global_memory"))
	assert.True(t, outcome.Fingerprint.Valid())
	assert.Empty(t, outcome.FailedChunks())
	for _, chunk := range outcome.Chunks {
		assert.True(t, chunk.Stored)
		assert.Empty(t, chunk.DuplicateOf)
	}
}

func TestIngest_IdempotentReingestion(t *testing.T) {
	store := newFakeStore()
	pipeline := newTestPipeline(t, store, WithChunking(5, 1))
	ctx := context.Background()

	doc := &core.Document{Source: "sample.md", Text: sampleDoc}
	first, err := pipeline.Ingest(ctx, doc, core.GlobalTier())
	require.NoError(t, err)
	require.True(t, first.Stored)
	countAfterFirst := store.count("global_memory")

	second, err := pipeline.Ingest(ctx, doc, core.GlobalTier())
	require.NoError(t, err)

	assert.False(t, second.Stored, "nothing new stored on re-ingestion")
	assert.Equal(t, second.ChunkCount, second.Duplicates(), "every chunk reported as duplicate")
	for _, chunk := range second.Chunks {
		assert.Equal(t, chunk.Fingerprint, chunk.DuplicateOf)
	}
	assert.Equal(t, countAfterFirst, store.count("global_memory"), "store count unchanged")
}

func TestIngest_TierIsolation(t *testing.T) {
	store := newFakeStore()
	pipeline := newTestPipeline(t, store, WithChunking(5, 1))
	ctx := context.Background()

	doc := &core.Document{Source: "sample.md", Text: sampleDoc}
	_, err := pipeline.Ingest(ctx, doc, core.GlobalTier())
	require.NoError(t, err)

	outcome, err := pipeline.Ingest(ctx, doc, core.LearnedTier())
	require.NoError(t, err)

	assert.True(t, outcome.Stored, "same content in another tier is not a duplicate")
	assert.Zero(t, outcome.Duplicates())
}

func TestIngest_InvalidTierBeforeStorage(t *testing.T) {
	store := newFakeStore()
	pipeline := newTestPipeline(t, store)

	doc := &core.Document{Source: "sample.md", Text: sampleDoc}
	_, err := pipeline.Ingest(context.Background(), doc, core.Tier{Kind: "bogus"})
	assert.ErrorIs(t, err, core.ErrInvalidTier)
	assert.Zero(t, store.count("global_memory"), "no storage call for invalid tier")
}

func TestIngest_EmptyDocument(t *testing.T) {
	pipeline := newTestPipeline(t, newFakeStore())

	_, err := pipeline.Ingest(context.Background(), &core.Document{Source: "empty.md", Text: "   \n  "}, core.GlobalTier())
	assert.ErrorIs(t, err, core.ErrEmptyDocument)
}

func TestIngest_PartialFailure(t *testing.T) {
	store := newFakeStore()
	pipeline := newTestPipeline(t, store, WithChunking(5, 1))
	ctx := context.Background()

	doc := &core.Document{Source: "sample.md", Text: sampleDoc}

	// Make persistence fail only for the first section's chunk.
	store.failText = "Hello world."
	outcome, err := pipeline.Ingest(ctx, doc, core.GlobalTier())
	require.NoError(t, err, "chunk failures do not abort the document")

	failed := outcome.FailedChunks()
	require.Len(t, failed, 1)
	assert.True(t, outcome.Stored, "surviving chunks are persisted")
	assert.Equal(t, core.CategoryTransientNetwork, outcome.Chunks[failed[0]].Category)
	assert.ErrorIs(t, outcome.Chunks[failed[0]].Err, storage.ErrUnavailable)

	// Re-ingesting after the failure stores the missing chunk and
	// recognizes the rest as duplicates.
	store.failText = ""
	retried, err := pipeline.Ingest(ctx, doc, core.GlobalTier())
	require.NoError(t, err)
	assert.True(t, retried.Stored)
	assert.Equal(t, retried.ChunkCount-1, retried.Duplicates())
	assert.Empty(t, retried.FailedChunks())
}

func TestIngest_EmbeddingFailure(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	embedFailure := errors.New("model not loaded")
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, embedFailure
	}

	pipeline, err := NewPipeline(newFakeStore(), embedder, WithExecutor(fastExecutor(t)))
	require.NoError(t, err)
	t.Cleanup(pipeline.Release)

	_, err = pipeline.Ingest(context.Background(), &core.Document{Source: "s.md", Text: sampleDoc}, core.GlobalTier())
	assert.ErrorIs(t, err, ErrEmbeddingFailed)
	assert.ErrorIs(t, err, embedFailure, "root cause is preserved")
}

func TestIngest_MergesFrontMatterWithCallerMetadata(t *testing.T) {
	store := newFakeStore()
	pipeline := newTestPipeline(t, store)
	ctx := context.Background()

	doc := &core.Document{
		Source:   "notes.md",
		Text:     "---\nauthor: kim\ntopic: storage\n---\n\nSome body text.",
		Metadata: map[string]string{"topic": "override", "origin": "cli"},
	}
	outcome, err := pipeline.Ingest(ctx, doc, core.GlobalTier())
	require.NoError(t, err)

	assert.Equal(t, "kim", outcome.Metadata["author"])
	assert.Equal(t, "override", outcome.Metadata["topic"], "caller metadata wins on conflict")
	assert.Equal(t, "cli", outcome.Metadata["origin"])

	record, err := store.FindByFingerprint(ctx, "global_memory", outcome.Chunks[0].Fingerprint)
	require.NoError(t, err)
	assert.Equal(t, outcome.Metadata, record.Metadata)
}

func TestCheckDuplicate(t *testing.T) {
	store := newFakeStore()
	pipeline := newTestPipeline(t, store, WithChunking(5, 1))
	ctx := context.Background()

	check, err := pipeline.CheckDuplicate(ctx, sampleDoc, core.GlobalTier())
	require.NoError(t, err)
	assert.False(t, check.Duplicate)
	assert.Zero(t, check.ExistingChunks)

	_, err = pipeline.Ingest(ctx, &core.Document{Source: "s.md", Text: sampleDoc}, core.GlobalTier())
	require.NoError(t, err)

	check, err = pipeline.CheckDuplicate(ctx, sampleDoc, core.GlobalTier())
	require.NoError(t, err)
	assert.True(t, check.Duplicate)
	assert.Equal(t, check.ChunkCount, check.ExistingChunks)

	// Same content in a different tier is not a duplicate there.
	check, err = pipeline.CheckDuplicate(ctx, sampleDoc, core.LearnedTier())
	require.NoError(t, err)
	assert.False(t, check.Duplicate)
}

func TestAnalyze(t *testing.T) {
	pipeline := newTestPipeline(t, newFakeStore(), WithChunking(5, 1))

	analysis := pipeline.Analyze(sampleDoc)
	assert.True(t, analysis.Fingerprint.Valid())
	assert.Equal(t, 2, analysis.Sections)
	assert.Equal(t, 2, analysis.Chunks)
	assert.Greater(t, analysis.Words, 0)
	assert.NotEmpty(t, analysis.Summary)

	again := pipeline.Analyze(sampleDoc)
	assert.Equal(t, analysis.Fingerprint, again.Fingerprint, "analysis is deterministic")
}

func TestPipeline_StatsCountRetries(t *testing.T) {
	store := newFakeStore()
	store.upsertErr = storage.ErrUnavailable

	stats := retry.NewStats()
	executor, err := retry.NewExecutor(storage.Classify, stats,
		retry.WithMaxAttempts(2), retry.WithBaseDelay(time.Millisecond), retry.WithoutJitter())
	require.NoError(t, err)

	pipeline, err := NewPipeline(store, mock.NewMockEmbedder(), WithExecutor(executor), WithChunking(5, 1))
	require.NoError(t, err)
	t.Cleanup(pipeline.Release)

	outcome, err := pipeline.Ingest(context.Background(), &core.Document{Source: "s.md", Text: sampleDoc}, core.GlobalTier())
	require.NoError(t, err)
	assert.False(t, outcome.Stored)
	assert.Len(t, outcome.FailedChunks(), outcome.ChunkCount)

	// Two attempts per failed chunk upsert.
	assert.Equal(t, uint64(2*outcome.ChunkCount), stats.Count(core.CategoryTransientNetwork))
	assert.Same(t, stats, pipeline.Stats())
}
