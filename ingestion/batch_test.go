package ingestion

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/docmem/core"
)

func TestIngestBatch(t *testing.T) {
	store := newFakeStore()
	pipeline := newTestPipeline(t, store, WithChunking(5, 1), WithPoolSize(2))

	docs := []*core.Document{
		{Source: "a.md", Text: "# A\n\nFirst document body text."},
		{Source: "b.md", Text: "# B\n\nSecond document body text."},
		{Source: "c.md", Text: "   "},
	}

	results := pipeline.IngestBatch(context.Background(), docs, core.GlobalTier())
	require.Len(t, results, 3)

	assert.Equal(t, "a.md", results[0].Source, "results keep input order")
	require.NoError(t, results[0].Err)
	assert.True(t, results[0].Outcome.Stored)

	require.NoError(t, results[1].Err)
	assert.True(t, results[1].Outcome.Stored)

	assert.ErrorIs(t, results[2].Err, core.ErrEmptyDocument, "one bad document does not stop the batch")
}

func TestIngestDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "one.md"), []byte("# One\n\nBody of one."), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", "two.markdown"), []byte("# Two\n\nBody of two."), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skip.txt"), []byte("not markdown"), 0644))

	store := newFakeStore()
	pipeline := newTestPipeline(t, store, WithChunking(5, 1))

	results, err := pipeline.IngestDirectory(context.Background(), dir, core.LearnedTier())
	require.NoError(t, err)
	require.Len(t, results, 2, "only markdown files are ingested")
	for _, result := range results {
		require.NoError(t, result.Err)
		assert.True(t, result.Outcome.Stored)
	}
	assert.Greater(t, store.count("learned_memory"), 0)
}

func TestIngestDirectory_Empty(t *testing.T) {
	pipeline := newTestPipeline(t, newFakeStore())

	_, err := pipeline.IngestDirectory(context.Background(), t.TempDir(), core.GlobalTier())
	assert.ErrorIs(t, err, ErrNoDocuments)
}
