package reembed

import (
	"bytes"
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/docmem/ai/mock"
	"github.com/poiesic/docmem/core"
	"github.com/poiesic/docmem/retry"
	"github.com/poiesic/docmem/storage"
	"github.com/poiesic/docmem/storage/badger"
)

func fastExecutor(t *testing.T) *retry.Executor {
	t.Helper()
	executor, err := retry.NewExecutor(storage.Classify, nil,
		retry.WithMaxAttempts(2),
		retry.WithBaseDelay(time.Millisecond),
		retry.WithoutJitter(),
	)
	require.NoError(t, err)
	return executor
}

func seedRecord(t *testing.T, store storage.MemoryStore, collection, text string) core.Fingerprint {
	t.Helper()
	fingerprint := core.FingerprintText(text)
	err := store.Upsert(context.Background(), collection, &core.IngestionRecord{
		Fingerprint: fingerprint,
		Tier:        "global",
		Collection:  collection,
		Text:        text,
		Vector:      []float32{9, 9, 9}, // stale vector from the old model
	})
	require.NoError(t, err)
	return fingerprint
}

func TestNewReembedderValidation(t *testing.T) {
	store, err := badger.NewMemoryStore()
	require.NoError(t, err)
	defer store.Close()
	embedder := mock.NewMockEmbedder()

	t.Run("requires store", func(t *testing.T) {
		_, err := NewReembedder(nil, embedder, nil, nil, nil)
		require.ErrorIs(t, err, ErrStoreRequired)
	})

	t.Run("requires embedder", func(t *testing.T) {
		_, err := NewReembedder(store, nil, nil, nil, nil)
		require.ErrorIs(t, err, ErrEmbedderRequired)
	})

	t.Run("rejects zero batch size", func(t *testing.T) {
		_, err := NewReembedder(store, embedder, nil, &Config{BatchSize: 0, ReportInterval: 10}, nil)
		require.Error(t, err)
	})

	t.Run("defaults are filled in", func(t *testing.T) {
		r, err := NewReembedder(store, embedder, nil, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig().BatchSize, r.config.BatchSize)
	})
}

func TestReembedderRewritesVectors(t *testing.T) {
	store, err := badger.NewMemoryStore()
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	fpA := seedRecord(t, store, "global_memory", "first document text")
	fpB := seedRecord(t, store, "global_memory", "second document text")
	fpC := seedRecord(t, store, "learned_memory", "third document text")

	var progress bytes.Buffer
	r, err := NewReembedder(store, mock.NewMockEmbedder(), nil, &Config{
		BatchSize:      2,
		ReportInterval: 1,
	}, &progress)
	require.NoError(t, err)

	require.NoError(t, r.Run(ctx))

	for _, probe := range []struct {
		collection  string
		fingerprint core.Fingerprint
	}{
		{"global_memory", fpA},
		{"global_memory", fpB},
		{"learned_memory", fpC},
	} {
		record, err := store.FindByFingerprint(ctx, probe.collection, probe.fingerprint)
		require.NoError(t, err)
		require.NotEmpty(t, record.Vector)
		assert.NotEqual(t, []float32{9, 9, 9}, record.Vector)

		// Vectors come back unit length.
		var sumSquares float64
		for _, v := range record.Vector {
			sumSquares += float64(v) * float64(v)
		}
		assert.InDelta(t, 1.0, math.Sqrt(sumSquares), 0.001)
	}

	assert.Contains(t, progress.String(), "Reembedding complete")
	assert.Contains(t, progress.String(), "3 records")
}

func TestReembedderEmptyDatabase(t *testing.T) {
	store, err := badger.NewMemoryStore()
	require.NoError(t, err)
	defer store.Close()

	var progress bytes.Buffer
	r, err := NewReembedder(store, mock.NewMockEmbedder(), nil, nil, &progress)
	require.NoError(t, err)

	require.NoError(t, r.Run(context.Background()))
	assert.Contains(t, progress.String(), "No records found")
}

func TestReembedderAbortsOnEmbeddingFailure(t *testing.T) {
	store, err := badger.NewMemoryStore()
	require.NoError(t, err)
	defer store.Close()

	seedRecord(t, store, "global_memory", "some text")

	embedFailure := errors.New("embedding service down")
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(context.Context, []string) ([][]float32, error) {
		return nil, embedFailure
	}

	r, err := NewReembedder(store, embedder, fastExecutor(t), nil, nil)
	require.NoError(t, err)

	err = r.Run(context.Background())
	require.ErrorIs(t, err, embedFailure)

	// The stale vector is untouched after the failed run.
	record, err := store.FindByFingerprint(context.Background(), "global_memory",
		core.FingerprintText("some text"))
	require.NoError(t, err)
	assert.Equal(t, []float32{9, 9, 9}, record.Vector)
}

func TestReembedderHonorsCancellation(t *testing.T) {
	store, err := badger.NewMemoryStore()
	require.NoError(t, err)
	defer store.Close()

	seedRecord(t, store, "global_memory", "some text")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r, err := NewReembedder(store, mock.NewMockEmbedder(), nil, nil, nil)
	require.NoError(t, err)

	err = r.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
