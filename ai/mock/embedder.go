package mock

import (
	"context"
	"hash/fnv"
	"sync/atomic"
)

// Dimensions of the vectors the default behavior produces. Matches the
// embeddinggemma output size so mock vectors are shaped like real ones.
const defaultDim = 384

// MockEmbedder is a test double for ai.Embedder. Function fields override
// the default behavior; when nil, each text maps to a deterministic vector
// derived from its hash, so the same input always embeds the same way.
type MockEmbedder struct {
	EmbedTextFunc  func(ctx context.Context, text string) ([]float32, error)
	EmbedTextsFunc func(ctx context.Context, texts []string) ([][]float32, error)

	calls atomic.Int64
}

// NewMockEmbedder returns the concrete type rather than ai.Embedder so
// tests can assert on CallCount.
func NewMockEmbedder() *MockEmbedder {
	return &MockEmbedder{}
}

func (m *MockEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	m.calls.Add(1)

	if m.EmbedTextFunc != nil {
		return m.EmbedTextFunc(ctx, text)
	}
	return deterministicVector(text, defaultDim), nil
}

func (m *MockEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	m.calls.Add(1)

	if m.EmbedTextsFunc != nil {
		return m.EmbedTextsFunc(ctx, texts)
	}

	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = deterministicVector(text, defaultDim)
	}
	return vectors, nil
}

// CallCount reports how many times either embed method was invoked.
func (m *MockEmbedder) CallCount() int {
	return int(m.calls.Load())
}

// Reset clears the call count and any injected behavior.
func (m *MockEmbedder) Reset() {
	m.calls.Store(0)
	m.EmbedTextFunc = nil
	m.EmbedTextsFunc = nil
}

// deterministicVector hashes text into an FNV seed and expands it with a
// linear congruential generator. The scaling at the end keeps components
// small but does not produce a unit vector; tests that compare similarity
// scores should inject known vectors instead of relying on these.
func deterministicVector(text string, dim int) []float32 {
	h := fnv.New32a()
	h.Write([]byte(text))
	seed := h.Sum32()

	vector := make([]float32, dim)
	for i := range vector {
		seed = seed*1664525 + 1013904223
		vector[i] = float32(seed%1000) / 1000.0
	}

	var sumSquares float32
	for _, v := range vector {
		sumSquares += v * v
	}
	if sumSquares > 0 {
		scale := float32(1.0) / sumSquares
		for i := range vector {
			vector[i] *= scale
		}
	}

	return vector
}
