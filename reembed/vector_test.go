package reembed

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func magnitude(v []float32) float64 {
	var sum float64
	for _, val := range v {
		sum += float64(val) * float64(val)
	}
	return math.Sqrt(sum)
}

func TestNormalizeVector(t *testing.T) {
	t.Run("produces unit length", func(t *testing.T) {
		normalized := NormalizeVector([]float32{3, 4})
		assert.InDelta(t, 1.0, magnitude(normalized), 0.0001)
		assert.InDelta(t, 0.6, normalized[0], 0.0001)
		assert.InDelta(t, 0.8, normalized[1], 0.0001)
	})

	t.Run("unit vector is unchanged", func(t *testing.T) {
		normalized := NormalizeVector([]float32{1, 0, 0})
		assert.InDelta(t, 1.0, magnitude(normalized), 0.0001)
		assert.InDelta(t, 1.0, normalized[0], 0.0001)
	})

	t.Run("zero vector stays zero", func(t *testing.T) {
		normalized := NormalizeVector([]float32{0, 0, 0})
		require.Len(t, normalized, 3)
		assert.Equal(t, []float32{0, 0, 0}, normalized)
	})

	t.Run("empty vector stays empty", func(t *testing.T) {
		assert.Empty(t, NormalizeVector(nil))
	})

	t.Run("does not mutate the input", func(t *testing.T) {
		input := []float32{5, 0}
		_ = NormalizeVector(input)
		assert.Equal(t, []float32{5, 0}, input)
	})

	t.Run("negative components", func(t *testing.T) {
		normalized := NormalizeVector([]float32{-3, 4})
		assert.InDelta(t, 1.0, magnitude(normalized), 0.0001)
		assert.InDelta(t, -0.6, normalized[0], 0.0001)
	})
}
