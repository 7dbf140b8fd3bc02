package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWordCount(t *testing.T) {
	assert.Equal(t, 0, WordCount(""))
	assert.Equal(t, 0, WordCount("   \n\t"))
	assert.Equal(t, 2, WordCount("Hello world."))
	assert.Equal(t, 5, WordCount("one two  three\nfour\tfive"))
}

func TestSummary(t *testing.T) {
	short := "Short text."
	assert.Equal(t, short, Summary(short, 200))

	// Breaks at the sentence end closest to the limit.
	text := "First sentence is right here. Second sentence carries on for a while longer."
	got := Summary(text, 36)
	assert.Equal(t, "First sentence is right here.", got)

	// Falls back to a word boundary with an ellipsis.
	noPunct := "alpha beta gamma delta epsilon zeta eta theta"
	got = Summary(noPunct, 20)
	assert.True(t, len(got) <= 24)
	assert.Contains(t, got, "...")
}
