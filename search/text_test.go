package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignificantWords(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{
			name:     "strips stop words and punctuation",
			text:     "The retry budget, and the backoff!",
			expected: []string{"retry", "budget", "backoff"},
		},
		{
			name:     "lowercases",
			text:     "Badger Transactions",
			expected: []string{"badger", "transactions"},
		},
		{
			name:     "all stop words",
			text:     "the a an and",
			expected: []string{},
		},
		{
			name:     "empty input",
			text:     "",
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, significantWords(tt.text))
		})
	}
}

func TestContainsAllQueryWords(t *testing.T) {
	doc := "Badger stores records in collections keyed by fingerprint."

	tests := []struct {
		name     string
		query    string
		expected bool
	}{
		{"all words present", "fingerprint collections", true},
		{"word order ignored", "collections badger", true},
		{"missing word", "badger embeddings", false},
		{"stop words ignored", "the badger", true},
		{"only stop words never match", "the and of", false},
		{"empty query never matches", "", false},
		{"punctuation trimmed from query", "fingerprint.", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, containsAllQueryWords(doc, tt.query))
		})
	}
}
