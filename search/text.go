package search

import "strings"

const surroundingPunct = ".,!?;:'\"-()[]{}"

// Words too common to signal a verbatim match on their own.
var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "be": {}, "is": {}, "are": {},
	"was": {}, "to": {}, "of": {}, "and": {}, "in": {}, "that": {},
	"have": {}, "it": {}, "for": {}, "not": {}, "on": {}, "with": {},
	"as": {}, "you": {}, "do": {}, "at": {}, "this": {}, "but": {},
	"by": {}, "from": {},
}

// normalizeWord lowercases a token and strips surrounding punctuation.
// Returns "" for tokens that carry no signal (stop words, bare punctuation).
func normalizeWord(word string) string {
	cleaned := strings.ToLower(strings.Trim(word, surroundingPunct))
	if _, stop := stopWords[cleaned]; stop {
		return ""
	}
	return cleaned
}

// significantWords reduces text to its normalized, non-stop-word tokens.
func significantWords(text string) []string {
	fields := strings.Fields(text)
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		if w := normalizeWord(f); w != "" {
			words = append(words, w)
		}
	}
	return words
}

// containsAllQueryWords reports whether every significant word of the query
// appears somewhere in the document. Word order is ignored. A query with no
// significant words matches nothing.
func containsAllQueryWords(document, query string) bool {
	queryWords := significantWords(query)
	if len(queryWords) == 0 {
		return false
	}

	docSet := make(map[string]struct{})
	for _, w := range significantWords(document) {
		docSet[w] = struct{}{}
	}

	for _, w := range queryWords {
		if _, ok := docSet[w]; !ok {
			return false
		}
	}
	return true
}
