package markdown

import "strings"

// WordCount returns the number of whitespace-delimited words in text.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// Summary returns the leading portion of text, at most maxLen characters,
// preferring to break at the end of a sentence and falling back to a word
// boundary with an ellipsis.
func Summary(text string, maxLen int) string {
	text = strings.TrimSpace(text)
	if maxLen <= 0 || len(text) <= maxLen {
		return text
	}

	cut := text[:maxLen]
	breakAt := -1
	for _, punct := range []string{".", "?", "!"} {
		if i := strings.LastIndex(cut, punct); i > breakAt {
			breakAt = i
		}
	}
	// A sentence break close to the limit reads better than a hard cut.
	if breakAt > (maxLen*7)/10 {
		return strings.TrimSpace(cut[:breakAt+1])
	}

	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimSpace(cut) + "..."
}
