package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeWhitespace(t *testing.T) {
	n := NewNormalizer()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "collapses blank line runs",
			in:   "first\n\n\n\nsecond\n",
			want: "first\n\nsecond\n",
		},
		{
			name: "trims trailing whitespace per line",
			in:   "hello   \nworld\t\n",
			want: "hello\nworld\n",
		},
		{
			name: "collapses internal space runs",
			in:   "some   text  here\n",
			want: "some text here\n",
		},
		{
			name: "preserves spacing on list lines",
			in:   "- item   one\n",
			want: "- item   one\n",
		},
		{
			name: "preserves indented code lines",
			in:   "    x :=   1\n",
			want: "    x :=   1\n",
		},
		{
			name: "normalizes CRLF line endings",
			in:   "a\r\nb\r\n",
			want: "a\nb\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, meta := n.Normalize(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Empty(t, meta)
		})
	}
}

func TestNormalizeFormatting(t *testing.T) {
	n := NewNormalizer()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "heading gains exactly one space",
			in:   "#Title\n##   Sub\n",
			want: "# Title\n## Sub\n",
		},
		{
			name: "list marker gains single space",
			in:   "-   item\n1.    first\n",
			want: "- item\n1. first\n",
		},
		{
			name: "emphasis runs collapse to three",
			in:   "*****bold***** and _____u_____\n",
			want: "***bold*** and ___u___\n",
		},
		{
			name: "link spacing tidied",
			in:   "[title] (https://a.example)\n",
			want: "[title](https://a.example)\n",
		},
		{
			name: "html comments stripped",
			in:   "before\n<!-- hidden\nstill hidden -->\nafter\n",
			want: "before\n\nafter\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := n.Normalize(tt.in)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeFrontMatter(t *testing.T) {
	n := NewNormalizer()

	text, meta := n.Normalize("---\ntitle: Test Doc\nauthor: poiesic\n---\n# Doc\n\nBody.\n")
	assert.Equal(t, "# Doc\n\nBody.\n", text)
	assert.Equal(t, map[string]string{"title": "Test Doc", "author": "poiesic"}, meta)
}

func TestNormalizeFrontMatterMalformed(t *testing.T) {
	n := NewNormalizer()

	// Parse failure yields empty metadata but still strips the block.
	text, meta := n.Normalize("---\n{not: [valid\n---\nBody.\n")
	assert.Equal(t, "Body.\n", text)
	assert.Empty(t, meta)
}

func TestNormalizeFrontMatterRequiresLeadingDelimiter(t *testing.T) {
	n := NewNormalizer()

	in := "intro\n---\nkey: value\n---\n"
	text, meta := n.Normalize(in)
	assert.Empty(t, meta)
	assert.Contains(t, text, "key: value")
}

func TestNormalizeNeverFails(t *testing.T) {
	n := NewNormalizer()

	inputs := []string{
		"",
		"   \n\t \n",
		strings.Repeat("🚀", 500),
		"```\nunclosed fence\n",
		"<!-- unclosed comment\n",
	}
	for _, in := range inputs {
		require.NotPanics(t, func() {
			text, meta := n.Normalize(in)
			require.NotNil(t, meta)
			_ = text
		})
	}
}

func TestNormalizeDeterministic(t *testing.T) {
	n := NewNormalizer()

	in := "# Title\n\nHello world.\n\n## Sub\n\nMore text here."
	first, _ := n.Normalize(in)
	second, _ := n.Normalize(in)
	assert.Equal(t, first, second)
}
