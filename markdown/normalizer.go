// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package markdown

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/poiesic/docmem/core"
	"gopkg.in/yaml.v3"
)

const frontMatterDelimiter = "---"

var (
	spaceRunRe      = regexp.MustCompile(` +`)
	headingRe       = regexp.MustCompile(`(?m)^(#+)[ \t]*(\S.*)$`)
	bulletRe        = regexp.MustCompile(`(?m)^([ \t]*)([*+-])[ \t]+(\S.*)$`)
	numberedRe      = regexp.MustCompile(`(?m)^([ \t]*)(\d+\.)[ \t]+(\S.*)$`)
	asteriskRunRe   = regexp.MustCompile(`\*{3,}`)
	underscoreRunRe = regexp.MustCompile(`_{3,}`)
	linkRe          = regexp.MustCompile(`\[\s*([^\]]+)\s*\]\s*\(\s*([^)]+)\s*\)`)
	htmlCommentRe   = regexp.MustCompile(`(?s)<!--.*?-->`)
	blankRunRe      = regexp.MustCompile(`\n[ \t]*\n(?:[ \t]*\n)+`)
)

// Normalizer cleans raw markdown into a canonical form and extracts YAML
// front matter. It holds no mutable state and is safe for concurrent use.
type Normalizer struct {
	logger   *slog.Logger
	recorder core.EventRecorder
}

// NormalizerOption configures a Normalizer.
type NormalizerOption func(*Normalizer)

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) NormalizerOption {
	return func(n *Normalizer) {
		if logger != nil {
			n.logger = logger
		}
	}
}

// WithEventRecorder makes fail-open fallbacks observable: an internal
// normalization failure is recorded as an ErrorEvent instead of being
// silently swallowed.
func WithEventRecorder(recorder core.EventRecorder) NormalizerOption {
	return func(n *Normalizer) {
		n.recorder = recorder
	}
}

// NewNormalizer creates a Normalizer.
func NewNormalizer(opts ...NormalizerOption) *Normalizer {
	n := &Normalizer{logger: slog.Default()}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize cleans raw markdown and extracts front matter metadata. It never
// fails: malformed input is cleaned best-effort, and an internal failure
// returns the original text unmodified with empty metadata.
func (n *Normalizer) Normalize(raw string) (canonical string, metadata map[string]string) {
	defer func() {
		if r := recover(); r != nil {
			n.logger.Error("normalization failed, passing text through unchanged", "panic", r)
			if n.recorder != nil {
				n.recorder.Record(core.ErrorEvent{
					Category:  core.CategoryPermanentUnknown,
					Operation: "normalize",
					Attempt:   1,
					Timestamp: time.Now().UTC(),
				})
			}
			canonical = raw
			metadata = map[string]string{}
		}
	}()

	// Normalize line endings before anything that looks at line structure.
	text := strings.ReplaceAll(raw, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	text, metadata = n.extractFrontMatter(text)
	return n.clean(text), metadata
}

// extractFrontMatter strips a leading front matter block (a line of exactly
// three dashes, a body, a line of exactly three dashes) and parses its body
// as YAML key/value pairs. Parse failure yields empty metadata; the block is
// stripped regardless.
func (n *Normalizer) extractFrontMatter(text string) (string, map[string]string) {
	metadata := map[string]string{}

	rest, ok := strings.CutPrefix(text, frontMatterDelimiter+"\n")
	if !ok {
		return text, metadata
	}
	idx := strings.Index(rest, "\n"+frontMatterDelimiter+"\n")
	body := ""
	if idx >= 0 {
		body = rest[idx+len("\n"+frontMatterDelimiter+"\n"):]
	} else if strings.HasSuffix(rest, "\n"+frontMatterDelimiter) {
		idx = len(rest) - len("\n"+frontMatterDelimiter)
	} else {
		return text, metadata
	}
	block := rest[:idx]

	var parsed map[string]any
	if err := yaml.Unmarshal([]byte(block), &parsed); err != nil {
		n.logger.Warn("front matter is not valid YAML, dropping it", "err", err)
		return body, metadata
	}
	for key, value := range parsed {
		metadata[key] = fmt.Sprint(value)
	}
	return body, metadata
}

// clean applies the whitespace and formatting passes in order.
func (n *Normalizer) clean(text string) string {
	text = normalizeWhitespace(text)

	text = headingRe.ReplaceAllString(text, "$1 $2")
	text = bulletRe.ReplaceAllString(text, "$1$2 $3")
	text = numberedRe.ReplaceAllString(text, "$1$2 $3")
	text = asteriskRunRe.ReplaceAllString(text, "***")
	text = underscoreRunRe.ReplaceAllString(text, "___")
	text = linkRe.ReplaceAllString(text, "[$1]($2)")
	text = htmlCommentRe.ReplaceAllString(text, "")

	text = blankRunRe.ReplaceAllString(text, "\n\n")
	return strings.TrimRight(strings.TrimLeft(text, "\n"), " \t\n") + "\n"
}

// normalizeWhitespace trims trailing whitespace on every line and collapses
// internal space runs, except on lines that open a code fence, carry a list
// bullet, or are indented: those keep their exact spacing so code and list
// structure is never reflowed.
func normalizeWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		trimmed := strings.TrimLeft(line, " \t")
		if preservesSpacing(line, trimmed) {
			lines[i] = strings.TrimRight(line, " \t")
			continue
		}
		indent := line[:len(line)-len(trimmed)]
		collapsed := spaceRunRe.ReplaceAllString(trimmed, " ")
		lines[i] = strings.TrimRight(indent+collapsed, " \t")
	}
	return strings.Join(lines, "\n")
}

func preservesSpacing(line, trimmed string) bool {
	if strings.HasPrefix(trimmed, "```") {
		return true
	}
	if strings.HasPrefix(line, "\t") || strings.HasPrefix(line, "    ") {
		return true
	}
	return strings.HasPrefix(trimmed, "-") ||
		strings.HasPrefix(trimmed, "*") ||
		strings.HasPrefix(trimmed, "+")
}
