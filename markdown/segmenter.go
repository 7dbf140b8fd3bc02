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
	"regexp"
	"strings"

	"github.com/poiesic/docmem/core"
)

// preambleTitle names the level-0 section holding text before the first heading.
const preambleTitle = "Introduction"

var sectionHeadingRe = regexp.MustCompile(`^(#+) (.+)$`)

// ExtractSections splits canonical text into heading-delimited sections.
// Everything before the first heading becomes a level-0 "Introduction"
// section when non-empty. Heading lines are represented by the section's
// Level and Title; every other line belongs to exactly one section's Body,
// so the sections partition the document in order.
func ExtractSections(canonical string) []core.Section {
	var sections []core.Section

	current := core.Section{Level: 0, Title: preambleTitle}
	var body []string

	flush := func(keepEmpty bool) {
		current.Body = strings.TrimSpace(strings.Join(body, "\n"))
		if current.Body != "" || keepEmpty {
			sections = append(sections, current)
		}
		body = body[:0]
	}

	for _, line := range strings.Split(canonical, "\n") {
		match := sectionHeadingRe.FindStringSubmatch(line)
		if match == nil {
			body = append(body, line)
			continue
		}
		// The preamble is dropped when empty; headed sections are kept even
		// with an empty body so the partition stays complete.
		flush(current.Level > 0)
		current = core.Section{
			Level: len(match[1]),
			Title: strings.TrimSpace(match[2]),
		}
	}
	flush(current.Level > 0)

	return sections
}
