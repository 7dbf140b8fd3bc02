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

package main

import (
	"fmt"
	"os"

	"github.com/poiesic/docmem/core"
	"github.com/poiesic/docmem/search"
)

// printMonitor narrates search stages on stderr for the --verbose flag.
type printMonitor struct{}

var _ search.Monitor = (*printMonitor)(nil)

func (m *printMonitor) Start(query string) {
	fmt.Fprintf(os.Stderr, "searching: %q\n", query)
}

func (m *printMonitor) AfterEmbedding(dimensions int) {
	fmt.Fprintf(os.Stderr, "query embedded (%d dimensions)\n", dimensions)
}

func (m *printMonitor) AfterCollectionSearch(collection string, hits int) {
	fmt.Fprintf(os.Stderr, "%s: %d hits\n", collection, hits)
}

func (m *printMonitor) VerbatimHit(record *core.IngestionRecord) {
	fmt.Fprintf(os.Stderr, "verbatim match: %s\n", record.Fingerprint)
}

func (m *printMonitor) Finish(results []*core.QueryResult) {
	fmt.Fprintf(os.Stderr, "%d results after merge\n", len(results))
}
