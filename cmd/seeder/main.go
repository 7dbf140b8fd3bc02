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

// Seeder loads sample markdown documents into a database for manual
// testing. Point it at a directory of markdown with -src, or run it bare
// to use the built-in samples.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/poiesic/docmem"
	"github.com/poiesic/docmem/core"
	"github.com/poiesic/docmem/ingestion"
)

var sampleDocs = []*core.Document{
	{
		Source: "badger-overview.md",
		Text: `# BadgerDB Overview

BadgerDB is an embeddable key-value store written in Go. It separates keys
from values, keeping keys in an LSM tree and values in a value log, which
keeps the tree small enough to sit in memory.

## Transactions

All reads and writes happen inside transactions. Read-only transactions
operate on a consistent snapshot; write transactions are committed with
optimistic concurrency control.

## Compaction

Value logs are compacted in the background. Garbage collection reclaims
space from deleted and overwritten values without blocking readers.`,
	},
	{
		Source: "embeddings-notes.md",
		Text: `# Embedding Models

Text embeddings map strings to dense vectors so that semantically similar
text lands close together. Scores are only comparable between vectors
produced by the same model.

## Normalization

Normalizing vectors to unit length makes the dot product equal to cosine
similarity, which simplifies scoring.

## Batching

Embedding services charge per request as much as per token. Batching texts
into one call amortizes the round trip.`,
	},
	{
		Source: "retry-patterns.md",
		Text: `# Retry Patterns

Transient failures deserve retries; permanent ones do not. Classify before
retrying, or a validation error will burn the whole retry budget on a call
that can never succeed.

## Backoff

Exponential backoff spaces attempts out so a struggling dependency gets
room to recover. Jitter prevents synchronized retry storms across clients.

## Budgets

Every retry loop needs a bound. Unbounded retries turn one outage into a
pile of stuck goroutines.`,
	},
	{
		Source: "markdown-hygiene.md",
		Text: `# Markdown Hygiene

Consistent markdown is easier to chunk. Normalize line endings, collapse
runs of blank lines, and keep code fences intact.

## Front Matter

YAML front matter carries document metadata. Strip it from the body before
fingerprinting so cosmetic metadata edits do not change content identity.`,
	},
	{
		Source: "tiered-memory.md",
		Text: `# Tiered Memory

Partitioning memory into tiers keeps shared knowledge separate from
per-agent context. Global facts go in one collection; what a single agent
learned stays in its own.

## Deduplication Scope

Duplicates are detected within a tier, not across tiers. The same document
can legitimately live in both the global and an agent tier.`,
	},
}

var (
	dbPath   = flag.String("db", "./docmem_db", "path to the database directory")
	srcDir   = flag.String("src", "", "directory of markdown files to seed from")
	tierName = flag.String("tier", "global", "tier to seed into")
)

func init() {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
	flag.Parse()
}

func main() {
	svc, err := docmem.NewService(*dbPath)
	if err != nil {
		panic(err)
	}
	defer svc.Close()

	tier, err := core.ParseTier(*tierName, "", "")
	if err != nil {
		panic(err)
	}

	ctx := context.Background()

	var results []ingestion.BatchResult
	if *srcDir != "" {
		results, err = svc.IngestDirectory(ctx, *srcDir, tier)
		if err != nil {
			panic(err)
		}
	} else {
		results = svc.IngestBatch(ctx, sampleDocs, tier)
	}

	stored, skipped := 0, 0
	for _, result := range results {
		if result.Err != nil {
			fmt.Printf("failed: %s: %v\n", result.Source, result.Err)
			continue
		}
		if result.Outcome.Stored {
			stored++
		} else {
			skipped++
		}
	}
	fmt.Printf("Seeded %d documents (%d already present)\n", stored, skipped)
}
