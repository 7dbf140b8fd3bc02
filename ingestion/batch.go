package ingestion

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/poiesic/docmem/core"
)

// BatchResult pairs one document's outcome with the error that stopped it,
// if any. Exactly one of Outcome and Err is set.
type BatchResult struct {
	Source  string
	Outcome *Outcome
	Err     error
}

// IngestBatch ingests documents concurrently, one pipeline run per document,
// fanned out across the worker pool. Results are returned in input order.
// A failing document never stops the others.
func (p *Pipeline) IngestBatch(ctx context.Context, docs []*core.Document, tier core.Tier) []BatchResult {
	results := make([]BatchResult, len(docs))

	var wg sync.WaitGroup
	for i, doc := range docs {
		wg.Add(1)
		submitErr := p.pool.Submit(func() {
			defer wg.Done()
			outcome, err := p.Ingest(ctx, doc, tier)
			results[i] = BatchResult{Source: doc.Source, Outcome: outcome, Err: err}
		})
		if submitErr != nil {
			results[i] = BatchResult{Source: doc.Source, Err: submitErr}
			wg.Done()
		}
	}
	wg.Wait()

	return results
}

// IngestDirectory reads every markdown file under dir (recursively) and
// ingests them as a batch. Returns ErrNoDocuments if the directory holds no
// markdown files.
func (p *Pipeline) IngestDirectory(ctx context.Context, dir string, tier core.Tier) ([]BatchResult, error) {
	var docs []*core.Document

	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() || !isMarkdownFile(path) {
			return nil
		}

		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return readErr
		}
		docs = append(docs, &core.Document{
			Source: path,
			Text:   string(data),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, ErrNoDocuments
	}

	p.logger.Info("ingesting directory", "dir", dir, "documents", len(docs), "tier", tier.String())
	return p.IngestBatch(ctx, docs, tier), nil
}

func isMarkdownFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown", ".mdown":
		return true
	default:
		return false
	}
}
