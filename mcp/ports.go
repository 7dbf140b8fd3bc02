package mcp

import (
	"context"

	"github.com/poiesic/docmem/core"
	"github.com/poiesic/docmem/ingestion"
	"github.com/poiesic/docmem/retry"
)

// Ingestor covers the document ingestion operations the server exposes.
type Ingestor interface {
	Ingest(ctx context.Context, doc *core.Document, tier core.Tier) (*ingestion.Outcome, error)
	IngestDirectory(ctx context.Context, dir string, tier core.Tier) ([]ingestion.BatchResult, error)
	CheckDuplicate(ctx context.Context, text string, tier core.Tier) (*ingestion.CheckResult, error)
	Analyze(text string) *ingestion.AnalysisResult
	Stats() *retry.Stats
}

// Querier covers tier-spanning memory queries.
type Querier interface {
	Query(ctx context.Context, query string, tiers []core.Tier, minScore float32, limit int) ([]*core.QueryResult, error)
}

// Admin covers collection administration.
type Admin interface {
	ListCollections(ctx context.Context) ([]core.CollectionStats, error)
	DeleteRecord(ctx context.Context, collection string, fingerprint core.Fingerprint) error
}

// Ports aggregates the interfaces the MCP server depends on.
// This provides a single injection point for dependency injection.
type Ports struct {
	Ingestor Ingestor
	Querier  Querier
	Admin    Admin
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Ingestor == nil {
		return ErrMissingIngestor
	}
	if p.Querier == nil {
		return ErrMissingQuerier
	}
	if p.Admin == nil {
		return ErrMissingAdmin
	}
	return nil
}
