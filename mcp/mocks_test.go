package mcp

import (
	"context"

	"github.com/poiesic/docmem/core"
	"github.com/poiesic/docmem/ingestion"
	"github.com/poiesic/docmem/retry"
)

// mockIngestor implements Ingestor with overridable function fields.
type mockIngestor struct {
	ingestFunc          func(ctx context.Context, doc *core.Document, tier core.Tier) (*ingestion.Outcome, error)
	ingestDirectoryFunc func(ctx context.Context, dir string, tier core.Tier) ([]ingestion.BatchResult, error)
	checkDuplicateFunc  func(ctx context.Context, text string, tier core.Tier) (*ingestion.CheckResult, error)
	analyzeFunc         func(text string) *ingestion.AnalysisResult
	stats               *retry.Stats
}

func (m *mockIngestor) Ingest(ctx context.Context, doc *core.Document, tier core.Tier) (*ingestion.Outcome, error) {
	return m.ingestFunc(ctx, doc, tier)
}

func (m *mockIngestor) IngestDirectory(ctx context.Context, dir string, tier core.Tier) ([]ingestion.BatchResult, error) {
	return m.ingestDirectoryFunc(ctx, dir, tier)
}

func (m *mockIngestor) CheckDuplicate(ctx context.Context, text string, tier core.Tier) (*ingestion.CheckResult, error) {
	return m.checkDuplicateFunc(ctx, text, tier)
}

func (m *mockIngestor) Analyze(text string) *ingestion.AnalysisResult {
	return m.analyzeFunc(text)
}

func (m *mockIngestor) Stats() *retry.Stats {
	if m.stats == nil {
		m.stats = retry.NewStats()
	}
	return m.stats
}

// mockQuerier implements Querier with an overridable function field.
type mockQuerier struct {
	queryFunc func(ctx context.Context, query string, tiers []core.Tier, minScore float32, limit int) ([]*core.QueryResult, error)
}

func (m *mockQuerier) Query(ctx context.Context, query string, tiers []core.Tier, minScore float32, limit int) ([]*core.QueryResult, error) {
	return m.queryFunc(ctx, query, tiers, minScore, limit)
}

// mockAdmin implements Admin with overridable function fields.
type mockAdmin struct {
	listCollectionsFunc func(ctx context.Context) ([]core.CollectionStats, error)
	deleteRecordFunc    func(ctx context.Context, collection string, fingerprint core.Fingerprint) error
}

func (m *mockAdmin) ListCollections(ctx context.Context) ([]core.CollectionStats, error) {
	return m.listCollectionsFunc(ctx)
}

func (m *mockAdmin) DeleteRecord(ctx context.Context, collection string, fingerprint core.Fingerprint) error {
	return m.deleteRecordFunc(ctx, collection, fingerprint)
}

func newTestPorts() (*Ports, *mockIngestor, *mockQuerier, *mockAdmin) {
	ingestor := &mockIngestor{}
	querier := &mockQuerier{}
	admin := &mockAdmin{}
	ports := &Ports{
		Ingestor: ingestor,
		Querier:  querier,
		Admin:    admin,
	}
	return ports, ingestor, querier, admin
}
