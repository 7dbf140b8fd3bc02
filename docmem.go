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

// Package docmem assembles the document memory service: badger-backed
// vector storage, an embedding client, the ingestion pipeline, and tiered
// search, all sharing one retry executor and one error-stats object.
package docmem

import (
	"context"
	"io"
	"log/slog"

	"github.com/poiesic/docmem/ai"
	"github.com/poiesic/docmem/ai/openai"
	"github.com/poiesic/docmem/core"
	"github.com/poiesic/docmem/ingestion"
	"github.com/poiesic/docmem/mcp"
	"github.com/poiesic/docmem/reembed"
	"github.com/poiesic/docmem/retry"
	"github.com/poiesic/docmem/search"
	"github.com/poiesic/docmem/storage"
	"github.com/poiesic/docmem/storage/badger"
)

// Service wires the storage backend, embedder, pipeline, and searcher
// together behind the operation surface the MCP server and CLI expose.
type Service struct {
	backend  *badger.Backend
	store    storage.MemoryStore
	embedder ai.Embedder
	stats    *retry.Stats
	executor *retry.Executor
	pipeline *ingestion.Pipeline
	searcher *search.Searcher
	logger   *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	aiConfig     *ai.Config
	embedder     ai.Embedder
	inMemory     bool
	logger       *slog.Logger
	pipelineOpts []ingestion.Option
	searchOpts   []search.Option
}

// WithAIConfig overrides the embedding service configuration.
func WithAIConfig(config *ai.Config) ServiceOption {
	return func(o *serviceOptions) { o.aiConfig = config }
}

// WithEmbedder injects an embedder directly, bypassing the configured
// embedding service. Used by tests.
func WithEmbedder(embedder ai.Embedder) ServiceOption {
	return func(o *serviceOptions) { o.embedder = embedder }
}

// WithInMemoryStorage keeps all records in memory instead of on disk.
func WithInMemoryStorage() ServiceOption {
	return func(o *serviceOptions) { o.inMemory = true }
}

// WithServiceLogger sets the logger for the service and its components.
func WithServiceLogger(logger *slog.Logger) ServiceOption {
	return func(o *serviceOptions) { o.logger = logger }
}

// WithPipelineOptions forwards options to the ingestion pipeline.
func WithPipelineOptions(opts ...ingestion.Option) ServiceOption {
	return func(o *serviceOptions) { o.pipelineOpts = append(o.pipelineOpts, opts...) }
}

// WithSearchOptions forwards options to the searcher.
func WithSearchOptions(opts ...search.Option) ServiceOption {
	return func(o *serviceOptions) { o.searchOpts = append(o.searchOpts, opts...) }
}

// NewService opens the database at filePath and assembles the service.
func NewService(filePath string, opts ...ServiceOption) (*Service, error) {
	options := &serviceOptions{
		aiConfig: ai.DefaultConfig(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}
	store := badger.NewStore(backend)

	embedder := options.embedder
	if embedder == nil {
		embedder, err = openai.NewEmbedder(options.aiConfig)
		if err != nil {
			backend.Close()
			return nil, err
		}
	}

	stats := retry.NewStats()
	executor, err := retry.NewExecutor(storage.Classify, stats)
	if err != nil {
		backend.Close()
		return nil, err
	}

	pipelineOpts := append([]ingestion.Option{
		ingestion.WithExecutor(executor),
		ingestion.WithLogger(options.logger),
	}, options.pipelineOpts...)
	pipeline, err := ingestion.NewPipeline(store, embedder, pipelineOpts...)
	if err != nil {
		backend.Close()
		return nil, err
	}

	searchOpts := append([]search.Option{
		search.WithExecutor(executor),
		search.WithLogger(options.logger),
	}, options.searchOpts...)
	searcher, err := search.NewSearcher(store, embedder, searchOpts...)
	if err != nil {
		pipeline.Release()
		backend.Close()
		return nil, err
	}

	return &Service{
		backend:  backend,
		store:    store,
		embedder: embedder,
		stats:    stats,
		executor: executor,
		pipeline: pipeline,
		searcher: searcher,
		logger:   options.logger,
	}, nil
}

// Close releases the pipeline's worker pool and closes the database.
func (s *Service) Close() error {
	s.pipeline.Release()
	if err := s.backend.Close(); err != nil {
		s.logger.Error("error closing storage backend", "err", err)
		return err
	}
	return nil
}

// Ingest runs one document through the full pipeline into the given tier.
func (s *Service) Ingest(ctx context.Context, doc *core.Document, tier core.Tier) (*ingestion.Outcome, error) {
	return s.pipeline.Ingest(ctx, doc, tier)
}

// IngestDirectory ingests every markdown file under dir into the tier.
func (s *Service) IngestDirectory(ctx context.Context, dir string, tier core.Tier) ([]ingestion.BatchResult, error) {
	return s.pipeline.IngestDirectory(ctx, dir, tier)
}

// IngestBatch ingests the given documents concurrently into the tier.
func (s *Service) IngestBatch(ctx context.Context, docs []*core.Document, tier core.Tier) []ingestion.BatchResult {
	return s.pipeline.IngestBatch(ctx, docs, tier)
}

// CheckDuplicate reports whether the text is already stored in the tier.
func (s *Service) CheckDuplicate(ctx context.Context, text string, tier core.Tier) (*ingestion.CheckResult, error) {
	return s.pipeline.CheckDuplicate(ctx, text, tier)
}

// Analyze inspects text without storing anything.
func (s *Service) Analyze(text string) *ingestion.AnalysisResult {
	return s.pipeline.Analyze(text)
}

// Stats exposes the shared retry statistics.
func (s *Service) Stats() *retry.Stats {
	return s.stats
}

// Query searches the given tiers for content similar to the query.
func (s *Service) Query(ctx context.Context, query string, tiers []core.Tier, minScore float32, limit int) ([]*core.QueryResult, error) {
	return s.searcher.Query(ctx, query, tiers, minScore, limit)
}

// QueryWithMonitor is Query with per-stage progress callbacks.
func (s *Service) QueryWithMonitor(ctx context.Context, query string, tiers []core.Tier, minScore float32, limit int, monitor search.Monitor) ([]*core.QueryResult, error) {
	return s.searcher.QueryWithMonitor(ctx, query, tiers, minScore, limit, monitor)
}

// ListCollections reports every collection with its record count.
func (s *Service) ListCollections(ctx context.Context) ([]core.CollectionStats, error) {
	var collections []core.CollectionStats
	err := s.executor.Execute(ctx, "list-collections", func() error {
		var listErr error
		collections, listErr = s.store.ListCollections(ctx)
		return listErr
	})
	return collections, err
}

// DeleteRecord removes one record from a collection.
func (s *Service) DeleteRecord(ctx context.Context, collection string, fingerprint core.Fingerprint) error {
	return s.executor.Execute(ctx, "delete", func() error {
		return s.store.Delete(ctx, collection, fingerprint)
	})
}

// NewReembedder builds a reembedder over the service's store, embedder,
// and shared retry executor. Used after switching embedding models.
func (s *Service) NewReembedder(config *reembed.Config, progress io.Writer) (*reembed.Reembedder, error) {
	return reembed.NewReembedder(s.store, s.embedder, s.executor, config, progress)
}

// Ports exposes the service as the MCP server's dependency set.
func (s *Service) Ports() *mcp.Ports {
	return &mcp.Ports{
		Ingestor: s,
		Querier:  s,
		Admin:    s,
	}
}

var (
	_ mcp.Ingestor = (*Service)(nil)
	_ mcp.Querier  = (*Service)(nil)
	_ mcp.Admin    = (*Service)(nil)
)
