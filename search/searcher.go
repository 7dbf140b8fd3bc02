package search

import (
	"context"
	"log/slog"
	"slices"

	"github.com/poiesic/docmem/ai"
	"github.com/poiesic/docmem/core"
	"github.com/poiesic/docmem/retry"
	"github.com/poiesic/docmem/storage"
)

const (
	// DefaultMinScore is the similarity threshold applied when the caller
	// does not supply one.
	DefaultMinScore = 0.60

	// verbatimBoost is added to the score of results containing every
	// significant query word.
	verbatimBoost = 0.05
)

// Searcher provides semantic search across memory tiers.
type Searcher struct {
	store    storage.MemoryStore
	embedder ai.Embedder
	executor *retry.Executor
	logger   *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithExecutor sets the retry executor guarding storage and embedding calls.
// Default is an executor built from storage.Classify with fresh stats.
func WithExecutor(executor *retry.Executor) Option {
	return func(s *Searcher) error {
		s.executor = executor
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(store storage.MemoryStore, embedder ai.Embedder, opts ...Option) (*Searcher, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	s := &Searcher{
		store:    store,
		embedder: embedder,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	if s.executor == nil {
		executor, err := retry.NewExecutor(storage.Classify, retry.NewStats(), retry.WithLogger(s.logger))
		if err != nil {
			return nil, err
		}
		s.executor = executor
	}

	return s, nil
}

// Query searches the given tiers for records similar to the query text.
// minScore <= 0 applies DefaultMinScore; limit <= 0 means no limit.
// Returns up to limit results across all tiers, ranked by score.
func (s *Searcher) Query(ctx context.Context, query string, tiers []core.Tier, minScore float32, limit int) ([]*core.QueryResult, error) {
	return s.QueryWithMonitor(ctx, query, tiers, minScore, limit, nil)
}

// QueryWithMonitor searches with monitoring callbacks at each stage.
func (s *Searcher) QueryWithMonitor(ctx context.Context, query string, tiers []core.Tier, minScore float32, limit int, monitor Monitor) ([]*core.QueryResult, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	if len(tiers) == 0 {
		return nil, ErrNoTiers
	}
	if minScore <= 0 {
		minScore = DefaultMinScore
	}

	// Resolve and dedupe target collections before any remote call, so an
	// invalid tier fails fast.
	collections := make([]string, 0, len(tiers))
	seen := make(map[string]bool, len(tiers))
	for _, tier := range tiers {
		collection, err := tier.Collection()
		if err != nil {
			return nil, err
		}
		if !seen[collection] {
			seen[collection] = true
			collections = append(collections, collection)
		}
	}

	monitor.Start(query)

	var embedding []float32
	err := s.executor.Execute(ctx, "embed-query", func() error {
		var embedErr error
		embedding, embedErr = s.embedder.EmbedText(ctx, query)
		return embedErr
	})
	if err != nil {
		s.logger.Error("error generating embedding for query", "err", err)
		return nil, err
	}
	monitor.AfterEmbedding(len(embedding))

	var merged []*core.QueryResult
	for _, collection := range collections {
		var matches []*core.QueryResult
		err := s.executor.Execute(ctx, "search", func() error {
			var searchErr error
			matches, searchErr = s.store.Search(ctx, collection, embedding, minScore, limit)
			return searchErr
		})
		if err != nil {
			s.logger.Error("error searching collection", "collection", collection, "err", err)
			return nil, err
		}
		monitor.AfterCollectionSearch(collection, len(matches))
		merged = append(merged, matches...)
	}

	// Boost results that contain every significant query word verbatim.
	for _, result := range merged {
		if containsAllQueryWords(result.Record.Text, query) {
			monitor.VerbatimHit(result.Record)
			result.Score += verbatimBoost
			if result.Score > 1 {
				result.Score = 1
			}
		}
	}

	slices.SortFunc(merged, func(a, b *core.QueryResult) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})

	if limit > 0 && len(merged) > limit {
		merged = merged[:limit]
	}

	monitor.Finish(merged)
	return merged, nil
}
