package search

import "github.com/poiesic/docmem/core"

// Monitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps during a query.
type Monitor interface {
	Start(query string)
	AfterEmbedding(dimensions int)
	AfterCollectionSearch(collection string, hits int)
	VerbatimHit(record *core.IngestionRecord)
	Finish(results []*core.QueryResult)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                        {}
func (n *noopMonitor) AfterEmbedding(_ int)                  {}
func (n *noopMonitor) AfterCollectionSearch(_ string, _ int) {}
func (n *noopMonitor) VerbatimHit(_ *core.IngestionRecord)   {}
func (n *noopMonitor) Finish(_ []*core.QueryResult)          {}
