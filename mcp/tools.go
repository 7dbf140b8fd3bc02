package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/poiesic/docmem/core"
)

// IngestDocumentInput is the input schema for the ingest_document tool.
type IngestDocumentInput struct {
	Source   string            `json:"source,omitempty" jsonschema:"logical name or path of the document"`
	Content  string            `json:"content" jsonschema:"raw markdown content to ingest"`
	Tier     string            `json:"tier" jsonschema:"target tier: global, learned, agent, or custom"`
	AgentID  string            `json:"agent_id,omitempty" jsonschema:"agent identifier, required for the agent tier"`
	TierName string            `json:"tier_name,omitempty" jsonschema:"collection name, required for the custom tier"`
	Metadata map[string]string `json:"metadata,omitempty" jsonschema:"metadata attached to every stored chunk"`
}

// ChunkReport describes one chunk's fate in an ingest outcome.
type ChunkReport struct {
	Index       int    `json:"index"`
	Fingerprint string `json:"fingerprint"`
	Stored      bool   `json:"stored"`
	DuplicateOf string `json:"duplicate_of,omitempty"`
	Error       string `json:"error,omitempty"`
	Category    string `json:"category,omitempty"`
}

// IngestDocumentOutput is the output schema for the ingest_document tool.
type IngestDocumentOutput struct {
	Stored      bool          `json:"stored"`
	Fingerprint string        `json:"fingerprint"`
	Collection  string        `json:"collection"`
	ChunkCount  int           `json:"chunk_count"`
	Duplicates  int           `json:"duplicates"`
	Failed      []int         `json:"failed,omitempty"`
	Chunks      []ChunkReport `json:"chunks"`
}

// IngestDirectoryInput is the input schema for the ingest_directory tool.
type IngestDirectoryInput struct {
	Path     string `json:"path" jsonschema:"directory to scan recursively for markdown files"`
	Tier     string `json:"tier" jsonschema:"target tier: global, learned, agent, or custom"`
	AgentID  string `json:"agent_id,omitempty" jsonschema:"agent identifier, required for the agent tier"`
	TierName string `json:"tier_name,omitempty" jsonschema:"collection name, required for the custom tier"`
}

// IngestDirectoryOutput is the output schema for the ingest_directory tool.
type IngestDirectoryOutput struct {
	Documents int      `json:"documents"`
	Stored    int      `json:"stored"`
	Skipped   int      `json:"skipped"`
	Failed    []string `json:"failed,omitempty"`
}

// QueryMemoryInput is the input schema for the query_memory tool.
type QueryMemoryInput struct {
	Query    string   `json:"query" jsonschema:"the search query"`
	Tiers    []string `json:"tiers,omitempty" jsonschema:"tiers to search (default: global and learned)"`
	AgentID  string   `json:"agent_id,omitempty" jsonschema:"agent identifier, required when tiers includes agent"`
	TierName string   `json:"tier_name,omitempty" jsonschema:"collection name, required when tiers includes custom"`
	Limit    int      `json:"limit,omitempty" jsonschema:"maximum number of results (default 10)"`
	MinScore float64  `json:"min_score,omitempty" jsonschema:"minimum similarity score between 0 and 1"`
}

// QueryResultOutput represents a single query result.
type QueryResultOutput struct {
	Fingerprint string  `json:"fingerprint"`
	Collection  string  `json:"collection"`
	Score       float64 `json:"score"`
	Text        string  `json:"text"`
	Source      string  `json:"source,omitempty"`
}

// QueryMemoryOutput is the output schema for the query_memory tool.
type QueryMemoryOutput struct {
	Results []QueryResultOutput `json:"results"`
	Count   int                 `json:"count"`
}

// CheckDuplicateInput is the input schema for the check_duplicate tool.
type CheckDuplicateInput struct {
	Content  string `json:"content" jsonschema:"content to check for duplication"`
	Tier     string `json:"tier" jsonschema:"tier whose collection is checked"`
	AgentID  string `json:"agent_id,omitempty" jsonschema:"agent identifier, required for the agent tier"`
	TierName string `json:"tier_name,omitempty" jsonschema:"collection name, required for the custom tier"`
}

// CheckDuplicateOutput is the output schema for the check_duplicate tool.
type CheckDuplicateOutput struct {
	Duplicate      bool   `json:"duplicate"`
	Fingerprint    string `json:"fingerprint"`
	ChunkCount     int    `json:"chunk_count"`
	ExistingChunks int    `json:"existing_chunks"`
}

// AnalyzeContentInput is the input schema for the analyze_content tool.
type AnalyzeContentInput struct {
	Content string `json:"content" jsonschema:"content to analyze without storing"`
}

// AnalyzeContentOutput is the output schema for the analyze_content tool.
type AnalyzeContentOutput struct {
	Fingerprint string            `json:"fingerprint"`
	Words       int               `json:"words"`
	Sections    int               `json:"sections"`
	Chunks      int               `json:"chunks"`
	Summary     string            `json:"summary"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// CollectionOutput describes one collection.
type CollectionOutput struct {
	Name          string `json:"name"`
	DocumentCount int    `json:"document_count"`
}

// ListCollectionsInput is the input schema for the list_collections tool.
type ListCollectionsInput struct{}

// ListCollectionsOutput is the output schema for the list_collections tool.
type ListCollectionsOutput struct {
	Collections []CollectionOutput `json:"collections"`
	Count       int                `json:"count"`
}

// DeleteRecordInput is the input schema for the delete_record tool.
type DeleteRecordInput struct {
	Collection  string `json:"collection" jsonschema:"collection holding the record"`
	Fingerprint string `json:"fingerprint" jsonschema:"fingerprint identifying the record"`
}

// DeleteRecordOutput is the output schema for the delete_record tool.
type DeleteRecordOutput struct {
	Deleted bool `json:"deleted"`
}

// SystemStatusInput is the input schema for the system_status tool.
type SystemStatusInput struct{}

// SystemStatusOutput is the output schema for the system_status tool.
type SystemStatusOutput struct {
	Version     string            `json:"version"`
	ErrorCounts map[string]uint64 `json:"error_counts"`
	TotalErrors uint64            `json:"total_errors"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ingest_document",
		Description: "Ingest a markdown document into a memory tier",
	}, s.handleIngestDocument)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ingest_directory",
		Description: "Ingest every markdown file in a directory into a memory tier",
	}, s.handleIngestDirectory)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "query_memory",
		Description: "Search memory tiers for content similar to a query",
	}, s.handleQueryMemory)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "check_duplicate",
		Description: "Check whether content already exists within a tier",
	}, s.handleCheckDuplicate)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "analyze_content",
		Description: "Analyze content structure without storing it",
	}, s.handleAnalyzeContent)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_collections",
		Description: "List memory collections with document counts",
	}, s.handleListCollections)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "delete_record",
		Description: "Delete a record by collection and fingerprint",
	}, s.handleDeleteRecord)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "system_status",
		Description: "Report server version and accumulated error counters",
	}, s.handleSystemStatus)
}

func (s *Server) handleIngestDocument(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestDocumentInput,
) (*mcp.CallToolResult, IngestDocumentOutput, error) {
	tier, err := core.ParseTier(input.Tier, input.AgentID, input.TierName)
	if err != nil {
		return nil, IngestDocumentOutput{}, err
	}

	doc := &core.Document{
		Source:   input.Source,
		Text:     input.Content,
		Metadata: input.Metadata,
	}
	outcome, err := s.ports.Ingestor.Ingest(ctx, doc, tier)
	if err != nil {
		return nil, IngestDocumentOutput{}, err
	}

	output := IngestDocumentOutput{
		Stored:      outcome.Stored,
		Fingerprint: outcome.Fingerprint.String(),
		Collection:  outcome.Collection,
		ChunkCount:  outcome.ChunkCount,
		Duplicates:  outcome.Duplicates(),
		Failed:      outcome.FailedChunks(),
		Chunks:      make([]ChunkReport, len(outcome.Chunks)),
	}
	for i, chunk := range outcome.Chunks {
		report := ChunkReport{
			Index:       chunk.Index,
			Fingerprint: chunk.Fingerprint.String(),
			Stored:      chunk.Stored,
			DuplicateOf: chunk.DuplicateOf.String(),
			Category:    string(chunk.Category),
		}
		if chunk.Err != nil {
			report.Error = chunk.Err.Error()
		}
		output.Chunks[i] = report
	}

	return nil, output, nil
}

func (s *Server) handleIngestDirectory(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestDirectoryInput,
) (*mcp.CallToolResult, IngestDirectoryOutput, error) {
	tier, err := core.ParseTier(input.Tier, input.AgentID, input.TierName)
	if err != nil {
		return nil, IngestDirectoryOutput{}, err
	}

	results, err := s.ports.Ingestor.IngestDirectory(ctx, input.Path, tier)
	if err != nil {
		return nil, IngestDirectoryOutput{}, err
	}

	output := IngestDirectoryOutput{Documents: len(results)}
	for _, result := range results {
		switch {
		case result.Err != nil:
			output.Failed = append(output.Failed, result.Source)
		case result.Outcome.Stored:
			output.Stored++
		default:
			output.Skipped++
		}
	}

	return nil, output, nil
}

func (s *Server) handleQueryMemory(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input QueryMemoryInput,
) (*mcp.CallToolResult, QueryMemoryOutput, error) {
	tiers, err := resolveTiers(input.Tiers, input.AgentID, input.TierName)
	if err != nil {
		return nil, QueryMemoryOutput{}, err
	}

	limit := input.Limit
	if limit <= 0 {
		limit = 10
	}

	results, err := s.ports.Querier.Query(ctx, input.Query, tiers, float32(input.MinScore), limit)
	if err != nil {
		return nil, QueryMemoryOutput{}, err
	}

	output := QueryMemoryOutput{
		Results: make([]QueryResultOutput, len(results)),
		Count:   len(results),
	}
	for i, result := range results {
		output.Results[i] = QueryResultOutput{
			Fingerprint: result.Record.Fingerprint.String(),
			Collection:  result.Collection,
			Score:       float64(result.Score),
			Text:        result.Record.Text,
			Source:      result.Record.Metadata["source"],
		}
	}

	return nil, output, nil
}

func (s *Server) handleCheckDuplicate(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CheckDuplicateInput,
) (*mcp.CallToolResult, CheckDuplicateOutput, error) {
	tier, err := core.ParseTier(input.Tier, input.AgentID, input.TierName)
	if err != nil {
		return nil, CheckDuplicateOutput{}, err
	}

	check, err := s.ports.Ingestor.CheckDuplicate(ctx, input.Content, tier)
	if err != nil {
		return nil, CheckDuplicateOutput{}, err
	}

	return nil, CheckDuplicateOutput{
		Duplicate:      check.Duplicate,
		Fingerprint:    check.Fingerprint.String(),
		ChunkCount:     check.ChunkCount,
		ExistingChunks: check.ExistingChunks,
	}, nil
}

func (s *Server) handleAnalyzeContent(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input AnalyzeContentInput,
) (*mcp.CallToolResult, AnalyzeContentOutput, error) {
	analysis := s.ports.Ingestor.Analyze(input.Content)

	return nil, AnalyzeContentOutput{
		Fingerprint: analysis.Fingerprint.String(),
		Words:       analysis.Words,
		Sections:    analysis.Sections,
		Chunks:      analysis.Chunks,
		Summary:     analysis.Summary,
		Metadata:    analysis.Metadata,
	}, nil
}

func (s *Server) handleListCollections(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListCollectionsInput,
) (*mcp.CallToolResult, ListCollectionsOutput, error) {
	collections, err := s.ports.Admin.ListCollections(ctx)
	if err != nil {
		return nil, ListCollectionsOutput{}, err
	}

	output := ListCollectionsOutput{
		Collections: make([]CollectionOutput, len(collections)),
		Count:       len(collections),
	}
	for i, collection := range collections {
		output.Collections[i] = CollectionOutput{
			Name:          collection.Name,
			DocumentCount: collection.DocumentCount,
		}
	}

	return nil, output, nil
}

func (s *Server) handleDeleteRecord(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DeleteRecordInput,
) (*mcp.CallToolResult, DeleteRecordOutput, error) {
	err := s.ports.Admin.DeleteRecord(ctx, input.Collection, core.Fingerprint(input.Fingerprint))
	if err != nil {
		return nil, DeleteRecordOutput{}, err
	}
	return nil, DeleteRecordOutput{Deleted: true}, nil
}

func (s *Server) handleSystemStatus(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ SystemStatusInput,
) (*mcp.CallToolResult, SystemStatusOutput, error) {
	stats := s.ports.Ingestor.Stats()

	counts := make(map[string]uint64)
	for category, count := range stats.Snapshot() {
		counts[string(category)] = count
	}

	return nil, SystemStatusOutput{
		Version:     Version,
		ErrorCounts: counts,
		TotalErrors: stats.Total(),
	}, nil
}

// resolveTiers maps tier names from a query to Tier values.
// An empty list defaults to the global and learned tiers.
func resolveTiers(names []string, agentID, tierName string) ([]core.Tier, error) {
	if len(names) == 0 {
		return []core.Tier{core.GlobalTier(), core.LearnedTier()}, nil
	}

	tiers := make([]core.Tier, 0, len(names))
	for _, name := range names {
		tier, err := core.ParseTier(name, agentID, tierName)
		if err != nil {
			return nil, err
		}
		tiers = append(tiers, tier)
	}
	return tiers, nil
}
