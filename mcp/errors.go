package mcp

import "errors"

var (
	// ErrMissingIngestor is returned when the ingestion port is not set.
	ErrMissingIngestor = errors.New("ingestor port required")

	// ErrMissingQuerier is returned when the query port is not set.
	ErrMissingQuerier = errors.New("querier port required")

	// ErrMissingAdmin is returned when the admin port is not set.
	ErrMissingAdmin = errors.New("admin port required")
)
