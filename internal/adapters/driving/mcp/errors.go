// Package mcp provides an MCP (Model Context Protocol) server adapter for
// Kestrel. It lets AI assistants retrieve review context and ingest
// guideline documents through the knowledge base.
package mcp

import "errors"

// ErrMissingRetrievalService is returned when the retrieval service is not provided.
var ErrMissingRetrievalService = errors.New("mcp: retrieval service is required")

// ErrMissingIngestionService is returned when the ingestion service is not provided.
var ErrMissingIngestionService = errors.New("mcp: ingestion service is required")
