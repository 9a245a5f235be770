package mcp

import (
	"github.com/kestrel-labs/kestrel-cli/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Retrieval finds review context for code fragments.
	Retrieval driving.RetrievalService

	// Ingestion stores guideline documents.
	Ingestion driving.IngestionService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Retrieval == nil {
		return ErrMissingRetrievalService
	}
	if p.Ingestion == nil {
		return ErrMissingIngestionService
	}
	return nil
}
