package mcp

import (
	"context"

	"github.com/kestrel-labs/kestrel-cli/internal/core/domain"
)

// mockRetrievalService is a mock implementation of driving.RetrievalService.
type mockRetrievalService struct {
	rc   domain.ReviewContext
	opts domain.RetrievalOptions
	err  error
}

func (m *mockRetrievalService) GetRelevantContext(
	_ context.Context,
	opts domain.RetrievalOptions,
) (domain.ReviewContext, error) {
	m.opts = opts
	return m.rc, m.err
}

// mockIngestionService is a mock implementation of driving.IngestionService.
type mockIngestionService struct {
	chunks   int
	err      error
	content  string
	filename string
	project  string
}

func (m *mockIngestionService) IngestGuideline(_ context.Context, content, filename, project string) (int, error) {
	m.content = content
	m.filename = filename
	m.project = project
	return m.chunks, m.err
}

func (m *mockIngestionService) SeedRules(_ context.Context) (int, error) {
	return 0, m.err
}

func (m *mockIngestionService) Stats(_ context.Context) (map[string]int, error) {
	return nil, m.err
}
