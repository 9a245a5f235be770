package cli

import (
	"context"

	"github.com/kestrel-labs/kestrel-cli/internal/core/domain"
)

// mockIngestionService records ingestion calls with canned results.
type mockIngestionService struct {
	chunks   int
	seeded   int
	stats    map[string]int
	err      error
	filename string
	project  string
}

func (m *mockIngestionService) IngestGuideline(_ context.Context, _, filename, project string) (int, error) {
	m.filename = filename
	m.project = project
	return m.chunks, m.err
}

func (m *mockIngestionService) SeedRules(_ context.Context) (int, error) {
	return m.seeded, m.err
}

func (m *mockIngestionService) Stats(_ context.Context) (map[string]int, error) {
	return m.stats, m.err
}

// mockRetrievalService returns a canned review context.
type mockRetrievalService struct {
	rc   domain.ReviewContext
	opts domain.RetrievalOptions
	err  error
}

func (m *mockRetrievalService) GetRelevantContext(_ context.Context, opts domain.RetrievalOptions) (domain.ReviewContext, error) {
	m.opts = opts
	return m.rc, m.err
}

// mockReviewService returns a canned report.
type mockReviewService struct {
	report *domain.ReviewReport
	url    string
	err    error
}

func (m *mockReviewService) Review(_ context.Context, prURL string) (*domain.ReviewReport, error) {
	m.url = prURL
	if m.err != nil {
		return nil, m.err
	}
	return m.report, nil
}

// setupTestServices wires mock services and returns a cleanup that restores
// the previous wiring.
func setupTestServices() func() {
	prevIngestion := ingestionService
	prevRetrieval := retrievalService
	prevReview := reviewService

	ingestionService = &mockIngestionService{chunks: 2, seeded: 10, stats: map[string]int{"rules": 10, "guidelines": 4}}
	retrievalService = &mockRetrievalService{
		rc: domain.ReviewContext{
			Rules: []domain.Match{
				{ID: "SEC-001", Document: "No hardcoded secrets.",
					Meta: domain.RecordMeta{RuleID: "SEC-001", Title: "No hardcoded secrets", Severity: domain.SeverityHigh}},
			},
		},
	}
	reviewService = &mockReviewService{
		report: &domain.ReviewReport{
			RunID: "run-1",
			PR:    domain.PullRequest{Owner: "acme", Repo: "widgets", Number: 42, Title: "Add login"},
			Findings: []domain.Finding{
				{Filename: "auth.py", Category: domain.CategorySecurity, Severity: domain.SeverityHigh, Message: "Hardcoded password"},
			},
			Summary: "Adds a login handler.",
		},
	}

	return func() {
		ingestionService = prevIngestion
		retrievalService = prevRetrieval
		reviewService = prevReview
	}
}
