package services

import (
	"context"
	"fmt"

	"github.com/kestrel-labs/kestrel-cli/internal/core/domain"
	"github.com/kestrel-labs/kestrel-cli/internal/core/ports/driven"
)

// mockEmbedder returns deterministic vectors so ranking in tests is
// predictable. Each text embeds to a unit vector keyed by its first byte
// unless an explicit vector is registered.
type mockEmbedder struct {
	vectors map[string][]float32
	err     error
	calls   []string
}

func newMockEmbedder() *mockEmbedder {
	return &mockEmbedder{vectors: map[string][]float32{}}
}

func (m *mockEmbedder) embed(text string) []float32 {
	if v, ok := m.vectors[text]; ok {
		return v
	}
	var b byte
	if len(text) > 0 {
		b = text[0]
	}
	return []float32{float32(b) / 255, 1, 0}
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.calls = append(m.calls, text)
	return m.embed(text), nil
}

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		m.calls = append(m.calls, t)
		out[i] = m.embed(t)
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int { return 3 }

func (m *mockEmbedder) ModelName() string { return "mock-embedder" }

func (m *mockEmbedder) Ping(_ context.Context) error { return nil }

func (m *mockEmbedder) Close() error { return nil }

// mockLLM replays canned responses in order and records prompts.
type mockLLM struct {
	responses []string
	err       error
	prompts   []string
}

func (m *mockLLM) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.prompts = append(m.prompts, prompt)
	if len(m.responses) == 0 {
		return "[]", nil
	}
	resp := m.responses[0]
	m.responses = m.responses[1:]
	return resp, nil
}

func (m *mockLLM) ModelName() string { return "mock-llm" }

func (m *mockLLM) Ping(_ context.Context) error { return nil }

func (m *mockLLM) Close() error { return nil }

// mockRuleSource serves a fixed rule slice.
type mockRuleSource struct {
	rules []domain.Rule
	err   error
}

func (m *mockRuleSource) Load(_ context.Context) ([]domain.Rule, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.rules, nil
}

func (m *mockRuleSource) Name() string { return "test-rules" }

// mockFetcher returns a fixed pull request.
type mockFetcher struct {
	pr  *domain.PullRequest
	err error
}

func (m *mockFetcher) FetchPullRequest(_ context.Context, owner, repo string, number int) (*domain.PullRequest, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.pr == nil {
		return nil, fmt.Errorf("pull request %s/%s#%d: %w", owner, repo, number, domain.ErrNotFound)
	}
	return m.pr, nil
}
