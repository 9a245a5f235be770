package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kestrel-labs/kestrel-cli/internal/core/domain"
	"github.com/kestrel-labs/kestrel-cli/internal/core/ports/driven"
	"github.com/kestrel-labs/kestrel-cli/internal/core/ports/driving"
	"github.com/kestrel-labs/kestrel-cli/internal/logger"
)

// wrapTimeout converts a deadline expiry into the retrieval timeout
// sentinel so callers can match it without inspecting context internals.
func wrapTimeout(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", domain.ErrRetrievalTimeout, err)
	}
	return err
}

// GuidelinePreviewLength is how many characters of a guideline chunk appear
// in the formatted prompt context.
const GuidelinePreviewLength = 300

// Ensure RetrieverService implements the interface.
var _ driving.RetrievalService = (*RetrieverService)(nil)

// RetrieverService assembles the review context for a code snippet: the
// most relevant global rules plus the most relevant guideline chunks for
// the snippet's project.
type RetrieverService struct {
	index    driven.VectorIndex
	embedder driven.EmbeddingService
}

// NewRetrieverService creates a new retriever service.
func NewRetrieverService(index driven.VectorIndex, embedder driven.EmbeddingService) *RetrieverService {
	return &RetrieverService{index: index, embedder: embedder}
}

// GetRelevantContext embeds a query built from the snippet and language and
// runs one ranked search per collection. The guidelines search is skipped
// entirely when no project is given.
func (s *RetrieverService) GetRelevantContext(ctx context.Context, opts domain.RetrievalOptions) (domain.ReviewContext, error) {
	maxRules := opts.MaxRules
	if maxRules <= 0 {
		maxRules = domain.DefaultMaxRules
	}
	maxGuidelines := opts.MaxGuidelines
	if maxGuidelines <= 0 {
		maxGuidelines = domain.DefaultMaxGuidelines
	}

	snippet := truncateOnRune(opts.CodeSnippet, domain.MaxQuerySnippet)
	query := fmt.Sprintf("%s code review: %s", opts.Language, snippet)

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return domain.ReviewContext{}, fmt.Errorf("embedding query: %w", wrapTimeout(err))
	}

	rules, err := s.index.Query(ctx, domain.CollectionRules, vector, maxRules, nil)
	if err != nil {
		return domain.ReviewContext{}, fmt.Errorf("querying rules: %w", wrapTimeout(err))
	}

	guidelines := []domain.Match{}
	if opts.Project != "" {
		filter := &domain.GuidelineFilter{Project: opts.Project}
		guidelines, err = s.index.Query(ctx, domain.CollectionGuidelines, vector, maxGuidelines, filter)
		if err != nil {
			return domain.ReviewContext{}, fmt.Errorf("querying guidelines: %w", wrapTimeout(err))
		}
	}

	logger.Debug("Retrieved %d rules and %d guidelines for %q", len(rules), len(guidelines), opts.Language)

	return domain.ReviewContext{
		Rules:      rules,
		Guidelines: guidelines,
		Query:      query,
	}, nil
}

// truncateOnRune cuts s to at most max bytes without splitting a
// multi-byte rune, so the query text stays valid UTF-8.
func truncateOnRune(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// FormatContextForPrompt renders a review context as a prompt section.
// Returns "" when the context is empty.
func FormatContextForPrompt(rc domain.ReviewContext) string {
	if rc.Empty() {
		return ""
	}

	var b strings.Builder

	if len(rc.Rules) > 0 {
		b.WriteString("Relevant review rules:\n")
		for i, m := range rc.Rules {
			severity := strings.ToUpper(string(m.Meta.Severity))
			fmt.Fprintf(&b, "%d. [%s] (%s) %s\n", i+1, m.Meta.RuleID, severity, m.Meta.Title)
			fmt.Fprintf(&b, "   %s\n", m.Document)
		}
	}

	if len(rc.Guidelines) > 0 {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString("Project guidelines:\n")
		for i, m := range rc.Guidelines {
			preview := m.Document
			if len(preview) > GuidelinePreviewLength {
				preview = truncateOnRune(preview, GuidelinePreviewLength) + "..."
			}
			fmt.Fprintf(&b, "%d. From `%s` (project: %s):\n", i+1, m.Meta.Filename, m.Meta.Project)
			fmt.Fprintf(&b, "   %s\n", preview)
		}
	}

	return b.String()
}
