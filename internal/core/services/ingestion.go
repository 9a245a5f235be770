package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/kestrel-labs/kestrel-cli/internal/chunker"
	"github.com/kestrel-labs/kestrel-cli/internal/core/domain"
	"github.com/kestrel-labs/kestrel-cli/internal/core/ports/driven"
	"github.com/kestrel-labs/kestrel-cli/internal/core/ports/driving"
	"github.com/kestrel-labs/kestrel-cli/internal/logger"
)

// Ensure IngestionService implements the interface.
var _ driving.IngestionService = (*IngestionService)(nil)

// IngestionService chunks, embeds and stores guideline documents and seeds
// the global rules collection.
type IngestionService struct {
	index      driven.VectorIndex
	embedder   driven.EmbeddingService
	ruleSource driven.RuleSource
	chunkSize  int
}

// NewIngestionService creates a new ingestion service. A zero chunkSize
// selects the default chunk size.
func NewIngestionService(
	index driven.VectorIndex,
	embedder driven.EmbeddingService,
	ruleSource driven.RuleSource,
	chunkSize int,
) *IngestionService {
	if chunkSize <= 0 {
		chunkSize = chunker.DefaultChunkSize
	}
	return &IngestionService{
		index:      index,
		embedder:   embedder,
		ruleSource: ruleSource,
		chunkSize:  chunkSize,
	}
}

// IngestGuideline chunks, embeds and stores one guideline document.
// Re-ingestion replaces all prior chunks for (project, filename), so a
// shorter document never leaves stale chunks behind.
func (s *IngestionService) IngestGuideline(ctx context.Context, content, filename, project string) (int, error) {
	if strings.TrimSpace(filename) == "" {
		return 0, fmt.Errorf("filename is required: %w", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(project) == "" {
		return 0, fmt.Errorf("project is required: %w", domain.ErrInvalidInput)
	}

	content = strings.ToValidUTF8(content, "")
	if strings.TrimSpace(content) == "" {
		logger.Debug("Empty guideline content for %s, nothing to ingest", filename)
		return 0, nil
	}

	chunks := chunker.Chunk(content, s.chunkSize)
	if len(chunks) == 0 {
		return 0, nil
	}
	logger.Debug("Chunked %s into %d pieces", filename, len(chunks))

	embeddings, err := s.embedder.EmbedBatch(ctx, chunks)
	if err != nil {
		return 0, fmt.Errorf("embedding guideline %s: %w", filename, wrapTimeout(err))
	}
	if len(embeddings) != len(chunks) {
		return 0, fmt.Errorf("embedding count mismatch for %s: %w", filename, domain.ErrEmbeddingUnavailable)
	}

	owner := domain.OwnerOf(project)
	records := make([]domain.VectorRecord, len(chunks))
	for i, chunk := range chunks {
		g := domain.Guideline{
			Project:    project,
			Owner:      owner,
			Filename:   filename,
			ChunkIndex: i,
			Content:    chunk,
		}
		records[i] = domain.VectorRecord{
			ID:        g.RecordID(),
			Embedding: embeddings[i],
			Document:  chunk,
			Meta: domain.RecordMeta{
				Project:    project,
				Owner:      owner,
				Filename:   filename,
				ChunkIndex: i,
				Source:     domain.GuidelineSource,
				Type:       domain.GuidelineType,
			},
		}
	}

	if err := s.index.ReplaceGuidelines(ctx, project, filename, records); err != nil {
		return 0, fmt.Errorf("storing guideline %s: %w", filename, wrapTimeout(err))
	}

	logger.Info("Ingested %d chunks from %s for project %s", len(records), filename, project)
	return len(records), nil
}

// SeedRules embeds and upserts the global rule records.
func (s *IngestionService) SeedRules(ctx context.Context) (int, error) {
	rules, err := s.ruleSource.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("loading rules: %w", err)
	}
	if len(rules) == 0 {
		return 0, nil
	}

	docs := make([]string, len(rules))
	for i, r := range rules {
		docs[i] = r.Document()
	}

	embeddings, err := s.embedder.EmbedBatch(ctx, docs)
	if err != nil {
		return 0, fmt.Errorf("embedding rules: %w", wrapTimeout(err))
	}
	if len(embeddings) != len(rules) {
		return 0, fmt.Errorf("embedding count mismatch for rules: %w", domain.ErrEmbeddingUnavailable)
	}

	source := s.ruleSource.Name()
	records := make([]domain.VectorRecord, len(rules))
	for i, r := range rules {
		records[i] = domain.VectorRecord{
			ID:        r.ID,
			Embedding: embeddings[i],
			Document:  docs[i],
			Meta: domain.RecordMeta{
				RuleID:   r.ID,
				Title:    r.Title,
				Severity: r.Severity,
				Scope:    r.Scope,
				Source:   source,
				Type:     "review_rule",
			},
		}
	}

	if err := s.index.Upsert(ctx, domain.CollectionRules, records); err != nil {
		return 0, fmt.Errorf("storing rules: %w", wrapTimeout(err))
	}

	logger.Info("Seeded %d rules from %s", len(records), source)
	return len(records), nil
}

// Stats returns record counts per collection.
func (s *IngestionService) Stats(ctx context.Context) (map[string]int, error) {
	stats := make(map[string]int, 2)
	for _, collection := range []domain.Collection{domain.CollectionRules, domain.CollectionGuidelines} {
		n, err := s.index.Count(ctx, collection)
		if err != nil {
			return nil, fmt.Errorf("counting %s: %w", collection, err)
		}
		stats[collection.String()] = n
	}
	return stats, nil
}
