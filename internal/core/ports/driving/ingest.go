package driving

import "context"

// IngestionService stores guideline documents into the project-scoped
// knowledge base.
type IngestionService interface {
	// IngestGuideline chunks, embeds and stores one guideline document for
	// a project. It returns the number of chunks stored. Empty or
	// whitespace-only content is a no-op returning 0. Re-ingesting the
	// same (project, filename) replaces all prior chunks. On embedding
	// failure nothing is stored.
	IngestGuideline(ctx context.Context, content, filename, project string) (int, error)

	// SeedRules embeds and stores the global rule records from the
	// configured rule source. It returns the number of rules stored.
	SeedRules(ctx context.Context) (int, error)

	// Stats returns record counts per collection, keyed by collection name.
	Stats(ctx context.Context) (map[string]int, error)
}
