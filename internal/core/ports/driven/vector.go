package driven

import (
	"context"

	"github.com/kestrel-labs/kestrel-cli/internal/core/domain"
)

// VectorIndex is a persistent store of (embedding, document, metadata)
// records organised into two logical collections sharing one embedding
// space: global rules and per-project guidelines.
//
// Implementations must tolerate concurrent readers and a concurrent
// writer versus reader without exposing partially written batches.
type VectorIndex interface {
	// Upsert inserts or replaces records by id. The batch is atomic from
	// the caller's perspective: either all records land or the call fails,
	// and a concurrent Query never observes a partial batch.
	Upsert(ctx context.Context, collection domain.Collection, records []domain.VectorRecord) error

	// Query ranks stored records by cosine distance to the query vector,
	// ascending, and returns at most k matches. A non-nil filter is a hard
	// pre-condition applied before ranking. Ties in distance break by
	// record id so repeated queries against an unchanged index return the
	// same order. An empty or fully filtered collection yields an empty
	// slice, not an error.
	Query(ctx context.Context, collection domain.Collection, vector []float32, k int, filter *domain.GuidelineFilter) ([]domain.Match, error)

	// ReplaceGuidelines atomically deletes every guideline record matching
	// (project, filename) and inserts the given records in their place.
	// This is the re-ingestion path: a shorter re-upload must not leave
	// stale high-index chunks discoverable.
	ReplaceGuidelines(ctx context.Context, project, filename string, records []domain.VectorRecord) error

	// DeleteWhere removes guideline records matching the filter and
	// returns the number removed.
	DeleteWhere(ctx context.Context, collection domain.Collection, filter *domain.GuidelineFilter) (int, error)

	// Count returns the number of records in a collection.
	Count(ctx context.Context, collection domain.Collection) (int, error)

	// Close releases resources.
	Close() error
}
