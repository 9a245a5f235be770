// Package memory provides an in-memory VectorIndex implementation.
// It mirrors the SQLite adapter's semantics exactly (cosine distance,
// hard pre-filtering, id tie-breaking) and is used as a test double and
// for ephemeral runs.
package memory

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/kestrel-labs/kestrel-cli/internal/core/domain"
	"github.com/kestrel-labs/kestrel-cli/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index is an in-memory vector index with two collections.
type Index struct {
	mu          sync.RWMutex
	collections map[domain.Collection]map[string]domain.VectorRecord
}

// NewIndex creates an empty in-memory index.
func NewIndex() *Index {
	return &Index{
		collections: map[domain.Collection]map[string]domain.VectorRecord{
			domain.CollectionRules:      {},
			domain.CollectionGuidelines: {},
		},
	}
}

// Upsert inserts or replaces records by id. The whole batch lands under
// one lock acquisition, so readers never observe a partial batch.
func (x *Index) Upsert(_ context.Context, collection domain.Collection, records []domain.VectorRecord) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	coll, ok := x.collections[collection]
	if !ok {
		return domain.ErrInvalidInput
	}
	for _, rec := range records {
		if rec.ID == "" {
			return domain.ErrInvalidInput
		}
	}
	for _, rec := range records {
		coll[rec.ID] = rec
	}
	return nil
}

// Query ranks records by cosine distance, ascending, ties broken by id.
func (x *Index) Query(
	_ context.Context, collection domain.Collection, vector []float32, k int, filter *domain.GuidelineFilter,
) ([]domain.Match, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	coll, ok := x.collections[collection]
	if !ok {
		return nil, domain.ErrInvalidInput
	}
	if err := ValidateFilter(filter); err != nil {
		return nil, err
	}
	if k <= 0 || len(coll) == 0 {
		return []domain.Match{}, nil
	}

	matches := make([]domain.Match, 0, len(coll))
	for _, rec := range coll {
		if !filter.Matches(rec.Meta) {
			continue
		}
		matches = append(matches, domain.Match{
			ID:       rec.ID,
			Document: rec.Document,
			Meta:     rec.Meta,
			Distance: CosineDistance(vector, rec.Embedding),
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Distance != matches[j].Distance {
			return matches[i].Distance < matches[j].Distance
		}
		return matches[i].ID < matches[j].ID
	})

	if len(matches) > k {
		matches = matches[:k]
	}
	return matches, nil
}

// ReplaceGuidelines atomically swaps all chunks for (project, filename).
func (x *Index) ReplaceGuidelines(_ context.Context, project, filename string, records []domain.VectorRecord) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	coll := x.collections[domain.CollectionGuidelines]
	for id, rec := range coll {
		if rec.Meta.Project == project && rec.Meta.Filename == filename {
			delete(coll, id)
		}
	}
	for _, rec := range records {
		if rec.ID == "" {
			return domain.ErrInvalidInput
		}
		coll[rec.ID] = rec
	}
	return nil
}

// DeleteWhere removes records matching the filter and reports how many.
func (x *Index) DeleteWhere(_ context.Context, collection domain.Collection, filter *domain.GuidelineFilter) (int, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	coll, ok := x.collections[collection]
	if !ok {
		return 0, domain.ErrInvalidInput
	}
	removed := 0
	for id, rec := range coll {
		if filter.Matches(rec.Meta) {
			delete(coll, id)
			removed++
		}
	}
	return removed, nil
}

// Count returns the number of records in a collection.
func (x *Index) Count(_ context.Context, collection domain.Collection) (int, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	coll, ok := x.collections[collection]
	if !ok {
		return 0, domain.ErrInvalidInput
	}
	return len(coll), nil
}

// Close releases resources.
func (x *Index) Close() error {
	return nil
}

// ValidateFilter rejects filters the index cannot apply: a non-nil
// filter with no fields set, or field values containing NUL bytes.
func ValidateFilter(filter *domain.GuidelineFilter) error {
	if filter == nil {
		return nil
	}
	if filter.Project == "" && filter.Owner == "" {
		return domain.ErrInvalidFilter
	}
	if strings.ContainsRune(filter.Project, 0) || strings.ContainsRune(filter.Owner, 0) {
		return domain.ErrInvalidFilter
	}
	return nil
}

// CosineDistance returns 1 - cosine similarity. 0 means identical
// direction, 2 means opposite. Mismatched or zero-magnitude vectors are
// maximally distant.
func CosineDistance(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 2
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 2
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}
