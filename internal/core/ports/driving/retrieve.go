package driving

import (
	"context"

	"github.com/kestrel-labs/kestrel-cli/internal/core/domain"
)

// RetrievalService finds review context relevant to a code fragment.
type RetrievalService interface {
	// GetRelevantContext searches the rules collection (unfiltered) and
	// the guidelines collection (restricted to project) for entries
	// relevant to the code snippet. An empty project yields empty
	// guidelines; it never falls back to an unfiltered search.
	GetRelevantContext(ctx context.Context, opts domain.RetrievalOptions) (domain.ReviewContext, error)
}
