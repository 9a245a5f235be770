package driving

import (
	"context"

	"github.com/kestrel-labs/kestrel-cli/internal/core/domain"
)

// ReviewService runs the review pipeline for a pull request.
type ReviewService interface {
	// Review fetches the PR, reviews each changed file with static checks
	// and the LLM (augmented with retrieved context), checks test
	// coverage, and produces a summary. Retrieval or LLM failures degrade
	// individual stages; they never abort the run.
	Review(ctx context.Context, prURL string) (*domain.ReviewReport, error)
}
