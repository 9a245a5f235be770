package driven

import (
	"context"

	"github.com/kestrel-labs/kestrel-cli/internal/core/domain"
)

// PRFetcher retrieves pull request data from a hosting provider.
// The GitHub implementation lives in internal/connectors/github.
type PRFetcher interface {
	// FetchPullRequest returns the PR and its changed files, with patches
	// normalised into domain.PRFile records.
	FetchPullRequest(ctx context.Context, owner, repo string, number int) (*domain.PullRequest, error)
}
