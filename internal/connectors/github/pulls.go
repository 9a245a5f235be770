package github

import (
	"context"
	"fmt"

	gh "github.com/google/go-github/v80/github"

	"github.com/kestrel-labs/kestrel-cli/internal/core/domain"
	"github.com/kestrel-labs/kestrel-cli/internal/core/ports/driven"
)

// Ensure Connector implements the interface.
var _ driven.PRFetcher = (*Connector)(nil)

// Connector fetches pull requests for review.
type Connector struct {
	client *Client
}

// NewConnector creates a PR fetcher backed by the given client.
func NewConnector(client *Client) *Connector {
	return &Connector{client: client}
}

// FetchPullRequest retrieves a pull request and its changed files.
func (c *Connector) FetchPullRequest(ctx context.Context, owner, repo string, number int) (*domain.PullRequest, error) {
	if err := c.client.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	pr, resp, err := c.client.gh.PullRequests.Get(ctx, owner, repo, number)
	if err != nil {
		return nil, c.client.wrapError(err, "get pull request")
	}
	c.client.updateRateLimitFromResponse(resp)

	files, err := c.listFiles(ctx, owner, repo, number)
	if err != nil {
		return nil, err
	}

	return &domain.PullRequest{
		Owner:  owner,
		Repo:   repo,
		Number: number,
		Title:  pr.GetTitle(),
		Author: pr.GetUser().GetLogin(),
		Body:   pr.GetBody(),
		Files:  files,
	}, nil
}

// listFiles retrieves all changed files for a pull request, following
// pagination until exhausted.
func (c *Connector) listFiles(ctx context.Context, owner, repo string, number int) ([]domain.PRFile, error) {
	opts := &gh.ListOptions{PerPage: 100}

	var files []domain.PRFile
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if err := c.client.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}

		page, resp, err := c.client.gh.PullRequests.ListFiles(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, c.client.wrapError(err, "list pull request files")
		}
		c.client.updateRateLimitFromResponse(resp)

		for _, f := range page {
			files = append(files, domain.PRFile{
				Filename:  f.GetFilename(),
				Status:    f.GetStatus(),
				Patch:     f.GetPatch(),
				Additions: f.GetAdditions(),
				Deletions: f.GetDeletions(),
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return files, nil
}
