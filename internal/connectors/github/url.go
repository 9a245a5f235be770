package github

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/kestrel-labs/kestrel-cli/internal/core/domain"
)

// PRRef identifies a pull request by its repository coordinates.
type PRRef struct {
	Owner  string
	Repo   string
	Number int
}

// Project returns the "owner/repo" project identifier.
func (r PRRef) Project() string {
	return r.Owner + "/" + r.Repo
}

// ParsePRURL extracts the owner, repository and number from a pull request
// URL such as https://github.com/octocat/hello-world/pull/42.
func ParsePRURL(raw string) (PRRef, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return PRRef{}, fmt.Errorf("parsing PR URL: %w: %w", err, domain.ErrInvalidInput)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 4 || parts[2] != "pull" {
		return PRRef{}, fmt.Errorf("not a pull request URL: %q: %w", raw, domain.ErrInvalidInput)
	}

	number, err := strconv.Atoi(parts[3])
	if err != nil || number <= 0 {
		return PRRef{}, fmt.Errorf("invalid PR number %q: %w", parts[3], domain.ErrInvalidInput)
	}

	return PRRef{
		Owner:  parts[0],
		Repo:   parts[1],
		Number: number,
	}, nil
}
