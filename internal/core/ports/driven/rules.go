package driven

import (
	"context"

	"github.com/kestrel-labs/kestrel-cli/internal/core/domain"
)

// RuleSource loads the curated global review rules from a static
// configuration source. Rules are loaded once at process start; there is
// no mutation API.
type RuleSource interface {
	// Load returns all rules from the source.
	Load(ctx context.Context) ([]domain.Rule, error)

	// Name identifies the source (e.g. a file name) for record metadata.
	Name() string
}
