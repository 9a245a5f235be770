// Package file provides a TOML-backed rule source. When no rules file is
// provided, a curated default set shipped with the binary is used.
package file

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/kestrel-labs/kestrel-cli/internal/core/domain"
	"github.com/kestrel-labs/kestrel-cli/internal/core/ports/driven"
)

// Ensure Source implements the interface.
var _ driven.RuleSource = (*Source)(nil)

//go:embed defaults.toml
var defaultRules []byte

// DefaultSourceName identifies the embedded rule set.
const DefaultSourceName = "builtin"

// Source loads review rules from a TOML file.
type Source struct {
	path string
}

// rulesFile is the TOML document layout.
type rulesFile struct {
	Rules []ruleEntry `toml:"rules"`
}

// ruleEntry is one [[rules]] table.
type ruleEntry struct {
	ID          string `toml:"id"`
	Title       string `toml:"title"`
	Severity    string `toml:"severity"`
	Description string `toml:"description"`
	Fix         string `toml:"fix"`
	Scope       string `toml:"scope"`
}

// NewSource creates a rule source reading from path. An empty path selects
// the embedded default rule set.
func NewSource(path string) *Source {
	return &Source{path: path}
}

// Load returns all rules from the source.
func (s *Source) Load(ctx context.Context) ([]domain.Rule, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data := defaultRules
	if s.path != "" {
		var err error
		data, err = os.ReadFile(s.path)
		if err != nil {
			return nil, fmt.Errorf("reading rules file: %w", err)
		}
	}

	var doc rulesFile
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing rules file: %w", err)
	}

	seen := make(map[string]bool, len(doc.Rules))
	rules := make([]domain.Rule, 0, len(doc.Rules))
	for i, entry := range doc.Rules {
		if entry.ID == "" {
			return nil, fmt.Errorf("rule %d: missing id: %w", i, domain.ErrInvalidInput)
		}
		if seen[entry.ID] {
			return nil, fmt.Errorf("rule %d: duplicate id %q: %w", i, entry.ID, domain.ErrInvalidInput)
		}
		seen[entry.ID] = true

		severity := domain.Severity(entry.Severity)
		if !severity.IsValid() {
			return nil, fmt.Errorf("rule %s: unknown severity %q: %w", entry.ID, entry.Severity, domain.ErrInvalidInput)
		}

		rules = append(rules, domain.Rule{
			ID:          entry.ID,
			Title:       entry.Title,
			Severity:    severity,
			Description: entry.Description,
			Fix:         entry.Fix,
			Scope:       entry.Scope,
		})
	}

	return rules, nil
}

// Name identifies the source for record metadata.
func (s *Source) Name() string {
	if s.path == "" {
		return DefaultSourceName
	}
	return filepath.Base(s.path)
}
