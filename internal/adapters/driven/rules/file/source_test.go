package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrel-labs/kestrel-cli/internal/core/domain"
)

func TestSource_LoadDefaults(t *testing.T) {
	src := NewSource("")
	assert.Equal(t, DefaultSourceName, src.Name())

	rules, err := src.Load(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, rules)

	seen := make(map[string]bool)
	for _, r := range rules {
		assert.NotEmpty(t, r.ID)
		assert.NotEmpty(t, r.Title)
		assert.True(t, r.Severity.IsValid(), "rule %s has severity %q", r.ID, r.Severity)
		assert.False(t, seen[r.ID], "duplicate rule id %s", r.ID)
		seen[r.ID] = true
	}
}

func TestSource_LoadCustomFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "team-rules.toml")
	content := `
[[rules]]
id = "TEAM-001"
title = "Use the shared HTTP client"
severity = "medium"
description = "Direct http.Client construction bypasses tracing defaults."
fix = "Inject the shared client."
scope = "internal/**"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	src := NewSource(path)
	assert.Equal(t, "team-rules.toml", src.Name())

	rules, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, rules, 1)

	assert.Equal(t, "TEAM-001", rules[0].ID)
	assert.Equal(t, domain.SeverityMedium, rules[0].Severity)
	assert.Equal(t, "internal/**", rules[0].Scope)
	assert.Contains(t, rules[0].Document(), "Use the shared HTTP client.")
}

func TestSource_LoadRejectsDuplicateIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.toml")
	content := `
[[rules]]
id = "X-001"
title = "a"
severity = "low"
description = "d"

[[rules]]
id = "X-001"
title = "b"
severity = "low"
description = "d"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	_, err := NewSource(path).Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSource_LoadRejectsUnknownSeverity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.toml")
	content := `
[[rules]]
id = "X-001"
title = "a"
severity = "critical"
description = "d"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	_, err := NewSource(path).Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSource_LoadMissingFile(t *testing.T) {
	_, err := NewSource(filepath.Join(t.TempDir(), "absent.toml")).Load(context.Background())
	assert.Error(t, err)
}
