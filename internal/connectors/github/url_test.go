package github

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrel-labs/kestrel-cli/internal/core/domain"
)

func TestParsePRURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want PRRef
	}{
		{
			name: "standard URL",
			url:  "https://github.com/octocat/hello-world/pull/42",
			want: PRRef{Owner: "octocat", Repo: "hello-world", Number: 42},
		},
		{
			name: "trailing path segments",
			url:  "https://github.com/octocat/hello-world/pull/42/files",
			want: PRRef{Owner: "octocat", Repo: "hello-world", Number: 42},
		},
		{
			name: "surrounding whitespace",
			url:  "  https://github.com/acme/widgets/pull/7  ",
			want: PRRef{Owner: "acme", Repo: "widgets", Number: 7},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := ParsePRURL(tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ref)
		})
	}
}

func TestParsePRURL_Project(t *testing.T) {
	ref := PRRef{Owner: "acme", Repo: "widgets", Number: 7}
	assert.Equal(t, "acme/widgets", ref.Project())
}

func TestParsePRURL_Invalid(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"empty", ""},
		{"issue URL", "https://github.com/octocat/hello-world/issues/42"},
		{"repo URL", "https://github.com/octocat/hello-world"},
		{"non-numeric number", "https://github.com/octocat/hello-world/pull/abc"},
		{"zero number", "https://github.com/octocat/hello-world/pull/0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePRURL(tt.url)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}
