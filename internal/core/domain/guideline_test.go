package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGuideline_RecordID(t *testing.T) {
	g := Guideline{
		Project:    "acme/widgets",
		Filename:   "CONTRIBUTING.md",
		ChunkIndex: 2,
	}
	assert.Equal(t, "acme_widgets_CONTRIBUTING.md_2", g.RecordID())
}

func TestSanitizeProject(t *testing.T) {
	tests := []struct {
		name    string
		project string
		want    string
	}{
		{"owner and repo", "acme/widgets", "acme_widgets"},
		{"no slash", "widgets", "widgets"},
		{"nested path", "a/b/c", "a_b_c"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeProject(tt.project))
		})
	}
}

func TestOwnerOf(t *testing.T) {
	assert.Equal(t, "acme", OwnerOf("acme/widgets"))
	assert.Equal(t, "acme", OwnerOf("acme/a/b"))
	assert.Equal(t, "", OwnerOf("widgets"))
	assert.Equal(t, "", OwnerOf(""))
}
