package domain

import (
	"fmt"
	"strings"
)

// Metadata tag values for guideline records.
const (
	// GuidelineSource marks records produced by user-uploaded documents.
	GuidelineSource = "user_guideline"

	// GuidelineType marks records belonging to the project guideline space.
	GuidelineType = "project_guideline"
)

// Guideline is one chunk of a user-uploaded guideline document, scoped to a
// single project. Identity is (project, filename, chunk index); re-ingesting
// the same file replaces all prior chunks for that (project, filename).
type Guideline struct {
	// Project is the canonical "owner/repo" identifier.
	Project string

	// Owner is the substring of Project before the first "/".
	// Empty when Project contains no "/".
	Owner string

	// Filename is the source document name.
	Filename string

	// ChunkIndex is the 0-based position of this chunk within the document.
	ChunkIndex int

	// Content is the chunk text.
	Content string
}

// RecordID returns the stable vector record id for this guideline chunk.
// Path-unsafe characters in the project identifier are sanitised so the id
// is usable as a storage key.
func (g Guideline) RecordID() string {
	return fmt.Sprintf("%s_%s_%d", SanitizeProject(g.Project), g.Filename, g.ChunkIndex)
}

// SanitizeProject replaces path separators in a project identifier so it can
// be embedded in record ids.
func SanitizeProject(project string) string {
	return strings.ReplaceAll(project, "/", "_")
}

// OwnerOf derives the owner portion of an "owner/repo" project identifier.
// Returns "" when the identifier has no "/".
func OwnerOf(project string) string {
	if i := strings.Index(project, "/"); i >= 0 {
		return project[:i]
	}
	return ""
}
