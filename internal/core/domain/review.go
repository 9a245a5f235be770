package domain

import "time"

// PRFile is one changed file in a pull request, normalised from the
// GitHub API response.
type PRFile struct {
	// Filename is the path within the repository.
	Filename string

	// Status is "added", "removed", "modified" or "renamed".
	Status string

	// Patch is the unified diff for this file. Empty for binary files.
	Patch string

	// Additions and Deletions are line counts from the diff.
	Additions int
	Deletions int
}

// PullRequest identifies a pull request and its changed files.
type PullRequest struct {
	Owner  string
	Repo   string
	Number int
	Title  string
	Author string
	Body   string
	Files  []PRFile
}

// Project returns the canonical "owner/repo" identifier.
func (p PullRequest) Project() string {
	return p.Owner + "/" + p.Repo
}

// Category classifies a review finding.
type Category string

const (
	CategoryBug             Category = "bug"
	CategorySecurity        Category = "security"
	CategoryPerformance     Category = "performance"
	CategoryStyle           Category = "style"
	CategoryMaintainability Category = "maintainability"
	CategoryTesting         Category = "testing"
)

// Finding is a single issue reported for a reviewed file.
type Finding struct {
	Filename   string   `json:"filename"`
	LineStart  int      `json:"line_start,omitempty"`
	LineEnd    int      `json:"line_end,omitempty"`
	Category   Category `json:"type"`
	Severity   Severity `json:"severity,omitempty"`
	Message    string   `json:"message"`
	Suggestion string   `json:"suggestion,omitempty"`
	Snippet    string   `json:"code_snippet,omitempty"`
}

// CoverageFinding reports a source file whose added code has no matching
// test changes, with optional drafted stub names.
type CoverageFinding struct {
	Filename     string   `json:"filename"`
	Message      string   `json:"message"`
	NewFunctions []string `json:"new_functions,omitempty"`
	DraftedStubs []string `json:"drafted_stubs,omitempty"`
}

// ReviewReport is the final output of one review run.
type ReviewReport struct {
	RunID            string            `json:"run_id"`
	PR               PullRequest       `json:"pr"`
	Findings         []Finding         `json:"findings"`
	CoverageFindings []CoverageFinding `json:"coverage_findings,omitempty"`
	Summary          string            `json:"summary,omitempty"`
	StartedAt        time.Time         `json:"started_at"`
	FinishedAt       time.Time         `json:"finished_at"`
}
