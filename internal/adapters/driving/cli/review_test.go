package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kestrel-labs/kestrel-cli/internal/core/domain"
)

func TestReviewCmd_Use(t *testing.T) {
	assert.Equal(t, "review [pr-url]", reviewCmd.Use)
}

func TestReviewCmd_RequiresExactlyOneArg(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"review"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestReviewCmd_PrintsReport(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"review", "https://github.com/acme/widgets/pull/42"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "Review of acme/widgets#42")
	assert.Contains(t, out, "HIGH auth.py (security)")
	assert.Contains(t, out, "Hardcoded password")
	assert.Contains(t, out, "Summary: Adds a login handler.")
}

func TestReviewCmd_FindingsOrderedBySeverity(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	reviewService = &mockReviewService{
		report: &domain.ReviewReport{
			RunID: "run-1",
			PR:    domain.PullRequest{Owner: "acme", Repo: "widgets", Number: 42, Title: "Add login"},
			Findings: []domain.Finding{
				{Filename: "util.py", Category: domain.CategoryStyle, Severity: domain.SeverityLow, Message: "Leftover TODO"},
				{Filename: "auth.py", Category: domain.CategorySecurity, Severity: domain.SeverityHigh, Message: "Hardcoded password"},
				{Filename: "db.py", Category: domain.CategoryPerformance, Severity: domain.SeverityMedium, Message: "N+1 query"},
			},
		},
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"review", "https://github.com/acme/widgets/pull/42"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	out := buf.String()
	high := strings.Index(out, "HIGH auth.py")
	medium := strings.Index(out, "MEDIUM db.py")
	low := strings.Index(out, "LOW util.py")
	assert.True(t, high >= 0 && medium >= 0 && low >= 0)
	assert.Less(t, high, medium)
	assert.Less(t, medium, low)
}

func TestReviewCmd_JSONOutput(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"review", "https://github.com/acme/widgets/pull/42", "--json"})
	defer func() {
		rootCmd.SetArgs(nil)
		reviewJSON = false
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), `"run_id": "run-1"`)
	assert.Contains(t, buf.String(), `"type": "security"`)
}

func TestReviewCmd_ServiceError(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	reviewService = &mockReviewService{err: domain.ErrNotFound}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"review", "https://github.com/acme/widgets/pull/42"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReviewCmd_NoServiceConfigured(t *testing.T) {
	prev := reviewService
	reviewService = nil
	defer func() { reviewService = prev }()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"review", "https://github.com/acme/widgets/pull/42"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}
