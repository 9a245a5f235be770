package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kestrel-labs/kestrel-cli/internal/core/domain"
)

var reviewJSON bool

var reviewCmd = &cobra.Command{
	Use:   "review [pr-url]",
	Short: "Review a GitHub pull request",
	Long: `Fetches a pull request and reviews every changed file with static
checks and the configured LLM, augmented with relevant rules and
project guidelines from the knowledge base.

Example:
  kestrel review https://github.com/acme/widgets/pull/42`,
	Args: cobra.ExactArgs(1),
	RunE: runReview,
}

func init() {
	reviewCmd.Flags().BoolVar(&reviewJSON, "json", false, "output the report as JSON")
	rootCmd.AddCommand(reviewCmd)
}

func runReview(cmd *cobra.Command, args []string) error {
	if reviewService == nil {
		return errors.New("review service not configured")
	}

	report, err := reviewService.Review(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("review failed: %w", err)
	}

	if reviewJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	return outputReport(cmd, report)
}

func outputReport(cmd *cobra.Command, report *domain.ReviewReport) error {
	cmd.Printf("Review of %s#%d: %s\n", report.PR.Project(), report.PR.Number, report.PR.Title)
	cmd.Println()

	if len(report.Findings) == 0 {
		cmd.Println("No findings.")
	} else {
		findings := make([]domain.Finding, len(report.Findings))
		copy(findings, report.Findings)
		sort.SliceStable(findings, func(i, j int) bool {
			return domain.SeverityRank(findings[i].Severity) > domain.SeverityRank(findings[j].Severity)
		})

		cmd.Printf("Findings (%d):\n", len(report.Findings))
		for i, f := range findings {
			location := f.Filename
			if f.LineStart > 0 {
				location = fmt.Sprintf("%s:%d", f.Filename, f.LineStart)
			}
			cmd.Printf("  [%d] %s %s (%s)\n", i+1, strings.ToUpper(string(f.Severity)), location, f.Category)
			cmd.Printf("      %s\n", f.Message)
			if f.Suggestion != "" {
				cmd.Printf("      Suggestion: %s\n", f.Suggestion)
			}
		}
	}

	if len(report.CoverageFindings) > 0 {
		cmd.Println()
		cmd.Printf("Test coverage gaps (%d):\n", len(report.CoverageFindings))
		for _, cf := range report.CoverageFindings {
			cmd.Printf("  %s: %s\n", cf.Filename, cf.Message)
			if len(cf.DraftedStubs) > 0 {
				cmd.Printf("      Suggested tests: %s\n", strings.Join(cf.DraftedStubs, ", "))
			}
		}
	}

	if report.Summary != "" {
		cmd.Println()
		cmd.Printf("Summary: %s\n", report.Summary)
	}

	return nil
}
