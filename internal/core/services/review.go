package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	ghconn "github.com/kestrel-labs/kestrel-cli/internal/connectors/github"
	"github.com/kestrel-labs/kestrel-cli/internal/core/domain"
	"github.com/kestrel-labs/kestrel-cli/internal/core/ports/driven"
	"github.com/kestrel-labs/kestrel-cli/internal/core/ports/driving"
	"github.com/kestrel-labs/kestrel-cli/internal/logger"
)

// LargePatchLines is the added+removed line count above which a file is
// flagged for review in smaller pieces.
const LargePatchLines = 200

// llmFindingsMaxTokens bounds the per-file review completion.
const llmFindingsMaxTokens = 1500

// staticPatterns are substrings searched for in added diff lines. Each hit
// produces a style finding without involving the LLM.
var staticPatterns = []struct {
	needle  string
	message string
}{
	{"TODO", "Unresolved TODO comment left in the change"},
	{"FIXME", "Unresolved FIXME comment left in the change"},
	{"console.log", "Debug logging statement (console.log) left in the change"},
	{"System.out.print", "Debug logging statement (System.out.print) left in the change"},
}

// Ensure Reviewer implements the interface.
var _ driving.ReviewService = (*Reviewer)(nil)

// Reviewer runs the full review pipeline: fetch the PR, review each changed
// file with static checks and the LLM, check test coverage and summarise.
type Reviewer struct {
	fetcher   driven.PRFetcher
	retriever driving.RetrievalService
	llm       driven.LLMService
}

// NewReviewer creates a review service. retriever and llm may be nil, in
// which case the corresponding pipeline stages are skipped.
func NewReviewer(fetcher driven.PRFetcher, retriever driving.RetrievalService, llm driven.LLMService) *Reviewer {
	return &Reviewer{fetcher: fetcher, retriever: retriever, llm: llm}
}

// Review fetches the pull request behind prURL and produces a report.
// Retrieval and LLM failures degrade the affected stage; only a fetch
// failure aborts the run.
func (s *Reviewer) Review(ctx context.Context, prURL string) (*domain.ReviewReport, error) {
	ref, err := ghconn.ParsePRURL(prURL)
	if err != nil {
		return nil, err
	}

	report := &domain.ReviewReport{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}

	logger.Section("Fetching pull request")
	pr, err := s.fetcher.FetchPullRequest(ctx, ref.Owner, ref.Repo, ref.Number)
	if err != nil {
		return nil, fmt.Errorf("fetching %s#%d: %w", ref.Project(), ref.Number, err)
	}
	report.PR = *pr
	logger.Info("Reviewing %s#%d: %s (%d files)", pr.Project(), pr.Number, pr.Title, len(pr.Files))

	logger.Section("Reviewing changed files")
	findings := []domain.Finding{}
	for _, file := range pr.Files {
		if file.Patch == "" {
			logger.Debug("Skipping %s: no textual patch", file.Filename)
			continue
		}
		findings = append(findings, staticFindings(file)...)
		findings = append(findings, s.llmFindings(ctx, pr.Project(), file)...)
	}
	report.Findings = findings

	logger.Section("Checking test coverage")
	report.CoverageFindings = CheckCoverage(ctx, s.llm, pr.Files)

	logger.Section("Summarising")
	report.Summary = Summarize(ctx, s.llm, pr)

	report.FinishedAt = time.Now().UTC()
	logger.Info("Review complete: %d findings, %d coverage gaps", len(report.Findings), len(report.CoverageFindings))
	return report, nil
}

// staticFindings runs the pattern-based checks over a file's added lines.
func staticFindings(file domain.PRFile) []domain.Finding {
	var findings []domain.Finding

	for _, line := range strings.Split(file.Patch, "\n") {
		if !strings.HasPrefix(line, "+") || strings.HasPrefix(line, "+++") {
			continue
		}
		for _, p := range staticPatterns {
			if strings.Contains(line, p.needle) {
				findings = append(findings, domain.Finding{
					Filename: file.Filename,
					Category: domain.CategoryStyle,
					Severity: domain.SeverityLow,
					Message:  p.message,
					Snippet:  strings.TrimPrefix(line, "+"),
				})
			}
		}
	}

	if file.Additions+file.Deletions > LargePatchLines {
		findings = append(findings, domain.Finding{
			Filename: file.Filename,
			Category: domain.CategoryPerformance,
			Severity: domain.SeverityMedium,
			Message:  fmt.Sprintf("Large change (%d lines). Consider splitting into smaller, focused changes.", file.Additions+file.Deletions),
		})
	}

	return findings
}

// llmFindings asks the model to review one file's patch, augmented with
// retrieved rules and guidelines. Any failure produces zero findings.
func (s *Reviewer) llmFindings(ctx context.Context, project string, file domain.PRFile) []domain.Finding {
	if s.llm == nil {
		return nil
	}

	language := LanguageForFile(file.Filename)
	if language == UnknownLanguage {
		logger.Debug("Skipping LLM review for %s: unrecognised language", file.Filename)
		return nil
	}

	var contextBlock string
	if s.retriever != nil {
		rc, err := s.retriever.GetRelevantContext(ctx, domain.RetrievalOptions{
			CodeSnippet: file.Patch,
			Language:    language,
			Project:     project,
		})
		if err != nil {
			logger.Warn("Context retrieval failed for %s: %v", file.Filename, err)
		} else {
			contextBlock = FormatContextForPrompt(rc)
		}
	}

	prompt := buildReviewPrompt(file, language, contextBlock)
	raw, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{MaxTokens: llmFindingsMaxTokens})
	if err != nil {
		logger.Warn("LLM review failed for %s: %v", file.Filename, err)
		return nil
	}

	findings, err := parseFindings(raw)
	if err != nil {
		logger.Warn("Unparseable review output for %s: %v", file.Filename, err)
		return nil
	}

	for i := range findings {
		if findings[i].Filename == "" {
			findings[i].Filename = file.Filename
		}
	}
	return findings
}

func buildReviewPrompt(file domain.PRFile, language, contextBlock string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert %s code reviewer. Review the following diff for bugs, security issues, performance problems, style violations and maintainability concerns.\n\n", language)
	if contextBlock != "" {
		b.WriteString(contextBlock)
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "File: %s\nDiff:\n```\n%s\n```\n\n", file.Filename, file.Patch)
	b.WriteString(`Respond with a JSON array of findings, possibly empty. Each finding is an object with keys: "filename", "line_start", "line_end", "type" (one of bug, security, performance, style, maintainability, testing), "severity" (high, medium, low or info), "message", "suggestion". Respond with the JSON array only, no prose.`)
	return b.String()
}

// parseFindings extracts the JSON array from a model response, tolerating
// surrounding prose or code fences.
func parseFindings(raw string) ([]domain.Finding, error) {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON array in response")
	}

	var findings []domain.Finding
	if err := json.Unmarshal([]byte(raw[start:end+1]), &findings); err != nil {
		return nil, fmt.Errorf("decoding findings: %w", err)
	}
	return findings, nil
}
