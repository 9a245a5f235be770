package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/kestrel-labs/kestrel-cli/internal/core/domain"
	"github.com/kestrel-labs/kestrel-cli/internal/core/ports/driven"
	"github.com/kestrel-labs/kestrel-cli/internal/logger"
)

// summaryMaxTokens bounds the summary completion.
const summaryMaxTokens = 150

// changeCounts aggregates what a pull request touches.
type changeCounts struct {
	added       int
	modified    int
	removed     int
	newEntities int
}

// Summarize produces a short natural-language summary of the pull request.
// Without an LLM, or when generation fails, it falls back to a deterministic
// sentence built from the change counts.
func Summarize(ctx context.Context, llm driven.LLMService, pr *domain.PullRequest) string {
	counts := countChanges(pr.Files)
	fallback := fmt.Sprintf(
		"In this PR, %d files were added, %d modified, %d removed, with %d new functions/classes.",
		counts.added, counts.modified, counts.removed, counts.newEntities)

	if llm == nil {
		return fallback
	}

	prompt := buildSummaryPrompt(pr, counts)
	summary, err := llm.Generate(ctx, prompt, driven.GenerateOptions{MaxTokens: summaryMaxTokens})
	if err != nil {
		logger.Warn("Summary generation failed: %v", err)
		return fallback
	}
	summary = strings.TrimSpace(summary)
	if summary == "" {
		return fallback
	}
	return summary
}

func countChanges(files []domain.PRFile) changeCounts {
	var c changeCounts
	for _, f := range files {
		switch f.Status {
		case "added":
			c.added++
		case "removed":
			c.removed++
		default:
			c.modified++
		}
		ext := strings.ToLower(filepath.Ext(f.Filename))
		if cfg, ok := coverageByExtension[ext]; ok {
			c.newEntities += len(addedFunctions(f.Patch, cfg.funcPatterns))
		}
	}
	return c
}

func buildSummaryPrompt(pr *domain.PullRequest, counts changeCounts) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Summarise this pull request in 1-2 sentences for a changelog.\n\n")
	fmt.Fprintf(&b, "Title: %s\n", pr.Title)
	if pr.Body != "" {
		body := pr.Body
		if len(body) > 500 {
			body = body[:500]
		}
		fmt.Fprintf(&b, "Description: %s\n", body)
	}
	fmt.Fprintf(&b, "Changes: %d files added, %d modified, %d removed, %d new functions/classes.\n",
		counts.added, counts.modified, counts.removed, counts.newEntities)
	b.WriteString("Changed files:\n")
	for i, f := range pr.Files {
		if i >= 20 {
			fmt.Fprintf(&b, "- and %d more\n", len(pr.Files)-i)
			break
		}
		fmt.Fprintf(&b, "- %s (%s)\n", f.Filename, f.Status)
	}
	return b.String()
}
