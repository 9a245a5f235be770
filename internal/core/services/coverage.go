package services

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/kestrel-labs/kestrel-cli/internal/core/domain"
	"github.com/kestrel-labs/kestrel-cli/internal/core/ports/driven"
	"github.com/kestrel-labs/kestrel-cli/internal/logger"
)

// stubDraftMaxTokens bounds the stub-naming completion per file.
const stubDraftMaxTokens = 200

// coverageConfig describes how to recognise test files and added function
// definitions for one language.
type coverageConfig struct {
	isTestFile   func(base string) bool
	funcPatterns []*regexp.Regexp
}

// coverageByExtension maps source extensions to their coverage config.
// Files with other extensions are not coverage-checked.
var coverageByExtension = map[string]coverageConfig{
	".py": {
		isTestFile: func(base string) bool {
			return strings.HasPrefix(base, "test_") || strings.HasSuffix(base, "_test.py")
		},
		funcPatterns: []*regexp.Regexp{
			regexp.MustCompile(`^\s*def\s+([A-Za-z_]\w*)\s*\(`),
			regexp.MustCompile(`^\s*class\s+([A-Za-z_]\w*)\b`),
		},
	},
	".go": {
		isTestFile: func(base string) bool {
			return strings.HasSuffix(base, "_test.go")
		},
		funcPatterns: []*regexp.Regexp{
			regexp.MustCompile(`^func\s+(?:\([^)]*\)\s+)?([A-Za-z_]\w*)\s*\(`),
		},
	},
	".js": {
		isTestFile: jsTestFile,
		funcPatterns: []*regexp.Regexp{
			regexp.MustCompile(`^\s*function\s+([A-Za-z_$]\w*)\s*\(`),
			regexp.MustCompile(`^\s*(?:export\s+)?const\s+([A-Za-z_$]\w*)\s*=\s*(?:async\s+)?\(`),
		},
	},
	".ts": {
		isTestFile: jsTestFile,
		funcPatterns: []*regexp.Regexp{
			regexp.MustCompile(`^\s*(?:export\s+)?function\s+([A-Za-z_$]\w*)\s*\(`),
			regexp.MustCompile(`^\s*(?:export\s+)?const\s+([A-Za-z_$]\w*)\s*=\s*(?:async\s+)?\(`),
		},
	},
	".java": {
		isTestFile: func(base string) bool {
			return strings.HasSuffix(base, "Test.java") || strings.HasSuffix(base, "Tests.java")
		},
		funcPatterns: []*regexp.Regexp{
			regexp.MustCompile(`^\s*(?:public|protected|private)\s+[\w<>\[\]]+\s+([a-z]\w*)\s*\(`),
		},
	},
}

func jsTestFile(base string) bool {
	return strings.Contains(base, ".test.") || strings.Contains(base, ".spec.") ||
		strings.HasPrefix(base, "test_")
}

// CheckCoverage flags changed source files that add functions while the PR
// touches no test file for the same language. When llm is non-nil it drafts
// suggested stub names for each flagged file.
func CheckCoverage(ctx context.Context, llm driven.LLMService, files []domain.PRFile) []domain.CoverageFinding {
	testsTouched := map[string]bool{}
	for _, f := range files {
		ext := strings.ToLower(filepath.Ext(f.Filename))
		cfg, ok := coverageByExtension[ext]
		if ok && cfg.isTestFile(filepath.Base(f.Filename)) {
			testsTouched[ext] = true
		}
	}

	findings := []domain.CoverageFinding{}
	for _, f := range files {
		if f.Status == "removed" || f.Patch == "" {
			continue
		}
		ext := strings.ToLower(filepath.Ext(f.Filename))
		cfg, ok := coverageByExtension[ext]
		if !ok || cfg.isTestFile(filepath.Base(f.Filename)) {
			continue
		}
		if testsTouched[ext] {
			continue
		}

		added := addedFunctions(f.Patch, cfg.funcPatterns)
		if len(added) == 0 {
			continue
		}

		finding := domain.CoverageFinding{
			Filename:     f.Filename,
			Message:      fmt.Sprintf("Adds %d function(s) but no test files changed in this PR", len(added)),
			NewFunctions: added,
		}
		if llm != nil {
			finding.DraftedStubs = draftStubs(ctx, llm, f.Filename, added)
		}
		findings = append(findings, finding)
	}
	return findings
}

// addedFunctions extracts function and class names defined on added diff
// lines, in order of appearance, without duplicates.
func addedFunctions(patch string, patterns []*regexp.Regexp) []string {
	seen := map[string]bool{}
	var names []string
	for _, line := range strings.Split(patch, "\n") {
		if !strings.HasPrefix(line, "+") || strings.HasPrefix(line, "+++") {
			continue
		}
		code := strings.TrimPrefix(line, "+")
		for _, p := range patterns {
			m := p.FindStringSubmatch(code)
			if m == nil {
				continue
			}
			if !seen[m[1]] {
				seen[m[1]] = true
				names = append(names, m[1])
			}
		}
	}
	return names
}

// draftStubs asks the model for test function names covering the added
// functions. Failures degrade to no suggestions.
func draftStubs(ctx context.Context, llm driven.LLMService, filename string, functions []string) []string {
	prompt := fmt.Sprintf(
		"Suggest one test function name for each of these new functions in %s: %s.\nRespond with one name per line, no prose.",
		filename, strings.Join(functions, ", "))

	raw, err := llm.Generate(ctx, prompt, driven.GenerateOptions{MaxTokens: stubDraftMaxTokens})
	if err != nil {
		logger.Warn("Stub drafting failed for %s: %v", filename, err)
		return nil
	}

	var stubs []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(strings.Trim(strings.TrimSpace(line), "-*`"))
		if line != "" {
			stubs = append(stubs, line)
		}
	}
	return stubs
}
