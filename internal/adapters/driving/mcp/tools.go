package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/kestrel-labs/kestrel-cli/internal/core/domain"
	"github.com/kestrel-labs/kestrel-cli/internal/core/services"
)

// ContextInput is the input schema for the get_review_context tool.
type ContextInput struct {
	CodeSnippet   string `json:"code_snippet" jsonschema:"the code fragment to find review context for"`
	Language      string `json:"language,omitempty" jsonschema:"the programming language of the snippet"`
	Project       string `json:"project,omitempty" jsonschema:"the owner/repo project whose guidelines to include"`
	MaxRules      int    `json:"max_rules,omitempty" jsonschema:"maximum number of rules to return (default 5)"`
	MaxGuidelines int    `json:"max_guidelines,omitempty" jsonschema:"maximum number of guidelines to return (default 3)"`
}

// ContextOutput is the output schema for the get_review_context tool.
type ContextOutput struct {
	Rules      []RuleOutput      `json:"rules"`
	Guidelines []GuidelineOutput `json:"guidelines"`

	// Formatted is the context rendered as it would appear in a review
	// prompt. Empty when nothing was retrieved.
	Formatted string `json:"formatted,omitempty"`
}

// RuleOutput represents a single matched rule.
type RuleOutput struct {
	RuleID   string  `json:"rule_id"`
	Title    string  `json:"title"`
	Severity string  `json:"severity"`
	Content  string  `json:"content"`
	Distance float64 `json:"distance"`
}

// GuidelineOutput represents a single matched guideline chunk.
type GuidelineOutput struct {
	Project  string  `json:"project"`
	Filename string  `json:"filename"`
	Content  string  `json:"content"`
	Distance float64 `json:"distance"`
}

// IngestInput is the input schema for the ingest_guideline tool.
type IngestInput struct {
	Content  string `json:"content" jsonschema:"the guideline document text"`
	Filename string `json:"filename" jsonschema:"the document name, e.g. style.md"`
	Project  string `json:"project" jsonschema:"the owner/repo project the guideline belongs to"`
}

// IngestOutput is the output schema for the ingest_guideline tool.
type IngestOutput struct {
	ChunksStored int `json:"chunks_stored"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_review_context",
		Description: "Retrieve review rules and project guidelines relevant to a code fragment",
	}, s.handleGetReviewContext)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ingest_guideline",
		Description: "Store a guideline document in a project's knowledge base",
	}, s.handleIngestGuideline)
}

// handleGetReviewContext handles the get_review_context tool invocation.
func (s *Server) handleGetReviewContext(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ContextInput,
) (*mcp.CallToolResult, ContextOutput, error) {
	rc, err := s.ports.Retrieval.GetRelevantContext(ctx, domain.RetrievalOptions{
		CodeSnippet:   input.CodeSnippet,
		Language:      input.Language,
		Project:       input.Project,
		MaxRules:      input.MaxRules,
		MaxGuidelines: input.MaxGuidelines,
	})
	if err != nil {
		return nil, ContextOutput{}, err
	}

	output := ContextOutput{
		Rules:      make([]RuleOutput, len(rc.Rules)),
		Guidelines: make([]GuidelineOutput, len(rc.Guidelines)),
		Formatted:  services.FormatContextForPrompt(rc),
	}
	for i := range rc.Rules {
		output.Rules[i] = RuleOutput{
			RuleID:   rc.Rules[i].Meta.RuleID,
			Title:    rc.Rules[i].Meta.Title,
			Severity: string(rc.Rules[i].Meta.Severity),
			Content:  rc.Rules[i].Document,
			Distance: rc.Rules[i].Distance,
		}
	}
	for i := range rc.Guidelines {
		output.Guidelines[i] = GuidelineOutput{
			Project:  rc.Guidelines[i].Meta.Project,
			Filename: rc.Guidelines[i].Meta.Filename,
			Content:  rc.Guidelines[i].Document,
			Distance: rc.Guidelines[i].Distance,
		}
	}

	return nil, output, nil
}

// handleIngestGuideline handles the ingest_guideline tool invocation.
func (s *Server) handleIngestGuideline(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestInput,
) (*mcp.CallToolResult, IngestOutput, error) {
	n, err := s.ports.Ingestion.IngestGuideline(ctx, input.Content, input.Filename, input.Project)
	if err != nil {
		return nil, IngestOutput{}, err
	}
	return nil, IngestOutput{ChunksStored: n}, nil
}
