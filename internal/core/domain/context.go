package domain

// Retrieval defaults applied when the caller leaves a cap unset.
const (
	// DefaultMaxRules is the default number of rule matches per retrieval.
	DefaultMaxRules = 5

	// DefaultMaxGuidelines is the default number of guideline matches per
	// retrieval.
	DefaultMaxGuidelines = 3

	// MaxQuerySnippet is the number of code characters included in the
	// retrieval query.
	MaxQuerySnippet = 500
)

// RetrievalOptions describe one context retrieval request.
type RetrievalOptions struct {
	// CodeSnippet is the code fragment under review. Only the first
	// MaxQuerySnippet characters contribute to the query.
	CodeSnippet string

	// Language is a free-text language label, e.g. "Python".
	Language string

	// Project is the optional "owner/repo" scope for guidelines.
	// When empty the guidelines portion of the result is empty.
	Project string

	// MaxRules caps rule matches. Zero means DefaultMaxRules.
	MaxRules int

	// MaxGuidelines caps guideline matches. Zero means
	// DefaultMaxGuidelines.
	MaxGuidelines int
}

// ReviewContext is the retrieval result injected into a review prompt:
// the top-K relevant rules (global) and guideline chunks (project-scoped),
// each with metadata and distance intact. Formatting for the prompt is a
// separate concern.
type ReviewContext struct {
	// Rules are ranked global rule matches, at most the requested cap.
	Rules []Match

	// Guidelines are ranked project guideline matches, at most the requested
	// cap. Empty when no project identifier was supplied.
	Guidelines []Match

	// Query is the text that was embedded for the search.
	Query string
}

// Empty reports whether retrieval produced nothing usable.
func (c ReviewContext) Empty() bool {
	return len(c.Rules) == 0 && len(c.Guidelines) == 0
}
