package domain

// Severity classifies how serious a rule violation or finding is.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
	SeverityInfo   Severity = "info"
)

// IsValid returns true if the severity is recognised.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityHigh, SeverityMedium, SeverityLow, SeverityInfo:
		return true
	default:
		return false
	}
}

// SeverityRank returns a numeric rank for sorting (higher = more severe).
func SeverityRank(s Severity) int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// Rule is one curated best-practice entry in the global rules collection.
// Rules are loaded once at startup and are read-only thereafter.
type Rule struct {
	// ID is the rule identifier, e.g. "SEC-001".
	ID string

	// Title is a short human-readable name.
	Title string

	// Severity is high, medium, low or info.
	Severity Severity

	// Description explains the practice the rule encodes.
	Description string

	// Fix is optional guidance on how to resolve a violation.
	Fix string

	// Scope is an optional path glob restricting where the rule applies.
	// Empty means all files.
	Scope string
}

// Document returns the searchable text stored alongside the rule's embedding.
func (r Rule) Document() string {
	doc := r.Title + ". " + r.Description
	if r.Fix != "" {
		doc += " Fix: " + r.Fix
	}
	return doc
}
