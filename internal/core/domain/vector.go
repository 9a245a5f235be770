package domain

// Collection selects one of the two logical vector collections.
// A closed enum is used instead of free-form collection names so an
// unknown collection is a compile error, not a silently empty search.
type Collection int

const (
	// CollectionRules holds the global curated review rules.
	CollectionRules Collection = iota

	// CollectionGuidelines holds per-project guideline chunks.
	CollectionGuidelines
)

// String returns the storage name of the collection.
func (c Collection) String() string {
	switch c {
	case CollectionRules:
		return "rules"
	case CollectionGuidelines:
		return "guidelines"
	default:
		return "unknown"
	}
}

// RecordMeta is the metadata stored with every vector record. Exactly one of
// the rule fields or the guideline fields is populated, matching the record's
// collection.
type RecordMeta struct {
	// Rule metadata.
	RuleID   string
	Title    string
	Severity Severity
	Scope    string

	// Guideline metadata.
	Project    string
	Owner      string
	Filename   string
	ChunkIndex int

	// Source identifies where the record came from
	// (e.g. a rules file name, or "user_guideline").
	Source string

	// Type tags the record kind ("review_rule" or "project_guideline").
	Type string
}

// VectorRecord is one (id, embedding, document, metadata) entry in a
// collection. Every stored record carries exactly one embedding of the
// provider's fixed dimensionality.
type VectorRecord struct {
	ID        string
	Embedding []float32
	Document  string
	Meta      RecordMeta
}

// GuidelineFilter restricts a guidelines query to exact metadata matches.
// A nil filter means unfiltered. Filtering is applied before ranking:
// records failing the filter never appear regardless of similarity.
type GuidelineFilter struct {
	// Project, when non-empty, matches Meta.Project exactly.
	Project string

	// Owner, when non-empty, matches Meta.Owner exactly.
	Owner string
}

// Matches reports whether the record's metadata passes the filter.
func (f *GuidelineFilter) Matches(meta RecordMeta) bool {
	if f == nil {
		return true
	}
	if f.Project != "" && meta.Project != f.Project {
		return false
	}
	if f.Owner != "" && meta.Owner != f.Owner {
		return false
	}
	return true
}

// Match is one ranked result from a vector query. Distance is cosine
// distance: 0 is identical, 2 is opposite. Results are ordered by ascending
// distance, ties broken by record id so ordering is reproducible.
type Match struct {
	ID       string
	Document string
	Meta     RecordMeta
	Distance float64
}
