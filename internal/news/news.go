// Package news defines the record types that flow through the digest
// pipeline. Each pipeline stage consumes one type and produces the next:
// RawItem -> MergedItem -> ScoredItem -> Summary. Keeping the stages as
// distinct types means a stage cannot read fields that have not been
// assigned yet.
package news

import "time"

// RawItem is a single entry as produced by the collectors. Immutable once
// created. PublishedAt is a timezone-naive instant: any offset embedded in
// the feed timestamp has been stripped, not converted. A zero PublishedAt
// means the feed carried no usable timestamp.
type RawItem struct {
	Title       string
	Link        string
	Source      string
	PublishedAt time.Time
	Summary     string
	Content     string
}

// HasTimestamp reports whether the item carried a parseable publish time.
func (r RawItem) HasTimestamp() bool {
	return !r.PublishedAt.IsZero()
}

// MergedItem is one similarity cluster collapsed into a single record.
// Title, Link and Source come from the cluster's highest-priority member;
// PublishedAt is the maximum over the cluster ("freshest wins").
type MergedItem struct {
	Title       string
	Link        string
	Source      string
	PublishedAt time.Time
	Sources     []string
	Links       []string
	Summaries   []string
	Contents    []string

	// OriginalItems retains the full cluster for auditability.
	OriginalItems []RawItem
}

// ScoredItem is a MergedItem annotated by the scoring engine. Score fields
// are assigned once after merge and never mutated except by re-scoring.
type ScoredItem struct {
	MergedItem

	RuleScore  int
	AIScore    int
	FinalScore float64
}

// Summary is the structured summary produced by the summarization oracle
// for one top-ranked item.
type Summary struct {
	Title       string   `json:"title"`
	Summary     string   `json:"summary"`
	KeyChanges  []string `json:"key_changes"`
	SourceName  string   `json:"source_name"`
	URL         string   `json:"url"`
	PublishDate string   `json:"publish_date,omitempty"`
}

// IsFallback reports whether this summary is the deterministic fallback
// built from raw RSS text rather than an oracle response. Fallbacks carry
// no key changes; consumers treat them as lower confidence but keep them.
func (s Summary) IsFallback() bool {
	return len(s.KeyChanges) == 0
}
