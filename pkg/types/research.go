// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Snippet is one search hit: title, URL, and a short excerpt of the content.
type Snippet struct {
	Title   string `json:"title" yaml:"title"`
	URL     string `json:"url" yaml:"url"`
	Excerpt string `json:"excerpt" yaml:"excerpt"`
}

// ResearchResult holds the outcome of one external search attempt. It exists
// only for entities whose decision source is external_search. A failed attempt
// is recorded with SourceCount 0 and Err set; the batch continues regardless.
type ResearchResult struct {
	// EntityName is the searched entity.
	EntityName string `json:"entity_name" yaml:"entity_name"`

	// Query is the scoped query string sent to the search collaborator.
	Query string `json:"query" yaml:"query"`

	// SourceCount is the number of snippets returned. Zero for a failed
	// attempt or a legitimate empty result set.
	SourceCount int `json:"source_count" yaml:"source_count"`

	// Snippets are the returned hits, bounded by the configured maximum.
	Snippets []Snippet `json:"snippets,omitempty" yaml:"snippets,omitempty"`

	// Err describes a transport or provider failure, empty on success.
	// Zero results without an error is a valid outcome, not a failure.
	Err string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Failed reports whether the search attempt errored.
func (r ResearchResult) Failed() bool { return r.Err != "" }
