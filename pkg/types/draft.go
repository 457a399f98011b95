// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// DraftQuality describes the final reply draft. It is computed once the draft
// text is final and is read-only thereafter.
type DraftQuality struct {
	WordCount      int `json:"word_count" yaml:"word_count"`
	SentenceCount  int `json:"sentence_count" yaml:"sentence_count"`
	ParagraphCount int `json:"paragraph_count" yaml:"paragraph_count"`

	// EntitiesCited lists distinct known entity names appearing verbatim
	// in the draft.
	EntitiesCited []string `json:"entities_cited" yaml:"entities_cited"`

	// ResearchCitations counts distinct searched entities whose snippet
	// content is reflected in the draft by keyword overlap.
	ResearchCitations int `json:"research_citations" yaml:"research_citations"`

	// Concise is true when the draft stays within the hard word ceiling.
	Concise bool `json:"concise" yaml:"concise"`

	// WellStructured is true for 3-4 paragraphs.
	WellStructured bool `json:"well_structured" yaml:"well_structured"`

	// UsesResearch is true when at least one research citation appears,
	// whenever any search was actually performed.
	UsesResearch bool `json:"uses_research" yaml:"uses_research"`
}
