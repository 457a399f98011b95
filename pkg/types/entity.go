// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the inbox-intel analysis
// pipeline: entities, per-entity decisions, research results, efficiency
// statistics, draft quality, and stage configuration.
//
// See docs/ARCHITECTURE.md § Data Model.
package types

// EntityType classifies a named entity extracted from source text.
type EntityType string

const (
	EntityCompany EntityType = "company"
	EntityPerson  EntityType = "person"
	EntityProduct EntityType = "product"
	EntityConcept EntityType = "concept"
)

// Entity is a named company/person/product/concept extracted from an email,
// candidate for research. Entities are unique by normalized name within one
// analysis; discovery order is preserved for display only.
type Entity struct {
	// Name is the entity name as it appeared in the source text.
	Name string `json:"name" yaml:"name"`

	// Type is the entity kind: company, person, product, or concept.
	Type EntityType `json:"type" yaml:"type"`

	// Context is the snippet of surrounding text the entity was found in.
	Context string `json:"context,omitempty" yaml:"context,omitempty"`
}

// Tier is the priority class assigned to a search-needing entity.
type Tier string

const (
	// TierCritical marks entities representing the message's originating or
	// counterparty identity; they are always searched, budget permitting or not.
	TierCritical Tier = "CRITICAL"

	// TierValidation marks secondary entities supporting claims; they are
	// searched in appearance order until the budget runs out.
	TierValidation Tier = "VALIDATION"

	// TierSkip marks entities that are never searched: self references,
	// generic terms, local-knowledge answers, and budget overflow.
	TierSkip Tier = "SKIP"
)

// Source records where an entity's information came from, or why it was skipped.
type Source string

const (
	SourceLocalKnowledge Source = "local_knowledge"
	SourceExternalSearch Source = "external_search"
	SourceSkippedSelf    Source = "skipped_self"
	SourceSkippedGeneric Source = "skipped_generic"
	SourceSkippedBudget  Source = "skipped_budget"
)

// Decision is the final verdict for one entity. Exactly one Decision exists
// per entity; it is created during assessment/prioritization and is immutable
// afterward, with the single exception that a failed search zeroes the
// corresponding ResearchResult's source count.
type Decision struct {
	// EntityName is the entity this decision applies to.
	EntityName string `json:"entity_name" yaml:"entity_name"`

	// Tier is CRITICAL, VALIDATION, or SKIP.
	Tier Tier `json:"tier" yaml:"tier"`

	// Source records the information source or the skip reason.
	Source Source `json:"source" yaml:"source"`

	// Confidence is the assessment confidence in [0,1]. Zero for fail-open
	// decisions taken after a collaborator error.
	Confidence float64 `json:"confidence" yaml:"confidence"`

	// Rationale is the human-readable reason for the decision.
	Rationale string `json:"rationale" yaml:"rationale"`

	// KnownInfo is what the reasoning collaborator already knew about the
	// entity. Only set for local_knowledge decisions.
	KnownInfo string `json:"known_info,omitempty" yaml:"known_info,omitempty"`

	// SearchQuery is the query used (or suggested) for external search.
	SearchQuery string `json:"search_query,omitempty" yaml:"search_query,omitempty"`
}

// Skipped reports whether the entity was excluded before any search could
// happen: self reference, generic term, or budget overflow.
func (d Decision) Skipped() bool {
	switch d.Source {
	case SourceSkippedSelf, SourceSkippedGeneric, SourceSkippedBudget:
		return true
	}
	return false
}

// Searchable reports whether the entity counts toward potential searches:
// everything except self references and generic terms.
func (d Decision) Searchable() bool {
	return d.Source != SourceSkippedSelf && d.Source != SourceSkippedGeneric
}
