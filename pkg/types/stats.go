// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// APICallCounts tallies the external calls made during one analysis.
type APICallCounts struct {
	// Assessments is the number of reasoning calls spent deciding
	// use_local vs use_search.
	Assessments int `json:"assessments" yaml:"assessments"`

	// Drafts is the number of reasoning calls spent generating or
	// adjusting the reply draft.
	Drafts int `json:"drafts" yaml:"drafts"`

	// Searches is the number of external search calls attempted,
	// including failed attempts.
	Searches int `json:"searches" yaml:"searches"`
}

// Total returns the number of external calls of any kind.
func (c APICallCounts) Total() int {
	return c.Assessments + c.Drafts + c.Searches
}

// EfficiencyStats summarizes how much external search the analysis avoided by
// answering from existing knowledge. It is derived fresh from the final
// decision set every call, never patched incrementally, so a late status
// change (such as a failed search) is always reflected.
type EfficiencyStats struct {
	// PotentialSearches counts candidates not skipped as self or generic.
	PotentialSearches int `json:"potential_searches" yaml:"potential_searches"`

	// ActualSearches counts entities with a completed external search
	// attempt, failed attempts included.
	ActualSearches int `json:"actual_searches" yaml:"actual_searches"`

	// SearchesAvoided = PotentialSearches - ActualSearches.
	SearchesAvoided int `json:"searches_avoided" yaml:"searches_avoided"`

	// EfficiencyRate is SearchesAvoided / PotentialSearches as a percentage
	// in [0,100]. Zero when PotentialSearches is zero.
	EfficiencyRate float64 `json:"efficiency_rate" yaml:"efficiency_rate"`

	// EstimatedTimeSavedSeconds = SearchesAvoided x per-search time constant.
	EstimatedTimeSavedSeconds float64 `json:"estimated_time_saved_seconds" yaml:"estimated_time_saved_seconds"`

	// EstimatedCostSavedUSD = SearchesAvoided x per-search cost constant.
	EstimatedCostSavedUSD float64 `json:"estimated_cost_saved_usd" yaml:"estimated_cost_saved_usd"`

	// APICalls tallies the external calls actually made.
	APICalls APICallCounts `json:"api_calls" yaml:"api_calls"`

	// TotalEstimatedCostUSD is the estimated spend for the calls made.
	TotalEstimatedCostUSD float64 `json:"total_estimated_cost_usd" yaml:"total_estimated_cost_usd"`
}
