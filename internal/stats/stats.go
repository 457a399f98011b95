// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package stats derives efficiency and cost metrics from a final decision
// set. Aggregate is a pure function recomputing everything wholesale, never
// patching incrementally, so a late status change (a failed search, a
// cancelled batch) is always reflected correctly.
//
// See docs/ARCHITECTURE.md § Statistics.
package stats

import (
	"math"

	"github.com/pdiddy/inbox-intel/pkg/types"
)

// Aggregate computes EfficiencyStats from the decisions, the completed search
// attempts, and the tallied API calls.
//
// potential_searches counts candidates not skipped as self or generic;
// actual_searches counts entities with a completed external search attempt,
// failed attempts included. An entity with source external_search but no
// entry in results was never attempted (cancelled batch) and does not count
// as searched.
func Aggregate(decisions []types.Decision, results map[string]types.ResearchResult, calls types.APICallCounts, cost types.CostConfig) types.EfficiencyStats {
	potential := 0
	actual := 0
	for _, d := range decisions {
		if !d.Searchable() {
			continue
		}
		potential++
		if d.Source == types.SourceExternalSearch {
			if _, attempted := results[d.EntityName]; attempted {
				actual++
			}
		}
	}

	avoided := potential - actual

	rate := 0.0
	if potential > 0 {
		rate = round1(float64(avoided) / float64(potential) * 100)
	}

	reasoningCalls := calls.Assessments + calls.Drafts

	return types.EfficiencyStats{
		PotentialSearches:         potential,
		ActualSearches:            actual,
		SearchesAvoided:           avoided,
		EfficiencyRate:            rate,
		EstimatedTimeSavedSeconds: float64(avoided) * cost.SearchTimeSeconds,
		EstimatedCostSavedUSD:     float64(avoided) * cost.SearchCostUSD,
		APICalls:                  calls,
		TotalEstimatedCostUSD:     float64(calls.Searches)*cost.SearchCostUSD + float64(reasoningCalls)*cost.ReasoningCostUSD,
	}
}

// round1 rounds to one decimal place, matching the reported percentage
// precision.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
