// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package assess decides per entity whether local knowledge suffices or an
// external search is needed. The reasoning collaborator's answer is an
// untrusted oracle: it is parsed into a strict contract and run through a
// deterministic policy before it becomes a Decision.
//
// See docs/ARCHITECTURE.md § Assessment.
package assess

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/inbox-intel/internal/classify"
	"github.com/pdiddy/inbox-intel/pkg/types"
)

// Backend obtains a raw use_local/use_search verdict for one entity. Each
// implementation wraps the reasoning collaborator; tests supply a mock.
type Backend interface {
	Assess(ctx context.Context, entity types.Entity, emailContext string) (Verdict, error)
}

// Verdict is the structured answer from the reasoning collaborator, before
// policy enforcement.
type Verdict struct {
	// NeedsSearch is the collaborator's nominal use_search answer.
	NeedsSearch bool

	// Confidence is the collaborator's self-reported confidence. Values
	// outside [0,1] are clamped by the policy, not rejected.
	Confidence float64

	// Rationale is the collaborator's explanation of the decision.
	Rationale string

	// KnownInfo is what the collaborator already knows about the entity.
	KnownInfo string

	// SearchQuery is the collaborator's suggested query, optional.
	SearchQuery string

	// Originator is true when the entity appears to be the message's
	// originating or counterparty identity.
	Originator bool
}

// Assessment is a policy-checked decision plus the signals the prioritizer
// needs downstream.
type Assessment struct {
	Decision   types.Decision
	Originator bool
}

// nowFunc is the clock used for recency detection. Tests substitute it.
var nowFunc = time.Now

// yearPattern matches four-digit years for recency detection.
var yearPattern = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// recencyMarkers are phrases implying the text needs very recent information.
var recencyMarkers = []string{
	"recent", "latest", "current", "just announced", "newly",
	"this week", "this month", "this year", "upcoming", "breaking",
}

// Assessor turns backend verdicts into policy-conformant decisions.
type Assessor struct {
	Backend Backend
	Config  types.AssessConfig
}

// Assess produces the decision for one candidate entity. The enforced policy,
// regardless of the raw collaborator answer:
//
//   - well-known entities default to use_local unless the surrounding text
//     implies a recency need (explicit markers or a current/future year);
//   - a use_local answer below the confidence floor is demoted to use_search;
//   - a collaborator error or unparseable answer fails open to use_search
//     with confidence 0 and rationale "assessment_failed".
//
// The returned decision's tier is SKIP for local knowledge; search-needing
// decisions get their tier from the prioritizer.
func (a *Assessor) Assess(ctx context.Context, entity types.Entity, emailContext string) Assessment {
	verdict, err := a.Backend.Assess(ctx, entity, emailContext)
	if err != nil {
		return Assessment{Decision: failOpen(entity)}
	}

	verdict.Confidence = clamp01(verdict.Confidence)
	surrounding := entity.Context + " " + emailContext

	if a.wellKnown(entity.Name) && !NeedsRecentInfo(surrounding, nowFunc()) {
		conf := verdict.Confidence
		if conf < 0.9 {
			conf = 0.9
		}
		rationale := verdict.Rationale
		if verdict.NeedsSearch || rationale == "" {
			rationale = "long-established entity; local knowledge is sufficient"
		}
		return Assessment{
			Decision: types.Decision{
				EntityName: entity.Name,
				Tier:       types.TierSkip,
				Source:     types.SourceLocalKnowledge,
				Confidence: conf,
				Rationale:  rationale,
				KnownInfo:  verdict.KnownInfo,
			},
			Originator: verdict.Originator,
		}
	}

	floor := a.Config.ConfidenceFloor
	if !verdict.NeedsSearch && verdict.Confidence < floor {
		return Assessment{
			Decision: types.Decision{
				EntityName:  entity.Name,
				Source:      types.SourceExternalSearch,
				Confidence:  verdict.Confidence,
				Rationale:   fmt.Sprintf("confidence %.2f below floor %.2f; falling back to search", verdict.Confidence, floor),
				SearchQuery: verdict.SearchQuery,
			},
			Originator: verdict.Originator,
		}
	}

	if !verdict.NeedsSearch {
		return Assessment{
			Decision: types.Decision{
				EntityName: entity.Name,
				Tier:       types.TierSkip,
				Source:     types.SourceLocalKnowledge,
				Confidence: verdict.Confidence,
				Rationale:  verdict.Rationale,
				KnownInfo:  verdict.KnownInfo,
			},
			Originator: verdict.Originator,
		}
	}

	return Assessment{
		Decision: types.Decision{
			EntityName:  entity.Name,
			Source:      types.SourceExternalSearch,
			Confidence:  verdict.Confidence,
			Rationale:   verdict.Rationale,
			SearchQuery: verdict.SearchQuery,
		},
		Originator: verdict.Originator,
	}
}

// failOpen is the recovery decision after a collaborator error or an
// unparseable answer: correctness over cost when uncertain.
func failOpen(entity types.Entity) types.Decision {
	return types.Decision{
		EntityName: entity.Name,
		Source:     types.SourceExternalSearch,
		Confidence: 0,
		Rationale:  "assessment_failed",
	}
}

func (a *Assessor) wellKnown(name string) bool {
	norm := classify.NormalizeName(name)
	for _, known := range a.Config.KnownEntities {
		if classify.NormalizeName(known) == norm {
			return true
		}
	}
	return false
}

// NeedsRecentInfo reports whether text implies a need for very recent
// information: an explicit recency marker, or a year that is current or in
// the future relative to now.
func NeedsRecentInfo(text string, now time.Time) bool {
	lower := strings.ToLower(text)
	for _, marker := range recencyMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	for _, m := range yearPattern.FindAllString(text, -1) {
		year, err := strconv.Atoi(m)
		if err == nil && year >= now.Year() {
			return true
		}
	}
	return false
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
