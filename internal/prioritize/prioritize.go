// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package prioritize buckets search-needing entities into CRITICAL and
// VALIDATION tiers under a search budget. CRITICAL entities are never
// dropped; VALIDATION entities are kept in original appearance order until
// the budget runs out, and the rest become skipped_budget.
//
// See docs/ARCHITECTURE.md § Prioritization.
package prioritize

import (
	"strings"

	"github.com/pdiddy/inbox-intel/pkg/types"
)

// Candidate is one use_search entity awaiting a tier, in appearance order.
type Candidate struct {
	Entity   types.Entity
	Decision types.Decision

	// Originator is the assessor's signal that this entity represents the
	// message's originating party.
	Originator bool
}

// Prioritize assigns tiers to the candidates and applies the search budget.
// The returned decisions are aligned with the input order.
//
// An entity is CRITICAL when it represents the originating/counterparty
// identity: flagged as originator by the assessor, or named in the subject
// or the opening sentence. All others are VALIDATION. CRITICAL entities
// consume budget slots but are always searched; only VALIDATION entities can
// become skipped_budget. Skipped entities still count toward potential
// searches for efficiency accounting.
func Prioritize(candidates []Candidate, subject, opening string, budget int) []types.Decision {
	out := make([]types.Decision, len(candidates))

	criticalCount := 0
	for i, c := range candidates {
		d := c.Decision
		if isCritical(c, subject, opening) {
			d.Tier = types.TierCritical
			criticalCount++
		} else {
			d.Tier = types.TierValidation
		}
		out[i] = d
	}

	slots := budget - criticalCount
	if slots < 0 {
		slots = 0
	}

	for i := range out {
		if out[i].Tier != types.TierValidation {
			continue
		}
		if slots > 0 {
			slots--
			continue
		}
		out[i].Tier = types.TierSkip
		out[i].Source = types.SourceSkippedBudget
		out[i].Rationale = "search budget exhausted"
	}

	return out
}

func isCritical(c Candidate, subject, opening string) bool {
	if c.Originator {
		return true
	}
	return namedIn(c.Entity.Name, subject) || namedIn(c.Entity.Name, opening)
}

// namedIn reports whether the entity name appears in the text,
// case-insensitively.
func namedIn(name, text string) bool {
	name = strings.TrimSpace(name)
	if name == "" || text == "" {
		return false
	}
	return strings.Contains(strings.ToLower(text), strings.ToLower(name))
}

// OpeningSentence returns the first sentence of an email body: the text up to
// the first sentence terminator or blank line, whichever comes first.
func OpeningSentence(body string) string {
	body = strings.TrimSpace(body)
	if body == "" {
		return ""
	}
	if idx := strings.Index(body, "\n\n"); idx >= 0 {
		body = body[:idx]
	}
	if idx := strings.IndexAny(body, ".!?"); idx >= 0 {
		body = body[:idx+1]
	}
	return strings.TrimSpace(body)
}
