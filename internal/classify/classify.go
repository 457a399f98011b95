// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package classify labels extracted entities as self references, generic
// concepts, or research candidates. Pure functions, no side effects.
//
// See docs/ARCHITECTURE.md § Classification.
package classify

import (
	"strings"
	"unicode"

	"github.com/pdiddy/inbox-intel/pkg/types"
)

// Label is the classifier's verdict for one entity.
type Label string

const (
	// LabelSelf marks an entity whose name normalizes to the self party.
	// The self party is never researched.
	LabelSelf Label = "skip_self"

	// LabelGeneric marks an exact, case-insensitive, whole-name match to a
	// generic-term entry. Substring matches never count, so "CloudScale Inc"
	// does not trip on "cloud".
	LabelGeneric Label = "skip_generic"

	// LabelCandidate marks an entity that proceeds to knowledge assessment.
	LabelCandidate Label = "candidate"
)

// Classified pairs an entity with its label.
type Classified struct {
	Entity types.Entity
	Label  Label
}

// Classify labels each entity against the self party and the generic-term
// set. Input order is preserved.
func Classify(entities []types.Entity, selfParty string, cfg types.ClassifyConfig) []Classified {
	selfNorm := NormalizeName(selfParty)

	generics := make(map[string]bool, len(cfg.GenericTerms))
	for _, term := range cfg.GenericTerms {
		generics[strings.ToLower(strings.TrimSpace(term))] = true
	}

	out := make([]Classified, 0, len(entities))
	for _, e := range entities {
		out = append(out, Classified{Entity: e, Label: classifyOne(e, selfNorm, generics)})
	}
	return out
}

func classifyOne(e types.Entity, selfNorm string, generics map[string]bool) Label {
	if selfNorm != "" && NormalizeName(e.Name) == selfNorm {
		return LabelSelf
	}
	if generics[strings.ToLower(strings.TrimSpace(e.Name))] {
		return LabelGeneric
	}
	return LabelCandidate
}

// NormalizeName returns a lowercased, punctuation-stripped version of a name
// with whitespace collapsed. Entities are unique by normalized name within
// one analysis.
func NormalizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Dedupe removes entities whose normalized name was already seen, keeping the
// first occurrence so discovery order survives.
func Dedupe(entities []types.Entity) []types.Entity {
	seen := make(map[string]bool, len(entities))
	var out []types.Entity
	for _, e := range entities {
		key := NormalizeName(e.Name)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, e)
	}
	return out
}
