// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package compose

import (
	"strings"
	"unicode"

	"github.com/pdiddy/inbox-intel/pkg/types"
)

// citationKeywordOverlap is how many distinct snippet keywords must appear in
// the draft before an entity's research counts as cited. One shared word is
// coincidence, two is grounding.
const citationKeywordOverlap = 2

// minKeywordLen filters out short connective words before overlap scoring.
const minKeywordLen = 5

var stopwords = map[string]bool{
	"about": true, "after": true, "before": true, "being": true,
	"could": true, "their": true, "there": true, "these": true,
	"thing": true, "those": true, "through": true, "where": true,
	"which": true, "while": true, "would": true, "should": true,
	"between": true, "because": true, "during": true, "against": true,
}

// Score measures a finished draft against the decision set and research
// findings. It never mutates the draft.
func Score(draft string, decisions []types.Decision, research map[string]types.ResearchResult, actualSearches int) types.DraftQuality {
	lowerDraft := strings.ToLower(draft)

	var cited []string
	for _, d := range decisions {
		if strings.Contains(lowerDraft, strings.ToLower(d.EntityName)) {
			cited = append(cited, d.EntityName)
		}
	}

	citations := 0
	for _, d := range decisions {
		if d.Source != types.SourceExternalSearch {
			continue
		}
		r, ok := research[d.EntityName]
		if !ok || len(r.Snippets) == 0 {
			continue
		}
		if keywordOverlap(lowerDraft, r.Snippets) >= citationKeywordOverlap {
			citations++
		}
	}

	words := WordCount(draft)
	paragraphs := countParagraphs(draft)

	return types.DraftQuality{
		WordCount:         words,
		SentenceCount:     countSentences(draft),
		ParagraphCount:    paragraphs,
		EntitiesCited:     cited,
		ResearchCitations: citations,
		Concise:           words <= MaxWords,
		WellStructured:    paragraphs >= 3 && paragraphs <= 4,
		// Vacuously true when nothing was searched: there was no research
		// to use.
		UsesResearch: actualSearches == 0 || citations > 0,
	}
}

// keywordOverlap counts distinct snippet keywords present in the draft.
func keywordOverlap(lowerDraft string, snippets []types.Snippet) int {
	seen := make(map[string]bool)
	matched := 0
	for _, s := range snippets {
		for _, word := range strings.FieldsFunc(strings.ToLower(s.Excerpt), func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		}) {
			if len(word) < minKeywordLen || stopwords[word] || seen[word] {
				continue
			}
			seen[word] = true
			if strings.Contains(lowerDraft, word) {
				matched++
			}
		}
	}
	return matched
}

func countSentences(s string) int {
	n := 0
	for _, r := range s {
		switch r {
		case '.', '!', '?':
			n++
		}
	}
	return n
}

func countParagraphs(s string) int {
	n := 0
	for _, block := range strings.Split(s, "\n\n") {
		if strings.TrimSpace(block) != "" {
			n++
		}
	}
	return n
}
