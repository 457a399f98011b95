// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package compose

import (
	"testing"

	"github.com/pdiddy/inbox-intel/pkg/types"
)

const structuredDraft = `Thanks for reaching out about the partnership.

TechnoVision raised seed funding recently and your realtime processing work
looks like a strong fit for our roadmap. Microsoft integration is already on
our side.

Happy to set up a call next week to discuss scope. Let me know what works!`

func TestScoreCountsStructure(t *testing.T) {
	q := Score(structuredDraft, nil, nil, 0)

	if q.SentenceCount != 5 {
		t.Errorf("SentenceCount = %d, want 5", q.SentenceCount)
	}
	if q.ParagraphCount != 3 {
		t.Errorf("ParagraphCount = %d, want 3", q.ParagraphCount)
	}
	if !q.WellStructured {
		t.Error("3 paragraphs should be well structured")
	}
	if !q.Concise {
		t.Error("short draft should be concise")
	}
}

func TestScoreEntitiesCitedCaseInsensitive(t *testing.T) {
	decisions := []types.Decision{
		{EntityName: "TechnoVision", Source: types.SourceExternalSearch},
		{EntityName: "Microsoft", Source: types.SourceLocalKnowledge},
		{EntityName: "QuantumLeap", Source: types.SourceExternalSearch},
	}
	q := Score(structuredDraft, decisions, nil, 0)

	if len(q.EntitiesCited) != 2 {
		t.Fatalf("EntitiesCited = %v, want TechnoVision and Microsoft", q.EntitiesCited)
	}
	if q.EntitiesCited[0] != "TechnoVision" || q.EntitiesCited[1] != "Microsoft" {
		t.Errorf("EntitiesCited = %v", q.EntitiesCited)
	}
}

func TestScoreResearchCitations(t *testing.T) {
	decisions := []types.Decision{
		{EntityName: "TechnoVision", Source: types.SourceExternalSearch},
	}
	research := map[string]types.ResearchResult{
		"TechnoVision": {
			EntityName: "TechnoVision",
			Snippets: []types.Snippet{
				{Excerpt: "TechnoVision closed seed funding for realtime processing"},
			},
			SourceCount: 1,
		},
	}

	// "funding" and "realtime" both appear in the draft: cited.
	q := Score(structuredDraft, decisions, research, 1)
	if q.ResearchCitations != 1 {
		t.Errorf("ResearchCitations = %d, want 1", q.ResearchCitations)
	}
	if !q.UsesResearch {
		t.Error("UsesResearch should be true with a citation")
	}
}

func TestScoreSingleKeywordIsNotACitation(t *testing.T) {
	decisions := []types.Decision{
		{EntityName: "TechnoVision", Source: types.SourceExternalSearch},
	}
	research := map[string]types.ResearchResult{
		"TechnoVision": {
			EntityName: "TechnoVision",
			Snippets: []types.Snippet{
				{Excerpt: "funding landscape competitors acquisition strategy"},
			},
			SourceCount: 1,
		},
	}

	q := Score(structuredDraft, decisions, research, 1)
	if q.ResearchCitations != 0 {
		t.Errorf("ResearchCitations = %d, want 0 for single-word overlap", q.ResearchCitations)
	}
	if q.UsesResearch {
		t.Error("UsesResearch should be false: research happened but was not cited")
	}
}

func TestScoreUsesResearchVacuouslyTrue(t *testing.T) {
	q := Score("short note.", nil, nil, 0)
	if !q.UsesResearch {
		t.Error("UsesResearch should be true when nothing was searched")
	}
}

func TestScoreNotConciseOverMax(t *testing.T) {
	q := Score(words(MaxWords+1), nil, nil, 0)
	if q.Concise {
		t.Errorf("draft of %d words should not be concise", MaxWords+1)
	}
}
