// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package engine runs the full analysis pipeline: classify, assess,
// prioritize, research, aggregate, compose. The engine holds no per-run
// state; every Analyze call stands alone and concurrent calls never
// interfere.
//
// See docs/ARCHITECTURE.md § Pipeline.
package engine

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/inbox-intel/internal/assess"
	"github.com/pdiddy/inbox-intel/internal/classify"
	"github.com/pdiddy/inbox-intel/internal/compose"
	"github.com/pdiddy/inbox-intel/internal/prioritize"
	"github.com/pdiddy/inbox-intel/internal/research"
	"github.com/pdiddy/inbox-intel/internal/stats"
	"github.com/pdiddy/inbox-intel/internal/trace"
	"github.com/pdiddy/inbox-intel/pkg/types"
)

// Request is one analysis job: an email, the party to never research, and
// the entities already extracted from the text.
type Request struct {
	EmailContent string
	Subject      string
	SelfParty    string
	Entities     []types.Entity
}

// Engine wires the pipeline stages together. Collaborators are interfaces so
// tests run the whole pipeline without network access.
type Engine struct {
	Assessor *assess.Assessor
	Searcher research.Backend
	Composer *compose.Composer
	Config   types.AnalysisConfig

	// Out receives live warnings (failed searches). Defaults to io.Discard.
	Out io.Writer
}

var nowFunc = time.Now

// Analyze runs the pipeline end to end. Cancellation mid-run yields a
// non-error result with Partial set: decisions made so far stay valid, the
// draft is skipped. The only fatal error is draft generation failing.
func (e *Engine) Analyze(ctx context.Context, tr *trace.Tracker, req Request) (*types.AnalysisResult, error) {
	start := nowFunc()
	out := e.Out
	if out == nil {
		out = io.Discard
	}

	result := &types.AnalysisResult{
		RunID:     uuid.NewString(),
		Timestamp: start.Format(time.RFC3339),
		Subject:   req.Subject,
		SelfParty: req.SelfParty,
	}

	entities := classify.Dedupe(req.Entities)
	result.Entities = entities
	tr.Info("analyzing %d entities", len(entities))

	classified := classify.Classify(entities, req.SelfParty, e.Config.Classify)

	// Assessment runs sequentially: each call is a paid reasoning request
	// and a cancelled run should stop spending immediately.
	assessStart := nowFunc()
	var calls types.APICallCounts
	var candidates []prioritize.Candidate
	skipped := make(map[string]types.Decision)

	for _, c := range classified {
		switch c.Label {
		case classify.LabelSelf:
			skipped[c.Entity.Name] = types.Decision{
				EntityName: c.Entity.Name,
				Tier:       types.TierSkip,
				Source:     types.SourceSkippedSelf,
				Confidence: 1,
				Rationale:  "own party is never researched",
			}
			tr.Info("skipping %s: self reference", c.Entity.Name)
		case classify.LabelGeneric:
			skipped[c.Entity.Name] = types.Decision{
				EntityName: c.Entity.Name,
				Tier:       types.TierSkip,
				Source:     types.SourceSkippedGeneric,
				Confidence: 1,
				Rationale:  "generic concept, not worth researching",
			}
			tr.Info("skipping %s: generic term", c.Entity.Name)
		default:
			if ctx.Err() != nil {
				return e.partial(result, tr, skipped, candidates, nil, calls, start, assessStart), nil
			}
			a := e.Assessor.Assess(ctx, c.Entity, req.EmailContent)
			calls.Assessments++
			candidates = append(candidates, prioritize.Candidate{
				Entity:     c.Entity,
				Decision:   a.Decision,
				Originator: a.Originator,
			})
			if a.Decision.Source == types.SourceLocalKnowledge {
				tr.Success("%s: local knowledge (%.0f%% confidence)", c.Entity.Name, a.Decision.Confidence*100)
			} else {
				tr.Info("%s: needs search", c.Entity.Name)
			}
		}
	}
	assessDone := nowFunc()

	// Only search-needing candidates compete for the budget; locally
	// answered entities keep their assessor decision as-is.
	var searchCands []prioritize.Candidate
	var assessed []types.Decision
	for _, c := range candidates {
		if c.Decision.Source == types.SourceExternalSearch {
			searchCands = append(searchCands, c)
		} else {
			assessed = append(assessed, c.Decision)
		}
	}

	prioritized := prioritize.Prioritize(searchCands, req.Subject,
		prioritize.OpeningSentence(req.EmailContent), e.Config.Research.SearchBudget)
	assessed = append(assessed, prioritized...)

	decisions := mergeDecisions(entities, skipped, assessed)
	result.Decisions = decisions

	var targets []research.Target
	for i, d := range prioritized {
		if d.Source == types.SourceExternalSearch {
			targets = append(targets, research.Target{
				Entity: searchCands[i].Entity,
				Query:  d.SearchQuery,
			})
		}
	}

	researchStart := nowFunc()
	results := research.Execute(ctx, e.Searcher, targets, e.Config.Research, out)
	researchDone := nowFunc()

	calls.Searches = len(results)
	result.Research = results
	for name, r := range results {
		if r.Failed() {
			tr.Warn("search failed for %s, continuing without sources", name)
		} else {
			tr.Success("found %d sources for %s", r.SourceCount, name)
		}
	}

	if ctx.Err() != nil {
		return e.partial(result, tr, skipped, candidates, results, calls, start, assessStart), nil
	}

	draftStart := nowFunc()
	material := compose.BuildMaterial(req.EmailContent, req.Subject, decisions, results)
	draft, genCalls, err := e.Composer.Compose(ctx, material)
	if err != nil {
		tr.Error("draft generation failed: %v", err)
		return nil, err
	}
	calls.Drafts += genCalls
	draftDone := nowFunc()
	tr.Success("draft ready (%d words)", compose.WordCount(draft))

	result.Stats = stats.Aggregate(decisions, results, calls, e.Config.Cost)
	result.Draft = draft
	result.Quality = compose.Score(draft, decisions, results, result.Stats.ActualSearches)
	result.Trace = tr.Steps()
	result.Timings = types.PhaseTimings{
		AssessmentSeconds: assessDone.Sub(assessStart).Seconds(),
		ResearchSeconds:   researchDone.Sub(researchStart).Seconds(),
		DraftSeconds:      draftDone.Sub(draftStart).Seconds(),
		TotalSeconds:      draftDone.Sub(start).Seconds(),
	}
	return result, nil
}

// partial finalizes a cancelled run: whatever was decided stands, statistics
// are recomputed over it, and no draft is attempted.
func (e *Engine) partial(result *types.AnalysisResult, tr *trace.Tracker, skipped map[string]types.Decision, candidates []prioritize.Candidate, results map[string]types.ResearchResult, calls types.APICallCounts, start, assessStart time.Time) *types.AnalysisResult {
	tr.Warn("analysis cancelled, returning partial result")

	// Prioritized decisions, when the run got that far, stand as-is.
	// Earlier cancellation falls back to the raw assessor decisions;
	// entities never assessed get no decision at all.
	if result.Decisions == nil {
		var interim []types.Decision
		for _, c := range candidates {
			interim = append(interim, c.Decision)
		}
		result.Decisions = mergeDecisions(result.Entities, skipped, interim)
	}
	result.Research = results
	calls.Searches = len(results)
	result.Stats = stats.Aggregate(result.Decisions, results, calls, e.Config.Cost)
	result.Trace = tr.Steps()
	now := nowFunc()
	result.Timings = types.PhaseTimings{
		AssessmentSeconds: now.Sub(assessStart).Seconds(),
		TotalSeconds:      now.Sub(start).Seconds(),
	}
	result.Partial = true
	return result
}

// mergeDecisions restores entity discovery order over the skip decisions and
// the assessed (later prioritized) decisions.
func mergeDecisions(entities []types.Entity, skipped map[string]types.Decision, assessed []types.Decision) []types.Decision {
	byName := make(map[string]types.Decision, len(skipped)+len(assessed))
	for name, d := range skipped {
		byName[name] = d
	}
	for _, d := range assessed {
		byName[d.EntityName] = d
	}

	var out []types.Decision
	for _, e := range entities {
		if d, ok := byName[e.Name]; ok {
			out = append(out, d)
		}
	}
	return out
}
