// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package research executes external searches for prioritized entities.
// Entities are mutually independent, so searches run on a bounded worker
// pool. Exactly one attempt per entity, no silent retries: search cost is
// real and retries would defeat the efficiency goal. A failed entity never
// aborts the batch.
//
// See docs/ARCHITECTURE.md § Research.
package research

import (
	"context"
	"fmt"
	"io"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/inbox-intel/pkg/types"
)

// Backend searches an external web search API.
type Backend interface {
	Name() string
	Search(ctx context.Context, query string, maxResults int) ([]types.Snippet, error)
}

// Target is one entity cleared for search, with an optional assessor-suggested
// query. An empty Query falls back to the type-scoped default.
type Target struct {
	Entity types.Entity
	Query  string
}

// Execute searches every target once and returns results keyed by entity
// name. Failed attempts are recorded with SourceCount 0 and the batch
// continues. Targets whose search never started because the caller cancelled
// get no entry, so they are not counted as attempted.
func Execute(ctx context.Context, backend Backend, targets []Target, cfg types.ResearchConfig, w io.Writer) map[string]types.ResearchResult {
	maxSnippets := cfg.MaxSnippets
	if maxSnippets <= 0 {
		maxSnippets = 5
	}
	parallel := cfg.MaxParallel
	if parallel <= 0 {
		parallel = 2
	}

	collected := make([]*types.ResearchResult, len(targets))

	var g errgroup.Group
	g.SetLimit(parallel)

	for i, target := range targets {
		i, target := i, target
		g.Go(func() error {
			// Abandon work not yet started once the caller cancels;
			// already-collected results stay usable.
			if ctx.Err() != nil {
				return nil
			}

			query := target.Query
			if query == "" {
				query = BuildQuery(target.Entity)
			}

			searchCtx := ctx
			if cfg.Timeout > 0 {
				var cancel context.CancelFunc
				searchCtx, cancel = context.WithTimeout(ctx, cfg.Timeout)
				defer cancel()
			}

			result := types.ResearchResult{
				EntityName: target.Entity.Name,
				Query:      query,
			}

			snippets, err := backend.Search(searchCtx, query, maxSnippets)
			if err != nil {
				if ctx.Err() != nil {
					// Cancelled, not failed: drop the attempt entirely.
					return nil
				}
				result.Err = err.Error()
				fmt.Fprintf(w, "warning: search failed for %s: %v\n", target.Entity.Name, err)
			} else {
				if len(snippets) > maxSnippets {
					snippets = snippets[:maxSnippets]
				}
				result.Snippets = snippets
				result.SourceCount = len(snippets)
			}

			collected[i] = &result
			return nil
		})
	}
	g.Wait()

	results := make(map[string]types.ResearchResult, len(targets))
	for _, r := range collected {
		if r != nil {
			results[r.EntityName] = *r
		}
	}
	return results
}

// BuildQuery scopes the search to the entity's type so a company name is not
// answered with, say, a person's biography.
func BuildQuery(e types.Entity) string {
	name := strings.TrimSpace(e.Name)
	switch e.Type {
	case types.EntityCompany:
		return fmt.Sprintf("%q company", name)
	case types.EntityPerson:
		return name + " professional background"
	case types.EntityProduct:
		return fmt.Sprintf("%q product", name)
	default:
		return name + " overview"
	}
}
