// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/inbox-intel/pkg/types"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// renderResult prints the human-readable analysis report.
func renderResult(w io.Writer, r *types.AnalysisResult) {
	fmt.Fprintf(w, "\nRun %s", r.RunID)
	if r.Partial {
		fmt.Fprint(w, "  (partial: analysis was interrupted)")
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\n%-24s  %-10s  %-16s  %-5s  %s\n",
		"Entity", "Tier", "Source", "Conf", "Rationale")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for _, d := range r.Decisions {
		rationale := d.Rationale
		if len(rationale) > 40 {
			rationale = rationale[:37] + "..."
		}
		tier := string(d.Tier)
		if tier == "" {
			tier = "-"
		}
		fmt.Fprintf(w, "%-24s  %-10s  %-16s  %.2f  %s\n",
			clip(d.EntityName, 24), tier, d.Source, d.Confidence, rationale)
	}

	if len(r.Research) > 0 {
		fmt.Fprintln(w, "\nResearch:")
		for _, d := range r.Decisions {
			res, ok := r.Research[d.EntityName]
			if !ok {
				continue
			}
			if res.Failed() {
				fmt.Fprintf(w, "  %s: search failed (%s)\n", res.EntityName, res.Err)
				continue
			}
			fmt.Fprintf(w, "  %s: %d sources\n", res.EntityName, res.SourceCount)
			for _, s := range res.Snippets {
				fmt.Fprintf(w, "    - %s (%s)\n", clip(s.Title, 60), s.URL)
			}
		}
	}

	s := r.Stats
	fmt.Fprintln(w, "\nEfficiency:")
	fmt.Fprintf(w, "  searches: %d of %d potential (%d avoided, %.1f%% efficiency)\n",
		s.ActualSearches, s.PotentialSearches, s.SearchesAvoided, s.EfficiencyRate)
	fmt.Fprintf(w, "  saved: ~%.1fs, ~$%.4f   spent: ~$%.4f (%d API calls)\n",
		s.EstimatedTimeSavedSeconds, s.EstimatedCostSavedUSD,
		s.TotalEstimatedCostUSD, s.APICalls.Total())

	if r.Draft != "" {
		q := r.Quality
		fmt.Fprintf(w, "\nDraft (%d words, %d sentences, %d paragraphs):\n\n%s\n",
			q.WordCount, q.SentenceCount, q.ParagraphCount, r.Draft)
		var notes []string
		if len(q.EntitiesCited) > 0 {
			notes = append(notes, fmt.Sprintf("cites %s", strings.Join(q.EntitiesCited, ", ")))
		}
		if q.ResearchCitations > 0 {
			notes = append(notes, fmt.Sprintf("grounded in %d researched entities", q.ResearchCitations))
		}
		if !q.Concise {
			notes = append(notes, "over length")
		}
		if len(notes) > 0 {
			fmt.Fprintf(w, "\n(%s)\n", strings.Join(notes, "; "))
		}
	}
}

// clip shortens s to at most max bytes, cutting on a rune boundary.
func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max - 3
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
