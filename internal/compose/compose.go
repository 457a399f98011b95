// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package compose turns the decision set and research findings into a reply
// draft, enforces length bounds, and scores the result. Generation failure is
// the one fatal error in the pipeline: every earlier phase degrades, but an
// analysis without a draft has not done its job.
//
// See docs/ARCHITECTURE.md § Composition.
package compose

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/inbox-intel/pkg/types"
)

// Word bounds for an acceptable draft. The prompt asks for 100-150 words;
// these are the hard limits that trigger a corrective pass.
const (
	MinWords = 80
	MaxWords = 200
)

// snippetsPerEntity bounds how much research text enters the prompt.
const snippetsPerEntity = 3

// Directions for a corrective adjustment pass.
const (
	DirectionExpand   = "expand"
	DirectionCompress = "compress"
)

// Generator produces and adjusts draft text.
type Generator interface {
	Draft(ctx context.Context, material Material) (string, error)
	Adjust(ctx context.Context, draft, direction string) (string, error)
}

// Material is everything the generator may cite: the email being answered
// and per-entity findings.
type Material struct {
	EmailContent string
	Subject      string
	Findings     []Finding
}

// Finding is what the pipeline learned about one entity.
type Finding struct {
	EntityName string
	Source     types.Source
	KnownInfo  string
	Snippets   []types.Snippet
}

// Composer drives draft generation.
type Composer struct {
	Generator Generator
	Config    types.ComposeConfig
}

// BuildMaterial assembles generator input from decisions and search results.
// Locally answered entities contribute their known info; searched entities
// contribute their top snippets. Skipped entities contribute nothing.
func BuildMaterial(emailContent, subject string, decisions []types.Decision, research map[string]types.ResearchResult) Material {
	m := Material{EmailContent: emailContent, Subject: subject}
	for _, d := range decisions {
		switch d.Source {
		case types.SourceLocalKnowledge:
			if d.KnownInfo == "" {
				continue
			}
			m.Findings = append(m.Findings, Finding{
				EntityName: d.EntityName,
				Source:     d.Source,
				KnownInfo:  d.KnownInfo,
			})
		case types.SourceExternalSearch:
			r, ok := research[d.EntityName]
			if !ok || r.Failed() || len(r.Snippets) == 0 {
				continue
			}
			snippets := r.Snippets
			if len(snippets) > snippetsPerEntity {
				snippets = snippets[:snippetsPerEntity]
			}
			m.Findings = append(m.Findings, Finding{
				EntityName: d.EntityName,
				Source:     d.Source,
				Snippets:   snippets,
			})
		}
	}
	return m
}

// Compose generates a draft, applies at most one corrective pass per
// direction, and strips filler. An adjustment that lands outside the bounds
// anyway is accepted as-is rather than looped on. The returned count is the
// number of generation calls made, adjustments included, so the caller can
// account for every paid reasoning request.
func (c *Composer) Compose(ctx context.Context, material Material) (string, int, error) {
	calls := 1
	draft, err := c.Generator.Draft(ctx, material)
	if err != nil {
		return "", calls, fmt.Errorf("generating draft: %w", err)
	}
	draft = strings.TrimSpace(draft)
	if draft == "" {
		return "", calls, fmt.Errorf("generating draft: empty response")
	}

	switch n := WordCount(draft); {
	case n < MinWords:
		calls++
		adjusted, err := c.Generator.Adjust(ctx, draft, DirectionExpand)
		if err != nil {
			return "", calls, fmt.Errorf("expanding draft: %w", err)
		}
		draft = adjusted
	case n > MaxWords:
		calls++
		adjusted, err := c.Generator.Adjust(ctx, draft, DirectionCompress)
		if err != nil {
			return "", calls, fmt.Errorf("compressing draft: %w", err)
		}
		draft = adjusted
	}

	return c.stripFiller(draft), calls, nil
}

// stripFiller removes configured filler phrases verbatim (case-insensitive)
// and normalizes the whitespace left behind.
func (c *Composer) stripFiller(draft string) string {
	for _, phrase := range c.Config.FillerPhrases {
		draft = removeFold(draft, phrase)
	}
	return normalizeWhitespace(draft)
}

// removeFold deletes every case-insensitive occurrence of phrase from s.
// Matching is rune-aligned in the original string; lowering a copy for
// Index-based search is unsafe because folding can change byte lengths.
func removeFold(s, phrase string) string {
	if phrase == "" {
		return s
	}
	var b strings.Builder
	for {
		start, length := indexFold(s, phrase)
		if start < 0 {
			b.WriteString(s)
			return b.String()
		}
		b.WriteString(s[:start])
		s = s[start+length:]
	}
}

// indexFold returns the byte offset and byte length of the first
// case-insensitive occurrence of phrase in s, or (-1, 0).
func indexFold(s, phrase string) (int, int) {
	want := utf8.RuneCountInString(phrase)
	for i := range s {
		end := i
		runes := 0
		for j := i; j < len(s) && runes < want; runes++ {
			_, size := utf8.DecodeRuneInString(s[j:])
			j += size
			end = j
		}
		if runes < want {
			return -1, 0
		}
		if strings.EqualFold(s[i:end], phrase) {
			return i, end - i
		}
	}
	return -1, 0
}

// normalizeWhitespace collapses runs of spaces and tabs, trims line ends, and
// caps blank runs at one empty line so paragraph structure survives.
func normalizeWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	var out []string
	blank := true // swallow leading blanks
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			if !blank {
				out = append(out, "")
			}
			blank = true
			continue
		}
		out = append(out, line)
		blank = false
	}
	// Drop a trailing blank.
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return strings.Join(out, "\n")
}

// WordCount counts whitespace-separated words.
func WordCount(s string) int {
	return len(strings.Fields(s))
}
