// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assess

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"text/template"

	"github.com/pdiddy/inbox-intel/internal/reasoning"
	"github.com/pdiddy/inbox-intel/pkg/types"
)

// assessTemperature keeps assessment answers deterministic-ish.
const assessTemperature = 0.3

// contextLimit bounds how much of the email body goes into the prompt.
const contextLimit = 500

// assessPromptTmpl instructs the model to answer with the strict JSON
// contract the policy layer expects.
var assessPromptTmpl = template.Must(template.New("assess").Parse(`You assess whether external research is needed for an entity mentioned in an email.

ENTITY TO ASSESS:
Name: {{.Name}}
Type: {{.Type}}
Context: {{.Context}}

EMAIL CONTEXT:
{{.Email}}

Search when the entity is unknown or ambiguous, when the email needs very recent information, or when specific current details matter. Do not search for long-established, widely known entities with stable information, or for generic concepts.

Respond with ONLY this JSON (no markdown, no explanation):
{
  "needs_search": true or false,
  "confidence": 0.0-1.0,
  "reasoning": "brief explanation of the decision",
  "known_info": "what you already know about this entity, if anything",
  "search_query": "suggested search query if needs_search is true",
  "originator": true if this entity is the sender's own company or identity, else false
}`))

// rawVerdict mirrors the JSON contract the model is asked to produce.
type rawVerdict struct {
	NeedsSearch bool    `json:"needs_search"`
	Confidence  float64 `json:"confidence"`
	Reasoning   string  `json:"reasoning"`
	KnownInfo   string  `json:"known_info"`
	SearchQuery string  `json:"search_query"`
	Originator  bool    `json:"originator"`
}

// GroqBackend asks the reasoning collaborator for a verdict. An answer that
// does not parse as the contract is returned as an error so the assessor can
// fail open.
type GroqBackend struct {
	Client *reasoning.Client
}

// Assess renders the prompt, calls the reasoning API, and parses the answer.
func (b *GroqBackend) Assess(ctx context.Context, entity types.Entity, emailContext string) (Verdict, error) {
	prompt, err := renderAssessPrompt(entity, emailContext)
	if err != nil {
		return Verdict{}, fmt.Errorf("rendering assessment prompt: %w", err)
	}

	answer, err := b.Client.Chat(ctx, prompt, assessTemperature)
	if err != nil {
		return Verdict{}, fmt.Errorf("assessment call: %w", err)
	}

	var raw rawVerdict
	if err := json.Unmarshal([]byte(reasoning.StripFences(answer)), &raw); err != nil {
		return Verdict{}, fmt.Errorf("parsing assessment answer: %w", err)
	}

	return Verdict{
		NeedsSearch: raw.NeedsSearch,
		Confidence:  raw.Confidence,
		Rationale:   raw.Reasoning,
		KnownInfo:   raw.KnownInfo,
		SearchQuery: raw.SearchQuery,
		Originator:  raw.Originator,
	}, nil
}

func renderAssessPrompt(entity types.Entity, emailContext string) (string, error) {
	if len(emailContext) > contextLimit {
		emailContext = emailContext[:contextLimit]
	}
	entityContext := entity.Context
	if entityContext == "" {
		entityContext = "no additional context"
	}

	var buf bytes.Buffer
	err := assessPromptTmpl.Execute(&buf, struct {
		Name, Type, Context, Email string
	}{
		Name:    entity.Name,
		Type:    string(entity.Type),
		Context: entityContext,
		Email:   emailContext,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
