// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package compose

import (
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/pdiddy/inbox-intel/internal/reasoning"
)

const draftTemperature = 0.7

// GroqGenerator drafts replies through the chat completion API.
type GroqGenerator struct {
	Client *reasoning.Client
}

var draftPromptTmpl = template.Must(template.New("draft").Parse(`You are drafting a professional reply to the email below.

Subject: {{.Subject}}

Email:
{{.EmailContent}}
{{if .Findings}}
What we know about the entities mentioned:
{{range .Findings}}
{{.EntityName}}:
{{- if .KnownInfo}}
- {{.KnownInfo}}
{{- end}}
{{- range .Snippets}}
- {{.Title}}: {{.Excerpt}}
{{- end}}
{{end}}{{end}}
Write a reply of 100-150 words. Reference the findings above where relevant.
Be specific and direct. Do not invent facts beyond the findings. Return only
the reply text, no preamble and no subject line.`))

// Draft generates the first draft from material.
func (g *GroqGenerator) Draft(ctx context.Context, material Material) (string, error) {
	var b strings.Builder
	if err := draftPromptTmpl.Execute(&b, material); err != nil {
		return "", fmt.Errorf("rendering draft prompt: %w", err)
	}
	out, err := g.Client.Chat(ctx, b.String(), draftTemperature)
	if err != nil {
		return "", err
	}
	return reasoning.StripFences(out), nil
}

// Adjust rewrites a draft once in the given direction. Callers own the
// decision to stop after one pass.
func (g *GroqGenerator) Adjust(ctx context.Context, draft, direction string) (string, error) {
	var instruction string
	switch direction {
	case DirectionExpand:
		instruction = "Expand the reply below to 100-150 words. Keep every fact, add nothing new."
	case DirectionCompress:
		instruction = "Shorten the reply below to 100-150 words. Keep the key facts, cut everything else."
	default:
		return "", fmt.Errorf("unknown adjustment direction %q", direction)
	}

	prompt := instruction + "\n\n" + draft + "\n\nReturn only the revised reply text."
	out, err := g.Client.Chat(ctx, prompt, draftTemperature)
	if err != nil {
		return "", err
	}
	return reasoning.StripFences(out), nil
}
