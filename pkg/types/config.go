// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "inbox-intel/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// AIConfig holds shared settings for stages that call the reasoning API.
type AIConfig struct {
	// Model is the reasoning model identifier (e.g. "llama-3.3-70b-versatile").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the reasoning API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts on rate limiting (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// Timeout bounds a single reasoning call. A timed-out call is treated
	// identically to a provider error.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// ClassifyConfig holds settings for the entity classifier.
//
// Generic terms are explicit configuration data, not module state, so
// concurrent analyses with different policies do not interfere.
type ClassifyConfig struct {
	// GenericTerms lists domain concepts too broad to be worth researching
	// (e.g. "AI"). Matching is exact, case-insensitive, whole-name.
	GenericTerms []string `json:"generic_terms" yaml:"generic_terms"`
}

// AssessConfig holds settings for the knowledge assessment stage.
type AssessConfig struct {
	AIConfig `yaml:",inline"`

	// ConfidenceFloor is the minimum confidence for a use_local verdict to
	// stand; below it the assessor falls back to use_search (default 0.5).
	ConfidenceFloor float64 `json:"confidence_floor" yaml:"confidence_floor"`

	// KnownEntities lists long-established, widely known entities that
	// default to local knowledge unless the text implies a recency need.
	KnownEntities []string `json:"known_entities" yaml:"known_entities"`
}

// ResearchConfig holds settings for the external search stage.
type ResearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIKey authenticates against the search API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// SearchBudget is the maximum number of entities searched per analysis.
	// CRITICAL entities are always searched; only VALIDATION entities are
	// dropped when the budget runs out (default 3).
	SearchBudget int `json:"search_budget" yaml:"search_budget"`

	// MaxSnippets bounds the snippets kept per searched entity (default 5).
	MaxSnippets int `json:"max_snippets" yaml:"max_snippets"`

	// MaxParallel bounds concurrent search calls (default 2).
	MaxParallel int `json:"max_parallel" yaml:"max_parallel"`

	// Depth selects the search depth requested from the provider
	// (default "standard").
	Depth string `json:"depth" yaml:"depth"`
}

// ComposeConfig holds settings for the draft composition stage.
type ComposeConfig struct {
	AIConfig `yaml:",inline"`

	// FillerPhrases is the block-list of boilerplate phrases stripped
	// verbatim from the final draft.
	FillerPhrases []string `json:"filler_phrases" yaml:"filler_phrases"`
}

// CostConfig holds the fixed per-call constants used for the efficiency
// estimates.
type CostConfig struct {
	// SearchCostUSD is the estimated cost of one external search (default 0.01).
	SearchCostUSD float64 `json:"search_cost_usd" yaml:"search_cost_usd"`

	// SearchTimeSeconds is the estimated wall time of one search (default 2.5).
	SearchTimeSeconds float64 `json:"search_time_seconds" yaml:"search_time_seconds"`

	// ReasoningCostUSD is the estimated cost of one reasoning call (default 0.0005).
	ReasoningCostUSD float64 `json:"reasoning_cost_usd" yaml:"reasoning_cost_usd"`
}

// HistoryConfig holds settings for the CLI-layer analysis history store.
// The engine itself is stateless per call; history is presentation-side only.
type HistoryConfig struct {
	// Dir is the directory holding the history database (default "data/history").
	Dir string `json:"dir" yaml:"dir"`
}

// AnalysisConfig groups all stage configurations for one analysis.
type AnalysisConfig struct {
	Classify ClassifyConfig `json:"classify" yaml:"classify"`
	Assess   AssessConfig   `json:"assess" yaml:"assess"`
	Research ResearchConfig `json:"research" yaml:"research"`
	Compose  ComposeConfig  `json:"compose" yaml:"compose"`
	Cost     CostConfig     `json:"cost" yaml:"cost"`
	History  HistoryConfig  `json:"history" yaml:"history"`
}

// DefaultAnalysisConfig returns the configuration used when no config file
// overrides are present.
func DefaultAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{
		Classify: ClassifyConfig{
			GenericTerms: []string{
				"ai", "machine learning", "cloud computing",
				"data processing", "partnership", "startup",
			},
		},
		Assess: AssessConfig{
			AIConfig: AIConfig{
				Model:      "llama-3.3-70b-versatile",
				MaxRetries: 3,
				Timeout:    30 * time.Second,
			},
			ConfidenceFloor: 0.5,
			KnownEntities: []string{
				"Google", "Microsoft", "Apple", "Amazon", "Meta", "IBM",
			},
		},
		Research: ResearchConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   20 * time.Second,
				UserAgent: "inbox-intel/0.1",
			},
			SearchBudget: 3,
			MaxSnippets:  5,
			MaxParallel:  2,
			Depth:        "standard",
		},
		Compose: ComposeConfig{
			AIConfig: AIConfig{
				Model:      "llama-3.3-70b-versatile",
				MaxRetries: 3,
				Timeout:    45 * time.Second,
			},
			FillerPhrases: []string{
				"I hope this email finds you well.",
				"I hope this message finds you well.",
				"Hope this finds you well.",
				"I hope you're doing well.",
				"Just wanted to touch base.",
				"Please don't hesitate to reach out.",
				"Thank you for reaching out.",
			},
		},
		Cost: CostConfig{
			SearchCostUSD:     0.01,
			SearchTimeSeconds: 2.5,
			ReasoningCostUSD:  0.0005,
		},
		History: HistoryConfig{
			Dir: "data/history",
		},
	}
}
