// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ReasoningStep is one entry in the analysis trace shown to the user.
type ReasoningStep struct {
	// Timestamp is the wall-clock time of the step, formatted HH:MM:SS.
	Timestamp string `json:"timestamp" yaml:"timestamp"`

	// Step is the human-readable description of what happened.
	Step string `json:"step" yaml:"step"`

	// Level is one of "info", "success", "warning", "error".
	Level string `json:"level" yaml:"level"`
}

// PhaseTimings records how long each analysis phase took, in seconds.
type PhaseTimings struct {
	AssessmentSeconds float64 `json:"assessment_seconds" yaml:"assessment_seconds"`
	ResearchSeconds   float64 `json:"research_seconds" yaml:"research_seconds"`
	DraftSeconds      float64 `json:"draft_seconds" yaml:"draft_seconds"`
	TotalSeconds      float64 `json:"total_seconds" yaml:"total_seconds"`
}

// AnalysisResult is the complete outcome of one analysis call: a plain
// structured record consumed by a presentation layer. All contained values
// are created during the call and never mutated afterward.
type AnalysisResult struct {
	// RunID uniquely identifies this analysis invocation.
	RunID string `json:"run_id" yaml:"run_id"`

	// Timestamp is when the analysis started, RFC 3339.
	Timestamp string `json:"timestamp" yaml:"timestamp"`

	// Subject and SelfParty echo the request for display.
	Subject   string `json:"subject,omitempty" yaml:"subject,omitempty"`
	SelfParty string `json:"self_party,omitempty" yaml:"self_party,omitempty"`

	// Entities are the deduplicated input entities in discovery order.
	Entities []Entity `json:"entities" yaml:"entities"`

	// Decisions holds one decision per entity, in entity order.
	Decisions []Decision `json:"decisions" yaml:"decisions"`

	// Research maps entity name to its search outcome. Present only for
	// entities with source external_search and a completed attempt.
	Research map[string]ResearchResult `json:"research,omitempty" yaml:"research,omitempty"`

	// Stats are the efficiency/cost metrics for this run.
	Stats EfficiencyStats `json:"stats" yaml:"stats"`

	// Draft is the final reply text. Empty for partial results.
	Draft string `json:"draft,omitempty" yaml:"draft,omitempty"`

	// Quality describes the final draft. Zero value for partial results.
	Quality DraftQuality `json:"quality" yaml:"quality"`

	// Trace is the ordered reasoning step log.
	Trace []ReasoningStep `json:"trace,omitempty" yaml:"trace,omitempty"`

	// Timings records per-phase durations.
	Timings PhaseTimings `json:"timings" yaml:"timings"`

	// Partial is true when the caller cancelled mid-batch: the collected
	// decisions and statistics are valid, but no draft was produced.
	Partial bool `json:"partial,omitempty" yaml:"partial,omitempty"`
}
