// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assess

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/inbox-intel/internal/reasoning"
	"github.com/pdiddy/inbox-intel/pkg/types"
)

// --- mock backend ---

type mockBackend struct {
	verdict Verdict
	err     error
}

func (m *mockBackend) Assess(_ context.Context, _ types.Entity, _ string) (Verdict, error) {
	return m.verdict, m.err
}

func testCfg() types.AssessConfig {
	return types.AssessConfig{
		ConfidenceFloor: 0.5,
		KnownEntities:   []string{"Google", "Microsoft", "Amazon"},
	}
}

func newAssessor(b Backend) *Assessor {
	return &Assessor{Backend: b, Config: testCfg()}
}

func company(name string) types.Entity {
	return types.Entity{Name: name, Type: types.EntityCompany}
}

// --- policy ---

func TestAssessWellKnownDefaultsToLocal(t *testing.T) {
	// Even when the collaborator says search, a well-known entity without a
	// recency need stays local.
	a := newAssessor(&mockBackend{verdict: Verdict{
		NeedsSearch: true,
		Confidence:  0.7,
		Rationale:   "unsure",
	}})

	got := a.Assess(context.Background(), company("Google"), "general partnership discussion")
	if got.Decision.Source != types.SourceLocalKnowledge {
		t.Errorf("source = %q, want local_knowledge", got.Decision.Source)
	}
	if got.Decision.Confidence < 0.9 {
		t.Errorf("confidence = %f, want >= 0.9", got.Decision.Confidence)
	}
	if got.Decision.Tier != types.TierSkip {
		t.Errorf("tier = %q, want SKIP", got.Decision.Tier)
	}
}

func TestAssessWellKnownWithRecencyNeedSearches(t *testing.T) {
	a := newAssessor(&mockBackend{verdict: Verdict{
		NeedsSearch: true,
		Confidence:  0.8,
		Rationale:   "needs latest numbers",
	}})

	got := a.Assess(context.Background(), company("Google"), "what did they announce this week?")
	if got.Decision.Source != types.SourceExternalSearch {
		t.Errorf("source = %q, want external_search", got.Decision.Source)
	}
}

func TestAssessWellKnownWithFutureYearSearches(t *testing.T) {
	a := newAssessor(&mockBackend{verdict: Verdict{NeedsSearch: true, Confidence: 0.8}})

	year := time.Now().Year() + 1
	email := fmt.Sprintf("their %d roadmap matters to us", year)
	got := a.Assess(context.Background(), company("Microsoft"), email)
	if got.Decision.Source != types.SourceExternalSearch {
		t.Errorf("source = %q, want external_search", got.Decision.Source)
	}
}

func TestAssessLowConfidenceLocalFallsBackToSearch(t *testing.T) {
	a := newAssessor(&mockBackend{verdict: Verdict{
		NeedsSearch: false,
		Confidence:  0.3,
		Rationale:   "probably fine",
	}})

	got := a.Assess(context.Background(), company("TechnoVision Inc"), "")
	if got.Decision.Source != types.SourceExternalSearch {
		t.Errorf("source = %q, want external_search (below floor)", got.Decision.Source)
	}
	if !strings.Contains(got.Decision.Rationale, "below floor") {
		t.Errorf("rationale = %q, should mention the floor", got.Decision.Rationale)
	}
}

func TestAssessConfidentLocalStands(t *testing.T) {
	a := newAssessor(&mockBackend{verdict: Verdict{
		NeedsSearch: false,
		Confidence:  0.85,
		Rationale:   "stable public information",
		KnownInfo:   "enterprise database vendor",
	}})

	got := a.Assess(context.Background(), company("Oracle"), "")
	if got.Decision.Source != types.SourceLocalKnowledge {
		t.Errorf("source = %q, want local_knowledge", got.Decision.Source)
	}
	if got.Decision.KnownInfo != "enterprise database vendor" {
		t.Errorf("KnownInfo = %q", got.Decision.KnownInfo)
	}
}

func TestAssessBackendErrorFailsOpen(t *testing.T) {
	a := newAssessor(&mockBackend{err: fmt.Errorf("network down")})

	got := a.Assess(context.Background(), company("TechnoVision Inc"), "")
	if got.Decision.Source != types.SourceExternalSearch {
		t.Errorf("source = %q, want external_search", got.Decision.Source)
	}
	if got.Decision.Confidence != 0 {
		t.Errorf("confidence = %f, want 0", got.Decision.Confidence)
	}
	if got.Decision.Rationale != "assessment_failed" {
		t.Errorf("rationale = %q, want assessment_failed", got.Decision.Rationale)
	}
}

func TestAssessClampsConfidence(t *testing.T) {
	a := newAssessor(&mockBackend{verdict: Verdict{
		NeedsSearch: true,
		Confidence:  3.5,
	}})

	got := a.Assess(context.Background(), company("TechnoVision Inc"), "")
	if got.Decision.Confidence != 1.0 {
		t.Errorf("confidence = %f, want clamped to 1.0", got.Decision.Confidence)
	}
}

func TestAssessCarriesOriginatorFlag(t *testing.T) {
	a := newAssessor(&mockBackend{verdict: Verdict{
		NeedsSearch: true,
		Confidence:  0.8,
		Originator:  true,
	}})

	got := a.Assess(context.Background(), company("TechnoVision Inc"), "")
	if !got.Originator {
		t.Error("Originator flag should be carried through")
	}
}

func TestNeedsRecentInfo(t *testing.T) {
	now := time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"plain", "a partnership proposal", false},
		{"marker", "their latest funding round", true},
		{"current year", "results for 2026", true},
		{"future year", "the 2027 roadmap", true},
		{"past year", "founded in 2019", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NeedsRecentInfo(tt.text, now); got != tt.want {
				t.Errorf("NeedsRecentInfo(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

// --- Groq backend ---

func groqClient(url string, hc *http.Client) *reasoning.Client {
	return &reasoning.Client{
		Config:     types.AIConfig{Model: "m", APIKey: "k", MaxRetries: 1},
		HTTPClient: hc,
		BaseURL:    url,
	}
}

func TestGroqBackendParsesVerdict(t *testing.T) {
	answer := `{"needs_search": true, "confidence": 0.8, "reasoning": "unknown startup", "known_info": "", "search_query": "TechnoVision Inc funding", "originator": true}`
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, `{"choices":[{"message":{"content":%q}}]}`, "```json\n"+answer+"\n```")
	}))
	defer ts.Close()

	b := &GroqBackend{Client: groqClient(ts.URL, ts.Client())}
	got, err := b.Assess(context.Background(), company("TechnoVision Inc"), "email text")
	if err != nil {
		t.Fatalf("Assess: %v", err)
	}
	if !got.NeedsSearch {
		t.Error("NeedsSearch = false, want true")
	}
	if got.Confidence != 0.8 {
		t.Errorf("Confidence = %f, want 0.8", got.Confidence)
	}
	if got.SearchQuery != "TechnoVision Inc funding" {
		t.Errorf("SearchQuery = %q", got.SearchQuery)
	}
	if !got.Originator {
		t.Error("Originator = false, want true")
	}
}

func TestGroqBackendUnparseableAnswerIsError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"choices":[{"message":{"content":"I think you should search for it."}}]}`)
	}))
	defer ts.Close()

	b := &GroqBackend{Client: groqClient(ts.URL, ts.Client())}
	_, err := b.Assess(context.Background(), company("X"), "")
	if err == nil {
		t.Error("expected parse error for free-form answer")
	}
}
