// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/pdiddy/inbox-intel/pkg/types"
)

// --- mock backend ---

type mockBackend struct {
	mu       sync.Mutex
	queries  []string
	snippets map[string][]types.Snippet
	errs     map[string]error
	calls    int32
}

func (m *mockBackend) Name() string { return "mock" }

func (m *mockBackend) Search(_ context.Context, query string, _ int) ([]types.Snippet, error) {
	atomic.AddInt32(&m.calls, 1)
	m.mu.Lock()
	m.queries = append(m.queries, query)
	m.mu.Unlock()
	if err, ok := m.errs[query]; ok {
		return nil, err
	}
	return m.snippets[query], nil
}

func testCfg() types.ResearchConfig {
	return types.ResearchConfig{
		HTTPConfig:  types.HTTPConfig{Timeout: 5 * time.Second, UserAgent: "test/0.1"},
		MaxSnippets: 5,
		MaxParallel: 2,
	}
}

func target(name string, typ types.EntityType) Target {
	return Target{Entity: types.Entity{Name: name, Type: typ}}
}

// --- query building ---

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		name   string
		entity types.Entity
		want   string
	}{
		{"company", types.Entity{Name: "TechnoVision Inc", Type: types.EntityCompany}, `"TechnoVision Inc" company`},
		{"person", types.Entity{Name: "Alex Chen", Type: types.EntityPerson}, "Alex Chen professional background"},
		{"product", types.Entity{Name: "DataFlow", Type: types.EntityProduct}, `"DataFlow" product`},
		{"concept", types.Entity{Name: "quantum networking", Type: types.EntityConcept}, "quantum networking overview"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildQuery(tt.entity); got != tt.want {
				t.Errorf("BuildQuery = %q, want %q", got, tt.want)
			}
		})
	}
}

// --- Execute ---

func TestExecuteRecordsResults(t *testing.T) {
	backend := &mockBackend{
		snippets: map[string][]types.Snippet{
			`"TechnoVision Inc" company`: {
				{Title: "Series A", URL: "https://example.com/1", Excerpt: "raised $5M"},
				{Title: "Blog", URL: "https://example.com/2", Excerpt: "about us"},
			},
		},
	}

	var buf bytes.Buffer
	got := Execute(context.Background(), backend, []Target{
		target("TechnoVision Inc", types.EntityCompany),
	}, testCfg(), &buf)

	r, ok := got["TechnoVision Inc"]
	if !ok {
		t.Fatal("missing result for TechnoVision Inc")
	}
	if r.SourceCount != 2 {
		t.Errorf("SourceCount = %d, want 2", r.SourceCount)
	}
	if r.Failed() {
		t.Errorf("unexpected error: %q", r.Err)
	}
}

func TestExecuteSuggestedQueryWins(t *testing.T) {
	backend := &mockBackend{}
	var buf bytes.Buffer
	Execute(context.Background(), backend, []Target{
		{Entity: types.Entity{Name: "X Corp", Type: types.EntityCompany}, Query: "X Corp funding 2026"},
	}, testCfg(), &buf)

	if len(backend.queries) != 1 || backend.queries[0] != "X Corp funding 2026" {
		t.Errorf("queries = %v, want the suggested query", backend.queries)
	}
}

func TestExecuteFailureDoesNotAbortBatch(t *testing.T) {
	backend := &mockBackend{
		errs: map[string]error{`"Failing Co" company`: fmt.Errorf("boom")},
		snippets: map[string][]types.Snippet{
			`"Working Co" company`: {{Title: "t", URL: "u", Excerpt: "e"}},
		},
	}

	var buf bytes.Buffer
	got := Execute(context.Background(), backend, []Target{
		target("Failing Co", types.EntityCompany),
		target("Working Co", types.EntityCompany),
	}, testCfg(), &buf)

	failed := got["Failing Co"]
	if !failed.Failed() {
		t.Error("Failing Co should be marked failed")
	}
	if failed.SourceCount != 0 {
		t.Errorf("failed SourceCount = %d, want 0", failed.SourceCount)
	}
	if got["Working Co"].SourceCount != 1 {
		t.Errorf("Working Co SourceCount = %d, want 1", got["Working Co"].SourceCount)
	}
	if !strings.Contains(buf.String(), "warning:") {
		t.Error("output should warn about the failed search")
	}
}

func TestExecuteSingleAttemptPerEntity(t *testing.T) {
	backend := &mockBackend{
		errs: map[string]error{`"Failing Co" company`: fmt.Errorf("boom")},
	}

	var buf bytes.Buffer
	Execute(context.Background(), backend, []Target{
		target("Failing Co", types.EntityCompany),
	}, testCfg(), &buf)

	if n := atomic.LoadInt32(&backend.calls); n != 1 {
		t.Errorf("calls = %d, want exactly 1 (no retries)", n)
	}
}

func TestExecuteBoundsSnippets(t *testing.T) {
	many := make([]types.Snippet, 10)
	for i := range many {
		many[i] = types.Snippet{Title: fmt.Sprintf("t%d", i)}
	}
	backend := &mockBackend{
		snippets: map[string][]types.Snippet{`"X" company`: many},
	}

	cfg := testCfg()
	cfg.MaxSnippets = 3
	var buf bytes.Buffer
	got := Execute(context.Background(), backend, []Target{
		target("X", types.EntityCompany),
	}, cfg, &buf)

	if got["X"].SourceCount != 3 {
		t.Errorf("SourceCount = %d, want 3", got["X"].SourceCount)
	}
}

func TestExecuteCancelledBeforeStartRecordsNothing(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	backend := &mockBackend{}
	var buf bytes.Buffer
	got := Execute(ctx, backend, []Target{
		target("X", types.EntityCompany),
		target("Y", types.EntityCompany),
	}, testCfg(), &buf)

	if len(got) != 0 {
		t.Errorf("len(results) = %d, want 0 for a cancelled batch", len(got))
	}
}

// --- Linkup backend ---

const sampleLinkupJSON = `{
  "results": [
    {"type": "text", "name": "TechnoVision Series A", "url": "https://example.com/1", "content": "TechnoVision raised $5M in seed funding."},
    {"type": "text", "name": "TechnoVision Blog", "url": "https://example.com/2", "content": "Real-time data processing solutions."}
  ]
}`

func TestLinkupBackendSearch(t *testing.T) {
	var gotAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, sampleLinkupJSON)
	}))
	defer ts.Close()

	cfg := testCfg()
	cfg.APIKey = "lk-test"
	b := &LinkupBackend{Config: cfg, Client: ts.Client(), BaseURL: ts.URL}

	snippets, err := b.Search(context.Background(), `"TechnoVision Inc" company`, 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(snippets) != 2 {
		t.Fatalf("len(snippets) = %d, want 2", len(snippets))
	}
	if snippets[0].Title != "TechnoVision Series A" {
		t.Errorf("Title = %q", snippets[0].Title)
	}
	if snippets[0].URL != "https://example.com/1" {
		t.Errorf("URL = %q", snippets[0].URL)
	}
	if gotAuth != "Bearer lk-test" {
		t.Errorf("Authorization = %q", gotAuth)
	}
}

func TestLinkupBackendZeroResultsIsValid(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"results": []}`)
	}))
	defer ts.Close()

	b := &LinkupBackend{Config: testCfg(), Client: ts.Client(), BaseURL: ts.URL}
	snippets, err := b.Search(context.Background(), "anything", 5)
	if err != nil {
		t.Fatalf("zero results must not be an error: %v", err)
	}
	if len(snippets) != 0 {
		t.Errorf("len(snippets) = %d, want 0", len(snippets))
	}
}

func TestLinkupBackendErrorOnBadStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "denied", http.StatusForbidden)
	}))
	defer ts.Close()

	b := &LinkupBackend{Config: testCfg(), Client: ts.Client(), BaseURL: ts.URL}
	if _, err := b.Search(context.Background(), "anything", 5); err == nil {
		t.Error("expected error on HTTP 403")
	}
}

func TestLinkupBackendTruncatesExcerpts(t *testing.T) {
	long := strings.Repeat("x", 500)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, `{"results":[{"name":"n","url":"u","content":%q}]}`, long)
	}))
	defer ts.Close()

	b := &LinkupBackend{Config: testCfg(), Client: ts.Client(), BaseURL: ts.URL}
	snippets, err := b.Search(context.Background(), "q", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(snippets[0].Excerpt) != excerptLimit {
		t.Errorf("excerpt length = %d, want %d", len(snippets[0].Excerpt), excerptLimit)
	}
}

func TestLinkupBackendTruncatesOnRuneBoundary(t *testing.T) {
	// 3-byte runes; 200 is not a multiple of 3, so a byte-index cut would
	// split the rune at the limit.
	long := strings.Repeat("€", 100)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, `{"results":[{"name":"n","url":"u","content":%q}]}`, long)
	}))
	defer ts.Close()

	b := &LinkupBackend{Config: testCfg(), Client: ts.Client(), BaseURL: ts.URL}
	snippets, err := b.Search(context.Background(), "q", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	excerpt := snippets[0].Excerpt
	if !utf8.ValidString(excerpt) {
		t.Errorf("excerpt is not valid UTF-8: %q", excerpt)
	}
	if len(excerpt) > excerptLimit {
		t.Errorf("excerpt length = %d, want at most %d", len(excerpt), excerptLimit)
	}
	if len(excerpt) != 198 {
		t.Errorf("excerpt length = %d, want 198 (nearest rune boundary)", len(excerpt))
	}
}
